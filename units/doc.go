/*
Package units provides the physical length types used by eSCL
scan settings and scanner capabilities.

The protocol measures every region, margin and size limit in
DeviceUnits, three hundredths of an inch. Callers tend to think
in millimeters or inches, so each unit converts to each other one,
and lengths are compared after normalizing to DeviceUnits.
*/
package units
