/*
Package escl is a set of eSCL (AirScan) scanner client libraries.

eSCL is the driverless scanning protocol spoken over HTTP by most network
scanners and multi-function printers. Scanners are found with DNS-SD,
describe themselves with a ScannerCapabilities XML document, and scan by
accepting a ScanSettings document and serving the resulting pages.

The libraries are layered:

  - units: physical lengths and the 1/300 inch device unit.
  - xmlutil, xmlerr, quirks and schema: namespace handling, decode
    errors, vendor quirk correction and a schema driven XML decoder
    that reports unknown input rather than failing on it.
  - model: the eSCL documents and their enumerations.
  - transport: HTTP requests and the classification of their failures.
  - client: the protocol operations and scan jobs.
  - discovery: mDNS browsing for _uscan._tcp and _uscans._tcp.

See the client sub-directory for an example scan session.
*/
package escl
