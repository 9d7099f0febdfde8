// Package model contains the eSCL domain records and their bindings to
// the wire format.
//
// Records are decoded with the DecodeX functions, which return the value
// together with any input the bindings did not describe. ScanSettings is
// also encoded, in the exact element order scanners expect.
//
// Enumerated values use OrRaw, so a value a scanner reports that this
// package doesn't know survives decoding and re-encoding unchanged.
package model
