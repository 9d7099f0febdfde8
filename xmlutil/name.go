package xmlutil

import "encoding/xml"

const (
	// NSScan is the scan-specific eSCL namespace, bound to prefix "scan".
	NSScan = "http://schemas.hp.com/imaging/escl/2011/05/03"
	// NSPWG is the PWG semantic model namespace, bound to prefix "pwg".
	NSPWG = "http://www.pwg.org/schemas/2010/12/sm"

	PrefixScan = "scan"
	PrefixPWG  = "pwg"
)

// XMLName is a shortcut for creating xml.Name, where typically you want at least
// a local name, and perhaps a namespace value as well.
func XMLName(local string, spaces ...string) xml.Name {
	n := xml.Name{Local: local}
	if len(spaces) > 0 {
		n.Space = spaces[0]
	}
	return n
}

// Scan returns the name local in the scan namespace.
func Scan(local string) xml.Name { return xml.Name{Space: NSScan, Local: local} }

// PWG returns the name local in the PWG namespace.
func PWG(local string) xml.Name { return xml.Name{Space: NSPWG, Local: local} }

// String formats n as Clark notation, {space}local, or just local
// when there is no namespace.
func String(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}
