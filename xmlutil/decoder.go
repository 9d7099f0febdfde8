package xmlutil

import (
	"encoding/xml"
	"io"

	"golang.org/x/net/html/charset"
)

// NewDecoder returns a strict xml.Decoder reading from r which also
// accepts documents declaring a non UTF-8 encoding, as some scanner
// firmware emits ISO-8859-1 or windows-1252 documents.
func NewDecoder(r io.Reader) *xml.Decoder {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	return d
}
