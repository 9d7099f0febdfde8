package schema

import (
	"encoding/xml"
	"io"

	"github.com/pkg/errors"

	"github.com/andaru/escl/xmlutil"
)

// Encoder writes eSCL documents. Names are written with the prefixes of
// the encoder's prefix map, which the root element declares.
type Encoder struct {
	e      *xml.Encoder
	pm     xmlutil.PrefixMap
	order  []string
	opened bool
	err    error
}

// NewEncoder returns an Encoder writing to w using the scan and pwg
// prefixes, declared in that order.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		e:     xml.NewEncoder(w),
		pm:    xmlutil.ESCL(),
		order: []string{xmlutil.PrefixScan, xmlutil.PrefixPWG},
	}
}

// Err returns the first error seen by the encoder.
func (e *Encoder) Err() error { return e.err }

func (e *Encoder) token(t xml.Token) {
	if e.err == nil {
		e.err = errors.WithStack(e.e.EncodeToken(t))
	}
}

func (e *Encoder) attr(name xml.Name, value string) xml.Attr {
	return xml.Attr{Name: e.pm.Qualify(name), Value: value}
}

// Start opens the element name. The first element opened declares the
// prefix map.
func (e *Encoder) Start(name xml.Name, attrs ...xml.Attr) {
	se := xml.StartElement{Name: e.pm.Qualify(name)}
	if !e.opened {
		e.opened = true
		for _, a := range e.pm.OrderedAttr(e.order...) {
			se.Attr = append(se.Attr, xml.Attr{Name: xml.Name{Local: "xmlns:" + a.Name.Local}, Value: a.Value})
		}
	}
	for _, a := range attrs {
		se.Attr = append(se.Attr, e.attr(a.Name, a.Value))
	}
	e.token(se)
}

// End closes the element name.
func (e *Encoder) End(name xml.Name) { e.token(xml.EndElement{Name: e.pm.Qualify(name)}) }

// Text writes a complete element containing value.
func (e *Encoder) Text(name xml.Name, value string) {
	e.Start(name)
	e.token(xml.CharData(value))
	e.End(name)
}

// Close flushes the output, returning the first error seen.
func (e *Encoder) Close() error {
	if e.err != nil {
		return e.err
	}
	return errors.WithStack(e.e.Flush())
}
