package quirks

import (
	"encoding/xml"

	"github.com/andaru/escl/xmlutil"
)

// Rule is a single element rewrite.
type Rule struct {
	// Local is the local name of the elements the rule applies to.
	Local string
	// Rename, if set, replaces the local name.
	Rename string
	// Space, if set, replaces the namespace.
	Space string
}

// Rules are the rewrites applied to every element, in order.
var Rules = []Rule{
	{Local: "ContentType", Space: xmlutil.NSPWG},
	{Local: "SupportedIntent", Rename: "Intent"},
}

// Reader is an xml.TokenReader applying the quirk rewrites to the
// tokens of an underlying xml.Decoder.
type Reader struct {
	d *xml.Decoder
}

var _ xml.TokenReader = (*Reader)(nil)

// NewReader returns a Reader reading tokens from d.
func NewReader(d *xml.Decoder) *Reader { return &Reader{d: d} }

// Token returns the next token with element and attribute names rewritten.
func (r *Reader) Token() (xml.Token, error) {
	tok, err := r.d.Token()
	switch t := tok.(type) {
	case xml.StartElement:
		t = t.Copy()
		t.Name = Element(t.Name)
		for i := range t.Attr {
			t.Attr[i].Name = Attribute(t.Attr[i].Name)
		}
		tok = t
	case xml.EndElement:
		t.Name = Element(t.Name)
		tok = t
	}
	return tok, err
}

// InputPos returns the line and column of the underlying decoder.
func (r *Reader) InputPos() (line, column int) { return r.d.InputPos() }

// Element returns the canonical name for the element name n.
func Element(n xml.Name) xml.Name {
	n.Space = elementSpace(n.Space)
	for _, rule := range Rules {
		if n.Local != rule.Local {
			continue
		}
		if rule.Space != "" {
			n.Space = rule.Space
		}
		if rule.Rename != "" {
			n.Local = rule.Rename
		}
	}
	return n
}

// Attribute returns the canonical name for the attribute name n.
// Unqualified attributes and namespace declarations are left alone.
func Attribute(n xml.Name) xml.Name {
	switch n.Space {
	case xmlutil.PrefixPWG:
		n.Space = xmlutil.NSPWG
	case xmlutil.PrefixScan:
		n.Space = xmlutil.NSScan
	}
	return n
}

func elementSpace(space string) string {
	switch space {
	case xmlutil.NSPWG, xmlutil.PrefixPWG:
		return xmlutil.NSPWG
	default:
		return xmlutil.NSScan
	}
}
