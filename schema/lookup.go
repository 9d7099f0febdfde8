package schema

import (
	"bytes"
	"fmt"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"
)

// Path returns an XPath expression selecting the input u reported in
// the raw document. Namespaces are ignored since the raw document may
// not use the canonical ones.
func Path(u UnknownInput) string {
	parent := fmt.Sprintf("//*[local-name()='%s']", u.Descriptor.Local)
	switch u.Kind {
	case UnknownElement:
		return parent + fmt.Sprintf("/*[local-name()='%s']", u.Name.Local)
	case UnknownAttribute:
		return parent + fmt.Sprintf("/@*[local-name()='%s']", u.Name.Local)
	}
	return parent + "/text()"
}

// Lookup returns the raw text of every occurrence of u in doc.
func Lookup(doc []byte, u UnknownInput) ([]string, error) {
	root, err := xmlquery.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if u.Kind == UnknownAttribute {
		return lookupAttr(root, u)
	}
	expr, err := xpath.Compile(Path(u))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var out []string
	for _, n := range xmlquery.QuerySelectorAll(root, expr) {
		out = append(out, n.InnerText())
	}
	return out, nil
}

func lookupAttr(root *xmlquery.Node, u UnknownInput) ([]string, error) {
	expr, err := xpath.Compile(fmt.Sprintf("//*[local-name()='%s'][@*[local-name()='%s']]",
		u.Descriptor.Local, u.Name.Local))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var out []string
	for _, n := range xmlquery.QuerySelectorAll(root, expr) {
		for _, a := range n.Attr {
			if a.Name.Local == u.Name.Local {
				out = append(out, a.Value)
			}
		}
	}
	return out, nil
}
