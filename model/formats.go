package model

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/andaru/escl/schema"
	"github.com/andaru/escl/xmlerr"
	"github.com/andaru/escl/xmlutil"
)

var (
	nameDocumentFormats   = scan("DocumentFormats")
	nameDocumentFormat    = pwg("DocumentFormat")
	nameDocumentFormatExt = scan("DocumentFormatExt")
)

// DocumentFormats lists the MIME types a setting profile produces.
// Legacy firmware interleaves both lists in any order.
type DocumentFormats struct {
	// Formats are the pwg:DocumentFormat entries.
	Formats []string
	// FormatsExt are the scan:DocumentFormatExt entries.
	FormatsExt []string
}

// All returns every distinct format, extended entries first.
func (f DocumentFormats) All() (out []string) {
	seen := map[string]bool{}
	for _, list := range [][]string{f.FormatsExt, f.Formats} {
		for _, v := range list {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// Supports reports whether mime appears in either list.
func (f DocumentFormats) Supports(mime string) bool {
	for _, v := range f.All() {
		if strings.EqualFold(v, mime) {
			return true
		}
	}
	return false
}

// Encode writes f as a DocumentFormats element.
func (f DocumentFormats) Encode(e *schema.Encoder) {
	e.Start(nameDocumentFormats)
	for _, v := range f.Formats {
		e.Text(nameDocumentFormat, v)
	}
	for _, v := range f.FormatsExt {
		e.Text(nameDocumentFormatExt, v)
	}
	e.End(nameDocumentFormats)
}

// DecodeDocumentFormats decodes a standalone DocumentFormats element.
func DecodeDocumentFormats(r io.Reader) (*DocumentFormats, error) {
	f := &DocumentFormats{}
	_, err := schema.Decode(r, documentFormatsSchema(f))
	if err != nil {
		return nil, err
	}
	return f, nil
}

func documentFormatsSchema(f *DocumentFormats) *schema.Node {
	return schema.Element(nameDocumentFormats, schema.WithDecoder(decodeDocumentFormats(f)))
}

// decodeDocumentFormats decodes the content of a DocumentFormats
// element. Depth 0 is the DocumentFormats element itself, depth 1 a
// format entry. Anything else is malformed.
func decodeDocumentFormats(f *DocumentFormats) schema.DecodeFunc {
	return func(d *schema.Decoder, start xml.StartElement) error {
		*f = DocumentFormats{}
		var (
			depth int
			open  *[]string
			value strings.Builder
		)
		bad := func(name xml.Name, format string, args ...interface{}) error {
			return errors.WithStack(xmlerr.BadElement(name.Local, d.Position(),
				xmlerr.WithMessage(fmt.Sprintf(format, args...))))
		}
		for {
			tok, err := d.Token()
			if err == io.EOF {
				return bad(start.Name, "document ended inside %s", xmlutil.String(start.Name))
			} else if err != nil {
				return errors.WithStack(xmlerr.MalformedMessage(d.Position(), xmlerr.WithCause(err)))
			}

			switch tok := tok.(type) {
			case xml.StartElement:
				if depth > 0 {
					return bad(tok.Name, "unexpected element %s nested in a format entry", xmlutil.String(tok.Name))
				}
				// Vendors disagree on the namespace of format entries.
				switch tok.Name.Local {
				case nameDocumentFormat.Local:
					open = &f.Formats
				case nameDocumentFormatExt.Local:
					open = &f.FormatsExt
				case nameDocumentFormats.Local:
					return bad(tok.Name, "nested %s", xmlutil.String(tok.Name))
				default:
					return bad(tok.Name, "unexpected element %s in %s", xmlutil.String(tok.Name), xmlutil.String(start.Name))
				}
				depth++
				value.Reset()

			case xml.CharData:
				if depth == 0 {
					if s := strings.TrimSpace(string(tok)); s != "" {
						return bad(start.Name, "unexpected text %q outside of a format entry", s)
					}
					continue
				}
				value.Write(tok)

			case xml.EndElement:
				if depth == 0 {
					return nil
				}
				if v := strings.TrimSpace(value.String()); v != "" {
					*open = append(*open, v)
				}
				open = nil
				depth--
			}
		}
	}
}
