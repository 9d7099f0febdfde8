package schema

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/andaru/escl/quirks"
	"github.com/andaru/escl/xmlerr"
	"github.com/andaru/escl/xmlutil"
)

// UnknownKind is the kind of input a schema did not describe.
type UnknownKind int

const (
	UnknownElement UnknownKind = iota
	UnknownAttribute
	UnknownText
)

func (k UnknownKind) String() string {
	switch k {
	case UnknownElement:
		return "element"
	case UnknownAttribute:
		return "attribute"
	case UnknownText:
		return "text"
	}
	return fmt.Sprintf("UnknownKind(%d)", int(k))
}

// UnknownInput is input which was skipped during decoding.
type UnknownInput struct {
	Kind UnknownKind
	// Descriptor is the name of the element the input appeared in.
	Descriptor xml.Name
	// Name is the element or attribute name. Empty for text.
	Name xml.Name
	// Value is the attribute value or text. Empty for elements.
	Value string
	// Candidates are the names the schema expected at that point.
	Candidates []xml.Name

	Line, Column int
}

func (u UnknownInput) String() string {
	s := fmt.Sprintf("unknown %s", u.Kind)
	if u.Name.Local != "" {
		s += " " + xmlutil.String(u.Name)
	}
	if u.Value != "" {
		s += fmt.Sprintf(" %q", u.Value)
	}
	return s + fmt.Sprintf(" in %s at %d:%d", xmlutil.String(u.Descriptor), u.Line, u.Column)
}

// Result is the outcome of a successful decode.
type Result struct {
	Unknown []UnknownInput
}

// Decoder decodes a document against a schema.
type Decoder struct {
	d       *xml.Decoder
	r       *quirks.Reader
	unknown []UnknownInput
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	d := xmlutil.NewDecoder(r)
	return &Decoder{d: d, r: quirks.NewReader(d)}
}

// Decode decodes a single document from r against root.
func Decode(r io.Reader, root *Node) (Result, error) {
	d := NewDecoder(r)
	err := d.Decode(root)
	return Result{Unknown: d.Unknown()}, err
}

// Unknown returns the unknown input seen so far.
func (d *Decoder) Unknown() []UnknownInput { return d.unknown }

// Token returns the next quirk-normalized token. Character data is
// copied and safe to retain.
func (d *Decoder) Token() (xml.Token, error) {
	tok, err := d.r.Token()
	if err != nil {
		return nil, err
	}
	return xml.CopyToken(tok), nil
}

// InputPos returns the line and column of the input.
func (d *Decoder) InputPos() (line, column int) { return d.r.InputPos() }

// Position returns an xmlerr option for the current input position.
func (d *Decoder) Position() xmlerr.Option { return xmlerr.WithPosition(d.InputPos()) }

// Skip consumes tokens up to and including the end of the element
// which was most recently opened.
func (d *Decoder) Skip() error {
	for depth := 1; depth > 0; {
		tok, err := d.r.Token()
		if err != nil {
			return d.syntaxError(err)
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

// Decode decodes the document's root element against root.
func (d *Decoder) Decode(root *Node) error {
	for {
		tok, err := d.r.Token()
		if err == io.EOF {
			return errors.WithStack(xmlerr.MalformedMessage(
				xmlerr.WithMessage("no root element"), d.Position()))
		} else if err != nil {
			return d.syntaxError(err)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			if tok.Name != root.Name {
				return errors.WithStack(xmlerr.BadElement(tok.Name.Local, d.Position(), xmlerr.WithMessage(
					fmt.Sprintf("unexpected root element %s, want %s", xmlutil.String(tok.Name), xmlutil.String(root.Name)))))
			}
			if root.Custom != nil {
				return root.Custom(d, tok.Copy())
			}
			return d.element(root, tok.Copy())
		case xml.CharData:
			if len(strings.TrimSpace(string(tok))) > 0 {
				return errors.WithStack(xmlerr.MalformedMessage(
					xmlerr.WithMessage("text outside of root element"), d.Position()))
			}
		}
	}
}

func (d *Decoder) element(n *Node, se xml.StartElement) error {
	line, col := d.InputPos()
	if n.Start != nil {
		if err := n.Start(se); err != nil {
			return d.valueError(n, line, col, err)
		}
	}
	for _, attr := range se.Attr {
		if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") {
			continue
		}
		a := n.attr(attr.Name)
		if a == nil {
			d.unknown = append(d.unknown, UnknownInput{
				Kind:       UnknownAttribute,
				Descriptor: n.Name,
				Name:       attr.Name,
				Value:      attr.Value,
				Candidates: n.attrNames(),
				Line:       line,
				Column:     col,
			})
			continue
		}
		if err := a.Set(attr.Value); err != nil {
			return errors.WithStack(xmlerr.BadAttribute(attr.Name.Local, n.Name.Local,
				xmlerr.WithPosition(line, col), xmlerr.WithCause(err)))
		}
	}

	var text strings.Builder
	seen := map[xml.Name]bool{}
	for {
		tok, err := d.r.Token()
		if err == io.EOF {
			return errors.WithStack(xmlerr.MalformedMessage(d.Position(), xmlerr.WithMessage(
				fmt.Sprintf("document ended inside element %s", xmlutil.String(n.Name)))))
		} else if err != nil {
			return d.syntaxError(err)
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			child := n.Child(tok.Name)
			if child == nil {
				cl, cc := d.InputPos()
				d.unknown = append(d.unknown, UnknownInput{
					Kind:       UnknownElement,
					Descriptor: n.Name,
					Name:       tok.Name,
					Candidates: n.childNames(),
					Line:       cl,
					Column:     cc,
				})
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			seen[child.Name] = true
			if child.Custom != nil {
				err = child.Custom(d, tok.Copy())
			} else {
				err = d.element(child, tok.Copy())
			}
			if err != nil {
				return err
			}

		case xml.CharData:
			text.Write(tok)

		case xml.EndElement:
			return d.end(n, strings.TrimSpace(text.String()), seen, line, col)
		}
	}
}

func (d *Decoder) end(n *Node, text string, seen map[xml.Name]bool, line, col int) error {
	switch {
	case n.Text != nil:
		if err := n.Text(text); err != nil {
			return d.valueError(n, line, col, err)
		}
	case text != "":
		d.unknown = append(d.unknown, UnknownInput{
			Kind:       UnknownText,
			Descriptor: n.Name,
			Value:      text,
			Line:       line,
			Column:     col,
		})
	}
	for _, c := range n.Children {
		if c.Required && !seen[c.Name] {
			return errors.WithStack(xmlerr.MissingElement(c.Name.Local, d.Position(), xmlerr.WithMessage(
				fmt.Sprintf("in element %s", xmlutil.String(n.Name)))))
		}
	}
	if n.End != nil {
		if err := n.End(); err != nil {
			return d.valueError(n, line, col, err)
		}
	}
	return nil
}

func (d *Decoder) valueError(n *Node, line, col int, err error) error {
	var xe *xmlerr.Error
	if errors.As(err, &xe) {
		return err
	}
	return errors.WithStack(xmlerr.InvalidValue(n.Name.Local, xmlerr.WithPosition(line, col), xmlerr.WithCause(err)))
}

func (d *Decoder) syntaxError(err error) error {
	return errors.WithStack(xmlerr.MalformedMessage(d.Position(), xmlerr.WithCause(err)))
}
