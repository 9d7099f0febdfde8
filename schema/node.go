package schema

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// DecodeFunc decodes the element started by start. It must consume
// tokens from d up to and including the matching end element.
type DecodeFunc func(d *Decoder, start xml.StartElement) error

// Node is an element schema node.
type Node struct {
	Name     xml.Name
	Required bool
	Attrs    []*Attr
	Children []*Node

	// Start runs when the element is opened, before its attributes.
	Start func(xml.StartElement) error
	// Text receives the trimmed character data of the element.
	Text func(string) error
	// End runs after the element and all of its content is decoded.
	End func() error
	// Custom, if set, replaces the default decoding of the element.
	Custom DecodeFunc
}

// Attr is an attribute schema node.
type Attr struct {
	Name xml.Name
	Set  func(string) error
}

// NodeOption configures a Node.
type NodeOption func(*Node)

// Element returns a new element schema node.
func Element(name xml.Name, opts ...NodeOption) *Node {
	n := &Node{Name: name}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Append appends children to n, returning n.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Child returns the child of n matching name, or nil.
func (n *Node) Child(name xml.Name) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) attr(name xml.Name) *Attr {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a
		}
	}
	// unqualified attributes match by local name
	if name.Space == "" {
		for _, a := range n.Attrs {
			if a.Name.Local == name.Local {
				return a
			}
		}
	}
	return nil
}

func (n *Node) childNames() (names []xml.Name) {
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	return names
}

func (n *Node) attrNames() (names []xml.Name) {
	for _, a := range n.Attrs {
		names = append(names, a.Name)
	}
	return names
}

// Required marks the node as required within its parent.
func Required(n *Node) { n.Required = true }

// Children sets the children of the node.
func Children(children ...*Node) NodeOption {
	return func(n *Node) { n.Children = append(n.Children, children...) }
}

// OnStart sets the start callback.
func OnStart(fn func(xml.StartElement) error) NodeOption {
	return func(n *Node) { n.Start = fn }
}

// OnText sets the text callback.
func OnText(fn func(string) error) NodeOption {
	return func(n *Node) { n.Text = fn }
}

// OnEnd sets the end callback.
func OnEnd(fn func() error) NodeOption {
	return func(n *Node) { n.End = fn }
}

// WithAttr adds an attribute to the node.
func WithAttr(name xml.Name, set func(string) error) NodeOption {
	return func(n *Node) { n.Attrs = append(n.Attrs, &Attr{Name: name, Set: set}) }
}

// WithDecoder sets a custom decoder for the node.
func WithDecoder(fn DecodeFunc) NodeOption {
	return func(n *Node) { n.Custom = fn }
}

// Parse returns a text callback converting text with parse and
// passing the result to set.
func Parse[T any](parse func(string) (T, error), set func(T)) func(string) error {
	return func(s string) error {
		v, err := parse(s)
		if err != nil {
			return err
		}
		set(v)
		return nil
	}
}

// String returns a text callback storing text in p.
func String(p *string) func(string) error {
	return func(s string) error {
		*p = s
		return nil
	}
}

// Strings returns a text callback appending text to p.
func Strings(p *[]string) func(string) error {
	return func(s string) error {
		*p = append(*p, s)
		return nil
	}
}

// Int returns a text callback storing a decimal integer in p.
func Int(p *int) func(string) error {
	return Parse(strconv.Atoi, func(v int) { *p = v })
}

// ParseInt parses a decimal integer.
func ParseInt(s string) (int, error) { return strconv.Atoi(s) }

// ParseUint32 parses a decimal unsigned 32 bit integer.
func ParseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err
}

// ParseUint parses a decimal unsigned integer.
func ParseUint(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 0)
	return uint(v), err
}

// ParseFloat parses a decimal floating point number.
func ParseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

// ParseBool parses an xsd:boolean ("true", "false", "1" or "0").
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, strconv.ErrSyntax
}
