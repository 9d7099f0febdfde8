package xmlerr

import (
	"bytes"
	"errors"
	"fmt"
)

// Type represents the class of a decode error
type Type int

const (
	// TypeSyntax is an error from the XML tokenizer: the input is not
	// well-formed XML.
	TypeSyntax Type = iota
	// TypeStructure is a well-formed document with elements or
	// attributes in the wrong place, or required ones missing.
	TypeStructure
	// TypeValue is an element or attribute whose text could not be
	// converted to the field's type.
	TypeValue
)

func (t Type) String() string {
	switch t {
	case TypeSyntax:
		return "syntax"
	case TypeStructure:
		return "structure"
	case TypeValue:
		return "value"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

func (t *Type) UnmarshalText(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "syntax":
		*t = TypeSyntax
	case "structure":
		*t = TypeStructure
	case "value":
		*t = TypeValue
	default:
		return errors.New("unknown value")
	}
	return nil
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Error is an eSCL document decode error.
type Error struct {
	Type      Type   `json:"type"`
	Tag       string `json:"tag"`
	Element   string `json:"element,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Line      int    `json:"line,omitempty"`
	Column    int    `json:"column,omitempty"`
	Message   string `json:"message,omitempty"`
	Err       error  `json:"-"`
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s error tag:%s", e.Type, e.Tag)
	if e.Attribute != "" {
		s += " bad-attribute:" + e.Attribute
	}
	if e.Element != "" {
		s += " bad-element:" + e.Element
	}
	if e.Namespace != "" {
		s += " bad-namespace:" + e.Namespace
	}
	if e.Line > 0 {
		s += fmt.Sprintf(" at %d:%d", e.Line, e.Column)
	}
	if e.Message != "" {
		s += " " + e.Message
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same type and tag, so that
// errors.Is(err, xmlerr.BadElement("")) finds any bad-element error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Tag == t.Tag
}

func newError(typ Type, tag string, opts []Option) *Error {
	e := &Error{Type: typ, Tag: tag}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MalformedMessage reports input which is not well-formed XML.
func MalformedMessage(opts ...Option) *Error {
	return newError(TypeSyntax, "malformed-message", opts)
}

// BadElement reports an element appearing where the document's shape
// does not allow it.
func BadElement(elementName string, opts ...Option) *Error {
	return newError(TypeStructure, "bad-element", append([]Option{withElement(elementName)}, opts...))
}

// MissingElement reports a required element which never appeared.
func MissingElement(elementName string, opts ...Option) *Error {
	return newError(TypeStructure, "missing-element", append([]Option{withElement(elementName)}, opts...))
}

// UnknownNamespace reports an element in a namespace the decoder cannot place.
func UnknownNamespace(elementName, namespace string, opts ...Option) *Error {
	e := newError(TypeStructure, "unknown-namespace", append([]Option{withElement(elementName)}, opts...))
	e.Namespace = namespace
	return e
}

// InvalidValue reports element text that doesn't convert to the expected type.
func InvalidValue(elementName string, opts ...Option) *Error {
	return newError(TypeValue, "invalid-value", append([]Option{withElement(elementName)}, opts...))
}

// BadAttribute reports an attribute whose value doesn't convert.
func BadAttribute(attributeName, elementName string, opts ...Option) *Error {
	e := newError(TypeValue, "bad-attribute", append([]Option{withElement(elementName)}, opts...))
	e.Attribute = attributeName
	return e
}
