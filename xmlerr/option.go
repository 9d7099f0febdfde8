package xmlerr

// Option is an Error option function
type Option func(*Error)

func WithMessage(msg string) Option { return func(e *Error) { e.Message = msg } }
func WithCause(err error) Option    { return func(e *Error) { e.Err = err } }

// WithPosition records the reader position, as reported by
// xml.Decoder.InputPos.
func WithPosition(line, column int) Option {
	return func(e *Error) { e.Line, e.Column = line, column }
}

func withElement(name string) Option { return func(e *Error) { e.Element = name } }
