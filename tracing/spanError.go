package tracing

import "strings"

// SpanError is a simple slice of Spans that implements error.  To be meaningful,
// at least one Span in the slice must have an error.
type SpanError []Span

func (se SpanError) String() string {
	return se.Error()
}

func (se SpanError) Error() string {
	var output strings.Builder
	for _, s := range se {
		if err := s.Error(); err != nil {
			if output.Len() > 0 {
				output.WriteRune(',')
			}

			output.WriteRune('"')
			if name := s.ContextualName(); len(name) > 0 {
				output.WriteString(name)
				output.WriteString(": ")
			}

			output.WriteString(err.Error())
			output.WriteRune('"')
		}
	}

	return output.String()
}

// Unwrap exposes the error of each span to errors.Is and errors.As
func (se SpanError) Unwrap() []error {
	var errs []error
	for _, s := range se {
		if err := s.Error(); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}
