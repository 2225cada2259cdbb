package tracing

// Spanned can be implemented by objects that carry the spans involved in producing them,
// such as the Trace of a Handler.
type Spanned interface {
	Spans() []Span
}

// Mergeable represents a Spanned which can be merged with other spans
type Mergeable interface {
	Spanned

	// WithSpans returns an instance of this object with the new Spans, possibly
	// merged into those returned by Spans.  This method should generally return
	// a shallow copy of itself with the new spans, to preserve immutability.
	WithSpans(...Span) interface{}
}

// Spans extracts the slice of Span instances from a container, if possible.
//
//	If container implements Spanned, then container.Spans() is returned with a true.
//	If container is a Span, a slice of that one element is returned with a true.
//	If container is a []Span, it's returned as is with a true.
//	Otherwise, this function returns nil, false.
func Spans(container interface{}) ([]Span, bool) {
	switch v := container.(type) {
	case Span:
		return []Span{v}, true
	case []Span:
		return v, true
	case Spanned:
		return v.Spans(), true
	default:
		return nil, false
	}
}

// MergeSpans attempts to merge the given spans into a container.  If container does not
// implement Mergeable, or if there is nothing to merge, then this function returns container
// as is with a false.
//
// Similar to Spans, each element of spans may be of type Span, []Span, or Spanned.  Any other type is skipped without error.
func MergeSpans(container interface{}, spans ...interface{}) (interface{}, bool) {
	mergeable, ok := container.(Mergeable)
	if !ok {
		return container, false
	}

	var merged []Span
	for _, s := range spans {
		if more, ok := Spans(s); ok {
			merged = append(merged, more...)
		}
	}

	if len(merged) == 0 {
		return container, false
	}

	// copy the existing spans so the original container is never modified
	existing := mergeable.Spans()
	all := make([]Span, 0, len(existing)+len(merged))
	all = append(all, existing...)
	return mergeable.WithSpans(append(all, merged...)...), true
}

// Trace is an immutable, ordered collection of finished spans
type Trace []Span

func (t Trace) Spans() []Span {
	return t
}

func (t Trace) WithSpans(spans ...Span) interface{} {
	return Trace(spans)
}

// Err returns a SpanError of the spans that finished with an error, or nil if none did
func (t Trace) Err() error {
	var failed SpanError
	for _, s := range t {
		if s.Error() != nil {
			failed = append(failed, s)
		}
	}

	if len(failed) == 0 {
		return nil
	}

	return failed
}

// Children returns the spans whose parent is the given observation id
func (t Trace) Children(id string) Trace {
	var children Trace
	for _, s := range t {
		if s.ParentID() == id {
			children = append(children, s)
		}
	}

	return children
}
