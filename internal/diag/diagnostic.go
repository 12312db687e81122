package diag

import (
	"muscript/internal/source"
)

// Label points at a span involved in a diagnostic. The primary label marks
// the place the message is about; secondary labels add context (previous
// declaration, opening bracket, macro invocation).
type Label struct {
	Span    source.Span
	Msg     string
	Primary bool
}

// PrimaryLabel builds the main label of a diagnostic.
func PrimaryLabel(sp source.Span, msg string) Label {
	return Label{Span: sp, Msg: msg, Primary: true}
}

// SecondaryLabel builds a context label.
func SecondaryLabel(sp source.Span, msg string) Label {
	return Label{Span: sp, Msg: msg}
}

// Diagnostic is a single structured finding produced by any phase.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Labels   []Label
	Notes    []string
}

// Primary returns the span of the first primary label, or the first label's
// span when no label is marked primary.
func (d Diagnostic) Primary() source.Span {
	for i := range d.Labels {
		if d.Labels[i].Primary {
			return d.Labels[i].Span
		}
	}
	if len(d.Labels) > 0 {
		return d.Labels[0].Span
	}
	return source.Span{}
}
