package diag

import "muscript/internal/source"

// Reporter — минимальный контракт получения диагностик от фаз.
// Реализации: BagReporter (кладёт в Bag), NopReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder accumulates diagnostic details before emitting to a Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to a Reporter.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag: Diagnostic{
			Severity: sev,
			Code:     code,
			Message:  msg,
			Labels:   []Label{PrimaryLabel(primary, "")},
		},
	}
}

// Error is a shortcut for SevError diagnostics.
func Error(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

// Warning is a shortcut for SevWarning diagnostics.
func Warning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

// Note is a shortcut for SevNote diagnostics.
func Note(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevNote, code, primary, msg)
}

// Bug is a shortcut for SevBug diagnostics. The standard note asks the
// user to file an issue; invariant violations are never the user's fault.
func Bug(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	b := NewReportBuilder(r, SevBug, code, primary, msg)
	return b.WithNote("this is a bug in the compiler; please file an issue")
}

// WithPrimaryMsg sets the message shown at the primary label.
func (b *ReportBuilder) WithPrimaryMsg(msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	for i := range b.diag.Labels {
		if b.diag.Labels[i].Primary {
			b.diag.Labels[i].Msg = msg
			break
		}
	}
	return b
}

// WithLabel appends a secondary label.
func (b *ReportBuilder) WithLabel(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Labels = append(b.diag.Labels, SecondaryLabel(sp, msg))
	return b
}

// WithNote appends a free-standing note line.
func (b *ReportBuilder) WithNote(msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Notes = append(b.diag.Notes, msg)
	return b
}

// Emit sends the diagnostic to the underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns the accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter — адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter drops every diagnostic.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}
