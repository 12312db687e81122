// Package diag defines the diagnostic model shared by all pipeline phases.
//
// Diagnostic is the central record: a Severity (Note, Warning, Error, Bug),
// a numeric Code with a stable string form, a message, one primary Label
// plus optional secondary Labels pointing at related spans, and free-form
// note lines. Producers emit through the Reporter interface; Bag is the
// accumulating implementation the driver inspects after a compile.
//
// The package performs no formatting or IO. Rendering lives in
// internal/diagfmt; orchestration lives in internal/driver.
//
// Emission order is preserved by Bag; Sort produces the deterministic
// file/offset order used for final CLI output. Phases never panic on user
// input — invariant violations surface as SevBug diagnostics instead.
package diag
