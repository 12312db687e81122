package diag

// Severity defines the importance of a diagnostic.
// Severities are totally ordered; SevBug is the highest.
type Severity uint8

const (
	// SevNote is for purely informational diagnostics.
	SevNote Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	// SevError is for errors that fail the compilation.
	SevError
	// SevBug marks a violated compiler invariant. The driver treats it as fatal.
	SevBug
)

func (s Severity) String() string {
	switch s {
	case SevNote:
		return "NOTE"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	case SevBug:
		return "BUG"
	}
	return "UNKNOWN"
}
