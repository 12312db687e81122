package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows the path exactly as the file set recorded it.
	PathModeAuto PathMode = iota
	// PathModeBasename shows only the final path component.
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	Width     int // максимальная ширина строки исходника, 0 - не ограничено
	ShowNotes bool
}
