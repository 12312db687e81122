// Package diagfmt renders accumulated diagnostics for the terminal. The
// core only produces structured diagnostics; everything about presentation
// (colors, carets, path shortening, token dumps) lives here.
package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"muscript/internal/diag"
	"muscript/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по спану каждой метки,
// затем Notes. Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts)
	}
}

// PrettyOne renders a single diagnostic.
func PrettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	prettyOne(w, d, fs, opts)
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	primary := d.Primary()
	head := severityColor(d.Severity, opts.Color)

	if fs != nil && fs.Len() > 0 && !spanIsZero(primary) {
		start, _ := fs.Resolve(primary)
		fmt.Fprintf(w, "%s:%d:%d: ", displayPath(fs, primary.File, opts), start.Line, start.Col)
	}
	fmt.Fprintf(w, "%s %s: %s\n", head.Sprint(d.Severity.String()), d.Code.ID(), d.Message)

	if fs != nil && fs.Len() > 0 {
		for _, label := range d.Labels {
			if spanIsZero(label.Span) {
				continue
			}
			renderLabel(w, label, fs, opts, head)
		}
	}
	if opts.ShowNotes {
		for _, note := range d.Notes {
			fmt.Fprintf(w, "  note: %s\n", note)
		}
	}
}

// renderLabel prints the source line the label points at with a caret
// underline. Multi-line spans are underlined on the first line only.
func renderLabel(w io.Writer, label diag.Label, fs *source.FileSet, opts PrettyOpts, head *color.Color) {
	start, end := fs.Resolve(label.Span)
	file := fs.Get(label.Span.File)
	line := norm.NFC.String(file.GetLine(start.Line))
	line = strings.ReplaceAll(line, "\t", " ")
	if opts.Width > 0 {
		line = truncate(line, opts.Width)
	}

	gutter := fmt.Sprintf("%4d", start.Line)
	fmt.Fprintf(w, "%s | %s\n", gutter, line)

	// подчёркивание: ^ на первой колонке, ~ дальше
	caretStart := int(start.Col) - 1
	caretLen := 1
	if end.Line == start.Line && end.Col > start.Col {
		caretLen = int(end.Col - start.Col)
	}
	if caretStart > len(line) {
		caretStart = len(line)
	}
	underline := strings.Repeat(" ", caretStart) + "^" + strings.Repeat("~", caretLen-1)
	if opts.Width > 0 {
		underline = truncate(underline, opts.Width)
	}
	marker := underline
	if opts.Color {
		marker = head.Sprint(underline)
	}
	if label.Msg != "" {
		fmt.Fprintf(w, "     | %s %s\n", marker, label.Msg)
	} else {
		fmt.Fprintf(w, "     | %s\n", marker)
	}
}

// Summary prints the closing error/warning count line.
func Summary(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	var errs, warns int
	for _, d := range bag.Items() {
		switch {
		case d.Severity >= diag.SevError:
			errs++
		case d.Severity == diag.SevWarning:
			warns++
		}
	}
	parts := make([]string, 0, 2)
	if errs > 0 {
		text := fmt.Sprintf("%d error(s)", errs)
		if opts.Color {
			text = color.New(color.FgRed, color.Bold).Sprint(text)
		}
		parts = append(parts, text)
	}
	if warns > 0 {
		text := fmt.Sprintf("%d warning(s)", warns)
		if opts.Color {
			text = color.New(color.FgYellow).Sprint(text)
		}
		parts = append(parts, text)
	}
	if len(parts) > 0 {
		fmt.Fprintln(w, strings.Join(parts, ", "))
	}
}

func severityColor(sev diag.Severity, enabled bool) *color.Color {
	var c *color.Color
	switch sev {
	case diag.SevBug:
		c = color.New(color.FgMagenta, color.Bold)
	case diag.SevError:
		c = color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgCyan)
	}
	if !enabled {
		c.DisableColor()
	}
	return c
}

func displayPath(fs *source.FileSet, id source.FileID, opts PrettyOpts) string {
	path := fs.Get(id).Path
	if opts.PathMode == PathModeBasename {
		return filepath.Base(path)
	}
	return path
}

func spanIsZero(sp source.Span) bool {
	return sp == source.Span{}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
