package diagfmt

import (
	"fmt"
	"io"
	"strconv"

	"muscript/internal/source"
	"muscript/internal/token"
)

// TokensOpts configures the token dump.
type TokensOpts struct {
	ShowChannel bool
	ShowSpan    bool
	Width       int // обрезка текста токена, 0 - не ограничено
}

// Tokens dumps the tokens of a span one per line:
// <idx> <Kind> [<channel>] [<line>:<col>] <text>
// The text is quoted so control characters and spaces stay visible.
func Tokens(w io.Writer, arena *token.Arena, span token.Span, fs *source.FileSet, opts TokensOpts) {
	for id := span.Start; id < span.End; id++ {
		tok := arena.Get(id)
		fmt.Fprintf(w, "%5d %-10s", id, tok.Kind)
		if opts.ShowChannel {
			fmt.Fprintf(w, " %-7s", tok.Channel)
		}
		if opts.ShowSpan && fs != nil {
			start, _ := fs.Resolve(tok.Span)
			fmt.Fprintf(w, " %4d:%-3d", start.Line, start.Col)
		}
		text := tok.Text
		if opts.Width > 0 {
			text = truncate(text, opts.Width)
		}
		if text != "" {
			fmt.Fprintf(w, " %s", strconv.Quote(text))
		}
		fmt.Fprintln(w)
	}
}
