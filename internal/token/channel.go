package token

// Channel tags a token with the stream it belongs to. The parser reads the
// Code channel; comments and macro residue are preserved but filtered out.
type Channel uint8

const (
	// ChannelCode carries ordinary program tokens.
	ChannelCode Channel = iota
	// ChannelComment carries `//` and `/* */` comments.
	ChannelComment
	// ChannelMacro carries tokens produced by macro expansion. Their spans
	// point at the invocation site so diagnostics stay anchored in user code.
	ChannelMacro
)

func (c Channel) String() string {
	switch c {
	case ChannelCode:
		return "CODE"
	case ChannelComment:
		return "COMMENT"
	case ChannelMacro:
		return "MACRO"
	}
	return "UNKNOWN"
}
