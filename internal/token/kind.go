package token

// Kind represents the category of a source token.
//
// Keywords are deliberately absent: UnrealScript keywords are
// case-insensitive and context-dependent, so the lexer emits Ident and the
// parser recognizes keywords by folded source text.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token (including keywords).
	Ident
	// IntLit represents a decimal or hex integer literal.
	IntLit
	// FloatLit represents a float literal.
	FloatLit
	// StringLit represents a double-quoted string literal.
	StringLit
	// NameLit represents a single-quoted name literal.
	NameLit
	// Comment represents a line or block comment (Comment channel).
	Comment
	// Blob represents a raw character region captured by text_blob.
	Blob

	// Plus represents the plus operator token.
	Plus // +
	// Minus represents the minus operator token.
	Minus // -
	// Star represents the star operator token.
	Star // *
	// Slash represents the slash operator token.
	Slash // /
	// Percent represents the percent operator token.
	Percent // %
	// StarStar represents the exponentiation operator token.
	StarStar // **
	// PlusPlus represents the increment operator token.
	PlusPlus // ++
	// MinusMinus represents the decrement operator token.
	MinusMinus // --
	// Bang represents the logical-not operator token.
	Bang // !
	// Tilde represents the bitwise-not operator token.
	Tilde // ~
	// EqEq represents the equality operator token.
	EqEq // ==
	// BangEq represents the inequality operator token.
	BangEq // !=
	// TildeEq represents the approximate-equality operator token.
	TildeEq // ~=
	// Lt represents the less-than operator token.
	Lt // <
	// LtEq represents the less-or-equal operator token.
	LtEq // <=
	// Gt represents the greater-than operator token.
	Gt // >
	// GtEq represents the greater-or-equal operator token.
	GtEq // >=
	// Shl represents the shift-left operator token.
	Shl // <<
	// Shr represents the arithmetic shift-right operator token.
	Shr // >>
	// ShrShr represents the logical shift-right operator token.
	ShrShr // >>>
	// AndAnd represents the logical-and operator token.
	AndAnd // &&
	// OrOr represents the logical-or operator token.
	OrOr // ||
	// CaretCaret represents the logical-xor operator token.
	CaretCaret // ^^
	// Amp represents the bitwise-and operator token.
	Amp // &
	// Pipe represents the bitwise-or operator token.
	Pipe // |
	// Caret represents the bitwise-xor operator token.
	Caret // ^
	// Dollar represents the string-concatenation operator token.
	Dollar // $
	// At represents the spaced string-concatenation operator token.
	At // @
	// Assign represents the assignment operator token.
	Assign // =
	// PlusAssign represents the compound add-assign operator token.
	PlusAssign // +=
	// MinusAssign represents the compound subtract-assign operator token.
	MinusAssign // -=
	// StarAssign represents the compound multiply-assign operator token.
	StarAssign // *=
	// SlashAssign represents the compound divide-assign operator token.
	SlashAssign // /=
	// DollarAssign represents the compound concat-assign operator token.
	DollarAssign // $=
	// AtAssign represents the compound spaced-concat-assign operator token.
	AtAssign // @=
	// Dot represents the member access operator token.
	Dot // .
	// DotDot represents the range operator token.
	DotDot // ..
	// Comma represents the comma token.
	Comma // ,
	// Semicolon represents the semicolon token.
	Semicolon // ;
	// Colon represents the colon token.
	Colon // :
	// ColonColon represents the scope resolution operator token.
	ColonColon // ::
	// Question represents the ternary operator token.
	Question // ?
	// Backtick introduces a preprocessor directive or macro expansion.
	Backtick // `
	// Hash represents the length-of-string operator token.
	Hash // #

	// LParen represents the left parenthesis token.
	LParen // (
	// RParen represents the right parenthesis token.
	RParen // )
	// LBrace represents the left brace token.
	LBrace // {
	// RBrace represents the right brace token.
	RBrace // }
	// LBracket represents the left bracket token.
	LBracket // [
	// RBracket represents the right bracket token.
	RBracket // ]
)

// IsLiteral reports whether the token kind is a literal.
func (k Kind) IsLiteral() bool {
	switch k {
	case IntLit, FloatLit, StringLit, NameLit:
		return true
	default:
		return false
	}
}

// IsOpenDelim reports whether the kind opens a bracketed region.
func (k Kind) IsOpenDelim() bool {
	switch k {
	case LParen, LBrace, LBracket:
		return true
	default:
		return false
	}
}

// IsCloseDelim reports whether the kind closes a bracketed region.
func (k Kind) IsCloseDelim() bool {
	switch k {
	case RParen, RBrace, RBracket:
		return true
	default:
		return false
	}
}

// Matching returns the closing kind for an opening delimiter and vice versa.
func (k Kind) Matching() Kind {
	switch k {
	case LParen:
		return RParen
	case RParen:
		return LParen
	case LBrace:
		return RBrace
	case RBrace:
		return LBrace
	case LBracket:
		return RBracket
	case RBracket:
		return LBracket
	default:
		return Invalid
	}
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF", Ident: "Ident",
	IntLit: "IntLit", FloatLit: "FloatLit", StringLit: "StringLit", NameLit: "NameLit",
	Comment: "Comment", Blob: "Blob",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", StarStar: "**",
	PlusPlus: "++", MinusMinus: "--", Bang: "!", Tilde: "~",
	EqEq: "==", BangEq: "!=", TildeEq: "~=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
	Shl: "<<", Shr: ">>", ShrShr: ">>>", AndAnd: "&&", OrOr: "||", CaretCaret: "^^",
	Amp: "&", Pipe: "|", Caret: "^", Dollar: "$", At: "@",
	Assign: "=", PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=",
	DollarAssign: "$=", AtAssign: "@=",
	Dot: ".", DotDot: "..", Comma: ",", Semicolon: ";", Colon: ":", ColonColon: "::",
	Question: "?", Backtick: "`", Hash: "#",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
}
