package parser

import "muscript/internal/token"

// Binary operator precedence, loosest first. Assignment and exponentiation
// are right-associative; everything else binds left.
const (
	precNone = iota
	precAssign
	precTernary
	precLogicalOr
	precLogicalAnd
	precBitwise
	precEquality
	precRelational
	precShift
	precConcat
	precAdditive
	precMultiplicative
	precExponent
)

type opInfo struct {
	prec       int
	rightAssoc bool
}

var infixOps = map[token.Kind]opInfo{
	token.Assign:       {precAssign, true},
	token.PlusAssign:   {precAssign, true},
	token.MinusAssign:  {precAssign, true},
	token.StarAssign:   {precAssign, true},
	token.SlashAssign:  {precAssign, true},
	token.DollarAssign: {precAssign, true},
	token.AtAssign:     {precAssign, true},

	token.OrOr:       {precLogicalOr, false},
	token.CaretCaret: {precLogicalOr, false},
	token.AndAnd:     {precLogicalAnd, false},

	token.Pipe:  {precBitwise, false},
	token.Caret: {precBitwise, false},
	token.Amp:   {precBitwise, false},

	token.EqEq:    {precEquality, false},
	token.BangEq:  {precEquality, false},
	token.TildeEq: {precEquality, false},

	token.Lt:   {precRelational, false},
	token.LtEq: {precRelational, false},
	token.Gt:   {precRelational, false},
	token.GtEq: {precRelational, false},

	token.Shl:    {precShift, false},
	token.Shr:    {precShift, false},
	token.ShrShr: {precShift, false},

	token.Dollar: {precConcat, false},
	token.At:     {precConcat, false},

	token.Plus:  {precAdditive, false},
	token.Minus: {precAdditive, false},

	token.Star:    {precMultiplicative, false},
	token.Slash:   {precMultiplicative, false},
	token.Percent: {precMultiplicative, false},

	token.StarStar: {precExponent, true},
}

// prefix operator kinds
func isPrefixOp(k token.Kind) bool {
	switch k {
	case token.Bang, token.Minus, token.Tilde, token.PlusPlus, token.MinusMinus:
		return true
	default:
		return false
	}
}
