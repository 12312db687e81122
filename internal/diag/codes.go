package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005
	LexUnterminatedName         Code = 1006
	LexNonASCII                 Code = 1007
	LexUnterminatedBrace        Code = 1008

	// Препроцессор
	PpInfo             Code = 1500
	PpUnknownDirective Code = 1501
	PpUnbalancedIf     Code = 1502
	PpMissingEndIf     Code = 1503
	PpRecursiveMacro   Code = 1504
	PpUndefinedMacro   Code = 1505
	PpMacroArgCount    Code = 1506
	PpIncludeFailed    Code = 1507
	PpBadCondition     Code = 1508

	// Парсерные
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynExpectIdentifier  Code = 2002
	SynExpectSemicolon   Code = 2003
	SynMissingSeparator  Code = 2004
	SynMissingTerminator Code = 2005
	SynTrailingSeparator Code = 2006
	SynUnclosedDelimiter Code = 2007
	SynUnexpectedItem    Code = 2008
	SynExpectExpression  Code = 2009
	SynExpectType        Code = 2010
	SynExpectLBrace      Code = 2011
	SynUnclosedBlock     Code = 2012

	// Семантические
	SemaInfo               Code = 3000
	SemaUnknownType        Code = 3001
	SemaUnknownVar         Code = 3002
	SemaUnknownFunction    Code = 3003
	SemaTypeMismatch       Code = 3004
	SemaNonBoolCondition   Code = 3005
	SemaIndexNonArray      Code = 3006
	SemaArgCount           Code = 3007
	SemaOutArgNotLValue    Code = 3008
	SemaRedefinedLocal     Code = 3009
	SemaEmptyStatement     Code = 3010
	SemaUnreachable        Code = 3011
	SemaUnsupported        Code = 3012
	SemaNoOverload         Code = 3013
	SemaAmbiguousOverload  Code = 3014
	SemaBoolConversion     Code = 3015
	SemaLocalSpecifier     Code = 3016
	SemaGenericOnPrimitive Code = 3017
	SemaMissingClass       Code = 3018
	SemaNotAssignable      Code = 3019
	SemaMisplacedControl   Code = 3020

	// Драйвер/IO
	DrvInfo     Code = 4000
	DrvFileRead Code = 4001
	DrvManifest Code = 4002
	DrvCache    Code = 4003
	DrvArchive  Code = 4004

	// Внутренние инварианты компилятора
	BugInternal Code = 9000
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown error",

	LexInfo:                     "lexer note",
	LexUnknownChar:              "unknown character",
	LexUnterminatedString:       "unterminated string literal",
	LexUnterminatedBlockComment: "unterminated block comment",
	LexBadNumber:                "malformed numeric literal",
	LexBadEscape:                "invalid escape sequence",
	LexUnterminatedName:         "unterminated name literal",
	LexNonASCII:                 "non-ASCII character in code",
	LexUnterminatedBrace:        "unterminated braced region",

	PpInfo:             "preprocessor note",
	PpUnknownDirective: "unknown preprocessor directive",
	PpUnbalancedIf:     "unbalanced `if",
	PpMissingEndIf:     "missing `endif",
	PpRecursiveMacro:   "recursive macro expansion",
	PpUndefinedMacro:   "undefined macro",
	PpMacroArgCount:    "wrong number of macro arguments",
	PpIncludeFailed:    "cannot include file",
	PpBadCondition:     "unsupported `if condition",

	SynInfo:              "parser note",
	SynUnexpectedToken:   "unexpected token",
	SynExpectIdentifier:  "expected identifier",
	SynExpectSemicolon:   "expected `;`",
	SynMissingSeparator:  "missing list separator",
	SynMissingTerminator: "missing list terminator",
	SynTrailingSeparator: "trailing list separator",
	SynUnclosedDelimiter: "unclosed delimiter",
	SynUnexpectedItem:    "unexpected item",
	SynExpectExpression:  "expected expression",
	SynExpectType:        "expected type",
	SynExpectLBrace:      "expected `{`",
	SynUnclosedBlock:     "missing `}` to close block",

	SemaInfo:               "analysis note",
	SemaUnknownType:        "cannot find type",
	SemaUnknownVar:         "cannot find variable",
	SemaUnknownFunction:    "cannot find function",
	SemaTypeMismatch:       "type mismatch",
	SemaNonBoolCondition:   "condition must be Bool",
	SemaIndexNonArray:      "indexing a non-array",
	SemaArgCount:           "wrong number of arguments",
	SemaOutArgNotLValue:    "out argument is not assignable",
	SemaRedefinedLocal:     "redefinition of local variable",
	SemaEmptyStatement:     "empty statement",
	SemaUnreachable:        "unreachable code",
	SemaUnsupported:        "not yet supported",
	SemaNoOverload:         "no matching operator",
	SemaAmbiguousOverload:  "ambiguous operator",
	SemaBoolConversion:     "no implicit conversion to Bool",
	SemaLocalSpecifier:     "specifier not allowed on local",
	SemaGenericOnPrimitive: "primitive type cannot have type arguments",
	SemaMissingClass:       "cannot find class",
	SemaNotAssignable:      "expression is not assignable",
	SemaMisplacedControl:   "break or continue outside a loop",

	DrvInfo:     "driver note",
	DrvFileRead: "cannot read source file",
	DrvManifest: "invalid package manifest",
	DrvCache:    "cache failure",
	DrvArchive:  "invalid archive",

	BugInternal: "internal compiler error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 1500:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 1500 && ic < 2000:
		return fmt.Sprintf("PP%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("DRV%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("BUG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
