package lang

import "fmt"

// Token is one classified lexical unit, paired with the source span it
// covers. Value holds the raw source text for names, numbers, and operators,
// and the decoded text for string literals. Number is set only for numeric
// literals.
type Token struct {
	Span   Range
	Type   TokenType
	Value  string
	Number float64
}

type TokenType uint16

const (
	TokenTypeUnknown    TokenType = 0
	TokenTypeIdentifier TokenType = 1
	TokenTypeParameter  TokenType = 2
	TokenTypeNumber     TokenType = 3
	TokenTypeString     TokenType = 4

	TokenTypeKeywordIf       TokenType = 5
	TokenTypeKeywordElse     TokenType = 6
	TokenTypeKeywordWhile    TokenType = 7
	TokenTypeKeywordFor      TokenType = 8
	TokenTypeKeywordLet      TokenType = 9
	TokenTypeKeywordDef      TokenType = 10
	TokenTypeKeywordBreak    TokenType = 11
	TokenTypeKeywordContinue TokenType = 12
	TokenTypeKeywordReturn   TokenType = 13

	TokenTypePlus          TokenType = 14
	TokenTypeMinus         TokenType = 15
	TokenTypeArrow         TokenType = 16
	TokenTypeStar          TokenType = 17
	TokenTypeSlash         TokenType = 18
	TokenTypePercent       TokenType = 19
	TokenTypeCaret         TokenType = 20
	TokenTypeEqual         TokenType = 21
	TokenTypeComparison    TokenType = 22
	TokenTypeFatArrow      TokenType = 23
	TokenTypeExclamation   TokenType = 24
	TokenTypeNotComparison TokenType = 25
	TokenTypeLess          TokenType = 26
	TokenTypeShiftLeft     TokenType = 27
	TokenTypeGreater       TokenType = 28
	TokenTypeShiftRight    TokenType = 29
	TokenTypeBinAnd        TokenType = 30
	TokenTypePipe          TokenType = 31
	TokenTypeBinOr         TokenType = 32
	TokenTypeColon         TokenType = 33
	TokenTypeSemicolon     TokenType = 34
	TokenTypeComma         TokenType = 35
	TokenTypeQuestion      TokenType = 36
	TokenTypeParenOpen     TokenType = 37
	TokenTypeParenClose    TokenType = 38
	TokenTypeSquareOpen    TokenType = 39
	TokenTypeSquareClose   TokenType = 40
	TokenTypeCurlyOpen     TokenType = 41
	TokenTypeCurlyClose    TokenType = 42

	// Reserved for a lone `&` and a lone `.`. The lexer never produces
	// either: both finalize as errors.
	TokenTypeAmpersand TokenType = 43
	TokenTypeDot       TokenType = 44
)

var tokenTypeNames = map[TokenType]string{
	TokenTypeUnknown:         "Unknown",
	TokenTypeIdentifier:      "Identifier",
	TokenTypeParameter:       "Parameter",
	TokenTypeNumber:          "Number",
	TokenTypeString:          "String",
	TokenTypeKeywordIf:       "KeywordIf",
	TokenTypeKeywordElse:     "KeywordElse",
	TokenTypeKeywordWhile:    "KeywordWhile",
	TokenTypeKeywordFor:      "KeywordFor",
	TokenTypeKeywordLet:      "KeywordLet",
	TokenTypeKeywordDef:      "KeywordDef",
	TokenTypeKeywordBreak:    "KeywordBreak",
	TokenTypeKeywordContinue: "KeywordContinue",
	TokenTypeKeywordReturn:   "KeywordReturn",
	TokenTypePlus:            "Plus",
	TokenTypeMinus:           "Minus",
	TokenTypeArrow:           "Arrow",
	TokenTypeStar:            "Star",
	TokenTypeSlash:           "Slash",
	TokenTypePercent:         "Percent",
	TokenTypeCaret:           "Caret",
	TokenTypeEqual:           "Equal",
	TokenTypeComparison:      "Comparison",
	TokenTypeFatArrow:        "FatArrow",
	TokenTypeExclamation:     "Exclamation",
	TokenTypeNotComparison:   "NotComparison",
	TokenTypeLess:            "Less",
	TokenTypeShiftLeft:       "ShiftLeft",
	TokenTypeGreater:         "Greater",
	TokenTypeShiftRight:      "ShiftRight",
	TokenTypeBinAnd:          "BinAnd",
	TokenTypePipe:            "Pipe",
	TokenTypeBinOr:           "BinOr",
	TokenTypeColon:           "Colon",
	TokenTypeSemicolon:       "Semicolon",
	TokenTypeComma:           "Comma",
	TokenTypeQuestion:        "Question",
	TokenTypeParenOpen:       "ParenOpen",
	TokenTypeParenClose:      "ParenClose",
	TokenTypeSquareOpen:      "SquareOpen",
	TokenTypeSquareClose:     "SquareClose",
	TokenTypeCurlyOpen:       "CurlyOpen",
	TokenTypeCurlyClose:      "CurlyClose",
	TokenTypeAmpersand:       "Ampersand",
	TokenTypeDot:             "Dot",
}

func (self TokenType) String() string {
	if name, ok := tokenTypeNames[self]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", uint16(self))
}

var keywords = map[string]TokenType{
	"if":       TokenTypeKeywordIf,
	"else":     TokenTypeKeywordElse,
	"while":    TokenTypeKeywordWhile,
	"for":      TokenTypeKeywordFor,
	"let":      TokenTypeKeywordLet,
	"def":      TokenTypeKeywordDef,
	"break":    TokenTypeKeywordBreak,
	"continue": TokenTypeKeywordContinue,
	"return":   TokenTypeKeywordReturn,
}

// Keyword reports the keyword token type for text, if it is one of the nine
// reserved words. Parameter names are never keyword-matched.
func Keyword(text string) (TokenType, bool) {
	t, ok := keywords[text]
	return t, ok
}
