package lexer

import (
	"fmt"

	"github.com/numerus-lang/numerus/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// String returns the name used for the token type in error messages
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenNewline
	TokenComment

	// Literals
	TokenArabic
	TokenRoman
	TokenString
	TokenIdentifier

	// Keywords
	TokenDeclara
	TokenEst
	TokenAddius
	TokenSubtrahe
	TokenMultiplica
	TokenDivide
	TokenScribe
	TokenAvtem

	// Built-in functions
	TokenRomaniza
	TokenArabiza
	TokenExprime

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenComma
)

var tokenNames = map[TokenType]string{
	TokenEOF:     "finis",
	TokenNewline: "linea nova",
	TokenComment: "NOTA",

	TokenArabic:     "numerus Arabicus",
	TokenRoman:      "numerus Romanus",
	TokenString:     "string",
	TokenIdentifier: "identificator",

	TokenDeclara:    "DECLARA",
	TokenEst:        "EST",
	TokenAddius:     "ADDIUS",
	TokenSubtrahe:   "SUBTRAHE",
	TokenMultiplica: "MULTIPLICA",
	TokenDivide:     "DIVIDE",
	TokenScribe:     "SCRIBE",
	TokenAvtem:      "AVTEM",

	TokenRomaniza: "ROMANIZA",
	TokenArabiza:  "ARABIZA",
	TokenExprime:  "EXPRIME",

	TokenLParen: "(",
	TokenRParen: ")",
	TokenLBrace: "{",
	TokenRBrace: "}",
	TokenComma:  ",",
}

// keywords maps the case-sensitive reserved words to their token types
var keywords = map[string]TokenType{
	"DECLARA":    TokenDeclara,
	"EST":        TokenEst,
	"ADDIUS":     TokenAddius,
	"SUBTRAHE":   TokenSubtrahe,
	"MULTIPLICA": TokenMultiplica,
	"DIVIDE":     TokenDivide,
	"SCRIBE":     TokenScribe,
	"AVTEM":      TokenAvtem,
	"ROMANIZA":   TokenRomaniza,
	"ARABIZA":    TokenArabiza,
	"EXPRIME":    TokenExprime,
}

// LookupKeyword returns the keyword token type for word, if any.
func LookupKeyword(word string) (TokenType, bool) {
	tt, ok := keywords[word]
	return tt, ok
}

// IsAdditive reports whether tt is ADDIUS or SUBTRAHE.
func (tt TokenType) IsAdditive() bool {
	return tt == TokenAddius || tt == TokenSubtrahe
}

// IsMultiplicative reports whether tt is MULTIPLICA or DIVIDE.
func (tt TokenType) IsMultiplicative() bool {
	return tt == TokenMultiplica || tt == TokenDivide
}

// IsBuiltin reports whether tt names a built-in function.
func (tt TokenType) IsBuiltin() bool {
	return tt == TokenRomaniza || tt == TokenArabiza || tt == TokenExprime
}

// Token represents a lexical token with position information
type Token struct {
	Type    TokenType
	Literal string // raw source text (the lexeme)
	Span    position.Span

	// Value is the decoded number for TokenArabic and TokenRoman.
	Value int32
	// Text is the string contents, identifier name or comment body.
	Text string
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Span: %s}", t.Type, t.Literal, t.Span)
}
