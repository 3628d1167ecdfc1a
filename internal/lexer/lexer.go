// Package lexer implements the Numerus lexical analyzer.
//
// The lexer turns source text into a flat token stream. It stops at the
// first lexical error; there is no recovery.
package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	nerrors "github.com/numerus-lang/numerus/internal/errors"
	"github.com/numerus-lang/numerus/internal/position"
	"github.com/numerus-lang/numerus/internal/roman"
)

const eof = -1

// Lexer represents the lexical analyzer
type Lexer struct {
	input    string
	position int  // byte offset of ch
	width    int  // byte width of ch
	ch       rune // current char under examination, eof at end of input
	line     int  // line of ch
	column   int  // column of ch
}

// New creates a new lexer instance
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 1,
	}
	l.decode()
	return l
}

// Tokenize scans the whole input. Newline and comment tokens are dropped and
// the result always ends with a TokenEOF.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	tokens := make([]Token, 0, len(input)/4+1)

	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}

		switch tok.Type {
		case TokenNewline, TokenComment:
			continue
		}

		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// decode loads the rune at the current offset into ch.
func (l *Lexer) decode() {
	if l.position >= len(l.input) {
		l.ch = eof
		l.width = 0
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.position:])
	l.ch = r
	l.width = w
}

// readChar advances past the current char
func (l *Lexer) readChar() {
	if l.ch == eof {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.position += l.width
	l.decode()
}

func (l *Lexer) pos() position.Position {
	return position.Position{Line: l.line, Column: l.column, Offset: l.position}
}

func (l *Lexer) spanFrom(start position.Position) position.Span {
	return position.Span{Start: start, End: l.pos()}
}

// skipWhitespace skips whitespace characters (except newlines)
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// NextToken scans the next token, including newlines and comments.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	start := l.pos()

	switch {
	case l.ch == eof:
		return Token{Type: TokenEOF, Span: position.Point(start)}, nil
	case l.ch == '(':
		return l.single(TokenLParen, start), nil
	case l.ch == ')':
		return l.single(TokenRParen, start), nil
	case l.ch == '{':
		return l.single(TokenLBrace, start), nil
	case l.ch == '}':
		return l.single(TokenRBrace, start), nil
	case l.ch == ',':
		return l.single(TokenComma, start), nil
	case l.ch == '\n':
		return l.single(TokenNewline, start), nil
	case l.ch == '"':
		return l.readString(start)
	case isLetter(l.ch) || l.ch == '_':
		return l.readWord(start), nil
	case isDigit(l.ch):
		return l.readNumber(start)
	default:
		return Token{}, nerrors.UnexpectedCharacter(l.ch, l.line, l.column)
	}
}

func (l *Lexer) single(tt TokenType, start position.Position) Token {
	l.readChar()
	return Token{
		Type:    tt,
		Literal: l.input[start.Offset:l.position],
		Span:    l.spanFrom(start),
	}
}

// readWord reads a keyword, identifier, Roman numeral or NOTA: comment.
func (l *Lexer) readWord(start position.Position) Token {
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	word := l.input[start.Offset:l.position]

	if word == "NOTA" && l.ch == ':' {
		l.readChar()
		return l.readComment(start)
	}

	if tt, ok := keywords[word]; ok {
		return Token{Type: tt, Literal: word, Span: l.spanFrom(start)}
	}

	// Single letters stay identifiers so I, V, X... can name variables.
	if len(word) >= 2 && roman.LooksLikeRoman(word) {
		if value, err := roman.FromRoman(word); err == nil {
			return Token{Type: TokenRoman, Literal: word, Span: l.spanFrom(start), Value: value}
		}
	}

	return Token{Type: TokenIdentifier, Literal: word, Span: l.spanFrom(start), Text: word}
}

// readComment captures the rest of the line after "NOTA:".
func (l *Lexer) readComment(start position.Position) Token {
	bodyStart := l.position
	for l.ch != '\n' && l.ch != eof {
		l.readChar()
	}
	return Token{
		Type:    TokenComment,
		Literal: l.input[start.Offset:l.position],
		Span:    l.spanFrom(start),
		Text:    strings.TrimSpace(l.input[bodyStart:l.position]),
	}
}

func (l *Lexer) readNumber(start position.Position) (Token, error) {
	for isDigit(l.ch) {
		l.readChar()
	}
	literal := l.input[start.Offset:l.position]
	span := l.spanFrom(start)

	value, err := strconv.ParseInt(literal, 10, 64)
	if err != nil || value > roman.MaxValue {
		return Token{}, nerrors.NumberOutOfRange(literal, span)
	}

	return Token{Type: TokenArabic, Literal: literal, Span: span, Value: int32(value)}, nil
}

// readString reads a double-quoted literal. There are no escapes and the
// literal may not cross a newline.
func (l *Lexer) readString(start position.Position) (Token, error) {
	l.readChar() // opening quote
	contentStart := l.position

	for l.ch != '"' {
		if l.ch == '\n' || l.ch == eof {
			return Token{}, nerrors.UnterminatedString(start.Line)
		}
		l.readChar()
	}
	content := l.input[contentStart:l.position]
	l.readChar() // closing quote

	return Token{
		Type:    TokenString,
		Literal: l.input[start.Offset:l.position],
		Span:    l.spanFrom(start),
		Text:    content,
	}, nil
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
