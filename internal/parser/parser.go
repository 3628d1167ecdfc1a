// Package parser implements the Numerus recursive descent parser.
//
// The parser consumes a complete token stream and produces an *ast.Program.
// It stops at the first syntax error; there is no recovery.
package parser

import (
	"github.com/numerus-lang/numerus/internal/ast"
	"github.com/numerus-lang/numerus/internal/errors"
	"github.com/numerus-lang/numerus/internal/lexer"
	"github.com/numerus-lang/numerus/internal/position"
)

// Parser represents the recursive descent parser
type Parser struct {
	tokens  []lexer.Token
	current int
}

// New creates a parser over tokens. A trailing EOF token is appended when
// the stream does not already end with one.
func New(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.TokenEOF {
		var end position.Position
		if len(tokens) > 0 {
			end = tokens[len(tokens)-1].Span.End
		} else {
			end = position.Position{Line: 1, Column: 1}
		}
		tokens = append(tokens, lexer.Token{Type: lexer.TokenEOF, Span: position.Point(end)})
	}
	return &Parser{tokens: tokens}
}

// ParseSource lexes and parses src in one step.
func ParseSource(src string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return New(tokens).Parse()
}

// Parse parses the whole token stream into a program.
func (p *Parser) Parse() (*ast.Program, error) {
	program := &ast.Program{}
	for !p.isAtEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}

	if n := len(program.Statements); n > 0 {
		program.Span = program.Statements[0].GetSpan().Union(program.Statements[n-1].GetSpan())
	} else {
		program.Span = p.peek().Span
	}
	return program, nil
}

// ===== Statements =====

func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenDeclara:
		return p.parseDeclaration()
	case lexer.TokenScribe:
		return p.parsePrint()
	case lexer.TokenAvtem:
		p.advance()
		return &ast.AvtemStatement{Span: tok.Span}, nil
	case lexer.TokenComment:
		p.advance()
		return &ast.CommentStatement{Span: tok.Span, Text: tok.Text}, nil
	case lexer.TokenIdentifier:
		return p.parseAssignment()
	case lexer.TokenEOF:
		return nil, errors.UnexpectedEndOfInput(tok.Span)
	default:
		return nil, errors.UnexpectedToken("DECLARA, SCRIBE, AVTEM, vel identificator", tok.Type.String(), tok.Span)
	}
}

// DECLARA <ident> EST <expr>
func (p *Parser) parseDeclaration() (ast.Statement, error) {
	start := p.advance()

	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenEst); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.DeclarationStatement{
		Span:  start.Span.Union(value.GetSpan()),
		Name:  name.Text,
		Value: value,
	}, nil
}

// <ident> EST <expr>
func (p *Parser) parseAssignment() (ast.Statement, error) {
	name := p.advance()

	if _, err := p.expect(lexer.TokenEst); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.AssignmentStatement{
		Span:  name.Span.Union(value.GetSpan()),
		Name:  name.Text,
		Value: value,
	}, nil
}

// SCRIBE ( <expr> )
func (p *Parser) parsePrint() (ast.Statement, error) {
	start := p.advance()

	open, err := p.expect(lexer.TokenLParen)
	if err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	end, err := p.expectClose(open)
	if err != nil {
		return nil, err
	}

	return &ast.PrintStatement{Span: start.Span.Union(end.Span), Value: value}, nil
}

// ===== Expressions =====

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseAdditive()
}

// additive := multiplicative ( (ADDIUS|SUBTRAHE) multiplicative )*
func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.peek().Type.IsAdditive() {
		op := binaryOperator(p.advance().Type)
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{
			Span:     left.GetSpan().Union(right.GetSpan()),
			Left:     left,
			Operator: op,
			Right:    right,
		}
	}
	return left, nil
}

// multiplicative := factor ( (MULTIPLICA|DIVIDE) factor )*
func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.peek().Type.IsMultiplicative() {
		op := binaryOperator(p.advance().Type)
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{
			Span:     left.GetSpan().Union(right.GetSpan()),
			Left:     left,
			Operator: op,
			Right:    right,
		}
	}
	return left, nil
}

func (p *Parser) parseFactor() (ast.Expression, error) {
	tok := p.peek()

	switch tok.Type {
	case lexer.TokenArabic:
		p.advance()
		return &ast.NumberLiteral{Span: tok.Span, Value: tok.Value, Origin: ast.OriginArabic}, nil
	case lexer.TokenRoman:
		p.advance()
		return &ast.NumberLiteral{Span: tok.Span, Value: tok.Value, Origin: ast.OriginRoman}, nil
	case lexer.TokenString:
		p.advance()
		return &ast.StringLiteral{Span: tok.Span, Value: tok.Text}, nil
	case lexer.TokenIdentifier:
		p.advance()
		return &ast.Variable{Span: tok.Span, Name: tok.Text}, nil
	case lexer.TokenLParen:
		open := p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		end, err := p.expectClose(open)
		if err != nil {
			return nil, err
		}
		return &ast.GroupedExpression{Span: open.Span.Union(end.Span), Inner: inner}, nil
	case lexer.TokenRomaniza:
		return p.parseCall(ast.BuiltinRomaniza)
	case lexer.TokenArabiza:
		return p.parseCall(ast.BuiltinArabiza)
	case lexer.TokenExprime:
		return p.parseCall(ast.BuiltinExprime)
	default:
		after := "initium"
		if p.current > 0 {
			after = p.previous().Type.String()
		}
		return nil, errors.ExpectedExpression(after, tok.Span)
	}
}

// BUILTIN ( <expr> )
func (p *Parser) parseCall(fn ast.Builtin) (ast.Expression, error) {
	start := p.advance()

	open, err := p.expect(lexer.TokenLParen)
	if err != nil {
		return nil, err
	}
	argument, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	end, err := p.expectClose(open)
	if err != nil {
		return nil, err
	}

	return &ast.CallExpression{Span: start.Span.Union(end.Span), Function: fn, Argument: argument}, nil
}

func binaryOperator(tt lexer.TokenType) ast.BinaryOperator {
	switch tt {
	case lexer.TokenSubtrahe:
		return ast.OpSubtract
	case lexer.TokenMultiplica:
		return ast.OpMultiply
	case lexer.TokenDivide:
		return ast.OpDivide
	default:
		return ast.OpAdd
	}
}

// ===== Token helpers =====

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() lexer.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.TokenEOF
}

// advance consumes the current token and returns it. EOF is never consumed.
func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, errors.UnexpectedToken(tt.String(), tok.Type.String(), tok.Span)
	}
	return p.advance(), nil
}

// expectClose consumes the ')' matching open. Running out of input is
// reported against the opening parenthesis.
func (p *Parser) expectClose(open lexer.Token) (lexer.Token, error) {
	if p.isAtEnd() {
		return p.peek(), errors.UnclosedParenthesis(open.Span)
	}
	return p.expect(lexer.TokenRParen)
}

func (p *Parser) expectIdentifier() (lexer.Token, error) {
	tok := p.peek()
	if tok.Type != lexer.TokenIdentifier {
		return tok, errors.ExpectedIdentifier(tok.Type.String(), tok.Span)
	}
	return p.advance(), nil
}
