// Package ast defines the syntax tree produced by the Numerus parser.
//
// Statements and expressions are closed interfaces: every node type lives in
// this package and implements Accept for Visitor based traversal. Each node
// exclusively owns its children; there is no sharing between subtrees.
package ast

import (
	"fmt"
	"strings"

	"github.com/numerus-lang/numerus/internal/position"
)

// Node is the base interface for all AST nodes
type Node interface {
	// GetSpan returns the source span covered by this node
	GetSpan() position.Span
	// String returns a compact, fully parenthesized rendering of the node
	String() string
	// Accept implements the visitor pattern for AST traversal
	Accept(visitor Visitor) interface{}
}

// Statement represents all statement nodes in the AST
type Statement interface {
	Node
	statementNode()
}

// Expression represents all expression nodes in the AST
type Expression interface {
	Node
	expressionNode()
}

// ===== Program Structure =====

// Program is the root of the AST: statements in source order.
type Program struct {
	Span       position.Span
	Statements []Statement
}

func (p *Program) GetSpan() position.Span { return p.Span }
func (p *Program) String() string {
	parts := make([]string, 0, len(p.Statements))
	for _, stmt := range p.Statements {
		parts = append(parts, stmt.String())
	}
	return strings.Join(parts, "\n")
}
func (p *Program) Accept(visitor Visitor) interface{} { return visitor.VisitProgram(p) }

// ===== Statements =====

// DeclarationStatement is `DECLARA <name> EST <value>`.
type DeclarationStatement struct {
	Span  position.Span
	Name  string
	Value Expression
}

func (d *DeclarationStatement) GetSpan() position.Span { return d.Span }
func (d *DeclarationStatement) String() string {
	return fmt.Sprintf("DECLARA %s EST %s", d.Name, d.Value.String())
}
func (d *DeclarationStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitDeclarationStatement(d)
}
func (d *DeclarationStatement) statementNode() {}

// AssignmentStatement is `<name> EST <value>`. Whether name exists is only
// checked when the statement runs.
type AssignmentStatement struct {
	Span  position.Span
	Name  string
	Value Expression
}

func (a *AssignmentStatement) GetSpan() position.Span { return a.Span }
func (a *AssignmentStatement) String() string {
	return fmt.Sprintf("%s EST %s", a.Name, a.Value.String())
}
func (a *AssignmentStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitAssignmentStatement(a)
}
func (a *AssignmentStatement) statementNode() {}

// PrintStatement is `SCRIBE(<value>)`.
type PrintStatement struct {
	Span  position.Span
	Value Expression
}

func (p *PrintStatement) GetSpan() position.Span { return p.Span }
func (p *PrintStatement) String() string         { return fmt.Sprintf("SCRIBE(%s)", p.Value.String()) }
func (p *PrintStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitPrintStatement(p)
}
func (p *PrintStatement) statementNode() {}

// AvtemStatement is the AVTEM no-op.
type AvtemStatement struct {
	Span position.Span
}

func (a *AvtemStatement) GetSpan() position.Span { return a.Span }
func (a *AvtemStatement) String() string         { return "AVTEM" }
func (a *AvtemStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitAvtemStatement(a)
}
func (a *AvtemStatement) statementNode() {}

// CommentStatement is a `NOTA:` line. The lexer's Tokenize drops comments,
// so these only appear when the parser is fed an unfiltered token stream.
type CommentStatement struct {
	Span position.Span
	Text string
}

func (c *CommentStatement) GetSpan() position.Span { return c.Span }
func (c *CommentStatement) String() string         { return "NOTA: " + c.Text }
func (c *CommentStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitCommentStatement(c)
}
func (c *CommentStatement) statementNode() {}

// ===== Expressions =====

// NumberOrigin records the notation a numeric literal was written in.
type NumberOrigin int

const (
	OriginArabic NumberOrigin = iota
	OriginRoman
)

func (o NumberOrigin) String() string {
	if o == OriginRoman {
		return "Roman"
	}
	return "Arabic"
}

// NumberLiteral is a decimal or Roman numeric literal.
type NumberLiteral struct {
	Span   position.Span
	Value  int32
	Origin NumberOrigin
}

func (n *NumberLiteral) GetSpan() position.Span { return n.Span }
func (n *NumberLiteral) String() string         { return fmt.Sprintf("%d", n.Value) }
func (n *NumberLiteral) Accept(visitor Visitor) interface{} {
	return visitor.VisitNumberLiteral(n)
}
func (n *NumberLiteral) expressionNode() {}

// StringLiteral is a double-quoted literal, stored without quotes.
type StringLiteral struct {
	Span  position.Span
	Value string
}

func (s *StringLiteral) GetSpan() position.Span { return s.Span }
func (s *StringLiteral) String() string         { return fmt.Sprintf("%q", s.Value) }
func (s *StringLiteral) Accept(visitor Visitor) interface{} {
	return visitor.VisitStringLiteral(s)
}
func (s *StringLiteral) expressionNode() {}

// Variable is a reference to a declared name.
type Variable struct {
	Span position.Span
	Name string
}

func (v *Variable) GetSpan() position.Span             { return v.Span }
func (v *Variable) String() string                     { return v.Name }
func (v *Variable) Accept(visitor Visitor) interface{} { return visitor.VisitVariable(v) }
func (v *Variable) expressionNode()                    {}

// BinaryOperator is one of the four arithmetic keywords.
type BinaryOperator int

const (
	OpAdd BinaryOperator = iota
	OpSubtract
	OpMultiply
	OpDivide
)

// String returns the keyword spelling of the operator
func (op BinaryOperator) String() string {
	switch op {
	case OpAdd:
		return "ADDIUS"
	case OpSubtract:
		return "SUBTRAHE"
	case OpMultiply:
		return "MULTIPLICA"
	case OpDivide:
		return "DIVIDE"
	default:
		return fmt.Sprintf("BinaryOperator(%d)", int(op))
	}
}

// BinaryExpression is `left <op> right`.
type BinaryExpression struct {
	Span     position.Span
	Left     Expression
	Operator BinaryOperator
	Right    Expression
}

func (b *BinaryExpression) GetSpan() position.Span { return b.Span }
func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Operator, b.Right.String())
}
func (b *BinaryExpression) Accept(visitor Visitor) interface{} {
	return visitor.VisitBinaryExpression(b)
}
func (b *BinaryExpression) expressionNode() {}

// GroupedExpression is a parenthesized expression. It only affects parsing.
type GroupedExpression struct {
	Span  position.Span
	Inner Expression
}

func (g *GroupedExpression) GetSpan() position.Span { return g.Span }
func (g *GroupedExpression) String() string         { return "[" + g.Inner.String() + "]" }
func (g *GroupedExpression) Accept(visitor Visitor) interface{} {
	return visitor.VisitGroupedExpression(g)
}
func (g *GroupedExpression) expressionNode() {}

// Builtin identifies one of the fixed built-in functions.
type Builtin int

const (
	BuiltinRomaniza Builtin = iota
	BuiltinArabiza
	BuiltinExprime
)

func (b Builtin) String() string {
	switch b {
	case BuiltinRomaniza:
		return "ROMANIZA"
	case BuiltinArabiza:
		return "ARABIZA"
	case BuiltinExprime:
		return "EXPRIME"
	default:
		return fmt.Sprintf("Builtin(%d)", int(b))
	}
}

// CallExpression is a single-argument built-in call such as ROMANIZA(X).
type CallExpression struct {
	Span     position.Span
	Function Builtin
	Argument Expression
}

func (c *CallExpression) GetSpan() position.Span { return c.Span }
func (c *CallExpression) String() string {
	return fmt.Sprintf("%s(%s)", c.Function, c.Argument.String())
}
func (c *CallExpression) Accept(visitor Visitor) interface{} {
	return visitor.VisitCallExpression(c)
}
func (c *CallExpression) expressionNode() {}
