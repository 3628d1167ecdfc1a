package ast

import (
	"fmt"
	"strings"
)

// Visitor visits every concrete node type.
type Visitor interface {
	VisitProgram(node *Program) interface{}

	VisitDeclarationStatement(node *DeclarationStatement) interface{}
	VisitAssignmentStatement(node *AssignmentStatement) interface{}
	VisitPrintStatement(node *PrintStatement) interface{}
	VisitAvtemStatement(node *AvtemStatement) interface{}
	VisitCommentStatement(node *CommentStatement) interface{}

	VisitNumberLiteral(node *NumberLiteral) interface{}
	VisitStringLiteral(node *StringLiteral) interface{}
	VisitVariable(node *Variable) interface{}
	VisitBinaryExpression(node *BinaryExpression) interface{}
	VisitGroupedExpression(node *GroupedExpression) interface{}
	VisitCallExpression(node *CallExpression) interface{}
}

// BaseVisitor returns nil for every node. Embed it to override only the
// methods a visitor cares about.
type BaseVisitor struct{}

func (v *BaseVisitor) VisitProgram(node *Program) interface{}                           { return nil }
func (v *BaseVisitor) VisitDeclarationStatement(node *DeclarationStatement) interface{} { return nil }
func (v *BaseVisitor) VisitAssignmentStatement(node *AssignmentStatement) interface{}   { return nil }
func (v *BaseVisitor) VisitPrintStatement(node *PrintStatement) interface{}             { return nil }
func (v *BaseVisitor) VisitAvtemStatement(node *AvtemStatement) interface{}             { return nil }
func (v *BaseVisitor) VisitCommentStatement(node *CommentStatement) interface{}         { return nil }
func (v *BaseVisitor) VisitNumberLiteral(node *NumberLiteral) interface{}               { return nil }
func (v *BaseVisitor) VisitStringLiteral(node *StringLiteral) interface{}               { return nil }
func (v *BaseVisitor) VisitVariable(node *Variable) interface{}                         { return nil }
func (v *BaseVisitor) VisitBinaryExpression(node *BinaryExpression) interface{}         { return nil }
func (v *BaseVisitor) VisitGroupedExpression(node *GroupedExpression) interface{}       { return nil }
func (v *BaseVisitor) VisitCallExpression(node *CallExpression) interface{}             { return nil }

// Inspect walks the tree rooted at node depth-first, calling fn for each
// node before its children. Returning false from fn skips the children.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Statements {
			Inspect(stmt, fn)
		}
	case *DeclarationStatement:
		Inspect(n.Value, fn)
	case *AssignmentStatement:
		Inspect(n.Value, fn)
	case *PrintStatement:
		Inspect(n.Value, fn)
	case *BinaryExpression:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *GroupedExpression:
		Inspect(n.Inner, fn)
	case *CallExpression:
		Inspect(n.Argument, fn)
	}
}

// Dump renders node as an indented tree with spans, for debug output.
func Dump(node Node) string {
	d := &dumper{}
	node.Accept(d)
	return d.b.String()
}

type dumper struct {
	b     strings.Builder
	depth int
}

func (d *dumper) line(node Node, format string, args ...interface{}) {
	d.b.WriteString(strings.Repeat("  ", d.depth))
	d.b.WriteString(fmt.Sprintf(format, args...))
	d.b.WriteString(fmt.Sprintf(" @%s\n", node.GetSpan()))
}

func (d *dumper) nested(children ...Node) {
	d.depth++
	for _, child := range children {
		child.Accept(d)
	}
	d.depth--
}

func (d *dumper) VisitProgram(node *Program) interface{} {
	d.line(node, "Program")
	children := make([]Node, 0, len(node.Statements))
	for _, stmt := range node.Statements {
		children = append(children, stmt)
	}
	d.nested(children...)
	return nil
}

func (d *dumper) VisitDeclarationStatement(node *DeclarationStatement) interface{} {
	d.line(node, "Declaration %s", node.Name)
	d.nested(node.Value)
	return nil
}

func (d *dumper) VisitAssignmentStatement(node *AssignmentStatement) interface{} {
	d.line(node, "Assignment %s", node.Name)
	d.nested(node.Value)
	return nil
}

func (d *dumper) VisitPrintStatement(node *PrintStatement) interface{} {
	d.line(node, "Print")
	d.nested(node.Value)
	return nil
}

func (d *dumper) VisitAvtemStatement(node *AvtemStatement) interface{} {
	d.line(node, "Avtem")
	return nil
}

func (d *dumper) VisitCommentStatement(node *CommentStatement) interface{} {
	d.line(node, "Comment %q", node.Text)
	return nil
}

func (d *dumper) VisitNumberLiteral(node *NumberLiteral) interface{} {
	d.line(node, "Number %d (%s)", node.Value, node.Origin)
	return nil
}

func (d *dumper) VisitStringLiteral(node *StringLiteral) interface{} {
	d.line(node, "String %q", node.Value)
	return nil
}

func (d *dumper) VisitVariable(node *Variable) interface{} {
	d.line(node, "Variable %s", node.Name)
	return nil
}

func (d *dumper) VisitBinaryExpression(node *BinaryExpression) interface{} {
	d.line(node, "Binary %s", node.Operator)
	d.nested(node.Left, node.Right)
	return nil
}

func (d *dumper) VisitGroupedExpression(node *GroupedExpression) interface{} {
	d.line(node, "Grouped")
	d.nested(node.Inner)
	return nil
}

func (d *dumper) VisitCallExpression(node *CallExpression) interface{} {
	d.line(node, "Call %s", node.Function)
	d.nested(node.Argument)
	return nil
}
