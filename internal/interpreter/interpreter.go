// Package interpreter evaluates Numerus programs.
//
// An Interpreter owns one Environment and one Sink. Statements run in source
// order and the first failure aborts the run; effects of earlier statements
// are kept.
package interpreter

import (
	stderrors "errors"
	"fmt"
	"math"

	"github.com/numerus-lang/numerus/internal/ast"
	"github.com/numerus-lang/numerus/internal/errors"
	"github.com/numerus-lang/numerus/internal/position"
	"github.com/numerus-lang/numerus/internal/roman"
)

// Interpreter executes statements against an Environment.
type Interpreter struct {
	env    *Environment
	sink   Sink
	output []string
}

// New creates an interpreter. A nil env starts a fresh environment and a nil
// sink discards printed lines (they are still kept in Output).
func New(env *Environment, sink Sink) *Interpreter {
	if env == nil {
		env = NewEnvironment()
	}
	if sink == nil {
		sink = Discard
	}
	return &Interpreter{env: env, sink: sink}
}

// Run executes prog against env, sending printed lines to sink.
func Run(prog *ast.Program, env *Environment, sink Sink) ([]string, error) {
	return New(env, sink).Run(prog)
}

// Run executes every statement of prog and returns the lines printed by this
// run. On failure the lines printed before the failing statement are
// returned together with the error.
func (in *Interpreter) Run(prog *ast.Program) ([]string, error) {
	in.output = in.output[:0]
	for _, stmt := range prog.Statements {
		if err := in.exec(stmt); err != nil {
			return in.Output(), err
		}
	}
	return in.Output(), nil
}

// Execute runs a single statement and returns the line it printed, if any.
func (in *Interpreter) Execute(stmt ast.Statement) (string, bool, error) {
	in.output = in.output[:0]
	if err := in.exec(stmt); err != nil {
		return "", false, err
	}
	if len(in.output) == 0 {
		return "", false, nil
	}
	return in.output[len(in.output)-1], true, nil
}

// Output returns the lines printed by the most recent Run or Execute.
func (in *Interpreter) Output() []string {
	return append([]string(nil), in.output...)
}

func (in *Interpreter) Environment() *Environment { return in.env }

// Reset drops all variables and buffered output.
func (in *Interpreter) Reset() {
	in.env = NewEnvironment()
	in.output = in.output[:0]
}

// Eval evaluates a single expression without printing.
func (in *Interpreter) Eval(expr ast.Expression) (Value, error) {
	return in.eval(expr)
}

func (in *Interpreter) exec(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.DeclarationStatement:
		value, err := in.eval(s.Value)
		if err != nil {
			return err
		}
		return locate(in.env.Declare(s.Name, value), s.Span)

	case *ast.AssignmentStatement:
		value, err := in.eval(s.Value)
		if err != nil {
			return err
		}
		return locate(in.env.Assign(s.Name, value), s.Span)

	case *ast.PrintStatement:
		value, err := in.eval(s.Value)
		if err != nil {
			return err
		}
		line, err := OutputString(value)
		if err != nil {
			return locate(err, s.Value.GetSpan())
		}
		if err := in.sink.WriteLine(line); err != nil {
			return fmt.Errorf("scribe: %w", err)
		}
		in.output = append(in.output, line)
		return nil

	case *ast.AvtemStatement, *ast.CommentStatement:
		return nil

	default:
		return fmt.Errorf("interpreter: unsupported statement %T", stmt)
	}
}

func (in *Interpreter) eval(expr ast.Expression) (Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return Number(e.Value), nil

	case *ast.StringLiteral:
		return Str(e.Value), nil

	case *ast.Variable:
		value, err := in.env.Get(e.Name)
		if err != nil {
			return nil, locate(err, e.Span)
		}
		return value, nil

	case *ast.GroupedExpression:
		return in.eval(e.Inner)

	case *ast.BinaryExpression:
		left, err := in.eval(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := in.eval(e.Right)
		if err != nil {
			return nil, err
		}
		return binary(e.Operator, left, right, e.Span)

	case *ast.CallExpression:
		arg, err := in.eval(e.Argument)
		if err != nil {
			return nil, err
		}
		return call(e.Function, arg, e.Span)

	default:
		return nil, fmt.Errorf("interpreter: unsupported expression %T", expr)
	}
}

func binary(op ast.BinaryOperator, left, right Value, span position.Span) (Value, error) {
	ln, lok := left.(Number)
	rn, rok := right.(Number)
	if lok && rok {
		return arithmetic(op, ln, rn, span)
	}

	if op != ast.OpAdd {
		return nil, errors.TypeMismatch(op.String(), "numbers", span)
	}

	// ADDIUS with at least one string concatenates.
	return Str(concatOperand(left) + concatOperand(right)), nil
}

func concatOperand(v Value) string {
	if n, ok := v.(Number); ok {
		return concatText(n)
	}
	return v.String()
}

// arithmetic computes in 64 bits and reports results outside int32.
func arithmetic(op ast.BinaryOperator, a, b Number, span position.Span) (Value, error) {
	x, y := int64(a), int64(b)

	var result int64
	switch op {
	case ast.OpAdd:
		result = x + y
	case ast.OpSubtract:
		result = x - y
	case ast.OpMultiply:
		result = x * y
	case ast.OpDivide:
		if y == 0 {
			return nil, errors.DivisionByZero(span)
		}
		result = x / y
	default:
		return nil, fmt.Errorf("interpreter: unknown operator %s", op)
	}

	if result < math.MinInt32 || result > math.MaxInt32 {
		return nil, errors.IntegerOverflow(result, span)
	}
	return Number(result), nil
}

func call(fn ast.Builtin, arg Value, span position.Span) (Value, error) {
	switch fn {
	case ast.BuiltinRomaniza:
		n, ok := arg.(Number)
		if !ok {
			return nil, errors.TypeMismatch(fn.String(), "number", span)
		}
		if n < roman.MinValue {
			return nil, errors.InvalidFunctionArgument(fn.String(), span)
		}
		s, err := roman.ToRoman(int32(n))
		if err != nil {
			return nil, errors.RomanOverflow(int32(n)).WithSpan(span)
		}
		return Str(s), nil

	case ast.BuiltinArabiza:
		n, ok := arg.(Number)
		if !ok {
			return nil, errors.TypeMismatch(fn.String(), "number", span)
		}
		return Str(n.String()), nil

	case ast.BuiltinExprime:
		return arg, nil

	default:
		return nil, fmt.Errorf("interpreter: unknown builtin %s", fn)
	}
}

// locate attaches span to a spanless *errors.Error.
func locate(err error, span position.Span) error {
	if err == nil {
		return nil
	}
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.WithSpan(span)
	}
	return err
}
