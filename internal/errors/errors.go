// Package errors defines the error taxonomy shared by the Numerus lexer,
// parser and interpreter. Every failure is reported as an *Error carrying a
// category, a stable code and, where the failure has a meaningful location,
// a source span.
package errors

import (
	"fmt"

	"github.com/numerus-lang/numerus/internal/position"
)

// Category groups errors by the pipeline stage that produced them.
type Category string

const (
	CategoryLexical Category = "LEXICAL"
	CategorySyntax  Category = "SYNTAX"
	CategoryRuntime Category = "RUNTIME"
)

// Code is a stable identifier for an error kind.
type Code string

const (
	// Lexical errors
	CodeUnexpectedCharacter Code = "UNEXPECTED_CHARACTER"
	CodeInvalidRomanNumeral Code = "INVALID_ROMAN_NUMERAL"
	CodeUnterminatedString  Code = "UNTERMINATED_STRING"
	CodeNumberOutOfRange    Code = "NUMBER_OUT_OF_RANGE"

	// Syntax errors
	CodeUnexpectedToken      Code = "UNEXPECTED_TOKEN"
	CodeExpectedExpression   Code = "EXPECTED_EXPRESSION"
	CodeUnclosedParenthesis  Code = "UNCLOSED_PARENTHESIS"
	CodeUnexpectedEndOfInput Code = "UNEXPECTED_END_OF_INPUT"
	CodeExpectedIdentifier   Code = "EXPECTED_IDENTIFIER"

	// Runtime errors
	CodeUndefinedVariable       Code = "UNDEFINED_VARIABLE"
	CodeVariableAlreadyDeclared Code = "VARIABLE_ALREADY_DECLARED"
	CodeDivisionByZero          Code = "DIVISION_BY_ZERO"
	CodeNegativeRomanConversion Code = "NEGATIVE_ROMAN_CONVERSION"
	CodeRomanOverflow           Code = "ROMAN_OVERFLOW"
	CodeIntegerOverflow         Code = "INTEGER_OVERFLOW"
	CodeTypeMismatch            Code = "TYPE_MISMATCH"
	CodeInvalidFunctionArgument Code = "INVALID_FUNCTION_ARGUMENT"
)

// Error is a Numerus lexical, syntax or runtime error.
type Error struct {
	Category Category
	Code     Code
	Message  string

	// Span locates the error when it has a meaningful source range.
	Span position.Span
	// Pos is set instead of Span by purely positional lexical errors.
	Pos position.Position

	// Context holds kind-specific details (value, name, expected, found...).
	Context map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is an *Error with the same code. It lets callers
// match against the sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// HasSpan reports whether the error carries a source span.
func (e *Error) HasSpan() bool {
	return e.Span.IsValid()
}

// Location returns the best known start position of the error.
func (e *Error) Location() (position.Position, bool) {
	if e.HasSpan() {
		return e.Span.Start, true
	}
	if e.Pos.Line > 0 {
		return e.Pos, true
	}
	return position.Position{}, false
}

// WithSpan returns a copy of e located at span unless e already has a span.
func (e *Error) WithSpan(span position.Span) *Error {
	if e.HasSpan() || !span.IsValid() {
		return e
	}
	cp := *e
	cp.Span = span
	return &cp
}

// Detail returns a context value recorded when the error was created.
func (e *Error) Detail(key string) (interface{}, bool) {
	v, ok := e.Context[key]
	return v, ok
}

// Sentinels for errors.Is matching.
var (
	ErrUnexpectedCharacter     = &Error{Code: CodeUnexpectedCharacter}
	ErrInvalidRomanNumeral     = &Error{Code: CodeInvalidRomanNumeral}
	ErrUnterminatedString      = &Error{Code: CodeUnterminatedString}
	ErrNumberOutOfRange        = &Error{Code: CodeNumberOutOfRange}
	ErrUnexpectedToken         = &Error{Code: CodeUnexpectedToken}
	ErrExpectedExpression      = &Error{Code: CodeExpectedExpression}
	ErrUnclosedParenthesis     = &Error{Code: CodeUnclosedParenthesis}
	ErrUnexpectedEndOfInput    = &Error{Code: CodeUnexpectedEndOfInput}
	ErrExpectedIdentifier      = &Error{Code: CodeExpectedIdentifier}
	ErrUndefinedVariable       = &Error{Code: CodeUndefinedVariable}
	ErrVariableAlreadyDeclared = &Error{Code: CodeVariableAlreadyDeclared}
	ErrDivisionByZero          = &Error{Code: CodeDivisionByZero}
	ErrNegativeRomanConversion = &Error{Code: CodeNegativeRomanConversion}
	ErrRomanOverflow           = &Error{Code: CodeRomanOverflow}
	ErrIntegerOverflow         = &Error{Code: CodeIntegerOverflow}
	ErrTypeMismatch            = &Error{Code: CodeTypeMismatch}
	ErrInvalidFunctionArgument = &Error{Code: CodeInvalidFunctionArgument}
)

func newError(category Category, code Code, message string, span position.Span, context map[string]interface{}) *Error {
	return &Error{
		Category: category,
		Code:     code,
		Message:  message,
		Span:     span,
		Context:  context,
	}
}

// Lexical error constructors

// UnexpectedCharacter has no span, only the raw line and column.
func UnexpectedCharacter(ch rune, line, column int) *Error {
	e := newError(CategoryLexical, CodeUnexpectedCharacter,
		fmt.Sprintf("ERRATUM LEXICUM: Character '%c' ignotum est in linea %d, columna %d!", ch, line, column),
		position.Span{}, map[string]interface{}{"char": ch, "line": line, "column": column})
	e.Pos = position.Position{Line: line, Column: column}
	return e
}

// InvalidRomanNumeral reports a malformed Roman numeral. The lexer currently
// reads non-canonical letter runs as identifiers and never returns it; the
// kind and its code stay so the lexical codes seen by tooling are stable.
func InvalidRomanNumeral(numeral string, span position.Span) *Error {
	return newError(CategoryLexical, CodeInvalidRomanNumeral,
		fmt.Sprintf("ERRATUM LEXICUM: Numerus Romanus '%s' invalidus est!", numeral),
		span, map[string]interface{}{"numeral": numeral})
}

// UnterminatedString names the line on which the literal started.
func UnterminatedString(line int) *Error {
	e := newError(CategoryLexical, CodeUnterminatedString,
		fmt.Sprintf("ERRATUM LEXICUM: String non terminata in linea %d!", line),
		position.Span{}, map[string]interface{}{"line": line})
	e.Pos = position.Position{Line: line, Column: 1}
	return e
}

// NumberOutOfRange reports a decimal literal above 3999. literal is the
// source text, which may be too long to fit any integer type.
func NumberOutOfRange(literal string, span position.Span) *Error {
	return newError(CategoryLexical, CodeNumberOutOfRange,
		fmt.Sprintf("ERRATUM LEXICUM: Numerus %s extra fines est! (I-MMMCMXCIX solum)", literal),
		span, map[string]interface{}{"value": literal})
}

// Syntax error constructors

func UnexpectedToken(expected, found string, span position.Span) *Error {
	return newError(CategorySyntax, CodeUnexpectedToken,
		fmt.Sprintf("ERRATUM SYNTAXIS: Expectabatur '%s', sed inveni '%s'!", expected, found),
		span, map[string]interface{}{"expected": expected, "found": found})
}

func ExpectedExpression(after string, span position.Span) *Error {
	return newError(CategorySyntax, CodeExpectedExpression,
		fmt.Sprintf("ERRATUM SYNTAXIS: Expressio expectata post '%s'!", after),
		span, map[string]interface{}{"after": after})
}

// UnclosedParenthesis points at the opening parenthesis.
func UnclosedParenthesis(opening position.Span) *Error {
	return newError(CategorySyntax, CodeUnclosedParenthesis,
		"ERRATUM SYNTAXIS: Parenthesis clausa ')' desideratur!",
		opening, nil)
}

func UnexpectedEndOfInput(span position.Span) *Error {
	return newError(CategorySyntax, CodeUnexpectedEndOfInput,
		"ERRATUM SYNTAXIS: Finis inexpectatus programmatis!",
		span, nil)
}

func ExpectedIdentifier(found string, span position.Span) *Error {
	return newError(CategorySyntax, CodeExpectedIdentifier,
		fmt.Sprintf("ERRATUM SYNTAXIS: Identificator expectatus, sed inveni '%s'!", found),
		span, map[string]interface{}{"expected": "identificator", "found": found})
}

// Runtime error constructors

func UndefinedVariable(name string) *Error {
	return newError(CategoryRuntime, CodeUndefinedVariable,
		fmt.Sprintf("ERRATUM: Variable '%s' non declarata est!", name),
		position.Span{}, map[string]interface{}{"name": name})
}

func VariableAlreadyDeclared(name string) *Error {
	return newError(CategoryRuntime, CodeVariableAlreadyDeclared,
		fmt.Sprintf("ERRATUM: Variable '%s' iam declarata est!", name),
		position.Span{}, map[string]interface{}{"name": name})
}

func DivisionByZero(span position.Span) *Error {
	return newError(CategoryRuntime, CodeDivisionByZero,
		"ERRATUM: Divisio per nihilum prohibita est! (Etiam Romani hoc sciebant)",
		span, nil)
}

func NegativeRomanConversion(value int32) *Error {
	return newError(CategoryRuntime, CodeNegativeRomanConversion,
		fmt.Sprintf("ERRATUM: Numerus negativus %d in Romanis exprimi non potest!", value),
		position.Span{}, map[string]interface{}{"value": value})
}

func RomanOverflow(value int32) *Error {
	return newError(CategoryRuntime, CodeRomanOverflow,
		fmt.Sprintf("ERRATUM: Numerus %d nimis magnus pro Romanis (maximum MMMCMXCIX)!", value),
		position.Span{}, map[string]interface{}{"value": value})
}

// IntegerOverflow carries the exact result computed in 64 bits.
func IntegerOverflow(value int64, span position.Span) *Error {
	return newError(CategoryRuntime, CodeIntegerOverflow,
		fmt.Sprintf("ERRATUM: Numerus %d nimis magnus vel parvus!", value),
		span, map[string]interface{}{"value": value})
}

func TypeMismatch(operation, expected string, span position.Span) *Error {
	return newError(CategoryRuntime, CodeTypeMismatch,
		fmt.Sprintf("ERRATUM: Operatio '%s' requirit %s!", operation, expected),
		span, map[string]interface{}{"operation": operation, "expected": expected})
}

func InvalidFunctionArgument(name string, span position.Span) *Error {
	return newError(CategoryRuntime, CodeInvalidFunctionArgument,
		fmt.Sprintf("ERRATUM: Functio '%s' argumentum invalidum accepit!", name),
		span, map[string]interface{}{"name": name})
}
