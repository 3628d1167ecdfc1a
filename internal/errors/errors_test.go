package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/numerus-lang/numerus/internal/position"
)

func TestErrorsIs(t *testing.T) {
	span := position.Span{
		Start: position.Position{Line: 1, Column: 15, Offset: 14},
		End:   position.Position{Line: 1, Column: 25, Offset: 24},
	}

	err := fmt.Errorf("running script: %w", DivisionByZero(span))

	if !stderrors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected errors.Is to match ErrDivisionByZero, got %v", err)
	}
	if stderrors.Is(err, ErrIntegerOverflow) {
		t.Fatalf("division by zero should not match ErrIntegerOverflow")
	}

	var e *Error
	if !stderrors.As(err, &e) {
		t.Fatalf("expected errors.As to find *Error")
	}
	if e.Category != CategoryRuntime {
		t.Errorf("category wrong. expected=%q, got=%q", CategoryRuntime, e.Category)
	}
	if !e.HasSpan() || e.Span != span {
		t.Errorf("span wrong. expected=%v, got=%v", span, e.Span)
	}
}

func TestSpanlessLexicalErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		line    int
		column  int
		message string
	}{
		{
			name:    "unexpected character",
			err:     UnexpectedCharacter('@', 3, 7),
			line:    3,
			column:  7,
			message: "ERRATUM LEXICUM: Character '@' ignotum est in linea 3, columna 7!",
		},
		{
			name:    "unterminated string",
			err:     UnterminatedString(2),
			line:    2,
			column:  1,
			message: "ERRATUM LEXICUM: String non terminata in linea 2!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.HasSpan() {
				t.Fatalf("expected no span, got %v", tt.err.Span)
			}
			pos, ok := tt.err.Location()
			if !ok || pos.Line != tt.line || pos.Column != tt.column {
				t.Errorf("Location() = %v, %v; want %d:%d", pos, ok, tt.line, tt.column)
			}
			if tt.err.Error() != tt.message {
				t.Errorf("message wrong. expected=%q, got=%q", tt.message, tt.err.Error())
			}
		})
	}
}

func TestWithSpan(t *testing.T) {
	span := position.Span{
		Start: position.Position{Line: 4, Column: 1, Offset: 40},
		End:   position.Position{Line: 4, Column: 6, Offset: 45},
	}

	base := UndefinedVariable("SUMMA")
	located := base.WithSpan(span)

	if base.HasSpan() {
		t.Fatalf("WithSpan must not mutate the receiver")
	}
	if located.Span != span {
		t.Errorf("span wrong. expected=%v, got=%v", span, located.Span)
	}
	if again := located.WithSpan(position.Span{}); again != located {
		t.Errorf("WithSpan with an invalid span should return the receiver")
	}
	if name, _ := located.Detail("name"); name != "SUMMA" {
		t.Errorf("Detail(name) = %v, want SUMMA", name)
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		err      *Error
		expected string
	}{
		{NumberOutOfRange("4000", position.Span{}), "ERRATUM LEXICUM: Numerus 4000 extra fines est! (I-MMMCMXCIX solum)"},
		{InvalidRomanNumeral("IIII", position.Span{}), "ERRATUM LEXICUM: Numerus Romanus 'IIII' invalidus est!"},
		{UnexpectedToken("EST", "numerus Arabicus", position.Span{}), "ERRATUM SYNTAXIS: Expectabatur 'EST', sed inveni 'numerus Arabicus'!"},
		{VariableAlreadyDeclared("X"), "ERRATUM: Variable 'X' iam declarata est!"},
		{IntegerOverflow(4000000000, position.Span{}), "ERRATUM: Numerus 4000000000 nimis magnus vel parvus!"},
		{TypeMismatch("SUBTRAHE", "numbers", position.Span{}), "ERRATUM: Operatio 'SUBTRAHE' requirit numbers!"},
		{NegativeRomanConversion(0), "ERRATUM: Numerus negativus 0 in Romanis exprimi non potest!"},
	}

	for i, tt := range tests {
		if tt.err.Error() != tt.expected {
			t.Errorf("tests[%d] - message wrong. expected=%q, got=%q", i, tt.expected, tt.err.Error())
		}
	}
}
