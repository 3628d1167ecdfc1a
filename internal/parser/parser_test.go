package parser

import (
	stderrors "errors"
	"testing"

	"github.com/numerus-lang/numerus/internal/ast"
	"github.com/numerus-lang/numerus/internal/errors"
	"github.com/numerus-lang/numerus/internal/lexer"
)

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, err := ParseSource(input)
	if err != nil {
		t.Fatalf("ParseSource(%q) returned error: %v", input, err)
	}
	return program
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DECLARA X EST 42", "DECLARA X EST 42"},
		{"DECLARA X EST XIV", "DECLARA X EST 14"},
		{`DECLARA msg EST "Hello World"`, `DECLARA msg EST "Hello World"`},
		{"DECLARA myVar EST 42", "DECLARA myVar EST 42"},
		{"X EST 10", "X EST 10"},
		{`SCRIBE("Salve")`, `SCRIBE("Salve")`},
		{"SCRIBE(ARABIZA(X))", "SCRIBE(ARABIZA(X))"},
		{"SCRIBE(EXPRIME(ROMANIZA(XL)))", "SCRIBE(EXPRIME(ROMANIZA(40)))"},
		{"AVTEM", "AVTEM"},
		{`DECLARA msg EST "Hello " ADDIUS "World"`, `DECLARA msg EST ("Hello " ADDIUS "World")`},
	}

	for i, tt := range tests {
		program := mustParse(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("tests[%d] - statement count wrong. expected=1, got=%d", i, len(program.Statements))
		}
		if got := program.Statements[0].String(); got != tt.expected {
			t.Errorf("tests[%d] - statement wrong. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"X EST A ADDIUS B", "X EST (A ADDIUS B)"},
		{"X EST A ADDIUS B MULTIPLICA C", "X EST (A ADDIUS (B MULTIPLICA C))"},
		{"X EST A MULTIPLICA B ADDIUS C", "X EST ((A MULTIPLICA B) ADDIUS C)"},
		{"X EST (A ADDIUS B) MULTIPLICA C", "X EST ([(A ADDIUS B)] MULTIPLICA C)"},
		{"X EST A SUBTRAHE B SUBTRAHE C", "X EST ((A SUBTRAHE B) SUBTRAHE C)"},
		{"X EST A DIVIDE B DIVIDE C", "X EST ((A DIVIDE B) DIVIDE C)"},
		{"X EST A DIVIDE B MULTIPLICA C SUBTRAHE D", "X EST (((A DIVIDE B) MULTIPLICA C) SUBTRAHE D)"},
		{"X EST ROMANIZA(A ADDIUS B) MULTIPLICA C", "X EST (ROMANIZA((A ADDIUS B)) MULTIPLICA C)"},
		{"X EST ((X))", "X EST [[X]]"},
	}

	for i, tt := range tests {
		program := mustParse(t, tt.input)
		if got := program.String(); got != tt.expected {
			t.Errorf("tests[%d] - program wrong. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestNumberOrigin(t *testing.T) {
	program := mustParse(t, "DECLARA A EST XIV ADDIUS 14")
	decl, ok := program.Statements[0].(*ast.DeclarationStatement)
	if !ok {
		t.Fatalf("statement is not *ast.DeclarationStatement. got=%T", program.Statements[0])
	}
	bin, ok := decl.Value.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("value is not *ast.BinaryExpression. got=%T", decl.Value)
	}

	left := bin.Left.(*ast.NumberLiteral)
	right := bin.Right.(*ast.NumberLiteral)
	if left.Value != 14 || left.Origin != ast.OriginRoman {
		t.Errorf("left literal wrong. got value=%d origin=%s", left.Value, left.Origin)
	}
	if right.Value != 14 || right.Origin != ast.OriginArabic {
		t.Errorf("right literal wrong. got value=%d origin=%s", right.Value, right.Origin)
	}
}

func TestMultipleStatements(t *testing.T) {
	input := "DECLARA A EST XV\nDECLARA B EST 10\nDECLARA C EST A ADDIUS B\nSCRIBE(\"Summa: \" ADDIUS C)"
	program := mustParse(t, input)

	expected := []string{
		"DECLARA A EST 15",
		"DECLARA B EST 10",
		"DECLARA C EST (A ADDIUS B)",
		`SCRIBE(("Summa: " ADDIUS C))`,
	}
	if len(program.Statements) != len(expected) {
		t.Fatalf("statement count wrong. expected=%d, got=%d", len(expected), len(program.Statements))
	}
	for i, want := range expected {
		if got := program.Statements[i].String(); got != want {
			t.Errorf("statements[%d] wrong. expected=%q, got=%q", i, want, got)
		}
	}
}

func TestEmptyProgram(t *testing.T) {
	for _, input := range []string{"", "   \n\n", "NOTA: solum commentarium\n"} {
		program := mustParse(t, input)
		if len(program.Statements) != 0 {
			t.Errorf("input %q - expected no statements, got %d", input, len(program.Statements))
		}
	}
}

func TestSpans(t *testing.T) {
	program := mustParse(t, "DECLARA X EST 1 ADDIUS 2\nSCRIBE(X)")

	decl := program.Statements[0].(*ast.DeclarationStatement)
	if decl.Span.Start.Offset != 0 || decl.Span.End.Offset != 24 {
		t.Errorf("declaration span wrong. got=%d..%d", decl.Span.Start.Offset, decl.Span.End.Offset)
	}

	bin := decl.Value.(*ast.BinaryExpression)
	if bin.Span.Start.Column != 15 || bin.Span.End.Column != 25 {
		t.Errorf("binary span wrong. got=%s", bin.Span)
	}

	ps := program.Statements[1].(*ast.PrintStatement)
	if ps.Span.Start.Line != 2 || ps.Span.Start.Column != 1 || ps.Span.End.Column != 10 {
		t.Errorf("print span wrong. got=%s", ps.Span)
	}

	if program.Span.Start.Offset != 0 || program.Span.End.Line != 2 || program.Span.End.Column != 10 {
		t.Errorf("program span wrong. got=%s", program.Span)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected *errors.Error
		line     int
		column   int
	}{
		{"DECLARA EST 5", errors.ErrExpectedIdentifier, 1, 9},
		{"DECLARA 5 EST 5", errors.ErrExpectedIdentifier, 1, 9},
		{"DECLARA X 5", errors.ErrUnexpectedToken, 1, 11},
		{"DECLARA X EST", errors.ErrExpectedExpression, 1, 14},
		{"X EST ADDIUS 1", errors.ErrExpectedExpression, 1, 7},
		{"X 5", errors.ErrUnexpectedToken, 1, 3},
		{"SCRIBE X", errors.ErrUnexpectedToken, 1, 8},
		{"SCRIBE(X", errors.ErrUnclosedParenthesis, 1, 7},
		{"SCRIBE(X X)", errors.ErrUnexpectedToken, 1, 10},
		{"X EST (1 ADDIUS 2", errors.ErrUnclosedParenthesis, 1, 7},
		{"X EST ROMANIZA 5", errors.ErrUnexpectedToken, 1, 16},
		{"X EST ARABIZA(5", errors.ErrUnclosedParenthesis, 1, 14},
		{"EST 5", errors.ErrUnexpectedToken, 1, 1},
		{"42", errors.ErrUnexpectedToken, 1, 1},
		{"AVTEM\n)", errors.ErrUnexpectedToken, 2, 1},
		{"DECLARA X EST 4000", errors.ErrNumberOutOfRange, 1, 15},
		// Each literal is above 3999, so the sum never reaches evaluation.
		{"DECLARA X EST 2000000000 ADDIUS 2000000000", errors.ErrNumberOutOfRange, 1, 15},
	}

	for i, tt := range tests {
		_, err := ParseSource(tt.input)
		if err == nil {
			t.Errorf("tests[%d] - expected error for %q, got none", i, tt.input)
			continue
		}
		if !stderrors.Is(err, tt.expected) {
			t.Errorf("tests[%d] - error kind wrong. expected=%s, got=%v", i, tt.expected.Code, err)
			continue
		}

		var perr *errors.Error
		if !stderrors.As(err, &perr) {
			t.Fatalf("tests[%d] - error is not *errors.Error. got=%T", i, err)
		}
		pos, ok := perr.Location()
		if !ok {
			t.Errorf("tests[%d] - error has no location", i)
			continue
		}
		if pos.Line != tt.line || pos.Column != tt.column {
			t.Errorf("tests[%d] - location wrong. expected=%d:%d, got=%d:%d",
				i, tt.line, tt.column, pos.Line, pos.Column)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DECLARA X EST", "ERRATUM SYNTAXIS: Expressio expectata post 'EST'!"},
		{"DECLARA X 5", "ERRATUM SYNTAXIS: Expectabatur 'EST', sed inveni 'numerus Arabicus'!"},
		{"DECLARA 5 EST 5", "ERRATUM SYNTAXIS: Identificator expectatus, sed inveni 'numerus Arabicus'!"},
		{"SCRIBE(X", "ERRATUM SYNTAXIS: Parenthesis clausa ')' desideratur!"},
		{"DECLARA X EST 2000000000 ADDIUS 2000000000", "ERRATUM LEXICUM: Numerus 2000000000 extra fines est! (I-MMMCMXCIX solum)"},
	}

	for i, tt := range tests {
		_, err := ParseSource(tt.input)
		if err == nil {
			t.Fatalf("tests[%d] - expected error for %q", i, tt.input)
		}
		if err.Error() != tt.expected {
			t.Errorf("tests[%d] - message wrong. expected=%q, got=%q", i, tt.expected, err.Error())
		}
	}
}

func TestLexicalErrorPassesThrough(t *testing.T) {
	_, err := ParseSource("DECLARA X EST 4000")
	if !stderrors.Is(err, errors.ErrNumberOutOfRange) {
		t.Fatalf("expected number out of range, got %v", err)
	}
}

func TestAssignmentToUndeclaredParses(t *testing.T) {
	program := mustParse(t, "nunquam EST 1")
	if _, ok := program.Statements[0].(*ast.AssignmentStatement); !ok {
		t.Fatalf("expected *ast.AssignmentStatement, got %T", program.Statements[0])
	}
}

func TestCommentStatementFromRawTokens(t *testing.T) {
	l := lexer.New("NOTA: salve\nAVTEM")
	var tokens []lexer.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken returned error: %v", err)
		}
		if tok.Type == lexer.TokenNewline {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == lexer.TokenEOF {
			break
		}
	}

	program, err := New(tokens).Parse()
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(program.Statements) != 2 {
		t.Fatalf("statement count wrong. expected=2, got=%d", len(program.Statements))
	}
	comment, ok := program.Statements[0].(*ast.CommentStatement)
	if !ok {
		t.Fatalf("expected *ast.CommentStatement, got %T", program.Statements[0])
	}
	if comment.Text != "salve" {
		t.Errorf("comment text wrong. expected=%q, got=%q", "salve", comment.Text)
	}
}

func TestNewAppendsEOF(t *testing.T) {
	tokens, err := lexer.Tokenize("AVTEM")
	if err != nil {
		t.Fatal(err)
	}
	program, err := New(tokens[:len(tokens)-1]).Parse()
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(program.Statements) != 1 {
		t.Errorf("statement count wrong. expected=1, got=%d", len(program.Statements))
	}

	if _, err := New(nil).Parse(); err != nil {
		t.Errorf("parsing no tokens returned error: %v", err)
	}
}

func TestUnexpectedEndOfInput(t *testing.T) {
	p := New(nil)
	_, err := p.parseStatement()
	if !stderrors.Is(err, errors.ErrUnexpectedEndOfInput) {
		t.Fatalf("expected unexpected end of input, got %v", err)
	}
}
