// Package diagnostic turns Numerus errors into editor-friendly records.
//
// A Report is the JSON document printed by `numerus check --json`:
//
//	{"diagnostics":[{"line":1,"column":15,"end_line":1,"end_column":19,"severity":"error","message":"..."}]}
package diagnostic

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/numerus-lang/numerus/internal/errors"
	"github.com/numerus-lang/numerus/internal/lexer"
	"github.com/numerus-lang/numerus/internal/parser"
	"github.com/numerus-lang/numerus/internal/position"
)

// Severity represents the severity level of a diagnostic message.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("diagnostic: unknown severity %q", text)
	}
	return nil
}

// Diagnostic represents a single diagnostic message. Lines and columns are
// 1-based; EndColumn is exclusive.
type Diagnostic struct {
	Line      int      `json:"line"`
	Column    int      `json:"column"`
	EndLine   int      `json:"end_line"`
	EndColumn int      `json:"end_column"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	Code      string   `json:"code,omitempty"`
}

// Report groups the diagnostics for one source.
type Report struct {
	File        string       `json:"file,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

func (r Report) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// JSON encodes the report on a single line.
func (r Report) JSON() ([]byte, error) {
	if r.Diagnostics == nil {
		r.Diagnostics = []Diagnostic{}
	}
	return json.Marshal(r)
}

// Check lexes and parses source and reports the first error found, if any.
// The program is not executed.
func Check(source string) Report {
	report := Report{Diagnostics: []Diagnostic{}}

	tokens, err := lexer.Tokenize(source)
	if err != nil {
		report.Diagnostics = append(report.Diagnostics, FromError(err, source))
		return report
	}
	if _, err := parser.New(tokens).Parse(); err != nil {
		report.Diagnostics = append(report.Diagnostics, FromError(err, source))
	}
	return report
}

// FileError reports a source file that could not be read.
func FileError(err error) Diagnostic {
	return Diagnostic{
		Line: 1, Column: 1, EndLine: 1, EndColumn: 1,
		Severity: SeverityError,
		Message:  "Cannot read file: " + err.Error(),
	}
}

// FromError converts err into a Diagnostic. Spanned errors cover the span's
// first line; the spanless lexical errors fall back to their raw position.
func FromError(err error, source string) Diagnostic {
	d := Diagnostic{
		Line: 1, Column: 1, EndLine: 1, EndColumn: 1,
		Severity: SeverityError,
		Message:  strings.ReplaceAll(err.Error(), "\n", " "),
	}

	var e *errors.Error
	if !stderrors.As(err, &e) {
		return d
	}
	d.Code = string(e.Code)

	switch {
	case e.HasSpan():
		d.Line, d.Column = e.Span.Start.Line, e.Span.Start.Column
		d.EndLine = d.Line
		d.EndColumn = d.Column + max(1, e.Span.Length())
	case e.Code == errors.CodeUnexpectedCharacter:
		d.Line, d.Column = e.Pos.Line, e.Pos.Column
		d.EndLine, d.EndColumn = e.Pos.Line, e.Pos.Column+1
	case e.Code == errors.CodeUnterminatedString:
		file := position.NewSourceFile("", source)
		d.Line, d.Column = e.Pos.Line, 1
		d.EndLine = e.Pos.Line
		if e.Pos.Line <= len(file.Lines) {
			d.EndColumn = len(file.GetLine(e.Pos.Line))
		}
	}
	return d
}

// FormatWithSource renders err followed by the offending source line with a
// caret underline when the error has a span.
func FormatWithSource(source string, err error) string {
	var b strings.Builder
	b.WriteString(err.Error())
	b.WriteString("\n")

	var e *errors.Error
	if stderrors.As(err, &e) && e.HasSpan() {
		highlighter := position.NewSpanHighlighter(position.NewSourceFile("", source))
		b.WriteString(highlighter.HighlightSpan(e.Span))
	}
	return b.String()
}
