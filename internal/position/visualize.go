package position

import (
	"fmt"
	"strings"
)

// SpanHighlighter renders a source line with a caret run under a span.
type SpanHighlighter struct {
	file *SourceFile
}

// NewSpanHighlighter creates a new span highlighter.
func NewSpanHighlighter(file *SourceFile) *SpanHighlighter {
	return &SpanHighlighter{file: file}
}

// HighlightSpan returns the first line of span with a gutter and carets:
//
//	--> linea 2:9
//	 |
//	2 | DECLARA Y EST X DIVIDE 0
//	 |         ^
//
// Only the first line of the span is drawn; multi-line spans are underlined
// to the end of that line.
func (sh *SpanHighlighter) HighlightSpan(span Span) string {
	if sh.file == nil || span.Start.Line < 1 || span.Start.Line > len(sh.file.Lines) {
		return ""
	}

	line := sh.file.GetLine(span.Start.Line)
	width := span.End.Column - span.Start.Column
	if span.End.Line != span.Start.Line {
		width = sh.file.LineWidth(span.Start.Line) - span.Start.Column + 1
	}
	if width < 1 {
		width = 1
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("  --> linea %d:%d\n", span.Start.Line, span.Start.Column))
	result.WriteString("   |\n")
	result.WriteString(fmt.Sprintf(" %3d | %s\n", span.Start.Line, line))
	result.WriteString("   | ")
	sh.addPadding(&result, line, span.Start.Column)
	result.WriteString(strings.Repeat("^", width))
	result.WriteString("\n")

	return result.String()
}

// addPadding writes blanks up to column, keeping tabs so carets line up.
func (sh *SpanHighlighter) addPadding(result *strings.Builder, line string, column int) {
	runes := []rune(line)
	for i := 1; i < column; i++ {
		if i <= len(runes) && runes[i-1] == '\t' {
			result.WriteString("\t")
		} else {
			result.WriteString(" ")
		}
	}
}
