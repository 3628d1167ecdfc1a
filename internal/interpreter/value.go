package interpreter

import (
	"strconv"

	"github.com/numerus-lang/numerus/internal/errors"
	"github.com/numerus-lang/numerus/internal/position"
	"github.com/numerus-lang/numerus/internal/roman"
)

// Value is a runtime value: Number or Str.
type Value interface {
	// String renders the value for debugging; numbers stay decimal.
	String() string
	// Kind names the value type for diagnostics.
	Kind() string
	value()
}

// Number is a 32-bit signed integer. It may hold values that have no Roman
// form; the 1..3999 range is only enforced when printing.
type Number int32

// Str is an owned piece of text.
type Str string

func (n Number) String() string { return strconv.FormatInt(int64(n), 10) }
func (n Number) Kind() string   { return "numerus" }
func (Number) value()           {}

func (s Str) String() string { return string(s) }
func (s Str) Kind() string   { return "string" }
func (Str) value()           {}

// OutputString converts v into the text SCRIBE prints. Strings pass through;
// numbers must be in 1..3999 and are rendered as Roman numerals.
func OutputString(v Value) (string, error) {
	switch v := v.(type) {
	case Str:
		return string(v), nil
	case Number:
		n := int32(v)
		if n <= 0 {
			return "", errors.NegativeRomanConversion(n)
		}
		if n > roman.MaxValue {
			return "", errors.RomanOverflow(n)
		}
		s, err := roman.ToRoman(n)
		if err != nil {
			return "", errors.RomanOverflow(n)
		}
		return s, nil
	default:
		return "", errors.TypeMismatch("SCRIBE", "numerus vel string", position.Span{})
	}
}

// concatText is the text a number contributes to a string concatenation:
// its Roman form, or its decimal digits when it has none.
func concatText(n Number) string {
	if s, err := roman.ToRoman(int32(n)); err == nil {
		return s
	}
	return n.String()
}
