package roman

import (
	"errors"
	"testing"
)

func TestToRoman(t *testing.T) {
	tests := []struct {
		input    int32
		expected string
	}{
		{1, "I"},
		{4, "IV"},
		{9, "IX"},
		{14, "XIV"},
		{25, "XXV"},
		{40, "XL"},
		{42, "XLII"},
		{90, "XC"},
		{400, "CD"},
		{900, "CM"},
		{1999, "MCMXCIX"},
		{2024, "MMXXIV"},
		{3888, "MMMDCCCLXXXVIII"},
		{3999, "MMMCMXCIX"},
	}

	for _, tt := range tests {
		got, err := ToRoman(tt.input)
		if err != nil {
			t.Fatalf("ToRoman(%d) returned error: %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("ToRoman(%d) wrong. expected=%q, got=%q", tt.input, tt.expected, got)
		}
	}
}

func TestToRomanOutOfRange(t *testing.T) {
	tests := []struct {
		input int32
		kind  ErrorKind
	}{
		{0, ErrNonPositive},
		{-7, ErrNonPositive},
		{4000, ErrOverflow},
		{2147483647, ErrOverflow},
	}

	for _, tt := range tests {
		_, err := ToRoman(tt.input)
		var rerr *Error
		if !errors.As(err, &rerr) {
			t.Fatalf("ToRoman(%d) expected *Error, got %v", tt.input, err)
		}
		if rerr.Kind != tt.kind || rerr.Value != tt.input {
			t.Errorf("ToRoman(%d) error = %+v, want kind %d", tt.input, rerr, tt.kind)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for n := int32(MinValue); n <= MaxValue; n++ {
		s, err := ToRoman(n)
		if err != nil {
			t.Fatalf("ToRoman(%d) returned error: %v", n, err)
		}
		back, err := FromRoman(s)
		if err != nil {
			t.Fatalf("FromRoman(%q) returned error: %v", s, err)
		}
		if back != n {
			t.Fatalf("round trip of %d gave %d via %q", n, back, s)
		}
	}
}

func TestFromRomanCaseInsensitive(t *testing.T) {
	for _, input := range []string{"xlii", "XlIi", "XLII"} {
		got, err := FromRoman(input)
		if err != nil || got != 42 {
			t.Errorf("FromRoman(%q) = %d, %v; want 42", input, got, err)
		}
	}
}

func TestFromRomanRejects(t *testing.T) {
	tests := []struct {
		input string
		kind  ErrorKind
	}{
		{"", ErrEmpty},
		{"IIII", ErrTooManyRepetitions},
		{"MMMM", ErrTooManyRepetitions},
		{"VV", ErrInvalidRepetition},
		{"LL", ErrInvalidRepetition},
		{"DD", ErrInvalidRepetition},
		{"VX", ErrInvalidSubtractive},
		{"IL", ErrInvalidSubtractive},
		{"XM", ErrInvalidSubtractive},
		{"IC", ErrInvalidSubtractive},
		{"IIV", ErrNonCanonical},
		{"XIIX", ErrNonCanonical},
		{"IXI", ErrNonCanonical},
		{"ABC", ErrInvalidCharacter},
		{"X1", ErrInvalidCharacter},
		{"XIV ", ErrInvalidCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := FromRoman(tt.input)
			var rerr *Error
			if !errors.As(err, &rerr) {
				t.Fatalf("FromRoman(%q) expected *Error, got %v", tt.input, err)
			}
			if rerr.Kind != tt.kind {
				t.Errorf("FromRoman(%q) kind wrong. expected=%d, got=%d (%v)", tt.input, tt.kind, rerr.Kind, rerr)
			}
		})
	}
}

func TestLooksLikeRoman(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"I", true},
		{"MCMXCIX", true},
		{"IIII", true},
		{"xiv", false},
		{"XIVA", false},
		{"SUMMA", false},
	}

	for _, tt := range tests {
		if got := LooksLikeRoman(tt.input); got != tt.expected {
			t.Errorf("LooksLikeRoman(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
