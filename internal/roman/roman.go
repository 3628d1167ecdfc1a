// Package roman converts between integers and canonical Roman numerals.
//
// Only the range I..MMMCMXCIX (1..3999) is representable. Parsing is strict:
// a string is accepted only if it is the exact encoding ToRoman would produce
// for its value, so forms such as "IIII" or "VX" are rejected.
package roman

import (
	"fmt"
	"strings"
)

const (
	MinValue = 1
	MaxValue = 3999
)

var numerals = [13]struct {
	value  int32
	symbol string
}{
	{1000, "M"},
	{900, "CM"},
	{500, "D"},
	{400, "CD"},
	{100, "C"},
	{90, "XC"},
	{50, "L"},
	{40, "XL"},
	{10, "X"},
	{9, "IX"},
	{5, "V"},
	{4, "IV"},
	{1, "I"},
}

// ErrorKind classifies conversion failures.
type ErrorKind int

const (
	ErrNonPositive ErrorKind = iota
	ErrOverflow
	ErrEmpty
	ErrInvalidCharacter
	ErrInvalidRepetition
	ErrTooManyRepetitions
	ErrInvalidSubtractive
	ErrNonCanonical
)

// Error describes why a conversion failed.
type Error struct {
	Kind      ErrorKind
	Value     int32  // ErrNonPositive, ErrOverflow
	Char      rune   // ErrInvalidCharacter, ErrInvalidRepetition, ErrTooManyRepetitions
	Input     string // uppercased input for parse errors
	Canonical string // ErrNonCanonical: the encoding of the computed value
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrNonPositive:
		return fmt.Sprintf("roman: %d is not positive", e.Value)
	case ErrOverflow:
		return fmt.Sprintf("roman: %d exceeds %d", e.Value, MaxValue)
	case ErrEmpty:
		return "roman: empty numeral"
	case ErrInvalidCharacter:
		return fmt.Sprintf("roman: invalid character %q", e.Char)
	case ErrInvalidRepetition:
		return fmt.Sprintf("roman: %c may not repeat", e.Char)
	case ErrTooManyRepetitions:
		return fmt.Sprintf("roman: %c repeated more than three times", e.Char)
	case ErrInvalidSubtractive:
		return fmt.Sprintf("roman: invalid subtractive combination in %q", e.Input)
	case ErrNonCanonical:
		return fmt.Sprintf("roman: %q is not canonical, expected %q", e.Input, e.Canonical)
	default:
		return "roman: conversion failed"
	}
}

// ToRoman returns the canonical numeral for n, which must be in 1..3999.
func ToRoman(n int32) (string, error) {
	if n < MinValue {
		return "", &Error{Kind: ErrNonPositive, Value: n}
	}
	if n > MaxValue {
		return "", &Error{Kind: ErrOverflow, Value: n}
	}

	var b strings.Builder
	for _, numeral := range numerals {
		for n >= numeral.value {
			b.WriteString(numeral.symbol)
			n -= numeral.value
		}
	}
	return b.String(), nil
}

// FromRoman parses a canonical Roman numeral, ignoring letter case.
func FromRoman(s string) (int32, error) {
	if s == "" {
		return 0, &Error{Kind: ErrEmpty}
	}

	s = strings.ToUpper(s)

	var (
		total  int32
		prev   int32
		last   rune
		repeat = 1
	)

	// Right to left, so a smaller symbol is subtracted when it precedes a
	// larger one.
	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		ch := runes[i]
		value, ok := symbolValue(ch)
		if !ok {
			return 0, &Error{Kind: ErrInvalidCharacter, Char: ch, Input: s}
		}

		if last == ch {
			repeat++
			switch ch {
			case 'V', 'L', 'D':
				return 0, &Error{Kind: ErrInvalidRepetition, Char: ch, Input: s}
			default:
				if repeat > 3 {
					return 0, &Error{Kind: ErrTooManyRepetitions, Char: ch, Input: s}
				}
			}
		} else {
			repeat = 1
		}

		if value < prev {
			if !validSubtractive(value, prev) {
				return 0, &Error{Kind: ErrInvalidSubtractive, Input: s}
			}
			total -= value
		} else {
			total += value
		}

		prev = value
		last = ch
	}

	canonical, err := ToRoman(total)
	if err != nil || canonical != s {
		return 0, &Error{Kind: ErrNonCanonical, Input: s, Canonical: canonical}
	}

	return total, nil
}

// LooksLikeRoman reports whether s is non-empty and uses only the uppercase
// letters I V X L C D M. It is a cheap filter before FromRoman.
func LooksLikeRoman(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if _, ok := symbolValue(rune(s[i])); !ok {
			return false
		}
	}
	return true
}

func symbolValue(ch rune) (int32, bool) {
	switch ch {
	case 'I':
		return 1, true
	case 'V':
		return 5, true
	case 'X':
		return 10, true
	case 'L':
		return 50, true
	case 'C':
		return 100, true
	case 'D':
		return 500, true
	case 'M':
		return 1000, true
	}
	return 0, false
}

// validSubtractive allows only IV, IX, XL, XC, CD and CM.
func validSubtractive(small, large int32) bool {
	switch small {
	case 1:
		return large == 5 || large == 10
	case 10:
		return large == 50 || large == 100
	case 100:
		return large == 500 || large == 1000
	}
	return false
}
