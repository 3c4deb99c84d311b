package ir

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// IRDecimal represents an exact decimal number.
//
// The value is held as normalized decimal text: no exponent, no trailing
// fractional zeros, no leading plus sign. Two IRDecimal values are equal iff
// they denote the same number, which keeps plan hashes stable.
type IRDecimal struct {
	text string
}

func (IRDecimal) irValue() {}

// ParseDecimal parses decimal text into an IRDecimal.
// Accepts anything apd accepts except NaN and infinities.
func ParseDecimal(s string) (IRDecimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return IRDecimal{}, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	if d.Form != apd.Finite {
		return IRDecimal{}, fmt.Errorf("parse decimal %q: not a finite number", s)
	}

	var reduced apd.Decimal
	reduced.Reduce(d)
	text := reduced.Text('f')
	if text == "-0" {
		text = "0"
	}
	return IRDecimal{text: text}, nil
}

// MustDecimal is like ParseDecimal but panics on error. Intended for tests
// and constant tables.
func MustDecimal(s string) IRDecimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the normalized decimal text.
func (d IRDecimal) String() string {
	if d.text == "" {
		return "0"
	}
	return d.text
}

// Float64 returns the nearest binary float. Only backends call this.
func (d IRDecimal) Float64() float64 {
	f, err := strconv.ParseFloat(d.String(), 64)
	if err != nil {
		return 0
	}
	return f
}
