package reveal

import (
	"fmt"
	"math"
)

const (
	DefaultLengthRatio = 12
	DefaultMinLength   = 400
	DefaultMaxLength   = 6000

	// DefaultUnitsPerRow is how many length units one spacer row stands for.
	DefaultUnitsPerRow = 20
)

// LengthPolicy sizes the scrollable range from the word count.
type LengthPolicy struct {
	Ratio int
	Min   int
	Max   int
}

// DefaultLengthPolicy returns ratio 12 bounded to [400, 6000].
func DefaultLengthPolicy() LengthPolicy {
	return LengthPolicy{Ratio: DefaultLengthRatio, Min: DefaultMinLength, Max: DefaultMaxLength}
}

// Validate checks that the bounds are ordered and the ratio positive.
func (p LengthPolicy) Validate() error {
	if p.Ratio <= 0 {
		return fmt.Errorf("scroll ratio must be positive, got %d", p.Ratio)
	}
	if p.Min <= 0 {
		return fmt.Errorf("scroll min must be positive, got %d", p.Min)
	}
	if p.Min > p.Max {
		return fmt.Errorf("scroll min (%d) must not exceed max (%d)", p.Min, p.Max)
	}
	return nil
}

// Auto is the length used when the user has not picked one.
func (p LengthPolicy) Auto(wordCount int) int {
	return clampInt(max(wordCount, 0)*p.Ratio, p.Min, p.Max)
}

// Clamp rounds v to the nearest integer and bounds it to [Min, Max].
// ok is false for NaN and infinities, which callers ignore.
func (p LengthPolicy) Clamp(v float64) (length int, ok bool) {
	if !finite(v) {
		return 0, false
	}
	r := math.Round(v)
	if r < float64(p.Min) {
		return p.Min, true
	}
	if r > float64(p.Max) {
		return p.Max, true
	}
	return int(r), true
}

// Fraction positions length within [Min, Max] as a value in [0, 1].
func (p LengthPolicy) Fraction(length int) float64 {
	span := p.Max - p.Min
	if span <= 0 {
		return 1
	}
	return clamp01(float64(length-p.Min) / float64(span))
}

// AtFraction is the inverse of Fraction.
func (p LengthPolicy) AtFraction(f float64) int {
	v, _ := p.Clamp(float64(p.Min) + clamp01(f)*float64(p.Max-p.Min))
	return v
}

// ScrollLength is the current length and whether the user chose it.
type ScrollLength struct {
	Length int
	Custom bool
}

// Rows converts a length into terminal rows at unitsPerRow length units
// per row. At least one row is returned for any positive length.
func Rows(length, unitsPerRow int) int {
	if length <= 0 {
		return 0
	}
	if unitsPerRow <= 0 {
		unitsPerRow = 1
	}
	return max(1, int(math.Round(float64(length)/float64(unitsPerRow))))
}
