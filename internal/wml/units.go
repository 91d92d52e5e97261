package wml

import "math"

// Inches converts inches to twips (twentieths of a point, 1440 per inch),
// the native length unit of page geometry and indentation.
func Inches(in float64) int {
	return int(math.Round(in * 1440))
}

// HalfPoints converts a point size to the half-point unit of w:sz.
func HalfPoints(pt float64) int {
	return int(math.Round(pt * 2))
}

// Twentieths converts a point size to twentieths of a point, the unit of
// paragraph spacing values.
func Twentieths(pt float64) int {
	return int(math.Round(pt * 20))
}

// LineSpacing converts a spacing multiplier to the w:line encoding used
// with lineRule "auto" (240 = single spacing).
func LineSpacing(mult float64) int {
	return int(math.Round(mult * 240))
}
