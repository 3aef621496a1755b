// Package format holds the number and name formatting shared by the
// simulator exporters.
package format

import (
	"math"
	"strconv"
	"strings"
)

// Fixed renders v with exactly prec digits after the decimal point.
// Negative zero is printed as zero.
func Fixed(v float64, prec int) string {
	if v == 0 {
		v = 0
	}
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s[1:], "0.") == "" {
		return s[1:]
	}
	return s
}

func F1(v float64) string { return Fixed(v, 1) }
func F3(v float64) string { return Fixed(v, 3) }
func F4(v float64) string { return Fixed(v, 4) }
func F6(v float64) string { return Fixed(v, 6) }

// Complex renders a series impedance as "r+xj" / "r-xj" with six decimals,
// the form GridLAB-D expects for impedance properties.
func Complex(re, im float64) string {
	sign := "+"
	if im < 0 {
		sign = "-"
	}
	return F6(re) + sign + F6(math.Abs(im)) + "j"
}

var unsafeNameChars = strings.NewReplacer(
	" ", "_",
	".", "_",
	"=", "_",
	"+", "_",
	"^", "_",
	"$", "_",
	"*", "_",
	"|", "_",
	"[", "_",
	"]", "_",
	"{", "_",
	"}", "_",
	"/", "_",
)

// SafeName replaces characters the simulators treat as syntax with underscores.
func SafeName(s string) string {
	return unsafeNameChars.Replace(s)
}
