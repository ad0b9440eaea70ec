// Package mathx holds the integer helpers used for divisor maths.
package mathx

import "golang.org/x/exp/constraints"

// Between reports lo <= v <= hi. The bounds may be given in either order.
func Between[T constraints.Ordered](v, lo, hi T) bool {
	if hi < lo {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

// RoundDiv returns a/b rounded to nearest, halves up. b == 0 yields 0.
func RoundDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}
