// Package fixmath implements the deterministic 16.16 fixed-point
// arithmetic shared by both peers. Every value that crosses the wire or
// feeds a rollback comparison is produced by this package; native float
// operations are confined to the I/O boundary so that independent builds
// stay bit-for-bit in agreement.
package fixmath

import "errors"

// Fixed is a signed 16.16 fixed-point scalar: value = raw / 65536.
type Fixed int32

const (
	One     Fixed = 65536
	Half    Fixed = 32768
	Quarter Fixed = 16384
	Two     Fixed = 131072
)

const (
	sinTableSize = 1024
	sinTableMask = sinTableSize - 1
)

// ErrDivisionByZero is returned by Div when the denominator is zero.
// Callers inside the simulation bias denominators away from zero instead
// of handling this at every call site.
var ErrDivisionByZero = errors.New("fixmath: division by zero")

// FromFloat converts a float to fixed-point. Boundary use only: the
// result must never be recomputed independently on both peers from
// floats that could differ.
func FromFloat(f float64) Fixed {
	return Fixed(f * float64(One))
}

// ToFloat converts a fixed-point value to float for display and logging.
func ToFloat(f Fixed) float64 {
	return float64(f) / float64(One)
}

// FromInt converts an integer to fixed-point.
func FromInt(i int32) Fixed {
	return Fixed(i) * One
}

// ToInt truncates a fixed-point value to its integer part.
func ToInt(f Fixed) int32 {
	return int32(f >> 16)
}

// Mul multiplies two fixed-point values through a 64-bit intermediate.
func Mul(a, b Fixed) Fixed {
	return Fixed((int64(a) * int64(b)) >> 16)
}

// Div divides a by b, failing when b is zero.
func Div(a, b Fixed) (Fixed, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return div(a, b), nil
}

// div is the unchecked division used where the denominator is known to
// be nonzero.
func div(a, b Fixed) Fixed {
	return Fixed((int64(a) << 16) / int64(b))
}

// Sqrt computes the square root with 16 Newton-Raphson iterations seeded
// with x itself. Returns 0 for x <= 0.
func Sqrt(x Fixed) Fixed {
	if x <= 0 {
		return 0
	}
	result := x
	for i := 0; i < 16; i++ {
		temp := div(x, result)
		result = (result + temp) >> 1
	}
	return result
}

// Sin looks up the sine of angle. The angle unit maps 2.0 fixed to one
// full turn; the table wraps, so any angle is valid.
func Sin(angle Fixed) Fixed {
	index := (int32(angle) * sinTableSize) / int32(2*One)
	index &= sinTableMask
	return Fixed(sinTable[index]) << 2
}

// Cos is Sin shifted by a quarter turn.
func Cos(angle Fixed) Fixed {
	index := (int32(angle) * sinTableSize) / int32(2*One)
	index = (index + sinTableSize/4) & sinTableMask
	return Fixed(sinTable[index]) << 2
}

// Abs returns the magnitude of f.
func Abs(f Fixed) Fixed {
	if f < 0 {
		return -f
	}
	return f
}

// Clamp bounds f to [min, max].
func Clamp(f, min, max Fixed) Fixed {
	if f < min {
		return min
	}
	if f > max {
		return max
	}
	return f
}
