package wsv

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	ErrAmountInvalid   = errors.New("invalid amount")
	ErrAmountOverflow  = errors.New("amount overflow")
	ErrAmountUnderflow = errors.New("amount underflow")
)

// maxAmountValue bounds the unscaled integer of an Amount at 2^256-1.
var maxAmountValue = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Amount is a non-negative fixed-point decimal with arbitrary-precision
// integer value and a declared number of digits after the point. The zero
// value is 0 with precision 0.
type Amount struct {
	value     *big.Int
	precision uint32
}

// NewAmount returns zero with the given precision.
func NewAmount(precision uint32) Amount {
	return Amount{
		value:     new(big.Int),
		precision: precision,
	}
}

// ParseAmount parses the decimal string form. The precision is the number of
// digits after the point; an integer form has precision 0.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return Amount{}, fmt.Errorf("%w: empty string", ErrAmountInvalid)
	}
	integer, fraction := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		integer, fraction = s[:dot], s[dot+1:]
		if fraction == "" {
			return Amount{}, fmt.Errorf("%w: %q has no fractional digits", ErrAmountInvalid, s)
		}
	}
	if integer == "" {
		return Amount{}, fmt.Errorf("%w: %q has no integer digits", ErrAmountInvalid, s)
	}
	value, ok := new(big.Int).SetString(integer+fraction, 10)
	if !ok || value.Sign() < 0 || strings.ContainsAny(s, "+-") {
		return Amount{}, fmt.Errorf("%w: %q", ErrAmountInvalid, s)
	}
	if value.Cmp(maxAmountValue) > 0 {
		return Amount{}, fmt.Errorf("%w: %q", ErrAmountOverflow, s)
	}
	return Amount{
		value:     value,
		precision: uint32(len(fraction)),
	}, nil
}

func (a Amount) Precision() uint32 {
	return a.precision
}

// IsZero reports whether the amount equals zero.
func (a Amount) IsZero() bool {
	return a.val().Sign() == 0
}

// Add returns a+b at the larger of the two precisions. Fails with
// ErrAmountOverflow when the result exceeds 2^256-1.
func (a Amount) Add(b Amount) (Amount, error) {
	left, right, precision := alignPrecision(a, b)
	result := new(big.Int).Add(left, right)
	if result.Cmp(maxAmountValue) > 0 {
		return Amount{}, ErrAmountOverflow
	}
	return Amount{value: result, precision: precision}, nil
}

// Sub returns a-b at the larger of the two precisions. Fails with
// ErrAmountUnderflow when the result would be negative.
func (a Amount) Sub(b Amount) (Amount, error) {
	left, right, precision := alignPrecision(a, b)
	result := new(big.Int).Sub(left, right)
	if result.Sign() < 0 {
		return Amount{}, ErrAmountUnderflow
	}
	if result.Cmp(maxAmountValue) > 0 {
		return Amount{}, ErrAmountOverflow
	}
	return Amount{value: result, precision: precision}, nil
}

// String renders the canonical decimal form stored in the state.
func (a Amount) String() string {
	digits := a.val().String()
	if a.precision == 0 {
		return digits
	}
	point := int(a.precision)
	if len(digits) <= point {
		digits = strings.Repeat("0", point-len(digits)+1) + digits
	}
	return digits[:len(digits)-point] + "." + digits[len(digits)-point:]
}

func (a Amount) val() *big.Int {
	if a.value == nil {
		return new(big.Int)
	}
	return a.value
}

// alignPrecision scales both values to the larger precision.
func alignPrecision(a, b Amount) (*big.Int, *big.Int, uint32) {
	precision := a.precision
	if b.precision > precision {
		precision = b.precision
	}
	return scale(a.val(), precision-a.precision), scale(b.val(), precision-b.precision), precision
}

func scale(value *big.Int, digits uint32) *big.Int {
	if digits == 0 {
		return new(big.Int).Set(value)
	}
	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	return new(big.Int).Mul(value, factor)
}
