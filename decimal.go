package pi

import (
	"errors"
	"fmt"
	"math/big"
)

// Decimal type is a representation of a finite fixed-point decimal number
// with an arbitrary number of digits.
// The zero value is the numeric value of 0.
// It is designed to be safe for concurrent use by multiple goroutines.
//
// A decimal type is a struct with three parameters:
//
//   - Sign: a boolean indicating whether the decimal is negative.
//   - Scale: an integer indicating the number of digits after the decimal point.
//   - Coefficient: an integer value of the decimal without the decimal point.
//
// For example, a decimal with a coefficient of 31415 and a scale of 4
// represents the value 3.1415.
// Unlike [big.Float], the scale is exact: a decimal with a scale of 10
// always prints exactly 10 digits after the decimal point.
type Decimal struct {
	neg   bool  // indicates whether the decimal is negative
	scale int   // the position of the floating decimal point
	coef  *bint // the absolute value of the coefficient, nil means 0
}

var (
	errScaleRange = errors.New("scale out of range")
	errInfinity   = errors.New("infinite value")
)

func newDecimal(neg bool, coef *bint, scale int) Decimal {
	if coef == nil || coef.sign() == 0 {
		neg = false
	}
	return Decimal{neg: neg, coef: coef, scale: scale}
}

// Floor returns x rounded towards negative infinity to the specified
// number of digits after the decimal point.
// The rounding is exact: all digits of x are taken into account.
//
// Floor returns an error if:
//   - x is an infinity;
//   - the scale is negative.
func Floor(x *big.Float, scale int) (Decimal, error) {
	switch {
	case scale < 0:
		return Decimal{}, fmt.Errorf("flooring to %v digit(s): %w", scale, errScaleRange)
	case x.IsInf():
		return Decimal{}, fmt.Errorf("flooring %v: %w", x, errInfinity)
	}

	coef := new(bint)
	coef.pow10(scale)

	// x * 10^scale is representable without rounding when the precision
	// of the product covers the significant bits of both factors.
	y := new(big.Float).SetInt((*big.Int)(coef))
	f := new(big.Float).SetPrec(x.MinPrec() + y.MinPrec())
	f.Mul(x, y)

	// Rounding down
	_, acc := f.Int((*big.Int)(coef))
	if acc == big.Above {
		coef.dec(coef)
	}

	neg := coef.sign() < 0
	coef.abs(coef)
	return newDecimal(neg, coef, scale), nil
}

// Floor returns d that is rounded down to the specified number of digits after
// the decimal point.
// If the scale of d is less than the specified scale, the result will be
// zero-padded to the right.
//
// Floor panics if the scale is negative.
func (d Decimal) Floor(scale int) Decimal {
	if scale < 0 {
		panic(fmt.Sprintf("%q.Floor(%v) failed: %v", d, scale, errScaleRange))
	}

	coef := new(bint)
	if d.coef == nil {
		return newDecimal(false, coef, scale)
	}

	// Rounding down
	switch {
	case scale == d.scale:
		coef.setBint(d.coef)
	case scale > d.scale:
		coef.lsh(d.coef, scale-d.scale)
	default:
		y := getBint()
		defer putBint(y)
		y.pow10(d.scale - scale)
		r := getBint()
		defer putBint(r)
		coef.quoRem(d.coef, y, r)
		if d.neg && r.sign() != 0 {
			coef.inc(coef)
		}
	}

	return newDecimal(d.neg, coef, scale)
}

// String method implements the [fmt.Stringer] interface and returns
// a string representation of a decimal value.
// The returned string does not use scientific or engineering notation and is
// formatted according to the following formal EBNF grammar:
//
//	sign           ::= '-'
//	digits         ::= { '0' | '1' | '2' | '3' | '4' | '5' | '6' | '7' | '8' | '9' }
//	significand    ::= digits '.' digits | digits
//	numeric-string ::= [sign] significand
//
// The number of digits after the decimal point is always equal to the scale.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (d Decimal) String() string {
	return string(d.append(nil))
}

// append appends the string representation of d to buf.
func (d Decimal) append(buf []byte) []byte {
	var digits []byte
	if d.coef != nil {
		digits = (*big.Int)(d.coef).Append(nil, 10)
	}

	// Leading zeros
	intdigs := len(digits) - d.scale
	if intdigs < 1 {
		intdigs = 1
	}
	lzeroes := intdigs + d.scale - len(digits)

	// Sign
	if d.neg {
		buf = append(buf, '-')
	}

	// Coefficient
	pos := 0
	for i := 0; i < intdigs; i++ {
		if lzeroes > 0 {
			buf = append(buf, '0')
			lzeroes--
			continue
		}
		buf = append(buf, digits[pos])
		pos++
	}
	if d.scale == 0 {
		return buf
	}

	// Decimal point
	buf = append(buf, '.')
	for ; lzeroes > 0; lzeroes-- {
		buf = append(buf, '0')
	}
	return append(buf, digits[pos:]...)
}

// MarshalText implements [encoding.TextMarshaler] interface.
// Also see method [Decimal.String].
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (d Decimal) MarshalText() ([]byte, error) {
	return d.append(nil), nil
}

// Format implements [fmt.Formatter] interface.
// The following [verbs] are available:
//
//	%f, %s, %v: -3.14159
//	%q:        "-3.14159"
//
// The following format flags can be used with all verbs: '+', ' ', '0', '-'.
//
// Precision is only supported for %f verb.
// Unlike [big.Float], the precision does not round to nearest:
// digits are rounded down as in [Decimal.Floor].
//
// [verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (d Decimal) Format(state fmt.State, verb rune) {
	// Rescaling
	if verb == 'f' || verb == 'F' {
		if p, ok := state.Precision(); ok {
			d = d.Floor(p)
		}
	}

	// Arithmetic sign
	body := d.Abs().append(nil)
	var sign []byte
	switch {
	case d.neg:
		sign = []byte{'-'}
	case state.Flag('+'):
		sign = []byte{'+'}
	case state.Flag(' '):
		sign = []byte{' '}
	}

	// Quotes
	quote := verb == 'q' || verb == 'Q'
	width := len(sign) + len(body)
	if quote {
		width += 2
	}

	// Padding
	lspaces, tspaces, lzeroes := 0, 0, 0
	if w, ok := state.Width(); ok && w > width {
		switch {
		case state.Flag('-'):
			tspaces = w - width
		case state.Flag('0') && !quote:
			lzeroes = w - width
		default:
			lspaces = w - width
		}
		width = w
	}

	// Writing buffer
	buf := make([]byte, 0, width)
	for i := 0; i < lspaces; i++ {
		buf = append(buf, ' ')
	}
	if quote {
		buf = append(buf, '"')
	}
	buf = append(buf, sign...)
	for i := 0; i < lzeroes; i++ {
		buf = append(buf, '0')
	}
	buf = append(buf, body...)
	if quote {
		buf = append(buf, '"')
	}
	for i := 0; i < tspaces; i++ {
		buf = append(buf, ' ')
	}

	// Writing result
	switch verb {
	case 'q', 'Q', 's', 'S', 'v', 'V', 'f', 'F':
		state.Write(buf)
	default:
		state.Write([]byte("%!"))
		state.Write([]byte{byte(verb)})
		state.Write([]byte("(pi.Decimal="))
		state.Write(buf)
		state.Write([]byte(")"))
	}
}

// Prec returns number of digits in the coefficient.
// The zero value has no digits.
func (d Decimal) Prec() int {
	if d.coef == nil {
		return 0
	}
	return d.coef.prec()
}

// Scale returns the number of digits after the decimal point.
func (d Decimal) Scale() int {
	return d.scale
}

// Coef returns a copy of the absolute value of the coefficient.
func (d Decimal) Coef() *big.Int {
	if d.coef == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(d.coef))
}

// Abs returns the absolute value of the decimal.
func (d Decimal) Abs() Decimal {
	return newDecimal(false, d.coef, d.scale)
}

// Sign returns:
//
//	-1 if d < 0
//	 0 if d = 0
//	+1 if d > 0
func (d Decimal) Sign() int {
	switch {
	case d.coef == nil || d.coef.sign() == 0:
		return 0
	case d.neg:
		return -1
	default:
		return 1
	}
}

// IsZero returns:
//
//	true  if d = 0
//	false otherwise
func (d Decimal) IsZero() bool {
	return d.Sign() == 0
}
