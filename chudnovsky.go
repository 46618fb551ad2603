package pi

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"go.uber.org/zap"
)

const (
	MinDigits = 1           // minimum number of digits accepted by [Calculator.Compute]
	MaxDigits = 100_000_000 // maximum number of digits accepted by [Calculator.Compute]
	extraBits = 16          // guard bits absorbing the rounding errors of the final steps
)

// digitsPerTerm is the number of decimal digits gained by each term of the series.
var digitsPerTerm = math.Log10(float64(c3Over24) / 6 / 2 / 6)

var (
	errDigitsRange = errors.New("number of digits out of range")
	errPrecRange   = errors.New("precision out of range")
)

// DigitsPerTerm returns the number of decimal digits gained by each term
// of the series, which is approximately 14.18.
func DigitsPerTerm() float64 {
	return digitsPerTerm
}

// Terms returns the number of series terms needed for prec decimal digits.
// Two extra terms compensate for the truncation of the estimate.
func Terms(prec int) int64 {
	return int64(float64(prec)/digitsPerTerm) + 2
}

// PrecBits returns the binary precision needed for prec decimal digits,
// that is ceil(prec * log2(10)) plus 16 guard bits.
func PrecBits(prec int) uint {
	return uint(math.Ceil(float64(prec)*math.Log2(10))) + extraBits
}

// ValidateDigits returns an error if prec is less than [MinDigits] or greater
// than [MaxDigits].
func ValidateDigits(prec int) error {
	if prec < MinDigits || prec > MaxDigits {
		return fmt.Errorf("number of digits must be in [%v, %v], got %v: %w", MinDigits, MaxDigits, prec, errDigitsRange)
	}
	return nil
}

// Pi returns an approximation of π with at least prec correct decimal digits,
// provided that precBits leaves enough guard bits, see [PrecBits].
//
// The series is summed over [0, [Terms](prec)) with [Calculator.Split],
// and the resulting triple is converted as
//
//	π = Q (C/D) sqrt(C) / T
//
// where all floating-point operations are carried out with precBits bits.
//
// Pi returns an error if:
//   - prec is negative;
//   - precBits is 0 or greater than [big.MaxPrec];
//   - the summation of the series failed.
func (c *Calculator) Pi(prec int, precBits uint) (*big.Float, error) {
	switch {
	case prec < 0:
		return nil, fmt.Errorf("computing pi to %v digit(s): %w", prec, errDigitsRange)
	case precBits == 0 || precBits > big.MaxPrec:
		return nil, fmt.Errorf("computing pi with %v bit(s): %w", precBits, errPrecRange)
	}

	// Summation
	terms := Terms(prec)
	c.log.Info("summing series",
		zap.Int64("terms", terms),
		zap.Float64("digits_per_term", digitsPerTerm),
		zap.Int("max_depth", c.maxDepth),
	)
	start := time.Now()
	r, err := c.Split(0, terms)
	if err != nil {
		return nil, fmt.Errorf("summing %v terms: %w", terms, err)
	}
	c.metrics.observe(StageSplit, time.Since(start))
	c.log.Info("summation series complete, final steps", zap.Duration("elapsed", time.Since(start)))

	// Final steps
	start = time.Now()
	num := new(bint)
	num.setFint(cOverD)
	num.mul(num, (*bint)(r.Q))
	x := new(big.Float).SetPrec(precBits).SetInt((*big.Int)(num))
	y := new(big.Float).SetPrec(precBits).SetInt(r.T)
	x.Quo(x, y)
	y.SetInt64(seriesC)
	sqrtC := new(big.Float).SetPrec(precBits).Sqrt(y)
	x.Mul(x, sqrtC)
	c.metrics.observe(StageFinal, time.Since(start))
	c.log.Debug("final steps complete", zap.Duration("elapsed", time.Since(start)))

	return x, nil
}

// Compute returns π rounded towards negative infinity to prec digits after
// the decimal point.
// The binary precision is derived with [PrecBits].
//
// Compute returns an error if:
//   - prec is less than [MinDigits] or greater than [MaxDigits];
//   - the computation failed.
func (c *Calculator) Compute(prec int) (Decimal, error) {
	if err := ValidateDigits(prec); err != nil {
		return Decimal{}, err
	}
	precBits := PrecBits(prec)
	c.log.Info("calculating digits of pi",
		zap.Int("digits", prec),
		zap.Uint("precision_bits", precBits),
	)
	x, err := c.Pi(prec, precBits)
	if err != nil {
		return Decimal{}, err
	}
	start := time.Now()
	d, err := Floor(x, prec)
	if err != nil {
		return Decimal{}, fmt.Errorf("rounding pi to %v digit(s): %w", prec, err)
	}
	c.metrics.observe(StageFloor, time.Since(start))
	return d, nil
}
