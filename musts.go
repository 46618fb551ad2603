package pi

import (
	"fmt"
	"math/big"
)

// MustFloor is like [Floor] but panics if x cannot be rounded.
func MustFloor(x *big.Float, scale int) Decimal {
	d, err := Floor(x, scale)
	if err != nil {
		panic(fmt.Sprintf("MustFloor(%v, %v) failed: %v", x, scale, err))
	}
	return d
}

// MustCompute is like [Calculator.Compute] but panics if the computation fails.
func (c *Calculator) MustCompute(prec int) Decimal {
	d, err := c.Compute(prec)
	if err != nil {
		panic(fmt.Sprintf("MustCompute(%v) failed: %v", prec, err))
	}
	return d
}
