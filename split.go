package pi

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// Constants of the Chudnovsky series
//
//	1/π = 12 Σ (-1)^k (6k)! (A + Bk) / ((3k)! (k!)^3 C^(3k+3/2))
const (
	seriesA  = 13591409
	seriesB  = 545140134
	seriesC  = 640320
	seriesD  = 12
	c3Over24 = seriesC * seriesC * seriesC / 24 // 10_939_058_860_032_000
	cOverD   = seriesC / seriesD                // 53_360, C is a multiple of D
)

// MaxTerm is the largest term index accepted by [Leaf] and [Calculator.Split].
// Larger indices would overflow the uint64 factors of the leaf products.
const MaxTerm = math.MaxInt64 / 6

var errTermRange = errors.New("term range out of bounds")

// Triple is the partial result of binary splitting over a half-open range
// of term indices [a, b).
//
//   - P is the product of the term numerators.
//   - Q is the product of the term denominators.
//   - T is the weighted sum of the terms, so that the partial sum of the
//     series over [a, b) equals T / Q when a = 0.
//
// All three integers are exact. A triple is produced once and is never
// mutated afterwards, so it is safe to read from multiple goroutines.
type Triple struct {
	P, Q, T *big.Int
}

// Leaf returns the triple of the single term k, that is the range [k, k+1).
//
//   - For k = 0: P = 1, Q = 1.
//   - For k > 0: P = (6k-5)(2k-1)(6k-1), Q = k^3 C^3/24.
//
// In both cases T = ±P(A + Bk), where the sign is negative for odd k.
//
// Leaf panics if k is negative or greater than [MaxTerm].
func Leaf(k int64) Triple {
	if k < 0 || k > MaxTerm {
		panic(fmt.Sprintf("Leaf(%v) failed: %v", k, errTermRange))
	}

	p, q, t := new(bint), new(bint), new(bint)
	n := fint(k)

	// Products
	if n == 0 {
		p.setFint(1)
		q.setFint(1)
	} else {
		p.prod(6*n-5, 2*n-1, 6*n-1)
		q.prod(n, n, n, c3Over24)
	}

	// Weighted sum
	w := getBint()
	defer putBint(w)
	b, ok := fint(seriesB).mul(n)
	if ok {
		b, ok = b.add(seriesA)
	}
	if ok {
		w.setFint(b)
	} else {
		// Slow path
		w.prod(seriesB, n)
		a := getBint()
		defer putBint(a)
		a.setFint(seriesA)
		w.add(w, a)
	}
	t.mul(p, w)
	if n.isOdd() {
		t.neg(t)
	}

	return Triple{P: (*big.Int)(p), Q: (*big.Int)(q), T: (*big.Int)(t)}
}

// Merge combines the triples of two adjacent ranges [a, m) and [m, b)
// into the triple of [a, b):
//
//	P = P1 P2
//	Q = Q1 Q2
//	T = T1 Q2 + P1 T2
//
// The role of x and y is fixed: x must cover the lower range.
// Merge does not modify its arguments.
func Merge(x, y Triple) Triple {
	p, q, t := new(bint), new(bint), new(bint)
	p.mul((*bint)(x.P), (*bint)(y.P))
	q.mul((*bint)(x.Q), (*bint)(y.Q))
	t.fma((*bint)(x.T), (*bint)(y.Q), (*bint)(x.P), (*bint)(y.T))
	return Triple{P: (*big.Int)(p), Q: (*big.Int)(q), T: (*big.Int)(t)}
}

// Split evaluates the triple of the range [a, b) by binary splitting.
// The range is halved recursively and the halves are combined with [Merge].
// Halves near the top of the recursion are evaluated concurrently,
// see [Calculator] for details.
//
// The result depends only on a and b: it is identical for any depth limit
// and any order in which the halves complete.
//
// Split returns an error if:
//   - a is negative, b is not greater than a, or b - 1 exceeds [MaxTerm];
//   - the evaluation of any sub-range failed.
func (c *Calculator) Split(a, b int64) (Triple, error) {
	if a < 0 || b <= a || b-1 > MaxTerm {
		return Triple{}, fmt.Errorf("splitting [%v, %v): %w", a, b, errTermRange)
	}
	r, err := run(func() (Triple, error) {
		return c.split(a, b, 0)
	})
	if err != nil {
		return Triple{}, fmt.Errorf("splitting [%v, %v): %w", a, b, err)
	}
	// A range of n terms has n-1 internal nodes, each joining two tasks.
	c.metrics.addInline(2*(b-a-1) - c.forks(b-a, 0))
	c.metrics.addLeaves(b - a)
	return r, nil
}

// split is the recursive step of [Calculator.Split].
// depth is the distance from the root call and only affects scheduling.
func (c *Calculator) split(a, b int64, depth int) (Triple, error) {
	if b-a == 1 {
		return Leaf(a), nil
	}
	m := a + (b-a)/2
	x, y, err := c.join(depth+1,
		func(d int) (Triple, error) { return c.split(a, m, d) },
		func(d int) (Triple, error) { return c.split(m, b, d) },
	)
	if err != nil {
		return Triple{}, err
	}
	return Merge(x, y), nil
}
