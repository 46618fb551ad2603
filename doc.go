/*
Package pi computes the decimal digits of π to an arbitrary precision.
It uses the [Chudnovsky series] evaluated by [binary splitting] and
spreads the evaluation across all available CPUs.

# Series

The Chudnovsky series is

	1/π = 12 Σ (-1)^k (6k)! (A + Bk) / ((3k)! (k!)^3 C^(3k+3/2))

with A = 13591409, B = 545140134 and C = 640320.
Each term adds approximately 14.18 decimal digits, see [DigitsPerTerm].
The number of terms needed for a given number of digits is returned by [Terms].

# Binary Splitting

Instead of summing fractions, the package carries three exact integers
for every range of terms, called a [Triple]:

  - P: the product of the term numerators.
  - Q: the product of the term denominators.
  - T: the weighted sum of the terms.

A single term is computed directly by [Leaf].
Two adjacent ranges are combined by [Merge] without re-expanding either of them:

	P = P1 P2
	Q = Q1 Q2
	T = T1 Q2 + P1 T2

[Calculator.Split] halves a range recursively down to single terms and merges
the halves on the way back.
Every integer is computed exactly once, so the total cost is dominated by a few
multiplications of very large integers, which [big.Int] performs in
sub-quadratic time.

# Concurrency

The two halves of a range are independent, so they can be evaluated in
separate goroutines.
Forking at every level would create one goroutine per term, therefore
[Calculator] forks only the top levels of the recursion.
The number of forked levels is the depth limit D, which defaults to
floor(log2(n)) for n CPUs, see [DefaultMaxDepth].
Below depth D, the halves are evaluated sequentially in the goroutine that
owns the range.
Consequently, at most 2^D evaluations are running at the same time,
regardless of the number of terms.

The depth limit affects performance only.
For any depth limit, [Calculator.Split] returns exactly the same integers.
A panic in a forked goroutine is recovered and returned as an error wrapping
[ErrTaskPanic] to the caller of [Calculator.Split].

# Precision

The final value is computed with [big.Float] as

	π = Q (C/D) sqrt(C) / T

where D = 12 and C/D = 53360 is an exact integer.
The binary precision for n decimal digits is ceil(n log2(10)) plus 16
guard bits, see [PrecBits].

# Rounding

[Calculator.Compute] returns a [Decimal] holding exactly the requested number
of digits after the decimal point.
Digits are never rounded up: the result is rounded towards negative infinity,
as in [Floor].
Hence the printed digits of π are always a prefix of its infinite expansion.

# Errors

Errors are returned in the following cases:

  - Number of digits out of range.
    [Calculator.Compute] accepts from [MinDigits] to [MaxDigits] digits,
    see [ValidateDigits].

  - Term range out of bounds.
    [Calculator.Split] requires 0 <= a < b and b - 1 <= [MaxTerm].

  - Task failure.
    A failure in a sub-range is returned to the caller, the computation
    is aborted and no partial result is returned.

Running out of memory for very large numbers of digits is fatal.

[Chudnovsky series]: https://en.wikipedia.org/wiki/Chudnovsky_algorithm
[binary splitting]: https://en.wikipedia.org/wiki/Binary_splitting
[big.Int]: https://pkg.go.dev/math/big#Int
[big.Float]: https://pkg.go.dev/math/big#Float
*/
package pi
