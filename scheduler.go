package pi

import (
	"errors"
	"fmt"
	"math/bits"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrTaskPanic is returned, wrapped, when the evaluation of a sub-range panics.
var ErrTaskPanic = errors.New("task panicked")

// defaultMaxDepth is derived once per process from the hardware concurrency.
var defaultMaxDepth = sync.OnceValue(func() int {
	return bits.Len(uint(runtime.NumCPU())) - 1
})

// DefaultMaxDepth returns floor(log2(n)), where n is the number of logical CPUs
// usable by the current process.
// A calculator with this depth limit forks up to n concurrently executing
// evaluations, which is enough to keep every CPU busy.
func DefaultMaxDepth() int {
	return defaultMaxDepth()
}

// Calculator evaluates the Chudnovsky series.
//
// The two halves of every range are either evaluated concurrently, each in its
// own goroutine, or sequentially in the calling goroutine.
// The choice is made by the depth of the halves in the recursion tree:
// halves at depth 1 through MaxDepth are forked, deeper halves are not.
// Hence a calculator with depth limit D has at most 2^D evaluations running
// at the same time, while the number of levels grows with the number of terms.
// With D = 0 the evaluation is fully sequential.
//
// A calculator is immutable and safe for concurrent use by multiple goroutines.
type Calculator struct {
	maxDepth int
	log      *zap.Logger
	metrics  *Metrics
}

// Option configures a [Calculator].
type Option func(*Calculator)

// WithMaxDepth sets the fan-out depth limit.
// A negative depth selects [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(c *Calculator) {
		if depth < 0 {
			depth = DefaultMaxDepth()
		}
		c.maxDepth = depth
	}
}

// WithLogger sets the logger for progress messages.
// By default nothing is logged.
func WithLogger(log *zap.Logger) Option {
	return func(c *Calculator) {
		if log == nil {
			log = zap.NewNop()
		}
		c.log = log
	}
}

// WithMetrics sets the collector of scheduling and timing metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Calculator) {
		c.metrics = m
	}
}

// NewCalculator returns a calculator with depth limit [DefaultMaxDepth],
// no logging and no metrics, modified by the given options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		maxDepth: DefaultMaxDepth(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxDepth returns the fan-out depth limit of the calculator.
func (c *Calculator) MaxDepth() int {
	return c.maxDepth
}

// task evaluates a sub-range at the given depth.
type task func(depth int) (Triple, error)

// join evaluates left and right at the given depth and returns their results
// in the same order.
// Both tasks are forked if depth does not exceed the limit, otherwise
// they run one after another in the calling goroutine.
// The first error is returned after both tasks have finished.
func (c *Calculator) join(depth int, left, right task) (x, y Triple, err error) {
	if depth > c.maxDepth {
		if x, err = left(depth); err != nil {
			return Triple{}, Triple{}, err
		}
		if y, err = right(depth); err != nil {
			return Triple{}, Triple{}, err
		}
		return x, y, nil
	}

	c.metrics.addForked(2)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		x, err = run(func() (Triple, error) { return left(depth) })
		return err
	})
	g.Go(func() error {
		var err error
		y, err = run(func() (Triple, error) { return right(depth) })
		return err
	})
	if err = g.Wait(); err != nil {
		return Triple{}, Triple{}, err
	}
	return x, y, nil
}

// forks returns the number of tasks forked by [Calculator.join]
// while splitting a range of n terms at the given depth.
func (c *Calculator) forks(n int64, depth int) int64 {
	if n < 2 || depth >= c.maxDepth {
		return 0
	}
	m := n / 2
	return 2 + c.forks(m, depth+1) + c.forks(n-m, depth+1)
}

// run calls f and converts a panic into an error.
func run(f func() (Triple, error)) (r Triple, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = Triple{}, fmt.Errorf("%w: %v", ErrTaskPanic, p)
		}
	}()
	return f()
}
