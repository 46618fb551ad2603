// Command pi prints the decimal expansion of π.
//
// Usage:
//
//	pi [flags] <digits>
//
// The result is rounded down to exactly <digits> digits after the decimal
// point and written to stdout, diagnostics go to stderr.
// See package [github.com/govalues/pi/internal/config] for the settings.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/govalues/pi"
	"github.com/govalues/pi/internal/config"
	"github.com/govalues/pi/internal/logutil"
)

var errUsage = errors.New("invalid usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns its exit status.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newCommand(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(stdout, cmd.UsageString())
		}
		fmt.Fprintf(stderr, "pi: %v\n", err)
		return 1
	}
	return 0
}

func newCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pi <digits>",
		Short: "Print digits of pi",
		Long: fmt.Sprintf(`Print pi rounded down to <digits> digits after the decimal point,
where <digits> is in [%v, %v].`, pi.MinDigits, pi.MaxDigits),
		Args:          parseArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Already validated by parseArgs.
			digits, _ := strconv.Atoi(args[0])
			return compute(cmd.Flags(), digits, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})
	config.RegisterFlags(cmd.Flags())
	return cmd
}

// parseArgs accepts exactly one argument, a number of digits in
// [pi.MinDigits, pi.MaxDigits].
func parseArgs(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected 1 argument, got %v", errUsage, len(args))
	}
	digits, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: parsing %q: %w", errUsage, args[0], err)
	}
	if err := pi.ValidateDigits(digits); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	return nil
}

func compute(fs *pflag.FlagSet, digits int, stdout, stderr io.Writer) error {
	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	log, err := logutil.New(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	reg := prometheus.NewRegistry()
	calc := pi.NewCalculator(
		pi.WithMaxDepth(cfg.MaxDepth),
		pi.WithLogger(log),
		pi.WithMetrics(pi.NewMetrics(reg)),
	)

	start := time.Now()
	d, err := calc.Compute(digits)
	if err != nil {
		log.Error("computation failed", zap.Error(err))
		return err
	}
	log.Info("computation complete",
		zap.Int("digits", digits),
		zap.Int("max_depth", calc.MaxDepth()),
		zap.Duration("elapsed", time.Since(start)),
	)

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		log.Debug("metrics written", zap.String("file", cfg.MetricsFile))
	}

	_, err = fmt.Fprintln(stdout, d)
	return err
}
