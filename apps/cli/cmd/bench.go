package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/restfire/packages/fire"
	"github.com/abdul-hamid-achik/restfire/packages/http"
	"github.com/abdul-hamid-achik/restfire/packages/stress"
	"github.com/spf13/cobra"
)

type benchOptions struct {
	global  *globalOptions
	request requestOptions

	requests  int
	duration  time.Duration
	rate      float64
	warmup    int
	threshold string
	json      bool
}

func newBenchCmd(g *globalOptions) *cobra.Command {
	o := &benchOptions{global: g}
	cmd := &cobra.Command{
		Use:   "bench [url]",
		Short: "Repeat one request and report latency percentiles",
		Long: `Send the same request repeatedly, one at a time, and report throughput,
latency percentiles and errors. Transport errors and 5xx responses count
as errors.

Examples:
  # 500 requests as fast as possible
  restfire bench http://localhost:8080/health -n 500

  # Constant rate for one minute
  restfire bench /users --duration 1m --rate 50

  # With thresholds for CI/CD
  restfire bench /users -n 1000 -r 100 --threshold "p95<200ms,errors<0.1%"`,
		Args: cobra.MaximumNArgs(1),
		RunE: o.run,
	}

	o.request.register(cmd)

	flags := cmd.Flags()
	flags.IntVarP(&o.requests, "requests", "n", 100, "Number of requests (0 = until --duration)")
	flags.DurationVar(&o.duration, "duration", 0, "Stop after this long (e.g., 30s, 5m)")
	flags.Float64VarP(&o.rate, "rate", "r", 0, "Requests per second (0 = unlimited)")
	flags.IntVar(&o.warmup, "warmup", 0, "Requests sent first and left out of the results")
	flags.StringVar(&o.threshold, "threshold", "", "Pass/fail thresholds (e.g., \"p95<200ms,errors<0.1%\")")
	flags.BoolVar(&o.json, "json", false, "Output results as JSON")

	return cmd
}

func (o *benchOptions) config(cmd *cobra.Command) (*stress.Config, error) {
	cfg := stress.DefaultConfig()
	cfg.Requests = o.requests
	if !cmd.Flags().Changed("requests") && o.duration > 0 {
		cfg.Requests = 0
	}
	cfg.Duration = o.duration
	cfg.Rate = o.rate
	cfg.Warmup = o.warmup

	if o.threshold != "" {
		t, err := stress.ParseThresholds(o.threshold)
		if err != nil {
			return nil, fmt.Errorf("invalid thresholds: %w", err)
		}
		cfg.Thresholds = t
	}
	return cfg, cfg.Validate()
}

func (o *benchOptions) run(cmd *cobra.Command, args []string) error {
	cfg, err := o.global.loadConfig(cmd)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	benchCfg, err := o.config(cmd)
	if err != nil {
		return &ExitError{Code: ExitUsageError, Err: err}
	}

	address := ""
	if len(args) > 0 {
		address = args[0]
	} else if cfg.BaseURL == "" {
		return &ExitError{Code: ExitUsageError, Err: fmt.Errorf("no URL given and no baseURL configured")}
	}

	f, err := o.request.client(cfg, address)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	// The request is finalized once; every iteration sends a copy.
	var built *http.Request
	if err := fire.Check(func(t fire.TestingT) { built = f.Request(t).Build() }); err != nil {
		return &ExitError{Code: ExitConfigError, Err: errors.New(failureReason(err))}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := stress.NewReporter(
		stress.WithWriter(cmd.OutOrStdout()),
		stress.WithNoColor(cfg.GetNoColor()),
	)
	if !o.json {
		reporter.Header(built.Method, built.URL, benchCfg)
	}

	result, err := stress.Run(ctx, benchCfg, f.Transport(), built)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	if o.json {
		if err := reporter.JSON(result); err != nil {
			return err
		}
	} else {
		reporter.Summary(result)
	}

	if !result.Passed() {
		return &ExitError{Code: ExitTestFailure}
	}
	return nil
}
