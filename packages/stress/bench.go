package stress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/restfire/packages/http"
	"golang.org/x/time/rate"
)

// ErrServerError marks a request answered with a 5xx status.
var ErrServerError = errors.New("server error")

// Result holds the outcome of a bench run.
type Result struct {
	Summary    *Summary
	Thresholds []ThresholdResult
	LastError  error
}

// Passed reports whether every threshold held.
func (r *Result) Passed() bool {
	for _, t := range r.Thresholds {
		if !t.Passed {
			return false
		}
	}
	return true
}

// Run sends req through transport repeatedly, one request at a time, until
// the configured count or duration is reached or ctx is done. Transport
// errors and 5xx responses count as errors.
func Run(ctx context.Context, cfg *Config, transport http.Transport, req *http.Request) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bench config: %w", err)
	}

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	limiter := rate.NewLimiter(limit, 1)

	for i := 0; i < cfg.Warmup; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		_, _ = transport.Do(req.Clone())
	}

	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	metrics := NewMetrics()
	result := &Result{}
	metrics.Start()
	for n := 0; cfg.Requests == 0 || n < cfg.Requests; n++ {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		if ctx.Err() != nil {
			break
		}

		start := time.Now()
		resp, err := transport.Do(req.Clone())
		elapsed := time.Since(start)

		status := 0
		if resp != nil {
			status = resp.StatusCode
			if err == nil && resp.IsServerError() {
				err = fmt.Errorf("%w: %d", ErrServerError, resp.StatusCode)
			}
		}
		if err != nil {
			result.LastError = err
		}
		metrics.Record(status, elapsed, err)
	}
	metrics.Stop()

	result.Summary = metrics.GetSummary()
	result.Thresholds = EvaluateThresholds(result.Summary, cfg.Thresholds)
	return result, nil
}
