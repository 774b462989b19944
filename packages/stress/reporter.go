package stress

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Reporter prints bench results
type Reporter struct {
	writer  io.Writer
	noColor bool

	green *color.Color
	red   *color.Color
	cyan  *color.Color
	bold  *color.Color
	dim   *color.Color
}

// ReporterOption configures the reporter
type ReporterOption func(*Reporter)

// WithWriter sets the output writer
func WithWriter(w io.Writer) ReporterOption {
	return func(r *Reporter) {
		r.writer = w
	}
}

// WithNoColor disables colored output
func WithNoColor(noColor bool) ReporterOption {
	return func(r *Reporter) {
		r.noColor = noColor
	}
}

// NewReporter creates a new reporter
func NewReporter(opts ...ReporterOption) *Reporter {
	r := &Reporter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.green = r.newColor(color.FgGreen)
	r.red = r.newColor(color.FgRed)
	r.cyan = r.newColor(color.FgCyan)
	r.bold = r.newColor(color.Bold)
	r.dim = r.newColor(color.Faint)
	return r
}

func (r *Reporter) newColor(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if r.noColor {
		c.DisableColor()
	}
	return c
}

// Header prints the bench banner
func (r *Reporter) Header(method, target string, cfg *Config) {
	fmt.Fprintln(r.writer)
	r.bold.Fprintf(r.writer, "Benchmarking %s %s\n", method, target)

	var parts []string
	if cfg.Requests > 0 {
		parts = append(parts, fmt.Sprintf("requests: %d", cfg.Requests))
	}
	if cfg.Duration > 0 {
		parts = append(parts, fmt.Sprintf("duration: %s", cfg.Duration))
	}
	if cfg.Rate > 0 {
		parts = append(parts, fmt.Sprintf("rate: %s/s", formatFloat(cfg.Rate)))
	} else {
		parts = append(parts, "rate: unlimited")
	}
	if cfg.Warmup > 0 {
		parts = append(parts, fmt.Sprintf("warmup: %d", cfg.Warmup))
	}
	r.dim.Fprintln(r.writer, strings.Join(parts, " | "))
	fmt.Fprintln(r.writer)
}

// Summary prints the final summary
func (r *Reporter) Summary(result *Result) {
	s := result.Summary

	r.bold.Fprintln(r.writer, "Summary")
	fmt.Fprintf(r.writer, "  Total:     %d requests in %s\n", s.TotalRequests, formatDuration(s.Duration))
	fmt.Fprintf(r.writer, "  Rate:      %s req/s\n", formatFloat(s.RPS))
	fmt.Fprintf(r.writer, "  Success:   ")
	r.green.Fprintf(r.writer, "%d (%s)\n", s.SuccessCount, formatPercent(s.SuccessRate))
	fmt.Fprintf(r.writer, "  Errors:    ")
	if s.ErrorCount > 0 {
		r.red.Fprintf(r.writer, "%d (%s)\n", s.ErrorCount, formatPercent(s.ErrorRate))
	} else {
		fmt.Fprintf(r.writer, "0\n")
	}

	fmt.Fprintln(r.writer)
	r.bold.Fprintln(r.writer, "Latency")
	fmt.Fprintf(r.writer, "  Min: %-10s Mean: %-10s Max: %s\n",
		formatDuration(s.Min), formatDuration(s.Mean), formatDuration(s.Max))
	fmt.Fprintf(r.writer, "  p50: %-10s p95:  %-10s p99: %s\n",
		formatDuration(s.P50), formatDuration(s.P95), formatDuration(s.P99))
	fmt.Fprintf(r.writer, "  StdDev: %s\n", formatDuration(s.StdDev))

	if len(s.StatusCounts) > 0 {
		fmt.Fprintln(r.writer)
		r.bold.Fprintln(r.writer, "Status codes")
		codes := make([]int, 0, len(s.StatusCounts))
		for code := range s.StatusCounts {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			c := r.green
			if code >= 400 {
				c = r.red
			} else if code >= 300 {
				c = r.cyan
			}
			c.Fprintf(r.writer, "  %d", code)
			fmt.Fprintf(r.writer, ": %d\n", s.StatusCounts[code])
		}
	}

	if result.LastError != nil {
		fmt.Fprintln(r.writer)
		r.red.Fprintf(r.writer, "Last error: %v\n", result.LastError)
	}

	if len(result.Thresholds) > 0 {
		fmt.Fprintln(r.writer)
		r.bold.Fprintln(r.writer, "Thresholds")
		for _, t := range result.Thresholds {
			if t.Passed {
				r.green.Fprint(r.writer, "  ✓ ")
			} else {
				r.red.Fprint(r.writer, "  ✗ ")
			}
			fmt.Fprintf(r.writer, "%s: %s (expected %s)\n", t.Name, t.Actual, t.Expected)
		}
	}
	fmt.Fprintln(r.writer)
}

// JSONSummary is the machine-readable form of a bench result
type JSONSummary struct {
	Duration      float64           `json:"duration_seconds"`
	TotalRequests int64             `json:"total_requests"`
	SuccessCount  int64             `json:"success_count"`
	ErrorCount    int64             `json:"error_count"`
	RPS           float64           `json:"rps"`
	ErrorRate     float64           `json:"error_rate"`
	StatusCounts  map[string]int64  `json:"status_codes,omitempty"`
	Latency       JSONLatency       `json:"latency_ms"`
	Thresholds    []ThresholdResult `json:"thresholds,omitempty"`
	Passed        bool              `json:"passed"`
}

// JSONLatency holds latency figures in milliseconds
type JSONLatency struct {
	Min    float64 `json:"min"`
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
	StdDev float64 `json:"stddev"`
}

// JSON writes the result as indented JSON
func (r *Reporter) JSON(result *Result) error {
	s := result.Summary
	out := JSONSummary{
		Duration:      s.Duration.Seconds(),
		TotalRequests: s.TotalRequests,
		SuccessCount:  s.SuccessCount,
		ErrorCount:    s.ErrorCount,
		RPS:           s.RPS,
		ErrorRate:     s.ErrorRate,
		Latency: JSONLatency{
			Min:    ms(s.Min),
			Mean:   ms(s.Mean),
			Max:    ms(s.Max),
			P50:    ms(s.P50),
			P95:    ms(s.P95),
			P99:    ms(s.P99),
			StdDev: ms(s.StdDev),
		},
		Thresholds: result.Thresholds,
		Passed:     result.Passed(),
	}
	if len(s.StatusCounts) > 0 {
		out.StatusCounts = make(map[string]int64, len(s.StatusCounts))
		for code, n := range s.StatusCounts {
			out.StatusCounts[fmt.Sprint(code)] = n
		}
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
