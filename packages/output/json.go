package output

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary `json:"summary"`
	Checks   []JSONCheck `json:"checks"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary represents the check summary
type JSONSummary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
	Errors int `json:"errors"`
}

// JSONCheck represents a single check result
type JSONCheck struct {
	Name       string  `json:"name"`
	Method     string  `json:"method"`
	URL        string  `json:"url"`
	Passed     bool    `json:"passed"`
	StatusCode int     `json:"statusCode,omitempty"`
	Duration   float64 `json:"duration"`
	Failure    string  `json:"failure,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// JSONFormatter formats check results as JSON
type JSONFormatter struct {
	writer  io.Writer
	summary JSONSummary
	checks  []JSONCheck
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		checks: make([]JSONCheck, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *RunResult) {
	for _, r := range result.Results {
		check := JSONCheck{
			Name:       r.Name,
			Method:     r.Method,
			URL:        r.URL,
			Passed:     r.Passed && r.Error == nil,
			StatusCode: r.StatusCode,
			Duration:   float64(r.Duration.Milliseconds()),
			Failure:    r.Failure,
		}
		if r.Error != nil {
			check.Error = r.Error.Error()
		}
		f.checks = append(f.checks, check)
	}
	f.summary.Total += result.Total()
	f.summary.Passed += result.Passed
	f.summary.Failed += result.Failed
	f.summary.Errors += result.Errors
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual check results
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	output := JSONOutput{
		Summary:  f.summary,
		Checks:   f.checks,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
