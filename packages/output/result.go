package output

import "time"

// CheckResult is the outcome of one request check.
type CheckResult struct {
	Name       string
	Method     string
	URL        string
	StatusCode int
	Duration   time.Duration
	Passed     bool
	// Failure is the first expectation that did not hold.
	Failure string
	// Error is set when the request could not be built or sent.
	Error error
}

// RunResult collects the checks of one invocation.
type RunResult struct {
	Results  []CheckResult
	Passed   int
	Failed   int
	Errors   int
	Duration time.Duration
}

// Add appends r and updates the counters.
func (rr *RunResult) Add(r CheckResult) {
	rr.Results = append(rr.Results, r)
	switch {
	case r.Error != nil:
		rr.Errors++
	case r.Passed:
		rr.Passed++
	default:
		rr.Failed++
	}
}

// Total returns the number of checks.
func (rr *RunResult) Total() int {
	return len(rr.Results)
}

// OK reports whether every check passed.
func (rr *RunResult) OK() bool {
	return rr.Failed == 0 && rr.Errors == 0
}
