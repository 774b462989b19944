package stress

import (
	"strconv"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Metrics aggregates the outcome of bench requests. It is used from the
// single goroutine that runs the bench.
type Metrics struct {
	totalRequests   int64
	successRequests int64
	errorRequests   int64
	statusCounts    map[int]int64

	// Latency histogram (in microseconds for precision)
	histogram *hdrhistogram.Histogram

	startTime time.Time
	endTime   time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		histogram:    hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
		statusCounts: make(map[int]int64),
	}
}

// Start marks the beginning of the measured run
func (m *Metrics) Start() {
	m.startTime = time.Now()
}

// Stop marks the end of the measured run
func (m *Metrics) Stop() {
	m.endTime = time.Now()
}

// Record records one request. status is 0 when no response was received.
func (m *Metrics) Record(status int, duration time.Duration, err error) {
	m.totalRequests++
	if err != nil {
		m.errorRequests++
	} else {
		m.successRequests++
	}
	if status > 0 {
		m.statusCounts[status]++
	}

	latencyUs := duration.Microseconds()
	if latencyUs < minLatencyUs {
		latencyUs = minLatencyUs
	}
	if latencyUs > maxLatencyUs {
		latencyUs = maxLatencyUs
	}
	_ = m.histogram.RecordValue(latencyUs)
}

// Summary is the final metrics summary
type Summary struct {
	Duration      time.Duration
	TotalRequests int64
	SuccessCount  int64
	ErrorCount    int64
	StatusCounts  map[int]int64

	RPS         float64
	SuccessRate float64
	ErrorRate   float64

	P50    time.Duration
	P95    time.Duration
	P99    time.Duration
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	StdDev time.Duration
}

func (m *Metrics) GetSummary() *Summary {
	duration := m.endTime.Sub(m.startTime)
	if m.endTime.IsZero() {
		duration = time.Since(m.startTime)
	}

	total := m.totalRequests
	rps := float64(0)
	if duration.Seconds() > 0 {
		rps = float64(total) / duration.Seconds()
	}

	successRate := float64(0)
	errorRate := float64(0)
	if total > 0 {
		successRate = float64(m.successRequests) / float64(total)
		errorRate = float64(m.errorRequests) / float64(total)
	}

	statuses := make(map[int]int64, len(m.statusCounts))
	for k, v := range m.statusCounts {
		statuses[k] = v
	}

	return &Summary{
		Duration:      duration,
		TotalRequests: total,
		SuccessCount:  m.successRequests,
		ErrorCount:    m.errorRequests,
		StatusCounts:  statuses,
		RPS:           rps,
		SuccessRate:   successRate,
		ErrorRate:     errorRate,
		P50:           micros(m.histogram.ValueAtQuantile(50)),
		P95:           micros(m.histogram.ValueAtQuantile(95)),
		P99:           micros(m.histogram.ValueAtQuantile(99)),
		Min:           micros(m.histogram.Min()),
		Max:           micros(m.histogram.Max()),
		Mean:          time.Duration(m.histogram.Mean()) * time.Microsecond,
		StdDev:        time.Duration(m.histogram.StdDev()) * time.Microsecond,
	}
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}

// EvaluateThresholds evaluates the thresholds against the summary
func EvaluateThresholds(summary *Summary, t Thresholds) []ThresholdResult {
	var results []ThresholdResult

	latency := func(name string, limit, actual time.Duration) {
		if limit > 0 {
			results = append(results, ThresholdResult{
				Name:     name,
				Passed:   actual <= limit,
				Expected: "<= " + limit.String(),
				Actual:   actual.String(),
			})
		}
	}
	latency("p50", t.P50, summary.P50)
	latency("p95", t.P95, summary.P95)
	latency("p99", t.P99, summary.P99)
	latency("max latency", t.MaxLatency, summary.Max)

	if t.ErrorRate > 0 {
		results = append(results, ThresholdResult{
			Name:     "error rate",
			Passed:   summary.ErrorRate <= t.ErrorRate,
			Expected: "<= " + formatPercent(t.ErrorRate),
			Actual:   formatPercent(summary.ErrorRate),
		})
	}

	if t.MinRPS > 0 {
		results = append(results, ThresholdResult{
			Name:     "min RPS",
			Passed:   summary.RPS >= t.MinRPS,
			Expected: ">= " + formatFloat(t.MinRPS),
			Actual:   formatFloat(summary.RPS),
		})
	}

	return results
}

func formatPercent(f float64) string {
	return formatFloat(f*100) + "%"
}

func formatFloat(f float64) string {
	if f == float64(int(f)) {
		return strconv.Itoa(int(f))
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
