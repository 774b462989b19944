package stress

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()
	m.Start()

	m.Record(200, 100*time.Millisecond, nil)
	m.Record(200, 150*time.Millisecond, nil)
	m.Record(201, 200*time.Millisecond, nil)
	m.Record(0, 50*time.Millisecond, errors.New("connection refused"))

	m.Stop()

	summary := m.GetSummary()
	assert.Equal(t, int64(4), summary.TotalRequests)
	assert.Equal(t, int64(3), summary.SuccessCount)
	assert.Equal(t, int64(1), summary.ErrorCount)
	assert.Equal(t, map[int]int64{200: 2, 201: 1}, summary.StatusCounts)
	assert.InDelta(t, 0.25, summary.ErrorRate, 0.0001)
	assert.InDelta(t, 0.75, summary.SuccessRate, 0.0001)
}

func TestMetricsSummary(t *testing.T) {
	m := NewMetrics()
	m.Start()
	for i := 1; i <= 100; i++ {
		m.Record(200, time.Duration(i)*time.Millisecond, nil)
	}
	m.Stop()

	summary := m.GetSummary()
	assert.Equal(t, int64(100), summary.TotalRequests)
	assert.InDelta(t, float64(50*time.Millisecond), float64(summary.P50), float64(time.Millisecond))
	assert.InDelta(t, float64(95*time.Millisecond), float64(summary.P95), float64(time.Millisecond))
	assert.InDelta(t, float64(99*time.Millisecond), float64(summary.P99), float64(time.Millisecond))
	assert.InDelta(t, float64(time.Millisecond), float64(summary.Min), float64(10*time.Microsecond))
	assert.InDelta(t, float64(100*time.Millisecond), float64(summary.Max), float64(time.Millisecond))
	assert.Greater(t, summary.StdDev, time.Duration(0))
	assert.Greater(t, summary.RPS, float64(0))
}

func TestMetricsRecordClampsLatency(t *testing.T) {
	m := NewMetrics()
	m.Start()
	m.Record(200, 0, nil)
	m.Record(200, 2*time.Hour, nil)
	m.Stop()

	summary := m.GetSummary()
	assert.Equal(t, time.Microsecond, summary.Min)
	assert.InDelta(t, float64(time.Minute), float64(summary.Max), float64(100*time.Millisecond))
}

func TestEvaluateThresholds(t *testing.T) {
	m := NewMetrics()
	m.Start()
	for i := 0; i < 100; i++ {
		m.Record(200, 10*time.Millisecond, nil)
	}
	m.Record(500, 10*time.Millisecond, errors.New("server error"))
	m.Stop()
	summary := m.GetSummary()

	results := EvaluateThresholds(summary, Thresholds{
		P95:       100 * time.Millisecond,
		ErrorRate: 0.05,
	})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Passed, "threshold %s should pass", r.Name)
	}

	results = EvaluateThresholds(summary, Thresholds{
		P95:        time.Millisecond,
		MaxLatency: time.Millisecond,
		ErrorRate:  0.001,
		MinRPS:     1e9,
	})
	require.Len(t, results, 4)
	for _, r := range results {
		assert.False(t, r.Passed, "threshold %s should fail", r.Name)
	}
	assert.Equal(t, "error rate", results[2].Name)
	assert.Equal(t, "<= 0.10%", results[2].Expected)
}

func TestEvaluateThresholds_None(t *testing.T) {
	assert.Empty(t, EvaluateThresholds(&Summary{}, Thresholds{}))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "50", formatFloat(50))
	assert.Equal(t, "12.50", formatFloat(12.5))
	assert.Equal(t, "1%", formatPercent(0.01))
}
