package stress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 100, cfg.Requests)
	assert.Zero(t, cfg.Duration)
	assert.Zero(t, cfg.Rate)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:   "default config",
			config: DefaultConfig(),
		},
		{
			name:   "duration only",
			config: &Config{Duration: 5 * time.Second, Rate: 20},
		},
		{
			name:    "neither requests nor duration",
			config:  &Config{},
			wantErr: true,
		},
		{
			name:    "negative requests",
			config:  &Config{Requests: -1},
			wantErr: true,
		},
		{
			name:    "negative duration",
			config:  &Config{Requests: 1, Duration: -time.Second},
			wantErr: true,
		},
		{
			name:    "negative rate",
			config:  &Config{Requests: 1, Rate: -1},
			wantErr: true,
		},
		{
			name:    "negative warmup",
			config:  &Config{Requests: 1, Warmup: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseThresholds(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Thresholds
		wantErr  bool
	}{
		{
			name:  "p95 threshold",
			input: "p95<200ms",
			expected: Thresholds{
				P95: 200 * time.Millisecond,
			},
		},
		{
			name:  "p99 threshold",
			input: "p99<500ms",
			expected: Thresholds{
				P99: 500 * time.Millisecond,
			},
		},
		{
			name:  "error rate percentage",
			input: "errors<1%",
			expected: Thresholds{
				ErrorRate: 0.01,
			},
		},
		{
			name:  "error rate decimal",
			input: "errors<0.001",
			expected: Thresholds{
				ErrorRate: 0.001,
			},
		},
		{
			name:  "multiple thresholds",
			input: "p95<200ms,errors<0.1%",
			expected: Thresholds{
				P95:       200 * time.Millisecond,
				ErrorRate: 0.001,
			},
		},
		{
			name:  "with spaces",
			input: "p95 < 200ms, errors < 1%",
			expected: Thresholds{
				P95:       200 * time.Millisecond,
				ErrorRate: 0.01,
			},
		},
		{
			name:  "rps threshold",
			input: "rps>50",
			expected: Thresholds{
				MinRPS: 50,
			},
		},
		{
			name:  "max latency",
			input: "max<=1s",
			expected: Thresholds{
				MaxLatency: time.Second,
			},
		},
		{
			name:    "rps with upper bound",
			input:   "rps<50",
			wantErr: true,
		},
		{
			name:    "latency with lower bound",
			input:   "p95>200ms",
			wantErr: true,
		},
		{
			name:    "invalid format",
			input:   "invalid",
			wantErr: true,
		},
		{
			name:    "invalid metric",
			input:   "unknown<100",
			wantErr: true,
		},
		{
			name:     "empty string",
			input:    "",
			expected: Thresholds{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseThresholds(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected.P50, result.P50)
				assert.Equal(t, tt.expected.P95, result.P95)
				assert.Equal(t, tt.expected.P99, result.P99)
				assert.Equal(t, tt.expected.MaxLatency, result.MaxLatency)
				assert.InDelta(t, tt.expected.ErrorRate, result.ErrorRate, 0.0001)
				assert.Equal(t, tt.expected.MinRPS, result.MinRPS)
			}
		})
	}
}

func TestThresholdsHasThresholds(t *testing.T) {
	tests := []struct {
		name       string
		thresholds Thresholds
		expected   bool
	}{
		{
			name:       "empty thresholds",
			thresholds: Thresholds{},
			expected:   false,
		},
		{
			name: "with p95",
			thresholds: Thresholds{
				P95: 200 * time.Millisecond,
			},
			expected: true,
		},
		{
			name: "with error rate",
			thresholds: Thresholds{
				ErrorRate: 0.01,
			},
			expected: true,
		},
		{
			name: "with min RPS",
			thresholds: Thresholds{
				MinRPS: 50,
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.thresholds.HasThresholds())
		})
	}
}
