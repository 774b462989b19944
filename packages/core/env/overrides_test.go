package env

import (
	"testing"

	"github.com/abdul-hamid-achik/restfire/packages/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverrides(t *testing.T) {
	t.Setenv("RFTEST_BASE_URL", "https://api.example.com")
	t.Setenv("RFTEST_TIMEOUT", "1500")
	t.Setenv("RFTEST_RETRIES", "2")
	t.Setenv("RFTEST_VALIDATE_SSL", "false")
	t.Setenv("RFTEST_HEADER_X_API_KEY", "k")
	t.Setenv("RFTEST_UNKNOWN", "ignored")

	cfg, err := Overrides("RFTEST_")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 1500, cfg.Timeout)
	assert.Equal(t, 2, cfg.Retries)
	require.NotNil(t, cfg.ValidateSSL)
	assert.False(t, *cfg.ValidateSSL)
	assert.Nil(t, cfg.FollowRedirects)
	assert.Equal(t, map[string]string{"X-Api-Key": "k"}, cfg.Headers)

	merged := config.DefaultConfig().Merge(cfg)
	assert.Equal(t, 1500, merged.Timeout)
	assert.False(t, merged.GetValidateSSL())
	assert.True(t, merged.GetFollowRedirects())
}

func TestOverrides_InvalidNumber(t *testing.T) {
	t.Setenv("RFBAD_TIMEOUT", "soon")

	_, err := Overrides("RFBAD_")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RFBAD_TIMEOUT")
}

func TestLoadSystemEnv(t *testing.T) {
	t.Setenv("RFSYS_ONE", "1")
	t.Setenv("RFSYS_", "empty suffix")

	assert.Equal(t, map[string]string{"ONE": "1"}, LoadSystemEnv("RFSYS_"))
}

func TestHeaderName(t *testing.T) {
	assert.Equal(t, "Authorization", headerName("AUTHORIZATION"))
	assert.Equal(t, "X-Request-Id", headerName("X_REQUEST_ID"))
}
