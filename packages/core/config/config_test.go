package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 30000, cfg.Timeout)
	assert.Equal(t, 10, cfg.MaxRedirects)
	assert.True(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.False(t, cfg.GetVerbose())
	assert.False(t, cfg.GetNoColor())
}

func TestFindAndLoadConfig_NoFile(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestFindAndLoadConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	content := `{"baseURL": "http://api.local:9000", "timeout": 5000, "validateSSL": false, "headers": {"X-Env": "test"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".restfire.json"), []byte(content), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://api.local:9000", cfg.BaseURL)
	assert.Equal(t, 5000, cfg.Timeout)
	assert.False(t, cfg.GetValidateSSL())
	assert.True(t, cfg.GetFollowRedirects(), "unset fields keep defaults")
	assert.Equal(t, map[string]string{"X-Env": "test"}, cfg.Headers)
}

func TestFindAndLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RESTFIRE_TEST_TOKEN", "abc")
	content := "baseURL: https://example.com\nretries: 3\nretryDelay: 10\nfollowRedirects: false\nheaders:\n  Authorization: Bearer ${RESTFIRE_TEST_TOKEN}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".restfire.yaml"), []byte(content), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", cfg.BaseURL)
	assert.Equal(t, 3, cfg.Retries)
	assert.Equal(t, 10, cfg.RetryDelay)
	assert.False(t, cfg.GetFollowRedirects())
	assert.Equal(t, "Bearer abc", cfg.Headers["Authorization"])
}

func TestFindAndLoadConfig_SearchOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "restfire.json"), []byte(`{"baseURL": "http://json"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".restfire.yml"), []byte("baseURL: http://yaml\n"), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://json", cfg.BaseURL)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"A": "1", "B": "1"}

	merged := base.Merge(&Config{
		BaseURL:     "http://override",
		Timeout:     100,
		ValidateSSL: BoolPtr(false),
		Headers:     map[string]string{"B": "2"},
	})

	assert.Equal(t, "http://override", merged.BaseURL)
	assert.Equal(t, 100, merged.Timeout)
	assert.Equal(t, 10, merged.MaxRedirects)
	assert.False(t, merged.GetValidateSSL())
	assert.True(t, merged.GetFollowRedirects())
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, merged.Headers)
	assert.Equal(t, "1", base.Headers["B"], "merge must not modify the receiver")

	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig_RoundTripsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restfire.yaml")
	cfg := DefaultConfig()
	cfg.BaseURL = "http://saved"

	require.NoError(t, cfg.SaveConfig(path))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestClientOptions(t *testing.T) {
	assert.Len(t, DefaultConfig().ClientOptions(), 4)

	cfg := DefaultConfig().Merge(&Config{
		Retries: 2,
		Proxy:   "http://proxy:3128",
		Headers: map[string]string{"X": "1"},
		Verbose: BoolPtr(true),
	})
	assert.Len(t, cfg.ClientOptions(), 9)
}
