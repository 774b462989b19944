package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/restfire/packages/core/config"
)

// DefaultPrefix is the prefix of the variables Overrides reads.
const DefaultPrefix = "RESTFIRE_"

// headerPrefix marks variables that become default headers, e.g.
// RESTFIRE_HEADER_X_API_KEY sets X-Api-Key.
const headerPrefix = "HEADER_"

// LoadSystemEnv returns the environment variables starting with prefix,
// keyed without it.
func LoadSystemEnv(prefix string) map[string]string {
	result := make(map[string]string)
	for _, e := range os.Environ() {
		key, value, found := strings.Cut(e, "=")
		if !found {
			continue
		}
		if prefix == "" {
			result[key] = value
		} else if len(key) > len(prefix) && strings.HasPrefix(key, prefix) {
			result[key[len(prefix):]] = value
		}
	}
	return result
}

// Overrides builds a partial config from the variables starting with
// prefix. Unset variables leave their fields empty so the result can be
// passed to config.Merge.
func Overrides(prefix string) (*config.Config, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	vars := LoadSystemEnv(prefix)
	cfg := &config.Config{}

	for key, value := range vars {
		var err error
		switch key {
		case "BASE_URL":
			cfg.BaseURL = value
		case "TIMEOUT":
			cfg.Timeout, err = strconv.Atoi(value)
		case "RETRIES":
			cfg.Retries, err = strconv.Atoi(value)
		case "RETRY_DELAY":
			cfg.RetryDelay, err = strconv.Atoi(value)
		case "MAX_REDIRECTS":
			cfg.MaxRedirects, err = strconv.Atoi(value)
		case "PROXY":
			cfg.Proxy = value
		case "FOLLOW_REDIRECTS":
			cfg.FollowRedirects, err = parseBool(value)
		case "VALIDATE_SSL":
			cfg.ValidateSSL, err = parseBool(value)
		case "VERBOSE":
			cfg.Verbose, err = parseBool(value)
		case "NO_COLOR":
			cfg.NoColor, err = parseBool(value)
		default:
			if name, ok := strings.CutPrefix(key, headerPrefix); ok && name != "" {
				if cfg.Headers == nil {
					cfg.Headers = make(map[string]string)
				}
				cfg.Headers[headerName(name)] = value
			}
		}
		if err != nil {
			return nil, fmt.Errorf("invalid %s%s: %w", prefix, key, err)
		}
	}
	return cfg, nil
}

func parseBool(s string) (*bool, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return config.BoolPtr(b), nil
}

// headerName turns X_API_KEY into X-Api-Key.
func headerName(s string) string {
	parts := strings.Split(strings.ToLower(s), "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "-")
}
