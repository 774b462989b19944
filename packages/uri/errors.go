package uri

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPort    = errors.New("port must be between 1 and 65535")
	ErrMalformedURI   = errors.New("malformed URI")
	ErrEmptyComponent = errors.New("value must not be empty")
	ErrUserInfo       = errors.New("credentials in the address are not sent, use processors.BasicAuth")
)

// ConfigError reports a fragment that was rejected at the setter call.
type ConfigError struct {
	Fragment string
	Value    any
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Fragment, fmt.Sprint(e.Value), e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configError(fragment string, value any, err error) error {
	return &ConfigError{Fragment: fragment, Value: value, Err: err}
}
