package fire

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/restfire/packages/http"
	"github.com/abdul-hamid-achik/restfire/packages/uri"
	"github.com/stretchr/testify/require"
)

var (
	// ErrAlreadySent is reported when a request is changed or sent again
	// after it has been executed.
	ErrAlreadySent = errors.New("request already sent")

	ErrInvalidTimeout    = errors.New("timeout must not be negative")
	ErrInvalidHeaderName = errors.New("invalid header name")
)

// RequestProcessor configures a request in bulk. Processors are applied
// when passed to With, in order.
type RequestProcessor func(*Target)

// Target is the mutable request state behind every builder. Processors
// receive it directly. A rejected value fails the test at the call.
type Target struct {
	t         TestingT
	transport http.Transport
	composer  *uri.Composer
	method    string
	header    *http.Header
	body      []byte
	timeout   time.Duration
	sent      bool
}

func newTarget(t TestingT, transport http.Transport) *Target {
	return &Target{
		t:         t,
		transport: transport,
		composer:  uri.New(),
		method:    "GET",
		header:    http.NewHeader(),
	}
}

func (r *Target) check(err error) {
	if err == nil {
		return
	}
	if h, ok := r.t.(tHelper); ok {
		h.Helper()
	}
	require.NoError(r.t, err, "invalid request configuration")
}

func (r *Target) mutable() bool {
	if r.sent {
		r.check(ErrAlreadySent)
		return false
	}
	return true
}

// T returns the TestingT the request reports to.
func (r *Target) T() TestingT {
	return r.t
}

// To merges the components present in address into the URI.
func (r *Target) To(address string) *Target {
	if r.mutable() {
		r.check(r.composer.To(address))
	}
	return r
}

func (r *Target) ToURL(u *url.URL) *Target {
	if r.mutable() {
		r.check(r.composer.ToURL(u))
	}
	return r
}

func (r *Target) WithScheme(scheme string) *Target {
	if r.mutable() {
		r.check(r.composer.WithScheme(scheme))
	}
	return r
}

func (r *Target) WithHost(host string) *Target {
	if r.mutable() {
		r.check(r.composer.WithHost(host))
	}
	return r
}

func (r *Target) WithPort(port int) *Target {
	if r.mutable() {
		r.check(r.composer.WithPort(port))
	}
	return r
}

func (r *Target) WithPath(path string) *Target {
	if r.mutable() {
		r.check(r.composer.WithPath(path))
	}
	return r
}

func (r *Target) WithFragment(fragment string) *Target {
	if r.mutable() {
		r.check(r.composer.WithFragment(fragment))
	}
	return r
}

func (r *Target) WithQueryParameter(name, value string) *Target {
	if r.mutable() {
		r.check(r.composer.WithQueryParameter(name, value))
	}
	return r
}

// WithHeader appends a header value. Earlier values for the same name are
// kept.
func (r *Target) WithHeader(name, value string) *Target {
	if r.mutable() {
		if err := validateHeaderName(name); err != nil {
			r.check(err)
			return r
		}
		r.header.Add(name, value)
	}
	return r
}

// SetHeader replaces every value of a header.
func (r *Target) SetHeader(name, value string) *Target {
	if r.mutable() {
		if err := validateHeaderName(name); err != nil {
			r.check(err)
			return r
		}
		r.header.Set(name, value)
	}
	return r
}

func (r *Target) WithMethod(method string) *Target {
	if r.mutable() {
		if strings.TrimSpace(method) == "" {
			r.check(&uri.ConfigError{Fragment: "method", Value: method, Err: uri.ErrEmptyComponent})
			return r
		}
		r.method = strings.ToUpper(method)
	}
	return r
}

func (r *Target) WithBody(body []byte) *Target {
	if r.mutable() {
		r.body = append([]byte(nil), body...)
	}
	return r
}

// WithTimeout bounds the transport call. Zero means no per-request limit.
func (r *Target) WithTimeout(d time.Duration) *Target {
	if r.mutable() {
		if d < 0 {
			r.check(fmt.Errorf("%w: %s", ErrInvalidTimeout, d))
			return r
		}
		r.timeout = d
	}
	return r
}

// With applies processors to the request immediately.
func (r *Target) With(processors ...RequestProcessor) *Target {
	for _, p := range processors {
		if !r.mutable() {
			break
		}
		if p != nil {
			p(r)
		}
	}
	return r
}

func (r *Target) Method() string {
	return r.method
}

// URI returns the URI the request would be sent to now.
func (r *Target) URI() string {
	return r.composer.FinalizeURI()
}

// HeaderValues returns the values set so far for a header name.
func (r *Target) HeaderValues(name string) []string {
	return r.header.Values(name)
}

// Build assembles the request as it would be sent. It does not send it and
// the target stays usable.
func (r *Target) Build() *http.Request {
	req := http.NewRequest(r.method, r.composer.FinalizeURI())
	req.Header = r.header.Clone()
	if r.body != nil {
		req.Body = append([]byte(nil), r.body...)
	}
	req.Timeout = r.timeout
	return req
}

// Execute sends the request once and records the wall-clock time spent in
// the transport. Transport errors are returned unchanged.
func (r *Target) Execute() (*http.Response, error) {
	if r.sent {
		return nil, ErrAlreadySent
	}
	req := r.Build()
	r.sent = true

	start := time.Now()
	resp, err := r.transport.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}
	return resp.WithDuration(elapsed), nil
}

func validateHeaderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &uri.ConfigError{Fragment: "header name", Value: name, Err: uri.ErrEmptyComponent}
	}
	if strings.ContainsAny(name, ":\r\n ") {
		return fmt.Errorf("%w: %q", ErrInvalidHeaderName, name)
	}
	return nil
}
