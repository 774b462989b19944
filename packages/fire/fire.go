package fire

import (
	"github.com/abdul-hamid-achik/restfire/packages/assertions"
	"github.com/abdul-hamid-achik/restfire/packages/core/config"
	"github.com/abdul-hamid-achik/restfire/packages/http"
)

// Fire creates requests that share a transport and a set of processors
// applied to every request before any other configuration.
type Fire struct {
	transport http.Transport
	defaults  []RequestProcessor
}

func New(transport http.Transport, defaults ...RequestProcessor) *Fire {
	if transport == nil {
		transport = http.NewClient()
	}
	return &Fire{transport: transport, defaults: defaults}
}

// FromConfig returns a Fire whose client follows cfg and whose requests
// start from cfg.BaseURL.
func FromConfig(cfg *config.Config) *Fire {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	var defaults []RequestProcessor
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		defaults = append(defaults, func(r *Target) { r.To(base) })
	}
	return New(http.NewClient(cfg.ClientOptions()...), defaults...)
}

// Transport returns the transport requests are sent through.
func (f *Fire) Transport() http.Transport {
	return f.transport
}

// Request starts a GET request bound to t.
func (f *Fire) Request(t TestingT) *Request {
	r := NewRequest(t, f.transport)
	r.With(f.defaults...)
	return r
}

func (f *Fire) method(t TestingT, method, address string) *Request {
	r := f.Request(t).WithMethod(method)
	if address != "" {
		r.To(address)
	}
	return r
}

func (f *Fire) GET(t TestingT, address string) *Request {
	return f.method(t, "GET", address)
}

func (f *Fire) POST(t TestingT, address string) *Request {
	return f.method(t, "POST", address)
}

func (f *Fire) PUT(t TestingT, address string) *Request {
	return f.method(t, "PUT", address)
}

func (f *Fire) PATCH(t TestingT, address string) *Request {
	return f.method(t, "PATCH", address)
}

func (f *Fire) DELETE(t TestingT, address string) *Request {
	return f.method(t, "DELETE", address)
}

func (f *Fire) HEAD(t TestingT, address string) *Request {
	return f.method(t, "HEAD", address)
}

func (f *Fire) OPTIONS(t TestingT, address string) *Request {
	return f.method(t, "OPTIONS", address)
}

// Default sends through a plain http.Client.
var Default = New(http.NewClient())

func GET(t TestingT, address string) *Request {
	return Default.GET(t, address)
}

func POST(t TestingT, address string) *Request {
	return Default.POST(t, address)
}

func PUT(t TestingT, address string) *Request {
	return Default.PUT(t, address)
}

func PATCH(t TestingT, address string) *Request {
	return Default.PATCH(t, address)
}

func DELETE(t TestingT, address string) *Request {
	return Default.DELETE(t, address)
}

func HEAD(t TestingT, address string) *Request {
	return Default.HEAD(t, address)
}

func OPTIONS(t TestingT, address string) *Request {
	return Default.OPTIONS(t, address)
}

// Check runs fn against a TestingT that records failures and returns the
// first reported failure as an error, or nil.
func Check(fn func(t TestingT)) error {
	return assertions.Capture(fn)
}
