package fire

import (
	"net/url"
	"time"

	"github.com/abdul-hamid-achik/restfire/packages/assertions"
	"github.com/abdul-hamid-achik/restfire/packages/http"
	"github.com/stretchr/testify/require"
)

// TestingT is the part of *testing.T the builder and validators use.
type TestingT = assertions.TestingT

type tHelper interface {
	Helper()
}

// RequestBuilder is the fluent surface over a Target. T is the concrete
// builder type each call returns, so builders that embed RequestBuilder keep
// their own methods reachable anywhere in a chain.
type RequestBuilder[T any] struct {
	target *Target
	self   T
}

// Request is the ready-made builder.
type Request struct {
	*RequestBuilder[*Request]
}

// NewRequest returns a GET builder bound to t that sends through transport.
func NewRequest(t TestingT, transport http.Transport) *Request {
	r := &Request{}
	r.RequestBuilder = NewRequestBuilder(t, transport, r)
	return r
}

// NewRequestBuilder builds the embeddable core of a custom builder; self is
// the value every mutator returns:
//
//	type UserRequest struct {
//		*fire.RequestBuilder[*UserRequest]
//	}
//
//	func (r *UserRequest) ForUser(id string) *UserRequest {
//		return r.WithPath("/users/" + id)
//	}
func NewRequestBuilder[T any](t TestingT, transport http.Transport, self T) *RequestBuilder[T] {
	return &RequestBuilder[T]{target: newTarget(t, transport), self: self}
}

// Target exposes the underlying request state.
func (b *RequestBuilder[T]) Target() *Target {
	return b.target
}

func (b *RequestBuilder[T]) To(address string) T {
	b.target.To(address)
	return b.self
}

// WithURI is To under the name used when a full URI is at hand.
func (b *RequestBuilder[T]) WithURI(uri string) T {
	b.target.To(uri)
	return b.self
}

func (b *RequestBuilder[T]) ToURL(u *url.URL) T {
	b.target.ToURL(u)
	return b.self
}

func (b *RequestBuilder[T]) WithScheme(scheme string) T {
	b.target.WithScheme(scheme)
	return b.self
}

func (b *RequestBuilder[T]) WithHost(host string) T {
	b.target.WithHost(host)
	return b.self
}

func (b *RequestBuilder[T]) WithPort(port int) T {
	b.target.WithPort(port)
	return b.self
}

func (b *RequestBuilder[T]) WithPath(path string) T {
	b.target.WithPath(path)
	return b.self
}

func (b *RequestBuilder[T]) WithFragment(fragment string) T {
	b.target.WithFragment(fragment)
	return b.self
}

func (b *RequestBuilder[T]) WithQueryParameter(name, value string) T {
	b.target.WithQueryParameter(name, value)
	return b.self
}

func (b *RequestBuilder[T]) WithHeader(name, value string) T {
	b.target.WithHeader(name, value)
	return b.self
}

func (b *RequestBuilder[T]) WithMethod(method string) T {
	b.target.WithMethod(method)
	return b.self
}

func (b *RequestBuilder[T]) WithBody(body []byte) T {
	b.target.WithBody(body)
	return b.self
}

func (b *RequestBuilder[T]) WithTimeout(d time.Duration) T {
	b.target.WithTimeout(d)
	return b.self
}

func (b *RequestBuilder[T]) With(processors ...RequestProcessor) T {
	b.target.With(processors...)
	return b.self
}

func (b *RequestBuilder[T]) Build() *http.Request {
	return b.target.Build()
}

// Execute sends the request without validating the response.
func (b *RequestBuilder[T]) Execute() (*http.Response, error) {
	return b.target.Execute()
}

// ExpectResponse sends the request and returns a validator over the
// response. A transport error fails the test.
func (b *RequestBuilder[T]) ExpectResponse() *assertions.Validator {
	if h, ok := b.target.t.(tHelper); ok {
		h.Helper()
	}
	return ExpectResponseAs(b.target, assertions.NewValidator)
}

// ExpectResponseAs is ExpectResponse for custom validator types.
func ExpectResponseAs[V any](target *Target, newValidator func(TestingT, *http.Response) V) V {
	if h, ok := target.t.(tHelper); ok {
		h.Helper()
	}
	resp, err := target.Execute()
	require.NoError(target.t, err, "%s %s", target.method, target.URI())
	return newValidator(target.t, resp)
}
