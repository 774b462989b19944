package assertions

import (
	"fmt"

	"github.com/abdul-hamid-achik/restfire/packages/http"
	"github.com/abdul-hamid-achik/restfire/packages/match"
	"github.com/stretchr/testify/require"
)

// TestingT is the part of *testing.T failures are reported through.
type TestingT = require.TestingT

type tHelper interface {
	Helper()
}

// ResponseValidator asserts properties of a single response. V is the
// concrete validator type returned from every check.
type ResponseValidator[V any] struct {
	t        TestingT
	response *http.Response
	self     V
}

// Validator is the ready-made validator returned by request builders.
type Validator struct {
	*ResponseValidator[*Validator]
}

func NewValidator(t TestingT, resp *http.Response) *Validator {
	v := &Validator{}
	v.ResponseValidator = NewResponseValidator(t, resp, v)
	return v
}

// NewResponseValidator builds the embeddable core of a custom validator;
// self is the value handed back from each check:
//
//	type UserValidator struct {
//		*assertions.ResponseValidator[*UserValidator]
//	}
//
//	func NewUserValidator(t assertions.TestingT, resp *http.Response) *UserValidator {
//		v := &UserValidator{}
//		v.ResponseValidator = assertions.NewResponseValidator(t, resp, v)
//		return v
//	}
func NewResponseValidator[V any](t TestingT, resp *http.Response, self V) *ResponseValidator[V] {
	return &ResponseValidator[V]{t: t, response: resp, self: self}
}

// Response returns the validated response for extracting values.
func (v *ResponseValidator[V]) Response() *http.Response {
	return v.response
}

// T returns the TestingT failures are reported to.
func (v *ResponseValidator[V]) T() TestingT {
	return v.t
}

func (v *ResponseValidator[V]) HavingStatusEqualTo(code int) V {
	if h, ok := v.t.(tHelper); ok {
		h.Helper()
	}
	return v.HavingStatus(match.EqualTo(code))
}

func (v *ResponseValidator[V]) HavingStatus(m match.Matcher[int]) V {
	if h, ok := v.t.(tHelper); ok {
		h.Helper()
	}
	Check(v.t, "status code", m, v.response.StatusCode)
	return v.self
}

func (v *ResponseValidator[V]) HavingBodyEqualTo(body string) V {
	if h, ok := v.t.(tHelper); ok {
		h.Helper()
	}
	return v.HavingBody(match.EqualTo(body))
}

func (v *ResponseValidator[V]) HavingBody(m match.Matcher[string]) V {
	if h, ok := v.t.(tHelper); ok {
		h.Helper()
	}
	Check(v.t, "body", m, v.response.BodyString())
	return v.self
}

func (v *ResponseValidator[V]) HavingRawBody(m match.Matcher[[]byte]) V {
	if h, ok := v.t.(tHelper); ok {
		h.Helper()
	}
	Check(v.t, "raw body", m, v.response.Body)
	return v.self
}

// HavingHeaderEqualTo passes when value is one of the values of the named
// header. Header names are matched case-insensitively.
func (v *ResponseValidator[V]) HavingHeaderEqualTo(name, value string) V {
	if h, ok := v.t.(tHelper); ok {
		h.Helper()
	}
	return v.HavingHeader(name, match.HasItem(value))
}

// HavingHeader applies m to all values of the named header, in the order
// they were received. A missing header is passed to m as nil.
func (v *ResponseValidator[V]) HavingHeader(name string, m match.Matcher[[]string]) V {
	if h, ok := v.t.(tHelper); ok {
		h.Helper()
	}
	Check(v.t, fmt.Sprintf("header %q", name), m, v.response.HeaderValues(name))
	return v.self
}

func (v *ResponseValidator[V]) HavingResponseTimeInMillis(m match.Matcher[int64]) V {
	if h, ok := v.t.(tHelper); ok {
		h.Helper()
	}
	Check(v.t, "response time in millis", m, v.response.DurationMs())
	return v.self
}

// Check fails t immediately unless m matches actual. property names what
// was checked in the failure message.
func Check[T any](t TestingT, property string, m match.Matcher[T], actual T) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if m.Matches(actual) {
		return
	}
	require.Fail(t, fmt.Sprintf("Expected different %s\nExpected: %s\n     but: %s",
		property, m.String(), match.Explain(m, actual)))
}
