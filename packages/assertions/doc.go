// Package assertions validates captured HTTP responses.
//
// A ResponseValidator wraps one immutable response and exposes chainable
// checks on its status code, body, headers and response time:
//
//	v.HavingStatusEqualTo(200).
//		HavingHeaderEqualTo("Content-Type", "application/json").
//		HavingBody(match.JSONPath("user.name", match.Value("Ada")))
//
// The first failing check reports the property, what the matcher expected
// and what was found, then stops the test with FailNow. Later checks in the
// chain never run.
//
// ResponseValidator is generic over its own concrete type so that validators
// embedding it keep their extra methods available anywhere in a chain.
package assertions
