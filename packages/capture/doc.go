// Package capture extracts values from responses for use in subsequent
// requests.
//
// It supports capturing values from:
//   - Response body (JSON paths, or the raw text when the body is not JSON)
//   - Response headers
//   - Response status code and duration
//
// A typical chain creates a resource, captures its id with String and
// addresses the next request with it.
package capture
