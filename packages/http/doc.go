// Package http is the transport collaborator behind the request builder.
//
// It defines the finalized Request handed to a Transport and the captured
// Response coming back, plus a net/http backed Client with:
//   - Configurable timeouts (client wide and per request)
//   - Redirect handling
//   - Retries of connection failures
//   - Optional colored request tracing
//
// Digest and AWS Signature v4 authentication are Transport decorators.
package http
