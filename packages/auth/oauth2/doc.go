// Package oauth2 obtains and caches OAuth2 access tokens for authenticated
// requests. Token requests go through a restfire transport, so they share
// its timeouts, retries and tracing.
package oauth2
