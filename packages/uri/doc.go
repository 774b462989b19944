// Package uri composes the target address of a request from independently
// supplied fragments.
//
// Each of scheme, host, port, path and fragment is tracked in its own slot.
// Every setter, whether a dedicated one (WithHost, WithPort, ...) or a whole
// address (To, WithURI), writes only the slots its input actually specifies,
// and the last write to a slot wins. Query parameters are never overwritten;
// they accumulate in insertion order.
//
// Unset slots fall back to http://localhost:8080.
package uri
