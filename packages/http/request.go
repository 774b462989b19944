package http

import (
	"time"
)

// Request is the finalized description of a call handed to a Transport.
// It is assembled once by the request builder; transports and decorators
// that need to change it work on a Clone.
type Request struct {
	Method  string
	URL     string
	Header  *Header
	Body    []byte
	Timeout time.Duration
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method: method,
		URL:    requestURL,
		Header: NewHeader(),
	}
}

func (r *Request) Clone() *Request {
	c := *r
	if r.Header != nil {
		c.Header = r.Header.Clone()
	} else {
		c.Header = NewHeader()
	}
	if r.Body != nil {
		c.Body = append([]byte(nil), r.Body...)
	}
	return &c
}

// BodyString returns the request body as text.
func (r *Request) BodyString() string {
	return string(r.Body)
}
