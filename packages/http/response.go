package http

import (
	"encoding/json"
	"strings"
	"time"
)

// Response is the captured result of one call. Header names are stored
// lower-cased; treat the value as read-only once it is handed out.
type Response struct {
	StatusCode int
	Status     string
	Headers    map[string][]string
	Body       []byte
	Duration   time.Duration
}

// NewResponse builds a Response, lower-casing header names and merging
// names that differ only by case.
func NewResponse(statusCode int, headers map[string][]string, body []byte) *Response {
	lowered := make(map[string][]string, len(headers))
	for k, v := range headers {
		key := strings.ToLower(k)
		lowered[key] = append(lowered[key], v...)
	}
	return &Response{
		StatusCode: statusCode,
		Headers:    lowered,
		Body:       body,
	}
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

func (r *Response) BodyJSON() (any, error) {
	var result any
	if err := json.Unmarshal(r.Body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// HeaderValues returns every value of the header, matching the name
// case-insensitively.
func (r *Response) HeaderValues(key string) []string {
	if v, ok := r.Headers[strings.ToLower(key)]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

// Header returns the first value of the header or "".
func (r *Response) Header(key string) string {
	if v := r.HeaderValues(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	ct := r.ContentType()
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "+json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

// WithDuration returns a copy of r carrying d as its elapsed time.
func (r *Response) WithDuration(d time.Duration) *Response {
	c := *r
	c.Duration = d
	return &c
}
