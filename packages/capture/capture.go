package capture

import (
	"fmt"
	"strconv"

	"github.com/abdul-hamid-achik/restfire/packages/http"
	"github.com/abdul-hamid-achik/restfire/packages/match"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// Source is the part of a response a value is captured from.
type Source int

const (
	Body Source = iota
	Header
	Status
	Duration
)

// Capture names a value to extract. Path is a JSON path for Body and a
// header name for Header; it is ignored otherwise.
type Capture struct {
	Name   string
	Source Source
	Path   string
}

type Extractor struct {
	response *http.Response
	bodyJSON gjson.Result
	isJSON   bool
}

func NewExtractor(resp *http.Response) *Extractor {
	e := &Extractor{
		response: resp,
	}
	if gjson.ValidBytes(resp.Body) {
		e.bodyJSON = gjson.ParseBytes(resp.Body)
		e.isJSON = true
	}
	return e
}

func (e *Extractor) Extract(c Capture) (any, bool) {
	switch c.Source {
	case Body:
		return e.extractFromBody(c.Path)
	case Header:
		return e.extractFromHeader(c.Path)
	case Status:
		return e.response.StatusCode, true
	case Duration:
		return e.response.DurationMs(), true
	default:
		return nil, false
	}
}

func (e *Extractor) extractFromBody(path string) (any, bool) {
	if !e.isJSON {
		if path == "" {
			return e.response.BodyString(), true
		}
		return nil, false
	}

	if path == "" || path == "$" {
		return e.bodyJSON.Value(), true
	}

	result := e.bodyJSON.Get(match.NormalizePath(path))
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

func (e *Extractor) extractFromHeader(name string) (any, bool) {
	values := e.response.HeaderValues(name)
	if len(values) == 0 {
		return nil, false
	}
	return values[0], true
}

// ExtractAll returns every capture found in resp keyed by name. Captures
// that are not present are left out.
func ExtractAll(resp *http.Response, captures ...Capture) map[string]any {
	extractor := NewExtractor(resp)
	results := make(map[string]any)

	for _, c := range captures {
		if value, ok := extractor.Extract(c); ok {
			results[c.Name] = value
		}
	}

	return results
}

// String returns the body value at path as text, for use in a following
// request. A missing value fails t.
func String(t require.TestingT, resp *http.Response, path string) string {
	value, ok := NewExtractor(resp).Extract(Capture{Source: Body, Path: path})
	if !ok {
		require.Fail(t, fmt.Sprintf("Expected a value at %s in the response body", path))
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
