package match

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// NormalizePath converts a "$."-prefixed path with bracket indexes to gjson
// dot notation.
// e.g., "[0].id" -> "0.id", "items[0].tags[1]" -> "items.0.tags.1"
func NormalizePath(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = bracketIndex.ReplaceAllString(path, ".$1")
	return strings.TrimPrefix(path, ".")
}

// JSONPath matches JSON documents whose value at path satisfies m. Paths use
// gjson syntax; bracket indexes like items[0].id are accepted. A missing path
// is passed to m as nil.
func JSONPath(path string, m Matcher[any]) Matcher[string] {
	gpath := NormalizePath(path)
	value := func(doc string) any {
		r := gjson.Get(doc, gpath)
		if !r.Exists() {
			return nil
		}
		return r.Value()
	}
	return &funcMatcher[string]{
		description: fmt.Sprintf("JSON at %s %s", path, m.String()),
		fn: func(actual string) bool {
			if !gjson.Valid(actual) {
				return false
			}
			return m.Matches(value(actual))
		},
		mismatch: func(actual string) string {
			if !gjson.Valid(actual) {
				return "was not valid JSON: " + Format(actual)
			}
			if !gjson.Get(actual, gpath).Exists() {
				return fmt.Sprintf("%s did not exist", path)
			}
			return fmt.Sprintf("%s %s", path, Explain(m, value(actual)))
		},
	}
}

func JSONPathExists(path string) Matcher[string] {
	gpath := NormalizePath(path)
	return &funcMatcher[string]{
		description: fmt.Sprintf("JSON with %s present", path),
		fn: func(actual string) bool {
			return gjson.Valid(actual) && gjson.Get(actual, gpath).Exists()
		},
		mismatch: func(actual string) string {
			return fmt.Sprintf("%s was missing from %s", path, Format(actual))
		},
	}
}

// JSONEqual matches documents semantically equal to expected, ignoring key
// order and whitespace. The mismatch carries a diff.
func JSONEqual(expected string) Matcher[string] {
	var want any
	wantErr := json.Unmarshal([]byte(expected), &want)
	return &funcMatcher[string]{
		description: "JSON equal to " + expected,
		fn: func(actual string) bool {
			if wantErr != nil {
				return false
			}
			var got any
			if err := json.Unmarshal([]byte(actual), &got); err != nil {
				return false
			}
			return gocmp.Equal(want, got)
		},
		mismatch: func(actual string) string {
			if wantErr != nil {
				return fmt.Sprintf("expected document is not valid JSON: %v", wantErr)
			}
			var got any
			if err := json.Unmarshal([]byte(actual), &got); err != nil {
				return "was not valid JSON: " + Format(actual)
			}
			return "differed (-want +got):\n" + gocmp.Diff(want, got)
		},
	}
}

// JSONSchema matches documents valid against the given JSON Schema.
func JSONSchema(schema string) Matcher[string] {
	return schemaMatcher("JSON valid against schema", gojsonschema.NewStringLoader(schema))
}

// JSONSchemaFile is JSONSchema with the schema read from path when matching.
func JSONSchemaFile(path string) Matcher[string] {
	return &lazySchema{path: path}
}

type lazySchema struct {
	path string
}

func (s *lazySchema) load() (Matcher[string], error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return schemaMatcher(s.String(), gojsonschema.NewBytesLoader(data)), nil
}

func (s *lazySchema) Matches(actual string) bool {
	m, err := s.load()
	return err == nil && m.Matches(actual)
}

func (s *lazySchema) String() string {
	return "JSON valid against schema " + s.path
}

func (s *lazySchema) DescribeMismatch(actual string) string {
	m, err := s.load()
	if err != nil {
		return err.Error()
	}
	return Explain(m, actual)
}

func schemaMatcher(description string, schema gojsonschema.JSONLoader) Matcher[string] {
	validate := func(actual string) (bool, string) {
		result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(actual))
		if err != nil {
			return false, fmt.Sprintf("schema validation error: %v", err)
		}
		if result.Valid() {
			return true, ""
		}
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return false, "schema validation failed: " + strings.Join(errs, "; ")
	}
	return &funcMatcher[string]{
		description: description,
		fn: func(actual string) bool {
			ok, _ := validate(actual)
			return ok
		},
		mismatch: func(actual string) string {
			_, msg := validate(actual)
			return msg
		},
	}
}

// Value matches decoded JSON values loosely: numbers compare by value
// regardless of Go type and other scalars compare by their text.
func Value(expected any) Matcher[any] {
	return &funcMatcher[any]{
		description: Format(expected),
		fn: func(actual any) bool {
			return looselyEqual(actual, expected)
		},
	}
}

// Present matches any non-nil value.
func Present() Matcher[any] {
	return &funcMatcher[any]{
		description: "present",
		fn: func(actual any) bool {
			return actual != nil
		},
		mismatch: func(any) string {
			return "was missing"
		},
	}
}

// Number applies a numeric matcher to values convertible to float64.
func Number(m Matcher[float64]) Matcher[any] {
	return &funcMatcher[any]{
		description: "a number " + m.String(),
		fn: func(actual any) bool {
			n, ok := toFloat64(actual)
			return ok && m.Matches(n)
		},
		mismatch: func(actual any) string {
			n, ok := toFloat64(actual)
			if !ok {
				return fmt.Sprintf("was non-numeric %v", Format(actual))
			}
			return Explain(m, n)
		},
	}
}

// Text applies a string matcher to the textual form of a value.
func Text(m Matcher[string]) Matcher[any] {
	return &funcMatcher[any]{
		description: m.String(),
		fn: func(actual any) bool {
			return actual != nil && m.Matches(fmt.Sprintf("%v", actual))
		},
	}
}

// Items applies a slice matcher to JSON arrays.
func Items(m Matcher[[]any]) Matcher[any] {
	return &funcMatcher[any]{
		description: m.String(),
		fn: func(actual any) bool {
			arr, ok := actual.([]any)
			return ok && m.Matches(arr)
		},
		mismatch: func(actual any) string {
			arr, ok := actual.([]any)
			if !ok {
				return fmt.Sprintf("expected array, got %T", actual)
			}
			return Explain(m, arr)
		},
	}
}

// OfType matches JSON values of the named type: null, boolean, number,
// string, array or object.
func OfType(name string) Matcher[any] {
	return &funcMatcher[any]{
		description: "of type " + name,
		fn: func(actual any) bool {
			return jsonType(actual) == name
		},
		mismatch: func(actual any) string {
			return "was of type " + jsonType(actual)
		},
	}
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return reflect.TypeOf(v).String()
	}
}

func looselyEqual(actual, expected any) bool {
	if reflect.DeepEqual(actual, expected) {
		return true
	}
	actualNum, aOk := toFloat64(actual)
	expectedNum, eOk := toFloat64(expected)
	if aOk && eOk {
		return actualNum == expectedNum
	}
	if actual == nil || expected == nil {
		return false
	}
	return fmt.Sprintf("%v", actual) == fmt.Sprintf("%v", expected)
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
