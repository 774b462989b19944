package match

import (
	"fmt"
	"reflect"
	"strings"

	gocmp "github.com/google/go-cmp/cmp"
)

// Matcher is a predicate over a value that can describe what it expects.
type Matcher[T any] interface {
	Matches(actual T) bool
	String() string
}

// MismatchDescriber is implemented by matchers that can explain why a value
// did not match better than printing the value.
type MismatchDescriber[T any] interface {
	DescribeMismatch(actual T) string
}

// Explain returns the text reported for a failed match of actual against m.
func Explain[T any](m Matcher[T], actual T) string {
	if d, ok := m.(MismatchDescriber[T]); ok {
		return d.DescribeMismatch(actual)
	}
	return "was " + Format(actual)
}

// Format renders a value the way mismatch descriptions show it.
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", val)
	case []byte:
		return fmt.Sprintf("%q", string(val))
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprintf("%v", v)
}

type funcMatcher[T any] struct {
	description string
	fn          func(T) bool
	mismatch    func(T) string
}

func (m *funcMatcher[T]) Matches(actual T) bool {
	return m.fn(actual)
}

func (m *funcMatcher[T]) String() string {
	return m.description
}

func (m *funcMatcher[T]) DescribeMismatch(actual T) string {
	if m.mismatch != nil {
		return m.mismatch(actual)
	}
	return "was " + Format(actual)
}

// Func builds a matcher from a plain predicate.
func Func[T any](description string, fn func(T) bool) Matcher[T] {
	return &funcMatcher[T]{description: description, fn: fn}
}

// EqualTo matches values structurally equal to expected. Structs with
// unexported fields are compared with reflect.DeepEqual.
func EqualTo[T any](expected T) Matcher[T] {
	return &funcMatcher[T]{
		description: Format(expected),
		fn: func(actual T) bool {
			return equal(expected, actual)
		},
	}
}

// equal is gocmp.Equal, falling back to reflect.DeepEqual where go-cmp
// panics on unexported fields.
func equal(x, y any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(x, y)
		}
	}()
	return gocmp.Equal(x, y)
}

func Not[T any](m Matcher[T]) Matcher[T] {
	return &funcMatcher[T]{
		description: "not " + m.String(),
		fn: func(actual T) bool {
			return !m.Matches(actual)
		},
	}
}

// AllOf matches when every matcher matches; the mismatch names the first
// one that did not.
func AllOf[T any](matchers ...Matcher[T]) Matcher[T] {
	return &funcMatcher[T]{
		description: join(matchers, " and "),
		fn: func(actual T) bool {
			for _, m := range matchers {
				if !m.Matches(actual) {
					return false
				}
			}
			return true
		},
		mismatch: func(actual T) string {
			for _, m := range matchers {
				if !m.Matches(actual) {
					return m.String() + " " + Explain(m, actual)
				}
			}
			return "was " + Format(actual)
		},
	}
}

func AnyOf[T any](matchers ...Matcher[T]) Matcher[T] {
	return &funcMatcher[T]{
		description: join(matchers, " or "),
		fn: func(actual T) bool {
			for _, m := range matchers {
				if m.Matches(actual) {
					return true
				}
			}
			return false
		},
	}
}

// In matches values equal to one of candidates.
func In[T any](candidates ...T) Matcher[T] {
	parts := make([]string, len(candidates))
	for i, c := range candidates {
		parts[i] = Format(c)
	}
	return &funcMatcher[T]{
		description: "one of [" + strings.Join(parts, ", ") + "]",
		fn: func(actual T) bool {
			for _, c := range candidates {
				if equal(c, actual) {
					return true
				}
			}
			return false
		},
	}
}

// HasLength matches strings, slices, arrays and maps of length n.
func HasLength[T any](n int) Matcher[T] {
	return &funcMatcher[T]{
		description: fmt.Sprintf("length %d", n),
		fn: func(actual T) bool {
			return lengthOf(actual) == n
		},
		mismatch: func(actual T) string {
			l := lengthOf(actual)
			if l < 0 {
				return fmt.Sprintf("cannot get length of %T", actual)
			}
			return fmt.Sprintf("had length %d", l)
		},
	}
}

func IsEmpty[T any]() Matcher[T] {
	return &funcMatcher[T]{
		description: "empty",
		fn: func(actual T) bool {
			return lengthOf(actual) == 0
		},
	}
}

// lengthOf returns the length of a value, or -1 if length cannot be computed
func lengthOf(actual any) int {
	if actual == nil {
		return 0
	}
	rv := reflect.ValueOf(actual)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return rv.Len()
	default:
		return -1
	}
}

func join[T any](matchers []Matcher[T], sep string) string {
	parts := make([]string, len(matchers))
	for i, m := range matchers {
		parts[i] = "(" + m.String() + ")"
	}
	return strings.Join(parts, sep)
}
