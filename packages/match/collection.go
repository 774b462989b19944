package match

import (
	"bytes"
	"fmt"
)

// HasItem matches slices containing an element equal to item.
func HasItem[T any](item T) Matcher[[]T] {
	return HasItemMatching(EqualTo(item))
}

func HasItemMatching[T any](m Matcher[T]) Matcher[[]T] {
	return &funcMatcher[[]T]{
		description: "a collection containing " + m.String(),
		fn: func(actual []T) bool {
			for _, v := range actual {
				if m.Matches(v) {
					return true
				}
			}
			return false
		},
		mismatch: func(actual []T) string {
			if actual == nil {
				return "was missing"
			}
			return "was " + Format(actual)
		},
	}
}

// Every matches slices whose every element matches m. An empty slice
// matches.
func Every[T any](m Matcher[T]) Matcher[[]T] {
	return &funcMatcher[[]T]{
		description: "every item " + m.String(),
		fn: func(actual []T) bool {
			for _, v := range actual {
				if !m.Matches(v) {
					return false
				}
			}
			return true
		},
		mismatch: func(actual []T) string {
			for i, v := range actual {
				if !m.Matches(v) {
					return fmt.Sprintf("item[%d] %s", i, Explain(m, v))
				}
			}
			return "was " + Format(actual)
		},
	}
}

// Exactly matches slices equal to expected element by element, in order.
func Exactly[T any](expected ...T) Matcher[[]T] {
	return &funcMatcher[[]T]{
		description: Format(expected),
		fn: func(actual []T) bool {
			return len(actual) == len(expected) && equal(expected, actual)
		},
	}
}

func BytesEqualTo(expected []byte) Matcher[[]byte] {
	return &funcMatcher[[]byte]{
		description: fmt.Sprintf("%d bytes %q", len(expected), expected),
		fn: func(actual []byte) bool {
			return bytes.Equal(actual, expected)
		},
		mismatch: func(actual []byte) string {
			return fmt.Sprintf("was %d bytes %q", len(actual), actual)
		},
	}
}

// Bytes applies a string matcher to the text of a byte slice.
func Bytes(m Matcher[string]) Matcher[[]byte] {
	return &funcMatcher[[]byte]{
		description: m.String(),
		fn: func(actual []byte) bool {
			return m.Matches(string(actual))
		},
		mismatch: func(actual []byte) string {
			return Explain(m, string(actual))
		},
	}
}
