package match

import (
	"cmp"
	"fmt"
	"regexp"
	"strings"
)

func GreaterThan[T cmp.Ordered](bound T) Matcher[T] {
	return ordered(bound, ">", func(c int) bool { return c > 0 })
}

func GreaterOrEqual[T cmp.Ordered](bound T) Matcher[T] {
	return ordered(bound, ">=", func(c int) bool { return c >= 0 })
}

func LessThan[T cmp.Ordered](bound T) Matcher[T] {
	return ordered(bound, "<", func(c int) bool { return c < 0 })
}

func LessOrEqual[T cmp.Ordered](bound T) Matcher[T] {
	return ordered(bound, "<=", func(c int) bool { return c <= 0 })
}

// Between matches values in the closed range [lo, hi].
func Between[T cmp.Ordered](lo, hi T) Matcher[T] {
	return &funcMatcher[T]{
		description: fmt.Sprintf("between %v and %v", lo, hi),
		fn: func(actual T) bool {
			return cmp.Compare(actual, lo) >= 0 && cmp.Compare(actual, hi) <= 0
		},
	}
}

func ordered[T cmp.Ordered](bound T, op string, ok func(int) bool) Matcher[T] {
	return &funcMatcher[T]{
		description: fmt.Sprintf("%s %v", op, bound),
		fn: func(actual T) bool {
			return ok(cmp.Compare(actual, bound))
		},
	}
}

func Contains(substr string) Matcher[string] {
	return &funcMatcher[string]{
		description: "containing " + Format(substr),
		fn: func(actual string) bool {
			return strings.Contains(actual, substr)
		},
	}
}

func StartsWith(prefix string) Matcher[string] {
	return &funcMatcher[string]{
		description: "starting with " + Format(prefix),
		fn: func(actual string) bool {
			return strings.HasPrefix(actual, prefix)
		},
	}
}

func EndsWith(suffix string) Matcher[string] {
	return &funcMatcher[string]{
		description: "ending with " + Format(suffix),
		fn: func(actual string) bool {
			return strings.HasSuffix(actual, suffix)
		},
	}
}

// MatchesRegexp matches strings containing a match of pattern. Surrounding
// slashes (/.../) are stripped. An invalid pattern never matches.
func MatchesRegexp(pattern string) Matcher[string] {
	pattern = strings.TrimSuffix(strings.TrimPrefix(pattern, "/"), "/")
	re, err := regexp.Compile(pattern)
	if err != nil {
		return &funcMatcher[string]{
			description: "matching /" + pattern + "/",
			fn:          func(string) bool { return false },
			mismatch: func(string) string {
				return fmt.Sprintf("invalid regex pattern: %v", err)
			},
		}
	}
	return &funcMatcher[string]{
		description: "matching /" + pattern + "/",
		fn:          re.MatchString,
	}
}

func EqualToIgnoringCase(expected string) Matcher[string] {
	return &funcMatcher[string]{
		description: Format(expected) + " ignoring case",
		fn: func(actual string) bool {
			return strings.EqualFold(actual, expected)
		},
	}
}
