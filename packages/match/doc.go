// Package match provides composable, self-describing predicates used to
// validate response properties.
//
// A Matcher reports whether a value matches and describes what it expects,
// so a failed check can print both sides:
//
//	m := match.AllOf(match.GreaterOrEqual(200), match.LessThan(300))
//	m.Matches(404)          // false
//	m.String()              // "(>= 200) and (< 300)"
//	match.Explain(m, 404)   // "< 300 was 404"
//
// Body matchers work on text. JSONPath, JSONEqual and JSONSchema inspect
// JSON documents; Value, Number, OfType and Items apply to the decoded
// values JSONPath extracts.
package match
