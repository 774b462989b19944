// Package fire builds HTTP requests fluently and hands their responses to
// a validator.
//
//	fire.GET(t, "http://localhost:8080/users").
//		WithQueryParameter("page", "2").
//		WithHeader("Accept", "application/json").
//		ExpectResponse().
//		HavingStatusEqualTo(200)
//
// URI parts may be given in any order and in any form: a full address, a
// bare path, or single components. Each call updates only what it names and
// the last write wins. Missing parts default to http, localhost and 8080.
//
// A request is sent once. Changing it afterwards, or a value the URI rules
// reject, fails the test at that call.
//
// RequestProcessor values package reusable configuration such as
// authentication; see the processors package.
package fire
