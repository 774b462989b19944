// Package processors holds reusable request configuration.
//
// Each function returns a fire.RequestProcessor that can be passed to With
// on any builder, or to fire.New so every request starts with it:
//
//	api := fire.New(client, processors.BaseAddress("https://api.example.com"), processors.BearerToken(token))
//	api.GET(t, "/me").ExpectResponse().HavingStatusEqualTo(200)
package processors
