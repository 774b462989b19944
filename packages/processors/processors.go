package processors

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/abdul-hamid-achik/restfire/packages/auth/oauth2"
	"github.com/abdul-hamid-achik/restfire/packages/fire"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// BaseAddress merges address into the URI, so later calls only need to
// name what differs.
func BaseAddress(address string) fire.RequestProcessor {
	return func(r *fire.Target) {
		r.To(address)
	}
}

// Headers appends each header in order. Pairs are name, value; an odd
// count fails the test.
func Headers(pairs ...string) fire.RequestProcessor {
	return func(r *fire.Target) {
		if len(pairs)%2 != 0 {
			require.Fail(r.T(), fmt.Sprintf("Headers needs name/value pairs, got %d arguments", len(pairs)), "header %q has no value", pairs[len(pairs)-1])
			return
		}
		for i := 0; i+1 < len(pairs); i += 2 {
			r.WithHeader(pairs[i], pairs[i+1])
		}
	}
}

func BasicAuth(username, password string) fire.RequestProcessor {
	return func(r *fire.Target) {
		auth := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		r.SetHeader("Authorization", "Basic "+auth)
	}
}

func BearerToken(token string) fire.RequestProcessor {
	return func(r *fire.Target) {
		r.SetHeader("Authorization", "Bearer "+token)
	}
}

// APIKey sends key in the named header.
func APIKey(header, key string) fire.RequestProcessor {
	return func(r *fire.Target) {
		r.SetHeader(header, key)
	}
}

// APIKeyQuery sends key as a query parameter.
func APIKeyQuery(param, key string) fire.RequestProcessor {
	return func(r *fire.Target) {
		r.WithQueryParameter(param, key)
	}
}

// RequestID sets header to a fresh random UUID on every request it is
// applied to.
func RequestID(header string) fire.RequestProcessor {
	return func(r *fire.Target) {
		r.SetHeader(header, uuid.NewString())
	}
}

// JSONBody marshals v as the body and sets Content-Type.
func JSONBody(v any) fire.RequestProcessor {
	return func(r *fire.Target) {
		data, err := json.Marshal(v)
		require.NoError(r.T(), err, "marshal JSON body")
		r.SetHeader("Content-Type", "application/json")
		r.WithBody(data)
	}
}

// OAuth2 authorizes the request with a token from provider. Failing to get
// a token fails the test.
func OAuth2(provider *oauth2.Provider) fire.RequestProcessor {
	return func(r *fire.Target) {
		token, err := provider.GetToken()
		require.NoError(r.T(), err, "obtain OAuth2 token")
		r.SetHeader("Authorization", token.AuthorizationValue())
	}
}

// Chain combines processors into one, applied in order.
func Chain(processors ...fire.RequestProcessor) fire.RequestProcessor {
	return func(r *fire.Target) {
		r.With(processors...)
	}
}
