package oauth2

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/restfire/packages/http"
)

// GrantType represents the OAuth2 grant type
type GrantType string

const (
	ClientCredentials GrantType = "client_credentials"
	// Password is the resource owner password grant
	Password     GrantType = "password"
	RefreshToken GrantType = "refresh_token"
)

// expirySkew is subtracted from a token's lifetime to absorb clock skew.
const expirySkew = 30 * time.Second

var ErrMissingTokenURL = errors.New("oauth2: token URL is required")

// Config holds OAuth2 configuration
type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Username     string // For password grant
	Password     string // For password grant
	GrantType    GrantType
}

// Validate reports settings a token request cannot be made with.
func (c *Config) Validate() error {
	if c.TokenURL == "" {
		return ErrMissingTokenURL
	}
	switch c.GrantType {
	case "", ClientCredentials:
		return nil
	case Password:
		if c.Username == "" {
			return fmt.Errorf("oauth2: password grant requires a username")
		}
		return nil
	default:
		return fmt.Errorf("oauth2: unsupported grant type: %s", c.GrantType)
	}
}

// Token represents an OAuth2 access token
type Token struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	ExpiresAt    time.Time `json:"-"`
}

// IsExpired reports whether the token is expired or about to be.
func (t *Token) IsExpired() bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().Add(expirySkew).After(t.ExpiresAt)
}

// AuthorizationValue is the Authorization header value for the token.
func (t *Token) AuthorizationValue() string {
	tokenType := t.TokenType
	if tokenType == "" || strings.EqualFold(tokenType, "bearer") {
		tokenType = "Bearer"
	}
	return tokenType + " " + t.AccessToken
}

// Provider fetches tokens and reuses them until they expire.
type Provider struct {
	config    *Config
	transport http.Transport
	cache     *TokenCache
	mu        sync.Mutex
}

type ProviderOption func(*Provider)

// WithTransport sends token requests through t instead of a default client.
func WithTransport(t http.Transport) ProviderOption {
	return func(p *Provider) {
		p.transport = t
	}
}

func WithCache(c *TokenCache) ProviderOption {
	return func(p *Provider) {
		p.cache = c
	}
}

func NewProvider(config *Config, opts ...ProviderOption) *Provider {
	p := &Provider{
		config: config,
		cache:  SharedCache,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.transport == nil {
		p.transport = http.NewClient(http.WithTimeout(30 * time.Second))
	}
	return p
}

// GetToken returns a cached token while it is valid. An expired token is
// refreshed when it carries a refresh token, otherwise a new one is fetched.
func (p *Provider) GetToken() (*Token, error) {
	if err := p.config.Validate(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cacheKey := p.cacheKey()
	cached := p.cache.Get(cacheKey)
	if cached != nil && !cached.IsExpired() {
		return cached, nil
	}

	var (
		token *Token
		err   error
	)
	if cached != nil && cached.RefreshToken != "" {
		token, err = p.RefreshAccessToken(cached.RefreshToken)
	}
	if token == nil {
		token, err = p.fetchToken()
	}
	if err != nil {
		p.cache.Delete(cacheKey)
		return nil, err
	}

	p.cache.Set(cacheKey, token)
	return token, nil
}

// Invalidate drops the cached token so the next GetToken fetches a new one.
func (p *Provider) Invalidate() {
	p.cache.Delete(p.cacheKey())
}

func (p *Provider) cacheKey() string {
	return fmt.Sprintf("%s:%s:%s:%s", p.config.TokenURL, p.config.ClientID, p.config.Username, strings.Join(p.config.Scopes, ","))
}

func (p *Provider) fetchToken() (*Token, error) {
	data := url.Values{}
	switch p.config.GrantType {
	case Password:
		data.Set("grant_type", string(Password))
		data.Set("username", p.config.Username)
		data.Set("password", p.config.Password)
	default:
		data.Set("grant_type", string(ClientCredentials))
	}
	if len(p.config.Scopes) > 0 {
		data.Set("scope", strings.Join(p.config.Scopes, " "))
	}
	return p.doTokenRequest(data)
}

// RefreshAccessToken exchanges a refresh token for a new access token
func (p *Provider) RefreshAccessToken(refreshToken string) (*Token, error) {
	data := url.Values{}
	data.Set("grant_type", string(RefreshToken))
	data.Set("refresh_token", refreshToken)
	return p.doTokenRequest(data)
}

func (p *Provider) doTokenRequest(data url.Values) (*Token, error) {
	req := http.NewRequest("POST", p.config.TokenURL)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Body = []byte(data.Encode())

	if p.config.ClientID != "" && p.config.ClientSecret != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(p.config.ClientID + ":" + p.config.ClientSecret))
		req.Header.Set("Authorization", "Basic "+auth)
	}

	resp, err := p.transport.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}

	if resp.StatusCode != 200 {
		var errResp struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		if json.Unmarshal(resp.Body, &errResp) == nil && errResp.Error != "" {
			return nil, fmt.Errorf("token request failed: %s - %s", errResp.Error, errResp.ErrorDescription)
		}
		return nil, fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, resp.BodyString())
	}

	var token Token
	if err := json.Unmarshal(resp.Body, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response has no access_token")
	}
	if token.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}
	return &token, nil
}
