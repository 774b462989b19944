package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/restfire/packages/auth/oauth2"
	"github.com/abdul-hamid-achik/restfire/packages/core/config"
	"github.com/abdul-hamid-achik/restfire/packages/core/env"
	"github.com/abdul-hamid-achik/restfire/packages/fire"
	"github.com/abdul-hamid-achik/restfire/packages/http"
	"github.com/abdul-hamid-achik/restfire/packages/processors"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	envFile    string
	noColor    bool
	verbose    bool
	proxy      string
	insecure   bool
	timeout    time.Duration
	retries    int
}

func (g *globalOptions) register(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVar(&g.configFile, "config", getEnvString("RESTFIRE_CONFIG", ""), "Path to config file (env: RESTFIRE_CONFIG)")
	flags.StringVar(&g.envFile, "env-file", getEnvString("RESTFIRE_ENV_FILE", ""), "Path to .env file to load (default: .env if present) (env: RESTFIRE_ENV_FILE)")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Trace requests and responses to stderr")
	flags.StringVar(&g.proxy, "proxy", "", "Proxy URL for HTTP requests")
	flags.BoolVarP(&g.insecure, "insecure", "k", false, "Disable SSL certificate validation")
	flags.DurationVar(&g.timeout, "timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flags.IntVar(&g.retries, "retries", 0, "Retry attempts on connection errors")
}

// loadConfig layers defaults, the config file, RESTFIRE_* variables and
// explicitly set flags, in that order. The .env file is exported first so
// both the config file and the variables can refer to it.
func (g *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := env.Load(g.envFile); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(g.configFile)
	if err != nil {
		return nil, err
	}

	overrides, err := env.Overrides(env.DefaultPrefix)
	if err != nil {
		return nil, err
	}
	cfg = cfg.Merge(overrides)

	flags := cmd.Flags()
	fromFlags := &config.Config{}
	if flags.Changed("timeout") {
		fromFlags.Timeout = int(g.timeout.Milliseconds())
	}
	if flags.Changed("retries") {
		fromFlags.Retries = g.retries
	}
	if flags.Changed("proxy") {
		fromFlags.Proxy = g.proxy
	}
	if flags.Changed("insecure") {
		fromFlags.ValidateSSL = config.BoolPtr(!g.insecure)
	}
	if flags.Changed("verbose") {
		fromFlags.Verbose = config.BoolPtr(g.verbose)
	}
	if flags.Changed("no-color") {
		fromFlags.NoColor = config.BoolPtr(g.noColor)
	}
	return cfg.Merge(fromFlags), nil
}

// requestOptions describe the request check and bench send.
type requestOptions struct {
	method      string
	headers     []string
	query       []string
	data        string
	dataFile    string
	bearer      string
	basic       string
	apiKey      string
	requestID   string
	awsAccess   string
	awsSecret   string
	awsRegion   string
	awsService  string
	digest      string
	oauthURL    string
	oauthID     string
	oauthSecret string
	oauthScopes []string
}

func (o *requestOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.method, "request", "X", "GET", "HTTP method")
	flags.StringArrayVarP(&o.headers, "header", "H", nil, `Request header "Name: value" (repeatable)`)
	flags.StringArrayVarP(&o.query, "query", "q", nil, `Query parameter "name=value" (repeatable)`)
	flags.StringVarP(&o.data, "data", "d", "", "Request body")
	flags.StringVar(&o.dataFile, "data-file", "", "Read the request body from a file")
	flags.StringVar(&o.bearer, "bearer", "", "Bearer token for the Authorization header")
	flags.StringVarP(&o.basic, "user", "u", "", `Basic auth credentials "user:password"`)
	flags.StringVar(&o.apiKey, "api-key", "", `API key header "Name: key"`)
	flags.StringVar(&o.requestID, "request-id", "", "Send a fresh UUID in this header on every request")
	flags.StringVar(&o.digest, "digest", "", `Digest auth credentials "user:password"`)
	flags.StringVar(&o.awsAccess, "aws-access-key", getEnvString("AWS_ACCESS_KEY_ID", ""), "AWS access key for Signature V4 (env: AWS_ACCESS_KEY_ID)")
	flags.StringVar(&o.awsSecret, "aws-secret-key", getEnvString("AWS_SECRET_ACCESS_KEY", ""), "AWS secret key for Signature V4 (env: AWS_SECRET_ACCESS_KEY)")
	flags.StringVar(&o.awsRegion, "aws-region", getEnvString("AWS_REGION", ""), "AWS region; enables Signature V4 signing (env: AWS_REGION)")
	flags.StringVar(&o.awsService, "aws-service", "execute-api", "AWS service name for Signature V4")
	flags.StringVar(&o.oauthURL, "oauth2-token-url", "", "OAuth2 token endpoint (client credentials grant)")
	flags.StringVar(&o.oauthID, "oauth2-client-id", getEnvString("RESTFIRE_OAUTH2_CLIENT_ID", ""), "OAuth2 client ID (env: RESTFIRE_OAUTH2_CLIENT_ID)")
	flags.StringVar(&o.oauthSecret, "oauth2-client-secret", getEnvString("RESTFIRE_OAUTH2_CLIENT_SECRET", ""), "OAuth2 client secret (env: RESTFIRE_OAUTH2_CLIENT_SECRET)")
	flags.StringSliceVar(&o.oauthScopes, "oauth2-scope", nil, "OAuth2 scopes (comma-separated)")
}

// transport wraps base with the authentication schemes that need to see
// the finalized request.
func (o *requestOptions) transport(base http.Transport) (http.Transport, error) {
	t := base
	if o.digest != "" {
		user, pass, ok := strings.Cut(o.digest, ":")
		if !ok {
			return nil, fmt.Errorf("invalid --digest %q: expected user:password", o.digest)
		}
		t = http.WithDigestAuth(t, user, pass)
	}
	if o.awsRegion != "" {
		if o.awsAccess == "" || o.awsSecret == "" {
			return nil, fmt.Errorf("AWS signing needs --aws-access-key and --aws-secret-key")
		}
		t = http.WithAWSSignature(t, http.AWSCredentials{
			AccessKey: o.awsAccess,
			SecretKey: o.awsSecret,
			Region:    o.awsRegion,
			Service:   o.awsService,
		})
	}
	return t, nil
}

// processors turns the request flags into processors applied in flag
// order after the configured base address.
func (o *requestOptions) processors(transport http.Transport) ([]fire.RequestProcessor, error) {
	var procs []fire.RequestProcessor

	var pairs []string
	for _, h := range o.headers {
		name, value, err := splitHeader(h)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, name, value)
	}
	if len(pairs) > 0 {
		procs = append(procs, processors.Headers(pairs...))
	}

	for _, q := range o.query {
		name, value, _ := strings.Cut(q, "=")
		procs = append(procs, func(r *fire.Target) { r.WithQueryParameter(name, value) })
	}

	if o.basic != "" {
		user, pass, ok := strings.Cut(o.basic, ":")
		if !ok {
			return nil, fmt.Errorf("invalid --user %q: expected user:password", o.basic)
		}
		procs = append(procs, processors.BasicAuth(user, pass))
	}
	if o.bearer != "" {
		procs = append(procs, processors.BearerToken(o.bearer))
	}
	if o.apiKey != "" {
		name, key, err := splitHeader(o.apiKey)
		if err != nil {
			return nil, err
		}
		procs = append(procs, processors.APIKey(name, key))
	}
	if o.oauthURL != "" {
		provider := oauth2.NewProvider(&oauth2.Config{
			TokenURL:     o.oauthURL,
			ClientID:     o.oauthID,
			ClientSecret: o.oauthSecret,
			Scopes:       o.oauthScopes,
			GrantType:    oauth2.ClientCredentials,
		}, oauth2.WithTransport(transport))
		procs = append(procs, processors.OAuth2(provider))
	}
	if o.requestID != "" {
		procs = append(procs, processors.RequestID(o.requestID))
	}

	body, err := o.body()
	if err != nil {
		return nil, err
	}
	if body != nil {
		procs = append(procs, func(r *fire.Target) { r.WithBody(body) })
	}
	return procs, nil
}

func (o *requestOptions) body() ([]byte, error) {
	if o.dataFile != "" {
		data, err := os.ReadFile(o.dataFile)
		if err != nil {
			return nil, fmt.Errorf("cannot read body file: %w", err)
		}
		return data, nil
	}
	if o.data != "" {
		return []byte(o.data), nil
	}
	return nil, nil
}

// client builds a Fire for cfg with the request flags applied to every
// request sent to address.
func (o *requestOptions) client(cfg *config.Config, address string) (*fire.Fire, error) {
	transport, err := o.transport(http.NewClient(cfg.ClientOptions()...))
	if err != nil {
		return nil, err
	}
	procs, err := o.processors(transport)
	if err != nil {
		return nil, err
	}

	var defaults []fire.RequestProcessor
	if cfg.BaseURL != "" {
		defaults = append(defaults, processors.BaseAddress(cfg.BaseURL))
	}
	method := o.method
	defaults = append(defaults, func(r *fire.Target) { r.WithMethod(method) })
	if address != "" {
		defaults = append(defaults, processors.BaseAddress(address))
	}
	defaults = append(defaults, procs...)
	return fire.New(transport, defaults...), nil
}

func splitHeader(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("invalid header %q: expected \"Name: value\"", s)
	}
	return name, strings.TrimSpace(value), nil
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
