package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fatih/color"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
	// DefaultRetryDelay is the pause between attempts when retries are enabled
	DefaultRetryDelay = time.Second
)

// Transport executes a finalized request and captures the response.
type Transport interface {
	Do(req *Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(req *Request) (*Response, error)

func (f TransportFunc) Do(req *Request) (*Response, error) {
	return f(req)
}

// Client is the net/http backed Transport.
type Client struct {
	httpClient     *http.Client
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	validateSSL    bool
	proxyURL       string
	defaultHeaders map[string]string
	retries        int
	retryDelay     time.Duration
	trace          io.Writer
}

var _ Transport = (*Client)(nil)

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout:        DefaultTimeout,
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		validateSSL:    true,
		defaultHeaders: make(map[string]string),
		retryDelay:     DefaultRetryDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	if !c.validateSSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if c.proxyURL != "" {
		proxyURL, err := neturl.Parse(c.proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !c.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= c.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	c.httpClient = &http.Client{
		Transport:     transport,
		Timeout:       c.timeout,
		CheckRedirect: redirectPolicy,
	}

	return c
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders[key] = value
	}
}

// WithDefaultHeaders sets multiple default headers for all requests
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// WithRetries retries connection failures up to n more times. Any response,
// whatever its status, ends the attempts.
func WithRetries(n int) ClientOption {
	return func(c *Client) {
		c.retries = n
	}
}

func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithTrace writes a one-line summary of every request and response to w.
func WithTrace(w io.Writer) ClientOption {
	return func(c *Client) {
		c.trace = w
	}
}

// Do sends req. Errors from the network are returned as net/http reports
// them.
func (c *Client) Do(req *Request) (*Response, error) {
	if err := ValidateURL(req.URL); err != nil {
		return nil, err
	}

	if c.retries <= 0 {
		resp, err := c.doRequest(req)
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return nil, permanent.Err
		}
		return resp, err
	}

	var resp *Response
	attempt := func() error {
		r, err := c.doRequest(req)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}

	bo := backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), uint64(c.retries))
	if err := backoff.Retry(attempt, bo); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) doRequest(req *Request) (*Response, error) {
	ctx := context.Background()
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	for k, v := range c.defaultHeaders {
		httpReq.Header.Set(k, v)
	}

	if req.Header != nil {
		for _, name := range req.Header.Names() {
			values := req.Header.Values(name)
			if strings.EqualFold(name, "Host") {
				httpReq.Host = values[len(values)-1]
				continue
			}
			httpReq.Header.Del(name)
			for _, v := range values {
				httpReq.Header.Add(name, v)
			}
		}
	}

	c.traceRequest(req)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	duration := time.Since(start)

	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	resp := NewResponse(httpResp.StatusCode, httpResp.Header, respBody)
	resp.Status = httpResp.Status
	resp.Duration = duration

	c.traceResponse(resp)

	return resp, nil
}

func (c *Client) traceRequest(req *Request) {
	if c.trace == nil {
		return
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(c.trace, "%s %s %s\n", cyan("→"), bold(req.Method), req.URL)
}

func (c *Client) traceResponse(resp *Response) {
	if c.trace == nil {
		return
	}
	status := color.New(color.FgGreen).SprintFunc()
	switch {
	case resp.IsServerError():
		status = color.New(color.FgRed).SprintFunc()
	case resp.IsClientError():
		status = color.New(color.FgYellow).SprintFunc()
	}
	fmt.Fprintf(c.trace, "%s %s (%dms, %d bytes)\n", color.CyanString("←"), status(resp.StatusCode), resp.DurationMs(), len(resp.Body))
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https are allowed)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}
