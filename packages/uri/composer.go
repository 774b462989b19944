package uri

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultScheme = "http"
	DefaultHost   = "localhost"
	DefaultPort   = 8080
)

// Slot names one independently tracked URI fragment.
type Slot int

const (
	SlotScheme Slot = iota
	SlotHost
	SlotPort
	SlotPath
	SlotFragment
)

func (s Slot) String() string {
	switch s {
	case SlotScheme:
		return "scheme"
	case SlotHost:
		return "host"
	case SlotPort:
		return "port"
	case SlotPath:
		return "path"
	case SlotFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// QueryParam is a single name/value pair of the query string.
type QueryParam struct {
	Name  string
	Value string
}

// Composer accumulates URI fragments and merges them into one absolute URI.
// The zero value is not usable; call New.
type Composer struct {
	slots map[Slot]string
	query []QueryParam
	// rawPath is the escaped form of the path slot when the address that
	// wrote it used an encoding net/url would not produce, e.g. "a%2Fb".
	rawPath string
}

func New() *Composer {
	return &Composer{
		slots: make(map[Slot]string),
	}
}

// Get returns the value written to slot and whether any setter wrote it.
func (c *Composer) Get(slot Slot) (string, bool) {
	v, ok := c.slots[slot]
	return v, ok
}

// QueryParameters returns a copy of the accumulated query parameters.
func (c *Composer) QueryParameters() []QueryParam {
	out := make([]QueryParam, len(c.query))
	copy(out, c.query)
	return out
}

func (c *Composer) WithScheme(scheme string) error {
	s, err := validateScheme(scheme)
	if err != nil {
		return err
	}
	c.slots[SlotScheme] = s
	return nil
}

func (c *Composer) WithHost(host string) error {
	h, err := validateHost(host)
	if err != nil {
		return err
	}
	c.slots[SlotHost] = h
	return nil
}

func (c *Composer) WithPort(port int) error {
	if port < 1 || port > 65535 {
		return configError("port", port, ErrInvalidPort)
	}
	c.slots[SlotPort] = strconv.Itoa(port)
	return nil
}

// WithPath sets the path slot. An empty path finalizes to "/".
func (c *Composer) WithPath(path string) error {
	c.slots[SlotPath] = path
	c.rawPath = ""
	return nil
}

// WithFragment sets the fragment slot. An empty fragment is omitted from the
// final URI.
func (c *Composer) WithFragment(fragment string) error {
	c.slots[SlotFragment] = fragment
	return nil
}

func (c *Composer) WithQueryParameter(name, value string) error {
	c.query = append(c.query, QueryParam{Name: name, Value: value})
	return nil
}

// To merges a whole address into the slots. Only the components present in
// address are written; query parameters it carries are appended.
func (c *Composer) To(address string) error {
	u, err := url.Parse(address)
	if err != nil {
		return configError("URI", address, fmt.Errorf("%w: %v", ErrMalformedURI, err))
	}
	return c.merge(address, u)
}

// WithURI is an alias of To kept for callers that think in whole URIs.
func (c *Composer) WithURI(uri string) error {
	return c.To(uri)
}

// ToURL merges a parsed address with the same rules as To.
func (c *Composer) ToURL(u *url.URL) error {
	if u == nil {
		return configError("URI", "<nil>", ErrMalformedURI)
	}
	return c.merge(u.String(), u)
}

func (c *Composer) merge(raw string, u *url.URL) error {
	if u.Opaque != "" {
		return configError("URI", raw, fmt.Errorf("%w: missing // before host", ErrMalformedURI))
	}
	if u.User != nil {
		return configError("URI", u.Redacted(), ErrUserInfo)
	}

	// Validate everything before touching a slot so a rejected address
	// leaves the composer unchanged.
	updates := make(map[Slot]string)
	if u.Scheme != "" {
		s, err := validateScheme(u.Scheme)
		if err != nil {
			return err
		}
		updates[SlotScheme] = s
	}
	if h := u.Hostname(); h != "" {
		updates[SlotHost] = h
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 65535 {
			return configError("port", p, ErrInvalidPort)
		}
		updates[SlotPort] = strconv.Itoa(n)
	}
	rawPath := ""
	if u.Path != "" {
		updates[SlotPath] = u.Path
		rawPath = u.RawPath
	}
	if u.Fragment != "" {
		updates[SlotFragment] = u.Fragment
	}
	query, err := parseQuery(u.RawQuery)
	if err != nil {
		return configError("query", u.RawQuery, fmt.Errorf("%w: %v", ErrMalformedURI, err))
	}

	for slot, v := range updates {
		c.slots[slot] = v
	}
	if _, ok := updates[SlotPath]; ok {
		c.rawPath = rawPath
	}
	c.query = append(c.query, query...)
	return nil
}

// FinalizeURI builds the absolute URI from the current slots. It has no side
// effects and returns the same value until another setter is called.
func (c *Composer) FinalizeURI() string {
	return c.URL().String()
}

// URL returns a freshly built *url.URL for the current slots.
func (c *Composer) URL() *url.URL {
	scheme := c.valueOr(SlotScheme, DefaultScheme)
	host := c.valueOr(SlotHost, DefaultHost)
	port := c.valueOr(SlotPort, strconv.Itoa(DefaultPort))

	path, rawPath := c.slots[SlotPath], c.rawPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
		if rawPath != "" {
			rawPath = "/" + rawPath
		}
	}

	return &url.URL{
		Scheme:   scheme,
		Host:     net.JoinHostPort(host, port),
		Path:     path,
		RawPath:  rawPath,
		RawQuery: encodeQuery(c.query),
		Fragment: c.slots[SlotFragment],
	}
}

func (c *Composer) valueOr(slot Slot, def string) string {
	if v, ok := c.slots[slot]; ok {
		return v
	}
	return def
}

func validateScheme(scheme string) (string, error) {
	if scheme == "" {
		return "", configError("scheme", scheme, ErrEmptyComponent)
	}
	for i, r := range scheme {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && ('0' <= r && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return "", configError("scheme", scheme, ErrMalformedURI)
		}
	}
	return strings.ToLower(scheme), nil
}

func validateHost(host string) (string, error) {
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if host == "" {
		return "", configError("host", host, ErrEmptyComponent)
	}
	if strings.ContainsAny(host, "/?#@ ") {
		return "", configError("host", host, ErrMalformedURI)
	}
	// Only an IPv6 literal may carry colons; "name:port" belongs in WithPort.
	if strings.Contains(host, ":") && net.ParseIP(host) == nil {
		return "", configError("host", host, ErrMalformedURI)
	}
	return host, nil
}

// parseQuery splits a raw query string keeping order and duplicates, which
// url.ParseQuery does not.
func parseQuery(raw string) ([]QueryParam, error) {
	if raw == "" {
		return nil, nil
	}
	var params []QueryParam
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		n, err := url.QueryUnescape(name)
		if err != nil {
			return nil, err
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			return nil, err
		}
		params = append(params, QueryParam{Name: n, Value: v})
	}
	return params, nil
}

func encodeQuery(params []QueryParam) string {
	if len(params) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
