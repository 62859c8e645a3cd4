// Package httpclient provides the HTTP client used to fetch remote
// snapshots. Requests to loopback, private and other special-use addresses
// are refused unless explicitly allowed, both before the request and again
// at dial time so DNS answers cannot redirect it.
package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/teranos/tagweb/errors"
)

// ErrBlocked marks requests refused by the address policy
var ErrBlocked = errors.New("request blocked")

// Options configures a Client
type Options struct {
	Timeout      time.Duration // Whole-request timeout (default: 15s)
	MaxRedirects int           // Default: 5
	AllowPrivate bool          // Permit loopback and private networks
}

// Client is an http.Client with an address policy
type Client struct {
	http *http.Client
	opts Options
}

// specialPrefixes are blocked on top of what netip classifies as private,
// loopback, link-local, multicast or unspecified
var specialPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"), // carrier-grade NAT
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("fec0::/10"), // deprecated site-local
	netip.MustParsePrefix("2001:db8::/32"),
}

// New creates a client. The zero Options value gives the strict defaults.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = 5
	}

	c := &Client{opts: opts}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !opts.AllowPrivate {
		dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, errors.Wrap(err, "invalid address")
			}
			addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to resolve host %q", host)
			}
			for _, a := range addrs {
				if IsBlockedAddr(a) {
					return nil, errors.Wrapf(ErrBlocked, "%s resolves to %s", host, a)
				}
			}
			// Dial the checked address, not the name, so a second lookup cannot differ
			return dialer.DialContext(ctx, network, net.JoinHostPort(addrs[0].String(), port))
		}
	}

	c.http = &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= c.opts.MaxRedirects {
				return errors.Newf("stopped after %d redirects", c.opts.MaxRedirects)
			}
			return errors.Wrap(c.check(req.URL), "redirect refused")
		},
	}
	return c
}

// ValidateURL parses raw and applies the scheme and host policy
func (c *Client) ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "invalid URL")
	}
	if err := c.check(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Client) check(u *url.URL) error {
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return errors.WithHint(
			errors.Wrapf(ErrBlocked, "scheme %q", u.Scheme),
			"only http and https snapshot URLs are supported")
	}
	if u.User != nil {
		return errors.Wrap(ErrBlocked, "URL carries credentials")
	}
	host := u.Hostname()
	if host == "" {
		return errors.New("URL missing hostname")
	}
	if c.opts.AllowPrivate {
		return nil
	}

	if isLocalhost(host) {
		return errors.WithHint(
			errors.Wrapf(ErrBlocked, "host %q", host),
			"set fetch.allow_private_hosts = true to fetch from this machine")
	}
	if a, err := netip.ParseAddr(host); err == nil && IsBlockedAddr(a) {
		return errors.WithHint(
			errors.Wrapf(ErrBlocked, "address %s", a),
			"set fetch.allow_private_hosts = true to fetch from private networks")
	}
	return nil
}

// Get issues a GET request for raw after validating it
func (c *Client) Get(ctx context.Context, raw string) (*http.Response, error) {
	u, err := c.ValidateURL(raw)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json, application/yaml, application/toml;q=0.9, */*;q=0.5")
	return c.http.Do(req)
}

// IsBlockedAddr reports whether a is loopback, private or otherwise not a
// public unicast address
func IsBlockedAddr(a netip.Addr) bool {
	a = a.Unmap()
	if a.IsLoopback() || a.IsPrivate() || a.IsLinkLocalUnicast() ||
		a.IsLinkLocalMulticast() || a.IsMulticast() || a.IsUnspecified() {
		return true
	}
	return slices.ContainsFunc(specialPrefixes, func(p netip.Prefix) bool { return p.Contains(a) })
}

func isLocalhost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	return host == "localhost" || host == "localhost.localdomain" || strings.HasSuffix(host, ".localhost")
}
