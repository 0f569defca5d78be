// Package network builds the single HTTP client shared by every media server call in a session.
package network

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Options configure the shared client. They are read once at startup.
type Options struct {
	// Proxy is an optional proxy URL applied to every request.
	Proxy string
	// UserAgent is sent when a request does not set its own.
	UserAgent string
	// Timeout bounds a single request, including reading the body.
	Timeout time.Duration
	// Fingerprint presents a browser TLS ClientHello instead of Go's.
	Fingerprint bool
}

// New returns a client configured from opts. Callers must keep and reuse it for connection reuse.
func New(opts Options) (*http.Client, error) {
	var proxy func(*http.Request) (*url.URL, error)
	if p := strings.TrimSpace(opts.Proxy); p != "" {
		u, err := url.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("parse proxy %q: %w", p, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("parse proxy %q: scheme and host are required", p)
		}
		proxy = http.ProxyURL(u)
	}

	var base http.RoundTripper
	if opts.Fingerprint {
		base = newFingerprintTransport(proxy)
	} else {
		base = newTransport(proxy)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &userAgentTransport{
			base:      base,
			userAgent: opts.UserAgent,
		},
	}, nil
}

// newTransport initializes a tuned http.Transport for a handful of sequential requests to one host.
func newTransport(proxy func(*http.Request) (*url.URL, error)) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = proxy
	t.MaxIdleConns = 4
	t.MaxIdleConnsPerHost = 4
	t.IdleConnTimeout = 90 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = time.Second
	return t
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" || req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}

	// RoundTrippers must not mutate the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(clone)
}
