package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const dialTimeout = 15 * time.Second

// fingerprintTransport mimics Chrome's ClientHello. Servers behind anti-bot CDNs reject Go's default one.
// HTTP/2 is attempted first; on failure the request is retried over HTTP/1.1.
// A configured proxy forces HTTP/1.1 since http2.Transport cannot tunnel.
type fingerprintTransport struct {
	h2 *http2.Transport
	h1 *http.Transport
}

func newFingerprintTransport(proxy func(*http.Request) (*url.URL, error)) *fingerprintTransport {
	t := &fingerprintTransport{
		h1: &http.Transport{
			Proxy: proxy,
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialTLS(ctx, network, addr, []string{"http/1.1"})
			},
			IdleConnTimeout:       90 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
		},
	}

	if proxy == nil {
		t.h2 = &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr, []string{"h2"})
			},
		}
	}

	return t
}

func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.h2 == nil || req.URL.Scheme != "https" {
		return t.h1.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	retry := req
	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			return nil, err
		}
		body, berr := req.GetBody()
		if berr != nil {
			return nil, err
		}
		retry = req.Clone(req.Context())
		retry.Body = body
	}

	return t.h1.RoundTrip(retry)
}

func dialTLS(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	// The Chrome preset fixes its own ALPN list, so the server may still pick h2.
	if negotiated := tlsConn.ConnectionState().NegotiatedProtocol; len(protos) == 1 && negotiated != "" && negotiated != protos[0] {
		tlsConn.Close()
		return nil, fmt.Errorf("tls handshake: server negotiated %q, want %q", negotiated, protos[0])
	}

	return tlsConn, nil
}
