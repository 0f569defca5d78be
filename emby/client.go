// Package emby implements the subset of the Emby session API a playback client needs:
// identity resolution, resume position, item metadata and playback status reports.
package emby

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mpv-handler/mpv-handler/link"
	"github.com/mpv-handler/mpv-handler/util"
	"github.com/samber/mo"
)

// Header names of the Emby authorization contract.
const (
	HeaderToken      = "X-Emby-Token"
	HeaderDeviceID   = "X-Emby-Device-Id"
	HeaderDeviceName = "X-Emby-Device-Name"
	HeaderClient     = "X-Emby-Client"
	HeaderUserID     = "X-Emby-User-Id"
)

// Device is the identity this process presents to the server.
type Device struct {
	ID     string
	Name   string
	Client string
}

// Options configure a Client.
type Options struct {
	// BasePath prefixes every API path, "/emby" on stock servers.
	BasePath string
	Device   Device
}

// Client talks to one server on behalf of one access token.
// It is not safe for concurrent use; a session drives it from a single goroutine.
type Client struct {
	http     *http.Client
	host     string
	apiKey   string
	basePath string
	device   Device
	identity mo.Option[Identity]
}

// New binds a client to the server and token found in params.
// The http client is shared and never rebuilt.
func New(httpClient *http.Client, params link.Params, opts Options) *Client {
	basePath := strings.TrimRight(opts.BasePath, "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}

	return &Client{
		http:     httpClient,
		host:     strings.TrimRight(params.Host, "/"),
		apiKey:   params.APIKey,
		basePath: basePath,
		device:   opts.Device,
		identity: mo.None[Identity](),
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.host + c.basePath + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) setHeaders(h http.Header) {
	h.Set(HeaderToken, c.apiKey)
	h.Set(HeaderDeviceID, c.device.ID)
	h.Set(HeaderDeviceName, c.device.Name)
	h.Set(HeaderClient, c.device.Client)
	if id, ok := c.identity.Get(); ok {
		h.Set(HeaderUserID, id.UserID)
	}
	h.Set("Accept", "application/json")
}

// do sends a request and returns the response when it is 2xx. The caller closes the body.
func (c *Client) do(ctx context.Context, op, method, target string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Op: op, Err: fmt.Errorf("marshal: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &APIError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	c.setHeaders(req.Header)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer util.Ignore(resp.Body.Close)
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, &APIError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, op, target string, out any) error {
	resp, err := c.do(ctx, op, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	defer util.Ignore(resp.Body.Close)

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
