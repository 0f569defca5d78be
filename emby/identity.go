package emby

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/samber/mo"
)

// ResolveIdentity looks up the user and play session behind the access token.
// The session registered under our device id is preferred; otherwise the first
// listed session is taken as our own. The result is cached for the client's lifetime.
func (c *Client) ResolveIdentity(ctx context.Context) (Identity, error) {
	if id, ok := c.identity.Get(); ok {
		return id, nil
	}

	// Older servers only honour the auth parameters on the query string for this endpoint.
	query := url.Values{
		HeaderToken:      {c.apiKey},
		HeaderDeviceID:   {c.device.ID},
		HeaderDeviceName: {c.device.Name},
		HeaderClient:     {c.device.Client},
	}

	var sessions []sessionInfo
	if err := c.getJSON(ctx, "get sessions", c.endpoint("/Sessions", query), &sessions); err != nil {
		return Identity{}, err
	}

	if len(sessions) == 0 {
		return Identity{}, &APIError{Op: "get sessions", Err: ErrNoSession}
	}

	chosen := sessions[0]
	for _, s := range sessions {
		if s.DeviceID != "" && s.DeviceID == c.device.ID {
			chosen = s
			break
		}
	}

	id := Identity{
		UserID:        unquote(chosen.UserID),
		PlaySessionID: unquote(chosen.ID),
	}
	if id.UserID == "" {
		return Identity{}, &APIError{Op: "get sessions", Err: fmt.Errorf("%w: session %q has no UserId", ErrNoSession, id.PlaySessionID)}
	}

	c.identity = mo.Some(id)
	return id, nil
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}
