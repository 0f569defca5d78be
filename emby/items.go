package emby

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mpv-handler/mpv-handler/ticks"
)

// Item types with a dedicated title format.
const (
	TypeEpisode = "Episode"
	TypeMovie   = "Movie"
)

// ResumePosition returns the user's saved position for itemID, 0 for items never played.
func (c *Client) ResumePosition(ctx context.Context, itemID string) (ticks.Ticks, error) {
	id, err := c.ResolveIdentity(ctx)
	if err != nil {
		return 0, err
	}

	var resp itemsResponse
	target := c.endpoint("/Users/"+url.PathEscape(id.UserID)+"/Items", url.Values{"Ids": {itemID}})
	if err := c.getJSON(ctx, "get resume position", target, &resp); err != nil {
		return 0, err
	}

	if len(resp.Items) == 0 {
		return 0, nil
	}

	return resp.Items[0].UserData.positionTicks(), nil
}

// ChapterTitle renders the window title for itemID.
// Episodes read "{series} - S{season}E{episode} - {title}", movies use their name and anything else is empty.
func (c *Client) ChapterTitle(ctx context.Context, itemID string) (string, error) {
	var resp itemsResponse
	if err := c.getJSON(ctx, "get item", c.endpoint("/Items", url.Values{"Ids": {itemID}}), &resp); err != nil {
		return "", err
	}

	if len(resp.Items) == 0 {
		return "", nil
	}

	return title(resp.Items[0]), nil
}

func title(it item) string {
	switch it.Type {
	case TypeEpisode:
		return fmt.Sprintf("%s - S%sE%s - %s", it.SeriesName, number(it.ParentIndexNumber), number(it.IndexNumber), it.Name)
	case TypeMovie:
		return it.Name
	default:
		return ""
	}
}

func number(n *int) string {
	if n == nil {
		return "?"
	}
	return fmt.Sprint(*n)
}
