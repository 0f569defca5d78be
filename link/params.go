package link

import (
	"net/url"
	"regexp"

	"github.com/mpv-handler/mpv-handler/util"
)

// Params identify the item being played and authorize calls against its server.
type Params struct {
	Host          string
	ItemID        string
	MediaSourceID string
	APIKey        string
}

// Query parameter names on Emby stream URLs.
const (
	apiKeyParam        = "api_key"
	mediaSourceIDParam = "MediaSourceId"
)

var itemPathPattern = regexp.MustCompile(`(?i)/videos/([^/]+)/`)

// loosePattern recovers all four fields in one pass from addresses net/url refuses to parse.
// The two alternatives accept api_key and MediaSourceId in either order.
var loosePattern = regexp.MustCompile(
	`^(?P<host>[A-Za-z][A-Za-z0-9+.\-]*://[^/?#]+)(?:/[^?#]*?)?/(?i:videos)/(?P<item>[^/?#]+)/.*?[?&]` +
		`(?:api_key=(?P<key>[^&#]*).*?[?&]MediaSourceId=(?P<source>[^&#]*)` +
		`|MediaSourceId=(?P<source2>[^&#]*).*?[?&]api_key=(?P<key2>[^&#]*))`,
)

// ExtractParams recovers the session parameters from a decoded media URL.
// A structured parse is tried first; the regular-expression fallback only
// applies when it fails. Every field is mandatory.
func ExtractParams(mediaURL string) (Params, error) {
	params, err := extractStructured(mediaURL)
	if err == nil {
		return params, nil
	}

	if loose, ok := extractLoose(mediaURL); ok {
		return loose, nil
	}

	return Params{}, err
}

func extractStructured(mediaURL string) (Params, error) {
	u, err := url.Parse(mediaURL)
	if err != nil {
		return Params{}, &FieldError{Field: "host", Err: err}
	}

	if u.Scheme == "" || u.Host == "" {
		return Params{}, &FieldError{Field: "host"}
	}

	var itemID string
	if m := itemPathPattern.FindStringSubmatch(u.Path); m != nil {
		itemID = m[1]
	}

	query := u.Query()
	params := Params{
		// u.Host keeps the port; Hostname() would drop it.
		Host:          u.Scheme + "://" + u.Host,
		ItemID:        itemID,
		MediaSourceID: query.Get(mediaSourceIDParam),
		APIKey:        query.Get(apiKeyParam),
	}

	if err := params.Validate(); err != nil {
		return Params{}, err
	}

	return params, nil
}

func extractLoose(mediaURL string) (Params, bool) {
	groups := util.ReGroups(loosePattern, mediaURL)
	if len(groups) == 0 {
		return Params{}, false
	}

	params := Params{
		Host:          groups["host"],
		ItemID:        unescape(groups["item"]),
		MediaSourceID: unescape(util.FirstNonEmpty(groups["source"], groups["source2"])),
		APIKey:        unescape(util.FirstNonEmpty(groups["key"], groups["key2"])),
	}

	return params, params.Validate() == nil
}

// Validate reports the first empty field.
func (p Params) Validate() error {
	switch {
	case p.Host == "":
		return &FieldError{Field: "host"}
	case p.ItemID == "":
		return &FieldError{Field: "ItemId"}
	case p.APIKey == "":
		return &FieldError{Field: apiKeyParam}
	case p.MediaSourceID == "":
		return &FieldError{Field: mediaSourceIDParam}
	}
	return nil
}

func unescape(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}
