// Package link decodes handler URLs into playable addresses and recovers the media server parameters embedded in them.
package link

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/mpv-handler/mpv-handler/constant"
)

// Request is the playback target carried by a handler URL.
type Request struct {
	Media    string
	Subtitle string
}

// HasSubtitle reports whether an external subtitle was attached.
func (r Request) HasSubtitle() bool {
	return r.Subtitle != ""
}

var encoding = base64.RawURLEncoding

// Decode turns mpv://play/<media>[/?subfile=<subtitle>] into a Request.
// Both segments are URL-safe base64 without padding; trailing &-joined
// parameters belong to the outer URL and are dropped before decoding.
func Decode(handlerURL string) (Request, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(handlerURL), constant.SchemePrefix)
	if !ok {
		return Request{}, fmt.Errorf("%w: expected %q prefix", ErrInvalidScheme, constant.SchemePrefix)
	}

	mediaSegment, subtitleSegment, _ := strings.Cut(rest, constant.SubtitleDelimiter)

	media, err := decodeSegment(mediaSegment)
	if err != nil {
		return Request{}, fmt.Errorf("video URL: %w", err)
	}
	if media == "" {
		return Request{}, fmt.Errorf("video URL: %w: empty payload", ErrDecodeFailed)
	}

	subtitle, err := decodeSegment(subtitleSegment)
	if err != nil {
		return Request{}, fmt.Errorf("subtitle URL: %w", err)
	}

	return Request{Media: media, Subtitle: subtitle}, nil
}

// Encode is the inverse of Decode.
func Encode(r Request) string {
	var b strings.Builder
	b.WriteString(constant.SchemePrefix)
	b.WriteString(encoding.EncodeToString([]byte(r.Media)))
	if r.HasSubtitle() {
		b.WriteString(constant.SubtitleDelimiter)
		b.WriteString(encoding.EncodeToString([]byte(r.Subtitle)))
	}
	return b.String()
}

func decodeSegment(segment string) (string, error) {
	segment, _, _ = strings.Cut(segment, "&")

	// Browsers may percent-encode padding; '%' never occurs in the base64 alphabet.
	if strings.Contains(segment, "%") {
		if unescaped, err := url.PathUnescape(segment); err == nil {
			segment = unescaped
		}
	}

	segment = strings.TrimRight(segment, "/")
	segment = strings.TrimRight(segment, "=")
	if segment == "" {
		return "", nil
	}

	raw, err := encoding.DecodeString(segment)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	if !utf8.Valid(raw) {
		return "", ErrEncodingFailed
	}

	return string(raw), nil
}
