package places

import (
	"net/url"
	"regexp"
)

var cursorPattern = regexp.MustCompile(`cursor=([^&>;\s]+)`)

// ParseNextCursor extracts the continuation cursor from a link header such as
//
//	<https://api.foursquare.com/v3/places/search?cursor=abc&fields=...>; rel="next"
//
// It returns an empty string when the header is empty or carries no cursor.
func ParseNextCursor(link string) string {
	if link == "" {
		return ""
	}
	m := cursorPattern.FindStringSubmatch(link)
	if len(m) < 2 {
		return ""
	}
	if decoded, err := url.QueryUnescape(m[1]); err == nil {
		return decoded
	}
	return m[1]
}
