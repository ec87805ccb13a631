package api

import (
	"net/http"
	"sort"
	"strings"
)

// CookieHeader renders cookies as a Cookie header value, sorted by name so requests are reproducible.
func CookieHeader(cookies map[string]string) string {
	names := make([]string, 0, len(cookies))
	for name := range cookies {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+cookies[name])
	}
	return strings.Join(pairs, "; ")
}

// CommunityHeaders returns the headers every authenticated steamcommunity.com request carries.
func CommunityHeaders(cookies map[string]string, referer string) http.Header {
	headers := make(http.Header)
	if len(cookies) > 0 {
		headers.Set("Cookie", CookieHeader(cookies))
	}
	if referer != "" {
		headers.Set("Referer", referer)
	}
	return headers
}
