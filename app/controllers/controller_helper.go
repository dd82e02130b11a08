package controllers

import (
	"net/url"
	"strings"
)

// safeRedirectTarget keeps round-trip redirects on-site. Anything absolute
// or protocol-relative falls back to the home route.
func safeRedirectTarget(target, fallback string) string {
	if target == "" {
		return fallback
	}
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}
	return target
}

// withQuery appends a single query parameter to a path.
func withQuery(path, key, value string) string {
	if value == "" {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + key + "=" + url.QueryEscape(value)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
