package web

import (
	"fmt"
	"net/url"
	"strings"
)

// APIBase derives the task API base URL from the page origin: the API is
// served from the same origin under /api.
func APIBase(origin string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil {
		return "", fmt.Errorf("parse origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("origin %q is not absolute", origin)
	}
	return u.Scheme + "://" + u.Host + "/api", nil
}
