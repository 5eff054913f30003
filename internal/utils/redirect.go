package utils

import (
	"net/url"
	"strings"
)

// SafeRedirect validates an externally supplied "next" target against the
// application's own hosts. Anything that fails the check is discarded in
// favor of the fallback landing location.
func SafeRedirect(next string, allowedHosts []string, fallback string) string {
	if next == "" {
		return fallback
	}

	// Scheme-relative URLs ("//evil.example/x") would escape the host check.
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "\\") {
		return fallback
	}

	parsed, err := url.Parse(next)
	if err != nil {
		return fallback
	}

	if parsed.Scheme == "" && parsed.Host == "" {
		if strings.HasPrefix(parsed.Path, "/") {
			return next
		}
		return fallback
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fallback
	}

	for _, host := range allowedHosts {
		if strings.EqualFold(parsed.Host, host) {
			return next
		}
	}

	return fallback
}
