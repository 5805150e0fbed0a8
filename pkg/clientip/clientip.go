package clientip

import (
	"net"
	"net/http"
	"strings"
)

// proxyHeaders are checked in priority order, most reliable first.
var proxyHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP extracts the real client IP address from the request, walking proxy
// headers in priority order and falling back to RemoteAddr. Returns an empty
// string when no valid IP can be determined.
func GetIP(r *http.Request) string {
	if r == nil {
		return ""
	}

	for _, header := range proxyHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}

		// X-Forwarded-For may hold "client, proxy1, proxy2"; the leftmost
		// entry is the original client.
		candidate, _, _ := strings.Cut(value, ",")
		if ip := normalize(candidate); ip != "" {
			return ip
		}
	}

	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return normalize(host)
}

// normalize validates and canonicalizes an IP string. The unspecified
// addresses (0.0.0.0, ::) are rejected as "no valid client IP".
func normalize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
