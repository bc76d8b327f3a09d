// Package requestmeta derives click metadata from an inbound HTTP request:
// the client IP, the raw user agent, the parsed OS and device class, and a
// best-effort geolocation. Derivation never fails the request.
package requestmeta

import (
	"net"
	"net/http"
	"strings"

	"github.com/mileusna/useragent"

	"github.com/shortify/shortify/internal/domain"
	"github.com/shortify/shortify/internal/geo"
)

const (
	osUnknown     = "unknown"
	deviceDesktop = "desktop"
	deviceMobile  = "mobile"
	deviceTablet  = "tablet"
	deviceBot     = "bot"
)

// Extractor builds ClickMeta values from requests.
type Extractor struct {
	geo geo.Resolver
}

// NewExtractor creates an extractor using the given geolocation resolver.
func NewExtractor(resolver geo.Resolver) *Extractor {
	return &Extractor{geo: resolver}
}

// FromRequest derives the click metadata for one request.
func (e *Extractor) FromRequest(r *http.Request) domain.ClickMeta {
	ip := clientIP(r)
	rawUA := r.UserAgent()
	os, device := parseUserAgent(rawUA)
	location := e.geo.Lookup(ip)

	return domain.ClickMeta{
		UserIP:    ip,
		UserAgent: rawUA,
		OS:        os,
		Device:    device,
		Country:   location.Country,
		City:      location.City,
	}
}

// clientIP prefers proxy-forwarded headers over the socket peer address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// The first entry is the original client.
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// parseUserAgent classifies the OS name and device class. Unrecognized or
// empty agents fall back to "unknown"/"desktop".
func parseUserAgent(raw string) (string, string) {
	ua := useragent.Parse(raw)

	os := ua.OS
	if os == "" {
		os = osUnknown
	}

	device := deviceDesktop
	switch {
	case ua.Bot:
		device = deviceBot
	case ua.Tablet:
		device = deviceTablet
	case ua.Mobile:
		device = deviceMobile
	}
	return os, device
}
