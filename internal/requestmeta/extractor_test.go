package requestmeta

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shortify/shortify/internal/geo"
)

const (
	chromeLinuxUA  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	safariIPhoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	googlebotUA    = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestExtractor_FromRequest(t *testing.T) {
	e := NewExtractor(geo.NoopResolver{})

	tests := []struct {
		name       string
		userAgent  string
		wantOS     string
		wantDevice string
	}{
		{name: "desktop browser", userAgent: chromeLinuxUA, wantOS: "Linux", wantDevice: "desktop"},
		{name: "mobile browser", userAgent: safariIPhoneUA, wantOS: "iOS", wantDevice: "mobile"},
		{name: "crawler", userAgent: googlebotUA, wantDevice: "bot"},
		{name: "empty user agent", userAgent: "", wantOS: "unknown", wantDevice: "desktop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/shorten/abc1234", nil)
			r.RemoteAddr = "203.0.113.9:51234"
			if tt.userAgent != "" {
				r.Header.Set("User-Agent", tt.userAgent)
			}

			meta := e.FromRequest(r)

			assert.Equal(t, "203.0.113.9", meta.UserIP)
			assert.Equal(t, tt.userAgent, meta.UserAgent)
			if tt.wantOS != "" {
				assert.Equal(t, tt.wantOS, meta.OS)
			}
			assert.Equal(t, tt.wantDevice, meta.Device)
		})
	}
}

func TestExtractor_ClientIPHeaders(t *testing.T) {
	e := NewExtractor(geo.NoopResolver{})

	t.Run("x-forwarded-for takes the first hop", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.2")

		assert.Equal(t, "198.51.100.7", e.FromRequest(r).UserIP)
	})

	t.Run("x-real-ip as fallback", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("X-Real-IP", "198.51.100.9")

		assert.Equal(t, "198.51.100.9", e.FromRequest(r).UserIP)
	})

	t.Run("remote addr last", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"

		assert.Equal(t, "10.0.0.1", e.FromRequest(r).UserIP)
	})
}
