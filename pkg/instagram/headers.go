package instagram

import (
	"net/http"

	"igrelay/pkg/auth"
)

const (
	// PublicWebAppID is the application id Instagram's own web client sends
	PublicWebAppID = "936619743392459"

	// ProxyUserAgent is the browser identity used by the generic proxy
	ProxyUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/62.0.3202.94 Safari/537.36"

	webOrigin  = "https://www.instagram.com"
	webReferer = "https://www.instagram.com/"
)

// HeaderBuilder produces the outbound header set for one upstream request
type HeaderBuilder interface {
	Build() http.Header
}

// StaticHeaders is the fixed browser header table used by the generic proxy.
// Accept-Encoding is left to net/http so gzip responses are decoded transparently.
type StaticHeaders struct{}

func (StaticHeaders) Build() http.Header {
	h := http.Header{}
	h.Set("X-IG-App-ID", PublicWebAppID)
	h.Set("User-Agent", ProxyUserAgent)
	h.Set("Accept-Language", "en-US,en;q=0.9,ru;q=0.8")
	h.Set("Accept", "*/*")
	h.Set("Origin", webOrigin)
	h.Set("Referer", webReferer)
	return h
}

// SessionHeaders carries the logged-in session used by the normalizing relay.
// Missing secrets produce empty header values; callers surface diagnostics.
type SessionHeaders struct {
	userAgent string
	creds     auth.Credentials
}

// NewSessionHeaders builds a SessionHeaders from resolved configuration
func NewSessionHeaders(userAgent string, creds auth.Credentials) *SessionHeaders {
	return &SessionHeaders{userAgent: userAgent, creds: creds}
}

func (s *SessionHeaders) Build() http.Header {
	h := http.Header{}
	h.Set("User-Agent", s.userAgent)
	h.Set("Accept", "application/json")
	h.Set("Cookie", s.creds.SessionCookie)
	h.Set("X-IG-App-ID", s.creds.AppID)
	h.Set("X-IG-WWW-Claim", "0")
	h.Set("Origin", webOrigin)
	h.Set("Referer", webReferer)
	return h
}
