package instagram

import (
	"encoding/json"
	"net/url"
	"testing"

	"igrelay/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileURL(t *testing.T) {
	tests := []struct {
		name     string
		username string
		expected string
	}{
		{"simple username", "testuser", "https://i.instagram.com/api/v1/users/web_profile_info/?username=testuser"},
		{"username with dots", "test.user", "https://i.instagram.com/api/v1/users/web_profile_info/?username=test.user"},
		{"username is escaped", "a&b", "https://i.instagram.com/api/v1/users/web_profile_info/?username=a%26b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DefaultEndpoints().ProfileURL(tt.username))
		})
	}
}

func TestMediaURL(t *testing.T) {
	tests := []struct {
		name      string
		cursor    string
		wantAfter interface{}
	}{
		{"first page sends null cursor", "", nil},
		{"next page", "QVFDabc", "QVFDabc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := DefaultEndpoints().MediaURL("12345", tt.cursor)

			parsed, err := url.Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, "www.instagram.com", parsed.Host)
			assert.Equal(t, MediaEndpoint, parsed.Path)
			assert.Equal(t, MediaQueryHash, parsed.Query().Get("query_hash"))

			var vars map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(parsed.Query().Get("variables")), &vars))
			assert.Equal(t, "12345", vars["id"])
			assert.Equal(t, float64(12), vars["first"])
			after, present := vars["after"]
			assert.True(t, present)
			assert.Equal(t, tt.wantAfter, after)
		})
	}
}

func TestStoriesURL(t *testing.T) {
	e := Endpoints{APIBaseURL: "http://127.0.0.1:9000/", WebBaseURL: WebBaseURL}
	assert.Equal(t, "http://127.0.0.1:9000/api/v1/feed/user/787132/story/", e.StoriesURL("787132"))
}

func TestReelsURL(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		maxID    string
		want     url.Values
	}{
		{
			name:     "defaults",
			pageSize: 0,
			want: url.Values{
				"target_user_id":     {"42"},
				"page_size":          {"12"},
				"include_feed_video": {"true"},
			},
		},
		{
			name:     "with cursor",
			pageSize: 6,
			maxID:    "abc",
			want: url.Values{
				"target_user_id":     {"42"},
				"page_size":          {"6"},
				"include_feed_video": {"true"},
				"max_id":             {"abc"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := DefaultEndpoints().ReelsURL("42", tt.pageSize, tt.maxID)
			require.NoError(t, err)

			parsed, err := url.Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, ReelsEndpoint, parsed.Path)
			assert.Equal(t, tt.want, parsed.Query())
		})
	}
}

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"testuser", "testuser"},
		{"@testuser", "testuser"},
		{"testuser/", "testuser"},
		{"  @testuser/  ", "testuser"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeUsername(tt.input))
		})
	}
}

func TestSessionHeaders(t *testing.T) {
	h := NewSessionHeaders("test-agent", auth.Credentials{SessionCookie: "sessionid=abc", AppID: "1217981644879628"}).Build()

	assert.Equal(t, "test-agent", h.Get("User-Agent"))
	assert.Equal(t, "application/json", h.Get("Accept"))
	assert.Equal(t, "sessionid=abc", h.Get("Cookie"))
	assert.Equal(t, "1217981644879628", h.Get("X-IG-App-ID"))
	assert.Equal(t, "0", h.Get("X-IG-WWW-Claim"))
	assert.Equal(t, "https://www.instagram.com", h.Get("Origin"))
	assert.Equal(t, "https://www.instagram.com/", h.Get("Referer"))
}

func TestSessionHeadersMissingSecrets(t *testing.T) {
	h := NewSessionHeaders("agent", auth.Credentials{}).Build()

	_, hasCookie := h["Cookie"]
	assert.True(t, hasCookie)
	assert.Empty(t, h.Get("Cookie"))
	assert.Empty(t, h.Get("X-IG-App-ID"))
}

func TestStaticHeaders(t *testing.T) {
	h := StaticHeaders{}.Build()

	assert.Equal(t, "936619743392459", h.Get("X-IG-App-ID"))
	assert.Equal(t, "*/*", h.Get("Accept"))
	assert.Equal(t, "en-US,en;q=0.9,ru;q=0.8", h.Get("Accept-Language"))
	assert.Empty(t, h.Get("Cookie"))
	assert.Empty(t, h.Get("Accept-Encoding"))
}
