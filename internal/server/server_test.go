package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"igrelay/pkg/auth"
	igerrors "igrelay/pkg/errors"
	"igrelay/pkg/instagram"
	"igrelay/pkg/logger"
	"igrelay/pkg/relay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRelay struct {
	err          error
	gotUsername  string
	gotUserID    string
	gotCursor    string
	gotPageSize  int
	gotMaxID     string
	panicOnReels bool
}

func (f *fakeRelay) Profile(ctx context.Context, username string) (*relay.ProfileSummary, error) {
	f.gotUsername = username
	if f.err != nil {
		return nil, f.err
	}
	return &relay.ProfileSummary{Username: username, RecentPosts: []relay.MediaItem{}}, nil
}

func (f *fakeRelay) Media(ctx context.Context, userID, cursor string) (*relay.MediaPage, error) {
	f.gotUserID, f.gotCursor = userID, cursor
	if f.err != nil {
		return nil, f.err
	}
	return &relay.MediaPage{Media: []relay.MediaItem{}}, nil
}

func (f *fakeRelay) Stories(ctx context.Context, userID string) (*relay.StoryList, error) {
	f.gotUserID = userID
	if f.err != nil {
		return relay.RecoverStories(userID, f.err)
	}
	return relay.EmptyStories(userID), nil
}

func (f *fakeRelay) Reels(ctx context.Context, userID string, pageSize int, maxID string) (*relay.ReelPage, error) {
	if f.panicOnReels {
		panic("boom")
	}
	f.gotUserID, f.gotPageSize, f.gotMaxID = userID, pageSize, maxID
	if f.err != nil {
		return nil, f.err
	}
	return &relay.ReelPage{Reels: []relay.ReelItem{}}, nil
}

type fakeForwarder struct {
	body json.RawMessage
	err  error
}

func (f *fakeForwarder) Forward(ctx context.Context, target string) (json.RawMessage, error) {
	return f.body, f.err
}

func testStack() StackConfig {
	return StackConfig{AllowedOrigin: "*", Logger: logger.NewNopLogger()}
}

func do(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]interface{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
	}
	return rec, body
}

func TestRelayMissingParameters(t *testing.T) {
	h := NewRelayRouter(testStack(), &fakeRelay{}, NewDiagnostic(true, true))

	tests := []struct {
		path    string
		message string
	}{
		{"/api/instagram-profile", "Username is required"},
		{"/api/instagram-media", "User ID is required"},
		{"/api/instagram-stories", "User ID is required"},
		{"/api/instagram-reels", "User ID is required"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, body := do(t, h, tt.path)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, map[string]interface{}{"error": tt.message}, body)
		})
	}
}

func TestRelayServiceMissingParameterIs400(t *testing.T) {
	h := NewRelayRouter(testStack(), &fakeRelay{err: relay.ErrMissingParameter}, NewDiagnostic(true, true))

	rec, body := do(t, h, "/api/instagram-profile?username=@")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username is required", body["error"])
}

func TestRelayPassesQueryParameters(t *testing.T) {
	fake := &fakeRelay{}
	h := NewRelayRouter(testStack(), fake, NewDiagnostic(true, true))

	rec, _ := do(t, h, "/api/instagram-media?user_id=42&end_cursor=abc")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", fake.gotUserID)
	assert.Equal(t, "abc", fake.gotCursor)

	rec, _ = do(t, h, "/api/instagram-reels?user_id=7&page_size=6&max_id=m")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, fake.gotPageSize)
	assert.Equal(t, "m", fake.gotMaxID)
}

func TestParsePageSize(t *testing.T) {
	tests := map[string]int{
		"":    12,
		"5":   5,
		"abc": 12,
		"0":   12,
		"-3":  12,
		"50":  50,
	}
	for raw, want := range tests {
		assert.Equal(t, want, parsePageSize(raw), "input %q", raw)
	}
}

func TestRelayUpstreamFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"rate limited", igerrors.NewStatusError(http.StatusTooManyRequests, []byte(`{"message":"rate limited"}`)), 429, "rate limited"},
		{"transport failure", igerrors.NewNetworkError(errors.New("connection reset")), 500, "connection reset"},
		{"contract violation", relay.ErrContractViolation, 500, relay.ErrContractViolation.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRelayRouter(testStack(), &fakeRelay{err: tt.err}, NewDiagnostic(true, true))

			rec, body := do(t, h, "/api/instagram-media?user_id=1")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "Failed to fetch data", body["error"])
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
		})
	}
}

func TestRelayStoriesNotFound(t *testing.T) {
	h := NewRelayRouter(testStack(), &fakeRelay{err: igerrors.NewStatusError(http.StatusNotFound, nil)}, NewDiagnostic(true, true))

	rec, body := do(t, h, "/api/instagram-stories?user_id=42")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", body["user_id"])
	assert.Equal(t, []interface{}{}, body["stories"])
	assert.Equal(t, false, body["has_stories"])
}

func TestDiagnostic(t *testing.T) {
	h := NewRelayRouter(testStack(), &fakeRelay{}, NewDiagnostic(true, false))

	rec, body := do(t, h, "/api/test")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{
		"message":              "Backend server is working!",
		"instagram_cookie_set": true,
		"instagram_app_id_set": false,
	}, body)
}

func TestRecovererReturnsJSON(t *testing.T) {
	log := logger.NewTestLogger()
	h := NewRelayRouter(StackConfig{AllowedOrigin: "*", Logger: log}, &fakeRelay{panicOnReels: true}, NewDiagnostic(true, true))

	rec, body := do(t, h, "/api/instagram-reels?user_id=1")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["error"])
	assert.True(t, log.HasMessage("panic recovered in HTTP handler"))
}

func TestRecovererKeepsRequestID(t *testing.T) {
	log := logger.NewTestLogger()
	h := NewRelayRouter(StackConfig{AllowedOrigin: "*", Logger: log}, &fakeRelay{panicOnReels: true}, NewDiagnostic(true, true))

	req := httptest.NewRequest(http.MethodGet, "/api/instagram-reels?user_id=1", nil)
	req.Header.Set(HeaderRequestID, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "abc", rec.Header().Get(HeaderRequestID))

	errs := log.GetMessagesByLevel("ERROR")
	require.Len(t, errs, 2)
	assert.Equal(t, "panic recovered in HTTP handler", errs[0].Message)
	assert.Equal(t, "abc", errs[0].Fields["request_id"])

	assert.Equal(t, "request completed", errs[1].Message)
	assert.Equal(t, http.StatusInternalServerError, errs[1].Fields["status"])
	assert.Equal(t, "abc", errs[1].Fields["request_id"])
}

func TestProxyHandler(t *testing.T) {
	t.Run("missing url", func(t *testing.T) {
		h := NewProxyRouter(testStack(), &fakeForwarder{})

		rec, body := do(t, h, "/proxy")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]interface{}{"error": "URL parameter is required"}, body)
	})

	t.Run("passes body through", func(t *testing.T) {
		h := NewProxyRouter(testStack(), &fakeForwarder{body: json.RawMessage(`{"graphql":{"user":{"id":"1"}}}`)})

		rec, _ := do(t, h, "/proxy?url=https://www.instagram.com/nasa/?__a=1")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"graphql":{"user":{"id":"1"}}}`, rec.Body.String())
	})

	t.Run("upstream status", func(t *testing.T) {
		h := NewProxyRouter(testStack(), &fakeForwarder{err: igerrors.NewStatusError(http.StatusForbidden, []byte(`{"message":"nope"}`))})

		rec, _ := do(t, h, "/proxy?url=https://www.instagram.com/")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"Proxy request failed","status":403,"data":{"message":"nope"}}`, rec.Body.String())
	})

	t.Run("no response", func(t *testing.T) {
		h := NewProxyRouter(testStack(), &fakeForwarder{err: igerrors.NewNetworkError(errors.New("timeout"))})

		rec, body := do(t, h, "/proxy?url=https://www.instagram.com/")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, map[string]interface{}{"error": "timeout"}, body)
	})
}

func TestCORS(t *testing.T) {
	t.Run("relay reflects origin with credentials", func(t *testing.T) {
		stack := StackConfig{AllowedOrigin: "*", AllowCredentials: true, Logger: logger.NewNopLogger()}
		h := NewRelayRouter(stack, &fakeRelay{}, NewDiagnostic(true, true))
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("proxy wildcard without credentials", func(t *testing.T) {
		h := NewProxyRouter(testStack(), &fakeForwarder{})
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("fixed origin", func(t *testing.T) {
		h := NewProxyRouter(StackConfig{AllowedOrigin: "http://localhost:5173/", Logger: logger.NewNopLogger()}, &fakeForwarder{})
		req := httptest.NewRequest(http.MethodOptions, "/proxy", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestID(t *testing.T) {
	h := NewRelayRouter(testStack(), &fakeRelay{}, NewDiagnostic(true, true))

	rec, _ := do(t, h, "/healthz")
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "caller-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "caller-id", rec.Header().Get(HeaderRequestID))
}

func TestRequestLogger(t *testing.T) {
	log := logger.NewTestLogger()
	h := NewRelayRouter(StackConfig{AllowedOrigin: "*", Logger: log}, &fakeRelay{}, NewDiagnostic(true, true))

	do(t, h, "/api/instagram-profile")

	msgs := log.GetMessagesByLevel("INFO")
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	assert.Equal(t, "request completed", last.Message)
	assert.Equal(t, http.StatusBadRequest, last.Fields["status"])
	assert.Equal(t, "/api/instagram-profile", last.Fields["path"])
}

func TestEndToEndRelay(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sessionid=xyz", r.Header.Get("Cookie"))
		w.Write([]byte(`{"data":{"user":{"id":"9","username":"nasa","full_name":"NASA",
			"edge_followed_by":{"count":5},"edge_follow":{"count":1},
			"edge_owner_to_timeline_media":{"count":1,"edges":[{"node":{
				"__typename":"GraphVideo","product_type":"clips","id":"m1","is_video":true,
				"video_url":"https://cdn/v.mp4","dimensions":{"height":10,"width":20}}}]}}}}`))
	}))
	defer upstream.Close()

	client := instagram.NewClient(5*time.Second, logger.NewNopLogger())
	svc := relay.NewService(client,
		instagram.NewSessionHeaders("agent", auth.Credentials{SessionCookie: "sessionid=xyz", AppID: "1"}),
		instagram.Endpoints{APIBaseURL: upstream.URL, WebBaseURL: upstream.URL},
		logger.NewNopLogger())
	h := NewRelayRouter(testStack(), svc, NewDiagnostic(true, true))

	rec, body := do(t, h, "/api/instagram-profile?username=nasa")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "9", body["user_id"])
	assert.Equal(t, float64(5), body["followers"])

	posts := body["recent_posts"].([]interface{})
	require.Len(t, posts, 1)
	post := posts[0].(map[string]interface{})
	assert.Equal(t, true, post["is_reel"])
	assert.Equal(t, "", post["caption"])
	assert.Equal(t, "https://cdn/v.mp4", post["video_url"])
}

func TestServerRunShutsDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New("relay", 0, NewRelayRouter(testStack(), &fakeRelay{}, NewDiagnostic(false, false)), time.Second, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
