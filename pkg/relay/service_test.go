package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"igrelay/pkg/auth"
	igerrors "igrelay/pkg/errors"
	"igrelay/pkg/instagram"
	"igrelay/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstreamStub serves canned responses keyed by request path
type upstreamStub struct {
	mu       sync.Mutex
	status   map[string]int
	bodies   map[string]string
	requests []*http.Request
}

func newUpstreamStub() *upstreamStub {
	return &upstreamStub{status: map[string]int{}, bodies: map[string]string{}}
}

func (u *upstreamStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.requests = append(u.requests, r.Clone(context.Background()))
	if code, ok := u.status[r.URL.Path]; ok {
		w.WriteHeader(code)
	}
	w.Write([]byte(u.bodies[r.URL.Path]))
}

func newTestService(t *testing.T, stub *upstreamStub) *Service {
	t.Helper()
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)

	client := instagram.NewClient(5*time.Second, logger.NewNopLogger())
	headers := instagram.NewSessionHeaders("test-agent", auth.Credentials{SessionCookie: "sessionid=abc", AppID: "123"})
	endpoints := instagram.Endpoints{APIBaseURL: server.URL, WebBaseURL: server.URL}

	return NewService(client, headers, endpoints, logger.NewNopLogger())
}

func TestServiceProfile(t *testing.T) {
	stub := newUpstreamStub()
	stub.bodies[instagram.ProfileEndpoint] = `{"data":{"user":{"id":"1","username":"nasa",
		"edge_owner_to_timeline_media":{"count":1,"edges":[{"node":{"id":"p1"}}]}}}}`
	svc := newTestService(t, stub)

	summary, err := svc.Profile(context.Background(), "@nasa")
	require.NoError(t, err)
	assert.Equal(t, "nasa", summary.Username)

	require.Len(t, stub.requests, 1)
	req := stub.requests[0]
	assert.Equal(t, "nasa", req.URL.Query().Get("username"))
	assert.Equal(t, "sessionid=abc", req.Header.Get("Cookie"))
	assert.Equal(t, "123", req.Header.Get("X-IG-App-ID"))
}

func TestServiceMissingParameters(t *testing.T) {
	svc := newTestService(t, newUpstreamStub())
	ctx := context.Background()

	_, err := svc.Profile(ctx, "  ")
	assert.ErrorIs(t, err, ErrMissingParameter)
	_, err = svc.Media(ctx, "", "")
	assert.ErrorIs(t, err, ErrMissingParameter)
	_, err = svc.Stories(ctx, "")
	assert.ErrorIs(t, err, ErrMissingParameter)
	_, err = svc.Reels(ctx, "", 0, "")
	assert.ErrorIs(t, err, ErrMissingParameter)
}

func TestServiceMedia(t *testing.T) {
	stub := newUpstreamStub()
	stub.bodies[instagram.MediaEndpoint] = `{"data":{"user":{"edge_owner_to_timeline_media":{
		"count":40,"page_info":{"has_next_page":false,"end_cursor":null},"edges":[]}}}}`
	svc := newTestService(t, stub)

	page, err := svc.Media(context.Background(), "99", "cursor")
	require.NoError(t, err)
	assert.Equal(t, 40, page.Count)
	assert.Nil(t, page.PageInfo.EndCursor)
	assert.Empty(t, page.Media)

	assert.Contains(t, stub.requests[0].URL.Query().Get("variables"), `"after":"cursor"`)
}

func TestServiceStories(t *testing.T) {
	t.Run("upstream 404 yields empty list", func(t *testing.T) {
		stub := newUpstreamStub()
		stub.status["/api/v1/feed/user/42/story/"] = http.StatusNotFound
		svc := newTestService(t, stub)

		list, err := svc.Stories(context.Background(), "42")
		require.NoError(t, err)
		assert.Equal(t, EmptyStories("42"), list)
	})

	t.Run("rate limit is surfaced", func(t *testing.T) {
		stub := newUpstreamStub()
		stub.status["/api/v1/feed/user/42/story/"] = http.StatusTooManyRequests
		stub.bodies["/api/v1/feed/user/42/story/"] = `{"message":"rate limited"}`
		svc := newTestService(t, stub)

		_, err := svc.Stories(context.Background(), "42")
		require.Error(t, err)

		f := Classify(err)
		assert.Equal(t, http.StatusTooManyRequests, f.Status)
		assert.Equal(t, "rate limited", f.Message)
	})
}

func TestServiceReels(t *testing.T) {
	stub := newUpstreamStub()
	stub.bodies[instagram.ReelsEndpoint] = `{"items":[{"media":{"id":"r1","code":"c"}}],"paging_info":{"more_available":false}}`
	svc := newTestService(t, stub)

	page, err := svc.Reels(context.Background(), "42", 5, "m1")
	require.NoError(t, err)
	assert.Len(t, page.Reels, 1)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextMaxID)

	q := stub.requests[0].URL.Query()
	assert.Equal(t, "42", q.Get("target_user_id"))
	assert.Equal(t, "5", q.Get("page_size"))
	assert.Equal(t, "m1", q.Get("max_id"))
}

func TestServiceReelsWithoutItems(t *testing.T) {
	stub := newUpstreamStub()
	stub.bodies[instagram.ReelsEndpoint] = `{}`
	svc := newTestService(t, stub)

	page, err := svc.Reels(context.Background(), "1", 12, "")
	require.Error(t, err)
	assert.Nil(t, page)
	assert.ErrorIs(t, err, ErrContractViolation)
	assert.Equal(t, http.StatusInternalServerError, Classify(err).Status)
}

func TestServiceMalformedUpstream(t *testing.T) {
	stub := newUpstreamStub()
	stub.bodies[instagram.ProfileEndpoint] = `<html>please log in</html>`
	svc := newTestService(t, stub)

	_, err := svc.Profile(context.Background(), "nasa")
	require.Error(t, err)
	assert.True(t, igerrors.IsParsing(err))
	assert.Equal(t, http.StatusInternalServerError, Classify(err).Status)
}

func TestProxyForward(t *testing.T) {
	stub := newUpstreamStub()
	stub.bodies["/json"] = `{"graphql":{"user":{}}}`
	stub.bodies["/text"] = `hello`
	stub.status["/missing"] = http.StatusNotFound
	server := httptest.NewServer(stub)
	defer server.Close()

	proxy := NewProxy(instagram.NewClient(5*time.Second, logger.NewNopLogger()), logger.NewNopLogger())
	ctx := context.Background()

	body, err := proxy.Forward(ctx, server.URL+"/json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"graphql":{"user":{}}}`, string(body))
	assert.Equal(t, instagram.PublicWebAppID, stub.requests[0].Header.Get("X-IG-App-ID"))
	assert.Empty(t, stub.requests[0].Header.Get("Cookie"))

	body, err = proxy.Forward(ctx, server.URL+"/text")
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, string(body))

	_, err = proxy.Forward(ctx, server.URL+"/missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, ClassifyProxy(err).StatusCode())

	_, err = proxy.Forward(ctx, "")
	assert.ErrorIs(t, err, ErrMissingParameter)
}
