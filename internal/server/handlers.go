package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"igrelay/pkg/instagram"
	"igrelay/pkg/logger"
	"igrelay/pkg/relay"
)

const (
	msgUsernameRequired = "Username is required"
	msgUserIDRequired   = "User ID is required"
	msgURLRequired      = "URL parameter is required"
	msgBackendWorking   = "Backend server is working!"
)

// RelayService is the normalizing relay used by the API handlers
type RelayService interface {
	Profile(ctx context.Context, username string) (*relay.ProfileSummary, error)
	Media(ctx context.Context, userID, cursor string) (*relay.MediaPage, error)
	Stories(ctx context.Context, userID string) (*relay.StoryList, error)
	Reels(ctx context.Context, userID string, pageSize int, maxID string) (*relay.ReelPage, error)
}

// Forwarder is the generic proxy used by the proxy handler
type Forwarder interface {
	Forward(ctx context.Context, target string) (json.RawMessage, error)
}

type relayHandlers struct {
	svc        RelayService
	diagnostic relay.Diagnostic
	logger     logger.Logger
}

func (h *relayHandlers) profile(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, msgUsernameRequired)
		return
	}

	summary, err := h.svc.Profile(r.Context(), username)
	if err != nil {
		h.fail(w, r, err, msgUsernameRequired)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *relayHandlers) media(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, msgUserIDRequired)
		return
	}

	page, err := h.svc.Media(r.Context(), userID, q.Get("end_cursor"))
	if err != nil {
		h.fail(w, r, err, msgUserIDRequired)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *relayHandlers) stories(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, msgUserIDRequired)
		return
	}

	list, err := h.svc.Stories(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err, msgUserIDRequired)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *relayHandlers) reels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, msgUserIDRequired)
		return
	}

	page, err := h.svc.Reels(r.Context(), userID, parsePageSize(q.Get("page_size")), q.Get("max_id"))
	if err != nil {
		h.fail(w, r, err, msgUserIDRequired)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *relayHandlers) test(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.diagnostic)
}

func (h *relayHandlers) fail(w http.ResponseWriter, r *http.Request, err error, missingMsg string) {
	if errors.Is(err, relay.ErrMissingParameter) {
		writeError(w, http.StatusBadRequest, missingMsg)
		return
	}

	f := relay.Classify(err)
	h.logger.ErrorWithFields("relay request failed", map[string]interface{}{
		"path":       r.URL.Path,
		"request_id": RequestIDFromContext(r.Context()),
		"status":     f.Status,
		"error":      err.Error(),
	})
	writeJSON(w, f.Status, f)
}

// parsePageSize falls back to the default for missing, non-numeric or non-positive values
func parsePageSize(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return instagram.DefaultMediaLimit
	}
	return n
}

type proxyHandler struct {
	forwarder Forwarder
	logger    logger.Logger
}

func (h *proxyHandler) serve(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		writeError(w, http.StatusBadRequest, msgURLRequired)
		return
	}

	body, err := h.forwarder.Forward(r.Context(), target)
	if err != nil {
		f := relay.ClassifyProxy(err)
		h.logger.ErrorWithFields("proxy request failed", map[string]interface{}{
			"url":        target,
			"request_id": RequestIDFromContext(r.Context()),
			"status":     f.StatusCode(),
			"error":      err.Error(),
		})
		writeJSON(w, f.StatusCode(), f)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
