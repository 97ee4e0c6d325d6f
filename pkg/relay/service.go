package relay

import (
	"context"
	"errors"

	"igrelay/pkg/instagram"
	"igrelay/pkg/logger"
)

// ErrMissingParameter is returned when a required caller input is empty
var ErrMissingParameter = errors.New("required parameter is missing")

// Service is the normalizing relay: one credentialed upstream call per
// operation, reshaped into the public schema
type Service struct {
	upstream  Upstream
	headers   instagram.HeaderBuilder
	endpoints instagram.Endpoints
	logger    logger.Logger
}

// NewService creates a relay service
func NewService(upstream Upstream, headers instagram.HeaderBuilder, endpoints instagram.Endpoints, log logger.Logger) *Service {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Service{
		upstream:  upstream,
		headers:   headers,
		endpoints: endpoints,
		logger:    log,
	}
}

// Profile looks up a user by handle
func (s *Service) Profile(ctx context.Context, username string) (*ProfileSummary, error) {
	username = instagram.SanitizeUsername(username)
	if username == "" {
		return nil, ErrMissingParameter
	}

	var resp instagram.ProfileResponse
	if err := s.upstream.FetchJSON(ctx, s.endpoints.ProfileURL(username), s.headers.Build(), &resp); err != nil {
		return nil, err
	}

	summary, err := MapProfile(&resp)
	if err != nil {
		s.logger.ErrorWithFields("failed to map profile", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
		return nil, err
	}

	s.logger.DebugWithFields("profile fetched", map[string]interface{}{
		"username":     username,
		"user_id":      summary.UserID,
		"recent_posts": len(summary.RecentPosts),
	})
	return summary, nil
}

// Media fetches one page of a user's timeline
func (s *Service) Media(ctx context.Context, userID, cursor string) (*MediaPage, error) {
	if userID == "" {
		return nil, ErrMissingParameter
	}

	var resp instagram.MediaQueryResponse
	if err := s.upstream.FetchJSON(ctx, s.endpoints.MediaURL(userID, cursor), s.headers.Build(), &resp); err != nil {
		return nil, err
	}

	page, err := MapMediaPage(&resp)
	if err != nil {
		s.logger.ErrorWithFields("failed to map media page", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}
	return page, nil
}

// Stories lists a user's active stories. An upstream 404 means none.
func (s *Service) Stories(ctx context.Context, userID string) (*StoryList, error) {
	if userID == "" {
		return nil, ErrMissingParameter
	}

	var resp instagram.StoryResponse
	if fetchErr := s.upstream.FetchJSON(ctx, s.endpoints.StoriesURL(userID), s.headers.Build(), &resp); fetchErr != nil {
		list, err := RecoverStories(userID, fetchErr)
		if err == nil {
			s.logger.DebugWithFields("no stories found", map[string]interface{}{"user_id": userID})
		}
		return list, err
	}

	return MapStories(userID, &resp), nil
}

// Reels fetches one page of a user's clips. A non-positive page size uses the default.
func (s *Service) Reels(ctx context.Context, userID string, pageSize int, maxID string) (*ReelPage, error) {
	if userID == "" {
		return nil, ErrMissingParameter
	}

	reelsURL, err := s.endpoints.ReelsURL(userID, pageSize, maxID)
	if err != nil {
		return nil, err
	}

	var resp instagram.ClipsResponse
	if err := s.upstream.FetchJSON(ctx, reelsURL, s.headers.Build(), &resp); err != nil {
		return nil, err
	}

	page, err := MapReels(&resp)
	if err != nil {
		s.logger.ErrorWithFields("failed to map reels", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}
	return page, nil
}
