package instagram

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
)

const (
	// APIBaseURL hosts the private v1 API
	APIBaseURL = "https://i.instagram.com"

	// WebBaseURL hosts the web GraphQL endpoint
	WebBaseURL = "https://www.instagram.com"

	// ProfileEndpoint is the endpoint pattern for user profiles
	ProfileEndpoint = "/api/v1/users/web_profile_info/"

	// MediaEndpoint is the endpoint pattern for user media
	MediaEndpoint = "/graphql/query/"

	// StoriesEndpoint is formatted with the numeric user id
	StoriesEndpoint = "/api/v1/feed/user/%s/story/"

	// ReelsEndpoint lists a user's clips
	ReelsEndpoint = "/api/v1/clips/user/"

	// MediaQueryHash is the query hash for fetching user media
	MediaQueryHash = "e769aa130647d2354c40ea6a439bfc08"

	// DefaultMediaLimit is the page size for media and reels
	DefaultMediaLimit = 12
)

// Endpoints builds upstream URLs against configurable hosts
type Endpoints struct {
	APIBaseURL string
	WebBaseURL string
}

// DefaultEndpoints points at the production hosts
func DefaultEndpoints() Endpoints {
	return Endpoints{APIBaseURL: APIBaseURL, WebBaseURL: WebBaseURL}
}

// ProfileURL constructs the URL for fetching a user's profile
func (e Endpoints) ProfileURL(username string) string {
	params := url.Values{}
	params.Set("username", username)

	return fmt.Sprintf("%s%s?%s", strings.TrimRight(e.APIBaseURL, "/"), ProfileEndpoint, params.Encode())
}

type mediaVariables struct {
	ID    string  `json:"id"`
	First int     `json:"first"`
	After *string `json:"after"`
}

// MediaURL constructs the GraphQL URL for one page of a user's timeline.
// An empty cursor is sent as a JSON null.
func (e Endpoints) MediaURL(userID string, after string) string {
	vars := mediaVariables{ID: userID, First: DefaultMediaLimit}
	if after != "" {
		vars.After = &after
	}
	encoded, _ := json.Marshal(vars)

	params := url.Values{}
	params.Set("query_hash", MediaQueryHash)
	params.Set("variables", string(encoded))

	return fmt.Sprintf("%s%s?%s", strings.TrimRight(e.WebBaseURL, "/"), MediaEndpoint, params.Encode())
}

// StoriesURL constructs the URL for a user's active stories
func (e Endpoints) StoriesURL(userID string) string {
	return strings.TrimRight(e.APIBaseURL, "/") + fmt.Sprintf(StoriesEndpoint, url.PathEscape(userID))
}

type reelsQuery struct {
	TargetUserID     string `url:"target_user_id"`
	PageSize         int    `url:"page_size"`
	IncludeFeedVideo bool   `url:"include_feed_video"`
	MaxID            string `url:"max_id,omitempty"`
}

// ReelsURL constructs the clips listing URL
func (e Endpoints) ReelsURL(userID string, pageSize int, maxID string) (string, error) {
	if pageSize <= 0 {
		pageSize = DefaultMediaLimit
	}

	params, err := query.Values(reelsQuery{
		TargetUserID:     userID,
		PageSize:         pageSize,
		IncludeFeedVideo: true,
		MaxID:            maxID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode reels query: %w", err)
	}

	return fmt.Sprintf("%s%s?%s", strings.TrimRight(e.APIBaseURL, "/"), ReelsEndpoint, params.Encode()), nil
}

// SanitizeUsername strips a leading @ and trailing slashes or spaces
func SanitizeUsername(username string) string {
	username = strings.TrimSpace(username)
	username = strings.TrimPrefix(username, "@")
	return strings.TrimRight(username, "/ ")
}
