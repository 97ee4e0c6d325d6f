package instagram

// Upstream response shapes. Fields Instagram may omit are pointers so the
// relay can distinguish "absent" from a zero value.

// ProfileResponse is the body of web_profile_info
type ProfileResponse struct {
	Data   *ProfileData `json:"data"`
	Status string       `json:"status"`
}

// ProfileData wraps the user information in the response
type ProfileData struct {
	User *ProfileUser `json:"user"`
}

// ProfileUser represents an Instagram user profile
type ProfileUser struct {
	ID                       string           `json:"id"`
	Username                 string           `json:"username"`
	FullName                 string           `json:"full_name"`
	Biography                string           `json:"biography"`
	ProfilePicURLHD          *string          `json:"profile_pic_url_hd"`
	ExternalURL              *string          `json:"external_url"`
	IsPrivate                bool             `json:"is_private"`
	IsVerified               bool             `json:"is_verified"`
	EdgeOwnerToTimelineMedia *MediaConnection `json:"edge_owner_to_timeline_media"`
	EdgeFollowedBy           *Count           `json:"edge_followed_by"`
	EdgeFollow               *Count           `json:"edge_follow"`
}

// MediaQueryResponse is the body of the timeline GraphQL query
type MediaQueryResponse struct {
	Data *struct {
		User *struct {
			EdgeOwnerToTimelineMedia *MediaConnection `json:"edge_owner_to_timeline_media"`
		} `json:"user"`
	} `json:"data"`
	Status string `json:"status"`
}

// MediaConnection contains the user's media information
type MediaConnection struct {
	Count    int         `json:"count"`
	PageInfo *PageInfo   `json:"page_info"`
	Edges    []MediaEdge `json:"edges"`
}

// PageInfo contains pagination information
type PageInfo struct {
	HasNextPage bool    `json:"has_next_page"`
	EndCursor   *string `json:"end_cursor"`
}

// MediaEdge wraps a single media node
type MediaEdge struct {
	Node *MediaNode `json:"node"`
}

// MediaNode represents a single media item (photo or video)
type MediaNode struct {
	Typename             string             `json:"__typename"`
	ID                   string             `json:"id"`
	Shortcode            string             `json:"shortcode"`
	DisplayURL           string             `json:"display_url"`
	ThumbnailSrc         *string            `json:"thumbnail_src"`
	IsVideo              bool               `json:"is_video"`
	VideoURL             *string            `json:"video_url"`
	AccessibilityCaption *string            `json:"accessibility_caption"`
	EdgeMediaToCaption   *CaptionConnection `json:"edge_media_to_caption"`
	EdgeMediaPreviewLike *Count             `json:"edge_media_preview_like"`
	EdgeMediaToComment   *Count             `json:"edge_media_to_comment"`
	TakenAtTimestamp     int64              `json:"taken_at_timestamp"`
	Location             *Location          `json:"location"`
	Dimensions           *Dimensions        `json:"dimensions"`
	ProductType          string             `json:"product_type"`
}

// CaptionConnection holds caption edges; only the first is meaningful
type CaptionConnection struct {
	Edges []struct {
		Node *struct {
			Text string `json:"text"`
		} `json:"node"`
	} `json:"edges"`
}

// Count is the {count: n} wrapper GraphQL uses for totals
type Count struct {
	Count int64 `json:"count"`
}

// Location is a tagged place
type Location struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

// Dimensions of a media item in pixels
type Dimensions struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

// StoryResponse is the body of the story feed endpoint.
// Reel is nil when the user has no active stories.
type StoryResponse struct {
	Reel   *StoryReel `json:"reel"`
	Status string     `json:"status"`
}

// StoryReel groups the active story items
type StoryReel struct {
	ID    interface{} `json:"id"`
	Items []StoryItem `json:"items"`
}

// StoryItem is one raw story frame
type StoryItem struct {
	ID             string         `json:"id"`
	TakenAt        int64          `json:"taken_at"`
	ExpiringAt     int64          `json:"expiring_at"`
	MediaType      int            `json:"media_type"`
	ImageVersions2 *ImageVersions `json:"image_versions2"`
	VideoVersions  []VideoVersion `json:"video_versions"`
	VideoDuration  *float64       `json:"video_duration"`
	HasAudio       *bool          `json:"has_audio"`
}

// Story and clip media types
const (
	MediaTypeImage = 1
	MediaTypeVideo = 2
)

// ImageVersions lists image renditions, best first
type ImageVersions struct {
	Candidates []ImageCandidate `json:"candidates"`
}

// ImageCandidate is one image rendition
type ImageCandidate struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// VideoVersion is one video rendition, best first
type VideoVersion struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   int    `json:"type"`
}

// ClipsResponse is the body of the clips listing endpoint
type ClipsResponse struct {
	Items      []ClipItem  `json:"items"`
	PagingInfo *PagingInfo `json:"paging_info"`
	Status     string      `json:"status"`
}

// ClipItem wraps one clip
type ClipItem struct {
	Media *ClipMedia `json:"media"`
}

// ClipMedia is the raw clip payload
type ClipMedia struct {
	ID             string         `json:"id"`
	Code           string         `json:"code"`
	ImageVersions2 *ImageVersions `json:"image_versions2"`
	VideoVersions  []VideoVersion `json:"video_versions"`
	ViewCount      *int64         `json:"view_count"`
	PlayCount      *int64         `json:"play_count"`
	Caption        *ClipCaption   `json:"caption"`
	VideoDuration  *float64       `json:"video_duration"`
	TakenAt        int64          `json:"taken_at"`
}

// ClipCaption is the caption object attached to a clip
type ClipCaption struct {
	Text string `json:"text"`
}

// PagingInfo is the clips pagination block
type PagingInfo struct {
	MoreAvailable bool    `json:"more_available"`
	MaxID         *string `json:"max_id"`
}

// FirstURL returns the first candidate URL, or nil
func (v *ImageVersions) FirstURL() *string {
	if v == nil || len(v.Candidates) == 0 {
		return nil
	}
	u := v.Candidates[0].URL
	return &u
}

// FirstVideoURL returns the first rendition URL, or nil
func FirstVideoURL(versions []VideoVersion) *string {
	if len(versions) == 0 {
		return nil
	}
	u := versions[0].URL
	return &u
}
