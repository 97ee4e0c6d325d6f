package relay

// Public response shapes. Optional values are pointers and serialize as null.

// ProfileSummary is the normalized profile returned by the relay
type ProfileSummary struct {
	Username      string      `json:"username"`
	FullName      string      `json:"full_name"`
	Biography     string      `json:"biography"`
	ProfilePicURL *string     `json:"profile_pic_url"`
	ExternalURL   *string     `json:"external_url"`
	Posts         int         `json:"posts"`
	Followers     *int64      `json:"followers"`
	Following     *int64      `json:"following"`
	IsPrivate     bool        `json:"is_private"`
	IsVerified    bool        `json:"is_verified"`
	UserID        string      `json:"user_id"`
	RecentPosts   []MediaItem `json:"recent_posts"`
}

// MediaItem is one normalized timeline post
type MediaItem struct {
	ID                   string     `json:"id"`
	Shortcode            string     `json:"shortcode"`
	DisplayURL           string     `json:"display_url"`
	ThumbnailSrc         *string    `json:"thumbnail_src"`
	IsVideo              bool       `json:"is_video"`
	VideoURL             *string    `json:"video_url"`
	AccessibilityCaption *string    `json:"accessibility_caption"`
	Caption              string     `json:"caption"`
	Likes                *int64     `json:"likes"`
	Comments             *int64     `json:"comments"`
	Timestamp            int64      `json:"timestamp"`
	Location             *string    `json:"location"`
	Dimensions           Dimensions `json:"dimensions"`
	IsReel               bool       `json:"is_reel"`
}

// Dimensions of a media item in pixels
type Dimensions struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

// PageInfo is the timeline cursor, passed through from upstream
type PageInfo struct {
	HasNextPage bool    `json:"has_next_page"`
	EndCursor   *string `json:"end_cursor"`
}

// MediaPage is one page of a user's timeline
type MediaPage struct {
	Media    []MediaItem `json:"media"`
	PageInfo PageInfo    `json:"page_info"`
	Count    int         `json:"count"`
}

// StoryItem is one normalized story frame
type StoryItem struct {
	ID         string   `json:"id"`
	TakenAt    int64    `json:"taken_at"`
	ExpiringAt int64    `json:"expiring_at"`
	MediaType  int      `json:"media_type"`
	ImageURL   *string  `json:"image_url"`
	VideoURL   *string  `json:"video_url"`
	Duration   *float64 `json:"duration"`
	HasAudio   bool     `json:"has_audio"`
}

// StoryList holds a user's active stories
type StoryList struct {
	UserID     string      `json:"user_id"`
	Stories    []StoryItem `json:"stories"`
	HasStories bool        `json:"has_stories"`
}

// ReelItem is one normalized clip
type ReelItem struct {
	ID           string   `json:"id"`
	Code         string   `json:"code"`
	ThumbnailURL *string  `json:"thumbnail_url"`
	VideoURL     *string  `json:"video_url"`
	ViewCount    *int64   `json:"view_count"`
	PlayCount    *int64   `json:"play_count"`
	Caption      *string  `json:"caption"`
	Duration     *float64 `json:"duration"`
	CreatedAt    int64    `json:"created_at"`
}

// ReelPage is one page of a user's clips
type ReelPage struct {
	Reels     []ReelItem `json:"reels"`
	HasMore   bool       `json:"has_more"`
	NextMaxID *string    `json:"next_max_id"`
}

// Diagnostic reports which secrets the relay was configured with
type Diagnostic struct {
	Message            string `json:"message"`
	InstagramCookieSet bool   `json:"instagram_cookie_set"`
	InstagramAppIDSet  bool   `json:"instagram_app_id_set"`
}
