package relay

import (
	"errors"
	"fmt"

	"igrelay/pkg/instagram"
)

// ErrContractViolation marks an upstream payload missing a field the relay
// cannot do without, as opposed to an optional field that defaults to null.
var ErrContractViolation = errors.New("upstream response missing required field")

// RecentPostsLimit caps the posts embedded in a profile summary
const RecentPostsLimit = instagram.DefaultMediaLimit

func missing(path string) error {
	return fmt.Errorf("%w: %s", ErrContractViolation, path)
}

// MapProfile converts web_profile_info into a ProfileSummary
func MapProfile(resp *instagram.ProfileResponse) (*ProfileSummary, error) {
	if resp == nil || resp.Data == nil || resp.Data.User == nil {
		return nil, missing("data.user")
	}
	user := resp.Data.User
	if user.EdgeOwnerToTimelineMedia == nil {
		return nil, missing("data.user.edge_owner_to_timeline_media")
	}

	edges := user.EdgeOwnerToTimelineMedia.Edges
	if len(edges) > RecentPostsLimit {
		edges = edges[:RecentPostsLimit]
	}
	posts, err := MapMediaItems(edges)
	if err != nil {
		return nil, err
	}

	summary := &ProfileSummary{
		Username:      user.Username,
		FullName:      user.FullName,
		Biography:     user.Biography,
		ProfilePicURL: user.ProfilePicURLHD,
		ExternalURL:   user.ExternalURL,
		Posts:         user.EdgeOwnerToTimelineMedia.Count,
		IsPrivate:     user.IsPrivate,
		IsVerified:    user.IsVerified,
		UserID:        user.ID,
		RecentPosts:   posts,
	}
	if user.EdgeFollowedBy != nil {
		summary.Followers = int64Ptr(user.EdgeFollowedBy.Count)
	}
	if user.EdgeFollow != nil {
		summary.Following = int64Ptr(user.EdgeFollow.Count)
	}

	return summary, nil
}

// MapMediaPage converts the timeline GraphQL response into a MediaPage
func MapMediaPage(resp *instagram.MediaQueryResponse) (*MediaPage, error) {
	if resp == nil || resp.Data == nil || resp.Data.User == nil {
		return nil, missing("data.user")
	}
	conn := resp.Data.User.EdgeOwnerToTimelineMedia
	if conn == nil {
		return nil, missing("data.user.edge_owner_to_timeline_media")
	}

	media, err := MapMediaItems(conn.Edges)
	if err != nil {
		return nil, err
	}

	page := &MediaPage{Media: media, Count: conn.Count}
	if conn.PageInfo != nil {
		page.PageInfo = PageInfo{
			HasNextPage: conn.PageInfo.HasNextPage,
			EndCursor:   conn.PageInfo.EndCursor,
		}
	}
	return page, nil
}

// MapMediaItems converts timeline edges in order. The result is never nil.
func MapMediaItems(edges []instagram.MediaEdge) ([]MediaItem, error) {
	items := make([]MediaItem, 0, len(edges))
	for i, edge := range edges {
		if edge.Node == nil {
			return nil, missing(fmt.Sprintf("edges[%d].node", i))
		}
		items = append(items, MapMediaNode(edge.Node))
	}
	return items, nil
}

// MapMediaNode converts a single timeline node
func MapMediaNode(node *instagram.MediaNode) MediaItem {
	item := MediaItem{
		ID:                   node.ID,
		Shortcode:            node.Shortcode,
		DisplayURL:           node.DisplayURL,
		ThumbnailSrc:         node.ThumbnailSrc,
		IsVideo:              node.IsVideo,
		AccessibilityCaption: node.AccessibilityCaption,
		Caption:              firstCaption(node.EdgeMediaToCaption),
		Timestamp:            node.TakenAtTimestamp,
		IsReel:               IsReel(node),
	}

	if node.IsVideo {
		item.VideoURL = node.VideoURL
	}
	if node.EdgeMediaPreviewLike != nil {
		item.Likes = int64Ptr(node.EdgeMediaPreviewLike.Count)
	}
	if node.EdgeMediaToComment != nil {
		item.Comments = int64Ptr(node.EdgeMediaToComment.Count)
	}
	if node.Location != nil {
		item.Location = node.Location.Name
	}
	if node.Dimensions != nil {
		item.Dimensions = Dimensions{Height: node.Dimensions.Height, Width: node.Dimensions.Width}
	}

	return item
}

// IsReel reports whether a node is a clip: a video whose product type is clips
func IsReel(node *instagram.MediaNode) bool {
	return node.Typename == "GraphVideo" && node.ProductType == "clips"
}

func firstCaption(conn *instagram.CaptionConnection) string {
	if conn == nil || len(conn.Edges) == 0 || conn.Edges[0].Node == nil {
		return ""
	}
	return conn.Edges[0].Node.Text
}

// MapStories converts the story feed. A missing reel container means no stories.
func MapStories(userID string, resp *instagram.StoryResponse) *StoryList {
	stories := make([]StoryItem, 0)
	if resp != nil && resp.Reel != nil {
		for _, raw := range resp.Reel.Items {
			stories = append(stories, mapStoryItem(raw))
		}
	}

	return &StoryList{
		UserID:     userID,
		Stories:    stories,
		HasStories: len(stories) > 0,
	}
}

// EmptyStories is the response for a user with no active stories
func EmptyStories(userID string) *StoryList {
	return MapStories(userID, nil)
}

func mapStoryItem(raw instagram.StoryItem) StoryItem {
	item := StoryItem{
		ID:         raw.ID,
		TakenAt:    raw.TakenAt,
		ExpiringAt: raw.ExpiringAt,
		MediaType:  raw.MediaType,
	}

	switch raw.MediaType {
	case instagram.MediaTypeImage:
		item.ImageURL = raw.ImageVersions2.FirstURL()
	case instagram.MediaTypeVideo:
		item.VideoURL = instagram.FirstVideoURL(raw.VideoVersions)
		item.Duration = raw.VideoDuration
		item.HasAudio = raw.HasAudio != nil && *raw.HasAudio
	}

	return item
}

// MapReels converts the clips listing
func MapReels(resp *instagram.ClipsResponse) (*ReelPage, error) {
	if resp == nil {
		return nil, missing("body")
	}
	// absent and null decode to nil; [] is a valid empty page
	if resp.Items == nil {
		return nil, missing("items")
	}

	reels := make([]ReelItem, 0, len(resp.Items))
	for i, item := range resp.Items {
		if item.Media == nil {
			return nil, missing(fmt.Sprintf("items[%d].media", i))
		}
		reels = append(reels, mapReel(item.Media))
	}

	page := &ReelPage{Reels: reels}
	if resp.PagingInfo != nil {
		page.HasMore = resp.PagingInfo.MoreAvailable
		page.NextMaxID = resp.PagingInfo.MaxID
	}
	return page, nil
}

func mapReel(media *instagram.ClipMedia) ReelItem {
	reel := ReelItem{
		ID:           media.ID,
		Code:         media.Code,
		ThumbnailURL: media.ImageVersions2.FirstURL(),
		VideoURL:     instagram.FirstVideoURL(media.VideoVersions),
		ViewCount:    media.ViewCount,
		PlayCount:    media.PlayCount,
		Duration:     media.VideoDuration,
		CreatedAt:    media.TakenAt,
	}
	if media.Caption != nil {
		text := media.Caption.Text
		reel.Caption = &text
	}
	return reel
}

func int64Ptr(v int64) *int64 {
	return &v
}
