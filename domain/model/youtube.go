package model

// YouTubeVideo represents a YouTube video
type YouTubeVideo struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	ThumbnailURL    string   `json:"thumbnailUrl,omitempty"`
	Duration        string   `json:"duration,omitempty"`
	DurationSeconds int      `json:"durationSeconds"`
	ViewCount       int64    `json:"viewCount"`
	LikeCount       int64    `json:"likeCount"`
	CommentCount    int64    `json:"commentCount"`
	PublishedAt     string   `json:"publishedAt,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	CategoryID      string   `json:"categoryId,omitempty"`
	ChannelID       string   `json:"channelId"`
	ChannelTitle    string   `json:"channelTitle,omitempty"`
}

// YouTubeChannel represents a YouTube channel
type YouTubeChannel struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
	SubscriberCount int64  `json:"subscriberCount"`
	VideoCount      int64  `json:"videoCount"`
	ViewCount       int64  `json:"viewCount"`
	PublishedAt     string `json:"publishedAt,omitempty"`
	CustomURL       string `json:"customUrl,omitempty"`
	Country         string `json:"country,omitempty"`
}

// TrendingVideo is a video placed on a regional most-popular chart
type TrendingVideo struct {
	YouTubeVideo
	RankPosition int    `json:"rankPosition"`
	TrendingDate string `json:"trendingDate"`
	Region       string `json:"region"`
}

// SearchResult combines video and channel matches for one query
type SearchResult struct {
	Query        string           `json:"query"`
	Videos       []YouTubeVideo   `json:"videos"`
	Channels     []YouTubeChannel `json:"channels"`
	TotalResults int              `json:"totalResults"`
}

// Result wraps fetched items and records whether they were synthesized
// instead of coming from the YouTube API.
type Result[T any] struct {
	Items    T    `json:"items"`
	Fallback bool `json:"fallback"`
}
