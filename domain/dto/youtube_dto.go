package dto

import "errors"

// ErrInvalidParams is returned when a fetch is requested with an impossible
// parameter combination such as an empty query or a negative result count.
var ErrInvalidParams = errors.New("invalid parameters")

// Cache operation tags
const (
	OperationSearch        = "search"
	OperationTrending      = "trending"
	OperationChannel       = "channel"
	OperationChannelVideos = "channelVideos"
	OperationVideoDetails  = "videoDetails"
	OperationAutocomplete  = "autocomplete"
)

// Search result kinds
const (
	SearchTypeVideos   = "videos"
	SearchTypeChannels = "channels"
)

// CacheParams is the closed set of parameter schemas a cache key can be
// derived from. Field tags name the canonical parameter keys.
type CacheParams interface {
	CacheOperation() string
}

// SearchParams addresses a video or channel search
type SearchParams struct {
	Query      string `url:"query"`
	MaxResults int    `url:"maxResults"`
	Type       string `url:"type"`
}

func (SearchParams) CacheOperation() string { return OperationSearch }

// TrendingParams addresses a regional most-popular chart
type TrendingParams struct {
	RegionCode string `url:"regionCode"`
	MaxResults int    `url:"maxResults"`
}

func (TrendingParams) CacheOperation() string { return OperationTrending }

// ChannelParams addresses a single channel lookup
type ChannelParams struct {
	ChannelID string `url:"channelId"`
}

func (ChannelParams) CacheOperation() string { return OperationChannel }

// ChannelVideosParams addresses the latest uploads of a channel
type ChannelVideosParams struct {
	ChannelID  string `url:"channelId"`
	MaxResults int    `url:"maxResults"`
}

func (ChannelVideosParams) CacheOperation() string { return OperationChannelVideos }

// VideoDetailsParams addresses a batch of video ids, order preserved
type VideoDetailsParams struct {
	IDs []string `url:"ids,comma"`
}

func (VideoDetailsParams) CacheOperation() string { return OperationVideoDetails }

// YouTubeSearchRequest represents query string for GET /api/youtube/search
type YouTubeSearchRequest struct {
	Query      string `form:"query"`
	MaxResults int    `form:"maxResults"`
}

// YouTubeTrendingRequest represents query string for GET /api/youtube/trending
type YouTubeTrendingRequest struct {
	Region     string `form:"region"`
	MaxResults int    `form:"maxResults"`
}

// YouTubeChannelVideosRequest represents query string for channel uploads
type YouTubeChannelVideosRequest struct {
	MaxResults int `form:"maxResults"`
}

// ApiResponse is the envelope every API route responds with
type ApiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// CacheType describes one cached operation and how long it lives
type CacheType struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	TTLSeconds  int    `json:"ttlSeconds"`
}

// CacheStats reports the cache backend in use and its counters
type CacheStats struct {
	Backend     string      `json:"backend"`
	KVAvailable bool        `json:"kvAvailable"`
	MemoryCache bool        `json:"memoryCache"`
	Size        int         `json:"size"`
	Capacity    int         `json:"capacity,omitempty"`
	Hits        int64       `json:"hits"`
	Misses      int64       `json:"misses"`
	Sets        int64       `json:"sets"`
	Environment string      `json:"environment"`
	CacheTypes  []CacheType `json:"cacheTypes,omitempty"`
}

// KeyPoolStatus reports credential rotation state without exposing keys
type KeyPoolStatus struct {
	TotalKeys     int   `json:"totalKeys"`
	ExhaustedKeys []int `json:"exhaustedKeys"`
	CurrentIndex  int   `json:"currentIndex"`
	Shared        bool  `json:"shared"`
}
