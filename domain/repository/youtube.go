package repository

import (
	"context"

	"viewtrap/domain/model"
)

// IYouTube is the YouTube Data API bound to a single credential. Each method
// is one unit of work for credential rotation.
type IYouTube interface {
	SearchVideos(ctx context.Context, query string, maxResults int64) ([]model.YouTubeVideo, error)
	SearchChannels(ctx context.Context, query string, maxResults int64) ([]model.YouTubeChannel, error)
	GetVideoDetails(ctx context.Context, videoIDs []string) ([]model.YouTubeVideo, error)
	// GetChannelDetails returns nil without error when the channel does not exist.
	GetChannelDetails(ctx context.Context, channelID string) (*model.YouTubeChannel, error)
	GetTrendingVideos(ctx context.Context, regionCode string, maxResults int64) ([]model.TrendingVideo, error)
	GetChannelVideos(ctx context.Context, channelID string, maxResults int64) ([]model.YouTubeVideo, error)
}
