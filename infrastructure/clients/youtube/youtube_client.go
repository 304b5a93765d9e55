package youtube

import (
	"context"
	"fmt"
	"strings"
	"time"

	"viewtrap/domain/model"
	"viewtrap/domain/repository"
	"viewtrap/infrastructure/utils"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Client is the YouTube Data API bound to one API key
type Client struct {
	service           *youtube.Service
	regionCode        string
	relevanceLanguage string
}

// Config represents YouTube API configuration shared by every key
type Config struct {
	RegionCode        string
	RelevanceLanguage string
	// Options are appended after the API key, e.g. a test endpoint
	Options []option.ClientOption
}

// NewYouTubeClient creates a read-only client authenticated with apiKey
func NewYouTubeClient(ctx context.Context, apiKey string, config Config) (*Client, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, config.Options...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service with API key: %w", err)
	}
	return &Client{
		service:           service,
		regionCode:        config.RegionCode,
		relevanceLanguage: config.RelevanceLanguage,
	}, nil
}

// NewClientFactory returns a pool factory producing one Client per key
func NewClientFactory(config Config) ClientFactory[repository.IYouTube] {
	return func(ctx context.Context, apiKey string) (repository.IYouTube, error) {
		return NewYouTubeClient(ctx, apiKey, config)
	}
}

// SearchVideos searches videos by relevance and returns their full details
func (c *Client) SearchVideos(ctx context.Context, query string, maxResults int64) ([]model.YouTubeVideo, error) {
	call := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(maxResults).
		Order("relevance")
	if c.regionCode != "" {
		call = call.RegionCode(c.regionCode)
	}
	if c.relevanceLanguage != "" {
		call = call.RelevanceLanguage(c.relevanceLanguage)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}

	var videoIDs []string
	for _, item := range response.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			videoIDs = append(videoIDs, item.Id.VideoId)
		}
	}
	return c.GetVideoDetails(ctx, videoIDs)
}

// SearchChannels searches channels by relevance and returns their details in search order
func (c *Client) SearchChannels(ctx context.Context, query string, maxResults int64) ([]model.YouTubeChannel, error) {
	call := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("channel").
		MaxResults(maxResults).
		Order("relevance")
	if c.regionCode != "" {
		call = call.RegionCode(c.regionCode)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search channels: %w", err)
	}

	var channelIDs []string
	for _, item := range response.Items {
		if item.Id != nil && item.Id.ChannelId != "" {
			channelIDs = append(channelIDs, item.Id.ChannelId)
		}
	}
	if len(channelIDs) == 0 {
		return []model.YouTubeChannel{}, nil
	}

	details, err := c.service.Channels.List([]string{"snippet", "statistics"}).
		Id(strings.Join(channelIDs, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel details: %w", err)
	}
	byID := make(map[string]model.YouTubeChannel, len(details.Items))
	for _, item := range details.Items {
		byID[item.Id] = convertToYouTubeChannel(item)
	}
	channels := make([]model.YouTubeChannel, 0, len(channelIDs))
	for _, id := range channelIDs {
		if ch, ok := byID[id]; ok {
			channels = append(channels, ch)
		}
	}
	return channels, nil
}

// GetVideoDetails retrieves details for a batch of videos
func (c *Client) GetVideoDetails(ctx context.Context, videoIDs []string) ([]model.YouTubeVideo, error) {
	if len(videoIDs) == 0 {
		return []model.YouTubeVideo{}, nil
	}
	response, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(strings.Join(videoIDs, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video details: %w", err)
	}

	videos := make([]model.YouTubeVideo, 0, len(response.Items))
	for _, item := range response.Items {
		videos = append(videos, convertToYouTubeVideo(item))
	}
	return videos, nil
}

// GetChannelDetails retrieves a channel, nil when it does not exist
func (c *Client) GetChannelDetails(ctx context.Context, channelID string) (*model.YouTubeChannel, error) {
	response, err := c.service.Channels.List([]string{"snippet", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel details: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, nil
	}
	channel := convertToYouTubeChannel(response.Items[0])
	return &channel, nil
}

// GetTrendingVideos retrieves the most popular chart of a region
func (c *Client) GetTrendingVideos(ctx context.Context, regionCode string, maxResults int64) ([]model.TrendingVideo, error) {
	response, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Chart("mostPopular").
		RegionCode(regionCode).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get trending videos: %w", err)
	}

	trendingDate := utils.GetCurrentTime().Format(time.RFC3339)
	videos := make([]model.TrendingVideo, 0, len(response.Items))
	for i, item := range response.Items {
		videos = append(videos, model.TrendingVideo{
			YouTubeVideo: convertToYouTubeVideo(item),
			RankPosition: i + 1,
			TrendingDate: trendingDate,
			Region:       regionCode,
		})
	}
	return videos, nil
}

// GetChannelVideos retrieves the latest uploads of a channel with full details
func (c *Client) GetChannelVideos(ctx context.Context, channelID string, maxResults int64) ([]model.YouTubeVideo, error) {
	response, err := c.service.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel videos: %w", err)
	}

	var videoIDs []string
	for _, item := range response.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			videoIDs = append(videoIDs, item.Id.VideoId)
		}
	}
	return c.GetVideoDetails(ctx, videoIDs)
}

// convertToYouTubeVideo converts YouTube API video to our model. Missing
// parts leave their fields zero.
func convertToYouTubeVideo(video *youtube.Video) model.YouTubeVideo {
	ytVideo := model.YouTubeVideo{ID: video.Id}
	if video.Snippet != nil {
		ytVideo.Title = video.Snippet.Title
		ytVideo.Description = video.Snippet.Description
		ytVideo.PublishedAt = video.Snippet.PublishedAt
		ytVideo.Tags = video.Snippet.Tags
		ytVideo.CategoryID = video.Snippet.CategoryId
		ytVideo.ChannelID = video.Snippet.ChannelId
		ytVideo.ChannelTitle = video.Snippet.ChannelTitle
		ytVideo.ThumbnailURL = bestThumbnail(video.Snippet.Thumbnails)
	}
	if video.Statistics != nil {
		ytVideo.ViewCount = int64(video.Statistics.ViewCount)
		ytVideo.LikeCount = int64(video.Statistics.LikeCount)
		ytVideo.CommentCount = int64(video.Statistics.CommentCount)
	}
	if video.ContentDetails != nil {
		ytVideo.Duration = video.ContentDetails.Duration
		ytVideo.DurationSeconds = utils.ParseDuration(video.ContentDetails.Duration)
	}
	return ytVideo
}

func convertToYouTubeChannel(channel *youtube.Channel) model.YouTubeChannel {
	ytChannel := model.YouTubeChannel{ID: channel.Id}
	if channel.Snippet != nil {
		ytChannel.Title = channel.Snippet.Title
		ytChannel.Description = channel.Snippet.Description
		ytChannel.PublishedAt = channel.Snippet.PublishedAt
		ytChannel.CustomURL = channel.Snippet.CustomUrl
		ytChannel.Country = channel.Snippet.Country
		ytChannel.ThumbnailURL = bestThumbnail(channel.Snippet.Thumbnails)
	}
	if channel.Statistics != nil {
		ytChannel.SubscriberCount = int64(channel.Statistics.SubscriberCount)
		ytChannel.VideoCount = int64(channel.Statistics.VideoCount)
		ytChannel.ViewCount = int64(channel.Statistics.ViewCount)
	}
	return ytChannel
}

func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, thumb := range []*youtube.Thumbnail{t.High, t.Medium, t.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}
