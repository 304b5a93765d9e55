package usecase

import (
	"fmt"
	"time"

	"viewtrap/domain/model"
	"viewtrap/infrastructure/utils"
)

// FallbackMessage labels responses built from synthetic data.
const FallbackMessage = "Using demo data - API key may be invalid or quota exceeded"

const (
	fallbackVideoLimit    = 5
	fallbackChannelLimit  = 3
	fallbackTrendingLimit = 3
	fallbackThumbnail     = "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"
	fallbackAvatar        = "https://yt3.ggpht.com/a/default-user=s88-c-k-c0x00ffffff-no-rj"
	fallbackDuration      = 253
)

// Fixed so that repeated synthesis yields identical records.
var fallbackEpoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

var trendingTemplates = []struct {
	title        string
	description  string
	channelTitle string
	tags         []string
	views        int64
	likes        int64
	comments     int64
}{
	{
		title:        "2025 trend forecast every creator should know",
		description:  "The YouTube trends worth watching this year.",
		channelTitle: "Trend Lab",
		tags:         []string{"trend", "2025", "creator", "YouTube"},
		views:        1234567,
		likes:        89012,
		comments:     5678,
	},
	{
		title:        "Designing thumbnails that triple your click-through rate",
		description:  "Use AI tooling to get the most out of every thumbnail.",
		channelTitle: "AI Creator",
		tags:         []string{"AI", "thumbnail", "CTR", "design"},
		views:        987654,
		likes:        67890,
		comments:     3456,
	},
	{
		title:        "Small channels can win too: from 0 to 100k subscribers",
		description:  "A growth playbook for channels just getting started.",
		channelTitle: "YouTube Growth Guide",
		tags:         []string{"YouTube", "growth", "subscribers", "strategy"},
		views:        654321,
		likes:        45678,
		comments:     2345,
	},
}

func capCount(requested, limit int) int {
	if requested < limit {
		return requested
	}
	return limit
}

func fallbackPublishedAt(i int) string {
	return fallbackEpoch.Add(-time.Duration(i) * 24 * time.Hour).Format(time.RFC3339)
}

func fallbackVideo(id, title, channelID, channelTitle string, i int) model.YouTubeVideo {
	return model.YouTubeVideo{
		ID:              id,
		Title:           title,
		Description:     "Demo data shown while the YouTube API is unavailable.",
		ThumbnailURL:    fallbackThumbnail,
		Duration:        utils.FormatISODuration(fallbackDuration),
		DurationSeconds: fallbackDuration,
		ViewCount:       int64(123456 - i*1000),
		LikeCount:       int64(8901 - i*100),
		CommentCount:    int64(234 - i*10),
		PublishedAt:     fallbackPublishedAt(i),
		Tags:            []string{"demo", "viewtrap"},
		CategoryID:      "22",
		ChannelID:       channelID,
		ChannelTitle:    channelTitle,
	}
}

func fallbackSearchVideos(query string, maxResults int) []model.YouTubeVideo {
	n := capCount(maxResults, fallbackVideoLimit)
	videos := make([]model.YouTubeVideo, 0, n)
	for i := 0; i < n; i++ {
		videos = append(videos, fallbackVideo(
			fmt.Sprintf("search-%d", i+1),
			fmt.Sprintf("Sample result %d for %q", i+1, query),
			"mock-channel",
			"Demo Channel",
			i,
		))
	}
	return videos
}

func fallbackChannel(id string, i int) model.YouTubeChannel {
	return model.YouTubeChannel{
		ID:              id,
		Title:           "Demo Channel",
		Description:     "Demo channel shown while the YouTube API is unavailable.",
		ThumbnailURL:    fallbackAvatar,
		SubscriberCount: int64(50000 - i*1000),
		VideoCount:      150,
		ViewCount:       1000000,
		PublishedAt:     fallbackPublishedAt(i),
		CustomURL:       "@demochannel",
		Country:         "KR",
	}
}

func fallbackSearchChannels(maxResults int) []model.YouTubeChannel {
	n := capCount(maxResults, fallbackChannelLimit)
	channels := make([]model.YouTubeChannel, 0, n)
	for i := 0; i < n; i++ {
		channels = append(channels, fallbackChannel(fmt.Sprintf("channel-%d", i+1), i))
	}
	return channels
}

func fallbackChannelDetails(channelID string) *model.YouTubeChannel {
	channel := fallbackChannel(channelID, 0)
	return &channel
}

func fallbackChannelVideos(channelID string, maxResults int) []model.YouTubeVideo {
	n := capCount(maxResults, fallbackVideoLimit)
	videos := make([]model.YouTubeVideo, 0, n)
	for i := 0; i < n; i++ {
		videos = append(videos, fallbackVideo(
			fmt.Sprintf("%s-video-%d", channelID, i+1),
			fmt.Sprintf("Latest upload %d", i+1),
			channelID,
			"Demo Channel",
			i,
		))
	}
	return videos
}

func fallbackVideoDetails(ids []string) []model.YouTubeVideo {
	videos := make([]model.YouTubeVideo, 0, len(ids))
	for i, id := range ids {
		videos = append(videos, fallbackVideo(id, fmt.Sprintf("Video %s", id), "mock-channel", "Demo Channel", i))
	}
	return videos
}

func fallbackTrending(regionCode string, maxResults int) []model.TrendingVideo {
	n := capCount(maxResults, fallbackTrendingLimit)
	trendingDate := utils.GetCurrentTime().Truncate(24 * time.Hour).Format(time.RFC3339)
	videos := make([]model.TrendingVideo, 0, n)
	for i := 0; i < n; i++ {
		tpl := trendingTemplates[i]
		video := fallbackVideo(fmt.Sprintf("mock-%d", i+1), tpl.title, fmt.Sprintf("mock-channel-%d", i+1), tpl.channelTitle, i)
		video.Description = tpl.description
		video.Tags = tpl.tags
		video.ViewCount = tpl.views
		video.LikeCount = tpl.likes
		video.CommentCount = tpl.comments
		videos = append(videos, model.TrendingVideo{
			YouTubeVideo: video,
			RankPosition: i + 1,
			TrendingDate: trendingDate,
			Region:       regionCode,
		})
	}
	return videos
}
