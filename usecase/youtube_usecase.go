package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"viewtrap/domain/dto"
	"viewtrap/domain/model"
	"viewtrap/domain/repository"
	"viewtrap/infrastructure/cache"
	ytclient "viewtrap/infrastructure/clients/youtube"
	"viewtrap/infrastructure/logger"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Cache lifetimes per operation
const (
	SearchTTL        = 30 * time.Minute
	TrendingTTL      = time.Hour
	ChannelTTL       = 24 * time.Hour
	ChannelVideosTTL = 2 * time.Hour
	VideoDetailsTTL  = 6 * time.Hour
	AutocompleteTTL  = time.Hour
)

// Result count defaults, used when a caller passes 0
const (
	DefaultSearchResults        = 25
	DefaultChannelSearchResults = 10
	DefaultTrendingResults      = 50
	DefaultChannelVideoResults  = 25
	// MaxResultsLimit is the largest page the YouTube API serves
	MaxResultsLimit = 50

	DefaultRegionCode = "KR"
)

// IYouTubeUseCase defines the read operations served to the HTTP layer
type IYouTubeUseCase interface {
	// Search runs a video search and a channel search for query concurrently
	Search(ctx context.Context, query string, maxResults int) (model.Result[model.SearchResult], error)
	SearchVideos(ctx context.Context, query string, maxResults int) (model.Result[[]model.YouTubeVideo], error)
	SearchChannels(ctx context.Context, query string, maxResults int) (model.Result[[]model.YouTubeChannel], error)
	GetVideoDetails(ctx context.Context, videoIDs []string) (model.Result[[]model.YouTubeVideo], error)
	// GetChannelDetails returns a nil channel when it does not exist
	GetChannelDetails(ctx context.Context, channelID string) (model.Result[*model.YouTubeChannel], error)
	GetTrendingVideos(ctx context.Context, regionCode string, maxResults int) (model.Result[[]model.TrendingVideo], error)
	GetChannelVideos(ctx context.Context, channelID string, maxResults int) (model.Result[[]model.YouTubeVideo], error)

	CacheStats(ctx context.Context) dto.CacheStats
	KeyStatus(ctx context.Context) dto.KeyPoolStatus
}

// YouTubeUseCase serves YouTube reads from the cache first, then the API
// through the key pool, and falls back to demo data when neither works.
type YouTubeUseCase struct {
	cache repository.IYouTubeCache
	pool  *ytclient.Pool[repository.IYouTube]
	group singleflight.Group
}

// NewYouTubeUseCase creates a new YouTube use case instance
func NewYouTubeUseCase(cache repository.IYouTubeCache, pool *ytclient.Pool[repository.IYouTube]) IYouTubeUseCase {
	return &YouTubeUseCase{cache: cache, pool: pool}
}

// CacheTypes describes every cached operation with its lifetime
func CacheTypes() []dto.CacheType {
	return []dto.CacheType{
		{Type: dto.OperationSearch, Description: "Search results (videos/channels)", TTLSeconds: int(SearchTTL / time.Second)},
		{Type: dto.OperationTrending, Description: "Trending videos", TTLSeconds: int(TrendingTTL / time.Second)},
		{Type: dto.OperationChannel, Description: "Channel details", TTLSeconds: int(ChannelTTL / time.Second)},
		{Type: dto.OperationChannelVideos, Description: "Channel video lists", TTLSeconds: int(ChannelVideosTTL / time.Second)},
		{Type: dto.OperationVideoDetails, Description: "Video detail batches", TTLSeconds: int(VideoDetailsTTL / time.Second)},
		{Type: dto.OperationAutocomplete, Description: "Search autocomplete", TTLSeconds: int(AutocompleteTTL / time.Second)},
	}
}

func resolveMaxResults(requested, def int) (int, error) {
	switch {
	case requested < 0:
		return 0, fmt.Errorf("%w: maxResults must not be negative", dto.ErrInvalidParams)
	case requested == 0:
		return def, nil
	case requested > MaxResultsLimit:
		return MaxResultsLimit, nil
	}
	return requested, nil
}

func requireValue(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", dto.ErrInvalidParams, name)
	}
	return value, nil
}

// fetch reads params from the cache, otherwise calls the API through the key
// pool. Concurrent misses for the same params share one call, which runs
// detached from the caller that started it so that its cancellation does not
// fail the others. Fallback data is cached like a real result.
func fetch[T any](
	ctx context.Context,
	u *YouTubeUseCase,
	params dto.CacheParams,
	ttl time.Duration,
	call func(context.Context, repository.IYouTube) (T, error),
	fallback func() T,
) (model.Result[T], error) {
	var cached model.Result[T]
	if u.cache.Get(ctx, params, &cached) {
		return cached, nil
	}
	if err := ctx.Err(); err != nil {
		return model.Result[T]{}, err
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := u.group.DoChan(cache.Key(params), func() (interface{}, error) {
		log := logger.FromContext(flightCtx).WithField("operation", params.CacheOperation())

		var result model.Result[T]
		if u.pool == nil || u.pool.Size() == 0 {
			log.Info("No YouTube API keys configured, using fallback data")
			result = model.Result[T]{Items: fallback(), Fallback: true}
		} else {
			items, err := ytclient.ExecuteWithRetry(flightCtx, u.pool, call)
			if err != nil {
				log.WithField("error", err).Warn("YouTube API unavailable, using fallback data")
				result = model.Result[T]{Items: fallback(), Fallback: true}
			} else {
				result = model.Result[T]{Items: items}
			}
		}

		u.cache.Set(flightCtx, params, result, ttl)
		return result, nil
	})

	select {
	case <-ctx.Done():
		return model.Result[T]{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.Result[T]{}, res.Err
		}
		return res.Val.(model.Result[T]), nil
	}
}

// Search retrieves videos and channels matching query. Channels are limited
// to min(maxResults, 10).
func (u *YouTubeUseCase) Search(ctx context.Context, query string, maxResults int) (model.Result[model.SearchResult], error) {
	query, err := requireValue("query", query)
	if err != nil {
		return model.Result[model.SearchResult]{}, err
	}
	maxResults, err = resolveMaxResults(maxResults, DefaultSearchResults)
	if err != nil {
		return model.Result[model.SearchResult]{}, err
	}
	channelResults := maxResults
	if channelResults > DefaultChannelSearchResults {
		channelResults = DefaultChannelSearchResults
	}

	var (
		videos   model.Result[[]model.YouTubeVideo]
		channels model.Result[[]model.YouTubeChannel]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		videos, err = u.SearchVideos(gctx, query, maxResults)
		return err
	})
	g.Go(func() error {
		var err error
		channels, err = u.SearchChannels(gctx, query, channelResults)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Result[model.SearchResult]{}, err
	}

	return model.Result[model.SearchResult]{
		Items: model.SearchResult{
			Query:        query,
			Videos:       videos.Items,
			Channels:     channels.Items,
			TotalResults: len(videos.Items) + len(channels.Items),
		},
		Fallback: videos.Fallback || channels.Fallback,
	}, nil
}

// SearchVideos searches videos by relevance
func (u *YouTubeUseCase) SearchVideos(ctx context.Context, query string, maxResults int) (model.Result[[]model.YouTubeVideo], error) {
	query, err := requireValue("query", query)
	if err != nil {
		return model.Result[[]model.YouTubeVideo]{}, err
	}
	maxResults, err = resolveMaxResults(maxResults, DefaultSearchResults)
	if err != nil {
		return model.Result[[]model.YouTubeVideo]{}, err
	}

	params := dto.SearchParams{Query: query, MaxResults: maxResults, Type: dto.SearchTypeVideos}
	return fetch(ctx, u, params, SearchTTL,
		func(ctx context.Context, yt repository.IYouTube) ([]model.YouTubeVideo, error) {
			return yt.SearchVideos(ctx, query, int64(maxResults))
		},
		func() []model.YouTubeVideo { return fallbackSearchVideos(query, maxResults) },
	)
}

// SearchChannels searches channels by relevance
func (u *YouTubeUseCase) SearchChannels(ctx context.Context, query string, maxResults int) (model.Result[[]model.YouTubeChannel], error) {
	query, err := requireValue("query", query)
	if err != nil {
		return model.Result[[]model.YouTubeChannel]{}, err
	}
	maxResults, err = resolveMaxResults(maxResults, DefaultChannelSearchResults)
	if err != nil {
		return model.Result[[]model.YouTubeChannel]{}, err
	}

	params := dto.SearchParams{Query: query, MaxResults: maxResults, Type: dto.SearchTypeChannels}
	return fetch(ctx, u, params, SearchTTL,
		func(ctx context.Context, yt repository.IYouTube) ([]model.YouTubeChannel, error) {
			return yt.SearchChannels(ctx, query, int64(maxResults))
		},
		func() []model.YouTubeChannel { return fallbackSearchChannels(maxResults) },
	)
}

// GetVideoDetails retrieves a batch of up to 50 videos. An id holding commas
// counts as several ids.
func (u *YouTubeUseCase) GetVideoDetails(ctx context.Context, videoIDs []string) (model.Result[[]model.YouTubeVideo], error) {
	ids := make([]string, 0, len(videoIDs))
	for _, raw := range videoIDs {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return model.Result[[]model.YouTubeVideo]{}, fmt.Errorf("%w: at least one video id is required", dto.ErrInvalidParams)
	}
	if len(ids) > MaxResultsLimit {
		return model.Result[[]model.YouTubeVideo]{}, fmt.Errorf("%w: at most %d video ids per request", dto.ErrInvalidParams, MaxResultsLimit)
	}

	return fetch(ctx, u, dto.VideoDetailsParams{IDs: ids}, VideoDetailsTTL,
		func(ctx context.Context, yt repository.IYouTube) ([]model.YouTubeVideo, error) {
			return yt.GetVideoDetails(ctx, ids)
		},
		func() []model.YouTubeVideo { return fallbackVideoDetails(ids) },
	)
}

// GetChannelDetails retrieves a single channel
func (u *YouTubeUseCase) GetChannelDetails(ctx context.Context, channelID string) (model.Result[*model.YouTubeChannel], error) {
	channelID, err := requireValue("channelId", channelID)
	if err != nil {
		return model.Result[*model.YouTubeChannel]{}, err
	}

	return fetch(ctx, u, dto.ChannelParams{ChannelID: channelID}, ChannelTTL,
		func(ctx context.Context, yt repository.IYouTube) (*model.YouTubeChannel, error) {
			return yt.GetChannelDetails(ctx, channelID)
		},
		func() *model.YouTubeChannel { return fallbackChannelDetails(channelID) },
	)
}

// GetTrendingVideos retrieves the most popular chart of a region
func (u *YouTubeUseCase) GetTrendingVideos(ctx context.Context, regionCode string, maxResults int) (model.Result[[]model.TrendingVideo], error) {
	regionCode = strings.ToUpper(strings.TrimSpace(regionCode))
	if regionCode == "" {
		regionCode = DefaultRegionCode
	}
	maxResults, err := resolveMaxResults(maxResults, DefaultTrendingResults)
	if err != nil {
		return model.Result[[]model.TrendingVideo]{}, err
	}

	return fetch(ctx, u, dto.TrendingParams{RegionCode: regionCode, MaxResults: maxResults}, TrendingTTL,
		func(ctx context.Context, yt repository.IYouTube) ([]model.TrendingVideo, error) {
			return yt.GetTrendingVideos(ctx, regionCode, int64(maxResults))
		},
		func() []model.TrendingVideo { return fallbackTrending(regionCode, maxResults) },
	)
}

// GetChannelVideos retrieves the latest uploads of a channel
func (u *YouTubeUseCase) GetChannelVideos(ctx context.Context, channelID string, maxResults int) (model.Result[[]model.YouTubeVideo], error) {
	channelID, err := requireValue("channelId", channelID)
	if err != nil {
		return model.Result[[]model.YouTubeVideo]{}, err
	}
	maxResults, err = resolveMaxResults(maxResults, DefaultChannelVideoResults)
	if err != nil {
		return model.Result[[]model.YouTubeVideo]{}, err
	}

	return fetch(ctx, u, dto.ChannelVideosParams{ChannelID: channelID, MaxResults: maxResults}, ChannelVideosTTL,
		func(ctx context.Context, yt repository.IYouTube) ([]model.YouTubeVideo, error) {
			return yt.GetChannelVideos(ctx, channelID, int64(maxResults))
		},
		func() []model.YouTubeVideo { return fallbackChannelVideos(channelID, maxResults) },
	)
}

// CacheStats reports the cache backend counters together with the TTL table
func (u *YouTubeUseCase) CacheStats(ctx context.Context) dto.CacheStats {
	stats := u.cache.Stats(ctx)
	stats.CacheTypes = CacheTypes()
	return stats
}

// KeyStatus reports the key pool rotation state
func (u *YouTubeUseCase) KeyStatus(ctx context.Context) dto.KeyPoolStatus {
	if u.pool == nil {
		return dto.KeyPoolStatus{ExhaustedKeys: []int{}}
	}
	return u.pool.Status(ctx)
}
