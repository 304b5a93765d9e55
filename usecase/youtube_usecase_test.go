package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"viewtrap/domain/dto"
	"viewtrap/domain/model"
	"viewtrap/domain/repository"
	"viewtrap/infrastructure/cache"
	ytclient "viewtrap/infrastructure/clients/youtube"
	"viewtrap/usecase"
)

var errQuota = errors.New("quotaExceeded: daily limit exceeded")

type MockYouTube struct {
	mock.Mock
}

func (m *MockYouTube) SearchVideos(ctx context.Context, query string, maxResults int64) ([]model.YouTubeVideo, error) {
	args := m.Called(ctx, query, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.YouTubeVideo), args.Error(1)
}

func (m *MockYouTube) SearchChannels(ctx context.Context, query string, maxResults int64) ([]model.YouTubeChannel, error) {
	args := m.Called(ctx, query, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.YouTubeChannel), args.Error(1)
}

func (m *MockYouTube) GetVideoDetails(ctx context.Context, videoIDs []string) ([]model.YouTubeVideo, error) {
	args := m.Called(ctx, videoIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.YouTubeVideo), args.Error(1)
}

func (m *MockYouTube) GetChannelDetails(ctx context.Context, channelID string) (*model.YouTubeChannel, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.YouTubeChannel), args.Error(1)
}

func (m *MockYouTube) GetTrendingVideos(ctx context.Context, regionCode string, maxResults int64) ([]model.TrendingVideo, error) {
	args := m.Called(ctx, regionCode, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TrendingVideo), args.Error(1)
}

func (m *MockYouTube) GetChannelVideos(ctx context.Context, channelID string, maxResults int64) ([]model.YouTubeVideo, error) {
	args := m.Called(ctx, channelID, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.YouTubeVideo), args.Error(1)
}

type fixture struct {
	uc      usecase.IYouTubeUseCase
	store   *cache.Store
	pool    *ytclient.Pool[repository.IYouTube]
	clients map[string]*MockYouTube
	now     time.Time
}

// newFixture builds a use case over a memory cache and one mock client per key.
func newFixture(keys ...string) *fixture {
	f := &fixture{
		clients: make(map[string]*MockYouTube),
		now:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, key := range keys {
		f.clients[key] = new(MockYouTube)
	}
	f.store = cache.NewStore(cache.NewMemoryBackend(cache.DefaultMaxEntries), cache.Options{
		Environment: "test",
		Now:         func() time.Time { return f.now },
	})
	factory := func(ctx context.Context, key string) (repository.IYouTube, error) {
		return f.clients[key], nil
	}
	f.pool = ytclient.NewPool(keys, factory, ytclient.PoolOptions{})
	f.uc = usecase.NewYouTubeUseCase(f.store, f.pool)
	return f
}

func sampleVideos(ids ...string) []model.YouTubeVideo {
	videos := make([]model.YouTubeVideo, 0, len(ids))
	for _, id := range ids {
		videos = append(videos, model.YouTubeVideo{ID: id, Title: "title " + id, ViewCount: 10})
	}
	return videos
}

func TestSearchVideos_EmptyPoolUsesCachedFallback(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.uc.SearchVideos(ctx, "test", 5)

	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.NotEmpty(t, result.Items)
	assert.LessOrEqual(t, len(result.Items), 5)

	var cached model.Result[[]model.YouTubeVideo]
	params := dto.SearchParams{Query: "test", MaxResults: 5, Type: dto.SearchTypeVideos}
	require.True(t, f.store.Get(ctx, params, &cached))
	assert.Equal(t, result, cached)

	again, err := f.uc.SearchVideos(ctx, "test", 5)
	require.NoError(t, err)
	assert.True(t, again.Fallback)
	assert.Equal(t, result, again)
}

func TestGetTrendingVideos_CachedForAnHour(t *testing.T) {
	f := newFixture("key-0")
	ctx := context.Background()
	trending := []model.TrendingVideo{
		{YouTubeVideo: sampleVideos("t1")[0], RankPosition: 1, Region: "KR"},
		{YouTubeVideo: sampleVideos("t2")[0], RankPosition: 2, Region: "KR"},
	}
	f.clients["key-0"].On("GetTrendingVideos", mock.Anything, "KR", int64(10)).Return(trending, nil)

	first, err := f.uc.GetTrendingVideos(ctx, "KR", 10)
	require.NoError(t, err)
	assert.False(t, first.Fallback)
	assert.Equal(t, trending, first.Items)

	f.now = f.now.Add(time.Second)
	second, err := f.uc.GetTrendingVideos(ctx, "kr", 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	f.clients["key-0"].AssertNumberOfCalls(t, "GetTrendingVideos", 1)

	f.now = f.now.Add(usecase.TrendingTTL)
	_, err = f.uc.GetTrendingVideos(ctx, "KR", 10)
	require.NoError(t, err)
	f.clients["key-0"].AssertNumberOfCalls(t, "GetTrendingVideos", 2)
}

func TestSearchVideos_RotatesOnQuotaError(t *testing.T) {
	f := newFixture("key-0", "key-1")
	ctx := context.Background()
	videos := sampleVideos("v1", "v2")
	f.clients["key-0"].On("SearchVideos", mock.Anything, "golang", int64(5)).Return(nil, errQuota)
	f.clients["key-1"].On("SearchVideos", mock.Anything, "golang", int64(5)).Return(videos, nil)

	result, err := f.uc.SearchVideos(ctx, "golang", 5)

	require.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.Equal(t, videos, result.Items)
	status := f.uc.KeyStatus(ctx)
	assert.Equal(t, []int{0}, status.ExhaustedKeys)
	assert.Equal(t, 1, status.CurrentIndex)
	f.clients["key-0"].AssertExpectations(t)
	f.clients["key-1"].AssertExpectations(t)
}

func TestSearchVideos_NonQuotaErrorFallsBackOnce(t *testing.T) {
	f := newFixture("key-0", "key-1")
	ctx := context.Background()
	f.clients["key-0"].On("SearchVideos", mock.Anything, "golang", int64(25)).Return(nil, errors.New("connection reset by peer"))

	result, err := f.uc.SearchVideos(ctx, "golang", 0)
	require.NoError(t, err)
	assert.True(t, result.Fallback)

	_, err = f.uc.SearchVideos(ctx, "golang", 25)
	require.NoError(t, err)
	f.clients["key-0"].AssertNumberOfCalls(t, "SearchVideos", 1)
	f.clients["key-1"].AssertNotCalled(t, "SearchVideos", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.uc.KeyStatus(ctx).ExhaustedKeys)
}

func TestFallbackIsDeterministic(t *testing.T) {
	ctx := context.Background()
	a, b := newFixture(), newFixture()

	videosA, err := a.uc.SearchVideos(ctx, "cats", 3)
	require.NoError(t, err)
	videosB, err := b.uc.SearchVideos(ctx, "cats", 3)
	require.NoError(t, err)
	assert.Equal(t, videosA, videosB)
	assert.Len(t, videosA.Items, 3)

	uploadsA, err := a.uc.GetChannelVideos(ctx, "UC123", 10)
	require.NoError(t, err)
	uploadsB, err := b.uc.GetChannelVideos(ctx, "UC123", 10)
	require.NoError(t, err)
	assert.Equal(t, uploadsA, uploadsB)
	for _, v := range uploadsA.Items {
		assert.Equal(t, "UC123", v.ChannelID)
		assert.Equal(t, 253, v.DurationSeconds)
		assert.Equal(t, "PT4M13S", v.Duration)
	}

	trendingA, err := a.uc.GetTrendingVideos(ctx, "US", 10)
	require.NoError(t, err)
	trendingB, err := b.uc.GetTrendingVideos(ctx, "US", 10)
	require.NoError(t, err)
	assert.Equal(t, trendingA, trendingB)
	require.Len(t, trendingA.Items, 3)
	assert.Equal(t, 1, trendingA.Items[0].RankPosition)
	assert.Equal(t, "US", trendingA.Items[2].Region)

	channel, err := a.uc.GetChannelDetails(ctx, "UC123")
	require.NoError(t, err)
	require.NotNil(t, channel.Items)
	assert.Equal(t, "UC123", channel.Items.ID)
}

func TestInvalidParams(t *testing.T) {
	f := newFixture("key-0")
	ctx := context.Background()

	_, err := f.uc.SearchVideos(ctx, "test", -1)
	assert.ErrorIs(t, err, dto.ErrInvalidParams)
	_, err = f.uc.SearchVideos(ctx, "   ", 5)
	assert.ErrorIs(t, err, dto.ErrInvalidParams)
	_, err = f.uc.Search(ctx, "test", -3)
	assert.ErrorIs(t, err, dto.ErrInvalidParams)
	_, err = f.uc.GetTrendingVideos(ctx, "KR", -10)
	assert.ErrorIs(t, err, dto.ErrInvalidParams)
	_, err = f.uc.GetChannelDetails(ctx, "")
	assert.ErrorIs(t, err, dto.ErrInvalidParams)
	_, err = f.uc.GetChannelVideos(ctx, "", 5)
	assert.ErrorIs(t, err, dto.ErrInvalidParams)
	_, err = f.uc.GetVideoDetails(ctx, []string{"", " "})
	assert.ErrorIs(t, err, dto.ErrInvalidParams)

	f.clients["key-0"].AssertNotCalled(t, "SearchVideos", mock.Anything, mock.Anything, mock.Anything)
}

func TestMaxResultsIsClamped(t *testing.T) {
	f := newFixture("key-0")
	f.clients["key-0"].On("GetChannelVideos", mock.Anything, "UC1", int64(50)).Return(sampleVideos("a"), nil)

	result, err := f.uc.GetChannelVideos(context.Background(), "UC1", 500)

	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	f.clients["key-0"].AssertExpectations(t)
}

func TestGetChannelDetails_NotFoundIsCached(t *testing.T) {
	f := newFixture("key-0")
	ctx := context.Background()
	f.clients["key-0"].On("GetChannelDetails", mock.Anything, "missing").Return(nil, nil)

	result, err := f.uc.GetChannelDetails(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, result.Items)
	assert.False(t, result.Fallback)

	again, err := f.uc.GetChannelDetails(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, again.Items)
	f.clients["key-0"].AssertNumberOfCalls(t, "GetChannelDetails", 1)
}

func TestGetVideoDetails_KeepsOrder(t *testing.T) {
	f := newFixture("key-0")
	videos := sampleVideos("b", "a")
	f.clients["key-0"].On("GetVideoDetails", mock.Anything, []string{"b", "a"}).Return(videos, nil)

	result, err := f.uc.GetVideoDetails(context.Background(), []string{"b", " a "})

	require.NoError(t, err)
	assert.Equal(t, videos, result.Items)
}

func TestSearch_CombinesVideosAndChannels(t *testing.T) {
	f := newFixture("key-0")
	channels := []model.YouTubeChannel{{ID: "c1", Title: "One"}}
	f.clients["key-0"].On("SearchVideos", mock.Anything, "golang", int64(25)).Return(sampleVideos("v1", "v2"), nil)
	f.clients["key-0"].On("SearchChannels", mock.Anything, "golang", int64(10)).Return(channels, nil)

	result, err := f.uc.Search(context.Background(), "golang", 0)

	require.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.Equal(t, "golang", result.Items.Query)
	assert.Len(t, result.Items.Videos, 2)
	assert.Equal(t, channels, result.Items.Channels)
	assert.Equal(t, 3, result.Items.TotalResults)
	f.clients["key-0"].AssertExpectations(t)
}

func TestSearch_FallbackFlagPropagates(t *testing.T) {
	f := newFixture("key-0")
	f.clients["key-0"].On("SearchVideos", mock.Anything, "golang", int64(5)).Return(sampleVideos("v1"), nil)
	f.clients["key-0"].On("SearchChannels", mock.Anything, "golang", int64(5)).Return(nil, errors.New("backend error"))

	result, err := f.uc.Search(context.Background(), "golang", 5)

	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Len(t, result.Items.Videos, 1)
	assert.NotEmpty(t, result.Items.Channels)
}

func TestCanceledContextIsNotCached(t *testing.T) {
	f := newFixture("key-0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.uc.SearchVideos(ctx, "golang", 5)

	assert.ErrorIs(t, err, context.Canceled)
	var cached model.Result[[]model.YouTubeVideo]
	params := dto.SearchParams{Query: "golang", MaxResults: 5, Type: dto.SearchTypeVideos}
	assert.False(t, f.store.Get(context.Background(), params, &cached))
}

func TestSearchVideos_SharedCallSurvivesFirstCallerCancel(t *testing.T) {
	f := newFixture("key-0")
	videos := sampleVideos("v1", "v2")
	started := make(chan struct{})
	release := make(chan struct{})
	f.clients["key-0"].On("SearchVideos", mock.Anything, "golang", int64(5)).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(videos, nil).Once()

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := f.uc.SearchVideos(firstCtx, "golang", 5)
		firstErr <- err
	}()
	<-started

	type outcome struct {
		result model.Result[[]model.YouTubeVideo]
		err    error
	}
	second := make(chan outcome, 1)
	go func() {
		result, err := f.uc.SearchVideos(context.Background(), "golang", 5)
		second <- outcome{result, err}
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	close(release)

	got := <-second
	require.NoError(t, got.err)
	assert.False(t, got.result.Fallback)
	assert.Equal(t, videos, got.result.Items)
	f.clients["key-0"].AssertNumberOfCalls(t, "SearchVideos", 1)

	var cached model.Result[[]model.YouTubeVideo]
	params := dto.SearchParams{Query: "golang", MaxResults: 5, Type: dto.SearchTypeVideos}
	require.True(t, f.store.Get(context.Background(), params, &cached))
	assert.Equal(t, videos, cached.Items)
}

func TestGetVideoDetails_DistinctBatchesDoNotShareCall(t *testing.T) {
	f := newFixture("key-0")
	spaced := sampleVideos("a b")
	pair := sampleVideos("a", "b")
	started := make(chan struct{})
	release := make(chan struct{})
	f.clients["key-0"].On("GetVideoDetails", mock.Anything, []string{"a b"}).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(spaced, nil).Once()
	f.clients["key-0"].On("GetVideoDetails", mock.Anything, []string{"a", "b"}).Return(pair, nil).Once()

	first := make(chan model.Result[[]model.YouTubeVideo], 1)
	go func() {
		result, _ := f.uc.GetVideoDetails(context.Background(), []string{"a b"})
		first <- result
	}()
	<-started

	done := make(chan model.Result[[]model.YouTubeVideo], 1)
	go func() {
		result, _ := f.uc.GetVideoDetails(context.Background(), []string{"a", "b"})
		done <- result
	}()
	select {
	case result := <-done:
		assert.Equal(t, pair, result.Items)
	case <-time.After(2 * time.Second):
		t.Fatal("second batch waited on an unrelated call")
	}

	close(release)
	assert.Equal(t, spaced, (<-first).Items)
}

func TestGetVideoDetails_SplitsCommaSeparatedIDs(t *testing.T) {
	f := newFixture("key-0")
	videos := sampleVideos("a", "b", "c")
	f.clients["key-0"].On("GetVideoDetails", mock.Anything, []string{"a", "b", "c"}).Return(videos, nil).Once()

	result, err := f.uc.GetVideoDetails(context.Background(), []string{"a, b", "c"})
	require.NoError(t, err)
	assert.Equal(t, videos, result.Items)

	again, err := f.uc.GetVideoDetails(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, result, again)
	f.clients["key-0"].AssertNumberOfCalls(t, "GetVideoDetails", 1)
}

func TestCacheStats_IncludesCacheTypes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.uc.GetTrendingVideos(ctx, "", 0)
	require.NoError(t, err)

	stats := f.uc.CacheStats(ctx)

	assert.Equal(t, "memory", stats.Backend)
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, int64(1), stats.Sets)
	assert.Len(t, stats.CacheTypes, 6)
	assert.Equal(t, dto.OperationSearch, stats.CacheTypes[0].Type)
	assert.Equal(t, 1800, stats.CacheTypes[0].TTLSeconds)
}
