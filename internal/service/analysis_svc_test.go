package service

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mathieu-neron/tubestats/internal/model"
	"github.com/mathieu-neron/tubestats/internal/repository"
	"github.com/mathieu-neron/tubestats/internal/youtube"
)

func rawVideo(id, title string, views int64, published time.Time, tags ...string) youtube.VideoItem {
	return youtube.VideoItem{
		ID: id,
		Snippet: &youtube.Snippet{
			Title:       title,
			ChannelID:   "UC1",
			PublishedAt: published.Format(time.RFC3339),
			Tags:        tags,
		},
		Statistics:     map[string]any{"viewCount": strconv.FormatInt(views, 10), "likeCount": "1", "commentCount": "0"},
		ContentDetails: &youtube.ContentDetails{Duration: "PT10M"},
	}
}

func rawChannel(id, title string, subs, views, videos int64) *youtube.ChannelItem {
	return &youtube.ChannelItem{
		ID:      id,
		Snippet: &youtube.Snippet{Title: title},
		Statistics: map[string]any{
			"subscriberCount": strconv.FormatInt(subs, 10),
			"viewCount":       strconv.FormatInt(views, 10),
			"videoCount":      strconv.FormatInt(videos, 10),
		},
	}
}

func newTestService(t *testing.T, src youtube.Source, repo repository.HistoryRepo) *AnalysisService {
	t.Helper()
	if repo == nil {
		repo = repository.NewFileHistoryRepo(filepath.Join(t.TempDir(), "history.json"))
	}
	history := NewHistoryStore(repo, zerolog.Nop())
	return NewAnalysisService(src, history, zerolog.Nop(), WithNow(func() time.Time { return refNow }))
}

func TestAnalyzeKeyword(t *testing.T) {
	src := newFakeSource()
	src.videos["cooking"] = []youtube.VideoItem{
		rawVideo("a", "cooking basics", 100, refNow.Add(-24*time.Hour), "kitchen"),
		rawVideo("b", "cooking secrets", 10_000, refNow.Add(-48*time.Hour), "kitchen", "chef"),
		{ID: "c", Snippet: &youtube.Snippet{Title: "undated cooking", PublishedAt: "yesterday"}},
	}
	svc := newTestService(t, src, nil)

	res, err := svc.AnalyzeKeyword(context.Background(), "  cooking ", 0)
	require.NoError(t, err)
	require.Equal(t, "cooking", res.Query)
	require.Equal(t, refNow, res.GeneratedAt)

	require.Len(t, res.Videos, 2)
	require.Equal(t, "b", res.Videos[0].VideoID)
	require.InDelta(t, 5000, res.Videos[0].ViewsPerDay, 1e-9)
	require.Len(t, res.Undated, 1)
	require.Equal(t, "c", res.Undated[0].VideoID)

	require.Equal(t, 3, res.Summary.VideoCount)
	require.Equal(t, "cooking", res.TitleKeywords[0].Token)
	require.InDelta(t, 110, res.TitleKeywords[0].Score, 1e-9)
	require.Equal(t, "kitchen", res.TagKeywords[0].Token)
	require.Equal(t, "cooking", res.SuggestedTags[0])
	require.Equal(t, SuggestTitles("cooking", nil), res.SuggestedTitles)
	require.Len(t, res.ContentIdeas, 7)
	require.NotEmpty(t, res.BestSlots)
}

func TestAnalyzeKeyword_InsufficientData(t *testing.T) {
	svc := newTestService(t, newFakeSource(), nil)

	_, err := svc.AnalyzeKeyword(context.Background(), "nothing", 10)
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = svc.AnalyzeKeyword(context.Background(), "   ", 10)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestAnalyzeKeyword_UpstreamErrorKeepsKind(t *testing.T) {
	src := newFakeSource()
	src.err = &youtube.Error{Kind: youtube.KindQuota, Status: 403, Reason: "quotaExceeded"}
	svc := newTestService(t, src, nil)

	_, err := svc.AnalyzeKeyword(context.Background(), "cooking", 10)
	require.Error(t, err)
	require.Equal(t, youtube.KindQuota, youtube.KindOf(err))
}

func TestAnalyzeChannel(t *testing.T) {
	src := newFakeSource()
	src.channels["UC1"] = rawChannel("UC1", "Chef", 5000, 1_000_000, 42)
	src.uploads["UC1"] = []youtube.VideoItem{
		rawVideo("old", "braised short ribs", 400, refNow.Add(-48*time.Hour)),
		rawVideo("new", "quick ramen", 200, refNow.Add(-24*time.Hour)),
	}
	svc := newTestService(t, src, nil)

	res, err := svc.AnalyzeChannel(context.Background(), "UC1", 50)
	require.NoError(t, err)
	require.Equal(t, "Chef", res.Channel.Title)
	require.Equal(t, "new", res.Videos[0].VideoID)
	require.Equal(t, "old", res.TopVideos[0].VideoID)
	require.Equal(t, model.Grade("B2"), res.Grade)
	require.InDelta(t, 40, res.DailyRatio, 1e-9)

	e := res.Entry
	require.Equal(t, "UC1", e.ChannelID)
	require.Equal(t, 2, e.RecentVideoCount)
	require.InDelta(t, 300, e.RecentAvgViews, 1e-9)
	require.InDelta(t, 200, e.RecentAvgDailyViews, 1e-9)
	require.Equal(t, 2, e.UploadsLast30Days)
	require.Equal(t, refNow, e.AnalyzedAt)
	require.NotEmpty(t, res.Heatmap)
	require.Contains(t, res.SuggestedTitles[0], "Chef")
	require.Len(t, res.ContentIdeas, 7)
}

func TestAnalyzeChannel_NoUploadsIsUngraded(t *testing.T) {
	src := newFakeSource()
	src.channels["UC1"] = rawChannel("UC1", "Quiet", 5000, 10, 0)
	svc := newTestService(t, src, nil)

	res, err := svc.AnalyzeChannel(context.Background(), "UC1", 50)
	require.NoError(t, err)
	require.Equal(t, model.Ungraded, res.Grade)
	require.Empty(t, res.Videos)
	require.Len(t, res.ContentIdeas, 5)
}

func TestAnalyzeChannel_NotFound(t *testing.T) {
	svc := newTestService(t, newFakeSource(), nil)
	_, err := svc.AnalyzeChannel(context.Background(), "nope", 50)
	require.True(t, youtube.IsNotFound(err))
}

func TestSaveChannel(t *testing.T) {
	src := newFakeSource()
	src.channels["X"] = rawChannel("X", "Ex", 5000, 1, 1)
	src.uploads["X"] = []youtube.VideoItem{rawVideo("v", "hello world", 200, refNow.Add(-24*time.Hour))}
	svc := newTestService(t, src, nil)
	ctx := context.Background()

	_, err := svc.SaveChannel(ctx, "X", 10)
	require.NoError(t, err)
	_, err = svc.SaveChannel(ctx, "X", 10)
	require.NoError(t, err)

	hist := svc.History(ctx)
	require.Len(t, hist, 1)
	require.Equal(t, "X", hist[0].ChannelID)

	require.NoError(t, svc.ClearHistory(ctx))
	require.Empty(t, svc.History(ctx))
}

func TestSaveChannel_WriteFailureKeepsAnalysis(t *testing.T) {
	src := newFakeSource()
	src.channels["X"] = rawChannel("X", "Ex", 5000, 1, 1)
	svc := newTestService(t, src, &failingRepo{})

	res, err := svc.SaveChannel(context.Background(), "X", 10)
	require.ErrorIs(t, err, ErrHistoryWrite)
	require.NotNil(t, res)
	require.Equal(t, "X", res.Channel.ChannelID)
}

func TestSearchChannels(t *testing.T) {
	src := newFakeSource()
	src.hits = []youtube.SearchItem{
		{ID: youtube.SearchID{Kind: "youtube#channel", ChannelID: "UC1"}, Snippet: &youtube.Snippet{Title: "One"}},
		{ID: youtube.SearchID{Kind: "youtube#channel"}},
	}
	svc := newTestService(t, src, nil)

	got, err := svc.SearchChannels(context.Background(), "one", 5)
	require.NoError(t, err)
	require.Equal(t, []model.ChannelCandidate{{ChannelID: "UC1", Title: "One"}}, got)
}

func TestBenchmark(t *testing.T) {
	src := newFakeSource()
	src.channels["a"] = rawChannel("a", "A", 100, 9_000, 5)
	src.channels["b"] = rawChannel("b", "B", 500, 1_000, 5)
	src.channels["c"] = rawChannel("c", "C", 500, 2_000, 80)
	svc := newTestService(t, src, nil)

	res, err := svc.Benchmark(context.Background(), []string{"a", "b", "a", "missing", "c"})
	require.NoError(t, err)
	require.Len(t, res.Channels, 3)
	require.Equal(t, []string{"missing"}, res.MissingChannels)
	require.Equal(t, "b", res.TopSubscribers.ChannelID)
	require.Equal(t, "a", res.TopViews.ChannelID)
	require.Equal(t, "c", res.TopVideoCount.ChannelID)
}

func TestBenchmark_Bounds(t *testing.T) {
	src := newFakeSource()
	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		src.channels[id] = rawChannel(id, id, 1, 1, 1)
	}
	svc := newTestService(t, src, nil)
	ctx := context.Background()

	_, err := svc.Benchmark(ctx, []string{"1", " 1 "})
	require.ErrorIs(t, err, ErrInsufficientData)

	res, err := svc.Benchmark(ctx, []string{"1", "2", "3", "4", "5", "6"})
	require.NoError(t, err)
	require.Len(t, res.Channels, 5)

	_, err = svc.Benchmark(ctx, []string{"x", "y"})
	require.ErrorIs(t, err, ErrInsufficientData)
}
