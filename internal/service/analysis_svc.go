package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mathieu-neron/tubestats/internal/metrics"
	"github.com/mathieu-neron/tubestats/internal/model"
	"github.com/mathieu-neron/tubestats/internal/youtube"
)

const (
	DefaultMaxResults = 50
	// recentWindowDays is the window counted by UploadsLast30Days.
	recentWindowDays = 30
	topVideosLimit   = 10
	minBenchmarkSize = 2
	maxBenchmarkSize = 5
)

// ErrInsufficientData marks "nothing to show" outcomes: no videos for a
// query, or fewer than two channels for a comparison.
var ErrInsufficientData = errors.New("insufficient data")

// AnalysisService runs keyword, channel and benchmark analyses end to end:
// fetch (through the cache), project, derive, rank and grade.
type AnalysisService struct {
	src     youtube.Source
	history *HistoryStore
	stop    Stopwords
	now     func() time.Time
	log     zerolog.Logger
}

// AnalysisOption customises an AnalysisService.
type AnalysisOption func(*AnalysisService)

// WithNow injects the reference clock read once per analysis.
func WithNow(now func() time.Time) AnalysisOption {
	return func(s *AnalysisService) { s.now = now }
}

// WithStopwords replaces DefaultStopwords.
func WithStopwords(stop Stopwords) AnalysisOption {
	return func(s *AnalysisService) { s.stop = stop }
}

func NewAnalysisService(src youtube.Source, history *HistoryStore, logger zerolog.Logger, opts ...AnalysisOption) *AnalysisService {
	s := &AnalysisService{
		src:     src,
		history: history,
		stop:    DefaultStopwords(),
		now:     time.Now,
		log:     logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AnalyzeKeyword fetches the most viewed videos for a query and derives
// metrics, keyword rankings and upload-slot recommendations.
func (s *AnalysisService) AnalyzeKeyword(ctx context.Context, query string, maxResults int) (*model.KeywordAnalysis, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty keyword", ErrInsufficientData)
	}

	items, err := s.src.SearchVideos(ctx, query, normalizeMax(maxResults))
	if err != nil {
		return nil, s.upstream("keyword search", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no videos found for %q", ErrInsufficientData, query)
	}

	now := s.now().UTC()
	d := Derive(ProjectVideos(items), now, SortByViews)
	titles := RankKeywords(d.Videos, DefaultKeywordLimit, s.stop)
	tags := RankTags(d.Videos, DefaultKeywordLimit, s.stop)

	all := append(append([]model.VideoRecord{}, d.Videos...), d.Undated...)
	ranked := preferNonEmpty(titles, tags)

	res := &model.KeywordAnalysis{
		Query:           query,
		GeneratedAt:     now,
		Videos:          d.Videos,
		Undated:         d.Undated,
		Summary:         Summarize(all),
		TitleKeywords:   titles,
		TagKeywords:     tags,
		SuggestedTags:   SuggestTags(query, ranked),
		SuggestedTitles: SuggestTitles(query, ranked),
		ContentIdeas:    ContentIdeas(query, all),
		BestSlots:       BestUploadSlots(d.Videos),
	}

	metrics.Analysis("keyword")
	s.log.Info().
		Str("query", query).
		Int("videos", len(d.Videos)).
		Int("undated", len(d.Undated)).
		Msg("analysis: keyword complete")
	return res, nil
}

// AnalyzeChannel fetches a channel and its recent uploads, derives metrics
// and grades the channel. A channel without recent uploads is returned
// ungraded rather than as an error.
func (s *AnalysisService) AnalyzeChannel(ctx context.Context, channelID string, maxResults int) (*model.ChannelAnalysis, error) {
	channelID = strings.TrimSpace(channelID)

	raw, err := s.src.Channel(ctx, channelID)
	if err != nil {
		return nil, s.upstream("channel lookup", err)
	}
	items, err := s.src.ChannelVideos(ctx, channelID, normalizeMax(maxResults))
	if err != nil {
		return nil, s.upstream("channel videos", err)
	}

	now := s.now().UTC()
	ch := ProjectChannel(*raw)
	d := Derive(ProjectVideos(items), now, SortByPublished)
	grade, ratio := GradeChannel(ch, d.Videos)
	titles := RankKeywords(d.Videos, DefaultKeywordLimit, s.stop)
	tags := RankTags(d.Videos, DefaultKeywordLimit, s.stop)

	all := append(append([]model.VideoRecord{}, d.Videos...), d.Undated...)
	ranked := preferNonEmpty(titles, tags)

	res := &model.ChannelAnalysis{
		Channel:         ch,
		GeneratedAt:     now,
		Videos:          d.Videos,
		Undated:         d.Undated,
		TopVideos:       TopByViews(all, topVideosLimit),
		Summary:         Summarize(all),
		TitleKeywords:   titles,
		TagKeywords:     tags,
		SuggestedTags:   SuggestTags(ch.Title, ranked),
		SuggestedTitles: SuggestTitles(ch.Title, ranked),
		ContentIdeas:    ContentIdeas(ch.Title, all),
		BestSlots:       BestUploadSlots(d.Videos),
		Heatmap:         UploadHeatmap(d.Videos),
		Grade:           grade,
		DailyRatio:      ratio,
		Entry:           BuildHistoryEntry(ch, d.Videos, grade, now),
	}

	metrics.Analysis("channel")
	s.log.Info().
		Str("channel_id", channelID).
		Int("videos", len(d.Videos)).
		Str("grade", string(grade)).
		Msg("analysis: channel complete")
	return res, nil
}

// SaveChannel analyzes a channel and upserts its summary into the history.
// When only the save fails, the analysis is still returned together with an
// error wrapping ErrHistoryWrite.
func (s *AnalysisService) SaveChannel(ctx context.Context, channelID string, maxResults int) (*model.ChannelAnalysis, error) {
	res, err := s.AnalyzeChannel(ctx, channelID, maxResults)
	if err != nil {
		return nil, err
	}
	if err := s.history.Upsert(ctx, res.Entry); err != nil {
		return res, err
	}
	return res, nil
}

// BuildHistoryEntry summarizes a graded channel analysis for persistence.
func BuildHistoryEntry(ch model.ChannelInfo, recent []model.VideoRecord, grade model.Grade, analyzedAt time.Time) model.ChannelHistoryEntry {
	var sumViews float64
	for _, v := range recent {
		sumViews += float64(v.Views)
	}
	var avgViews float64
	if len(recent) > 0 {
		avgViews = sumViews / float64(len(recent))
	}
	return model.ChannelHistoryEntry{
		ChannelID:           ch.ChannelID,
		Title:               ch.Title,
		Subscribers:         ch.Subscribers,
		TotalViews:          ch.TotalViews,
		VideoCount:          ch.VideoCount,
		AnalyzedAt:          analyzedAt,
		RecentVideoCount:    len(recent),
		RecentAvgViews:      avgViews,
		RecentAvgDailyViews: MeanViewsPerDay(recent),
		UploadsLast30Days:   CountPublishedWithin(recent, recentWindowDays),
		Grade:               grade,
	}
}

// SearchChannels returns channel candidates for a free-text query.
func (s *AnalysisService) SearchChannels(ctx context.Context, query string, maxResults int) ([]model.ChannelCandidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInsufficientData)
	}
	items, err := s.src.SearchChannels(ctx, query, normalizeMax(maxResults))
	if err != nil {
		return nil, s.upstream("channel search", err)
	}
	out := make([]model.ChannelCandidate, 0, len(items))
	for _, it := range items {
		c := ProjectChannelCandidate(it)
		if c.ChannelID == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Benchmark compares two to five channels on subscribers, total views and
// video count. Unknown channels are reported in MissingChannels; any other
// upstream failure aborts the comparison.
func (s *AnalysisService) Benchmark(ctx context.Context, channelIDs []string) (*model.BenchmarkResponse, error) {
	ids := dedupeIDs(channelIDs)
	if len(ids) < minBenchmarkSize {
		return nil, fmt.Errorf("%w: select at least %d channels", ErrInsufficientData, minBenchmarkSize)
	}
	if len(ids) > maxBenchmarkSize {
		ids = ids[:maxBenchmarkSize]
	}

	res := &model.BenchmarkResponse{}
	for _, id := range ids {
		raw, err := s.src.Channel(ctx, id)
		if youtube.IsNotFound(err) {
			res.MissingChannels = append(res.MissingChannels, id)
			continue
		}
		if err != nil {
			return nil, s.upstream("benchmark lookup", err)
		}
		ch := ProjectChannel(*raw)
		res.Channels = append(res.Channels, model.BenchmarkRow{
			ChannelID:   id,
			Title:       ch.Title,
			Subscribers: ch.Subscribers,
			TotalViews:  ch.TotalViews,
			VideoCount:  ch.VideoCount,
		})
	}
	if len(res.Channels) == 0 {
		return nil, fmt.Errorf("%w: none of the selected channels could be fetched", ErrInsufficientData)
	}

	res.TopSubscribers = leader(res.Channels, func(r model.BenchmarkRow) int64 { return r.Subscribers })
	res.TopViews = leader(res.Channels, func(r model.BenchmarkRow) int64 { return r.TotalViews })
	res.TopVideoCount = leader(res.Channels, func(r model.BenchmarkRow) int64 { return r.VideoCount })

	metrics.Analysis("benchmark")
	return res, nil
}

// History returns saved entries, newest first.
func (s *AnalysisService) History(ctx context.Context) []model.ChannelHistoryEntry {
	entries := s.history.ListAll(ctx)
	SortHistoryByAnalyzedAt(entries)
	return entries
}

// ClearHistory removes every saved entry.
func (s *AnalysisService) ClearHistory(ctx context.Context) error {
	return s.history.ClearAll(ctx)
}

// upstream records and logs a data-source failure before handing it back.
func (s *AnalysisService) upstream(op string, err error) error {
	if youtube.IsNotFound(err) {
		return err
	}
	kind := youtube.KindOf(err)
	if kind == "" {
		kind = youtube.KindOther
	}
	metrics.UpstreamError(string(kind))
	s.log.Warn().Err(err).Str("op", op).Str("kind", string(kind)).Msg("analysis: upstream failure")
	return fmt.Errorf("%s: %w", op, err)
}

func leader(rows []model.BenchmarkRow, val func(model.BenchmarkRow) int64) model.BenchmarkRow {
	best := rows[0]
	for _, r := range rows[1:] {
		if val(r) > val(best) {
			best = r
		}
	}
	return best
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func normalizeMax(n int) int {
	if n <= 0 {
		return DefaultMaxResults
	}
	return n
}

func preferNonEmpty(a, b []model.KeywordScore) []model.KeywordScore {
	if len(a) > 0 {
		return a
	}
	return b
}
