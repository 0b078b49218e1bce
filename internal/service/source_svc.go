package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/mathieu-neron/tubestats/internal/youtube"
	"github.com/mathieu-neron/tubestats/pkg/hash"
)

// CachedSource puts a FetchCache in front of a youtube.Source. Each distinct
// query signature (kind, query text, result bound) is cached independently.
type CachedSource struct {
	src   youtube.Source
	cache *FetchCache
}

var _ youtube.Source = (*CachedSource)(nil)

// NewCachedSource wraps src. A nil cache disables caching.
func NewCachedSource(src youtube.Source, cache *FetchCache) *CachedSource {
	return &CachedSource{src: src, cache: cache}
}

// KeywordSignature is the cache key of a keyword video search.
func KeywordSignature(query string, maxResults int) string {
	return hash.Signature("videos", "keyword", strings.TrimSpace(query), strconv.Itoa(maxResults))
}

// ChannelVideosSignature is the cache key of a channel's recent uploads.
func ChannelVideosSignature(channelID string, maxResults int) string {
	return hash.Signature("videos", "channel", strings.TrimSpace(channelID), strconv.Itoa(maxResults))
}

// ChannelSignature is the cache key of a channel lookup.
func ChannelSignature(channelID string) string {
	return hash.Signature("channel", strings.TrimSpace(channelID))
}

// ChannelSearchSignature is the cache key of a channel search.
func ChannelSearchSignature(query string, maxResults int) string {
	return hash.Signature("channels", "search", strings.TrimSpace(query), strconv.Itoa(maxResults))
}

func (s *CachedSource) SearchVideos(ctx context.Context, query string, maxResults int) ([]youtube.VideoItem, error) {
	return Fetch(ctx, s.cache, KeywordSignature(query, maxResults), func(ctx context.Context) ([]youtube.VideoItem, error) {
		return s.src.SearchVideos(ctx, query, maxResults)
	})
}

func (s *CachedSource) ChannelVideos(ctx context.Context, channelID string, maxResults int) ([]youtube.VideoItem, error) {
	return Fetch(ctx, s.cache, ChannelVideosSignature(channelID, maxResults), func(ctx context.Context) ([]youtube.VideoItem, error) {
		return s.src.ChannelVideos(ctx, channelID, maxResults)
	})
}

func (s *CachedSource) Channel(ctx context.Context, channelID string) (*youtube.ChannelItem, error) {
	return Fetch(ctx, s.cache, ChannelSignature(channelID), func(ctx context.Context) (*youtube.ChannelItem, error) {
		return s.src.Channel(ctx, channelID)
	})
}

func (s *CachedSource) SearchChannels(ctx context.Context, query string, maxResults int) ([]youtube.SearchItem, error) {
	return Fetch(ctx, s.cache, ChannelSearchSignature(query, maxResults), func(ctx context.Context) ([]youtube.SearchItem, error) {
		return s.src.SearchChannels(ctx, query, maxResults)
	})
}
