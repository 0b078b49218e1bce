// Package youtube is the data-source collaborator: it talks to the YouTube
// Data API v3 and hands back raw, untrusted item payloads. Nothing here
// interprets counts or timestamps; that is the projector's job.
package youtube

import "context"

// Source is the black-box data source the analysis services depend on.
type Source interface {
	// SearchVideos returns the most viewed videos matching a free-text query.
	SearchVideos(ctx context.Context, query string, maxResults int) ([]VideoItem, error)
	// ChannelVideos returns a channel's most recent uploads.
	ChannelVideos(ctx context.Context, channelID string, maxResults int) ([]VideoItem, error)
	// Channel returns one channel, or ErrChannelNotFound.
	Channel(ctx context.Context, channelID string) (*ChannelItem, error)
	// SearchChannels returns channels matching a free-text query.
	SearchChannels(ctx context.Context, query string, maxResults int) ([]SearchItem, error)
}

// Thumbnail is one rendition in snippet.thumbnails.
type Thumbnail struct {
	URL string `json:"url"`
}

// Snippet is the shared snippet shape of videos, channels and search hits.
type Snippet struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	ChannelID    string               `json:"channelId"`
	ChannelTitle string               `json:"channelTitle"`
	PublishedAt  string               `json:"publishedAt"`
	Tags         []string             `json:"tags"`
	Thumbnails   map[string]Thumbnail `json:"thumbnails"`
}

// ContentDetails carries the ISO 8601 duration token.
type ContentDetails struct {
	Duration string `json:"duration"`
}

// VideoItem is one entry of videos.list. Statistics values arrive as strings
// but are kept loosely typed; any of them may be absent.
type VideoItem struct {
	ID             string          `json:"id"`
	Snippet        *Snippet        `json:"snippet,omitempty"`
	Statistics     map[string]any  `json:"statistics,omitempty"`
	ContentDetails *ContentDetails `json:"contentDetails,omitempty"`
}

// ChannelItem is one entry of channels.list.
type ChannelItem struct {
	ID         string         `json:"id"`
	Snippet    *Snippet       `json:"snippet,omitempty"`
	Statistics map[string]any `json:"statistics,omitempty"`
}

// SearchID is the polymorphic id object of a search.list hit.
type SearchID struct {
	Kind      string `json:"kind"`
	VideoID   string `json:"videoId"`
	ChannelID string `json:"channelId"`
}

// SearchItem is one entry of search.list.
type SearchItem struct {
	ID      SearchID `json:"id"`
	Snippet *Snippet `json:"snippet,omitempty"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
}
