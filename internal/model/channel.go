package model

import (
	"time"

	"github.com/mathieu-neron/tubestats/pkg/ytime"
)

// ChannelInfo is an immutable snapshot of one channels.list fetch.
type ChannelInfo struct {
	ChannelID    string        `json:"channelId"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	CreatedAt    ytime.Instant `json:"createdAt"`
	Subscribers  int64         `json:"subscribers"`
	TotalViews   int64         `json:"totalViews"`
	VideoCount   int64         `json:"videoCount"`
	ThumbnailURL string        `json:"thumbnailUrl,omitempty"`
}

// ChannelCandidate is a channel search hit.
type ChannelCandidate struct {
	ChannelID   string `json:"channelId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Grade is a two-character channel label: a qualitative tier letter (A-C)
// followed by a quantitative bracket digit (1-3).
type Grade string

// Ungraded is returned when a channel has no subscribers or no recent videos.
const Ungraded Grade = "N/A"

// Letter returns the tier letter, or "" when ungraded.
func (g Grade) Letter() string {
	if g == Ungraded || len(g) != 2 {
		return ""
	}
	return string(g[0])
}

// Digit returns the bracket digit, or "" when ungraded.
func (g Grade) Digit() string {
	if g == Ungraded || len(g) != 2 {
		return ""
	}
	return string(g[1])
}

// ChannelHistoryEntry is a persisted point-in-time summary of one channel.
// A later save for the same ChannelID replaces it entirely.
type ChannelHistoryEntry struct {
	ChannelID           string    `json:"channelId"`
	Title               string    `json:"title"`
	Subscribers         int64     `json:"subscribers"`
	TotalViews          int64     `json:"totalViews"`
	VideoCount          int64     `json:"videoCount"`
	AnalyzedAt          time.Time `json:"analyzedAt"`
	RecentVideoCount    int       `json:"recentVideoCount"`
	RecentAvgViews      float64   `json:"recentAvgViews"`
	RecentAvgDailyViews float64   `json:"recentAvgDailyViews"`
	UploadsLast30Days   int       `json:"uploadsLast30Days"`
	Grade               Grade     `json:"grade"`
}

// BenchmarkRow is one channel in a competitor comparison.
type BenchmarkRow struct {
	ChannelID   string `json:"channelId"`
	Title       string `json:"title"`
	Subscribers int64  `json:"subscribers"`
	TotalViews  int64  `json:"totalViews"`
	VideoCount  int64  `json:"videoCount"`
}

// BenchmarkResponse compares several channels and names the leader on each axis.
type BenchmarkResponse struct {
	Channels        []BenchmarkRow `json:"channels"`
	TopSubscribers  BenchmarkRow   `json:"topSubscribers"`
	TopViews        BenchmarkRow   `json:"topViews"`
	TopVideoCount   BenchmarkRow   `json:"topVideoCount"`
	MissingChannels []string       `json:"missingChannels,omitempty"`
}
