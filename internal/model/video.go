package model

import "github.com/mathieu-neron/tubestats/pkg/ytime"

// VideoRecord is a projected YouTube video. The fields below Derived are only
// meaningful once the record has passed through the derivation pipeline.
type VideoRecord struct {
	VideoID         string        `json:"videoId"`
	Title           string        `json:"title"`
	ChannelID       string        `json:"channelId,omitempty"`
	ChannelTitle    string        `json:"channelTitle,omitempty"`
	PublishedAt     ytime.Instant `json:"publishedAt"`
	DurationToken   string        `json:"durationToken,omitempty"`
	DurationSeconds int64         `json:"durationSeconds"`
	Views           int64         `json:"views"`
	Likes           int64         `json:"likes"`
	Comments        int64         `json:"comments"`
	Tags            []string      `json:"tags,omitempty"`
	Description     string        `json:"description,omitempty"`
	ThumbnailURL    string        `json:"thumbnailUrl,omitempty"`

	Derived         bool          `json:"derived"`
	DurationMinutes float64       `json:"durationMinutes"`
	AgeDays         float64       `json:"ageDays"`
	ViewsPerDay     float64       `json:"viewsPerDay"`
	MaxWatchMinutes float64       `json:"maxWatchMinutes"`
	Weekday         ytime.Weekday `json:"-"`
	WeekdayLabel    string        `json:"weekday,omitempty"`
	PublishHour     int           `json:"publishHour"`
}

// KeywordScore is one ranked title or tag token.
type KeywordScore struct {
	Token string  `json:"token"`
	Score float64 `json:"score"`
}
