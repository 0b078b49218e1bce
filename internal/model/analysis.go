package model

import "time"

// Summary holds the basic statistics of an analyzed video collection.
type Summary struct {
	VideoCount      int     `json:"videoCount"`
	AvgViews        int64   `json:"avgViews"`
	MedianViews     int64   `json:"medianViews"`
	MaxViews        int64   `json:"maxViews"`
	AvgLikes        int64   `json:"avgLikes"`
	AvgComments     int64   `json:"avgComments"`
	AvgDurationMins float64 `json:"avgDurationMinutes"`
}

// UploadSlot is the mean views of videos published in one weekday/hour bucket.
type UploadSlot struct {
	Weekday  string  `json:"weekday"`
	Bucket   string  `json:"bucket"`
	Videos   int     `json:"videos"`
	AvgViews float64 `json:"avgViews"`
}

// HeatmapCell is the mean views for a single weekday/hour pair.
type HeatmapCell struct {
	Weekday  string  `json:"weekday"`
	Hour     int     `json:"hour"`
	Videos   int     `json:"videos"`
	AvgViews float64 `json:"avgViews"`
}

// KeywordAnalysis is the outbound result of a keyword trend analysis.
type KeywordAnalysis struct {
	Query           string         `json:"query"`
	GeneratedAt     time.Time      `json:"generatedAt"`
	Videos          []VideoRecord  `json:"videos"`
	Undated         []VideoRecord  `json:"undated,omitempty"`
	Summary         Summary        `json:"summary"`
	TitleKeywords   []KeywordScore `json:"titleKeywords"`
	TagKeywords     []KeywordScore `json:"tagKeywords"`
	SuggestedTags   []string       `json:"suggestedTags"`
	SuggestedTitles []string       `json:"suggestedTitles"`
	ContentIdeas    []string       `json:"contentIdeas"`
	BestSlots       []UploadSlot   `json:"bestSlots"`
}

// ChannelAnalysis is the outbound result of a single-channel analysis.
type ChannelAnalysis struct {
	Channel         ChannelInfo         `json:"channel"`
	GeneratedAt     time.Time           `json:"generatedAt"`
	Videos          []VideoRecord       `json:"videos"`
	Undated         []VideoRecord       `json:"undated,omitempty"`
	TopVideos       []VideoRecord       `json:"topVideos"`
	Summary         Summary             `json:"summary"`
	TitleKeywords   []KeywordScore      `json:"titleKeywords"`
	TagKeywords     []KeywordScore      `json:"tagKeywords"`
	SuggestedTags   []string            `json:"suggestedTags"`
	SuggestedTitles []string            `json:"suggestedTitles"`
	ContentIdeas    []string            `json:"contentIdeas"`
	BestSlots       []UploadSlot        `json:"bestSlots"`
	Heatmap         []HeatmapCell       `json:"heatmap"`
	Grade           Grade               `json:"grade"`
	DailyRatio      float64             `json:"dailyRatio"`
	Entry           ChannelHistoryEntry `json:"historyEntry"`
}
