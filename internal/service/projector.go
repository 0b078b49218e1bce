package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/mathieu-neron/tubestats/internal/model"
	"github.com/mathieu-neron/tubestats/internal/youtube"
	"github.com/mathieu-neron/tubestats/pkg/ytime"
)

// SafeInt coerces a loosely typed API value into a non-negative count.
// Anything missing, non-numeric or negative becomes 0.
func SafeInt(v any) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return clampCount(i)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return floatCount(f)
		}
		return 0
	case json.Number:
		return SafeInt(string(n))
	case float64:
		return floatCount(n)
	case float32:
		return floatCount(float64(n))
	case int:
		return clampCount(int64(n))
	case int64:
		return clampCount(n)
	case int32:
		return clampCount(int64(n))
	case uint64:
		if n > math.MaxInt64 {
			return 0
		}
		return int64(n)
	default:
		return 0
	}
}

func clampCount(i int64) int64 {
	if i < 0 {
		return 0
	}
	return i
}

func floatCount(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

// ProjectVideo flattens a raw videos.list item into a VideoRecord.
func ProjectVideo(item youtube.VideoItem) model.VideoRecord {
	sn := item.Snippet
	if sn == nil {
		sn = &youtube.Snippet{}
	}
	token := ""
	if item.ContentDetails != nil {
		token = item.ContentDetails.Duration
	}

	return model.VideoRecord{
		VideoID:         item.ID,
		Title:           sn.Title,
		ChannelID:       sn.ChannelID,
		ChannelTitle:    sn.ChannelTitle,
		PublishedAt:     ytime.ParseInstant(sn.PublishedAt),
		DurationToken:   token,
		DurationSeconds: ytime.ParseDuration(token),
		Views:           SafeInt(item.Statistics["viewCount"]),
		Likes:           SafeInt(item.Statistics["likeCount"]),
		Comments:        SafeInt(item.Statistics["commentCount"]),
		Tags:            sn.Tags,
		Description:     sn.Description,
		ThumbnailURL:    pickThumbnail(sn.Thumbnails),
	}
}

// ProjectVideos projects every item, preserving order.
func ProjectVideos(items []youtube.VideoItem) []model.VideoRecord {
	out := make([]model.VideoRecord, 0, len(items))
	for _, it := range items {
		out = append(out, ProjectVideo(it))
	}
	return out
}

// ProjectChannel flattens a raw channels.list item into a ChannelInfo.
func ProjectChannel(item youtube.ChannelItem) model.ChannelInfo {
	sn := item.Snippet
	if sn == nil {
		sn = &youtube.Snippet{}
	}
	return model.ChannelInfo{
		ChannelID:    item.ID,
		Title:        sn.Title,
		Description:  sn.Description,
		CreatedAt:    ytime.ParseInstant(sn.PublishedAt),
		Subscribers:  SafeInt(item.Statistics["subscriberCount"]),
		TotalViews:   SafeInt(item.Statistics["viewCount"]),
		VideoCount:   SafeInt(item.Statistics["videoCount"]),
		ThumbnailURL: pickThumbnail(sn.Thumbnails),
	}
}

// ProjectChannelCandidate flattens a channel search hit.
func ProjectChannelCandidate(item youtube.SearchItem) model.ChannelCandidate {
	c := model.ChannelCandidate{ChannelID: item.ID.ChannelID}
	if item.Snippet != nil {
		c.Title = item.Snippet.Title
		c.Description = item.Snippet.Description
		if c.ChannelID == "" {
			c.ChannelID = item.Snippet.ChannelID
		}
	}
	return c
}

func pickThumbnail(thumbs map[string]youtube.Thumbnail) string {
	for _, size := range []string{"high", "medium", "default"} {
		if t, ok := thumbs[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}
