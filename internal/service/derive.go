package service

import (
	"sort"
	"time"

	"github.com/mathieu-neron/tubestats/internal/model"
)

// MinAgeDays is the floor applied to a video's age before dividing views by
// it, so a video published "now" gets a finite views-per-day.
const MinAgeDays = 0.1

// SortKey selects the ordering applied by Derive.
type SortKey int

const (
	// SortByViews orders by view count, highest first (keyword and channel listings).
	SortByViews SortKey = iota
	// SortByPublished orders by publish instant, newest first (recent uploads).
	SortByPublished
)

// Derivation is the output of one pipeline pass.
type Derivation struct {
	// Videos carry every derived field.
	Videos []model.VideoRecord
	// Undated had an unparseable publish timestamp; they keep their projected
	// fields but must stay out of age, weekday and hour based views.
	Undated []model.VideoRecord
}

// Derive computes per-video metrics against a single reference instant and
// sorts the result. The input slice is not modified.
//
//	duration_minutes  = duration_seconds / 60
//	age_days          = max((now - published) / 24h, 0.1)
//	views_per_day     = views / age_days
//	max_watch_minutes = duration_minutes * views
func Derive(records []model.VideoRecord, now time.Time, key SortKey) Derivation {
	out := Derivation{
		Videos: make([]model.VideoRecord, 0, len(records)),
	}

	for _, r := range records {
		r.DurationMinutes = float64(r.DurationSeconds) / 60
		r.MaxWatchMinutes = r.DurationMinutes * float64(r.Views)

		age, ok := r.PublishedAt.AgeDays(now)
		if !ok {
			out.Undated = append(out.Undated, r)
			continue
		}
		if age < MinAgeDays {
			age = MinAgeDays
		}
		wd, _ := r.PublishedAt.Weekday()
		hour, _ := r.PublishedAt.Hour()

		r.AgeDays = age
		r.ViewsPerDay = float64(r.Views) / age
		r.Weekday = wd
		r.WeekdayLabel = wd.String()
		r.PublishHour = hour
		r.Derived = true
		out.Videos = append(out.Videos, r)
	}

	SortVideos(out.Videos, key)
	SortVideos(out.Undated, SortByViews)
	return out
}

// SortVideos sorts in place, stable on ties.
func SortVideos(videos []model.VideoRecord, key SortKey) {
	switch key {
	case SortByPublished:
		sort.SliceStable(videos, func(i, j int) bool {
			return videos[i].PublishedAt.Time.After(videos[j].PublishedAt.Time)
		})
	default:
		sort.SliceStable(videos, func(i, j int) bool {
			return videos[i].Views > videos[j].Views
		})
	}
}

// TopByViews returns up to n videos with the most views without reordering
// the input.
func TopByViews(videos []model.VideoRecord, n int) []model.VideoRecord {
	top := make([]model.VideoRecord, len(videos))
	copy(top, videos)
	SortVideos(top, SortByViews)
	if n >= 0 && len(top) > n {
		top = top[:n]
	}
	return top
}

// MeanViewsPerDay averages the derived views-per-day of a collection.
func MeanViewsPerDay(videos []model.VideoRecord) float64 {
	if len(videos) == 0 {
		return 0
	}
	var sum float64
	for _, v := range videos {
		sum += v.ViewsPerDay
	}
	return sum / float64(len(videos))
}

// CountPublishedWithin counts videos no older than the given number of days.
func CountPublishedWithin(videos []model.VideoRecord, days float64) int {
	n := 0
	for _, v := range videos {
		if v.Derived && v.AgeDays <= days {
			n++
		}
	}
	return n
}
