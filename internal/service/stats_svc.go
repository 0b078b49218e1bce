package service

import (
	"math"
	"sort"

	"github.com/mathieu-neron/tubestats/internal/model"
	"github.com/mathieu-neron/tubestats/pkg/ytime"
)

// Hour buckets used when recommending upload slots.
const (
	BucketMorning   = "morning(06-12)"
	BucketAfternoon = "afternoon(12-18)"
	BucketEvening   = "evening(18-24)"
	BucketLateNight = "late-night(00-06)"
)

// HourBucket maps an hour of day onto one of four six-hour buckets.
func HourBucket(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return BucketMorning
	case hour >= 12 && hour < 18:
		return BucketAfternoon
	case hour >= 18 && hour < 24:
		return BucketEvening
	default:
		return BucketLateNight
	}
}

// Summarize computes the headline statistics of a collection. An empty
// collection yields the zero Summary.
func Summarize(videos []model.VideoRecord) model.Summary {
	n := len(videos)
	if n == 0 {
		return model.Summary{}
	}

	views := make([]int64, 0, n)
	var sumViews, sumLikes, sumComments, maxViews int64
	var sumMinutes float64
	for _, v := range videos {
		views = append(views, v.Views)
		sumViews += v.Views
		sumLikes += v.Likes
		sumComments += v.Comments
		sumMinutes += float64(v.DurationSeconds) / 60
		if v.Views > maxViews {
			maxViews = v.Views
		}
	}

	return model.Summary{
		VideoCount:      n,
		AvgViews:        roundMean(sumViews, n),
		MedianViews:     median(views),
		MaxViews:        maxViews,
		AvgLikes:        roundMean(sumLikes, n),
		AvgComments:     roundMean(sumComments, n),
		AvgDurationMins: math.Round(sumMinutes/float64(n)*10) / 10,
	}
}

func roundMean(sum int64, n int) int64 {
	return int64(math.Round(float64(sum) / float64(n)))
}

// median truncates the midpoint average for even-sized inputs.
func median(vals []int64) int64 {
	sorted := make([]int64, len(vals))
	copy(sorted, vals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return int64((float64(sorted[mid-1]) + float64(sorted[mid])) / 2)
}

type slotKey struct {
	weekday ytime.Weekday
	bucket  string
}

// BestUploadSlots groups derived videos by weekday and hour bucket and
// returns the groups ordered by mean views, best first. Undated records are
// ignored.
func BestUploadSlots(videos []model.VideoRecord) []model.UploadSlot {
	type agg struct {
		n   int
		sum float64
	}
	groups := make(map[slotKey]*agg)
	var order []slotKey
	for _, v := range videos {
		if !v.Derived {
			continue
		}
		k := slotKey{weekday: v.Weekday, bucket: HourBucket(v.PublishHour)}
		g, ok := groups[k]
		if !ok {
			g = &agg{}
			groups[k] = g
			order = append(order, k)
		}
		g.n++
		g.sum += float64(v.Views)
	}

	slots := make([]model.UploadSlot, 0, len(order))
	for _, k := range order {
		g := groups[k]
		slots = append(slots, model.UploadSlot{
			Weekday:  k.weekday.String(),
			Bucket:   k.bucket,
			Videos:   g.n,
			AvgViews: g.sum / float64(g.n),
		})
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].AvgViews > slots[j].AvgViews
	})
	return slots
}

// UploadHeatmap returns mean views per weekday/hour cell for every cell that
// has at least one derived video, ordered Monday-first then by hour.
func UploadHeatmap(videos []model.VideoRecord) []model.HeatmapCell {
	var counts [7][24]int
	var sums [7][24]float64
	for _, v := range videos {
		if !v.Derived || v.PublishHour < 0 || v.PublishHour > 23 {
			continue
		}
		counts[v.Weekday][v.PublishHour]++
		sums[v.Weekday][v.PublishHour] += float64(v.Views)
	}

	var cells []model.HeatmapCell
	for _, wd := range ytime.Weekdays {
		for h := 0; h < 24; h++ {
			if counts[wd][h] == 0 {
				continue
			}
			cells = append(cells, model.HeatmapCell{
				Weekday:  wd.String(),
				Hour:     h,
				Videos:   counts[wd][h],
				AvgViews: sums[wd][h] / float64(counts[wd][h]),
			})
		}
	}
	return cells
}
