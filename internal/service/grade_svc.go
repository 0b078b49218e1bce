package service

import (
	"github.com/mathieu-neron/tubestats/internal/model"
)

// Weights and letter cutoffs are kept in tenths so the boundary sums
// (2*0.4 + 3*0.6 = 2.6) compare exactly.
const (
	sizeWeightTenths     = 4
	activityWeightTenths = 6

	// Size score thresholds (subscribers)
	sizeLargeSubs  = 100_000
	sizeMediumSubs = 10_000

	// Activity score thresholds (daily views per 1000 subscribers)
	activityHighRatio   = 10.0
	activityMediumRatio = 3.0

	// Letter cutoffs on the weighted sum, in tenths
	letterACutoffTenths = 26
	letterBCutoffTenths = 18

	// Bracket digit ladder. Deliberately independent from the letter ladder.
	bracketTopSubs     = 50_000
	bracketTopRatio    = 5.0
	bracketMiddleSubs  = 5_000
	bracketMiddleRatio = 2.0
)

// DailyRatio normalizes mean daily views by audience size:
//
//	daily_ratio = mean(views_per_day) / subscribers * 1000
func DailyRatio(subscribers int64, meanViewsPerDay float64) float64 {
	if subscribers <= 0 {
		return 0
	}
	return meanViewsPerDay / float64(subscribers) * 1000
}

// SizeScore maps a subscriber count to 1..3.
func SizeScore(subscribers int64) int {
	switch {
	case subscribers >= sizeLargeSubs:
		return 3
	case subscribers >= sizeMediumSubs:
		return 2
	default:
		return 1
	}
}

// ActivityScore maps a daily ratio to 1..3.
func ActivityScore(ratio float64) int {
	switch {
	case ratio >= activityHighRatio:
		return 3
	case ratio >= activityMediumRatio:
		return 2
	default:
		return 1
	}
}

// GradeLetter combines the two ordinal scores:
//
//	weighted = size*0.4 + activity*0.6   (>= 2.6 A, >= 1.8 B, else C)
func GradeLetter(size, activity int) string {
	weighted := size*sizeWeightTenths + activity*activityWeightTenths
	switch {
	case weighted >= letterACutoffTenths:
		return "A"
	case weighted >= letterBCutoffTenths:
		return "B"
	default:
		return "C"
	}
}

// GradeDigit is the quantitative bracket, computed from subscribers and the
// daily ratio on its own ladder rather than from the weighted sum.
func GradeDigit(subscribers int64, ratio float64) string {
	switch {
	case subscribers >= bracketTopSubs && ratio >= bracketTopRatio:
		return "1"
	case subscribers >= bracketMiddleSubs || ratio >= bracketMiddleRatio:
		return "2"
	default:
		return "3"
	}
}

// GradeFromStats grades a channel from its subscriber count and the mean
// views-per-day of its recent uploads. recentVideos is the size of the
// collection the mean was taken over; zero means there is nothing to grade.
func GradeFromStats(subscribers int64, meanViewsPerDay float64, recentVideos int) (model.Grade, float64) {
	if subscribers <= 0 || recentVideos == 0 {
		return model.Ungraded, 0
	}
	ratio := DailyRatio(subscribers, meanViewsPerDay)
	letter := GradeLetter(SizeScore(subscribers), ActivityScore(ratio))
	return model.Grade(letter + GradeDigit(subscribers, ratio)), ratio
}

// GradeChannel grades a channel against its derived recent uploads.
func GradeChannel(ch model.ChannelInfo, recent []model.VideoRecord) (model.Grade, float64) {
	return GradeFromStats(ch.Subscribers, MeanViewsPerDay(recent), len(recent))
}
