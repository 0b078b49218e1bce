package service

import (
	"testing"
	"time"

	"github.com/mathieu-neron/tubestats/internal/model"
)

func TestDailyRatio(t *testing.T) {
	if got := DailyRatio(5000, 200); !almostEqual(got, 40, 1e-9) {
		t.Errorf("DailyRatio(5000, 200) = %v, want 40", got)
	}
	if got := DailyRatio(0, 200); got != 0 {
		t.Errorf("DailyRatio with no subscribers = %v, want 0", got)
	}
}

func TestSizeAndActivityScores(t *testing.T) {
	sizes := []struct {
		subs int64
		want int
	}{
		{0, 1}, {9_999, 1}, {10_000, 2}, {99_999, 2}, {100_000, 3}, {5_000_000, 3},
	}
	for _, tt := range sizes {
		if got := SizeScore(tt.subs); got != tt.want {
			t.Errorf("SizeScore(%d) = %d, want %d", tt.subs, got, tt.want)
		}
	}

	ratios := []struct {
		ratio float64
		want  int
	}{
		{0, 1}, {2.99, 1}, {3, 2}, {9.99, 2}, {10, 3}, {400, 3},
	}
	for _, tt := range ratios {
		if got := ActivityScore(tt.ratio); got != tt.want {
			t.Errorf("ActivityScore(%v) = %d, want %d", tt.ratio, got, tt.want)
		}
	}
}

func TestGradeLetter(t *testing.T) {
	tests := []struct {
		size, activity int
		want           string
	}{
		{3, 3, "A"},
		{2, 3, "A"}, // 0.8 + 1.8 = 2.6 exactly
		{3, 2, "B"}, // 2.4
		{1, 3, "B"}, // 2.2
		{3, 1, "B"}, // 1.8 exactly
		{2, 2, "B"}, // 2.0
		{1, 2, "C"}, // 1.6
		{2, 1, "C"}, // 1.4
		{1, 1, "C"},
	}
	for _, tt := range tests {
		if got := GradeLetter(tt.size, tt.activity); got != tt.want {
			t.Errorf("GradeLetter(%d, %d) = %s, want %s", tt.size, tt.activity, got, tt.want)
		}
	}
}

func TestGradeDigit(t *testing.T) {
	tests := []struct {
		name  string
		subs  int64
		ratio float64
		want  string
	}{
		{"large and active", 50_000, 5, "1"},
		{"large but quiet", 50_000, 1, "2"},
		{"small but active", 100, 2, "2"},
		{"mid sized", 5_000, 0, "2"},
		{"small and quiet", 4_999, 1.99, "3"},
	}
	for _, tt := range tests {
		if got := GradeDigit(tt.subs, tt.ratio); got != tt.want {
			t.Errorf("%s: GradeDigit(%d, %v) = %s, want %s", tt.name, tt.subs, tt.ratio, got, tt.want)
		}
	}
}

func TestGradeFromStats_SmallButActiveChannel(t *testing.T) {
	grade, ratio := GradeFromStats(5000, 200, 12)
	if !almostEqual(ratio, 40, 1e-9) {
		t.Errorf("ratio = %v, want 40", ratio)
	}
	if grade.Letter() != "B" {
		t.Errorf("letter = %q, want B", grade.Letter())
	}
	if grade != "B2" {
		t.Errorf("grade = %s, want B2", grade)
	}
}

func TestGradeFromStats_Ungraded(t *testing.T) {
	for _, tt := range []struct {
		subs   int64
		videos int
	}{{0, 10}, {-3, 10}, {1000, 0}} {
		grade, ratio := GradeFromStats(tt.subs, 100, tt.videos)
		if grade != model.Ungraded || ratio != 0 {
			t.Errorf("GradeFromStats(%d, _, %d) = %s/%v, want N/A/0", tt.subs, tt.videos, grade, ratio)
		}
		if grade.Letter() != "" || grade.Digit() != "" {
			t.Errorf("ungraded grade should have no letter or digit")
		}
	}
}

func TestGradeFromStats_PureFunction(t *testing.T) {
	first, r1 := GradeFromStats(123_456, 789.5, 20)
	for i := 0; i < 10; i++ {
		g, r := GradeFromStats(123_456, 789.5, 20)
		if g != first || r != r1 {
			t.Fatalf("grade changed between identical calls: %s/%v vs %s/%v", first, r1, g, r)
		}
	}
}

func TestGradeFromStats_ShapeAcrossInputs(t *testing.T) {
	for _, subs := range []int64{1, 999, 5_000, 10_000, 50_000, 100_000, 10_000_000} {
		for _, vpd := range []float64{0, 1, 10, 1_000, 1e6} {
			g, _ := GradeFromStats(subs, vpd, 1)
			if len(g) != 2 {
				t.Fatalf("grade %q has wrong shape", g)
			}
			if l := g.Letter(); l != "A" && l != "B" && l != "C" {
				t.Fatalf("bad letter in %q", g)
			}
			if d := g.Digit(); d != "1" && d != "2" && d != "3" {
				t.Fatalf("bad digit in %q", g)
			}
		}
	}
}

func TestGradeChannel_UsesDerivedViewsPerDay(t *testing.T) {
	d := Derive([]model.VideoRecord{
		video("a", 400, 48*time.Hour), // 200/day
		video("b", 200, 24*time.Hour), // 200/day
	}, refNow, SortByPublished)
	grade, ratio := GradeChannel(model.ChannelInfo{Subscribers: 5000}, d.Videos)
	if !almostEqual(ratio, 40, 1e-9) || grade != "B2" {
		t.Errorf("GradeChannel = %s/%v, want B2/40", grade, ratio)
	}
}
