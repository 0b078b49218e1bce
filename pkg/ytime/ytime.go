// Package ytime normalizes the duration tokens and publish timestamps returned
// by the YouTube Data API into seconds and calendar features.
package ytime

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// durationRe matches ISO 8601 durations as emitted by contentDetails.duration,
// e.g. PT1H2M3S, PT45S, P1DT2H. Every component is optional.
var durationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)(?:\.\d+)?S)?)?$`)

// ParseDuration returns the total number of seconds in a duration token.
// Missing or unparseable tokens yield 0, as do totals that overflow int64.
func ParseDuration(token string) int64 {
	token = strings.ToUpper(strings.TrimSpace(token))
	if token == "" {
		return 0
	}
	m := durationRe.FindStringSubmatch(token)
	if m == nil {
		return 0
	}
	parts := [...]struct {
		value int64
		unit  int64
	}{
		{atoi(m[1]), 86400},
		{atoi(m[2]), 3600},
		{atoi(m[3]), 60},
		{atoi(m[4]), 1},
	}
	var total int64
	for _, p := range parts {
		if p.value > (math.MaxInt64-total)/p.unit {
			return 0
		}
		total += p.value * p.unit
	}
	return total
}

func atoi(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Weekday is a Monday-first day enumeration (Monday = 0 ... Sunday = 6).
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayLabels = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Weekdays lists all seven days in order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return ""
	}
	return weekdayLabels[d]
}

// FromTimeWeekday converts a Sunday-first time.Weekday.
func FromTimeWeekday(d time.Weekday) Weekday {
	return Weekday((int(d) + 6) % 7)
}

// Instant is a parsed publish timestamp. The zero value is invalid and every
// accessor reports ok=false for it, so callers cannot silently fabricate
// calendar features from a bad timestamp.
type Instant struct {
	Time  time.Time
	Valid bool
}

// ParseInstant parses an RFC 3339 timestamp into a UTC instant.
func ParseInstant(s string) Instant {
	s = strings.TrimSpace(s)
	if s == "" {
		return Instant{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Instant{}
	}
	return Instant{Time: t.UTC(), Valid: true}
}

// At wraps an already-known time.
func At(t time.Time) Instant {
	return Instant{Time: t.UTC(), Valid: true}
}

// Weekday returns the Monday-first weekday in UTC.
func (i Instant) Weekday() (Weekday, bool) {
	if !i.Valid {
		return 0, false
	}
	return FromTimeWeekday(i.Time.Weekday()), true
}

// Hour returns the UTC hour of day, 0-23.
func (i Instant) Hour() (int, bool) {
	if !i.Valid {
		return 0, false
	}
	return i.Time.Hour(), true
}

// AgeDays returns the elapsed days between the instant and now. It reports
// ok=false for invalid instants and clamps future instants to 0.
func (i Instant) AgeDays(now time.Time) (float64, bool) {
	if !i.Valid {
		return 0, false
	}
	d := now.Sub(i.Time).Hours() / 24
	if d < 0 {
		d = 0
	}
	return d, true
}

// String formats the instant as RFC 3339, or "" when invalid.
func (i Instant) String() string {
	if !i.Valid {
		return ""
	}
	return i.Time.Format(time.RFC3339)
}

// MarshalText encodes valid instants as RFC 3339 and invalid ones as "".
func (i Instant) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText is the inverse of MarshalText; bad input yields an invalid instant.
func (i *Instant) UnmarshalText(b []byte) error {
	*i = ParseInstant(string(b))
	return nil
}
