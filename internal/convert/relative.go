package convert

import (
	"math"
	"strconv"
	"time"

	"github.com/hako/durafmt"
)

const (
	// relativeUnits is how many non-zero units a relative candidate shows.
	relativeUnits = 3

	// durafmt counts a year as 365 days.
	yearSeconds = 365 * 24 * 60 * 60

	maxDurationSeconds = uint64(math.MaxInt64 / int64(time.Second))
)

// Relative describes the distance from now to t, e.g. "3 years 10 weeks
// 4 days ago" or "in 5 minutes". It works on whole seconds so spans beyond
// the range of time.Duration are still rendered.
func Relative(t, now time.Time) string {
	diff := t.Unix() - now.Unix()
	if diff == 0 {
		return "now"
	}

	past := diff < 0
	// Magnitude as uint64 so math.MinInt64 does not overflow.
	mag := uint64(diff)
	if past {
		mag = uint64(-(diff + 1)) + 1
	}

	s := formatSeconds(mag)
	if past {
		return s + " ago"
	}
	return "in " + s
}

func formatSeconds(sec uint64) string {
	if sec <= maxDurationSeconds {
		return durafmt.Parse(time.Duration(sec) * time.Second).LimitFirstN(relativeUnits).String()
	}

	// time.Duration stops near 292 years; whole years are peeled off first.
	s := strconv.FormatUint(sec/yearSeconds, 10) + " years"
	rest := sec % yearSeconds
	if rest == 0 {
		return s
	}
	return s + " " + durafmt.Parse(time.Duration(rest)*time.Second).LimitFirstN(relativeUnits-1).String()
}
