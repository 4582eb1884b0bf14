package convert

import (
	"errors"
	"math"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tsconv/internal/ics"
	"tsconv/internal/model"
)

const (
	formatEpoch     = "epoch"
	formatISO8601   = "iso8601"
	formatRFC2822   = "rfc2822"
	formatDateTime  = "datetime"
	formatDate      = "date"
	formatTime      = "time"
	formatICalendar = "icalendar"
	formatNow       = "now"
)

// Month, day and clock fields take one or two digits.
const (
	layoutDateTime = "2006-1-2 15:4:5"
	layoutDate     = "2006-1-2"
	layoutTime     = "15:4:5"
)

// maxEpochSeconds bounds the seconds value an epoch number may resolve to
// before a finer unit is tried: the largest uint32, 2106-02-07 as seconds.
const maxEpochSeconds = math.MaxUint32

// format is one entry of the ordered resolution list.
type format struct {
	name string
	// match gates the parser; nil means always attempt.
	match *regexp.Regexp
	parse func(raw string, now time.Time) (model.Moment, error)
	// generate builds the candidates for a moment this format produced.
	generate func(c *Converter, m model.Moment, now time.Time) []model.Candidate
}

// formats is evaluated in order; the first successful parse wins.
var formats = []format{
	{
		name:     formatEpoch,
		match:    regexp.MustCompile(`^[+-]?[0-9]+$`),
		parse:    parseEpoch,
		generate: (*Converter).dateCandidates,
	},
	{
		name:     formatISO8601,
		match:    regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}[Tt ][0-9]{2}:[0-9]{2}:[0-9]{2}`),
		parse:    parseISO8601,
		generate: (*Converter).timestampCandidates,
	},
	{
		name:     formatRFC2822,
		parse:    parseRFC2822,
		generate: (*Converter).timestampCandidates,
	},
	{
		name:     formatDateTime,
		match:    regexp.MustCompile(`^[0-9]{4}-[0-9]{1,2}-[0-9]{1,2} [0-9]{1,2}:[0-9]{1,2}:[0-9]{1,2}$`),
		parse:    layoutParser(layoutDateTime),
		generate: (*Converter).timestampCandidates,
	},
	{
		name:     formatDate,
		match:    regexp.MustCompile(`^[0-9]{4}-[0-9]{1,2}-[0-9]{1,2}$`),
		parse:    layoutParser(layoutDate),
		generate: (*Converter).timestampCandidates,
	},
	{
		name:     formatTime,
		match:    regexp.MustCompile(`^[0-9]{1,2}:[0-9]{1,2}:[0-9]{1,2}$`),
		parse:    parseTimeToday,
		generate: (*Converter).timestampCandidates,
	},
	{
		name:     formatICalendar,
		parse:    parseICalendar,
		generate: (*Converter).timestampCandidates,
	},
}

var epochUnits = []struct {
	precision model.Precision
	perSecond int64
}{
	{model.Seconds, 1},
	{model.Milliseconds, 1_000},
	{model.Microseconds, 1_000_000},
	{model.Nanoseconds, 1_000_000_000},
}

// parseEpoch picks the coarsest unit whose whole-second value stays within
// ±maxEpochSeconds. Values that overflow int64 or stay out of range even as
// nanoseconds are rejected so resolution falls through to later formats.
func parseEpoch(raw string, _ time.Time) (model.Moment, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return model.Moment{}, err
	}

	for _, u := range epochUnits {
		sec := v / u.perSecond
		if sec > maxEpochSeconds || sec < -maxEpochSeconds {
			continue
		}
		nsec := (v % u.perSecond) * (int64(time.Second) / u.perSecond)
		return model.Moment{
			Time:      time.Unix(sec, nsec).UTC(),
			Precision: u.precision,
		}, nil
	}

	return model.Moment{}, errors.New("epoch value out of range for every unit")
}

var iso8601Layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05 Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05 -0700",
	// Naive; read as UTC.
	"2006-01-02T15:04:05",
	// A space separator needs an offset. Without one the input belongs to
	// the naive date-and-time entry.
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 Z07:00",
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05 -0700",
}

// parseISO8601 accepts date-time forms, with "t" and "z" in either case.
// Fractional seconds are accepted by time.Parse after the seconds field even
// though no layout spells them out.
func parseISO8601(raw string, _ time.Time) (model.Moment, error) {
	raw = strings.ToUpper(raw)

	var firstErr error
	for _, layout := range iso8601Layouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return model.Moment{Time: t, Precision: model.Calendar}, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return model.Moment{}, firstErr
}

func parseRFC2822(raw string, _ time.Time) (model.Moment, error) {
	t, err := mail.ParseDate(raw)
	if err != nil {
		return model.Moment{}, err
	}
	return model.Moment{Time: t, Precision: model.Calendar}, nil
}

// layoutParser parses a naive layout as UTC.
func layoutParser(layout string) func(string, time.Time) (model.Moment, error) {
	return func(raw string, _ time.Time) (model.Moment, error) {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err != nil {
			return model.Moment{}, err
		}
		return model.Moment{Time: t, Precision: model.Calendar}, nil
	}
}

// parseTimeToday places a bare clock time on now's UTC calendar date.
func parseTimeToday(raw string, now time.Time) (model.Moment, error) {
	clock, err := time.ParseInLocation(layoutTime, raw, time.UTC)
	if err != nil {
		return model.Moment{}, err
	}
	y, mo, d := now.UTC().Date()
	t := time.Date(y, mo, d, clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
	return model.Moment{Time: t, Precision: model.Calendar}, nil
}

func parseICalendar(raw string, _ time.Time) (model.Moment, error) {
	t, err := ics.ParseDateTime(raw)
	if err != nil {
		return model.Moment{}, err
	}
	return model.Moment{Time: t, Precision: model.Calendar}, nil
}
