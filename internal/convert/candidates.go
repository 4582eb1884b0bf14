package convert

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"tsconv/internal/ics"
	"tsconv/internal/model"
)

const layoutDisplay = "2006-01-02 15:04:05"

// The range of instants whose nanosecond count fits in an int64.
var (
	minUnixNano = time.Unix(0, math.MinInt64).UTC()
	maxUnixNano = time.Unix(0, math.MaxInt64).UTC()
)

var formatTitles = map[string]string{
	formatEpoch:     "Timestamp",
	formatISO8601:   "ISO 8601",
	formatRFC2822:   "RFC 2822",
	formatDateTime:  "Date and time",
	formatDate:      "Date",
	formatTime:      "Time today",
	formatICalendar: "iCalendar",
	formatNow:       "Current time",
}

// dateCandidates renders a numeric moment as date strings.
func (c *Converter) dateCandidates(m model.Moment, now time.Time) []model.Candidate {
	source := "timestamp in " + m.Precision.String()
	t := m.Time.UTC()

	iso := t.Format(time.RFC3339Nano)
	out := []model.Candidate{
		{
			Kind:  model.KindISO8601,
			Title: iso,
			Label: fmt.Sprintf("From %s: ISO 8601", source),
			Value: iso,
		},
	}

	if c.opts.RFC2822 {
		rfc := t.Format(time.RFC1123Z)
		out = append(out, model.Candidate{
			Kind:  model.KindRFC2822,
			Title: rfc,
			Label: fmt.Sprintf("From %s: RFC 2822", source),
			Value: rfc,
		})
	}

	out = append(out, c.clockCandidates(m, "From "+source)...)

	if c.opts.ICalendar {
		v := ics.FormatDateTime(t)
		out = append(out, model.Candidate{
			Kind:  model.KindICalendar,
			Title: v,
			Label: fmt.Sprintf("From %s: iCalendar DATE-TIME", source),
			Value: v,
		})
	}

	if c.opts.Relative {
		rel := Relative(t, now)
		out = append(out, model.Candidate{
			Kind:  model.KindRelative,
			Title: rel,
			Label: "Relative time",
			Value: rel,
		})
	}

	return out
}

// clockCandidates renders m as a wall-clock reading in UTC and, when a
// location is configured, in that location.
func (c *Converter) clockCandidates(m model.Moment, prefix string) []model.Candidate {
	t := m.Time.UTC()
	utc := t.Format(layoutDisplay)
	out := []model.Candidate{
		{
			Kind:  model.KindUTC,
			Title: utc,
			Label: prefix + ": UTC",
			Value: utc,
		},
	}

	if c.opts.Location != nil {
		lt := t.In(c.opts.Location)
		local := lt.Format(layoutDisplay)
		out = append(out, model.Candidate{
			Kind:  model.KindLocal,
			Title: local,
			Label: fmt.Sprintf("%s: local time (%s, %s)", prefix, c.opts.Location, lt.Format("-07:00")),
			Value: local,
		})
	}

	return out
}

// timestampCandidates renders a calendar moment as epoch numbers.
func (c *Converter) timestampCandidates(m model.Moment, _ time.Time) []model.Candidate {
	return c.epochCandidates(m, formatTitles[m.Format])
}

func (c *Converter) epochCandidates(m model.Moment, desc string) []model.Candidate {
	t := m.Time.UTC()
	out := []model.Candidate{
		epochCandidate(model.KindSeconds, desc, "seconds (s)", t.Unix()),
		epochCandidate(model.KindMilliseconds, desc, "milliseconds (ms)", t.UnixMilli()),
	}
	if c.opts.Microseconds {
		out = append(out, epochCandidate(model.KindMicroseconds, desc, "microseconds (µs)", t.UnixMicro()))
	}
	if !t.Before(minUnixNano) && !t.After(maxUnixNano) {
		out = append(out, epochCandidate(model.KindNanoseconds, desc, "nanoseconds (ns)", t.UnixNano()))
	}
	return out
}

func epochCandidate(kind model.Kind, desc, unit string, v int64) model.Candidate {
	s := strconv.FormatInt(v, 10)
	return model.Candidate{
		Kind:  kind,
		Title: s,
		Label: fmt.Sprintf("%s in %s", desc, unit),
		Value: s,
	}
}
