// Package convert turns a free-form input string into a parsed moment and
// the list of alternate representations offered to the user.
//
// Parsing walks a fixed, ordered list of formats and stops at the first one
// that accepts the input. Numeric input converts to date strings, date/time
// input converts to epoch numbers.
package convert

import (
	"strings"
	"time"

	appLog "tsconv/internal/log"
	"tsconv/internal/model"
)

// Options controls candidate generation. The zero value yields only the
// candidates that are always present (ISO 8601 + UTC for numeric input,
// seconds/milliseconds/nanoseconds for date input).
type Options struct {
	// Clock supplies "now" for bare-time input and relative candidates.
	// If nil, SystemClock is used.
	Clock Clock

	// Location, if non-nil, adds a local-time candidate for numeric input.
	Location *time.Location

	RFC2822      bool
	Microseconds bool
	Relative     bool
	ICalendar    bool
}

// Converter is immutable after New and safe for concurrent use.
type Converter struct {
	opts  Options
	clock Clock
}

// New constructs a Converter.
func New(opts Options) *Converter {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}
	return &Converter{opts: opts, clock: clock}
}

// Resolve parses input into a Moment using the first matching format.
// It returns a *NoMatchError if no format accepts the input.
func (c *Converter) Resolve(input string) (model.Moment, error) {
	m, _, err := c.resolve(strings.TrimSpace(input), c.clock.Now().UTC())
	return m, err
}

// Convert parses input and returns its candidates in display order.
// It returns a *NoMatchError if no format accepts the input.
func (c *Converter) Convert(input string) ([]model.Candidate, error) {
	_, candidates, err := c.Analyze(input)
	return candidates, err
}

// Analyze is Convert that also returns the parsed moment. Both come from a
// single clock reading.
func (c *Converter) Analyze(input string) (model.Moment, []model.Candidate, error) {
	raw := strings.TrimSpace(input)
	now := c.clock.Now().UTC()

	m, f, err := c.resolve(raw, now)
	if err != nil {
		return model.Moment{}, nil, err
	}

	candidates := f.generate(c, m, now)
	appLog.Debug("input converted",
		"input", raw,
		"format", m.Format,
		"precision", m.Precision,
		"candidates", len(candidates),
	)
	return m, candidates, nil
}

// CurrentTime returns candidates describing now: epoch values followed by
// the UTC and local clock readings.
func (c *Converter) CurrentTime() []model.Candidate {
	now := c.clock.Now().UTC()
	m := model.Moment{Time: now, Precision: model.Nanoseconds, Format: formatNow}

	out := c.epochCandidates(m, "Current time")
	out = append(out, c.clockCandidates(m, "Current time")...)
	return out
}

func (c *Converter) resolve(raw string, now time.Time) (model.Moment, format, error) {
	if raw == "" {
		return model.Moment{}, format{}, &NoMatchError{Input: raw}
	}

	for _, f := range formats {
		if f.match != nil && !f.match.MatchString(raw) {
			continue
		}
		appLog.Debug("attempting format", "format", f.name, "input", raw)

		m, err := f.parse(raw, now)
		if err != nil {
			appLog.Debug("format rejected input", "format", f.name, "reason", err)
			continue
		}
		m.Format = f.name
		m.Time = m.Time.UTC()
		return m, f, nil
	}

	appLog.Debug("no format matched", "input", raw)
	return model.Moment{}, format{}, &NoMatchError{Input: raw}
}
