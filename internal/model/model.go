package model

import "time"

// Precision records the resolution of the source that produced a Moment.
type Precision int

const (
	// Calendar means the moment came from a date/clock string, not an epoch
	// number. Fractional seconds in ISO 8601 input are kept on the time value
	// but do not change the precision.
	Calendar Precision = iota
	Seconds
	Milliseconds
	Microseconds
	Nanoseconds
)

func (p Precision) String() string {
	switch p {
	case Seconds:
		return "seconds"
	case Milliseconds:
		return "milliseconds"
	case Microseconds:
		return "microseconds"
	case Nanoseconds:
		return "nanoseconds"
	default:
		return "calendar"
	}
}

// Numeric reports whether the moment was parsed from an epoch number.
func (p Precision) Numeric() bool {
	return p != Calendar
}

// Moment is a single parsed point in time.
type Moment struct {
	// Time is always expressed in UTC. Offsets present in the input were
	// applied while parsing.
	Time time.Time

	Precision Precision

	// Format is the name of the format entry that matched, e.g. "iso8601".
	Format string
}

// Kind tags a candidate with the representation it carries.
type Kind string

const (
	KindSeconds      Kind = "seconds"
	KindMilliseconds Kind = "milliseconds"
	KindMicroseconds Kind = "microseconds"
	KindNanoseconds  Kind = "nanoseconds"
	KindISO8601      Kind = "iso8601"
	KindRFC2822      Kind = "rfc2822"
	KindUTC          Kind = "utc"
	KindLocal        Kind = "local"
	KindICalendar    Kind = "icalendar"
	KindRelative     Kind = "relative"
)

// Epoch reports whether the candidate carries a numeric epoch value.
func (k Kind) Epoch() bool {
	switch k {
	case KindSeconds, KindMilliseconds, KindMicroseconds, KindNanoseconds:
		return true
	}
	return false
}

// Candidate is one converted representation offered for selection.
type Candidate struct {
	Kind Kind `json:"kind"`

	// Title is what the user sees.
	Title string `json:"title"`
	// Label is a short description of the unit or format.
	Label string `json:"label"`
	// Value is copied to the clipboard when the candidate is selected.
	Value string `json:"value"`
}
