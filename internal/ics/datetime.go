package ics

import (
	"errors"
	"regexp"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// dateTimePattern accepts the RFC 5545 DATE-TIME value forms that carry a
// clock: UTC ("20250101T090000Z") and floating ("20250101T090000").
// Date-only values are all digits and are claimed by the epoch parser first.
var dateTimePattern = regexp.MustCompile(`^[0-9]{8}T[0-9]{6}Z?$`)

// IsDateTime reports whether v looks like an iCalendar DATE-TIME value.
func IsDateTime(v string) bool {
	return dateTimePattern.MatchString(v)
}

// ParseDateTime parses an iCalendar DATE-TIME value through a scratch VEVENT
// so the library's DTSTART handling decides validity. Floating values have
// no zone and are read as UTC.
func ParseDateTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if !IsDateTime(v) {
		return time.Time{}, errors.New("ics: not a DATE-TIME value")
	}

	ev := ical.NewEvent(uuid.NewString())
	ev.SetProperty(ical.ComponentPropertyDtStart, v)

	t, err := ev.GetStartAt()
	if err != nil {
		return time.Time{}, err
	}

	if !strings.HasSuffix(v, "Z") {
		// The library places floating times in time.Local.
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
	}
	return t.UTC(), nil
}

// FormatDateTime renders t as the DTSTART value golang-ical would write for
// it, e.g. "20210101T000000Z". Sub-second precision is dropped.
func FormatDateTime(t time.Time) string {
	ev := ical.NewEvent(uuid.NewString())
	ev.SetStartAt(t.UTC())

	if p := ev.GetProperty(ical.ComponentPropertyDtStart); p != nil && p.Value != "" {
		return p.Value
	}
	return t.UTC().Format("20060102T150405Z")
}
