// Package timeutil converts between the 12-hour display times used by
// bookings ("9:00 AM"), 24-hour clock strings used by time-off periods
// ("09:00" / "09:00:00") and the minutes-since-midnight integers that all
// overlap arithmetic is done on.
package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	MinutesPerDay = 24 * 60

	// DefaultDurationMinutes applies whenever a duration cannot be resolved,
	// either from free-form text or from the service catalog.
	DefaultDurationMinutes = 60
)

var ErrOutOfRange = errors.New("timeutil: minutes out of range")

// FormatError reports a time string that does not have the expected shape.
type FormatError struct {
	Value  string
	Layout string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("timeutil: %q does not match %s", e.Value, e.Layout)
}

var (
	displayRe  = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])$`)
	clockRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	durationRe = regexp.MustCompile(`(?i)(\d+)\s*(min|hour|hr)`)
)

// ParseTimeToMinutes parses "H:MM AM|PM" into minutes since midnight.
func ParseTimeToMinutes(display string) (int, error) {
	m := displayRe.FindStringSubmatch(strings.TrimSpace(display))
	if m == nil {
		return 0, &FormatError{Value: display, Layout: "H:MM AM|PM"}
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, &FormatError{Value: display, Layout: "H:MM AM|PM"}
	}

	pm := strings.EqualFold(m[3], "PM")
	switch {
	case hour == 12 && !pm:
		hour = 0
	case hour != 12 && pm:
		hour += 12
	}

	return hour*60 + minute, nil
}

// FormatMinutesToTimeDisplay is the inverse of ParseTimeToMinutes.
func FormatMinutesToTimeDisplay(minutes int) (string, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "", ErrOutOfRange
	}

	hour := minutes / 60
	minute := minutes % 60

	period := "AM"
	if hour >= 12 {
		period = "PM"
	}

	displayHour := hour % 12
	if displayHour == 0 {
		displayHour = 12
	}

	return fmt.Sprintf("%d:%02d %s", displayHour, minute, period), nil
}

// Overlaps reports whether [startA,endA) and [startB,endB) intersect.
// Touching endpoints do not overlap.
func Overlaps(startA, endA, startB, endB int) bool {
	return startA < endB && endA > startB
}

// IsTimeOverlapping applies Overlaps to two (display start, duration) pairs.
func IsTimeOverlapping(startA string, durationA int, startB string, durationB int) (bool, error) {
	a, err := ParseTimeToMinutes(startA)
	if err != nil {
		return false, err
	}
	b, err := ParseTimeToMinutes(startB)
	if err != nil {
		return false, err
	}
	return Overlaps(a, a+durationA, b, b+durationB), nil
}

// ParseDurationToMinutes extracts "60 min", "2 hours", "1hr" style durations.
// Text without a recognizable duration yields DefaultDurationMinutes.
func ParseDurationToMinutes(text string) int {
	m := durationRe.FindStringSubmatch(text)
	if m == nil {
		return DefaultDurationMinutes
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultDurationMinutes
	}

	unit := strings.ToLower(m[2])
	if unit == "hour" || unit == "hr" {
		return n * 60
	}
	return n
}

// To24Hour converts "9:00 AM" into "09:00".
func To24Hour(display string) (string, error) {
	minutes, err := ParseTimeToMinutes(display)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// ParseClock parses "HH:MM" or "HH:MM:SS". Seconds are accepted and dropped;
// "24:00" / "24:00:00" is accepted as end of day.
func ParseClock(s string) (int, error) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, &FormatError{Value: s, Layout: "HH:MM[:SS]"}
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}

	if minute > 59 || second > 59 {
		return 0, &FormatError{Value: s, Layout: "HH:MM[:SS]"}
	}
	if hour > 24 || (hour == 24 && (minute != 0 || second != 0)) {
		return 0, &FormatError{Value: s, Layout: "HH:MM[:SS]"}
	}

	return hour*60 + minute, nil
}

// FormatClock renders minutes as "HH:MM:SS", clamping to the day bounds
// so that an interval running past midnight ends at "24:00:00".
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > MinutesPerDay {
		minutes = MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60)
}
