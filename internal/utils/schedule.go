package utils

import (
	"fmt"
	"strings"
	"time"
)

// Quiz schedule timestamps travel as normalized "YYYY-MM-DD HH:MM:SS" strings
// and are stored in UTC. Parsing accepts a missing seconds component (the
// editor only offers minute precision) and the HTML datetime-local "T"
// separator; formatting always emits full seconds.
const (
	ScheduleTimeLayout       = "2006-01-02 15:04:05"
	scheduleTimeLayoutMinute = "2006-01-02 15:04"
)

// ParseScheduleTime parses a wire datetime string into a UTC time.
// Seconds default to :00 when absent.
func ParseScheduleTime(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, fmt.Errorf("datetime value is empty")
	}
	v = strings.Replace(v, "T", " ", 1)

	for _, layout := range []string{ScheduleTimeLayout, scheduleTimeLayoutMinute} {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q, expected YYYY-MM-DD HH:MM[:SS]", value)
}

// FormatScheduleTime renders a stored timestamp back into the wire format.
func FormatScheduleTime(t time.Time) string {
	return t.UTC().Format(ScheduleTimeLayout)
}

// ParseScheduleTimePtr parses an optional wire datetime; nil and empty map to nil.
func ParseScheduleTimePtr(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := ParseScheduleTime(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatScheduleTimePtr renders an optional timestamp; nil maps to nil.
func FormatScheduleTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatScheduleTime(*t)
	return &s
}
