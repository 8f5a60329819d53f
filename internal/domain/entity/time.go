package entity

import (
	"fmt"
	"time"
)

// LocalDateTime is an ISO-8601 date-time without zone ("2025-03-10T14:30:00")
// as produced by the backend. It is interpreted in the portal's time zone.
type LocalDateTime string

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// In parses the value in loc. Values carrying an explicit offset keep it.
func (l LocalDateTime) In(loc *time.Location) (time.Time, error) {
	s := string(l)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid local date-time %q", s)
}

// Less orders two values the way the UI sorts them (lexically on ISO text).
func (l LocalDateTime) Less(other LocalDateTime) bool {
	return string(l) < string(other)
}
