// Package dbtime converts instants to the club's calendar, which is what DATE columns store.
package dbtime

import (
	"strings"
	"time"
)

const DefaultTimezone = "Asia/Seoul"

// LoadLocation resolves name, falling back to DefaultTimezone and finally UTC.
func LoadLocation(name string) *time.Location {
	if name = strings.TrimSpace(name); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// DayIn returns the calendar date of t as seen in loc, as midnight UTC.
func DayIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
