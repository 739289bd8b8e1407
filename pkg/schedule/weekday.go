package schedule

import (
	"strings"
	"time"
)

var weekdayTokens = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

// WeekdaySet is a set of weekdays stored as a bitmask indexed by time.Weekday
type WeekdaySet uint8

// Has reports whether d is in the set
func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// Add returns the set with d included
func (s WeekdaySet) Add(d time.Weekday) WeekdaySet {
	return s | 1<<uint(d)
}

// String renders the set as comma-separated tokens starting from Monday
func (s WeekdaySet) String() string {
	var parts []string
	for i := 1; i <= 7; i++ {
		d := time.Weekday(i % 7)
		if s.Has(d) {
			parts = append(parts, WeekdayToken(d))
		}
	}
	return strings.Join(parts, ",")
}

// WeekdayToken returns the lowercase three-letter token of d, e.g. "mon"
func WeekdayToken(d time.Weekday) string {
	return strings.ToLower(d.String()[:3])
}

// ParseWeekdays parses a comma-separated weekday list such as "Mon, TUE ,wed".
// Full day names are accepted. Unknown entries are ignored; the value is
// invalid only when no known day remains.
func ParseWeekdays(value string) (WeekdaySet, bool) {
	var set WeekdaySet
	for _, part := range strings.Split(value, ",") {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		if d, ok := lookupWeekday(token); ok {
			set = set.Add(d)
		}
	}
	if set == 0 {
		return 0, false
	}
	return set, true
}

func lookupWeekday(token string) (time.Weekday, bool) {
	if d, ok := weekdayTokens[token]; ok {
		return d, true
	}
	if len(token) > 3 {
		if d, ok := weekdayTokens[token[:3]]; ok && token == strings.ToLower(d.String()) {
			return d, true
		}
	}
	return 0, false
}
