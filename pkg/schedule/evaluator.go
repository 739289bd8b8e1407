package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RunState is the verdict of schedule evaluation
type RunState int

const (
	// Undetermined means the tags say nothing about now; the resource is left alone
	Undetermined RunState = iota
	// Run means the resource should be active
	Run
	// Halt means the resource should be inactive
	Halt
)

func (s RunState) String() string {
	switch s {
	case Run:
		return "run"
	case Halt:
		return "halt"
	default:
		return "undetermined"
	}
}

// MinutesPerDay is the number of minutes in a day
const MinutesPerDay = 24 * 60

// Clock is the local time context of one run, shared by every resource
type Clock struct {
	Time    time.Time
	Minute  int
	Weekday time.Weekday
}

// NewClock resolves now in loc into minute-of-day and weekday
func NewClock(now time.Time, loc *time.Location) Clock {
	local := now.In(loc)
	return Clock{
		Time:    local,
		Minute:  local.Hour()*60 + local.Minute(),
		Weekday: local.Weekday(),
	}
}

// LoadClock resolves now in the named IANA zone
func LoadClock(now time.Time, timezone string) (Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Clock{}, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return NewClock(now, loc), nil
}

// ParseClock parses "HH" or "HH:MM" into minute-of-day
func ParseClock(value string) (int, bool) {
	text := strings.TrimSpace(value)
	if text == "" {
		return 0, false
	}

	hourText, minuteText, hasMinute := strings.Cut(text, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(hourText))
	if err != nil {
		return 0, false
	}
	minute := 0
	if hasMinute {
		minute, err = strconv.Atoi(strings.TrimSpace(minuteText))
		if err != nil {
			return 0, false
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// Window is an active interval of the day in minutes, possibly crossing midnight
type Window struct {
	Start int
	Stop  int
}

// Contains reports whether minute falls inside the window.
// A zero-length window contains nothing, nor does any minute outside the day.
func (w Window) Contains(minute int) bool {
	switch {
	case minute < 0 || minute >= MinutesPerDay:
		return false
	case w.Start == w.Stop:
		return false
	case w.Start < w.Stop:
		return w.Start <= minute && minute < w.Stop
	default:
		return minute >= w.Start || minute < w.Stop
	}
}

// ParseWindow reads the start and stop tags. Both must be present and valid.
func ParseWindow(tags Tags, cfg Config) (Window, bool) {
	startValue, ok := tags.Lookup(cfg.StartKey)
	if !ok {
		return Window{}, false
	}
	stopValue, ok := tags.Lookup(cfg.StopKey)
	if !ok {
		return Window{}, false
	}
	start, ok := ParseClock(startValue)
	if !ok {
		return Window{}, false
	}
	stop, ok := ParseClock(stopValue)
	if !ok {
		return Window{}, false
	}
	return Window{Start: start, Stop: stop}, true
}

// FlagMatches reports whether the schedule flag tag is present and, when a
// required value is configured, equal to it ignoring case and surrounding space
func FlagMatches(tags Tags, cfg Config) bool {
	actual, ok := tags.Lookup(cfg.FlagKey)
	if !ok {
		return false
	}
	expected := strings.TrimSpace(cfg.FlagValue)
	if expected == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(actual), expected)
}

// Evaluate decides the desired run state of a resource from its tags.
// Order matters: flag, then weekday, then window. A weekday outside the
// set yields Undetermined, never Halt.
func Evaluate(tags Tags, cfg Config, clock Clock) RunState {
	if !FlagMatches(tags, cfg) {
		return Undetermined
	}

	raw, ok := tags.Lookup(cfg.WeekdaysKey)
	if !ok {
		return Undetermined
	}
	days, ok := ParseWeekdays(raw)
	if !ok || !days.Has(clock.Weekday) {
		return Undetermined
	}

	window, ok := ParseWindow(tags, cfg)
	if !ok {
		return Undetermined
	}
	if window.Contains(clock.Minute) {
		return Run
	}
	return Halt
}
