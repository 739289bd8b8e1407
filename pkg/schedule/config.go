package schedule

import "strings"

// Default tag keys
const (
	DefaultFlagKey     = "Schedule"
	DefaultFlagValue   = "True"
	DefaultStartKey    = "Schedule_Start"
	DefaultStopKey     = "Schedule_Stop"
	DefaultWeekdaysKey = "Schedule_Weekend"
	DefaultMinKey      = "Schedule_Asg_Min"
	DefaultMaxKey      = "Schedule_Asg_Max"
	DefaultDesiredKey  = "Schedule_Asg_Desired"
)

// CapacityKeys names the tags holding an autoscaling group's scheduled size
type CapacityKeys struct {
	Min     string
	Max     string
	Desired string
}

// Config holds the tag keys that drive schedule evaluation.
// FlagValue may be empty, in which case any value of FlagKey matches.
type Config struct {
	FlagKey     string
	FlagValue   string
	StartKey    string
	StopKey     string
	WeekdaysKey string
	Capacity    CapacityKeys
}

// DefaultConfig returns the configuration with every key at its default
func DefaultConfig() Config {
	return Config{
		FlagKey:     DefaultFlagKey,
		FlagValue:   DefaultFlagValue,
		StartKey:    DefaultStartKey,
		StopKey:     DefaultStopKey,
		WeekdaysKey: DefaultWeekdaysKey,
		Capacity: CapacityKeys{
			Min:     DefaultMinKey,
			Max:     DefaultMaxKey,
			Desired: DefaultDesiredKey,
		},
	}
}

// WithDefaults substitutes the default for every blank key.
// FlagValue is left alone because blank is meaningful there.
func (c Config) WithDefaults() Config {
	c.FlagKey = keyOrDefault(c.FlagKey, DefaultFlagKey)
	c.FlagValue = strings.TrimSpace(c.FlagValue)
	c.StartKey = keyOrDefault(c.StartKey, DefaultStartKey)
	c.StopKey = keyOrDefault(c.StopKey, DefaultStopKey)
	c.WeekdaysKey = keyOrDefault(c.WeekdaysKey, DefaultWeekdaysKey)
	c.Capacity.Min = keyOrDefault(c.Capacity.Min, DefaultMinKey)
	c.Capacity.Max = keyOrDefault(c.Capacity.Max, DefaultMaxKey)
	c.Capacity.Desired = keyOrDefault(c.Capacity.Desired, DefaultDesiredKey)
	return c
}

func keyOrDefault(key, def string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return def
	}
	return key
}
