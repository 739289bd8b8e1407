package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Capacity is the (min, max, desired) size of an autoscaling group
type Capacity struct {
	Min     int32
	Max     int32
	Desired int32
}

// Zero is the capacity of a halted group
var Zero = Capacity{}

// Valid reports whether 0 <= min <= desired <= max
func (c Capacity) Valid() bool {
	return c.Min >= 0 && c.Min <= c.Max && c.Desired >= c.Min && c.Desired <= c.Max
}

func (c Capacity) String() string {
	return fmt.Sprintf("min=%d max=%d desired=%d", c.Min, c.Max, c.Desired)
}

// ParseCount parses a capacity tag value. Values that are not integers or
// do not fit in int32 are reported as absent.
func ParseCount(value string) (int32, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ScheduledCapacity resolves each field from its tag, falling back to the
// current value when the tag is not numeric
func ScheduledCapacity(current Capacity, tags Tags, keys CapacityKeys) Capacity {
	target := current
	if n, ok := ParseCount(tags[keys.Min]); ok {
		target.Min = n
	}
	if n, ok := ParseCount(tags[keys.Max]); ok {
		target.Max = n
	}
	if n, ok := ParseCount(tags[keys.Desired]); ok {
		target.Desired = n
	}
	return target
}

// Sanitize clamps desired into [min, max] and rejects what still is not a
// valid capacity: negative sizes or min > max.
func Sanitize(c Capacity) (Capacity, bool) {
	if c.Desired < 0 {
		return Capacity{}, false
	}
	c.Desired = max(c.Min, min(c.Desired, c.Max))
	if !c.Valid() {
		return Capacity{}, false
	}
	return c, true
}

// ReconcileCapacity returns the capacity the group should be set to and true,
// or false when no update is needed or allowed. All three capacity tags must
// be present for any update; a partial tag set never produces a change.
func ReconcileCapacity(current Capacity, tags Tags, keys CapacityKeys, state RunState) (Capacity, bool) {
	if !tags.Has(keys.Min, keys.Max, keys.Desired) {
		return Capacity{}, false
	}

	switch state {
	case Run:
		target, ok := Sanitize(ScheduledCapacity(current, tags, keys))
		if !ok || target == current {
			return Capacity{}, false
		}
		return target, true
	case Halt:
		if current == Zero {
			return Capacity{}, false
		}
		return Zero, true
	default:
		return Capacity{}, false
	}
}
