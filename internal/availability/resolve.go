package availability

import (
	"sort"
	"time"
)

// openDayStart/openDayEnd bound an "available, no times given" override.
const (
	openDayStart TimeOfDay = 0
	openDayEnd   TimeOfDay = 24 * 60
)

// ResolveWindows computes the effective bookable windows for a date from the
// owner's recurring weekly windows and the override for that exact date, if
// any. An override always wins outright; weekly rules are never merged in.
// The result is ordered by start time and is a pure function of its inputs.
func ResolveWindows(date time.Time, weekly []WeeklyWindow, override *Override) []Window {
	if override != nil {
		if !override.Available {
			return nil
		}
		if override.Start != nil && override.End != nil {
			return []Window{{Start: *override.Start, End: *override.End}}
		}
		// Available with no explicit times: the whole day is open.
		return []Window{{Start: openDayStart, End: openDayEnd}}
	}

	var windows []Window
	for _, w := range weekly {
		if !w.Recurring || w.Weekday != date.Weekday() {
			continue
		}
		if w.End <= w.Start {
			continue
		}
		windows = append(windows, Window{Start: w.Start, End: w.End})
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })
	return windows
}
