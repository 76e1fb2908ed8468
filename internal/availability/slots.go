package availability

import "time"

// GenerateSlots enumerates candidate start times inside the given windows.
// Starts step forward from each window's start by stepMinutes; a candidate is
// kept only while candidate+duration still fits the window. When the target
// date is today, starts at or before now are dropped.
//
// The step is independent of the duration: a 60-minute lesson can start on
// any 30-minute boundary.
func GenerateSlots(date time.Time, windows []Window, durationMinutes, stepMinutes int, now time.Time) []Slot {
	if durationMinutes <= 0 || stepMinutes <= 0 {
		return nil
	}

	duration := time.Duration(durationMinutes) * time.Minute
	sameDay := DateKey(date) == DateKey(now.In(date.Location()))

	var slots []Slot
	for _, w := range windows {
		windowEnd := w.End.On(date)
		for cand := w.Start.On(date); !cand.Add(duration).After(windowEnd); cand = cand.Add(time.Duration(stepMinutes) * time.Minute) {
			if sameDay && !cand.After(now) {
				continue
			}
			slots = append(slots, Slot{Start: cand, WindowEnd: windowEnd})
		}
	}
	return slots
}
