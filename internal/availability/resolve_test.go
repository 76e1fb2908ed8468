package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func monday(t *testing.T) time.Time {
	t.Helper()
	d := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, d.Weekday())
	return d
}

func TestResolveWeeklyWindows(t *testing.T) {
	weekly := []WeeklyWindow{
		{Weekday: time.Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "12:00"), Recurring: true},
		{Weekday: time.Monday, Start: mustTime(t, "14:00"), End: mustTime(t, "17:00"), Recurring: true},
		{Weekday: time.Tuesday, Start: mustTime(t, "09:00"), End: mustTime(t, "12:00"), Recurring: true},
		{Weekday: time.Monday, Start: mustTime(t, "18:00"), End: mustTime(t, "20:00"), Recurring: false},
	}

	windows := ResolveWindows(monday(t), weekly, nil)
	require.Len(t, windows, 2)
	assert.Equal(t, "09:00", windows[0].Start.String())
	assert.Equal(t, "12:00", windows[0].End.String())
	assert.Equal(t, "14:00", windows[1].Start.String())
}

func TestResolveWindowsSorted(t *testing.T) {
	weekly := []WeeklyWindow{
		{Weekday: time.Monday, Start: mustTime(t, "14:00"), End: mustTime(t, "17:00"), Recurring: true},
		{Weekday: time.Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "12:00"), Recurring: true},
	}

	windows := ResolveWindows(monday(t), weekly, nil)
	require.Len(t, windows, 2)
	assert.True(t, windows[0].Start < windows[1].Start)
}

func TestOverrideBlocksDay(t *testing.T) {
	weekly := []WeeklyWindow{
		{Weekday: time.Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "12:00"), Recurring: true},
	}
	override := &Override{Date: "2026-09-07", Available: false}

	windows := ResolveWindows(monday(t), weekly, override)
	assert.Empty(t, windows)
}

func TestOverrideReplacesWeekly(t *testing.T) {
	weekly := []WeeklyWindow{
		{Weekday: time.Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "12:00"), Recurring: true},
		{Weekday: time.Monday, Start: mustTime(t, "14:00"), End: mustTime(t, "17:00"), Recurring: true},
	}
	start := mustTime(t, "10:00")
	end := mustTime(t, "11:00")
	override := &Override{Date: "2026-09-07", Available: true, Start: &start, End: &end}

	// Override wins outright; weekly windows are never merged in.
	windows := ResolveWindows(monday(t), weekly, override)
	require.Len(t, windows, 1)
	assert.Equal(t, start, windows[0].Start)
	assert.Equal(t, end, windows[0].End)
}

func TestOverrideAvailableWithoutTimesOpensDay(t *testing.T) {
	override := &Override{Date: "2026-09-07", Available: true}

	windows := ResolveWindows(monday(t), nil, override)
	require.Len(t, windows, 1)
	assert.Equal(t, TimeOfDay(0), windows[0].Start)
	assert.Equal(t, TimeOfDay(24*60), windows[0].End)
}

func TestResolveIsIdempotent(t *testing.T) {
	weekly := []WeeklyWindow{
		{Weekday: time.Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "12:00"), Recurring: true},
	}

	first := ResolveWindows(monday(t), weekly, nil)
	second := ResolveWindows(monday(t), weekly, nil)
	assert.Equal(t, first, second)
}

func TestResolveSkipsInvertedWindows(t *testing.T) {
	weekly := []WeeklyWindow{
		{Weekday: time.Monday, Start: mustTime(t, "12:00"), End: mustTime(t, "09:00"), Recurring: true},
	}

	assert.Empty(t, ResolveWindows(monday(t), weekly, nil))
}
