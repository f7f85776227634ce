// Package window computes the rolling four-week visible range shown by the
// calendar: the week before the anchor date's week, the anchor's week, and
// the two weeks after. Weeks run Monday through Sunday.
package window

import (
	"vacationcal/internal/model"
)

// Compute returns the four-week window around anchor. The result always
// spans exactly 28 consecutive days and window[1] contains anchor.
//
// Pure and deterministic; calendar arithmetic is delegated to the time
// package so month and year boundaries behave correctly.
func Compute(anchor model.Date) model.Window {
	monday := mondayOf(anchor)

	var win model.Window
	for i := 0; i < model.WeeksPerWindow; i++ {
		// Window order: previous, current, next1, next2.
		win[i] = weekFrom(monday.AddDays((i - 1) * model.DaysPerWeek))
	}
	return win
}

// mondayOf returns the Monday of the week containing d.
func mondayOf(d model.Date) model.Date {
	return d.AddDays(-d.Weekday())
}

// weekFrom builds the week starting at monday.
func weekFrom(monday model.Date) model.Week {
	var w model.Week
	for i := 0; i < model.DaysPerWeek; i++ {
		w[i] = monday.AddDays(i)
	}
	return w
}
