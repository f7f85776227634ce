package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format used by the CSV source and CLI flags.
const DateLayout = "2006/01/02"

// Date is a single calendar day. Internally it is midnight UTC, so values
// built through the constructors are comparable with == and usable as map
// keys regardless of the timezone events were loaded in.
type Date struct {
	t time.Time
}

// NewDate builds a Date for the given year/month/day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to the calendar day it falls on in its own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "YYYY/MM/DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("model: invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) Year() int        { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int         { return d.t.Day() }

// Time returns the underlying midnight-UTC instant.
func (d Date) Time() time.Time { return d.t }

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.t.AddDate(0, 0, n))
}

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Weekday returns the weekday index with Monday = 0 ... Sunday = 6.
func (d Date) Weekday() int {
	return (int(d.t.Weekday()) + 6) % 7
}

// DaysUntil returns the number of days from d to o (negative if o is earlier).
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t) / (24 * time.Hour))
}

func (d Date) String() string { return d.t.Format(DateLayout) }

// Format formats the date with a time layout string.
func (d Date) Format(layout string) string { return d.t.Format(layout) }

// MinDate returns the earlier of a and b.
func MinDate(a, b Date) Date {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxDate returns the later of a and b.
func MaxDate(a, b Date) Date {
	if b.After(a) {
		return b
	}
	return a
}

// Week is exactly seven consecutive days starting on a Monday.
type Week [7]Date

func (w Week) First() Date { return w[0] }
func (w Week) Last() Date  { return w[6] }

// WeeksPerWindow and DaysPerWeek fix the visible range: one prior week, the
// current week and the two following weeks.
const (
	DaysPerWeek    = 7
	WeeksPerWindow = 4
)

// Window is the four-week visible range [previous, current, next1, next2].
type Window [WeeksPerWindow]Week

// Start returns the first visible day.
func (w Window) Start() Date { return w[0].First() }

// End returns the last visible day.
func (w Window) End() Date { return w[WeeksPerWindow-1].Last() }

// Contains reports whether d falls inside the window.
func (w Window) Contains(d Date) bool {
	return !d.Before(w.Start()) && !d.After(w.End())
}

// Days returns all 28 visible days in order.
func (w Window) Days() []Date {
	out := make([]Date, 0, WeeksPerWindow*DaysPerWeek)
	for _, week := range w {
		out = append(out, week[:]...)
	}
	return out
}

// Event is one owner's reservation over an inclusive date range.
type Event struct {
	Owner       string
	Start       Date
	End         Date
	Description string

	// Row is assigned by the packing engine for one layout computation.
	// It is an output, not persisted state.
	Row int
}

// EventKey identifies a logical event. Records sharing a key are the same
// event; the later one in input order wins.
type EventKey struct {
	Owner string
	Start Date
	End   Date
}

func (e Event) Key() EventKey {
	return EventKey{Owner: e.Owner, Start: e.Start, End: e.End}
}

// Overlaps reports whether the event's range intersects [start, end].
func (e Event) Overlaps(start, end Date) bool {
	return !(e.End.Before(start) || e.Start.After(end))
}

// Band is one week-bounded contiguous drawable segment of an event. An event
// crossing week boundaries yields one Band per week it touches.
type Band struct {
	Owner     string
	Color     string
	Row       int
	WeekIndex int // 0..3 within the window
	StartDay  int // weekday index of the first visible day, 0=Monday
	Length    int // days within this week, 1..7
	Label     string

	// Start / End are the band's clipped date range within its week.
	Start Date
	End   Date
}
