// Package layout is the event layout engine: it assigns each visible event a
// vertical row so that no two events sharing a calendar day collide, and
// turns the per-day row occupancy into contiguous week-bounded bands for the
// renderer.
package layout

import (
	"vacationcal/internal/model"
)

// Occupancy holds, for every visible day, the ordered row slots and which
// event (if any) occupies each. It is owned by Pack for the duration of one
// layout computation and is never cached across renders.
type Occupancy struct {
	window model.Window
	slots  map[model.Date][]*model.Event
}

// RowsOn returns the slot list for a visible day. The slice length equals
// 1 + the highest row index used on that day; nil entries are free slots.
func (o *Occupancy) RowsOn(d model.Date) []*model.Event {
	return o.slots[d]
}

// MaxRows returns the slot count of the single busiest day in the window.
// It drives the dynamic cell height of the whole grid.
func (o *Occupancy) MaxRows() int {
	maxRows := 0
	for _, rows := range o.slots {
		if len(rows) > maxRows {
			maxRows = len(rows)
		}
	}
	return maxRows
}

// Pack assigns a row to every event relevant to the window using first-fit
// greedy search: events are processed in input order, and each takes the
// lowest row that is free on every visible day of its clipped range.
//
// The result is stable, not optimal: the same input order always yields the
// same assignment, and tests rely on that. Events entirely outside the
// window are excluded and never annotated.
//
// Returned events are copies with Row set; the pointers stored in the
// occupancy alias the returned slice.
func Pack(events []model.Event, win model.Window) ([]*model.Event, *Occupancy) {
	occ := &Occupancy{
		window: win,
		slots:  make(map[model.Date][]*model.Event, model.WeeksPerWindow*model.DaysPerWeek),
	}

	packed := make([]*model.Event, 0, len(events))
	for i := range events {
		if !events[i].Overlaps(win.Start(), win.End()) {
			continue
		}

		ev := events[i]
		days := clippedDays(ev, win)

		row := 0
		for !occ.fits(days, row) {
			row++
		}
		occ.commit(days, row, &ev)

		ev.Row = row
		packed = append(packed, &ev)
	}

	return packed, occ
}

// clippedDays lists the event's visible days: its date range intersected
// with the window. Days outside the window never constrain packing.
func clippedDays(ev model.Event, win model.Window) []model.Date {
	start := model.MaxDate(ev.Start, win.Start())
	end := model.MinDate(ev.End, win.End())

	days := make([]model.Date, 0, start.DaysUntil(end)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// fits reports whether row is free on every given day: either beyond the
// current slot list length or explicitly empty.
func (o *Occupancy) fits(days []model.Date, row int) bool {
	for _, d := range days {
		rows := o.slots[d]
		if row < len(rows) && rows[row] != nil {
			return false
		}
	}
	return true
}

// commit marks row occupied by ev on every given day, growing each day's
// slot list with nil placeholders so indices stay aligned.
func (o *Occupancy) commit(days []model.Date, row int, ev *model.Event) {
	for _, d := range days {
		rows := o.slots[d]
		for len(rows) <= row {
			rows = append(rows, nil)
		}
		rows[row] = ev
		o.slots[d] = rows
	}
}
