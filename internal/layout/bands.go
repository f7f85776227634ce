package layout

import (
	"strings"

	"vacationcal/internal/model"
)

// maxLabelRunes caps the description part of a band label.
const maxLabelRunes = 15

// Synthesize converts per-day row occupancy into drawable bands: exactly one
// Band per (event, week) pair the event is visible in. Bands never cross a
// week boundary; an event spanning weeks yields one truncated band per week.
//
// The day-by-day scan revisits an event on every day it occupies, so
// emission is keyed on the day the event first becomes visible in the week
// and guarded by a per-week dedup set on the event identity key.
//
// Every band's leading edge carries a label, including continuation segments
// in later weeks; the repeated owner label per week is intended behavior.
func Synthesize(occ *Occupancy, colors map[string]string) []model.Band {
	bands := make([]model.Band, 0)

	for weekIdx, week := range occ.window {
		drawn := make(map[model.EventKey]bool)

		for _, day := range week {
			for row, ev := range occ.RowsOn(day) {
				if ev == nil || drawn[ev.Key()] {
					continue
				}

				startInWeek := model.MaxDate(ev.Start, week.First())
				if !startInWeek.Equal(day) {
					continue
				}
				endInWeek := model.MinDate(ev.End, week.Last())
				drawn[ev.Key()] = true

				color, ok := colors[ev.Owner]
				if !ok {
					color = defaultBandColor
				}

				bands = append(bands, model.Band{
					Owner:     ev.Owner,
					Color:     color,
					Row:       row,
					WeekIndex: weekIdx,
					StartDay:  startInWeek.Weekday(),
					Length:    endInWeek.Weekday() - startInWeek.Weekday() + 1,
					Label:     bandLabel(ev),
					Start:     startInWeek,
					End:       endInWeek,
				})
			}
		}
	}

	return bands
}

const defaultBandColor = "#f0f0f0"

// bandLabel formats "owner: description", truncating the description to 15
// characters with an ellipsis. A blank description yields just the owner.
// Truncation counts runes, not bytes; descriptions are often multibyte.
func bandLabel(ev *model.Event) string {
	if strings.TrimSpace(ev.Description) == "" {
		return ev.Owner
	}

	runes := []rune(ev.Description)
	if len(runes) > maxLabelRunes {
		return ev.Owner + ": " + string(runes[:maxLabelRunes]) + "..."
	}
	return ev.Owner + ": " + ev.Description
}
