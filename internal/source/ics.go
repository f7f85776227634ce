package source

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "vacationcal/internal/log"
	"vacationcal/internal/model"
)

// Feed describes one ICS subscription. Events loaded from a feed carry the
// feed's display name as their owner, so a shared team calendar shows up as
// one row color.
type Feed struct {
	// URL is either an http(s) endpoint or a local file path.
	URL string `yaml:"url"`
	// Name is the owner label used for events from this feed.
	Name string `yaml:"name"`
}

func (f Feed) owner() string {
	if f.Name != "" {
		return f.Name
	}
	return f.URL
}

// ParseFeed converts an ICS payload into vacation events. Every VEVENT is
// collapsed to the calendar days it touches: all-day events keep their own
// date semantics (DTEND is exclusive per RFC 5545), timed events are
// projected into loc first. RRULE recurrences are expanded within
// [horizonStart, horizonEnd]; EXDATE exceptions are honored.
//
// Broken VEVENTs are logged and skipped; a broken calendar yields zero
// events rather than an error, matching the CSV loader's policy.
func ParseFeed(feed Feed, body []byte, horizonStart, horizonEnd model.Date, loc *time.Location) []model.Event {
	if loc == nil {
		loc = time.Local
	}
	if len(body) == 0 {
		return nil
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "feed", feed.owner())
		return nil
	}

	events := make([]model.Event, 0)
	for _, ve := range cal.Events() {
		evs, err := eventsFromVEvent(feed, ve, horizonStart, horizonEnd, loc)
		if err != nil {
			appLog.Error("ics vevent rejected", err, "feed", feed.owner())
			continue
		}
		events = append(events, evs...)
	}

	appLog.Info("ics feed parsed", "feed", feed.owner(), "event_count", len(events))
	return events
}

func eventsFromVEvent(feed Feed, ve *ical.VEvent, horizonStart, horizonEnd model.Date, loc *time.Location) ([]model.Event, error) {
	allDay := isAllDay(ve)

	// DATE-valued properties need the all-day accessors; the timed ones
	// reject values without a time part.
	var start, end time.Time
	var err error
	if allDay {
		start, err = ve.GetAllDayStartAt()
	} else {
		start, err = ve.GetStartAt()
	}
	if err != nil {
		return nil, errors.New("source: missing DTSTART")
	}
	if allDay {
		end, err = ve.GetAllDayEndAt()
	} else {
		end, err = ve.GetEndAt()
	}
	if err != nil || end.Before(start) {
		end = start
	}

	summary := ""
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		summary = p.Value
	}
	duration := end.Sub(start)

	rawRRule := ""
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		rawRRule = p.Value
	}

	if rawRRule == "" {
		ev := dateRangeEvent(feed, summary, start, end, allDay, loc)
		if !ev.Overlaps(horizonStart, horizonEnd) {
			return nil, nil
		}
		return []model.Event{ev}, nil
	}

	r, err := rrule.StrToRRule(rawRRule)
	if err != nil {
		return nil, err
	}
	r.DTStart(start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range exDates(ve) {
		set.ExDate(ex.In(start.Location()))
	}

	from := dateInLocation(horizonStart, start.Location())
	until := dateInLocation(horizonEnd, start.Location()).Add(24 * time.Hour)

	out := make([]model.Event, 0)
	for _, occStart := range set.Between(from, until, true) {
		occEnd := occStart.Add(duration)
		ev := dateRangeEvent(feed, summary, occStart, occEnd, allDay, loc)
		if ev.Overlaps(horizonStart, horizonEnd) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// dateRangeEvent collapses a start/end instant pair into an inclusive
// calendar-day range.
func dateRangeEvent(feed Feed, summary string, start, end time.Time, allDay bool, loc *time.Location) model.Event {
	var startDate, endDate model.Date
	if allDay {
		// All-day values already name calendar days; projecting them into a
		// display zone would shift the day near UTC boundaries.
		startDate = model.DateOf(start)
		endDate = model.DateOf(end)
		if end.After(start) {
			// DTEND is exclusive: a one-day event ends the next midnight.
			endDate = endDate.AddDays(-1)
		}
	} else {
		startDate = model.DateOf(start.In(loc))
		endInstant := end
		if end.After(start) {
			endInstant = end.Add(-time.Nanosecond)
		}
		endDate = model.DateOf(endInstant.In(loc))
	}
	if endDate.Before(startDate) {
		endDate = startDate
	}

	return model.Event{
		Owner:       feed.owner(),
		Start:       startDate,
		End:         endDate,
		Description: summary,
	}
}

// isAllDay detects DATE-valued DTSTART (VALUE=DATE parameter or a value
// without a time part).
func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if params := p.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(p.Value, "T")
}

// exDates collects EXDATE values in their basic DATE / DATE-TIME / UTC forms.
func exDates(ve *ical.VEvent) []time.Time {
	out := make([]time.Time, 0)
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

func parseICSTime(v string) (time.Time, error) {
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, time.Local)
	default:
		return time.ParseInLocation("20060102", v, time.Local)
	}
}

// dateInLocation returns midnight of d in the given location.
func dateInLocation(d model.Date, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}
