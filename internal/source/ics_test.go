package source

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calendarBody(veventLines ...string) []byte {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//vacationcal//test//EN",
		"BEGIN:VEVENT",
	}
	lines = append(lines, veventLines...)
	lines = append(lines, "END:VEVENT", "END:VCALENDAR", "")
	return []byte(strings.Join(lines, "\r\n"))
}

func TestParseFeed_AllDayEndIsExclusive(t *testing.T) {
	body := calendarBody(
		"UID:offsite-1",
		"DTSTART;VALUE=DATE:20240310",
		"DTEND;VALUE=DATE:20240312",
		"SUMMARY:Team offsite",
	)

	events := ParseFeed(Feed{URL: "x", Name: "team"}, body,
		mustDate("2024/03/04"), mustDate("2024/03/31"), time.UTC)

	require.Len(t, events, 1)
	assert.Equal(t, "team", events[0].Owner)
	assert.Equal(t, "Team offsite", events[0].Description)
	assert.Equal(t, mustDate("2024/03/10"), events[0].Start)
	// DTEND 20240312 is exclusive: the event covers the 10th and 11th.
	assert.Equal(t, mustDate("2024/03/11"), events[0].End)
}

func TestParseFeed_SingleDayAllDay(t *testing.T) {
	body := calendarBody(
		"UID:holiday-1",
		"DTSTART;VALUE=DATE:20240320",
		"DTEND;VALUE=DATE:20240321",
		"SUMMARY:Holiday",
	)

	events := ParseFeed(Feed{URL: "x", Name: "team"}, body,
		mustDate("2024/03/04"), mustDate("2024/03/31"), time.UTC)

	require.Len(t, events, 1)
	assert.Equal(t, events[0].Start, events[0].End)
	assert.Equal(t, mustDate("2024/03/20"), events[0].Start)
}

func TestParseFeed_WeeklyRecurrenceWithinHorizon(t *testing.T) {
	body := calendarBody(
		"UID:standup-cover",
		"DTSTART;VALUE=DATE:20240304",
		"DTEND;VALUE=DATE:20240305",
		"RRULE:FREQ=WEEKLY;COUNT=10",
		"SUMMARY:On call",
	)

	events := ParseFeed(Feed{URL: "x", Name: "ops"}, body,
		mustDate("2024/03/04"), mustDate("2024/03/31"), time.UTC)

	// Mondays 03/04, 03/11, 03/18, 03/25; later occurrences fall outside
	// the horizon.
	require.Len(t, events, 4)
	for i, ev := range events {
		assert.Equal(t, mustDate("2024/03/04").AddDays(i*7), ev.Start, "occurrence %d", i)
		assert.Equal(t, ev.Start, ev.End)
	}
}

func TestParseFeed_TimedEventCollapsesToDays(t *testing.T) {
	body := calendarBody(
		"UID:trip-1",
		"DTSTART:20240315T220000Z",
		"DTEND:20240316T020000Z",
		"SUMMARY:Red-eye",
	)

	events := ParseFeed(Feed{URL: "x", Name: "alice"}, body,
		mustDate("2024/03/04"), mustDate("2024/03/31"), time.UTC)

	require.Len(t, events, 1)
	assert.Equal(t, mustDate("2024/03/15"), events[0].Start)
	assert.Equal(t, mustDate("2024/03/16"), events[0].End)
}

func TestParseFeed_OutsideHorizonDropped(t *testing.T) {
	body := calendarBody(
		"UID:old-1",
		"DTSTART;VALUE=DATE:20230101",
		"DTEND;VALUE=DATE:20230102",
		"SUMMARY:Last year",
	)

	events := ParseFeed(Feed{URL: "x", Name: "team"}, body,
		mustDate("2024/03/04"), mustDate("2024/03/31"), time.UTC)

	assert.Empty(t, events)
}

func TestParseFeed_GarbageBody(t *testing.T) {
	events := ParseFeed(Feed{URL: "x", Name: "team"}, []byte("not an ics file"),
		mustDate("2024/03/04"), mustDate("2024/03/31"), time.UTC)

	assert.Empty(t, events)
}
