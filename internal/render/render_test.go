package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacationcal/internal/geometry"
	"vacationcal/internal/model"
	"vacationcal/internal/window"
)

func testOptions(bands []model.Band) Options {
	anchor := model.NewDate(2024, time.March, 15)
	return Options{
		Window: window.Compute(anchor),
		Today:  anchor,
		Bands:  bands,
		Mapper: geometry.NewMapper(geometry.Config{}, maxRow(bands)+1),
	}
}

func maxRow(bands []model.Band) int {
	m := -1
	for _, b := range bands {
		if b.Row > m {
			m = b.Row
		}
	}
	return m
}

func TestDocument_GridStructure(t *testing.T) {
	doc := Document(testOptions(nil))

	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(doc), "</svg>"))

	// Seven weekday header labels.
	for _, label := range DefaultWeekdayLabels {
		assert.Contains(t, doc, ">"+label+"</text>")
	}

	// 28 day cells plus 7 header cells carry the cell class.
	assert.Equal(t, 35, strings.Count(doc, `class="cell`))

	// Exactly one today cell, four Saturdays and four Sundays.
	assert.Equal(t, 1, strings.Count(doc, `class="cell today"`))
	assert.Equal(t, 4, strings.Count(doc, `class="cell saturday"`))
	assert.Equal(t, 4, strings.Count(doc, `class="cell sunday"`))
}

func TestDocument_TodayBeatsWeekendTint(t *testing.T) {
	// Anchor on a Saturday: the cell is "today", not "saturday", so only
	// three Saturdays keep the tint.
	anchor := model.NewDate(2024, time.March, 16)
	doc := Document(Options{
		Window: window.Compute(anchor),
		Today:  anchor,
		Mapper: geometry.NewMapper(geometry.Config{}, 0),
	})

	assert.Equal(t, 1, strings.Count(doc, `class="cell today"`))
	assert.Equal(t, 3, strings.Count(doc, `class="cell saturday"`))
}

func TestDocument_MonthLabelOnFirstOfMonth(t *testing.T) {
	// The window 2024/03/04..2024/03/31 contains no 1st; no month label.
	doc := Document(testOptions(nil))
	assert.NotContains(t, doc, `class="month"`)

	// An April window contains 04/01.
	anchor := model.NewDate(2024, time.April, 10)
	doc = Document(Options{
		Window: window.Compute(anchor),
		Today:  anchor,
		Mapper: geometry.NewMapper(geometry.Config{}, 0),
	})
	assert.Contains(t, doc, `>4月</text>`)
}

func TestDocument_Bands(t *testing.T) {
	bands := []model.Band{
		{
			Owner: "alice", Color: "#ffb3ba", Row: 0,
			WeekIndex: 1, StartDay: 2, Length: 3,
			Label: "alice: trip",
		},
	}
	doc := Document(testOptions(bands))

	assert.Contains(t, doc, `fill="#ffb3ba" class="event-rect"`)
	assert.Contains(t, doc, `class="event">alice: trip</text>`)
}

func TestDocument_EscapesLabels(t *testing.T) {
	bands := []model.Band{
		{
			Owner: "a&b", Color: "#ffb3ba", Row: 0,
			WeekIndex: 0, StartDay: 0, Length: 1,
			Label: `a&b: <review> "draft"`,
		},
	}
	doc := Document(testOptions(bands))

	assert.Contains(t, doc, "a&amp;b: &lt;review&gt; &quot;draft&quot;")
	assert.NotContains(t, doc, "<review>")
}

func TestDocument_CustomWeekdayLabels(t *testing.T) {
	labels := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	opts := testOptions(nil)
	opts.WeekdayLabels = labels

	doc := Document(opts)
	for _, l := range labels {
		assert.Contains(t, doc, ">"+l+"</text>")
	}
}

func TestWriteFile(t *testing.T) {
	path := t.TempDir() + "/calendar.svg"
	require.NoError(t, WriteFile(path, testOptions(nil)))

	assert.FileExists(t, path)
}
