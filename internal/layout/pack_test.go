package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacationcal/internal/model"
	"vacationcal/internal/window"
)

// testWindow spans 2024/03/04 .. 2024/03/31 (anchor Friday 2024-03-15).
func testWindow() model.Window {
	return window.Compute(model.NewDate(2024, time.March, 15))
}

func mustDate(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ev(owner, start, end string) model.Event {
	return model.Event{
		Owner:       owner,
		Start:       mustDate(start),
		End:         mustDate(end),
		Description: owner + " leave",
	}
}

func TestPack_OverlappingEventsGetDistinctRows(t *testing.T) {
	win := testWindow()
	events := []model.Event{
		ev("A", "2024/03/10", "2024/03/12"),
		ev("A", "2024/03/11", "2024/03/13"),
	}

	packed, _ := Pack(events, win)

	require.Len(t, packed, 2)
	// First-fit in discovery order: first event takes row 0, the second is
	// blocked on 03/11-03/12 and lands on row 1.
	assert.Equal(t, 0, packed[0].Row)
	assert.Equal(t, 1, packed[1].Row)
}

func TestPack_NoCollisionInvariant(t *testing.T) {
	win := testWindow()
	events := []model.Event{
		ev("A", "2024/03/04", "2024/03/08"),
		ev("B", "2024/03/06", "2024/03/10"),
		ev("C", "2024/03/08", "2024/03/15"),
		ev("D", "2024/03/10", "2024/03/10"),
		ev("E", "2024/03/04", "2024/03/31"),
		ev("F", "2024/03/15", "2024/03/20"),
	}

	_, occ := Pack(events, win)

	for _, day := range win.Days() {
		rows := occ.RowsOn(day)
		seen := make(map[int]string)
		for row, e := range rows {
			if e == nil {
				continue
			}
			other, clash := seen[row]
			require.False(t, clash, "row %d on %s held by both %s and %s", row, day, other, e.Owner)
			seen[row] = e.Owner
		}
	}
}

func TestPack_RowFreeAcrossEntireSpan(t *testing.T) {
	win := testWindow()
	// B overlaps A only on 03/06 but must avoid A's row on every shared
	// day, and C must then find the lowest row free across its whole span.
	events := []model.Event{
		ev("A", "2024/03/04", "2024/03/06"),
		ev("B", "2024/03/06", "2024/03/08"),
		ev("C", "2024/03/05", "2024/03/07"),
	}

	packed, _ := Pack(events, win)

	require.Len(t, packed, 3)
	assert.Equal(t, 0, packed[0].Row)
	assert.Equal(t, 1, packed[1].Row)
	// C collides with A (row 0) on 03/05-03/06 and with B (row 1) on
	// 03/06-03/07, so it needs row 2.
	assert.Equal(t, 2, packed[2].Row)
}

func TestPack_ReleasedRowsAreReused(t *testing.T) {
	win := testWindow()
	events := []model.Event{
		ev("A", "2024/03/04", "2024/03/05"),
		ev("B", "2024/03/08", "2024/03/09"),
	}

	packed, _ := Pack(events, win)

	require.Len(t, packed, 2)
	// Disjoint events share row 0.
	assert.Equal(t, 0, packed[0].Row)
	assert.Equal(t, 0, packed[1].Row)
}

func TestPack_ExcludesEventsOutsideWindow(t *testing.T) {
	win := testWindow()
	events := []model.Event{
		ev("A", "2024/02/01", "2024/02/10"),
		ev("B", "2024/04/02", "2024/04/05"),
		ev("C", "2024/03/20", "2024/03/21"),
	}

	packed, occ := Pack(events, win)

	require.Len(t, packed, 1)
	assert.Equal(t, "C", packed[0].Owner)
	assert.Equal(t, 1, occ.MaxRows())
}

func TestPack_ClipsRangesStraddlingTheWindow(t *testing.T) {
	win := testWindow()
	// Starts before the window and ends after it; only visible days are
	// checked and occupied.
	events := []model.Event{
		ev("A", "2024/02/20", "2024/04/10"),
		ev("B", "2024/03/04", "2024/03/04"),
	}

	packed, occ := Pack(events, win)

	require.Len(t, packed, 2)
	assert.Equal(t, 0, packed[0].Row)
	assert.Equal(t, 1, packed[1].Row)

	// No occupancy exists outside the window.
	assert.Empty(t, occ.RowsOn(model.NewDate(2024, time.March, 3)))
	assert.Empty(t, occ.RowsOn(model.NewDate(2024, time.April, 1)))

	// Every visible day of the straddling event is occupied at row 0.
	for _, day := range win.Days() {
		rows := occ.RowsOn(day)
		require.NotEmpty(t, rows, "day %s", day)
		require.NotNil(t, rows[0])
		assert.Equal(t, "A", rows[0].Owner)
	}
}

func TestPack_SingleDayEvent(t *testing.T) {
	win := testWindow()
	packed, occ := Pack([]model.Event{ev("A", "2024/03/15", "2024/03/15")}, win)

	require.Len(t, packed, 1)
	assert.Equal(t, 0, packed[0].Row)
	require.Len(t, occ.RowsOn(model.NewDate(2024, time.March, 15)), 1)
	assert.Empty(t, occ.RowsOn(model.NewDate(2024, time.March, 14)))
	assert.Empty(t, occ.RowsOn(model.NewDate(2024, time.March, 16)))
}

func TestPack_Deterministic(t *testing.T) {
	win := testWindow()
	events := []model.Event{
		ev("A", "2024/03/10", "2024/03/12"),
		ev("B", "2024/03/11", "2024/03/13"),
		ev("C", "2024/03/12", "2024/03/14"),
	}

	first, _ := Pack(events, win)
	second, _ := Pack(events, win)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Row, second[i].Row)
	}
}

func TestOccupancy_MaxRows(t *testing.T) {
	win := testWindow()

	_, empty := Pack(nil, win)
	assert.Equal(t, 0, empty.MaxRows())

	events := []model.Event{
		ev("A", "2024/03/10", "2024/03/12"),
		ev("B", "2024/03/10", "2024/03/12"),
		ev("C", "2024/03/10", "2024/03/12"),
		ev("D", "2024/03/20", "2024/03/20"),
	}
	_, occ := Pack(events, win)
	assert.Equal(t, 3, occ.MaxRows())
}
