package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder-service/pkg/response"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := New("07:30", "18:00", 30*time.Minute)
	require.NoError(t, err)

	return st
}

func TestNewGrid(t *testing.T) {
	st := newTestStore(t)

	grid := st.Grid()
	require.Len(t, grid, 22)
	assert.Equal(t, "07:30", grid[0])
	assert.Equal(t, "08:00", grid[1])
	assert.Equal(t, "18:00", grid[21])
}

func TestWeekKey(t *testing.T) {
	// A Sunday and the Monday before it share a week.
	sunday := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, WeekKey(monday), WeekKey(sunday))
	assert.Equal(t, "2026-W35", WeekKey(monday))

	nextMonday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-W36", WeekKey(nextMonday))
}

func TestAssignRangeErrors(t *testing.T) {
	st := newTestStore(t)

	err := st.AssignRange("2026-W35", "Monday", 1, "07:45", "09:00")
	assert.ErrorIs(t, err, response.ErrRange)

	err = st.AssignRange("2026-W35", "Monday", 1, "09:00", "07:30")
	assert.ErrorIs(t, err, response.ErrRange)

	err = st.AssignRange("2026-W35", "Funday", 1, "08:00", "09:00")
	assert.ErrorIs(t, err, response.ErrValidation)
}

func TestAssignRangeIdempotent(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.AssignRange("2026-W35", "Monday", 1, "08:00", "10:00"))
	require.NoError(t, st.AssignRange("2026-W35", "Monday", 1, "09:00", "11:00"))

	single := newTestStore(t)
	require.NoError(t, single.AssignRange("2026-W35", "Monday", 1, "08:00", "11:00"))

	assert.Equal(t, single.Week("2026-W35"), st.Week("2026-W35"))
}

func TestShiftsCoverAssignedSlots(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.AssignRange("2026-W35", "Monday", 1, "08:00", "10:00"))
	require.NoError(t, st.AssignRange("2026-W35", "Monday", 1, "12:00", "14:30"))
	require.NoError(t, st.AssignRange("2026-W35", "Monday", 1, "17:00", "17:00"))

	shifts, err := st.Shifts("2026-W35", "Monday")
	require.NoError(t, err)
	require.Len(t, shifts[1], 3)

	assert.Equal(t, Shift{Start: "08:00", End: "10:00"}, shifts[1][0])
	assert.Equal(t, Shift{Start: "12:00", End: "14:30"}, shifts[1][1])
	assert.Equal(t, Shift{Start: "17:00", End: "17:00"}, shifts[1][2])

	// The union of shift spans is exactly the assigned slot set.
	pos := make(map[string]int)
	for i, slot := range st.Grid() {
		pos[slot] = i
	}

	covered := make(map[string]bool)
	for _, sh := range shifts[1] {
		for i := pos[sh.Start]; i <= pos[sh.End]; i++ {
			slot := st.Grid()[i]
			assert.False(t, covered[slot], "slot %s covered twice", slot)
			covered[slot] = true
		}
	}

	week := st.Week("2026-W35")
	for slot, ids := range week["Monday"] {
		if len(ids) > 0 {
			assert.True(t, covered[slot], "assigned slot %s not covered", slot)
		} else {
			assert.False(t, covered[slot], "empty slot %s covered", slot)
		}
	}
}

func TestShiftsAreMaximal(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.AssignRange("2026-W35", "Tuesday", 7, "08:00", "09:00"))
	require.NoError(t, st.AssignRange("2026-W35", "Tuesday", 7, "09:30", "10:00"))

	shifts, err := st.Shifts("2026-W35", "Tuesday")
	require.NoError(t, err)

	// Adjacent ranges must have merged into one block.
	require.Len(t, shifts[7], 1)
	assert.Equal(t, Shift{Start: "08:00", End: "10:00"}, shifts[7][0])

	pos := make(map[string]int)
	for i, slot := range st.Grid() {
		pos[slot] = i
	}

	require.NoError(t, st.AssignRange("2026-W35", "Tuesday", 7, "11:00", "12:00"))
	shifts, err = st.Shifts("2026-W35", "Tuesday")
	require.NoError(t, err)
	require.Len(t, shifts[7], 2)

	for i := 1; i < len(shifts[7]); i++ {
		assert.Greater(t, pos[shifts[7][i].Start], pos[shifts[7][i-1].End]+1,
			"groups %d and %d are mergeable", i-1, i)
	}
}

func TestOverlaps(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.AssignRange("2026-W35", "Friday", 1, "08:00", "10:00"))
	require.NoError(t, st.AssignRange("2026-W35", "Friday", 2, "09:00", "11:00"))

	overlaps, err := st.Overlaps("2026-W35", "Friday")
	require.NoError(t, err)
	require.Len(t, overlaps, 3)

	assert.Equal(t, Overlap{Slot: "09:00", WorkerIDs: []int{1, 2}}, overlaps[0])
	assert.Equal(t, "09:30", overlaps[1].Slot)
	assert.Equal(t, "10:00", overlaps[2].Slot)

	// Removing one occupant drops the slot from the overlap view.
	require.NoError(t, st.RemoveFromSlot("2026-W35", "Friday", "09:00", 1))

	overlaps, err = st.Overlaps("2026-W35", "Friday")
	require.NoError(t, err)
	require.Len(t, overlaps, 2)
	assert.Equal(t, "09:30", overlaps[0].Slot)
}

func TestRemoveFromSlotIdempotent(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.AssignRange("2026-W35", "Monday", 1, "08:00", "08:00"))
	require.NoError(t, st.RemoveFromSlot("2026-W35", "Monday", "08:00", 1))
	require.NoError(t, st.RemoveFromSlot("2026-W35", "Monday", "08:00", 1))
	require.NoError(t, st.RemoveFromSlot("2026-W35", "Monday", "08:00", 99))

	err := st.RemoveFromSlot("2026-W35", "Monday", "08:15", 1)
	assert.ErrorIs(t, err, response.ErrRange)
}

func TestClearWorkerDay(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.AssignRange("2026-W35", "Monday", 1, "08:00", "12:00"))
	require.NoError(t, st.AssignRange("2026-W35", "Monday", 2, "08:00", "12:00"))
	require.NoError(t, st.ClearWorkerDay("2026-W35", "Monday", 1))

	shifts, err := st.Shifts("2026-W35", "Monday")
	require.NoError(t, err)
	assert.Empty(t, shifts[1])
	assert.Len(t, shifts[2], 1)
}

func TestPurgeWorker(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.AssignRange("2026-W35", "Monday", 1, "08:00", "12:00"))
	require.NoError(t, st.AssignRange("2026-W36", "Saturday", 1, "09:00", "13:00"))
	require.NoError(t, st.AssignRange("2026-W36", "Saturday", 2, "09:00", "13:00"))

	st.PurgeWorker(1)

	for _, week := range []string{"2026-W35", "2026-W36"} {
		for _, daySlots := range st.Week(week) {
			for slot, ids := range daySlots {
				assert.NotContains(t, ids, 1, "week %s slot %s", week, slot)
			}
		}
	}

	shifts, err := st.Shifts("2026-W36", "Saturday")
	require.NoError(t, err)
	assert.Len(t, shifts[2], 1)
}

func TestEnsureWeekIdempotent(t *testing.T) {
	st := newTestStore(t)

	st.EnsureWeek("2026-W35")
	require.NoError(t, st.AssignRange("2026-W35", "Monday", 1, "08:00", "08:30"))
	st.EnsureWeek("2026-W35")

	shifts, err := st.Shifts("2026-W35", "Monday")
	require.NoError(t, err)
	assert.Len(t, shifts[1], 1)
}

func TestReplaceDropsUnknownSlots(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.AssignRange("2026-W35", "Monday", 1, "08:00", "08:30"))
	exported := st.Export()

	exported["2026-W35"]["Monday"]["23:00"] = []int{9}
	exported["2026-W35"]["Someday"] = map[string][]int{"08:00": {1}}
	exported["2026-W35"]["Monday"]["09:00"] = []int{3, 3, 2}

	st.Replace(exported)

	week := st.Week("2026-W35")
	_, ok := week["Monday"]["23:00"]
	assert.False(t, ok)
	assert.NotContains(t, week, "Someday")
	assert.Equal(t, []int{2, 3}, week["Monday"]["09:00"])
}
