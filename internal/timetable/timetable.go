package timetable

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"larder-service/internal/models"
	"larder-service/pkg/response"
)

const slotLayout = "15:04"

// WeekKey derives the timetable namespace for the week containing ref:
// the ISO year and week number of that week's Monday, e.g. "2026-W35".
func WeekKey(ref time.Time) string {
	wd := int(ref.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday := ref.AddDate(0, 0, 1-wd)
	year, week := monday.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Shift is a maximal run of consecutive slots held by one worker on one day.
// Derived on demand from the slot grid, never stored.
type Shift struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Overlap surfaces a slot occupied by two or more workers. Overlaps are
// reported for manual review, never blocked.
type Overlap struct {
	Slot      string `json:"slot"`
	WorkerIDs []int  `json:"worker_ids"`
}

// Store holds the per-week slot grid: week key -> weekday -> slot label ->
// sorted set of worker ids.
type Store struct {
	grid  []string
	pos   map[string]int
	weeks map[string]models.WeekGrid
}

// New builds a store over a 30-minute-style grid between open and close
// (inclusive), both in "15:04" form. step must divide the span evenly enough
// to land on close; a final partial step is simply not emitted.
func New(open, close string, step time.Duration) (*Store, error) {
	const op = "timetable.New"

	openT, err := time.Parse(slotLayout, open)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid open time: %w", op, err)
	}

	closeT, err := time.Parse(slotLayout, close)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid close time: %w", op, err)
	}

	if step <= 0 {
		return nil, fmt.Errorf("%s: step must be positive", op)
	}

	if closeT.Before(openT) {
		return nil, fmt.Errorf("%s: close time precedes open time", op)
	}

	var grid []string
	pos := make(map[string]int)
	for t := openT; !t.After(closeT); t = t.Add(step) {
		label := t.Format(slotLayout)
		pos[label] = len(grid)
		grid = append(grid, label)
	}

	return &Store{
		grid:  grid,
		pos:   pos,
		weeks: make(map[string]models.WeekGrid),
	}, nil
}

// Grid returns the slot labels in chronological order.
func (s *Store) Grid() []string {
	return slices.Clone(s.grid)
}

// EnsureWeek initializes empty slot sets for every (day, slot) pair of the
// given week. Idempotent: existing assignments are left untouched.
func (s *Store) EnsureWeek(weekKey string) {
	week, ok := s.weeks[weekKey]
	if !ok {
		week = make(models.WeekGrid, len(models.Weekdays))
		s.weeks[weekKey] = week
	}

	for _, day := range models.Weekdays {
		if _, ok := week[day]; !ok {
			week[day] = make(map[string][]int, len(s.grid))
		}
		for _, slot := range s.grid {
			if _, ok := week[day][slot]; !ok {
				week[day][slot] = []int{}
			}
		}
	}
}

// AssignRange adds workerID to every slot from startSlot to endSlot
// inclusive. Adding an already-present id is a no-op.
func (s *Store) AssignRange(weekKey, day string, workerID int, startSlot, endSlot string) error {
	const op = "timetable.Store.AssignRange"

	if !models.ValidWeekday(day) {
		return fmt.Errorf("%s: unknown day %q: %w", op, day, response.ErrValidation)
	}

	start, ok := s.pos[startSlot]
	if !ok {
		return fmt.Errorf("%s: slot %q not in grid: %w", op, startSlot, response.ErrRange)
	}

	end, ok := s.pos[endSlot]
	if !ok {
		return fmt.Errorf("%s: slot %q not in grid: %w", op, endSlot, response.ErrRange)
	}

	if start > end {
		return fmt.Errorf("%s: start %q after end %q: %w", op, startSlot, endSlot, response.ErrRange)
	}

	s.EnsureWeek(weekKey)
	daySlots := s.weeks[weekKey][day]

	for i := start; i <= end; i++ {
		daySlots[s.grid[i]] = insertSorted(daySlots[s.grid[i]], workerID)
	}

	return nil
}

// RemoveFromSlot removes workerID from one slot. Removing an absent id is a
// no-op; an unknown slot label is a range error.
func (s *Store) RemoveFromSlot(weekKey, day, slot string, workerID int) error {
	const op = "timetable.Store.RemoveFromSlot"

	if !models.ValidWeekday(day) {
		return fmt.Errorf("%s: unknown day %q: %w", op, day, response.ErrValidation)
	}

	if _, ok := s.pos[slot]; !ok {
		return fmt.Errorf("%s: slot %q not in grid: %w", op, slot, response.ErrRange)
	}

	week, ok := s.weeks[weekKey]
	if !ok {
		return nil
	}

	ids := week[day][slot]
	if i := slices.Index(ids, workerID); i != -1 {
		week[day][slot] = slices.Delete(ids, i, i+1)
	}

	return nil
}

// ClearWorkerDay removes the worker from every slot of one day.
func (s *Store) ClearWorkerDay(weekKey, day string, workerID int) error {
	const op = "timetable.Store.ClearWorkerDay"

	if !models.ValidWeekday(day) {
		return fmt.Errorf("%s: unknown day %q: %w", op, day, response.ErrValidation)
	}

	week, ok := s.weeks[weekKey]
	if !ok {
		return nil
	}

	for slot, ids := range week[day] {
		if i := slices.Index(ids, workerID); i != -1 {
			week[day][slot] = slices.Delete(ids, i, i+1)
		}
	}

	return nil
}

// PurgeWorker removes the worker from every slot of every week. Used by the
// worker-removal cascade so deleted ids never linger in the grid.
func (s *Store) PurgeWorker(workerID int) {
	for _, week := range s.weeks {
		for _, daySlots := range week {
			for slot, ids := range daySlots {
				if i := slices.Index(ids, workerID); i != -1 {
					daySlots[slot] = slices.Delete(ids, i, i+1)
				}
			}
		}
	}
}

// Shifts recomputes the contiguous shift blocks for one day: for each worker,
// every maximal run of grid-adjacent slots becomes one Shift. A worker
// assigned to a single isolated slot yields a shift whose start equals its
// end.
func (s *Store) Shifts(weekKey, day string) (map[int][]Shift, error) {
	const op = "timetable.Store.Shifts"

	if !models.ValidWeekday(day) {
		return nil, fmt.Errorf("%s: unknown day %q: %w", op, day, response.ErrValidation)
	}

	result := make(map[int][]Shift)

	week, ok := s.weeks[weekKey]
	if !ok {
		return result, nil
	}

	slotsByWorker := make(map[int][]int)
	for i, slot := range s.grid {
		for _, id := range week[day][slot] {
			slotsByWorker[id] = append(slotsByWorker[id], i)
		}
	}

	for id, positions := range slotsByWorker {
		sort.Ints(positions)

		start := positions[0]
		prev := positions[0]
		for _, p := range positions[1:] {
			if p != prev+1 {
				result[id] = append(result[id], Shift{Start: s.grid[start], End: s.grid[prev]})
				start = p
			}
			prev = p
		}
		result[id] = append(result[id], Shift{Start: s.grid[start], End: s.grid[prev]})
	}

	return result, nil
}

// Overlaps returns, in grid order, every slot of the day occupied by two or
// more distinct workers.
func (s *Store) Overlaps(weekKey, day string) ([]Overlap, error) {
	const op = "timetable.Store.Overlaps"

	if !models.ValidWeekday(day) {
		return nil, fmt.Errorf("%s: unknown day %q: %w", op, day, response.ErrValidation)
	}

	var overlaps []Overlap

	week, ok := s.weeks[weekKey]
	if !ok {
		return overlaps, nil
	}

	for _, slot := range s.grid {
		ids := week[day][slot]
		if len(ids) > 1 {
			overlaps = append(overlaps, Overlap{Slot: slot, WorkerIDs: slices.Clone(ids)})
		}
	}

	return overlaps, nil
}

// Week returns a deep copy of one week's grid, or an empty initialized grid
// when the week has never been touched.
func (s *Store) Week(weekKey string) models.WeekGrid {
	week, ok := s.weeks[weekKey]
	if !ok {
		out := make(models.WeekGrid, len(models.Weekdays))
		for _, day := range models.Weekdays {
			out[day] = make(map[string][]int, len(s.grid))
			for _, slot := range s.grid {
				out[day][slot] = []int{}
			}
		}
		return out
	}

	out := make(models.WeekGrid, len(week))
	for day, daySlots := range week {
		out[day] = make(map[string][]int, len(daySlots))
		for slot, ids := range daySlots {
			out[day][slot] = slices.Clone(ids)
		}
	}
	return out
}

// Export returns a deep copy of every week, for the persistence document.
func (s *Store) Export() map[string]models.WeekGrid {
	out := make(map[string]models.WeekGrid, len(s.weeks))
	for key := range s.weeks {
		out[key] = s.Week(key)
	}
	return out
}

// Replace swaps in a whole timetable, dropping slot labels that are not on
// the configured grid and de-duplicating ids per slot.
func (s *Store) Replace(weeks map[string]models.WeekGrid) {
	s.weeks = make(map[string]models.WeekGrid, len(weeks))
	for key, week := range weeks {
		clean := make(models.WeekGrid, len(week))
		for day, daySlots := range week {
			if !models.ValidWeekday(day) {
				continue
			}
			clean[day] = make(map[string][]int, len(daySlots))
			for slot, ids := range daySlots {
				if _, ok := s.pos[slot]; !ok {
					continue
				}
				var set []int
				for _, id := range ids {
					set = insertSorted(set, id)
				}
				if set == nil {
					set = []int{}
				}
				clean[day][slot] = set
			}
		}
		s.weeks[key] = clean
	}
}

// insertSorted keeps slot occupancy sorted and duplicate-free.
func insertSorted(ids []int, v int) []int {
	i := slices.IndexFunc(ids, func(x int) bool { return x >= v })
	if i == -1 {
		return append(ids, v)
	}
	if ids[i] == v {
		return ids
	}
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = v
	return ids
}
