package plan

import (
	"sort"
	"time"

	"github.com/mkiryanov/pland/internal/model"
)

// PlanItem is one rendered slot of a day plan: a meal, a fixed or
// recurring block, or a placed chunk of a flexible task. TaskID is empty
// for meals.
type PlanItem struct {
	Start  time.Time
	End    time.Time
	Label  string
	TaskID string
}

// EligibleFlex selects the flexible tasks the planner may place on the
// given day, ordered by descending score with shorter duration breaking
// ties. A task qualifies when it is pending, auto-planned, not overdue,
// its deadline does not fall before the configured end of the day, and
// it is either unassigned, assigned to this day, or carried over from an
// earlier assignment.
func (c Config) EligibleFlex(day, now time.Time, tasks []model.Task) []model.Task {
	dayEnd := c.WindowEnd.On(day)
	key := DateKey(day)
	var out []model.Task
	for _, t := range tasks {
		if t.Done || !t.Auto || t.Kind() != model.KindFlexible || t.Status == model.StatusOverdue {
			continue
		}
		if !t.DeadlineAt.IsZero() && t.DeadlineAt.Before(dayEnd) {
			continue
		}
		if t.PlannedFor == "" || t.PlannedFor <= key {
			out = append(out, t)
		}
	}
	c.sortByScore(out, now)
	return out
}

// chunkSize is the slice a task is placed in: splittable extreme tasks
// go in fixed chunks, everything else in one piece.
func (c Config) chunkSize(t model.Task) int {
	if t.Effort == model.EffortExtreme && t.Splittable {
		return c.ExtremeChunkMin
	}
	return t.DurationMin
}

// placeFlex greedily packs one task into the free set, chunk by chunk,
// stopping at the first chunk that does not fit. It returns the emitted
// items and the total minutes placed.
func (c Config) placeFlex(fs *FreeSet, t model.Task) ([]PlanItem, int) {
	var items []PlanItem
	need := t.DurationMin
	chunk := c.chunkSize(t)
	placed := 0
	for need > 0 && fs.TotalMinutes() > 0 {
		part := need
		if chunk < part {
			part = chunk
		}
		slot, ok := fs.Claim(part)
		if !ok {
			break
		}
		items = append(items, PlanItem{Start: slot.Start, End: slot.End, Label: t.Title, TaskID: t.ID})
		placed += part
		need -= part
	}
	return items, placed
}

// PlanDay builds the schedule for one day. The input tasks are never
// mutated; when persist is true the returned map carries the day
// assignments to stamp (task id to date key) for every task that got at
// least one chunk placed. Items are ordered by start time.
func (c Config) PlanDay(day, now time.Time, tasks []model.Task, persist bool) ([]PlanItem, map[string]string) {
	windowStart, windowEnd := c.DayWindow(day, now)
	fs := Window(windowStart, windowEnd)
	items := placeFixed(fs, c.fixedBlocks(day, windowStart, windowEnd, tasks))

	var delta map[string]string
	if persist {
		delta = make(map[string]string)
	}
	key := DateKey(day)
	for _, t := range c.EligibleFlex(day, now, tasks) {
		placedItems, placed := c.placeFlex(fs, t)
		items = append(items, placedItems...)
		if placed > 0 && persist {
			delta[t.ID] = key
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Start.Before(items[j].Start)
	})
	return items, delta
}
