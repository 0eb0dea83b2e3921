package plan

import (
	"sort"
	"time"

	"github.com/mkiryanov/pland/internal/model"
)

type fixedBlock struct {
	start  time.Time
	end    time.Time
	label  string
	taskID string
}

// fixedBlocks collects the busy spans of the given day: the configured
// meals, pending fixed tasks overlapping the window, and pending
// recurring tasks occurring on that weekday. Each block is clipped to
// the window; blocks are ordered by clipped start, input order on ties.
func (c Config) fixedBlocks(day, windowStart, windowEnd time.Time, tasks []model.Task) []fixedBlock {
	var blocks []fixedBlock

	for _, meal := range c.Meals {
		start := meal.At.On(day)
		blocks = append(blocks, fixedBlock{
			start: start,
			end:   start.Add(time.Duration(meal.DurationMin) * time.Minute),
			label: meal.Label,
		})
	}

	for _, task := range tasks {
		if task.Done || task.Kind() != model.KindFixed {
			continue
		}
		if task.FixedStart.Before(windowEnd) && task.FixedEnd.After(windowStart) {
			blocks = append(blocks, fixedBlock{
				start:  *task.FixedStart,
				end:    *task.FixedEnd,
				label:  task.Title,
				taskID: task.ID,
			})
		}
	}

	weekday := model.WeekdayIndex(day.Weekday())
	for _, task := range tasks {
		if task.Done || task.Kind() != model.KindRecurring || !task.RecursOn(weekday) {
			continue
		}
		start := task.ConstantStart.On(day)
		end := task.ConstantEnd.On(day)
		if end.After(start) {
			blocks = append(blocks, fixedBlock{
				start:  start,
				end:    end,
				label:  task.Title,
				taskID: task.ID,
			})
		}
	}

	clipped := blocks[:0]
	for _, b := range blocks {
		if b.start.Before(windowStart) {
			b.start = windowStart
		}
		if b.end.After(windowEnd) {
			b.end = windowEnd
		}
		if b.end.After(b.start) {
			clipped = append(clipped, b)
		}
	}
	sort.SliceStable(clipped, func(i, j int) bool {
		return clipped[i].start.Before(clipped[j].start)
	})
	return clipped
}

// placeFixed subtracts each block from the free set in order and emits
// the corresponding plan items. Overlapping blocks are allowed; each is
// rendered as entered and the free set absorbs the union.
func placeFixed(fs *FreeSet, blocks []fixedBlock) []PlanItem {
	items := make([]PlanItem, 0, len(blocks))
	for _, b := range blocks {
		fs.Subtract(Interval{Start: b.start, End: b.end})
		items = append(items, PlanItem{
			Start:  b.start,
			End:    b.end,
			Label:  b.label,
			TaskID: b.taskID,
		})
	}
	return items
}
