package plan

import (
	"sort"
	"time"

	"github.com/mkiryanov/pland/internal/model"
)

// WeekDay is one day of a week plan.
type WeekDay struct {
	Date  time.Time
	Label string
	Items []PlanItem
}

const weekLabelLayout = "Mon 02.01"

// PlanWeek builds a schedule over the configured horizon starting at
// startDay, assigning each flexible task to at most one day: the first
// day, up to its deadline, where any chunk of it fits. Candidate days
// are evaluated at the reference hour so that scoring and eligibility do
// not depend on the time of day the plan is requested. The input tasks
// are never mutated; the returned map carries the day assignments the
// placement implies.
func (c Config) PlanWeek(startDay, now time.Time, tasks []model.Task) ([]WeekDay, map[string]string) {
	snapshot := make([]model.Task, len(tasks))
	for i, t := range tasks {
		snapshot[i] = t.Clone()
	}

	days := make([]time.Time, c.WeekDays)
	for i := range days {
		d := startDay.AddDate(0, 0, i)
		days[i] = time.Date(d.Year(), d.Month(), d.Day(), c.WeekRefHour, 0, 0, 0, d.Location())
	}

	out := make([]WeekDay, len(days))
	free := make([]*FreeSet, len(days))
	for i, day := range days {
		windowStart, windowEnd := c.DayWindow(day, now)
		fs := Window(windowStart, windowEnd)
		out[i] = WeekDay{
			Date:  day,
			Label: day.Format(weekLabelLayout),
			Items: placeFixed(fs, c.fixedBlocks(day, windowStart, windowEnd, snapshot)),
		}
		free[i] = fs
	}

	var flex []model.Task
	for _, t := range snapshot {
		if t.Done || !t.Auto || t.Kind() != model.KindFlexible || t.Status == model.StatusOverdue {
			continue
		}
		flex = append(flex, t)
	}
	c.sortByScore(flex, now)

	delta := make(map[string]string)
	for _, t := range flex {
		lastDay := days[len(days)-1]
		if !t.DeadlineAt.IsZero() && t.DeadlineAt.Before(lastDay) {
			lastDay = t.DeadlineAt
		}
		for i, day := range days {
			if day.After(lastDay) {
				break
			}
			items, placed := c.placeFlex(free[i], t)
			out[i].Items = append(out[i].Items, items...)
			if placed > 0 {
				delta[t.ID] = DateKey(day)
				break
			}
		}
	}

	for i := range out {
		items := out[i].Items
		sort.SliceStable(items, func(a, b int) bool {
			return items[a].Start.Before(items[b].Start)
		})
	}
	return out, delta
}
