package plan

import (
	"sort"
	"time"

	"github.com/mkiryanov/pland/internal/model"
)

// Score ranks a flexible task for placement: urgency grows as the
// deadline nears, weighted by Alpha, plus the effort weight scaled by
// Beta. Deadlines in the past clamp to one minute so the urgency term
// stays finite.
func (c Config) Score(task model.Task, now time.Time) float64 {
	left := int(task.DeadlineAt.Sub(now) / time.Minute)
	if left < 1 {
		left = 1
	}
	return c.Alpha*(1.0/float64(left)) + c.Beta*task.Effort.Weight()
}

// sortByScore orders tasks by descending score, breaking ties by the
// shorter duration first. The sort is stable so equal tasks keep their
// input order.
func (c Config) sortByScore(tasks []model.Task, now time.Time) {
	sort.SliceStable(tasks, func(i, j int) bool {
		si, sj := c.Score(tasks[i], now), c.Score(tasks[j], now)
		if si != sj {
			return si > sj
		}
		return tasks[i].DurationMin < tasks[j].DurationMin
	})
}
