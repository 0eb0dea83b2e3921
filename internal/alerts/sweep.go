// Package alerts derives overdue transitions and deadline warnings from
// the task list. Like the planner it never mutates its input; callers
// persist the returned updates.
package alerts

import (
	"time"

	"github.com/mkiryanov/pland/internal/model"
)

// OverdueNotice reports one task that just crossed its anchor.
type OverdueNotice struct {
	TaskID string
	Title  string
	Anchor time.Time
}

// SweepOverdue finds pending tasks whose anchor has passed and returns
// the updated copies with Status set to Overdue, plus one notice per
// transition. Tasks already overdue, done, or recurring are left alone,
// so repeated sweeps are quiet.
func SweepOverdue(now time.Time, tasks []model.Task) ([]model.Task, []OverdueNotice) {
	var moved []model.Task
	var notices []OverdueNotice
	for _, t := range tasks {
		if t.Done || t.Constant || t.Status == model.StatusOverdue {
			continue
		}
		anchor := t.Anchor()
		if anchor.IsZero() || !anchor.Before(now) {
			continue
		}
		updated := t.Clone()
		updated.Status = model.StatusOverdue
		moved = append(moved, updated)
		notices = append(notices, OverdueNotice{TaskID: t.ID, Title: t.Title, Anchor: anchor})
	}
	return moved, notices
}
