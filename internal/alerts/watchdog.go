package alerts

import (
	"time"

	"github.com/mkiryanov/pland/internal/model"
)

type Severity string

const (
	SeverityApproaching Severity = "approaching"
	SeverityUrgent      Severity = "urgent"
)

// Alert is one deadline warning. A task inside the urgent horizon
// produces both an approaching and an urgent alert.
type Alert struct {
	TaskID   string
	Title    string
	Severity Severity
	Anchor   time.Time
}

const (
	approachingHorizon = 24 * time.Hour
	urgentHorizon      = 4 * time.Hour
)

// CheckDeadlines returns the warnings due at the given moment: an
// approaching alert for every pending task whose anchor is within 24
// hours, and an additional urgent alert within 4 hours. Done, recurring
// and already-overdue tasks are skipped.
func CheckDeadlines(now time.Time, tasks []model.Task) []Alert {
	var out []Alert
	for _, t := range tasks {
		if t.Done || t.Constant || t.Status == model.StatusOverdue {
			continue
		}
		anchor := t.Anchor()
		if anchor.IsZero() {
			continue
		}
		left := anchor.Sub(now)
		if left <= 0 {
			continue
		}
		if left <= approachingHorizon {
			out = append(out, Alert{TaskID: t.ID, Title: t.Title, Severity: SeverityApproaching, Anchor: anchor})
		}
		if left <= urgentHorizon {
			out = append(out, Alert{TaskID: t.ID, Title: t.Title, Severity: SeverityUrgent, Anchor: anchor})
		}
	}
	return out
}
