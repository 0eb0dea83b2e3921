package alerts

import (
	"testing"
	"time"

	"github.com/mkiryanov/pland/internal/model"
)

func pending(id, title string, deadline time.Time) model.Task {
	return model.Task{
		ID:          id,
		Title:       title,
		DurationMin: 60,
		DeadlineAt:  deadline,
		Effort:      model.EffortMedium,
		Auto:        true,
		Status:      model.StatusActive,
		CreatedAt:   deadline.Add(-72 * time.Hour),
	}
}

func TestSweepOverdueMovesPastAnchor(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	past := pending("a0000001", "Past", now.Add(-time.Hour))
	future := pending("a0000002", "Future", now.Add(time.Hour))

	fixedEnd := now.Add(-30 * time.Minute)
	fixedStart := fixedEnd.Add(-time.Hour)
	fixed := pending("a0000003", "Meeting", now.Add(48*time.Hour))
	fixed.FixedStart = &fixedStart
	fixed.FixedEnd = &fixedEnd

	moved, notices := SweepOverdue(now, []model.Task{past, future, fixed})
	if len(moved) != 2 || len(notices) != 2 {
		t.Fatalf("moved %d tasks with %d notices, want 2 and 2", len(moved), len(notices))
	}
	for _, m := range moved {
		if m.Status != model.StatusOverdue {
			t.Fatalf("moved task %s has status %q", m.ID, m.Status)
		}
	}
	// The fixed task's anchor is its fixed end, not the far deadline.
	if !notices[1].Anchor.Equal(fixedEnd) {
		t.Fatalf("fixed task anchor = %v, want %v", notices[1].Anchor, fixedEnd)
	}
	if past.Status != model.StatusActive {
		t.Fatal("sweep mutated its input")
	}
}

func TestSweepOverdueIsQuietOnRepeat(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	task := pending("a0000001", "Past", now.Add(-time.Hour))

	moved, _ := SweepOverdue(now, []model.Task{task})
	if len(moved) != 1 {
		t.Fatalf("first sweep moved %d, want 1", len(moved))
	}
	moved, notices := SweepOverdue(now, moved)
	if len(moved) != 0 || len(notices) != 0 {
		t.Fatal("second sweep must not re-notify")
	}
}

func TestSweepOverdueSkipsDoneAndRecurring(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	done := pending("a0000001", "Done", now.Add(-time.Hour))
	done.Done = true

	cs := model.ClockTime{Hour: 18}
	ce := model.ClockTime{Hour: 19}
	gym := model.Task{
		ID: "c1000000", Title: "Gym", DurationMin: 60, Effort: model.EffortHeavy,
		Constant: true, Weekdays: []int{0},
		ConstantStart: &cs, ConstantEnd: &ce,
		Status: model.StatusActive, CreatedAt: now,
	}

	moved, _ := SweepOverdue(now, []model.Task{done, gym})
	if len(moved) != 0 {
		t.Fatalf("expected nothing moved, got %+v", moved)
	}
}

func TestCheckDeadlinesHorizons(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	near := pending("a0000001", "Near", now.Add(12*time.Hour))
	urgent := pending("a0000002", "Urgent", now.Add(2*time.Hour))
	far := pending("a0000003", "Far", now.Add(48*time.Hour))
	passed := pending("a0000004", "Passed", now.Add(-time.Hour))

	got := CheckDeadlines(now, []model.Task{near, urgent, far, passed})

	type key struct {
		id  string
		sev Severity
	}
	seen := make(map[key]bool, len(got))
	for _, a := range got {
		seen[key{a.TaskID, a.Severity}] = true
	}
	if len(got) != 3 {
		t.Fatalf("got %d alerts, want 3: %+v", len(got), got)
	}
	if !seen[key{near.ID, SeverityApproaching}] {
		t.Fatal("missing approaching alert for the 12h task")
	}
	if !seen[key{urgent.ID, SeverityApproaching}] || !seen[key{urgent.ID, SeverityUrgent}] {
		t.Fatal("the 2h task must alert at both severities")
	}
}

func TestCheckDeadlinesSkipsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	task := pending("a0000001", "Moved", now.Add(2*time.Hour))
	task.Status = model.StatusOverdue

	if got := CheckDeadlines(now, []model.Task{task}); len(got) != 0 {
		t.Fatalf("overdue task must not alert, got %+v", got)
	}
}
