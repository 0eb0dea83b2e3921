package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidEffort = errors.New("model: invalid task effort")
	ErrInvalidStatus = errors.New("model: invalid task status")
)

type Effort string

const (
	EffortQuick   Effort = "quick"
	EffortMedium  Effort = "medium"
	EffortHeavy   Effort = "heavy"
	EffortExtreme Effort = "extreme"
)

func (e Effort) IsValid() bool {
	switch e {
	case EffortQuick, EffortMedium, EffortHeavy, EffortExtreme:
		return true
	default:
		return false
	}
}

// Weight is the effort contribution to the placement score.
func (e Effort) Weight() float64 {
	switch e {
	case EffortQuick:
		return 0.2
	case EffortHeavy:
		return 0.8
	case EffortExtreme:
		return 1.0
	default:
		return 0.5
	}
}

// Status is the two-state lifecycle of a task. The only legal transition
// is Active -> Overdue, performed by the overdue sweeper once the task's
// anchor time has passed.
type Status string

const (
	StatusActive  Status = "Active"
	StatusOverdue Status = "Overdue"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusOverdue
}

// Kind is the temporal kind of a task, derived from its fields: exactly
// one of a fixed start/end pair, a recurring weekly schedule, or neither.
type Kind string

const (
	KindFixed     Kind = "fixed"
	KindRecurring Kind = "recurring"
	KindFlexible  Kind = "flexible"
)

type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	DurationMin   int        `json:"duration_min"`
	DeadlineAt    time.Time  `json:"deadline_at"`
	Effort        Effort     `json:"effort"`
	FixedStart    *time.Time `json:"fixed_start,omitempty"`
	FixedEnd      *time.Time `json:"fixed_end,omitempty"`
	Splittable    bool       `json:"splittable"`
	Done          bool       `json:"done"`
	Auto          bool       `json:"auto"`
	Constant      bool       `json:"constant"`
	Weekdays      []int      `json:"dow,omitempty"`
	ConstantStart *ClockTime `json:"constant_start,omitempty"`
	ConstantEnd   *ClockTime `json:"constant_end,omitempty"`
	PlannedFor    string     `json:"planned_for,omitempty"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (t Task) Kind() Kind {
	if t.Constant {
		return KindRecurring
	}
	if t.FixedStart != nil && t.FixedEnd != nil {
		return KindFixed
	}
	return KindFlexible
}

// Anchor is the instant used for overdue and watchdog checks: the fixed
// end when present, the deadline otherwise. Recurring tasks have a zero
// anchor and are excluded from both checks.
func (t Task) Anchor() time.Time {
	if t.FixedEnd != nil {
		return *t.FixedEnd
	}
	return t.DeadlineAt
}

// RecursOn reports whether a recurring task occurs on the given weekday
// index (0=Monday..6=Sunday).
func (t Task) RecursOn(weekday int) bool {
	for _, d := range t.Weekdays {
		if d == weekday {
			return true
		}
	}
	return false
}

// Validate rejects malformed tasks at the boundary. The planning engine
// trusts its input and never re-validates.
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if t.DurationMin < 0 {
		return fmt.Errorf("model: task duration must not be negative, got %d", t.DurationMin)
	}
	if !t.Effort.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidEffort, t.Effort)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if (t.FixedStart == nil) != (t.FixedEnd == nil) {
		return errors.New("model: fixed start and end are mutually required")
	}
	if t.FixedStart != nil && t.Constant {
		return errors.New("model: task cannot be both fixed and recurring")
	}
	if t.FixedStart != nil && !t.FixedEnd.After(*t.FixedStart) {
		return errors.New("model: fixed end must be after fixed start")
	}
	if t.Constant {
		return t.validateRecurring()
	}
	if t.DeadlineAt.IsZero() {
		return errors.New("model: deadline is required for non-recurring tasks")
	}
	if t.PlannedFor != "" {
		if _, err := time.Parse("2006-01-02", t.PlannedFor); err != nil {
			return fmt.Errorf("model: invalid planned_for date %q", t.PlannedFor)
		}
	}
	return nil
}

func (t Task) validateRecurring() error {
	if len(t.Weekdays) == 0 {
		return errors.New("model: recurring task needs at least one weekday")
	}
	seen := make(map[int]bool, len(t.Weekdays))
	for _, d := range t.Weekdays {
		if d < 0 || d > 6 {
			return fmt.Errorf("model: weekday index out of range: %d", d)
		}
		if seen[d] {
			return fmt.Errorf("model: duplicate weekday in recurrence: %d", d)
		}
		seen[d] = true
	}
	if t.ConstantStart == nil || t.ConstantEnd == nil {
		return errors.New("model: recurring task needs start and end times")
	}
	if err := t.ConstantStart.Validate(); err != nil {
		return err
	}
	if err := t.ConstantEnd.Validate(); err != nil {
		return err
	}
	if t.ConstantEnd.MinuteOfDay() <= t.ConstantStart.MinuteOfDay() {
		return errors.New("model: recurring end must be after recurring start")
	}
	if t.Auto {
		return errors.New("model: recurring tasks are never auto-planned")
	}
	if t.Splittable {
		return errors.New("model: recurring tasks are never split")
	}
	return nil
}

// Clone returns an independent copy, detaching the pointer and slice
// fields so week-planning snapshots cannot alias caller-owned data.
func (t Task) Clone() Task {
	out := t
	if t.FixedStart != nil {
		v := *t.FixedStart
		out.FixedStart = &v
	}
	if t.FixedEnd != nil {
		v := *t.FixedEnd
		out.FixedEnd = &v
	}
	if t.ConstantStart != nil {
		v := *t.ConstantStart
		out.ConstantStart = &v
	}
	if t.ConstantEnd != nil {
		v := *t.ConstantEnd
		out.ConstantEnd = &v
	}
	if t.Weekdays != nil {
		out.Weekdays = append([]int(nil), t.Weekdays...)
	}
	return out
}
