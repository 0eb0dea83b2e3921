package model

import (
	"errors"
	"time"
)

// DoneEntry pairs a snapshot of a task with its completion instant.
// The history is append-only: entries are never updated.
type DoneEntry struct {
	Task        Task      `json:"task"`
	CompletedAt time.Time `json:"completed_at"`
}

func (e DoneEntry) Validate() error {
	if err := e.Task.Validate(); err != nil {
		return err
	}
	if e.CompletedAt.IsZero() {
		return errors.New("model: completed_at is required")
	}
	return nil
}
