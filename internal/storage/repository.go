package storage

import (
	"context"
	"errors"

	"github.com/mkiryanov/pland/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// TaskFilter narrows ListTasks. Chat is required; every task belongs to
// exactly one chat.
type TaskFilter struct {
	Chat   string
	Status model.Status
	Limit  int
	Offset int
}

type HistoryFilter struct {
	Chat  string
	Limit int
}

type Repository interface {
	CreateTask(ctx context.Context, chat string, in model.Task) error
	GetTask(ctx context.Context, chat, id string) (model.Task, error)
	UpdateTask(ctx context.Context, chat string, in model.Task) error
	DeleteTask(ctx context.Context, chat, id string) error
	ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)

	AppendHistory(ctx context.Context, chat string, in model.DoneEntry) error
	ListHistory(ctx context.Context, filter HistoryFilter) ([]model.DoneEntry, error)
}
