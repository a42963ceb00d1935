package repository

import (
	"context"
	"errors"

	"dayflow/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// TaskRepository is the storage backend for tasks.
//
// Backends store records by ID and hand out copies. ID assignment and field
// derivation (createdAt, completedAt) belong to the task service, so the
// same invariants hold over any backing medium.
type TaskRepository interface {
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id int) (model.Task, error)
	// Put inserts the record or replaces the one with the same ID.
	Put(ctx context.Context, task model.Task) error
	Delete(ctx context.Context, id int) error
	// MaxID returns the highest stored ID, 0 for an empty collection.
	MaxID(ctx context.Context) (int, error)
}

// CategoryRepository is the storage backend for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id int) (model.Category, error)
	Put(ctx context.Context, category model.Category) error
	Delete(ctx context.Context, id int) error
	MaxID(ctx context.Context) (int, error)
}

// ProgressRepository is the storage backend for day-progress records.
type ProgressRepository interface {
	List(ctx context.Context) ([]model.DayProgress, error)
	Get(ctx context.Context, id int) (model.DayProgress, error)
	// GetByDate looks a record up by its natural key.
	GetByDate(ctx context.Context, date string) (model.DayProgress, error)
	Put(ctx context.Context, progress model.DayProgress) error
	Delete(ctx context.Context, id int) error
	MaxID(ctx context.Context) (int, error)
}
