package repository

import (
	"context"

	"todo-tracker/internal/model"
)

// Tasks is the storage surface the task service depends on. Two
// implementations exist: the SQLite-backed TaskRepository and the ephemeral
// MemoryTaskRepository used when the store is degraded.
type Tasks interface {
	Create(ctx context.Context, task *model.Task) error
	ListAll(ctx context.Context) ([]model.Task, error)
	FindByID(ctx context.Context, id uint) (*model.Task, error)
	// Update applies fn to the stored record in one serialized
	// read-modify-write unit and returns the record as written.
	Update(ctx context.Context, id uint, fn func(*model.Task)) (*model.Task, error)
	Delete(ctx context.Context, id uint) error
}

// Categories is the storage surface the category service depends on.
type Categories interface {
	ListAll(ctx context.Context) ([]model.Category, error)
	// Add inserts a category, failing with ErrDuplicateCategory when the slug
	// (or name) is already taken. Nothing is written on failure.
	Add(ctx context.Context, name, slug string) (*model.Category, error)
}
