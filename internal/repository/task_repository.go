package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"todo-tracker/internal/model"
)

// TaskRepository handles CRUD for tasks against the persistent store.
type TaskRepository struct {
	store *Store
}

func NewTaskRepository(store *Store) *TaskRepository {
	return &TaskRepository{store: store}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	err := r.store.runner.do(ctx, func() error {
		return r.store.db.WithContext(ctx).Create(task).Error
	})
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListAll performs a full scan of the task collection, storage order.
func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.store.runner.do(ctx, func() error {
		return r.store.db.WithContext(ctx).Find(&tasks).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.store.runner.do(ctx, func() error {
		return r.store.db.WithContext(ctx).First(&task, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find task %d: %w", id, err)
	}
	return &task, nil
}

// Update fetches the record, applies fn and writes it back, all inside one
// serialized unit. Two concurrent updates of the same record therefore cannot
// lose a write; each sees the other's commit.
func (r *TaskRepository) Update(ctx context.Context, id uint, fn func(*model.Task)) (*model.Task, error) {
	var task model.Task
	err := r.store.runner.do(ctx, func() error {
		db := r.store.db.WithContext(ctx)
		if err := db.First(&task, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find task %d: %w", id, err)
		}
		fn(&task)
		if err := db.Save(&task).Error; err != nil {
			return fmt.Errorf("save task %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes the record. Deleting an absent id is not an error.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	err := r.store.runner.do(ctx, func() error {
		return r.store.db.WithContext(ctx).Delete(&model.Task{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}
