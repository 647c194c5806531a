package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"todo-tracker/internal/model"
)

func newTask(text, category string) *model.Task {
	return &model.Task{
		Text:      text,
		Category:  category,
		DateAdded: time.Now().UnixMilli(),
		Priority:  model.PriorityLow,
	}
}

func newTaskRepo(t *testing.T) *TaskRepository {
	t.Helper()
	store := openTestStore(t, filepath.Join(t.TempDir(), "tracker.db"))
	return NewTaskRepository(store)
}

func TestTaskCreateAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo(t)

	first := newTask("buy milk", "work")
	second := newTask("call dentist", "personal")
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if first.ID == 0 || second.ID == 0 {
		t.Fatalf("ids not assigned: %d, %d", first.ID, second.ID)
	}
	if second.ID <= first.ID {
		t.Errorf("ids not increasing: %d then %d", first.ID, second.ID)
	}
}

func TestTaskUpdateReadModifyWrite(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo(t)

	task := newTask("buy milk", "work")
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := repo.Update(ctx, task.ID, func(t *model.Task) {
		t.Completed = true
		t.Priority = model.PriorityHigh
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Completed || updated.Priority != model.PriorityHigh {
		t.Errorf("returned record not updated: %+v", updated)
	}

	stored, err := repo.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !stored.Completed || stored.Priority != model.PriorityHigh {
		t.Errorf("stored record not updated: %+v", stored)
	}
	if stored.DateAdded != task.DateAdded {
		t.Errorf("dateAdded changed on update: %d → %d", task.DateAdded, stored.DateAdded)
	}
}

func TestTaskUpdateMissing(t *testing.T) {
	repo := newTaskRepo(t)
	_, err := repo.Update(context.Background(), 424242, func(*model.Task) {})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing id error = %v, want ErrNotFound", err)
	}
}

func TestTaskDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo(t)

	task := newTask("buy milk", "work")
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	tasks, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("collection after delete = %+v, want empty", tasks)
	}

	// Absent id is a no-op, not an error.
	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Errorf("Delete absent id: %v", err)
	}
}

func TestTaskConcurrentTogglesDoNotLoseWrites(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo(t)

	task := newTask("buy milk", "work")
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("Create: %v", err)
	}

	done := make(chan error, 2)
	go func() {
		_, err := repo.Update(ctx, task.ID, func(t *model.Task) { t.Completed = true })
		done <- err
	}()
	go func() {
		_, err := repo.Update(ctx, task.ID, func(t *model.Task) { t.Priority = model.PriorityHigh })
		done <- err
	}()
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	stored, err := repo.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !stored.Completed || stored.Priority != model.PriorityHigh {
		t.Errorf("one toggle lost: %+v", stored)
	}
}
