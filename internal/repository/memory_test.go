package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"todo-tracker/internal/model"
)

func TestMemoryTaskIDsAreClockDerivedAndUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository()
	frozen := time.UnixMilli(1700000000000)
	repo.now = func() time.Time { return frozen }

	first := newTask("one", "default")
	second := newTask("two", "default")
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if first.ID != uint(frozen.UnixMilli()) {
		t.Errorf("first id = %d, want clock-derived %d", first.ID, frozen.UnixMilli())
	}
	if second.ID <= first.ID {
		t.Errorf("same-millisecond ids not unique/increasing: %d then %d", first.ID, second.ID)
	}
}

func TestMemoryTaskCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository()

	task := newTask("buy milk", "work")
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.Update(ctx, task.ID, func(t *model.Task) { t.Completed = true }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	stored, err := repo.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !stored.Completed {
		t.Error("update not applied")
	}

	if _, err := repo.Update(ctx, task.ID+1, func(*model.Task) {}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing id error = %v, want ErrNotFound", err)
	}

	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	tasks, _ := repo.ListAll(ctx)
	if len(tasks) != 0 {
		t.Errorf("collection after delete = %+v, want empty", tasks)
	}
}

func TestMemoryCategoriesSeededWithDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCategoryRepository()

	categories, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(categories) != 5 {
		t.Fatalf("%d default categories, want 5", len(categories))
	}

	if _, err := repo.Add(ctx, "Errands", "errands"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := repo.Add(ctx, "WORK", "work"); !errors.Is(err, ErrDuplicateCategory) {
		t.Errorf("Add duplicate slug error = %v, want ErrDuplicateCategory", err)
	}
}
