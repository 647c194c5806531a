package repository

import (
	"context"
	"sync"
	"time"

	"todo-tracker/internal/model"
)

// MemoryTaskRepository is the degraded-mode task store: records live only for
// the process lifetime and ids are derived from the clock, the same fallback
// an engineless host gets.
type MemoryTaskRepository struct {
	mu     sync.Mutex
	tasks  []model.Task
	lastID uint
	now    func() time.Time
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{now: time.Now}
}

// nextID derives an id from the current time, bumped when two creations land
// in the same millisecond so ids stay unique and increasing.
func (r *MemoryTaskRepository) nextID() uint {
	id := uint(r.now().UnixMilli())
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

func (r *MemoryTaskRepository) Create(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task.ID = r.nextID()
	r.tasks = append(r.tasks, *task)
	return nil
}

func (r *MemoryTaskRepository) ListAll(_ context.Context) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Task, len(r.tasks))
	copy(out, r.tasks)
	return out, nil
}

func (r *MemoryTaskRepository) FindByID(_ context.Context, id uint) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			task := r.tasks[i]
			return &task, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryTaskRepository) Update(_ context.Context, id uint, fn func(*model.Task)) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			fn(&r.tasks[i])
			task := r.tasks[i]
			return &task, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

// MemoryCategoryRepository is the degraded-mode category store, pre-filled
// with the default set so the category selectors still work without
// persistence.
type MemoryCategoryRepository struct {
	mu         sync.Mutex
	categories []model.Category
	nextID     uint
}

func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	r := &MemoryCategoryRepository{}
	for _, cat := range defaultCategories() {
		r.nextID++
		cat.ID = r.nextID
		r.categories = append(r.categories, cat)
	}
	return r
}

func (r *MemoryCategoryRepository) ListAll(_ context.Context) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

func (r *MemoryCategoryRepository) Add(_ context.Context, name, slug string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cat := range r.categories {
		if cat.Slug == slug || cat.Name == name {
			return nil, ErrDuplicateCategory
		}
	}
	r.nextID++
	category := model.Category{ID: r.nextID, Name: name, Slug: slug}
	r.categories = append(r.categories, category)
	return &category, nil
}
