package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"todo-tracker/internal/bus"
	"todo-tracker/internal/model"
	"todo-tracker/internal/repository"
)

// TaskService wraps task CRUD with validation and change notifications.
// Every successful mutation publishes on the bus; renderers subscribe and
// re-query rather than being updated from inside storage code.
type TaskService struct {
	repo   repository.Tasks
	events *bus.Bus
	now    func() time.Time
}

func NewTaskService(repo repository.Tasks, events *bus.Bus) *TaskService {
	return &TaskService{repo: repo, events: events, now: time.Now}
}

// Add creates a task with completed=false, priority=low and dateAdded=now.
// Blank text is a silent no-op, mirroring the interactive "nothing typed"
// case: nil task, nil error, nothing stored.
func (s *TaskService) Add(ctx context.Context, text, category string) (*model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	task := &model.Task{
		Text:      text,
		Category:  category,
		Completed: false,
		DateAdded: s.now().UnixMilli(),
		Priority:  model.PriorityLow,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.events.Publish(bus.TopicTaskAdded, bus.TaskEvent{ID: task.ID, Text: task.Text})
	s.events.Publish(bus.TopicCollectionChanged, nil)
	return task, nil
}

// List performs a full scan; no implicit ordering.
func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.repo.ListAll(ctx)
}

// Get fetches a single task by id.
func (s *TaskService) Get(ctx context.Context, id uint) (*model.Task, error) {
	return s.repo.FindByID(ctx, id)
}

// SetCompleted flips the completed flag. A missing id logs and no-ops; it is
// not surfaced to the caller.
func (s *TaskService) SetCompleted(ctx context.Context, id uint, completed bool) error {
	task, err := s.repo.Update(ctx, id, func(t *model.Task) {
		t.Completed = completed
	})
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("[warn] set completed: task %d not found", id)
		return nil
	}
	if err != nil {
		return err
	}

	s.events.Publish(bus.TopicTaskUpdated, bus.TaskEvent{ID: task.ID, Text: task.Text})
	s.events.Publish(bus.TopicCollectionChanged, nil)
	return nil
}

// SetPriority sets the priority to an explicit level, same missing-id policy
// as SetCompleted.
func (s *TaskService) SetPriority(ctx context.Context, id uint, priority model.Priority) error {
	task, err := s.repo.Update(ctx, id, func(t *model.Task) {
		t.Priority = priority
	})
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("[warn] set priority: task %d not found", id)
		return nil
	}
	if err != nil {
		return err
	}

	s.events.Publish(bus.TopicTaskUpdated, bus.TaskEvent{ID: task.ID, Text: task.Text})
	s.events.Publish(bus.TopicCollectionChanged, nil)
	return nil
}

// TogglePriority flips low↔high inside one read-modify-write unit.
func (s *TaskService) TogglePriority(ctx context.Context, id uint) error {
	task, err := s.repo.Update(ctx, id, func(t *model.Task) {
		t.Priority = t.Priority.Toggle()
	})
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("[warn] toggle priority: task %d not found", id)
		return nil
	}
	if err != nil {
		return err
	}

	s.events.Publish(bus.TopicTaskUpdated, bus.TaskEvent{ID: task.ID, Text: task.Text})
	s.events.Publish(bus.TopicCollectionChanged, nil)
	return nil
}

// Delete removes the task; absent ids are a no-op. Deletion changes set
// membership, so collection.changed tells consumers to re-run their query.
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(bus.TopicTaskDeleted, bus.TaskEvent{ID: id})
	s.events.Publish(bus.TopicCollectionChanged, nil)
	return nil
}
