package service

import (
	"context"
	"errors"
	"testing"

	"todo-tracker/internal/bus"
	"todo-tracker/internal/repository"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Work", "work"},
		{"Home Chores!!", "home-chores-"},
		{"  Mixed  CASE 42 ", "-mixed-case-42-"},
		{"groceries", "groceries"},
		{"Déjà vu", "d-j-vu"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.name); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func newCategoryService(t *testing.T) *CategoryService {
	t.Helper()
	svc := NewCategoryService(repository.NewMemoryCategoryRepository(), bus.New())
	if err := svc.LoadMirror(context.Background()); err != nil {
		t.Fatalf("LoadMirror: %v", err)
	}
	return svc
}

func TestCategoryAddUpdatesMirror(t *testing.T) {
	ctx := context.Background()
	svc := newCategoryService(t)

	if got := len(svc.Slugs()); got != 5 {
		t.Fatalf("mirror has %d slugs after load, want 5", got)
	}

	category, err := svc.Add(ctx, "Home Chores")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if category.Slug != "home-chores" {
		t.Errorf("slug = %q, want %q", category.Slug, "home-chores")
	}

	slugs := svc.Slugs()
	if slugs[len(slugs)-1] != "home-chores" {
		t.Errorf("mirror not appended: %v", slugs)
	}
	if got := svc.DisplayName("home-chores"); got != "Home Chores" {
		t.Errorf("DisplayName = %q, want %q", got, "Home Chores")
	}
}

func TestCategoryAddBlankName(t *testing.T) {
	svc := newCategoryService(t)
	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := svc.Add(context.Background(), name); !errors.Is(err, repository.ErrBlankName) {
			t.Errorf("Add(%q) error = %v, want ErrBlankName", name, err)
		}
	}
	if got := len(svc.Slugs()); got != 5 {
		t.Errorf("mirror grew to %d on rejected adds", got)
	}
}

func TestCategoryAddCaseCollision(t *testing.T) {
	ctx := context.Background()
	svc := newCategoryService(t)

	// The seeded set owns slug "work"; "Work" normalizes to the same slug.
	_, err := svc.Add(ctx, "Work")
	if !errors.Is(err, repository.ErrDuplicateCategory) {
		t.Fatalf("Add(\"Work\") error = %v, want ErrDuplicateCategory", err)
	}
	if got := len(svc.Slugs()); got != 5 {
		t.Errorf("mirror size = %d after rejected add, want 5", got)
	}
}

func TestDisplayNameFallsBackToSlug(t *testing.T) {
	svc := newCategoryService(t)
	if got := svc.DisplayName("gone-category"); got != "gone-category" {
		t.Errorf("DisplayName for orphan slug = %q, want the slug itself", got)
	}
}

func TestCategoryAddPublishesEvent(t *testing.T) {
	events := bus.New()
	svc := NewCategoryService(repository.NewMemoryCategoryRepository(), events)
	if err := svc.LoadMirror(context.Background()); err != nil {
		t.Fatalf("LoadMirror: %v", err)
	}
	sub := events.Subscribe(bus.TopicCategoryAdded)
	defer events.Unsubscribe(sub)

	if _, err := svc.Add(context.Background(), "Errands"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	select {
	case event := <-sub.Ch():
		payload, ok := event.Payload.(bus.CategoryEvent)
		if !ok || payload.Slug != "errands" {
			t.Errorf("payload = %#v, want CategoryEvent for errands", event.Payload)
		}
	default:
		t.Error("no category.added event published")
	}
}
