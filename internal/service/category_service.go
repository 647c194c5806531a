package service

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"todo-tracker/internal/bus"
	"todo-tracker/internal/model"
	"todo-tracker/internal/repository"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and replaces every maximal run of characters
// outside [a-z0-9] with a single hyphen, e.g. "Home Chores!!" → "home-chores-".
// Uniqueness checks depend on this exact rule.
func Slugify(name string) string {
	return slugPattern.ReplaceAllString(strings.ToLower(name), "-")
}

// CategoryService wraps the category store and keeps the in-memory mirror
// (ordered slug list plus slug→name map) the query and render layers read
// from. The mirror is rebuilt on load and appended on each successful add.
type CategoryService struct {
	repo   repository.Categories
	events *bus.Bus

	mu    sync.Mutex
	slugs []string
	names map[string]string
}

func NewCategoryService(repo repository.Categories, events *bus.Bus) *CategoryService {
	return &CategoryService{
		repo:   repo,
		events: events,
		names:  make(map[string]string),
	}
}

// LoadMirror rebuilds the mirror from the persisted collection.
func (s *CategoryService) LoadMirror(ctx context.Context) error {
	categories, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.slugs = s.slugs[:0]
	s.names = make(map[string]string, len(categories))
	for _, cat := range categories {
		s.slugs = append(s.slugs, cat.Slug)
		s.names[cat.Slug] = cat.Name
	}
	return nil
}

// List returns every category; order is storage-native.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListAll(ctx)
}

// Add validates the name, derives its slug and inserts the category. A blank
// name fails with ErrBlankName, a slug collision with ErrDuplicateCategory;
// neither writes anything. On success the mirror is extended and
// category.added published.
func (s *CategoryService) Add(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, repository.ErrBlankName
	}

	slug := Slugify(name)
	category, err := s.repo.Add(ctx, name, slug)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.slugs = append(s.slugs, category.Slug)
	s.names[category.Slug] = category.Name
	s.mu.Unlock()

	s.events.Publish(bus.TopicCategoryAdded, bus.CategoryEvent{Slug: category.Slug, Name: category.Name})
	return category, nil
}

// Slugs returns a copy of the mirrored slug list.
func (s *CategoryService) Slugs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.slugs))
	copy(out, s.slugs)
	return out
}

// DisplayName resolves a slug to its stored display name. Orphaned slugs fall
// back to the slug itself.
func (s *CategoryService) DisplayName(slug string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name, ok := s.names[slug]; ok && strings.TrimSpace(name) != "" {
		return name
	}
	return slug
}
