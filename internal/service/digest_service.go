package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"todo-tracker/internal/model"
)

// DigestService renders a plain-text summary of pending work grouped by
// category, used by the periodic digest job and the digest command.
type DigestService struct {
	tasks      *TaskService
	categories *CategoryService
	query      *QueryService
}

func NewDigestService(tasks *TaskService, categories *CategoryService, query *QueryService) *DigestService {
	return &DigestService{tasks: tasks, categories: categories, query: query}
}

// Render builds the digest for now. Completed tasks are excluded; within a
// group, high-priority tasks come first.
func (s *DigestService) Render(ctx context.Context, now time.Time) (string, error) {
	all, err := s.tasks.List(ctx)
	if err != nil {
		return "", err
	}

	groups := make(map[string][]model.Task)
	for _, task := range all {
		if task.Completed {
			continue
		}
		groups[task.Category] = append(groups[task.Category], task)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Task digest for %s\n", now.Format("2006-01-02")))

	if len(groups) == 0 {
		builder.WriteString("\nNo pending tasks.")
		return builder.String(), nil
	}

	slugs := make([]string, 0, len(groups))
	for slug := range groups {
		slugs = append(slugs, slug)
	}
	sort.Slice(slugs, func(i, j int) bool {
		return s.categories.DisplayName(slugs[i]) < s.categories.DisplayName(slugs[j])
	})

	for _, slug := range slugs {
		builder.WriteString(fmt.Sprintf("\n%s\n", s.categories.DisplayName(slug)))
		section := s.query.Apply(groups[slug], FilterAll, SortPriority, OrderAsc)
		for _, task := range section {
			marker := "[ ]"
			if task.Priority == model.PriorityHigh {
				marker = "[!]"
			}
			builder.WriteString(fmt.Sprintf("  %s #%d %s\n", marker, task.ID, task.Text))
		}
	}

	return strings.TrimRight(builder.String(), "\n"), nil
}
