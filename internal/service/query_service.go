package service

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"todo-tracker/internal/model"
)

// Sort keys accepted by the query pipeline.
type SortKey string

const (
	SortDateAdded    SortKey = "date-added"
	SortPriority     SortKey = "priority"
	SortAlphabetical SortKey = "alphabetical"
)

// Sort orders accepted by the query pipeline.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// FilterAll selects every category.
const FilterAll = "all"

// QueryService turns the full task collection into a render-ready sequence.
// It is a pure transform: no storage access, no mutation of its input, and
// the returned slice is freshly materialized.
type QueryService struct {
	collator *collate.Collator
}

func NewQueryService() *QueryService {
	return &QueryService{collator: collate.New(language.English)}
}

// Apply filters tasks by category slug (or FilterAll) and sorts them by key
// and order. Sorting is stable, so records comparing equal keep their given
// order.
func (s *QueryService) Apply(tasks []model.Task, filter string, key SortKey, order SortOrder) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if filter == FilterAll || t.Category == filter {
			out = append(out, t)
		}
	}

	asc := order != OrderDesc
	switch key {
	case SortDateAdded:
		sort.SliceStable(out, func(i, j int) bool {
			if asc {
				return out[i].DateAdded < out[j].DateAdded
			}
			return out[i].DateAdded > out[j].DateAdded
		})
	case SortPriority:
		// Ordering rule kept exactly as shipped: "asc" puts high first and
		// "desc" puts high last, however unintuitive. Callers depend on it.
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Priority == out[j].Priority {
				return false
			}
			if asc {
				return out[i].Priority == model.PriorityHigh
			}
			return out[j].Priority == model.PriorityHigh
		})
	case SortAlphabetical:
		sort.SliceStable(out, func(i, j int) bool {
			c := s.collator.CompareString(out[i].Text, out[j].Text)
			if asc {
				return c < 0
			}
			return c > 0
		})
	}

	return out
}
