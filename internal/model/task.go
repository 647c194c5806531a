package model

import "time"

// Priority marks how urgent a task is. Only two levels exist.
type Priority string

const (
	PriorityLow  Priority = "low"
	PriorityHigh Priority = "high"
)

// Toggle returns the opposite priority level.
func (p Priority) Toggle() Priority {
	if p == PriorityHigh {
		return PriorityLow
	}
	return PriorityHigh
}

// Valid reports whether p is one of the known levels.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityHigh
}

// Task represents a single tracked item.
type Task struct {
	ID        uint   `gorm:"primaryKey"`
	Text      string
	Category  string   `gorm:"index"` // category slug; orphaned slugs are tolerated
	Completed bool     `gorm:"index;default:false"`
	DateAdded int64    `gorm:"index"` // milliseconds since epoch, set once at creation
	Priority  Priority `gorm:"index;default:'low'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
