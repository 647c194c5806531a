package model

import "time"

// Category groups tasks by area (work, personal, study, etc.).
// The slug is derived from the name at creation and never changes afterwards;
// tasks reference categories by slug.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex"`
	Slug      string `gorm:"uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
