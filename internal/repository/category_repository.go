package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"todo-tracker/internal/model"
)

// CategoryRepository manages the persisted category collection.
type CategoryRepository struct {
	store *Store
}

func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

// ListAll returns every category in storage order.
func (r *CategoryRepository) ListAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.store.runner.do(ctx, func() error {
		return r.store.db.WithContext(ctx).Find(&categories).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Add inserts a category after probing the unique slug index. A slug hit
// fails with ErrDuplicateCategory before anything is written; a constraint
// violation racing past the probe maps to the same error.
func (r *CategoryRepository) Add(ctx context.Context, name, slug string) (*model.Category, error) {
	category := model.Category{Name: name, Slug: slug}
	err := r.store.runner.do(ctx, func() error {
		db := r.store.db.WithContext(ctx)

		var existing model.Category
		err := db.Where("slug = ?", slug).First(&existing).Error
		switch {
		case err == nil:
			return ErrDuplicateCategory
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("probe slug %q: %w", slug, err)
		}

		if err := db.Create(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateCategory
			}
			return fmt.Errorf("create category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}
