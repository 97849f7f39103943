package store

import (
	"context"

	"asset-tracker-backend/internal/model"
)

func (s *gormStore) CreateCategory(ctx context.Context, c *model.Category) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return classify(err)
	}
	return nil
}

func (s *gormStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, classify(err)
	}
	return categories, nil
}

// DeleteCategory removes the category row only. Assets keep their dangling
// category_id; it resolves to an absent name on the next read.
func (s *gormStore) DeleteCategory(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Category{}, id)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) CreateLocation(ctx context.Context, l *model.Location) error {
	if err := s.db.WithContext(ctx).Create(l).Error; err != nil {
		return classify(err)
	}
	return nil
}

func (s *gormStore) ListLocations(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	if err := s.db.WithContext(ctx).Order("name").Find(&locations).Error; err != nil {
		return nil, classify(err)
	}
	return locations, nil
}
