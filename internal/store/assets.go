package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"asset-tracker-backend/internal/model"
)

const assetColumns = "assets.*, categories.name AS category_name, locations.name AS location_name, " +
	"locations.building AS building, locations.floor AS floor, locations.room AS room"

// assetQuery joins the weak references so display names resolve to NULL when
// the referenced row is gone instead of failing.
func (s *gormStore) assetQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("assets").
		Select(assetColumns).
		Joins("LEFT JOIN categories ON categories.id = assets.category_id").
		Joins("LEFT JOIN locations ON locations.id = assets.location_id")
}

func (s *gormStore) CreateAsset(ctx context.Context, a *model.Asset) error {
	if a.Condition == "" {
		a.Condition = model.DefaultCondition
	}
	if a.Status == "" {
		a.Status = model.DefaultStatus
	}
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return classify(err)
	}
	return nil
}

// UpdateAsset replaces the given mutable fields. asset_tag is immutable and
// never appears in fields; UpdatedAt advances on every call.
func (s *gormStore) UpdateAsset(ctx context.Context, id int64, fields map[string]any) error {
	var existing model.Asset
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		return classify(err)
	}
	delete(fields, "asset_tag")
	if err := s.db.WithContext(ctx).Model(&existing).Updates(fields).Error; err != nil {
		return classify(err)
	}
	return nil
}

// DeleteAsset removes the asset row only. Historical scan and maintenance
// rows keep referencing the now-missing id; the audit trail survives the
// asset.
func (s *gormStore) DeleteAsset(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Asset{}, id)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) AssetByTag(ctx context.Context, tag string) (*model.Asset, error) {
	var a model.Asset
	if err := s.db.WithContext(ctx).Where("asset_tag = ?", tag).First(&a).Error; err != nil {
		return nil, classify(err)
	}
	return &a, nil
}

func (s *gormStore) AssetByID(ctx context.Context, id int64) (*model.Asset, error) {
	var a model.Asset
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, classify(err)
	}
	return &a, nil
}

func (s *gormStore) ListAssets(ctx context.Context, f AssetFilter) ([]AssetRow, error) {
	q := s.assetQuery(ctx)
	if f.CategoryID != nil {
		q = q.Where("assets.category_id = ?", *f.CategoryID)
	}
	if f.LocationID != nil {
		q = q.Where("assets.location_id = ?", *f.LocationID)
	}
	if f.Status != "" {
		q = q.Where("assets.status = ?", f.Status)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where(
			"LOWER(assets.asset_tag) LIKE ? OR LOWER(assets.name) LIKE ? OR LOWER(assets.description) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	rows := make([]AssetRow, 0)
	if err := q.Order("assets.created_at DESC, assets.id DESC").Scan(&rows).Error; err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

// AssetDetail returns the asset with its 10 most recent scans and full
// maintenance history, newest first.
func (s *gormStore) AssetDetail(ctx context.Context, id int64) (*AssetDetail, error) {
	var row AssetRow
	res := s.assetQuery(ctx).Where("assets.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return nil, classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	scans := make([]ScanRow, 0)
	err := s.db.WithContext(ctx).
		Table("scans").
		Select("scans.*, users.username AS username, locations.name AS location_name").
		Joins("LEFT JOIN users ON users.id = scans.user_id").
		Joins("LEFT JOIN locations ON locations.id = scans.location_id").
		Where("scans.asset_id = ?", id).
		Order("scans.scanned_at DESC, scans.id DESC").
		Limit(10).
		Scan(&scans).Error
	if err != nil {
		return nil, classify(err)
	}

	maintenance := make([]model.Maintenance, 0)
	err = s.db.WithContext(ctx).
		Where("asset_id = ?", id).
		Order("performed_at DESC, id DESC").
		Find(&maintenance).Error
	if err != nil {
		return nil, classify(err)
	}

	return &AssetDetail{AssetRow: row, Scans: scans, Maintenance: maintenance}, nil
}

func (s *gormStore) CreateMaintenance(ctx context.Context, m *model.Maintenance) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return classify(err)
	}
	return nil
}
