package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"asset-tracker-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Users
	CreateUser(ctx context.Context, u *model.User) error
	UserByUsername(ctx context.Context, username string) (*model.User, error)
	UserByID(ctx context.Context, id int64) (*model.User, error)

	// Catalog
	CreateCategory(ctx context.Context, c *model.Category) error
	ListCategories(ctx context.Context) ([]model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	CreateLocation(ctx context.Context, l *model.Location) error
	ListLocations(ctx context.Context) ([]model.Location, error)

	// Assets
	CreateAsset(ctx context.Context, a *model.Asset) error
	UpdateAsset(ctx context.Context, id int64, fields map[string]any) error
	DeleteAsset(ctx context.Context, id int64) error
	AssetByTag(ctx context.Context, tag string) (*model.Asset, error)
	AssetByID(ctx context.Context, id int64) (*model.Asset, error)
	ListAssets(ctx context.Context, f AssetFilter) ([]AssetRow, error)
	AssetDetail(ctx context.Context, id int64) (*AssetDetail, error)

	// Scans (append-only audit trail)
	CreateScan(ctx context.Context, s *model.Scan) error
	RecentScans(ctx context.Context, limit int) ([]ScanRow, error)

	// Maintenance
	CreateMaintenance(ctx context.Context, m *model.Maintenance) error

	// Watch subscriptions
	SaveSubscription(ctx context.Context, sub *model.WatchSubscription, assetIDs []int64) error
	SubscriptionAssets(ctx context.Context, endpoint string) ([]int64, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	WatchersOfAsset(ctx context.Context, assetID int64) ([]model.WatchSubscription, error)

	// Reporting
	Summary(ctx context.Context, now time.Time) (*Summary, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for migrations and tests.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return classify(err)
	}
	return nil
}

func (s *gormStore) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

func (s *gormStore) UserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, classify(err)
	}
	return &u, nil
}
