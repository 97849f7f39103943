package db

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"asset-tracker-backend/config"
	"asset-tracker-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
//
// Foreign-key enforcement is intentionally not migrated for the weak
// references: deleting a category, location or asset must leave dependent
// rows untouched rather than cascade or fail, so dangling ids are legal and
// resolve to absent on read.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Migrate creates or updates the schema. Shared with the sqlite-backed tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Location{},
		&model.Asset{},
		&model.Scan{},
		&model.Maintenance{},
		&model.WatchSubscription{},
	)
}

// Seed inserts the bootstrap admin account and the default catalog rows.
// Safe to run on every startup.
func Seed(db *gorm.DB, adminPassword string) error {
	if adminPassword == "" {
		adminPassword = "admin123"
		log.Println("auth.bootstrap_admin_password is not set; using the default (change it)")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	admin := model.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Email:        "admin@example.com",
		Role:         model.RoleAdmin,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	categories := []model.Category{
		{Name: "Computers", Description: "Desktop computers, laptops, and tablets"},
		{Name: "Monitors", Description: "Display screens and monitors"},
		{Name: "Peripherals", Description: "Keyboards, mice, and other accessories"},
		{Name: "Furniture", Description: "Desks, chairs, and office furniture"},
		{Name: "Electronics", Description: "Phones, projectors, and other electronics"},
		{Name: "Tools", Description: "Maintenance and repair tools"},
		{Name: "Vehicles", Description: "Company vehicles and transportation"},
		{Name: "Other", Description: "Miscellaneous items"},
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&categories).Error; err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	// Location names carry no uniqueness constraint, so only seed them into
	// an empty table.
	var locationCount int64
	if err := db.Model(&model.Location{}).Count(&locationCount).Error; err != nil {
		return fmt.Errorf("failed to count locations: %w", err)
	}
	if locationCount == 0 {
		locations := []model.Location{
			{Name: "Headquarters - Floor 1", Building: "HQ", Floor: "1", Room: "Main Office"},
			{Name: "Warehouse - Section A", Building: "Warehouse", Floor: "Ground", Room: "Section A"},
			{Name: "Storage Room", Building: "HQ", Floor: "Basement", Room: "Storage"},
		}
		if err := db.Create(&locations).Error; err != nil {
			return fmt.Errorf("failed to seed locations: %w", err)
		}
	}

	return nil
}
