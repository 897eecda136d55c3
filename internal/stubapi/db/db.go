package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/imaxretail/storefront/internal/stubapi/models"
)

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// Open connects storage for the stub backend: postgres when databaseURL is
// set, an embedded sqlite file otherwise.
func Open(ctx context.Context, databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return OpenSQLite("imax.db")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		PrepareStmt: true,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return migrate(db)
}

// OpenSQLite opens an embedded database, ":memory:" included. Tests use
// this path.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return migrate(db)
}

func migrate(db *gorm.DB) (*gorm.DB, error) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Appointment{},
		&models.Ticket{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Seed fills an empty catalog with demo inventory for local development.
func Seed(db *gorm.DB) ([]models.Product, error) {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		var existing []models.Product
		err := db.Find(&existing).Error
		return existing, err
	}

	products := []models.Product{
		{Name: "ProBook 450 G10", Description: "15.6\" business laptop, i5, 16GB RAM", Category: "laptops", Brand: "HP", Price: 899.00, Stock: 12},
		{Name: "ThinkPad E14", Description: "14\" laptop, Ryzen 5, 8GB RAM", Category: "laptops", Brand: "Lenovo", Price: 749.00, Stock: 8},
		{Name: "Kingston A400 480GB", Description: "SATA SSD upgrade drive", Category: "storage", Brand: "Kingston", Price: 39.90, Stock: 60},
		{Name: "Crucial 16GB DDR4", Description: "SODIMM 3200MHz notebook memory", Category: "memory", Brand: "Crucial", Price: 44.50, Stock: 35},
		{Name: "USB-C 65W Charger", Description: "Replacement laptop power adapter", Category: "accessories", Brand: "Anker", Price: 29.99, Stock: 40},
		{Name: "Laptop Screen Replacement", Description: "15.6\" FHD IPS panel with fitting", Category: "repairs", Brand: "IMAX", Price: 129.00, Stock: 15},
	}
	if err := db.Create(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
