package infra

import (
	"fmt"

	"bclick/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and brings the schema
// up to date: AutoMigrate for tables and columns, then idempotent SQL patches
// for what GORM cannot express (sequences, CHECK constraints, expression indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates every table and applies the schema patches.
// Also used by the integration suite against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderNote{},
		&model.StockMovement{},
		&model.PriceHistory{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL. Each statement is guarded so
// re-running on an already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"order number sequence",
			`CREATE SEQUENCE IF NOT EXISTS orders_order_number_seq START 1000`},

		// stock is the one contended column: the conditional decrement is the
		// first guard, this constraint is the last one.
		{"products stock non-negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_stock_non_negative') THEN
    ALTER TABLE products ADD CONSTRAINT chk_products_stock_non_negative CHECK (stock >= 0);
  END IF;
END $$`},
		{"products price non-negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_price_non_negative') THEN
    ALTER TABLE products ADD CONSTRAINT chk_products_price_non_negative CHECK (price >= 0);
  END IF;
END $$`},
		{"cart item quantity positive", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_cart_items_quantity_positive') THEN
    ALTER TABLE cart_items ADD CONSTRAINT chk_cart_items_quantity_positive CHECK (quantity >= 1);
  END IF;
END $$`},
		{"order item quantity positive", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_order_items_quantity_positive') THEN
    ALTER TABLE order_items ADD CONSTRAINT chk_order_items_quantity_positive CHECK (quantity >= 1);
  END IF;
END $$`},

		// category names are unique per supplier regardless of case
		{"categories unique lower(name)",
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_supplier_lower_name ON categories (supplier_id, lower(name))`},

		{"products bar code lookup",
			`CREATE INDEX IF NOT EXISTS idx_products_bar_code_visible ON products (bar_code) WHERE status NOT IN ('hidden', 'draft')`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
