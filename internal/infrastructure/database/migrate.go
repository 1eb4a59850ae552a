package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/uxauditpro/backend/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := createExtensions(db); err != nil {
		logger.Error("Failed to create extensions", zap.Error(err))
		return err
	}

	// Custom types must exist before auto-migrate references them.
	if err := createCustomTypes(db); err != nil {
		logger.Error("Failed to create custom types", zap.Error(err))
		return err
	}

	err := db.AutoMigrate(
		&model.Entitlement{},
		&model.Order{},
		&model.PlanPrice{},
		&model.WebhookEvent{},
		&model.Report{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	if err := seedPlanPrices(db, logger); err != nil {
		logger.Error("Failed to seed plan prices", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates indexes GORM tags cannot express.
func createCustomIndexes(db *gorm.DB) error {
	// At most one open payment attempt per account and plan. The partial
	// index keeps the constraint off terminal rows so a failed attempt never
	// blocks a retry.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_pending_order_per_account_plan ON orders (account_id, plan) WHERE status = 'pending'`).Error; err != nil {
		return err
	}

	// The expiry sweep scans pending rows by age.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_orders_pending_created_at ON orders (created_at) WHERE status = 'pending'`).Error; err != nil {
		return err
	}

	return nil
}

// createExtensions creates required PostgreSQL extensions
func createExtensions(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return err
	}
	return nil
}

// createCustomTypes creates custom PostgreSQL types
func createCustomTypes(db *gorm.DB) error {
	types := []struct {
		name string
		sql  string
	}{
		{"plan_tier", `CREATE TYPE plan_tier AS ENUM ('free', 'pro', 'agency')`},
		{"order_status", `CREATE TYPE order_status AS ENUM ('pending', 'confirmed', 'failed', 'expired')`},
		{"account_role", `CREATE TYPE account_role AS ENUM ('user', 'agency', 'admin')`},
		{"webhook_outcome", `CREATE TYPE webhook_outcome AS ENUM ('applied', 'rejected', 'duplicate')`},
	}

	for _, t := range types {
		var exists bool
		db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_type WHERE typname = ?)`, t.name).Scan(&exists)
		if exists {
			continue
		}
		if err := db.Exec(t.sql).Error; err != nil {
			return err
		}
	}

	return nil
}

// seedPlanPrices inserts the plan catalog rows if they are missing. Pricing
// is server-side only; changing a price means changing these rows, never
// trusting a client amount.
func seedPlanPrices(db *gorm.DB, logger *zap.Logger) error {
	seeds := []model.PlanPrice{
		{Plan: model.PlanPro, Provider: "stripe", AmountMinor: 2900, Currency: "USD", Interval: "month", IsActive: true},
		{Plan: model.PlanAgency, Provider: "stripe", AmountMinor: 9900, Currency: "USD", Interval: "month", IsActive: true},
		{Plan: model.PlanPro, Provider: "paypal", AmountMinor: 2900, Currency: "USD", Interval: "month", IsActive: true},
		{Plan: model.PlanAgency, Provider: "paypal", AmountMinor: 9900, Currency: "USD", Interval: "month", IsActive: true},
		{Plan: model.PlanPro, Provider: "razorpay", AmountMinor: 249900, Currency: "INR", Interval: "month", IsActive: true},
		{Plan: model.PlanAgency, Provider: "razorpay", AmountMinor: 849900, Currency: "INR", Interval: "month", IsActive: true},
	}

	for _, seed := range seeds {
		var count int64
		if err := db.Model(&model.PlanPrice{}).
			Where("plan = ? AND provider = ?", seed.Plan, seed.Provider).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&seed).Error; err != nil {
			return err
		}
		logger.Info("Seeded plan price",
			zap.String("plan", string(seed.Plan)),
			zap.String("provider", seed.Provider),
			zap.Int64("amount_minor", seed.AmountMinor),
			zap.String("currency", seed.Currency))
	}

	return nil
}
