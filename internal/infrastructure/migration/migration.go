// Package migration manages schema evolution. Development environments
// use GORM auto migration for fast iteration; test and production run
// the embedded goose scripts.
package migration

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/loam-dev/loam/internal/infrastructure/persistence/models"
	"github.com/loam-dev/loam/internal/shared/constants"
	"github.com/loam-dev/loam/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager creates a new migration manager
func NewManager(environment string) *Manager {
	var strategy Strategy

	switch strings.ToLower(environment) {
	case constants.EnvTest, constants.EnvProduction:
		strategy = NewGooseStrategy()
	default:
		strategy = NewGormAutoMigrateStrategy()
	}

	return &Manager{
		strategy: strategy,
		logger:   logger.NewLogger().With("component", "migration.manager"),
	}
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.NewLogger().With("component", "migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db, AllModels()...); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// AllModels returns every persistence model, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.SiteModel{},
		&models.SubscriptionModel{},
		&models.SubscriptionRequestModel{},
		&models.NotificationRecordModel{},
	}
}
