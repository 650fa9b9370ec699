// manage.go: database connection lifecycle and schema migration
package datastore

import (
	"log/slog"

	"github.com/vestboda/pantry-go/internal/errors"
	"gorm.io/gorm"
)

// performAutoMigration runs GORM auto-migration for all model tables.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Order{}, &OrderItem{}, &RecurringItem{}, &ShoppingListItem{}); err != nil {
		return errors.Newf("failed to auto-migrate %s database: %w", dbType, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("db_type", dbType).
			Context("operation", "auto_migration").
			Build()
	}

	if debug {
		getLogger().Debug("Database schema migrated",
			"db_type", dbType,
			"connection", connectionInfo)
	}

	return nil
}

// Close closes the underlying SQL database connection.
func (ds *DataStore) Close() error {
	if ds.DB == nil {
		return errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "close").
			Build()
	}

	sqlDB, err := ds.DB.DB()
	if err != nil {
		return errors.Newf("failed to retrieve generic DB object: %w", err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "close").
			Build()
	}

	if err := sqlDB.Close(); err != nil {
		return errors.Newf("failed to close database: %w", err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "close").
			Build()
	}

	slog.Debug("Database connection closed")
	return nil
}
