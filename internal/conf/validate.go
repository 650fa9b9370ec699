// conf/validate.go settings validation
package conf

import (
	"github.com/vestboda/pantry-go/internal/errors"
)

// ValidateSettings checks the loaded settings for inconsistencies that would
// fail later in a less obvious way.
func ValidateSettings(settings *Settings) error {
	if settings.Output.SQLite.Enabled && settings.Output.MySQL.Enabled {
		return errors.Newf("only one database output can be enabled, both sqlite and mysql are enabled").
			Component("configuration").
			Category(errors.CategoryValidation).
			Build()
	}

	if !settings.Output.SQLite.Enabled && !settings.Output.MySQL.Enabled {
		return errors.Newf("no database output enabled, enable either sqlite or mysql").
			Component("configuration").
			Category(errors.CategoryValidation).
			Build()
	}

	if settings.Output.SQLite.Enabled && settings.Output.SQLite.Path == "" {
		return errors.Newf("sqlite output enabled but path is empty").
			Component("configuration").
			Category(errors.CategoryValidation).
			Build()
	}

	if settings.Output.MySQL.Enabled {
		if settings.Output.MySQL.Host == "" || settings.Output.MySQL.Database == "" {
			return errors.Newf("mysql output enabled but host or database is empty").
				Component("configuration").
				Category(errors.CategoryValidation).
				Context("host", settings.Output.MySQL.Host).
				Context("database", settings.Output.MySQL.Database).
				Build()
		}
	}

	if settings.Recurrence.MinPurchases < 0 {
		return errors.Newf("recurrence.minpurchases must be non-negative, got %d", settings.Recurrence.MinPurchases).
			Component("configuration").
			Category(errors.CategoryValidation).
			Build()
	}

	if settings.Recurrence.LowStockLeadDays < 0 {
		return errors.Newf("recurrence.lowstockleaddays must be non-negative, got %d", settings.Recurrence.LowStockLeadDays).
			Component("configuration").
			Category(errors.CategoryValidation).
			Build()
	}

	if settings.Recurrence.DefaultIntervalDays <= 0 {
		return errors.Newf("recurrence.defaultintervaldays must be positive, got %v", settings.Recurrence.DefaultIntervalDays).
			Component("configuration").
			Category(errors.CategoryValidation).
			Build()
	}

	if settings.WebServer.Enabled && settings.WebServer.Port == "" {
		return errors.Newf("webserver enabled but port is empty").
			Component("configuration").
			Category(errors.CategoryValidation).
			Build()
	}

	return nil
}
