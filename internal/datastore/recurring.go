// recurring.go: recurring item persistence, upsert-by-normalized-name
package datastore

import (
	"fmt"
	"time"

	"github.com/vestboda/pantry-go/internal/errors"
	"gorm.io/gorm"
)

// UpsertRecurringItems writes a batch of computed recurring item snapshots
// inside a single transaction. Rows are matched by normalized product name.
// On update only the computed fields are overwritten; user preferences
// (AutoAddToList, PreferredQuantity), CreatedAt and FirstPurchase keep their
// stored values. Rows not present in the batch are left alone, a recompute
// never deletes.
func (ds *DataStore) UpsertRecurringItems(items []RecurringItem, now time.Time) ([]RecurringItem, error) {
	if len(items) == 0 {
		return []RecurringItem{}, nil
	}

	touched := make([]RecurringItem, 0, len(items))

	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		for i := range items {
			item := items[i]

			var existing RecurringItem
			err := tx.Where("product_name = ?", item.ProductName).First(&existing).Error
			switch {
			case err == nil:
				updates := map[string]any{
					"purchase_count":            item.PurchaseCount,
					"last_purchase":             item.LastPurchase,
					"avg_days_between_purchase": item.AvgDaysBetweenPurchase,
					"typical_quantity":          item.TypicalQuantity,
					"estimated_days_supply":     item.EstimatedDaysSupply,
					"next_predicted_purchase":   item.NextPredictedPurchase,
					"is_low_stock_warning":      item.IsLowStockWarning,
					"updated_at":                now,
				}
				if err := tx.Model(&existing).Updates(updates).Error; err != nil {
					return fmt.Errorf("updating recurring item %q: %w", item.ProductName, err)
				}
				if err := tx.Where("product_name = ?", item.ProductName).First(&existing).Error; err != nil {
					return fmt.Errorf("re-reading recurring item %q: %w", item.ProductName, err)
				}
				touched = append(touched, existing)
			case errors.Is(err, gorm.ErrRecordNotFound):
				item.CreatedAt = now
				item.UpdatedAt = now
				if err := tx.Create(&item).Error; err != nil {
					return fmt.Errorf("creating recurring item %q: %w", item.ProductName, err)
				}
				touched = append(touched, item)
			default:
				return fmt.Errorf("looking up recurring item %q: %w", item.ProductName, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "upsert_recurring_items").
			Context("batch_size", len(items)).
			Build()
	}

	return touched, nil
}

// GetRecurringItem retrieves a recurring item by product name. The name is
// normalized before lookup, so callers may pass the raw name.
func (ds *DataStore) GetRecurringItem(productName string) (RecurringItem, error) {
	normalized := NormalizeProductName(productName)

	var item RecurringItem
	err := ds.DB.Where("product_name = ?", normalized).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecurringItem{}, errors.Newf("recurring item %q not found", normalized).
				Component("datastore").
				Category(errors.CategoryNotFound).
				Context("product_name", normalized).
				Build()
		}
		return RecurringItem{}, fmt.Errorf("getting recurring item %q: %w", normalized, err)
	}
	return item, nil
}

// GetRecurringItems returns recurring items ordered by purchase frequency,
// most purchased first.
func (ds *DataStore) GetRecurringItems(limit int) ([]RecurringItem, error) {
	var items []RecurringItem
	query := ds.DB.Order("purchase_count DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("getting recurring items: %w", err)
	}
	return items, nil
}

// GetLowStockItems returns recurring items flagged as low stock, soonest-due
// first. This is a pure read of the persisted flag; run the analyzer first if
// freshness matters.
func (ds *DataStore) GetLowStockItems() ([]RecurringItem, error) {
	var items []RecurringItem
	err := ds.DB.Where("is_low_stock_warning = ?", true).
		Order("next_predicted_purchase ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("getting low stock items: %w", err)
	}
	return items, nil
}

// SetRecurringAutoAdd updates the user preferences on a recurring item. An
// unknown product name is a no-op, not an error.
func (ds *DataStore) SetRecurringAutoAdd(productName string, autoAdd bool, quantity int) error {
	normalized := NormalizeProductName(productName)

	result := ds.DB.Model(&RecurringItem{}).
		Where("product_name = ?", normalized).
		Updates(map[string]any{
			"auto_add_to_list":   autoAdd,
			"preferred_quantity": quantity,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return errors.Newf("setting auto-add for %q: %w", normalized, result.Error).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("product_name", normalized).
			Build()
	}

	if result.RowsAffected == 0 {
		getLogger().Debug("Auto-add request for unknown recurring item ignored",
			"product_name", normalized)
	}
	return nil
}
