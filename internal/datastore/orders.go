// orders.go: order and order item persistence with idempotent re-ingestion
package datastore

import (
	"fmt"

	"github.com/vestboda/pantry-go/internal/errors"
	"gorm.io/gorm"
)

// SaveOrder stores an order and its line items in a single transaction.
// Saving is idempotent on OrderNumber: an existing order gets its total price
// and status refreshed, and items already present (matched by product name)
// are left untouched rather than duplicated.
func (ds *DataStore) SaveOrder(order *Order) error {
	if ds.DB == nil {
		return errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "save_order").
			Build()
	}

	// Detach items so GORM does not create them as associations; they are
	// inserted individually below with duplicate detection.
	items := order.Items
	order.Items = nil
	defer func() { order.Items = items }()

	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		var existing Order
		err := tx.Where("order_number = ?", order.OrderNumber).First(&existing).Error
		switch {
		case err == nil:
			// Refresh mutable order fields in place
			updates := map[string]any{
				"order_date":    order.OrderDate,
				"delivery_date": order.DeliveryDate,
				"total_price":   order.TotalPrice,
				"status":        order.Status,
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("updating order %s: %w", order.OrderNumber, err)
			}
			order.ID = existing.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(order).Error; err != nil {
				return fmt.Errorf("creating order %s: %w", order.OrderNumber, err)
			}
		default:
			return fmt.Errorf("looking up order %s: %w", order.OrderNumber, err)
		}

		for i := range items {
			var count int64
			if err := tx.Model(&OrderItem{}).
				Where("order_id = ? AND product_name = ?", order.ID, items[i].ProductName).
				Count(&count).Error; err != nil {
				return fmt.Errorf("checking for existing item %q: %w", items[i].ProductName, err)
			}
			if count > 0 {
				continue
			}
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("creating item %q: %w", items[i].ProductName, err)
			}
		}

		return nil
	})
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "save_order").
			Context("order_number", order.OrderNumber).
			Build()
	}

	getLogger().Debug("Order saved",
		"order_number", order.OrderNumber,
		"items", len(items))
	return nil
}

// GetOrder retrieves an order with its items by order number.
func (ds *DataStore) GetOrder(orderNumber string) (Order, error) {
	var order Order
	err := ds.DB.Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Order{}, errors.Newf("order %s not found", orderNumber).
				Component("datastore").
				Category(errors.CategoryNotFound).
				Context("order_number", orderNumber).
				Build()
		}
		return Order{}, fmt.Errorf("getting order %s: %w", orderNumber, err)
	}
	return order, nil
}

// GetAllOrders returns orders sorted by order date, newest first.
func (ds *DataStore) GetAllOrders(limit int) ([]Order, error) {
	var orders []Order
	query := ds.DB.Preload("Items").Order("order_date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("getting orders: %w", err)
	}
	return orders, nil
}

// GetAllPurchases returns every order item joined to its parent order's date.
// This is the full purchase history the recurrence analyzer works from.
func (ds *DataStore) GetAllPurchases() ([]Purchase, error) {
	var purchases []Purchase
	err := ds.DB.Model(&OrderItem{}).
		Select("order_items.product_name, orders.order_date, order_items.quantity, order_items.price_per_unit").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Scan(&purchases).Error
	if err != nil {
		return nil, errors.Newf("getting purchase history: %w", err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_all_purchases").
			Build()
	}
	return purchases, nil
}
