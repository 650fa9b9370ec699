// model.go this code defines the data model for the application
package datastore

import (
	"strings"
	"time"
)

// Order represents a single grocery order with its line items
type Order struct {
	ID           uint       `gorm:"primaryKey"`
	OrderNumber  string     `gorm:"uniqueIndex;not null"` // idempotency key, stable across re-ingestion
	OrderDate    time.Time  `gorm:"index:idx_orders_date"`
	DeliveryDate *time.Time
	TotalPrice   *float64
	Status       string      `gorm:"type:varchar(20)"` // Values: "delivered", "cancelled", ...
	Items        []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"` // One-to-many relationship with cascade delete
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem represents one product line within an Order. Items are immutable
// once created; re-ingesting an order never duplicates an item with the same
// product name.
type OrderItem struct {
	ID           uint   `gorm:"primaryKey"`
	OrderID      uint   `gorm:"index;not null;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;foreignKey:OrderID;references:ID"` // Foreign key to associate with Order
	ProductName  string `gorm:"index:idx_order_items_product;not null"` // raw name as scraped
	Quantity     int
	PricePerUnit *float64
	TotalPrice   *float64
}

// RecurringItem holds the purchase statistics and prediction for one product,
// keyed by normalized product name. Rows are created and refreshed only by the
// recurrence analyzer; stale rows are never removed by a recompute.
type RecurringItem struct {
	ID                     uint      `gorm:"primaryKey"`
	ProductName            string    `gorm:"uniqueIndex;not null"` // normalized name, the dedup key
	PurchaseCount          int       `gorm:"index:idx_recurring_purchase_count"`
	FirstPurchase          time.Time
	LastPurchase           time.Time
	AvgDaysBetweenPurchase float64
	TypicalQuantity        int
	EstimatedDaysSupply    int
	NextPredictedPurchase  time.Time `gorm:"index:idx_recurring_next_predicted"`
	IsLowStockWarning      bool      `gorm:"index:idx_recurring_low_stock"`

	// User preferences, never touched by the analyzer
	AutoAddToList     bool
	PreferredQuantity int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShoppingListItem is one row on the mutable weekly shopping list, bucketed by
// ISO week number and year.
type ShoppingListItem struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Quantity     string // "500g", "2 stk", etc.
	Category     string
	CurrentPrice *float64
	Purchased    bool
	InCart       bool
	WeekNumber   int `gorm:"index:idx_shopping_list_week"`
	Year         int `gorm:"index:idx_shopping_list_week"`
	CreatedAt    time.Time
	PurchasedAt  *time.Time
}

// Purchase is one historical purchase event of a product, an order item joined
// to its parent order's date. This is the analyzer's input row.
type Purchase struct {
	ProductName  string
	OrderDate    time.Time
	Quantity     int
	PricePerUnit *float64
}

// NormalizeProductName returns the grouping/dedup key for a raw product name:
// surrounding whitespace trimmed and case folded.
func NormalizeProductName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
