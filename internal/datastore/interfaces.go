// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"time"

	"github.com/vestboda/pantry-go/internal/conf"
	"gorm.io/gorm"
)

// Interface abstracts the underlying database implementation and defines the
// operations the rest of the application may perform against the store.
type Interface interface {
	Open() error
	Close() error

	// orders
	SaveOrder(order *Order) error
	GetOrder(orderNumber string) (Order, error)
	GetAllOrders(limit int) ([]Order, error)
	GetAllPurchases() ([]Purchase, error)

	// recurring items
	UpsertRecurringItems(items []RecurringItem, now time.Time) ([]RecurringItem, error)
	GetRecurringItem(productName string) (RecurringItem, error)
	GetRecurringItems(limit int) ([]RecurringItem, error)
	GetLowStockItems() ([]RecurringItem, error)
	SetRecurringAutoAdd(productName string, autoAdd bool, quantity int) error

	// shopping list
	AddShoppingListItem(item *ShoppingListItem) error
	GetShoppingList(weekNumber, year int) ([]ShoppingListItem, error)
	MarkShoppingItemPurchased(id uint, now time.Time) error
	MarkShoppingItemInCart(id uint) error
	ClearShoppingList(weekNumber, year int) error
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new store instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		// Settings validation rejects this, but guard anyway
		return nil
	}
}
