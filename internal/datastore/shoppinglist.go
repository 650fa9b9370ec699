// shoppinglist.go: weekly shopping list persistence
package datastore

import (
	"fmt"
	"time"

	"github.com/vestboda/pantry-go/internal/errors"
)

// AddShoppingListItem appends an item to the weekly shopping list.
func (ds *DataStore) AddShoppingListItem(item *ShoppingListItem) error {
	if err := ds.DB.Create(item).Error; err != nil {
		return errors.Newf("adding shopping list item %q: %w", item.Name, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("item_name", item.Name).
			Context("week", item.WeekNumber).
			Build()
	}
	return nil
}

// GetShoppingList returns the shopping list for the given ISO week, grouped by
// category and name.
func (ds *DataStore) GetShoppingList(weekNumber, year int) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := ds.DB.Where("week_number = ? AND year = ?", weekNumber, year).
		Order("category, name").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("getting shopping list for week %d/%d: %w", weekNumber, year, err)
	}
	return items, nil
}

// MarkShoppingItemPurchased marks a shopping list item as purchased.
func (ds *DataStore) MarkShoppingItemPurchased(id uint, now time.Time) error {
	err := ds.DB.Model(&ShoppingListItem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"purchased":    true,
			"purchased_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("marking item %d purchased: %w", id, err)
	}
	return nil
}

// MarkShoppingItemInCart marks a shopping list item as added to the cart.
func (ds *DataStore) MarkShoppingItemInCart(id uint) error {
	err := ds.DB.Model(&ShoppingListItem{}).
		Where("id = ?", id).
		Update("in_cart", true).Error
	if err != nil {
		return fmt.Errorf("marking item %d in cart: %w", id, err)
	}
	return nil
}

// ClearShoppingList deletes all items on the list for the given ISO week.
func (ds *DataStore) ClearShoppingList(weekNumber, year int) error {
	err := ds.DB.Where("week_number = ? AND year = ?", weekNumber, year).
		Delete(&ShoppingListItem{}).Error
	if err != nil {
		return fmt.Errorf("clearing shopping list for week %d/%d: %w", weekNumber, year, err)
	}
	return nil
}
