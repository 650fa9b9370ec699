// shoppinglist_test.go: Tests for weekly shopping list persistence
package datastore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShoppingListWeekBuckets(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	require.NoError(t, ds.AddShoppingListItem(&ShoppingListItem{
		Name: "Helmelk", Quantity: "2 stk", Category: "Faste varer", WeekNumber: 14, Year: 2025,
	}))
	require.NoError(t, ds.AddShoppingListItem(&ShoppingListItem{
		Name: "Brød", Quantity: "1 stk", Category: "Faste varer", WeekNumber: 15, Year: 2025,
	}))

	week14, err := ds.GetShoppingList(14, 2025)
	require.NoError(t, err)
	require.Len(t, week14, 1)
	assert.Equal(t, "Helmelk", week14[0].Name)

	week15, err := ds.GetShoppingList(15, 2025)
	require.NoError(t, err)
	assert.Len(t, week15, 1)
}

func TestShoppingListOrderedByCategoryAndName(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	for _, item := range []ShoppingListItem{
		{Name: "Tomater", Category: "Grønnsaker", WeekNumber: 14, Year: 2025},
		{Name: "Helmelk", Category: "Faste varer", WeekNumber: 14, Year: 2025},
		{Name: "Agurk", Category: "Grønnsaker", WeekNumber: 14, Year: 2025},
	} {
		item := item
		require.NoError(t, ds.AddShoppingListItem(&item))
	}

	items, err := ds.GetShoppingList(14, 2025)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Helmelk", items[0].Name)
	assert.Equal(t, "Agurk", items[1].Name)
	assert.Equal(t, "Tomater", items[2].Name)
}

func TestMarkShoppingItemPurchased(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	item := ShoppingListItem{Name: "Helmelk", WeekNumber: 14, Year: 2025}
	require.NoError(t, ds.AddShoppingListItem(&item))
	require.NotZero(t, item.ID)

	now := time.Date(2025, 4, 2, 18, 30, 0, 0, time.UTC)
	require.NoError(t, ds.MarkShoppingItemPurchased(item.ID, now))

	items, err := ds.GetShoppingList(14, 2025)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Purchased)
	require.NotNil(t, items[0].PurchasedAt)
	assert.True(t, items[0].PurchasedAt.Equal(now))
}

func TestMarkShoppingItemInCart(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	item := ShoppingListItem{Name: "Brød", WeekNumber: 14, Year: 2025}
	require.NoError(t, ds.AddShoppingListItem(&item))
	require.NoError(t, ds.MarkShoppingItemInCart(item.ID))

	items, err := ds.GetShoppingList(14, 2025)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].InCart)
}

func TestClearShoppingList(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	require.NoError(t, ds.AddShoppingListItem(&ShoppingListItem{Name: "Helmelk", WeekNumber: 14, Year: 2025}))
	require.NoError(t, ds.AddShoppingListItem(&ShoppingListItem{Name: "Brød", WeekNumber: 15, Year: 2025}))

	require.NoError(t, ds.ClearShoppingList(14, 2025))

	week14, err := ds.GetShoppingList(14, 2025)
	require.NoError(t, err)
	assert.Empty(t, week14)

	week15, err := ds.GetShoppingList(15, 2025)
	require.NoError(t, err)
	assert.Len(t, week15, 1, "other weeks are untouched")
}
