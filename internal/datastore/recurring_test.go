// recurring_test.go: Tests for recurring item upsert and query semantics
package datastore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestboda/pantry-go/internal/errors"
)

func testRecurringItem(name string, purchaseCount int, nextPredicted time.Time) RecurringItem {
	return RecurringItem{
		ProductName:            name,
		PurchaseCount:          purchaseCount,
		FirstPurchase:          nextPredicted.AddDate(0, -3, 0),
		LastPurchase:           nextPredicted.AddDate(0, 0, -7),
		AvgDaysBetweenPurchase: 7,
		TypicalQuantity:        2,
		EstimatedDaysSupply:    7,
		NextPredictedPurchase:  nextPredicted,
	}
}

func TestUpsertRecurringItemsCreates(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	touched, err := ds.UpsertRecurringItems([]RecurringItem{
		testRecurringItem("helmelk", 5, now.AddDate(0, 0, 2)),
	}, now)
	require.NoError(t, err)
	require.Len(t, touched, 1)
	assert.Equal(t, "helmelk", touched[0].ProductName)
	assert.True(t, touched[0].CreatedAt.Equal(now))
	assert.True(t, touched[0].UpdatedAt.Equal(now))
}

func TestUpsertRecurringItemsPreservesUserFields(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	created := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	first := testRecurringItem("helmelk", 5, created.AddDate(0, 0, 2))
	_, err := ds.UpsertRecurringItems([]RecurringItem{first}, created)
	require.NoError(t, err)

	// User sets preferences between runs
	require.NoError(t, ds.SetRecurringAutoAdd("Helmelk", true, 3))

	// A later recompute overwrites the statistics only
	later := created.AddDate(0, 0, 7)
	second := testRecurringItem("helmelk", 6, later.AddDate(0, 0, 2))
	second.FirstPurchase = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC) // analyzer would recompute this
	touched, err := ds.UpsertRecurringItems([]RecurringItem{second}, later)
	require.NoError(t, err)
	require.Len(t, touched, 1)

	got := touched[0]
	assert.Equal(t, 6, got.PurchaseCount)
	assert.True(t, got.AutoAddToList, "user preference must survive recompute")
	assert.Equal(t, 3, got.PreferredQuantity, "user preference must survive recompute")
	assert.True(t, got.CreatedAt.Equal(created), "created_at must survive recompute")
	assert.True(t, got.UpdatedAt.Equal(later))
	assert.True(t, got.FirstPurchase.Equal(first.FirstPurchase), "first purchase is written once and kept")
}

func TestUpsertRecurringItemsEmptyBatch(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	touched, err := ds.UpsertRecurringItems(nil, time.Now())
	require.NoError(t, err)
	assert.Empty(t, touched)
}

func TestGetRecurringItemNormalizesName(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	now := time.Now()
	_, err := ds.UpsertRecurringItems([]RecurringItem{
		testRecurringItem("tine helmelk 1l", 4, now),
	}, now)
	require.NoError(t, err)

	item, err := ds.GetRecurringItem("  Tine Helmelk 1l ")
	require.NoError(t, err)
	assert.Equal(t, "tine helmelk 1l", item.ProductName)

	_, err = ds.GetRecurringItem("finnes ikke")
	assert.True(t, errors.IsNotFound(err))
}

func TestGetRecurringItemsOrderedByFrequency(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	now := time.Now()
	_, err := ds.UpsertRecurringItems([]RecurringItem{
		testRecurringItem("brød", 3, now),
		testRecurringItem("helmelk", 12, now),
		testRecurringItem("kaffe", 7, now),
	}, now)
	require.NoError(t, err)

	items, err := ds.GetRecurringItems(0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "helmelk", items[0].ProductName)
	assert.Equal(t, "kaffe", items[1].ProductName)
	assert.Equal(t, "brød", items[2].ProductName)

	limited, err := ds.GetRecurringItems(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGetLowStockItemsFilterAndOrder(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	overdue := testRecurringItem("helmelk", 5, now.AddDate(0, 0, -2))
	overdue.IsLowStockWarning = true
	soon := testRecurringItem("brød", 4, now.AddDate(0, 0, 1))
	soon.IsLowStockWarning = true
	fine := testRecurringItem("kaffe", 6, now.AddDate(0, 0, 20))

	_, err := ds.UpsertRecurringItems([]RecurringItem{soon, fine, overdue}, now)
	require.NoError(t, err)

	items, err := ds.GetLowStockItems()
	require.NoError(t, err)
	require.Len(t, items, 2, "only flagged items are returned")
	assert.Equal(t, "helmelk", items[0].ProductName, "soonest-due first")
	assert.Equal(t, "brød", items[1].ProductName)
}

func TestSetRecurringAutoAddUnknownNameIsNoop(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	require.NoError(t, ds.SetRecurringAutoAdd("ukjent vare", true, 2))

	var count int64
	require.NoError(t, ds.DB.Model(&RecurringItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
