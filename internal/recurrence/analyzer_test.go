// analyzer_test.go: Tests for the recurrence analyzer
package recurrence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vestboda/pantry-go/internal/conf"
	"github.com/vestboda/pantry-go/internal/datastore"
	"github.com/vestboda/pantry-go/internal/errors"
)

func testSettings(t *testing.T) *conf.Settings {
	t.Helper()

	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "pantry-test.db")
	settings.Recurrence = conf.RecurrenceConfig{
		MinPurchases:        3,
		LowStockLeadDays:    3,
		DefaultIntervalDays: 30,
	}
	return settings
}

func newTestStore(t *testing.T, settings *conf.Settings) datastore.Interface {
	t.Helper()

	store := datastore.New(settings)
	require.NotNil(t, store)
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// seedOrder saves one order with one line item per (name, quantity) pair.
func seedOrder(t *testing.T, store datastore.Interface, orderNumber string, date time.Time, items ...datastore.OrderItem) {
	t.Helper()

	require.NoError(t, store.SaveOrder(&datastore.Order{
		OrderNumber: orderNumber,
		OrderDate:   date,
		Status:      "delivered",
		Items:       items,
	}))
}

func item(name string, quantity int) datastore.OrderItem {
	return datastore.OrderItem{ProductName: name, Quantity: quantity}
}

func TestAnalyzeEmptyHistory(t *testing.T) {
	t.Parallel()
	settings := testSettings(t)
	store := newTestStore(t, settings)
	analyzer := New(store, settings)

	items, err := analyzer.Analyze(time.Now(), 3)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAnalyzeNegativeMinPurchases(t *testing.T) {
	t.Parallel()
	settings := testSettings(t)
	store := newTestStore(t, settings)
	analyzer := New(store, settings)

	_, err := analyzer.Analyze(time.Now(), -1)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestAnalyzeMinPurchasesThreshold(t *testing.T) {
	t.Parallel()
	settings := testSettings(t)
	store := newTestStore(t, settings)
	analyzer := New(store, settings)

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	seedOrder(t, store, "ODA-1", base, item("Helmelk", 2))
	seedOrder(t, store, "ODA-2", base.AddDate(0, 0, 7), item("Helmelk", 2))

	items, err := analyzer.Analyze(base.AddDate(0, 0, 14), 3)
	require.NoError(t, err)
	assert.Empty(t, items, "two purchases never qualify with a threshold of three")

	items, err = analyzer.Analyze(base.AddDate(0, 0, 14), 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "helmelk", items[0].ProductName)
}

func TestAnalyzeSinglePurchaseDefaultsToMonthlyCadence(t *testing.T) {
	t.Parallel()
	settings := testSettings(t)
	store := newTestStore(t, settings)
	analyzer := New(store, settings)

	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	seedOrder(t, store, "ODA-1", date, item("Kaffe", 1))

	items, err := analyzer.Analyze(date.AddDate(0, 0, 1), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, 1, got.PurchaseCount)
	assert.InDelta(t, 30, got.AvgDaysBetweenPurchase, 0.001)
	assert.True(t, got.NextPredictedPurchase.Equal(date.AddDate(0, 0, 30)))
}

func TestAnalyzeStatistics(t *testing.T) {
	t.Parallel()
	settings := testSettings(t)
	store := newTestStore(t, settings)
	analyzer := New(store, settings)

	// Purchases on days 0, 10 and 20 with quantities 2, 4 and 6
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	seedOrder(t, store, "ODA-1", base, item("Kaffe", 2))
	seedOrder(t, store, "ODA-2", base.AddDate(0, 0, 10), item("Kaffe", 4))
	seedOrder(t, store, "ODA-3", base.AddDate(0, 0, 20), item("Kaffe", 6))

	items, err := analyzer.Analyze(base.AddDate(0, 0, 21), 3)
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, 3, got.PurchaseCount)
	assert.True(t, got.FirstPurchase.Equal(base))
	assert.True(t, got.LastPurchase.Equal(base.AddDate(0, 0, 20)))
	assert.InDelta(t, 10.0, got.AvgDaysBetweenPurchase, 0.001)
	assert.Equal(t, 4, got.TypicalQuantity)
	assert.True(t, got.NextPredictedPurchase.Equal(base.AddDate(0, 0, 30)), "next purchase predicted on day 30")
}

func TestAnalyzeLowStockBoundary(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		first     time.Time
		last      time.Time
		wantIsLow bool
	}{
		// avg 10 days, next predicted exactly today
		{"due today", now.AddDate(0, 0, -20), now.AddDate(0, 0, -10), true},
		// avg 10 days, next predicted 3 days out
		{"due in three days", now.AddDate(0, 0, -17), now.AddDate(0, 0, -7), true},
		// avg 14 days, next predicted 4 days out
		{"due in four days", now.AddDate(0, 0, -24), now.AddDate(0, 0, -10), false},
		// avg 10 days, next predicted 5 days ago
		{"overdue", now.AddDate(0, 0, -25), now.AddDate(0, 0, -15), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			settings := testSettings(t)
			store := newTestStore(t, settings)
			analyzer := New(store, settings)

			seedOrder(t, store, "ODA-1", tt.first, item("Helmelk", 1))
			seedOrder(t, store, "ODA-2", tt.last, item("Helmelk", 1))

			items, err := analyzer.Analyze(now, 2)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, tt.wantIsLow, items[0].IsLowStockWarning)
		})
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	t.Parallel()
	settings := testSettings(t)
	store := newTestStore(t, settings)
	analyzer := New(store, settings)

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		seedOrder(t, store, "ODA-"+string(rune('1'+i)), base.AddDate(0, 0, 7*i), item("Helmelk", 2))
	}

	now := base.AddDate(0, 0, 30)
	first, err := analyzer.Analyze(now, 3)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := analyzer.Analyze(now.Add(time.Hour), 3)
	require.NoError(t, err)
	require.Len(t, second, 1)

	// All computed fields are byte-identical across runs with no new orders
	assert.Equal(t, first[0].PurchaseCount, second[0].PurchaseCount)
	assert.True(t, first[0].FirstPurchase.Equal(second[0].FirstPurchase))
	assert.True(t, first[0].LastPurchase.Equal(second[0].LastPurchase))
	assert.InDelta(t, first[0].AvgDaysBetweenPurchase, second[0].AvgDaysBetweenPurchase, 0.0001)
	assert.Equal(t, first[0].TypicalQuantity, second[0].TypicalQuantity)
	assert.Equal(t, first[0].EstimatedDaysSupply, second[0].EstimatedDaysSupply)
	assert.True(t, first[0].NextPredictedPurchase.Equal(second[0].NextPredictedPurchase))
	assert.Equal(t, first[0].IsLowStockWarning, second[0].IsLowStockWarning)
	assert.True(t, first[0].CreatedAt.Equal(second[0].CreatedAt))
	assert.False(t, first[0].UpdatedAt.Equal(second[0].UpdatedAt), "updated_at is refreshed on every recompute")
}

func TestAnalyzeReingestDoesNotInflateCounts(t *testing.T) {
	t.Parallel()
	settings := testSettings(t)
	store := newTestStore(t, settings)
	analyzer := New(store, settings)

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedOrder(t, store, "ODA-"+string(rune('1'+i)), base.AddDate(0, 0, 7*i), item("Helmelk", 2))
	}

	now := base.AddDate(0, 0, 21)
	first, err := analyzer.Analyze(now, 3)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, 3, first[0].PurchaseCount)

	// Re-ingest an order the store has already seen
	seedOrder(t, store, "ODA-2", base.AddDate(0, 0, 7), item("Helmelk", 2))

	second, err := analyzer.Analyze(now, 3)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 3, second[0].PurchaseCount, "duplicate ingestion must not create duplicate purchases")
}

func TestAnalyzeGroupsByNormalizedName(t *testing.T) {
	t.Parallel()
	settings := testSettings(t)
	store := newTestStore(t, settings)
	analyzer := New(store, settings)

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	seedOrder(t, store, "ODA-1", base, item("Helmelk", 2))
	seedOrder(t, store, "ODA-2", base.AddDate(0, 0, 7), item(" helmelk ", 2))
	seedOrder(t, store, "ODA-3", base.AddDate(0, 0, 14), item("HELMELK", 2))

	items, err := analyzer.Analyze(base.AddDate(0, 0, 15), 3)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "helmelk", items[0].ProductName)
	assert.Equal(t, 3, items[0].PurchaseCount)
}

func TestAnalyzeCountsUndatedPurchasesButSkipsThemForDates(t *testing.T) {
	t.Parallel()
	settings := testSettings(t)
	store := newTestStore(t, settings)
	analyzer := New(store, settings)

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	seedOrder(t, store, "ODA-1", base, item("Kaffe", 2))
	seedOrder(t, store, "ODA-2", base.AddDate(0, 0, 10), item("Kaffe", 2))
	// An order the scraper could not date
	seedOrder(t, store, "ODA-3", time.Time{}, item("Kaffe", 2))

	items, err := analyzer.Analyze(base.AddDate(0, 0, 11), 3)
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, 3, got.PurchaseCount, "undated purchases still count")
	assert.True(t, got.LastPurchase.Equal(base.AddDate(0, 0, 10)))
	assert.InDelta(t, 10.0, got.AvgDaysBetweenPurchase, 0.001, "interval uses dated purchases only")
}

func TestAnalyzeTouchedItemsSubsetRelation(t *testing.T) {
	t.Parallel()
	settings := testSettings(t)
	store := newTestStore(t, settings)
	analyzer := New(store, settings)

	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	// One item due now, one comfortably stocked
	seedOrder(t, store, "ODA-1", now.AddDate(0, 0, -20), item("Helmelk", 1), item("Kaffe", 1))
	seedOrder(t, store, "ODA-2", now.AddDate(0, 0, -10), item("Helmelk", 1))
	seedOrder(t, store, "ODA-3", now.AddDate(0, 0, -1), item("Kaffe", 1))

	_, err := analyzer.Analyze(now, 2)
	require.NoError(t, err)

	all, err := store.GetRecurringItems(0)
	require.NoError(t, err)
	low, err := store.GetLowStockItems()
	require.NoError(t, err)

	names := make(map[string]bool, len(all))
	for _, item := range all {
		names[item.ProductName] = true
	}
	for _, item := range low {
		assert.True(t, names[item.ProductName], "low stock items are a subset of all recurring items")
	}
	assert.Less(t, len(low), len(all)+1)
}
