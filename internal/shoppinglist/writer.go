// Package shoppinglist appends recurring items to the mutable weekly shopping
// list, bucketed by ISO week.
package shoppinglist

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/vestboda/pantry-go/internal/datastore"
	"github.com/vestboda/pantry-go/internal/errors"
	"github.com/vestboda/pantry-go/internal/logging"
)

// CategoryRecurring is the list category recurring items are filed under.
const CategoryRecurring = "Faste varer"

// Selection controls which recurring items are added to the list.
// ProductNames, when non-empty, wins over the other modes. Otherwise
// LowStockOnly picks the items flagged as running low; when false, every item
// the user marked auto-add is taken.
type Selection struct {
	LowStockOnly bool
	ProductNames []string
}

// Writer copies recurring items onto the weekly shopping list.
type Writer struct {
	store datastore.Interface
	log   *slog.Logger
}

// New creates a Writer backed by the given store.
func New(store datastore.Interface) *Writer {
	return &Writer{
		store: store,
		log:   logging.ForService("shoppinglist"),
	}
}

// AddRecurring appends the selected recurring items to the shopping list for
// the ISO week containing now. Quantity per item is the user's preferred
// quantity when set, the observed typical quantity otherwise. Returns the
// list rows added.
func (w *Writer) AddRecurring(now time.Time, sel Selection) ([]datastore.ShoppingListItem, error) {
	items, err := w.selectItems(sel)
	if err != nil {
		return nil, err
	}

	year, week := now.ISOWeek()

	added := make([]datastore.ShoppingListItem, 0, len(items))
	for i := range items {
		quantity := items[i].PreferredQuantity
		if quantity <= 0 {
			quantity = items[i].TypicalQuantity
		}

		row := datastore.ShoppingListItem{
			Name:       items[i].ProductName,
			Quantity:   fmt.Sprintf("%d stk", quantity),
			Category:   CategoryRecurring,
			WeekNumber: week,
			Year:       year,
			CreatedAt:  now,
		}
		if err := w.store.AddShoppingListItem(&row); err != nil {
			return added, err
		}
		added = append(added, row)
	}

	if w.log != nil {
		w.log.Info("Recurring items added to shopping list",
			"week", week,
			"year", year,
			"added", len(added))
	}
	return added, nil
}

// selectItems resolves the selection into recurring item rows. Unknown
// product names are skipped, not errors.
func (w *Writer) selectItems(sel Selection) ([]datastore.RecurringItem, error) {
	if len(sel.ProductNames) > 0 {
		items := make([]datastore.RecurringItem, 0, len(sel.ProductNames))
		for _, name := range sel.ProductNames {
			item, err := w.store.GetRecurringItem(name)
			if err != nil {
				if errors.IsNotFound(err) {
					if w.log != nil {
						w.log.Warn("Unknown recurring item requested", "product_name", name)
					}
					continue
				}
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	}

	if sel.LowStockOnly {
		return w.store.GetLowStockItems()
	}

	all, err := w.store.GetRecurringItems(0)
	if err != nil {
		return nil, err
	}
	autoAdd := all[:0]
	for _, item := range all {
		if item.AutoAddToList {
			autoAdd = append(autoAdd, item)
		}
	}
	return autoAdd, nil
}
