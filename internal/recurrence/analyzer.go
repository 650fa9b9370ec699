// Package recurrence analyzes order history to find recurring purchases,
// estimate purchase cadence and predict when items will run low.
package recurrence

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/vestboda/pantry-go/internal/conf"
	"github.com/vestboda/pantry-go/internal/datastore"
	"github.com/vestboda/pantry-go/internal/errors"
	"github.com/vestboda/pantry-go/internal/logging"
)

// Analyzer computes recurring item statistics from the stored order history.
// It is a synchronous batch computation: one read of the purchase history, one
// transactional upsert of the results. It holds no internal locking, the
// design assumes at most one analysis run at a time.
type Analyzer struct {
	store    datastore.Interface
	lifespan LifespanEstimator
	cfg      conf.RecurrenceConfig
	log      *slog.Logger
}

// New creates an Analyzer backed by the given store, using the default
// keyword-based lifespan classifier.
func New(store datastore.Interface, settings *conf.Settings) *Analyzer {
	return &Analyzer{
		store:    store,
		lifespan: NewKeywordClassifier(),
		cfg:      settings.Recurrence,
		log:      logging.ForService("recurrence"),
	}
}

// SetLifespanEstimator replaces the lifespan classifier. Must be called before
// Analyze, not during a run.
func (a *Analyzer) SetLifespanEstimator(estimator LifespanEstimator) {
	a.lifespan = estimator
}

// purchaseEvent is one dated purchase within a product group.
type purchaseEvent struct {
	date     time.Time
	quantity int
}

// Analyze groups the full purchase history by normalized product name,
// computes purchase statistics for every group with at least minPurchases
// events, and upserts the results as RecurringItem rows. It returns the rows
// touched in this run, both updated and newly created.
//
// The current time is an explicit parameter so low-stock decisions are
// deterministic and testable.
func (a *Analyzer) Analyze(now time.Time, minPurchases int) ([]datastore.RecurringItem, error) {
	if minPurchases < 0 {
		return nil, errors.Newf("minPurchases must be non-negative, got %d", minPurchases).
			Component("recurrence").
			Category(errors.CategoryValidation).
			Build()
	}

	purchases, err := a.store.GetAllPurchases()
	if err != nil {
		return nil, err
	}
	if len(purchases) == 0 {
		return []datastore.RecurringItem{}, nil
	}

	groups := make(map[string][]datastore.Purchase)
	for i := range purchases {
		name := datastore.NormalizeProductName(purchases[i].ProductName)
		groups[name] = append(groups[name], purchases[i])
	}

	computed := make([]datastore.RecurringItem, 0, len(groups))
	for name, group := range groups {
		if len(group) < minPurchases {
			continue
		}

		item, ok := a.analyzeGroup(name, group, now)
		if !ok {
			continue
		}
		computed = append(computed, item)
	}

	touched, err := a.store.UpsertRecurringItems(computed, now)
	if err != nil {
		return nil, err
	}

	if a.log != nil {
		a.log.Info("Recurrence analysis complete",
			"purchases", len(purchases),
			"groups", len(groups),
			"recurring_items", len(touched),
			"min_purchases", minPurchases)
	}
	return touched, nil
}

// analyzeGroup computes the statistics for one normalized product group.
// Events without a date are a data-quality issue, not an error: they count
// toward the purchase count but are skipped for all date math. A group with no
// dated events at all cannot be predicted and is dropped with a warning.
func (a *Analyzer) analyzeGroup(name string, group []datastore.Purchase, now time.Time) (datastore.RecurringItem, bool) {
	events := make([]purchaseEvent, 0, len(group))
	for i := range group {
		if group[i].OrderDate.IsZero() {
			continue
		}
		events = append(events, purchaseEvent{date: group[i].OrderDate, quantity: group[i].Quantity})
	}

	if len(events) == 0 {
		if a.log != nil {
			a.log.Warn("Skipping product group with no dated purchases",
				"product_name", name,
				"purchases", len(group))
		}
		return datastore.RecurringItem{}, false
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].date.Before(events[j].date)
	})

	purchaseCount := len(group)
	firstPurchase := events[0].date
	lastPurchase := events[len(events)-1].date

	// A single observation cannot yield an interval; the configured default
	// cadence (30 days out of the box) is a placeholder prior, not an
	// inference.
	avgDays := a.cfg.DefaultIntervalDays
	if len(events) > 1 {
		totalDays := math.Floor(lastPurchase.Sub(firstPurchase).Hours() / 24)
		avgDays = totalDays / float64(len(events)-1)
	}

	typicalQuantity := typicalQuantity(events)
	estimatedDaysSupply := a.lifespan.EstimateDaysSupply(name, avgDays)

	nextPredicted := lastPurchase.AddDate(0, 0, int(avgDays))

	daysUntilNext := int(math.Floor(nextPredicted.Sub(now).Hours() / 24))
	isLowStock := daysUntilNext <= a.cfg.LowStockLeadDays

	return datastore.RecurringItem{
		ProductName:            name,
		PurchaseCount:          purchaseCount,
		FirstPurchase:          firstPurchase,
		LastPurchase:           lastPurchase,
		AvgDaysBetweenPurchase: avgDays,
		TypicalQuantity:        typicalQuantity,
		EstimatedDaysSupply:    estimatedDaysSupply,
		NextPredictedPurchase:  nextPredicted,
		IsLowStockWarning:      isLowStock,
	}, true
}

// typicalQuantity is the mean of the observed quantities truncated toward
// zero. Non-positive quantities are treated as missing data and skipped.
func typicalQuantity(events []purchaseEvent) int {
	sum, n := 0, 0
	for _, e := range events {
		if e.quantity <= 0 {
			continue
		}
		sum += e.quantity
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / n
}
