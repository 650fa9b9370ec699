// Package ingest loads raw order records, as produced by the external site
// connector, into the datastore. Ingestion is idempotent on order number:
// re-running the same export never duplicates orders or items.
package ingest

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/vestboda/pantry-go/internal/datastore"
	"github.com/vestboda/pantry-go/internal/errors"
	"github.com/vestboda/pantry-go/internal/logging"
)

// RawItem is one scraped product line of a raw order.
type RawItem struct {
	ProductName string   `json:"product_name"`
	Quantity    int      `json:"quantity"`
	Price       *float64 `json:"price"`
}

// RawOrder is one scraped order as emitted by the site connector.
type RawOrder struct {
	OrderNumber  string    `json:"order_number"`
	OrderDate    FlexTime  `json:"order_date"`
	DeliveryDate *FlexTime `json:"delivery_date,omitempty"`
	TotalPrice   *float64  `json:"total_price"`
	Status       string    `json:"status"`
	Items        []RawItem `json:"items"`
}

// ReadFile decodes a JSON export of raw orders.
func ReadFile(path string) ([]RawOrder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf("reading order export %s: %w", path, err).
			Component("ingest").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	var orders []RawOrder
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, errors.Newf("parsing order export %s: %w", path, err).
			Component("ingest").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}

	return orders, nil
}

// Ingestor writes raw orders into the datastore.
type Ingestor struct {
	store datastore.Interface
	log   *slog.Logger
}

// New creates an Ingestor backed by the given store.
func New(store datastore.Interface) *Ingestor {
	return &Ingestor{
		store: store,
		log:   logging.ForService("ingest"),
	}
}

// IngestOrders saves a batch of raw orders and returns the number saved.
// Orders without an order number have no idempotency key and are skipped as a
// data-quality issue rather than failing the batch. A store error aborts the
// run.
func (ing *Ingestor) IngestOrders(orders []RawOrder) (int, error) {
	batchID := uuid.New().String()
	saved := 0
	skipped := 0

	for i := range orders {
		raw := &orders[i]

		if raw.OrderNumber == "" {
			skipped++
			if ing.log != nil {
				ing.log.Warn("Skipping order without order number",
					"batch_id", batchID,
					"index", i)
			}
			continue
		}

		order := toOrder(raw)
		if err := ing.store.SaveOrder(order); err != nil {
			return saved, errors.New(err).
				Component("ingest").
				Category(errors.CategoryOrderIngest).
				Context("batch_id", batchID).
				Context("order_number", raw.OrderNumber).
				Build()
		}
		saved++
	}

	if ing.log != nil {
		ing.log.Info("Order batch ingested",
			"batch_id", batchID,
			"saved", saved,
			"skipped", skipped)
	}
	return saved, nil
}

// toOrder maps a raw order to its datastore representation. Status defaults
// to delivered and item quantity to 1, matching what the site connector emits
// for plain completed orders.
func toOrder(raw *RawOrder) *datastore.Order {
	status := raw.Status
	if status == "" {
		status = "delivered"
	}

	order := &datastore.Order{
		OrderNumber: raw.OrderNumber,
		OrderDate:   raw.OrderDate.Time,
		TotalPrice:  raw.TotalPrice,
		Status:      status,
	}
	if raw.DeliveryDate != nil && !raw.DeliveryDate.IsZero() {
		t := raw.DeliveryDate.Time
		order.DeliveryDate = &t
	}

	order.Items = make([]datastore.OrderItem, 0, len(raw.Items))
	for _, item := range raw.Items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		order.Items = append(order.Items, datastore.OrderItem{
			ProductName:  item.ProductName,
			Quantity:     quantity,
			PricePerUnit: item.Price,
			TotalPrice:   item.Price,
		})
	}

	return order
}
