// handlers.go: HTTP handlers for the v1 API
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vestboda/pantry-go/internal/errors"
	"github.com/vestboda/pantry-go/internal/ingest"
	"github.com/vestboda/pantry-go/internal/shoppinglist"
)

const defaultRecurringLimit = 50

// analyzeRequest is the body of POST /api/v1/analyze.
type analyzeRequest struct {
	MinPurchases *int `json:"min_purchases,omitempty"`
}

// autoAddRequest is the body of PATCH /api/v1/recurring/:name.
type autoAddRequest struct {
	AutoAdd  bool `json:"auto_add"`
	Quantity int  `json:"quantity"`
}

// addRecurringRequest is the body of POST /api/v1/shoppinglist/recurring.
type addRecurringRequest struct {
	LowStockOnly *bool    `json:"low_stock_only,omitempty"`
	ProductNames []string `json:"product_names,omitempty"`
}

// ingestResponse is the body returned by POST /api/v1/orders.
type ingestResponse struct {
	Saved    int `json:"saved"`
	Received int `json:"received"`
}

func (s *Server) handleIngestOrders(c echo.Context) error {
	var orders []ingest.RawOrder
	if err := c.Bind(&orders); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	saved, err := s.ingestor.IngestOrders(orders)
	if err != nil {
		return s.serverError(c, err)
	}

	s.metrics.OrdersIngested.Add(float64(saved))
	s.cache.Flush()

	return c.JSON(http.StatusCreated, ingestResponse{Saved: saved, Received: len(orders)})
}

func (s *Server) handleGetRecurring(c echo.Context) error {
	limit := defaultRecurringLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	cacheKey := fmt.Sprintf("recurring:%d", limit)
	if cached, found := s.cache.Get(cacheKey); found {
		return c.JSON(http.StatusOK, cached)
	}

	items, err := s.store.GetRecurringItems(limit)
	if err != nil {
		return s.serverError(c, err)
	}

	s.cache.SetDefault(cacheKey, items)
	return c.JSON(http.StatusOK, items)
}

func (s *Server) handleGetLowStock(c echo.Context) error {
	items, err := s.store.GetLowStockItems()
	if err != nil {
		return s.serverError(c, err)
	}
	s.metrics.LowStockItems.Set(float64(len(items)))
	return c.JSON(http.StatusOK, items)
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	minPurchases := s.settings.Recurrence.MinPurchases
	if req.MinPurchases != nil {
		minPurchases = *req.MinPurchases
	}

	items, err := s.analyzer.Analyze(time.Now(), minPurchases)
	if err != nil {
		if errors.IsCategory(err, errors.CategoryValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return s.serverError(c, err)
	}

	s.metrics.AnalyzeRuns.Inc()
	s.metrics.ItemsUpserted.Add(float64(len(items)))
	s.cache.Flush()

	return c.JSON(http.StatusOK, items)
}

func (s *Server) handleSetAutoAdd(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing product name")
	}

	var req autoAddRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	if err := s.store.SetRecurringAutoAdd(name, req.AutoAdd, quantity); err != nil {
		return s.serverError(c, err)
	}

	s.cache.Flush()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleGetShoppingList(c echo.Context) error {
	now := time.Now()
	year, week := now.ISOWeek()

	if raw := c.QueryParam("week"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid week")
		}
		week = parsed
	}
	if raw := c.QueryParam("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		year = parsed
	}

	items, err := s.store.GetShoppingList(week, year)
	if err != nil {
		return s.serverError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (s *Server) handleAddRecurringToList(c echo.Context) error {
	var req addRecurringRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	lowStockOnly := true
	if req.LowStockOnly != nil {
		lowStockOnly = *req.LowStockOnly
	}

	added, err := s.writer.AddRecurring(time.Now(), shoppinglist.Selection{
		LowStockOnly: lowStockOnly,
		ProductNames: req.ProductNames,
	})
	if err != nil {
		return s.serverError(c, err)
	}

	return c.JSON(http.StatusCreated, added)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// serverError logs the error with its metadata and returns a generic 500.
func (s *Server) serverError(c echo.Context, err error) error {
	if s.log != nil {
		attrs := []any{"error", err, "path", c.Path()}
		var ee *errors.EnhancedError
		if errors.As(err, &ee) {
			attrs = append(attrs, ee.LogAttrs()...)
		}
		s.log.Error("Request failed", attrs...)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
