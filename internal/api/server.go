// Package api exposes the recurrence analyzer and shopping list over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vestboda/pantry-go/internal/conf"
	"github.com/vestboda/pantry-go/internal/datastore"
	"github.com/vestboda/pantry-go/internal/ingest"
	"github.com/vestboda/pantry-go/internal/logging"
	"github.com/vestboda/pantry-go/internal/recurrence"
	"github.com/vestboda/pantry-go/internal/shoppinglist"
)

// Cache TTLs for recurring item list responses. Analysis runs and auto-add
// mutations invalidate explicitly, the TTL only bounds staleness from writes
// outside this process.
const (
	cacheTTL             = 60 * time.Second
	cacheCleanupInterval = 5 * time.Minute
)

// Server is the HTTP API server.
type Server struct {
	Echo     *echo.Echo
	store    datastore.Interface
	analyzer *recurrence.Analyzer
	writer   *shoppinglist.Writer
	ingestor *ingest.Ingestor
	settings *conf.Settings
	cache    *gocache.Cache
	metrics  *Metrics
	log      *slog.Logger
}

// New creates the API server and registers all routes.
func New(settings *conf.Settings, store datastore.Interface, analyzer *recurrence.Analyzer, writer *shoppinglist.Writer) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		Echo:     e,
		store:    store,
		analyzer: analyzer,
		writer:   writer,
		ingestor: ingest.New(store),
		settings: settings,
		cache:    gocache.New(cacheTTL, cacheCleanupInterval),
		metrics:  NewMetrics(),
		log:      logging.ForService("api"),
	}

	e.Use(middleware.Recover())
	if settings.WebServer.Debug {
		e.Use(middleware.Logger())
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.Echo.Group("/api/v1")

	v1.POST("/orders", s.handleIngestOrders)
	v1.GET("/recurring", s.handleGetRecurring)
	v1.GET("/recurring/lowstock", s.handleGetLowStock)
	v1.PATCH("/recurring/:name", s.handleSetAutoAdd)
	v1.POST("/analyze", s.handleAnalyze)

	v1.GET("/shoppinglist", s.handleGetShoppingList)
	v1.POST("/shoppinglist/recurring", s.handleAddRecurringToList)

	s.Echo.GET("/healthz", s.handleHealth)
	s.Echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Start runs the server on the configured port. Blocks until shutdown.
func (s *Server) Start() error {
	addr := ":" + s.settings.WebServer.Port
	if s.log != nil {
		s.log.Info("Starting API server", "addr", addr)
	}
	err := s.Echo.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}
