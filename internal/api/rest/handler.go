package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/olla-del-barrio/dish-sync/internal/logger"
	"github.com/olla-del-barrio/dish-sync/internal/sweeper"
)

const (
	SERVICE_NAME = "dish-sync"

	DATABASE_OK          = "ok"
	DATABASE_UNAVAILABLE = "unavailable"
	DATABASE_DISABLED    = "disabled"

	healthCheckTimeout = 2 * time.Second
)

// Handler defines the operator REST endpoints
type Handler interface {
	// HealthCheck returns the process health and configuration completeness
	// GET /healthz
	HealthCheck(c *gin.Context)

	// GetSyncStatus returns the summary of the last finished run
	// GET /v1/sync/status
	GetSyncStatus(c *gin.Context)

	// TriggerSync runs a sync now and returns its summary (requires the service token)
	// POST /v1/sync
	TriggerSync(c *gin.Context)

	// GetDish returns one synced dish by its source record id (requires the service token)
	// GET /v1/dishes/:id
	GetDish(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	controller SyncController
	dishes     DishReader
}

// NewHandler creates a new REST API handler. dishes is nil when the database is not configured.
func NewHandler(controller SyncController, dishes DishReader) Handler {
	return &handler{controller: controller, dishes: dishes}
}

// healthResponse is the body of GET /healthz
type healthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Config   string `json:"config"`
	Syncing  bool   `json:"syncing"`
	Database string `json:"database"`
	Dishes   *int64 `json:"dishes,omitempty"`
}

func (h *handler) HealthCheck(c *gin.Context) {
	status := sweeper.STATUS_PARTIAL
	if h.controller.ConfigComplete() {
		status = sweeper.STATUS_COMPLETE
	}

	database, dishes := h.databaseHealth(c.Request.Context())

	c.JSON(http.StatusOK, healthResponse{
		Status:   "ok",
		Service:  SERVICE_NAME,
		Config:   status,
		Syncing:  h.controller.Syncing(),
		Database: database,
		Dishes:   dishes,
	})
}

// databaseHealth pings the database and counts the synced dishes.
// An unreachable database does not make the process unhealthy; the next run retries it.
func (h *handler) databaseHealth(ctx context.Context) (string, *int64) {
	if h.dishes == nil {
		return DATABASE_DISABLED, nil
	}

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := h.dishes.Ping(ctx); err != nil {
		logger.WarnCtx(ctx, "Database health check failed", zap.Error(err))
		return DATABASE_UNAVAILABLE, nil
	}

	count, err := h.dishes.CountDishes(ctx)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to count dishes", zap.Error(err))
		return DATABASE_OK, nil
	}
	return DATABASE_OK, &count
}

func (h *handler) GetDish(c *gin.Context) {
	if h.dishes == nil {
		respondServiceUnavailable(c, "Database is not configured")
		return
	}

	id := c.Param("id")
	dishes, err := h.dishes.GetDishesByIDs(c.Request.Context(), []string{id})
	if err != nil {
		logger.WarnCtx(c.Request.Context(), "Failed to get dish", zap.String("dish_id", id), zap.Error(err))
		respondInternalError(c, "Failed to get dish")
		return
	}
	if len(dishes) == 0 {
		respondNotFound(c, "Dish not found", id)
		return
	}

	c.JSON(http.StatusOK, toDishResponse(dishes[0]))
}

func (h *handler) GetSyncStatus(c *gin.Context) {
	summary := h.controller.LastSummary()
	if summary == nil {
		respondNotFound(c, "No sync run has finished yet")
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *handler) TriggerSync(c *gin.Context) {
	// A dropped client must not abort a run that may be writing
	ctx := context.WithoutCancel(c.Request.Context())

	summary, err := h.controller.TriggerNow(ctx)
	switch {
	case errors.Is(err, sweeper.ErrSyncInProgress):
		respondConflict(c, "A sync is already running")
		return
	case errors.Is(err, sweeper.ErrSyncDisabled):
		respondServiceUnavailable(c, "Sync is disabled", err.Error())
		return
	case err != nil:
		logger.WarnCtx(ctx, "Manual sync failed", zap.Error(err))
		respondSyncFailed(c, err, summary)
		return
	}

	c.JSON(http.StatusOK, summary)
}
