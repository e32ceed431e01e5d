package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/olla-del-barrio/dish-sync/internal/api/shared/errors"
	"github.com/olla-del-barrio/dish-sync/internal/pipeline"
)

// syncFailedResponse carries the summary of a FAILED run next to the error
type syncFailedResponse struct {
	Error   *errors.APIError  `json:"error"`
	Summary *pipeline.Summary `json:"summary"`
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, errors.NewNotFoundError(message, details...))
}

// respondInternalError responds with an internal error
func respondInternalError(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusInternalServerError, errors.NewInternalError(message, details...))
}

// respondConflict responds with a conflict error
func respondConflict(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusConflict, errors.NewConflictError(message, details...))
}

// respondServiceUnavailable responds with a service unavailable error
func respondServiceUnavailable(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusServiceUnavailable, errors.NewServiceUnavailableError(message, details...))
}

// respondSyncFailed responds with the error and the summary of a FAILED run
func respondSyncFailed(c *gin.Context, err error, summary *pipeline.Summary) {
	c.JSON(http.StatusInternalServerError, syncFailedResponse{
		Error:   errors.NewSyncFailedError("Sync run failed", err.Error()),
		Summary: summary,
	})
}
