package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pantrypilot/backend/internal/service"
)

// respondError maps a service-layer error to an HTTP status. Unclassified
// failures, including data-integrity faults from the persistence layer,
// collapse to a generic server fault carrying the underlying message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBadInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// queryLimit parses a bounded limit query parameter with a default of 50.
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("limit", "50")
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 200"})
		return 0, false
	}
	return limit, true
}

// customAPIKey returns the per-request LLM key override, if any.
func customAPIKey(c *gin.Context) string {
	return c.GetHeader("X-Custom-Api-Key")
}
