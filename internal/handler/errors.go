package handler

import (
	"net/http"

	"chronicles/backend/internal/database"
	"chronicles/backend/internal/logger"
	"chronicles/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// respondError maps store and database errors onto HTTP statuses. notFound is the message
// used for a missing row.
func respondError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Please use a different username."})
	case errors.Is(err, store.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Please use a different email address."})
	case errors.Is(err, store.ErrEmptyPost), errors.Is(err, store.ErrPostTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, database.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Resource already exists"})
	default:
		_ = c.Error(err)
		logger.Log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
