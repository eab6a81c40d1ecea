package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"

	"github.com/ArowuTest/club-portal-backend/internal/qoh"
	"github.com/ArowuTest/club-portal-backend/internal/repositories"
	"github.com/ArowuTest/club-portal-backend/internal/services"
)

// respondError maps service and engine errors to an HTTP status. Conflicts with the
// recorded deck state are 409; other rejected input is 400.
func respondError(c *gin.Context, err error) {
	var verr *qoh.ValidationError
	switch {
	case errors.As(err, &verr):
		status := http.StatusBadRequest
		if errors.Is(err, qoh.ErrPositionTaken) || errors.Is(err, qoh.ErrCardAlreadyDrawn) || errors.Is(err, qoh.ErrShuffleComplete) ||
			errors.Is(err, qoh.ErrQueenNotLast) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error(), "field": verr.Field})
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrGameClosed), errors.Is(err, repositories.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		slog.Error("Request failed", "error", err, "path", c.Request.URL.Path)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
