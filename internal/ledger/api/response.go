package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxz807/finbank/internal/ledger/domain"
)

func ok(c *gin.Context, message string, data any) {
	body := gin.H{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	c.JSON(http.StatusOK, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// failWith maps a service error to a status and a message that does not
// leak store details.
func failWith(c *gin.Context, err error) {
	status, message := classify(err)
	fail(c, status, message)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "Invalid amount"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, "Insufficient funds"
	case errors.Is(err, domain.ErrSameAccount):
		return http.StatusBadRequest, "Cannot transfer to the same account"
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest, "Missing required fields"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "Account not found"
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusServiceUnavailable, "Service temporarily unavailable, please retry"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
