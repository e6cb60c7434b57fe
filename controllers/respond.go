// Package controllers holds the error mapping shared by the HTTP handlers in
// its subpackages.
package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/galazzia/storefront-api/cart"
	"github.com/galazzia/storefront-api/checkout"
	"github.com/galazzia/storefront-api/models"
	"github.com/galazzia/storefront-api/repository"
	"github.com/gin-gonic/gin"
)

// Error writes err as a JSON error body with the matching status code.
// Unexpected errors are logged and reported generically.
func Error(c *gin.Context, err error) {
	var verr *checkout.ValidationError
	var stockErr *repository.StockError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "fields": verr.Fields})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{"error": stockErr.Error()})
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, cart.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrInvalidCoupon),
		errors.Is(err, cart.ErrCouponAlreadyApplied),
		errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidOrderStatus),
		errors.Is(err, models.ErrInvalidPaymentMethod),
		errors.Is(err, models.ErrInvalidShippingMethod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// BindError reports a request body that failed to bind.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
}
