package notificationController

import (
	"context"
	"net/http"
	"time"

	"github.com/galazzia/storefront-api/models"
	"github.com/galazzia/storefront-api/notify"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SendEmailRequest struct {
	Email         string           `json:"email" binding:"required,email"`
	OrderNumber   string           `json:"orderNumber" binding:"required"`
	Items         []notify.Item    `json:"items" binding:"required,dive"`
	Total         *decimal.Decimal `json:"total" binding:"required"`
	PaymentMethod string           `json:"paymentMethod"`
}

type TelegramRequest struct {
	OrderNumber    string           `json:"orderNumber" binding:"required"`
	CustomerName   string           `json:"customerName"`
	Email          string           `json:"email" binding:"required"`
	Total          *decimal.Decimal `json:"total" binding:"required"`
	PaymentMethod  string           `json:"paymentMethod"`
	ShippingMethod string           `json:"shippingMethod"`
}

// Unknown methods fall back to cash and pickup, matching the storefront.
func paymentOrCash(s string) models.PaymentMethod {
	if m, err := models.ParsePaymentMethod(s); err == nil {
		return m
	}
	return models.PaymentMethodCash
}

func shippingOrPickup(s string) models.ShippingMethod {
	if m, err := models.ParseShippingMethod(s); err == nil {
		return m
	}
	return models.ShippingMethodPickup
}

func respond(c *gin.Context, res notify.Result, err error) {
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "preview": res.Preview})
}

// POST /api/send-email
func SendEmail(notifier notify.Notifier, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Incomplete data to send the e-mail"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		res, err := notifier.NotifyOrder(ctx, notify.OrderNotification{
			OrderNumber:   req.OrderNumber,
			Email:         req.Email,
			Items:         req.Items,
			Total:         *req.Total,
			PaymentMethod: paymentOrCash(req.PaymentMethod),
		})
		respond(c, res, err)
	}
}

// POST /api/telegram-notification
func SendTelegram(notifier notify.Notifier, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TelegramRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Incomplete data to send the notification"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		res, err := notifier.NotifyOrder(ctx, notify.OrderNotification{
			OrderNumber:    req.OrderNumber,
			CustomerName:   req.CustomerName,
			Email:          req.Email,
			Total:          *req.Total,
			PaymentMethod:  paymentOrCash(req.PaymentMethod),
			ShippingMethod: shippingOrPickup(req.ShippingMethod),
		})
		respond(c, res, err)
	}
}
