package orderControllers

import (
	"net/http"

	"github.com/galazzia/storefront-api/checkout"
	"github.com/galazzia/storefront-api/controllers"
	"github.com/galazzia/storefront-api/middleware"
	"github.com/galazzia/storefront-api/models"
	"github.com/galazzia/storefront-api/repository"
	"github.com/gin-gonic/gin"
)

// -------- Request Structs --------
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdateWhatsappRequest struct {
	WhatsappSent *bool `json:"whatsapp_sent" binding:"required"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// -------- Customer --------

// POST /orders/:id/whatsapp
// Marks the order as sent over WhatsApp and returns the link again. Only the
// cart session that placed the order may call it.
func SendWhatsapp(orders *repository.OrderRepository, svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		order, err := orders.Get(ctx, c.Param("id"))
		if err != nil {
			controllers.Error(c, err)
			return
		}
		if order.CartID != middleware.CartID(c) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		if err := orders.SetWhatsappSent(ctx, order.ID, true); err != nil {
			controllers.Error(c, err)
			return
		}
		order.WhatsappSent = true
		c.JSON(http.StatusOK, gin.H{"order_id": order.ID, "whatsapp_url": svc.WhatsappLink(ctx, order)})
	}
}

// -------- Admin --------

// GET /admin/orders?status=&q=
func GetAllOrdersHandler(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter repository.OrderFilter
		if s := c.Query("status"); s != "" && s != "all" {
			status, err := models.ParseOrderStatus(s)
			if err != nil {
				controllers.Error(c, err)
				return
			}
			filter.Status = status
		}
		filter.Query = c.Query("q")

		list, err := orders.List(c.Request.Context(), filter)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list, "count": len(list)})
	}
}

// GET /admin/orders/:id
// Opening an order marks it viewed.
func GetOrderByIDHandler(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		order, err := orders.Get(ctx, c.Param("id"))
		if err != nil {
			controllers.Error(c, err)
			return
		}
		if !order.Viewed {
			if err := orders.MarkViewed(ctx, order.ID); err != nil {
				controllers.Error(c, err)
				return
			}
			order.Viewed = true
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /admin/orders/:id/status
func UpdateOrderStatusHandler(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.BindError(c, err)
			return
		}
		status, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		if err := orders.UpdateStatus(c.Request.Context(), c.Param("id"), status); err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "status": status})
	}
}

// PUT /admin/orders/:id/whatsapp
func UpdateWhatsappSentHandler(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateWhatsappRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.BindError(c, err)
			return
		}
		if err := orders.SetWhatsappSent(c.Request.Context(), c.Param("id"), *req.WhatsappSent); err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "WhatsApp flag updated", "whatsapp_sent": *req.WhatsappSent})
	}
}

// PUT /admin/orders/:id/notes
func UpdateNotesHandler(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateNotesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.BindError(c, err)
			return
		}
		if err := orders.SetNotes(c.Request.Context(), c.Param("id"), req.Notes); err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Notes updated"})
	}
}

// POST /admin/orders/:id/viewed
func MarkViewedHandler(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := orders.MarkViewed(c.Request.Context(), c.Param("id")); err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order marked as viewed"})
	}
}

// POST /admin/orders/viewed
func MarkAllViewedHandler(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := orders.MarkAllViewed(c.Request.Context())
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "All orders marked as viewed", "updated": n})
	}
}

// GET /admin/orders/unviewed-count
func UnviewedCountHandler(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := orders.CountUnviewed(c.Request.Context())
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": n})
	}
}

// DELETE /admin/orders/:id
func DeleteOrderHandler(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
	}
}
