package routes

import (
	"github.com/galazzia/storefront-api/auth"
	orderControllers "github.com/galazzia/storefront-api/controllers/order"
	"github.com/galazzia/storefront-api/middleware"
	"github.com/gin-gonic/gin"
)

func SetupOrderRoutes(r *gin.Engine, d Deps) {
	customer := r.Group("/orders", middleware.ValidateToken(d.Issuer), middleware.RequireRole(auth.RoleGuest))
	{
		// Mark as sent over WhatsApp and return the link
		customer.POST("/:id/whatsapp", orderControllers.SendWhatsapp(d.Orders, d.Checkout))
	}

	orders := r.Group("/admin/orders", middleware.ValidateToken(d.Issuer), middleware.RequireRole(auth.RoleAdmin))
	{
		orders.GET("", orderControllers.GetAllOrdersHandler(d.Orders))
		orders.GET("/unviewed-count", orderControllers.UnviewedCountHandler(d.Orders))
		orders.GET("/export", orderControllers.ExportOrdersCSVHandler(d.Orders))
		orders.POST("/viewed", orderControllers.MarkAllViewedHandler(d.Orders))

		// websocket feed of new orders (token in ?token=)
		orders.GET("/ws", d.Hub.OrderWebSocketHandler)

		orders.GET("/:id", orderControllers.GetOrderByIDHandler(d.Orders))
		orders.PUT("/:id/status", orderControllers.UpdateOrderStatusHandler(d.Orders))
		orders.PUT("/:id/whatsapp", orderControllers.UpdateWhatsappSentHandler(d.Orders))
		orders.PUT("/:id/notes", orderControllers.UpdateNotesHandler(d.Orders))
		orders.POST("/:id/viewed", orderControllers.MarkViewedHandler(d.Orders))
		orders.DELETE("/:id", orderControllers.DeleteOrderHandler(d.Orders))
	}
}
