package routes

import (
	contactController "github.com/galazzia/storefront-api/controllers/contact"
	notificationController "github.com/galazzia/storefront-api/controllers/notification"
	productcontroller "github.com/galazzia/storefront-api/controllers/product"
	"github.com/galazzia/storefront-api/middleware"
	"github.com/gin-gonic/gin"
)

func SetupStoreRoutes(r *gin.Engine, d Deps) {
	r.GET("/products", productcontroller.GetProducts(d.Products))
	r.GET("/products/:id", productcontroller.GetProduct(d.Products))
	r.GET("/categories", productcontroller.GetCategories(d.Products))

	r.POST("/contact", contactController.Contact(d.Settings))

	api := r.Group("/api", middleware.ValidateAPIKey(d.Config.NotifyAPIKey))
	{
		api.POST("/send-email", notificationController.SendEmail(d.Email, d.Config.NotifyTimeout))
		api.POST("/telegram-notification", notificationController.SendTelegram(d.Telegram, d.Config.NotifyTimeout))
	}
}
