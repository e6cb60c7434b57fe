package routes

import (
	"github.com/galazzia/storefront-api/auth"
	adminController "github.com/galazzia/storefront-api/controllers/admin"
	productcontroller "github.com/galazzia/storefront-api/controllers/product"
	"github.com/galazzia/storefront-api/middleware"
	"github.com/gin-gonic/gin"
)

func SetupAdminRoutes(r *gin.Engine, d Deps) {
	r.POST("/admin/login", adminController.Login(d.AdminPassword, d.Issuer, d.Config.AdminSessionTTL))

	admin := r.Group("/admin", middleware.ValidateToken(d.Issuer), middleware.RequireRole(auth.RoleAdmin))
	{
		// Products
		admin.GET("/products", productcontroller.GetProducts(d.Products))
		admin.POST("/products", productcontroller.CreateProduct(d.Products))
		admin.PUT("/products/stock", productcontroller.BulkSetStock(d.Products))
		admin.GET("/products/export", productcontroller.ExportProductsToExcel(d.Products))
		admin.POST("/products/import", productcontroller.ImportProductsFromExcel(d.Products))
		admin.PUT("/products/:id", productcontroller.UpdateProduct(d.Products))
		admin.DELETE("/products/:id", productcontroller.DeleteProduct(d.Products))
		admin.PUT("/products/:id/stock", productcontroller.SetStock(d.Products))
		admin.POST("/products/:id/stock/adjust", productcontroller.AdjustStock(d.Products))
		admin.PUT("/products/:id/price", productcontroller.SetPrice(d.Products))

		// Settings
		admin.GET("/settings", adminController.GetSettings(d.Settings))
		admin.PUT("/settings", adminController.UpdateSettings(d.Settings))

		// Backups
		admin.GET("/backup", adminController.DownloadBackup(d.Orders))
		admin.POST("/backup/restore", adminController.RestoreBackup(d.Orders))
	}
}
