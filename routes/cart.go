package routes

import (
	"github.com/galazzia/storefront-api/auth"
	cartControllers "github.com/galazzia/storefront-api/controllers/cart"
	"github.com/galazzia/storefront-api/middleware"
	"github.com/gin-gonic/gin"
)

func SetupCartRoutes(r *gin.Engine, d Deps) {
	// Starts a cart session and returns its guest token
	r.POST("/cart", cartControllers.CreateCart(d.CartService, d.Issuer, d.Config.CartTTL))

	carts := r.Group("/cart", middleware.ValidateToken(d.Issuer), middleware.RequireRole(auth.RoleGuest))
	{
		carts.GET("", cartControllers.GetCart(d.CartService))
		carts.DELETE("", cartControllers.ClearCart(d.CartService))

		carts.POST("/items", cartControllers.AddItem(d.CartService))
		carts.PUT("/items", cartControllers.UpdateItem(d.CartService))
		carts.DELETE("/items", cartControllers.RemoveItem(d.CartService))

		carts.POST("/coupon", cartControllers.ApplyCoupon(d.CartService))
		carts.DELETE("/coupon", cartControllers.RemoveCoupon(d.CartService))

		carts.POST("/checkout", cartControllers.Checkout(d.Checkout))
	}
}
