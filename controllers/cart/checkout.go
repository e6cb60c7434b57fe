package cartControllers

import (
	"net/http"

	"github.com/galazzia/storefront-api/checkout"
	"github.com/galazzia/storefront-api/controllers"
	"github.com/galazzia/storefront-api/middleware"
	"github.com/gin-gonic/gin"
)

// POST /cart/checkout
func Checkout(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkout.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.BindError(c, err)
			return
		}

		res, err := svc.PlaceOrder(c.Request.Context(), middleware.CartID(c), req)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}
