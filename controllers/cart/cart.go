package cartControllers

import (
	"net/http"
	"time"

	"github.com/galazzia/storefront-api/auth"
	"github.com/galazzia/storefront-api/cart"
	"github.com/galazzia/storefront-api/controllers"
	"github.com/galazzia/storefront-api/middleware"
	"github.com/galazzia/storefront-api/models"
	"github.com/gin-gonic/gin"
)

type UpdateItemInput struct {
	cart.Key
	Quantity int `json:"quantity"`
}

type CouponInput struct {
	Code string `json:"code" binding:"required"`
}

func cartResponse(crt *models.Cart) gin.H {
	return gin.H{
		"cart":    crt,
		"summary": cart.Summarize(crt),
	}
}

// POST /cart
func CreateCart(carts *cart.Service, issuer *auth.TokenIssuer, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		crt, err := carts.Create(c.Request.Context())
		if err != nil {
			controllers.Error(c, err)
			return
		}

		token, expiresAt, err := issuer.IssueGuest(crt.ID, ttl)
		if err != nil {
			controllers.Error(c, err)
			return
		}

		resp := cartResponse(crt)
		resp["cart_id"] = crt.ID
		resp["token"] = token
		resp["expires_at"] = expiresAt
		c.JSON(http.StatusCreated, resp)
	}
}

// GET /cart
func GetCart(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		crt, err := carts.Get(c.Request.Context(), middleware.CartID(c))
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(crt))
	}
}

// POST /cart/items
func AddItem(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input cart.AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.BindError(c, err)
			return
		}

		crt, added, err := carts.AddItem(c.Request.Context(), middleware.CartID(c), input)
		if err != nil {
			controllers.Error(c, err)
			return
		}

		resp := cartResponse(crt)
		resp["last_added"] = added
		c.JSON(http.StatusOK, resp)
	}
}

// PUT /cart/items
func UpdateItem(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.BindError(c, err)
			return
		}

		crt, err := carts.UpdateQuantity(c.Request.Context(), middleware.CartID(c), input.Key, input.Quantity)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(crt))
	}
}

// DELETE /cart/items?product_id=&color=&size=
func RemoveItem(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var key cart.Key
		if err := c.ShouldBindQuery(&key); err != nil {
			controllers.BindError(c, err)
			return
		}

		crt, err := carts.RemoveItem(c.Request.Context(), middleware.CartID(c), key)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(crt))
	}
}

// DELETE /cart
func ClearCart(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		crt, err := carts.Clear(c.Request.Context(), middleware.CartID(c))
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(crt))
	}
}

// POST /cart/coupon
func ApplyCoupon(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CouponInput
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.BindError(c, err)
			return
		}

		crt, err := carts.ApplyCoupon(c.Request.Context(), middleware.CartID(c), input.Code)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(crt))
	}
}

// DELETE /cart/coupon
func RemoveCoupon(carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		crt, err := carts.RemoveCoupon(c.Request.Context(), middleware.CartID(c))
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(crt))
	}
}
