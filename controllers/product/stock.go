package productcontroller

import (
	"net/http"

	"github.com/galazzia/storefront-api/controllers"
	"github.com/galazzia/storefront-api/repository"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SetStockRequest struct {
	Stock *int `json:"stock" binding:"required"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type BulkStockRequest struct {
	Items []struct {
		ID    uint `json:"id" binding:"required"`
		Stock int  `json:"stock"`
	} `json:"items" binding:"required,min=1,dive"`
}

type SetPriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

// PUT /admin/products/:id/stock
// Negative values are stored as zero.
func SetStock(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req SetStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.BindError(c, err)
			return
		}

		p, err := products.SetStock(c.Request.Context(), id, *req.Stock)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, view(*p))
	}
}

// POST /admin/products/:id/stock/adjust
func AdjustStock(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req AdjustStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.BindError(c, err)
			return
		}

		p, err := products.AdjustStock(c.Request.Context(), id, req.Delta)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, view(*p))
	}
}

// PUT /admin/products/stock
func BulkSetStock(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BulkStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.BindError(c, err)
			return
		}

		stock := make(map[uint]int, len(req.Items))
		for _, it := range req.Items {
			stock[it.ID] = it.Stock
		}
		if err := products.BulkSetStock(c.Request.Context(), stock); err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Stock updated", "updated": len(stock)})
	}
}

// PUT /admin/products/:id/price
func SetPrice(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req SetPriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.BindError(c, err)
			return
		}
		if !req.Price.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "fields": []string{"price"}})
			return
		}

		p, err := products.SetPrice(c.Request.Context(), id, req.Price)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, view(*p))
	}
}
