package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/galazzia/storefront-api/controllers"
	"github.com/galazzia/storefront-api/models"
	"github.com/galazzia/storefront-api/repository"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// productView adds the computed sale price to a product.
type productView struct {
	models.Product
	FinalPrice    decimal.Decimal     `json:"final_price"`
	OriginalPrice decimal.NullDecimal `json:"original_price"`
}

func view(p models.Product) productView {
	return productView{Product: p, FinalPrice: p.FinalPrice(), OriginalPrice: p.OriginalPrice()}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return 0, false
	}
	return uint(id), true
}

// GET /products?category=&search=&bestseller=true&in_stock=true
func GetProducts(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := repository.ProductFilter{
			Category:   c.Query("category"),
			Query:      c.Query("search"),
			Bestseller: c.Query("bestseller") == "true",
			InStock:    c.Query("in_stock") == "true",
		}

		list, err := products.List(c.Request.Context(), filter)
		if err != nil {
			controllers.Error(c, err)
			return
		}

		views := make([]productView, 0, len(list))
		for _, p := range list {
			views = append(views, view(p))
		}
		c.JSON(http.StatusOK, gin.H{"products": views, "count": len(views)})
	}
}

// GET /products/:id
func GetProduct(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		p, err := products.Get(c.Request.Context(), id)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, view(*p))
	}
}

// GET /categories
func GetCategories(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := products.Categories(c.Request.Context())
		if err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}
