package productcontroller

import (
	"net/http"

	"github.com/galazzia/storefront-api/controllers"
	"github.com/galazzia/storefront-api/models"
	"github.com/galazzia/storefront-api/repository"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Discount     int             `json:"discount" binding:"min=0,max=100"`
	Image        string          `json:"image"`
	Category     string          `json:"category"`
	Color        string          `json:"color"`
	IsBestseller bool            `json:"is_bestseller"`
	Stock        int             `json:"stock" binding:"min=0"`
}

func (in ProductInput) apply(p *models.Product) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Discount = in.Discount
	p.Image = in.Image
	p.Category = in.Category
	p.Color = in.Color
	p.IsBestseller = in.IsBestseller
	p.Stock = in.Stock
}

func bindProduct(c *gin.Context) (ProductInput, bool) {
	var in ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		controllers.BindError(c, err)
		return in, false
	}
	if !in.Price.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "fields": []string{"price"}})
		return in, false
	}
	return in, true
}

// POST /admin/products
func CreateProduct(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, ok := bindProduct(c)
		if !ok {
			return
		}

		var p models.Product
		in.apply(&p)
		if err := products.Create(c.Request.Context(), &p); err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, view(p))
	}
}

// PUT /admin/products/:id
func UpdateProduct(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		in, ok := bindProduct(c)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		p, err := products.Get(ctx, id)
		if err != nil {
			controllers.Error(c, err)
			return
		}
		in.apply(p)
		if err := products.Save(ctx, p); err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, view(*p))
	}
}

// DELETE /admin/products/:id
func DeleteProduct(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := products.Delete(c.Request.Context(), id); err != nil {
			controllers.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
