package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/galazzia/storefront-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductFilter struct {
	Category   string
	Query      string
	Bestseller bool
	InStock    bool
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.Bestseller {
		q = q.Where("is_bestseller = ?", true)
	}
	if f.InStock {
		q = q.Where("stock > 0")
	}

	var products []models.Product
	if err := q.Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) Get(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	if p.Stock < 0 {
		p.Stock = 0
	}
	return r.db.WithContext(ctx).Create(p).Error
}

// Save writes every column of p. Last write wins.
func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	if p.Stock < 0 {
		p.Stock = 0
	}
	return r.db.WithContext(ctx).Save(p).Error
}

// SaveAll upserts a batch of products in one transaction.
func (r *ProductRepository) SaveAll(ctx context.Context, products []models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range products {
			if products[i].Stock < 0 {
				products[i].Stock = 0
			}
			if err := tx.Save(&products[i]).Error; err != nil {
				return fmt.Errorf("save product %q: %w", products[i].Name, err)
			}
		}
		return nil
	})
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStock overwrites the stock count, clamping negative values to zero.
func (r *ProductRepository) SetStock(ctx context.Context, id uint, stock int) (*models.Product, error) {
	if stock < 0 {
		stock = 0
	}
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("stock", stock)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

// BulkSetStock applies several stock values at once. Unknown ids fail the batch.
func (r *ProductRepository) BulkSetStock(ctx context.Context, stock map[uint]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, n := range stock {
			if n < 0 {
				n = 0
			}
			res := tx.Model(&models.Product{}).Where("id = ?", id).Update("stock", n)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product %d: %w", id, ErrNotFound)
			}
		}
		return nil
	})
}

// AdjustStock adds delta to the current stock under a row lock. The result
// never drops below zero.
func (r *ProductRepository) AdjustStock(ctx context.Context, id uint, delta int) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
			return notFound(err)
		}
		product.Stock += delta
		if product.Stock < 0 {
			product.Stock = 0
		}
		return tx.Model(&product).Update("stock", product.Stock).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) SetPrice(ctx context.Context, id uint, price decimal.Decimal) (*models.Product, error) {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("price", price)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Categories returns the distinct non-empty categories, sorted.
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("category <> ''").
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}
