package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/galazzia/storefront-api/models"
	"github.com/galazzia/storefront-api/orderid"
	"gorm.io/gorm"
)

// maxIDAttempts bounds the search for an unused order id.
const maxIDAttempts = 20

var ErrIDSpaceExhausted = errors.New("could not allocate an unused order id")

type OrderFilter struct {
	Status models.OrderStatus
	Query  string
}

type OrderRepository struct {
	db    *gorm.DB
	newID func() (string, error)
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db, newID: orderid.New}
}

// Create allocates an unused id, writes the order with its shipping info and
// items, and decrements product stock, all in one transaction. A line whose
// product lacks stock aborts the whole order with a *StockError.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := r.unusedID(tx)
		if err != nil {
			return err
		}
		order.ID = id
		if order.Status == "" {
			order.Status = models.OrderStatusPending
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, item := range order.Items {
			if item.ProductID == nil {
				continue
			}
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", *item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("decrement stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return &StockError{ProductID: *item.ProductID, Name: item.Name}
			}
		}
		return nil
	})
}

func (r *OrderRepository) unusedID(tx *gorm.DB) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id, err := r.newID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := tx.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}

// List returns orders newest first with their shipping info.
func (r *OrderRepository) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&models.Order{}).Preload("Shipping")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(f.Query)) + "%"
		matching := db.Model(&models.ShippingInfo{}).
			Select("order_id").
			Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
		q = q.Where("LOWER(id) LIKE ? OR id IN (?)", like, matching)
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Shipping").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return r.update(ctx, id, "status", status)
}

func (r *OrderRepository) SetWhatsappSent(ctx context.Context, id string, sent bool) error {
	return r.update(ctx, id, "whatsapp_sent", sent)
}

func (r *OrderRepository) SetNotes(ctx context.Context, id string, notes string) error {
	return r.update(ctx, id, "notes", notes)
}

// MarkViewed is idempotent: marking a viewed order again is not an error.
func (r *OrderRepository) MarkViewed(ctx context.Context, id string) error {
	return r.update(ctx, id, "viewed", true)
}

// MarkAllViewed flags every unviewed order and returns how many changed.
func (r *OrderRepository) MarkAllViewed(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("viewed = ?", false).
		Update("viewed", true)
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) CountUnviewed(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("viewed = ?", false).Count(&count).Error
	return count, err
}

func (r *OrderRepository) update(ctx context.Context, id, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the order together with its shipping info and items.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := deleteOrder(tx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func deleteOrder(tx *gorm.DB, id string) (int64, error) {
	if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("order_id = ?", id).Delete(&models.ShippingInfo{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id = ?", id).Delete(&models.Order{})
	return res.RowsAffected, res.Error
}

// All returns every order with its relations, oldest first.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Shipping").
		Preload("Items").
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// Restore writes the given orders, replacing any existing order with the
// same id. Status and methods are stored in canonical form; an unknown value
// rejects the whole batch. Stock is left untouched.
func (r *OrderRepository) Restore(ctx context.Context, orders []models.Order) (int, error) {
	for i := range orders {
		if err := normalizeOrder(&orders[i]); err != nil {
			return 0, err
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range orders {
			o := &orders[i]
			if o.ID == "" {
				return fmt.Errorf("order at position %d has no id", i)
			}
			if _, err := deleteOrder(tx, o.ID); err != nil {
				return err
			}
			if o.Shipping != nil {
				o.Shipping.ID = 0
				o.Shipping.OrderID = o.ID
			}
			for j := range o.Items {
				o.Items[j].ID = 0
				o.Items[j].OrderID = o.ID
			}
			if err := tx.Create(o).Error; err != nil {
				return fmt.Errorf("restore order %s: %w", o.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(orders), nil
}

func normalizeOrder(o *models.Order) error {
	status := models.OrderStatusPending
	if o.Status != "" {
		var err error
		if status, err = models.ParseOrderStatus(string(o.Status)); err != nil {
			return fmt.Errorf("order %s: %w", o.ID, err)
		}
	}
	payment, err := models.ParsePaymentMethod(string(o.PaymentMethod))
	if err != nil {
		return fmt.Errorf("order %s: %w", o.ID, err)
	}
	shipping, err := models.ParseShippingMethod(string(o.ShippingMethod))
	if err != nil {
		return fmt.Errorf("order %s: %w", o.ID, err)
	}
	o.Status, o.PaymentMethod, o.ShippingMethod = status, payment, shipping
	return nil
}
