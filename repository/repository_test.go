package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/galazzia/storefront-api/database/dbtest"
	"github.com/galazzia/storefront-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: decimal.NewFromInt(price), Stock: stock, Category: "vestidos"}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func newOrder(items ...models.OrderItem) *models.Order {
	return &models.Order{
		PaymentMethod:  models.PaymentMethodTransfer,
		ShippingMethod: models.ShippingMethodPickup,
		Subtotal:       decimal.NewFromInt(1000),
		ShippingCost:   decimal.Zero,
		Total:          decimal.NewFromInt(1000),
		Shipping:       &models.ShippingInfo{Name: "Lola", Email: "lola@example.com", Phone: "1150535668"},
		Items:          items,
	}
}

func line(p models.Product, qty int) models.OrderItem {
	id := p.ID
	return models.OrderItem{ProductID: &id, Name: p.Name, Price: p.Price, Quantity: qty}
}

func TestOrderCreateDecrementsStock(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	orders := NewOrderRepository(db)
	products := NewProductRepository(db)

	dress := seedProduct(t, db, "Vestido Lila", 45000, 5)
	top := seedProduct(t, db, "Top Rosa", 65000, 3)

	order := newOrder(line(dress, 1), line(top, 2))
	require.NoError(t, orders.Create(ctx, order))
	assert.Len(t, order.ID, 5)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	got, err := products.Get(ctx, dress.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Stock)
	got, err = products.Get(ctx, top.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)

	stored, err := orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Shipping)
	assert.Equal(t, "Lola", stored.Shipping.Name)
	assert.Len(t, stored.Items, 2)
	assert.False(t, stored.Viewed)
}

func TestOrderCreateRollsBackOnInsufficientStock(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	orders := NewOrderRepository(db)

	dress := seedProduct(t, db, "Vestido Lila", 45000, 5)
	top := seedProduct(t, db, "Top Rosa", 65000, 1)

	err := orders.Create(ctx, newOrder(line(dress, 2), line(top, 2)))
	require.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "insufficient stock for product: Top Rosa", stockErr.Error())

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&count).Error)
	assert.Zero(t, count)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, dress.ID).Error)
	assert.Equal(t, 5, reloaded.Stock)
}

func TestOrderCreateRetriesTakenID(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	orders := NewOrderRepository(db)

	ids := []string{"ABC12", "ABC12", "XYZ99"}
	orders.newID = func() (string, error) {
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}

	first := newOrder()
	require.NoError(t, orders.Create(ctx, first))
	second := newOrder()
	require.NoError(t, orders.Create(ctx, second))

	assert.Equal(t, "ABC12", first.ID)
	assert.Equal(t, "XYZ99", second.ID)
}

func TestConcurrentOrdersForLastUnit(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	orders := NewOrderRepository(db)
	last := seedProduct(t, db, "Bolso", 30000, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = orders.Create(ctx, newOrder(line(last, 1)))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, succeeded)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, last.ID).Error)
	assert.Equal(t, 0, reloaded.Stock)
}

func TestOrderListFilters(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	orders := NewOrderRepository(db)

	a := newOrder()
	require.NoError(t, orders.Create(ctx, a))
	b := newOrder()
	b.Shipping = &models.ShippingInfo{Name: "Martina Gómez", Email: "martina@example.com", Phone: "1199998888"}
	require.NoError(t, orders.Create(ctx, b))
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", a.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)
	require.NoError(t, orders.UpdateStatus(ctx, b.ID, models.OrderStatusShipped))

	all, err := orders.List(ctx, OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID, "newest first")

	shipped, err := orders.List(ctx, OrderFilter{Status: models.OrderStatusShipped})
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	assert.Equal(t, b.ID, shipped[0].ID)

	byName, err := orders.List(ctx, OrderFilter{Query: "MARTINA"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, b.ID, byName[0].ID)

	byID, err := orders.List(ctx, OrderFilter{Query: a.ID})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, a.ID, byID[0].ID)
}

func TestOrderViewedFlags(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	orders := NewOrderRepository(db)

	a, b := newOrder(), newOrder()
	require.NoError(t, orders.Create(ctx, a))
	require.NoError(t, orders.Create(ctx, b))

	n, err := orders.CountUnviewed(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, orders.MarkViewed(ctx, a.ID))
	require.NoError(t, orders.MarkViewed(ctx, a.ID))
	n, err = orders.CountUnviewed(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	changed, err := orders.MarkAllViewed(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)
	changed, err = orders.MarkAllViewed(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)

	assert.ErrorIs(t, orders.MarkViewed(ctx, "NOP10"), ErrNotFound)
}

func TestOrderMutationsAndDelete(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	orders := NewOrderRepository(db)
	dress := seedProduct(t, db, "Vestido", 45000, 2)

	o := newOrder(line(dress, 1))
	require.NoError(t, orders.Create(ctx, o))
	require.NoError(t, orders.SetNotes(ctx, o.ID, "entregar después de las 18"))
	require.NoError(t, orders.SetWhatsappSent(ctx, o.ID, true))

	got, err := orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "entregar después de las 18", got.Notes)
	assert.True(t, got.WhatsappSent)

	require.NoError(t, orders.Delete(ctx, o.ID))
	_, err = orders.Get(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, orders.Delete(ctx, o.ID), ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.ShippingInfo{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderRestoreReplacesByID(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	orders := NewOrderRepository(db)
	dress := seedProduct(t, db, "Vestido", 45000, 5)

	o := newOrder(line(dress, 1))
	require.NoError(t, orders.Create(ctx, o))

	snapshot, err := orders.All(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	snapshot[0].Notes = "restaurado"

	n, err := orders.Restore(ctx, snapshot)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "restaurado", got.Notes)
	assert.Len(t, got.Items, 1)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, dress.ID).Error)
	assert.Equal(t, 4, reloaded.Stock)
}

func TestOrderRestoreStoresCanonicalNames(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	orders := NewOrderRepository(db)

	legacy := newOrder()
	legacy.ID = "ABC12"
	legacy.Status = "pendiente"
	legacy.PaymentMethod = "efectivo"
	legacy.ShippingMethod = "retiro"

	processing := newOrder()
	processing.ID = "DEF34"
	processing.Status = "processing"

	_, err := orders.Restore(ctx, []models.Order{*legacy, *processing})
	require.NoError(t, err)

	pending, err := orders.List(ctx, OrderFilter{Status: models.OrderStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "ABC12", pending[0].ID)
	assert.Equal(t, models.PaymentMethodCash, pending[0].PaymentMethod)
	assert.Equal(t, models.ShippingMethodPickup, pending[0].ShippingMethod)

	got, err := orders.Get(ctx, "DEF34")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, got.Status)
}

func TestOrderRestoreRejectsUnknownValues(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	orders := NewOrderRepository(db)

	good := newOrder()
	good.ID = "ABC12"
	bogus := newOrder()
	bogus.ID = "XYZ99"
	bogus.PaymentMethod = "bogus"

	_, err := orders.Restore(ctx, []models.Order{*good, *bogus})
	assert.ErrorIs(t, err, models.ErrInvalidPaymentMethod)

	bogus.PaymentMethod = models.PaymentMethodCash
	bogus.Status = "lost"
	_, err = orders.Restore(ctx, []models.Order{*bogus})
	assert.ErrorIs(t, err, models.ErrInvalidOrderStatus)

	all, err := orders.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProductStockEdits(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	products := NewProductRepository(db)
	p := seedProduct(t, db, "Falda", 20000, 3)

	got, err := products.SetStock(ctx, p.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	got, err = products.AdjustStock(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)

	got, err = products.AdjustStock(ctx, p.ID, -9)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	_, err = products.AdjustStock(ctx, 999, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = products.SetPrice(ctx, p.ID, decimal.NewFromInt(25000))
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(25000)))

	other := seedProduct(t, db, "Blusa", 15000, 1)
	require.NoError(t, products.BulkSetStock(ctx, map[uint]int{p.ID: 7, other.ID: -1}))
	got, err = products.Get(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	assert.ErrorIs(t, products.BulkSetStock(ctx, map[uint]int{12345: 1}), ErrNotFound)
}

func TestProductListAndCategories(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	products := NewProductRepository(db)

	seedProduct(t, db, "Vestido Lila", 45000, 2)
	out := models.Product{Name: "Top Negro", Price: decimal.NewFromInt(10000), Category: "tops", IsBestseller: true}
	require.NoError(t, products.Create(ctx, &out))

	all, err := products.List(ctx, ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inStock, err := products.List(ctx, ProductFilter{InStock: true})
	require.NoError(t, err)
	require.Len(t, inStock, 1)
	assert.Equal(t, "Vestido Lila", inStock[0].Name)

	best, err := products.List(ctx, ProductFilter{Bestseller: true, Query: "negro"})
	require.NoError(t, err)
	require.Len(t, best, 1)

	cats, err := products.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tops", "vestidos"}, cats)

	require.NoError(t, products.Delete(ctx, out.ID))
	_, err = products.Get(ctx, out.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartSaveReplacesItems(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	carts := NewCartRepository(db)

	cart := &models.Cart{ID: "guest_1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, carts.Create(ctx, cart))

	cart.Items = []models.CartItem{
		{ProductID: 1, Name: "Vestido", Price: decimal.NewFromInt(45000), Quantity: 1, Color: "lila", Size: "M"},
		{ProductID: 2, Name: "Top", Price: decimal.NewFromInt(65000), Quantity: 2},
	}
	cart.CouponCode = "GALAZZIALOLITA"
	require.NoError(t, carts.Save(ctx, cart))

	cart.Items = cart.Items[1:]
	require.NoError(t, carts.Save(ctx, cart))

	got, err := carts.Get(ctx, "guest_1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Top", got.Items[0].Name)
	assert.Equal(t, "GALAZZIALOLITA", got.CouponCode)

	require.NoError(t, carts.Delete(ctx, "guest_1"))
	_, err = carts.Get(ctx, "guest_1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartExpiry(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	carts := NewCartRepository(db)

	require.NoError(t, carts.Create(ctx, &models.Cart{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, carts.Create(ctx, &models.Cart{ID: "fresh", ExpiresAt: time.Now().Add(time.Hour)}))

	_, err := carts.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := carts.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = carts.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestSettingsDefaultsAndUpsert(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	settings := NewSettingRepository(db, models.Setting{WhatsappNumber: "+5491150535668"})

	s, err := settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "+5491150535668", s.WhatsappNumber)

	require.NoError(t, settings.Save(ctx, &models.Setting{WhatsappNumber: "+5491100000000", TelegramChatID: "42"}))
	require.NoError(t, settings.Save(ctx, &models.Setting{WhatsappNumber: "+5491111111111", TelegramChatID: "43"}))

	s, err = settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "+5491111111111", s.WhatsappNumber)
	assert.Equal(t, "43", s.TelegramChatID)
}
