package checkout

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/galazzia/storefront-api/cart"
	"github.com/galazzia/storefront-api/database/dbtest"
	"github.com/galazzia/storefront-api/models"
	"github.com/galazzia/storefront-api/notify"
	"github.com/galazzia/storefront-api/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []notify.OrderNotification
}

func (f *fakeDispatcher) Dispatch(n notify.OrderNotification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	orders []string
}

func (f *fakeBroadcaster) BroadcastOrder(o *models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, o.ID)
}

type fixture struct {
	db          *gorm.DB
	carts       *cart.Service
	svc         *Service
	dispatcher  *fakeDispatcher
	broadcaster *fakeBroadcaster
	dress, top  *models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	f := &fixture{db: db, dispatcher: &fakeDispatcher{}, broadcaster: &fakeBroadcaster{}}

	f.dress = &models.Product{Name: "Vestido Lila", Price: decimal.NewFromInt(45000), Stock: 5}
	f.top = &models.Product{Name: "Top Rosa", Price: decimal.NewFromInt(65000), Stock: 4}
	require.NoError(t, db.Create(f.dress).Error)
	require.NoError(t, db.Create(f.top).Error)

	products := repository.NewProductRepository(db)
	f.carts = cart.NewService(repository.NewCartRepository(db), products, time.Hour, true)
	f.svc = NewService(Options{
		Carts:          f.carts,
		Products:       products,
		Orders:         repository.NewOrderRepository(db),
		Settings:       repository.NewSettingRepository(db, models.Setting{}),
		Notifier:       f.dispatcher,
		Broadcaster:    f.broadcaster,
		ShippingCost:   decimal.NewFromInt(2000),
		WhatsappNumber: "+54 9 11 5053-5668",
	})
	return f
}

func (f *fixture) cartWith(t *testing.T, lines map[*models.Product]int) string {
	t.Helper()
	c, err := f.carts.Create(context.Background())
	require.NoError(t, err)
	for p, qty := range lines {
		_, _, err := f.carts.AddItem(context.Background(), c.ID, cart.AddItemInput{ProductID: p.ID, Quantity: qty})
		require.NoError(t, err)
	}
	return c.ID
}

func deliveryRequest() Request {
	return Request{
		Name:           "Lola",
		Email:          "lola@example.com",
		Phone:          "1150535668",
		Address:        "Av. Corrientes 1234",
		City:           "CABA",
		Province:       "Buenos Aires",
		PostalCode:     "1043",
		PaymentMethod:  "transferencia",
		ShippingMethod: "envio",
	}
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.Stock
}

func TestPlaceOrderWorkedExample(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cartID := f.cartWith(t, map[*models.Product]int{f.dress: 1, f.top: 2})

	res, err := f.svc.PlaceOrder(ctx, cartID, deliveryRequest())
	require.NoError(t, err)

	o := res.Order
	assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(175000)), o.Subtotal.String())
	assert.True(t, o.ShippingCost.Equal(decimal.NewFromInt(2000)))
	assert.True(t, o.Total.Equal(decimal.NewFromInt(177000)), o.Total.String())
	assert.Equal(t, models.PaymentMethodTransfer, o.PaymentMethod)
	assert.Equal(t, models.ShippingMethodDelivery, o.ShippingMethod)
	assert.Equal(t, models.OrderStatusPending, o.Status)

	assert.Equal(t, 4, stockOf(t, f.db, f.dress.ID))
	assert.Equal(t, 2, stockOf(t, f.db, f.top.ID))

	assert.True(t, strings.HasPrefix(res.WhatsappURL, "https://wa.me/5491150535668?text="))
	u, err := url.Parse(res.WhatsappURL)
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("text"), "(Nº "+o.ID+")")

	assert.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, []string{o.ID}, f.broadcaster.orders)

	c, err := f.carts.Get(ctx, cartID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestPlaceOrderPickupHasNoShippingCostOrAddress(t *testing.T) {
	f := newFixture(t)
	cartID := f.cartWith(t, map[*models.Product]int{f.dress: 2})

	req := deliveryRequest()
	req.ShippingMethod = "retiro"
	req.PaymentMethod = "efectivo"
	res, err := f.svc.PlaceOrder(context.Background(), cartID, req)
	require.NoError(t, err)

	assert.True(t, res.Order.ShippingCost.IsZero())
	assert.True(t, res.Order.Total.Equal(decimal.NewFromInt(90000)))
	assert.Empty(t, res.Order.Shipping.Address)
	assert.Equal(t, models.PaymentMethodCash, res.Order.PaymentMethod)
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newFixture(t)
	cartID := f.cartWith(t, map[*models.Product]int{f.dress: 1})

	req := deliveryRequest()
	req.Email = "not-an-email"
	req.City = ""
	req.PaymentMethod = "bitcoin"

	_, err := f.svc.PlaceOrder(context.Background(), cartID, req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"email", "payment_method", "city"}, verr.Fields)
	assert.Equal(t, 5, stockOf(t, f.db, f.dress.ID))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newFixture(t)
	c, err := f.carts.Create(context.Background())
	require.NoError(t, err)

	_, err = f.svc.PlaceOrder(context.Background(), c.ID, deliveryRequest())
	assert.ErrorIs(t, err, cart.ErrEmptyCart)
}

func TestPlaceOrderInsufficientStockWritesNothing(t *testing.T) {
	f := newFixture(t)
	cartID := f.cartWith(t, map[*models.Product]int{f.dress: 3})
	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", f.dress.ID).Update("stock", 2).Error)

	_, err := f.svc.PlaceOrder(context.Background(), cartID, deliveryRequest())
	require.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.EqualError(t, err, "insufficient stock for product: Vestido Lila")

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, 2, stockOf(t, f.db, f.dress.ID))
	assert.Empty(t, f.dispatcher.sent)

	c, err := f.carts.Get(context.Background(), cartID)
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
}

func TestConcurrentCheckoutForLastUnit(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", f.top.ID).Update("stock", 1).Error)
	first := f.cartWith(t, map[*models.Product]int{f.top: 1})
	second := f.cartWith(t, map[*models.Product]int{f.top: 1})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{first, second} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.svc.PlaceOrder(context.Background(), id, deliveryRequest())
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, stockOf(t, f.db, f.top.ID))
}

func TestWhatsappLinkPrefersStoredSetting(t *testing.T) {
	f := newFixture(t)
	settings := repository.NewSettingRepository(f.db, models.Setting{})
	require.NoError(t, settings.Save(context.Background(), &models.Setting{WhatsappNumber: "+54 11 2222-3333"}))

	link := f.svc.WhatsappLink(context.Background(), &models.Order{ID: "ABC12"})
	assert.True(t, strings.HasPrefix(link, "https://wa.me/541122223333?text="))
}
