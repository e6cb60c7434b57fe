// Package checkout turns a cart into a persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"github.com/galazzia/storefront-api/cart"
	"github.com/galazzia/storefront-api/models"
	"github.com/galazzia/storefront-api/notify"
	"github.com/galazzia/storefront-api/repository"
	"github.com/galazzia/storefront-api/whatsapp"
	"github.com/shopspring/decimal"
)

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid checkout request: " + strings.Join(e.Fields, ", ")
}

type Request struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	Province       string `json:"province"`
	PostalCode     string `json:"postal_code"`
	PaymentMethod  string `json:"payment_method"`
	ShippingMethod string `json:"shipping_method"`
	Notes          string `json:"notes"`
}

type Result struct {
	Order       *models.Order `json:"order"`
	WhatsappURL string        `json:"whatsapp_url"`
}

type Carts interface {
	Get(ctx context.Context, id string) (*models.Cart, error)
	Clear(ctx context.Context, id string) (*models.Cart, error)
}

type Products interface {
	Get(ctx context.Context, id uint) (*models.Product, error)
}

type Orders interface {
	Create(ctx context.Context, order *models.Order) error
}

type Settings interface {
	Get(ctx context.Context) (models.Setting, error)
}

type Dispatcher interface {
	Dispatch(n notify.OrderNotification)
}

// Broadcaster receives every newly placed order.
type Broadcaster interface {
	BroadcastOrder(order *models.Order)
}

type Service struct {
	carts        Carts
	products     Products
	orders       Orders
	settings     Settings
	notifier     Dispatcher
	broadcaster  Broadcaster
	shippingCost decimal.Decimal
	fallbackWA   string
}

type Options struct {
	Carts          Carts
	Products       Products
	Orders         Orders
	Settings       Settings
	Notifier       Dispatcher
	Broadcaster    Broadcaster
	ShippingCost   decimal.Decimal
	WhatsappNumber string
}

func NewService(o Options) *Service {
	return &Service{
		carts:        o.Carts,
		products:     o.Products,
		orders:       o.Orders,
		settings:     o.Settings,
		notifier:     o.Notifier,
		broadcaster:  o.Broadcaster,
		shippingCost: o.ShippingCost,
		fallbackWA:   o.WhatsappNumber,
	}
}

// ShippingCost returns the shipping charge for method.
func (s *Service) ShippingCost(method models.ShippingMethod) decimal.Decimal {
	if method == models.ShippingMethodDelivery {
		return s.shippingCost
	}
	return decimal.Zero
}

// PlaceOrder validates the request, writes the order and decrements stock in
// one transaction, then notifies and clears the cart.
func (s *Service) PlaceOrder(ctx context.Context, cartID string, req Request) (*Result, error) {
	payment, shipping, err := validate(req)
	if err != nil {
		return nil, err
	}

	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, cart.ErrEmptyCart
	}
	if err := s.checkStock(ctx, c.Items); err != nil {
		return nil, err
	}

	order := BuildOrder(c.Items, req, payment, shipping, s.ShippingCost(shipping))
	order.CartID = cartID
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	log.Printf("🛒 Order %s placed: %d items, total %s", order.ID, len(order.Items), order.Total.StringFixed(2))

	if s.broadcaster != nil {
		s.broadcaster.BroadcastOrder(order)
	}
	if s.notifier != nil {
		s.notifier.Dispatch(notify.FromOrder(order))
	}
	if _, err := s.carts.Clear(ctx, cartID); err != nil {
		log.Printf("⚠️ Failed to clear cart %s after order %s: %v", cartID, order.ID, err)
	}

	return &Result{Order: order, WhatsappURL: s.WhatsappLink(ctx, order)}, nil
}

// WhatsappLink builds the customer confirmation link for order using the
// configured store number.
func (s *Service) WhatsappLink(ctx context.Context, order *models.Order) string {
	number := s.fallbackWA
	if s.settings != nil {
		if st, err := s.settings.Get(ctx); err != nil {
			log.Printf("⚠️ Failed to load settings, using default WhatsApp number: %v", err)
		} else if st.WhatsappNumber != "" {
			number = st.WhatsappNumber
		}
	}
	return whatsapp.Link(number, whatsapp.OrderMessage(order))
}

// checkStock compares the quantity ordered per product with current stock.
// The order transaction re-checks atomically.
func (s *Service) checkStock(ctx context.Context, items []models.CartItem) error {
	wanted := map[uint]int{}
	var order []uint
	for _, it := range items {
		if _, seen := wanted[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		wanted[it.ProductID] += it.Quantity
	}

	for _, id := range order {
		p, err := s.products.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("product %d is no longer available: %w", id, repository.ErrNotFound)
		}
		if err != nil {
			return err
		}
		if p.Stock < wanted[id] {
			return &repository.StockError{ProductID: p.ID, Name: p.Name}
		}
	}
	return nil
}

// BuildOrder snapshots cart lines into an unsaved order.
func BuildOrder(items []models.CartItem, req Request, payment models.PaymentMethod, shipping models.ShippingMethod, shippingCost decimal.Decimal) *models.Order {
	subtotal := cart.Subtotal(items)

	info := &models.ShippingInfo{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone),
	}
	if shipping == models.ShippingMethodDelivery {
		info.Address = strings.TrimSpace(req.Address)
		info.City = strings.TrimSpace(req.City)
		info.Province = strings.TrimSpace(req.Province)
		info.PostalCode = strings.TrimSpace(req.PostalCode)
	}

	order := &models.Order{
		Status:         models.OrderStatusPending,
		PaymentMethod:  payment,
		ShippingMethod: shipping,
		Subtotal:       subtotal,
		ShippingCost:   shippingCost,
		Total:          subtotal.Add(shippingCost),
		Notes:          strings.TrimSpace(req.Notes),
		Shipping:       info,
	}
	for _, it := range items {
		pid := it.ProductID
		order.Items = append(order.Items, models.OrderItem{
			ProductID:     &pid,
			Name:          it.Name,
			Price:         it.Price,
			OriginalPrice: it.OriginalPrice,
			Quantity:      it.Quantity,
			Color:         it.Color,
			Size:          it.Size,
			Category:      it.Category,
			Image:         it.Image,
		})
	}
	return order
}

func validate(req Request) (models.PaymentMethod, models.ShippingMethod, error) {
	var fields []string
	if strings.TrimSpace(req.Name) == "" {
		fields = append(fields, "name")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		fields = append(fields, "email")
	}
	if strings.TrimSpace(req.Phone) == "" {
		fields = append(fields, "phone")
	}

	payment, err := models.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		fields = append(fields, "payment_method")
	}
	shipping, err := models.ParseShippingMethod(req.ShippingMethod)
	if err != nil {
		fields = append(fields, "shipping_method")
	}

	if shipping == models.ShippingMethodDelivery {
		required := []struct{ name, value string }{
			{"address", req.Address},
			{"city", req.City},
			{"province", req.Province},
			{"postal_code", req.PostalCode},
		}
		for _, f := range required {
			if strings.TrimSpace(f.value) == "" {
				fields = append(fields, f.name)
			}
		}
	}

	if len(fields) > 0 {
		return "", "", &ValidationError{Fields: fields}
	}
	return payment, shipping, nil
}
