// Package notify sends best-effort order notifications by e-mail and Telegram.
package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/galazzia/storefront-api/models"
	"github.com/shopspring/decimal"
)

// Result tells the caller whether a message actually left the process.
// Preview is set when the channel is not configured and the message was only
// logged.
type Result struct {
	Preview bool `json:"preview,omitempty"`
}

type Item struct {
	Name     string          `json:"name" binding:"required"`
	Color    string          `json:"color"`
	Size     string          `json:"size"`
	Quantity int             `json:"quantity" binding:"required,min=1"`
	Price    decimal.Decimal `json:"price"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type OrderNotification struct {
	OrderNumber    string
	CustomerName   string
	Email          string
	Items          []Item
	Total          decimal.Decimal
	PaymentMethod  models.PaymentMethod
	ShippingMethod models.ShippingMethod
}

// FromOrder builds the notification payload for a stored order.
func FromOrder(o *models.Order) OrderNotification {
	n := OrderNotification{
		OrderNumber:    o.ID,
		Total:          o.Total,
		PaymentMethod:  o.PaymentMethod,
		ShippingMethod: o.ShippingMethod,
	}
	if o.Shipping != nil {
		n.CustomerName = o.Shipping.Name
		n.Email = o.Shipping.Email
	}
	for _, it := range o.Items {
		n.Items = append(n.Items, Item{
			Name:     it.Name,
			Color:    it.Color,
			Size:     it.Size,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return n
}

type Notifier interface {
	Name() string
	NotifyOrder(ctx context.Context, n OrderNotification) (Result, error)
}

// Dispatcher fans a notification out to every notifier in the background.
type Dispatcher struct {
	notifiers []Notifier
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewDispatcher(timeout time.Duration, notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{notifiers: notifiers, timeout: timeout}
}

// Dispatch returns immediately. Failures are logged and never reach the caller.
func (d *Dispatcher) Dispatch(n OrderNotification) {
	for _, notifier := range d.notifiers {
		d.wg.Add(1)
		go func(notifier Notifier) {
			defer d.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()

			res, err := notifier.NotifyOrder(ctx, n)
			switch {
			case err != nil:
				log.Printf("❌ %s notification for order %s failed: %v", notifier.Name(), n.OrderNumber, err)
			case res.Preview:
				log.Printf("👀 %s notification for order %s logged (channel not configured)", notifier.Name(), n.OrderNumber)
			default:
				log.Printf("📨 %s notification sent for order %s", notifier.Name(), n.OrderNumber)
			}
		}(notifier)
	}
}

// Wait blocks until every dispatched notification has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
