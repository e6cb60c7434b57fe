// Package whatsapp builds click-to-chat links for orders and contact messages.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/galazzia/storefront-api/models"
	"github.com/galazzia/storefront-api/money"
)

const baseURL = "https://wa.me/"

// Link returns a wa.me URL for phone (non-digits are dropped) with message as
// the pre-filled text.
func Link(phone, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return baseURL + digits + "?text=" + encode(message)
}

// encode escapes like encodeURIComponent so spaces become %20, not "+".
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// OrderMessage is the text a customer sends to confirm an order.
func OrderMessage(o *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "¡Hola! Quiero realizar el siguiente pedido (Nº %s):\n\n", o.ID)

	for i, it := range o.Items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it.Name)
		fmt.Fprintf(&b, "   - Cantidad: %d\n", it.Quantity)
		if it.Color != "" {
			fmt.Fprintf(&b, "   - Color: %s\n", it.Color)
		}
		if it.Size != "" {
			fmt.Fprintf(&b, "   - Talle: %s\n", it.Size)
		}
		fmt.Fprintf(&b, "   - Precio: %s\n\n", money.Format(it.Price))
	}

	fmt.Fprintf(&b, "Método de envío: %s\n", o.ShippingMethod.Label())
	if o.ShippingMethod == models.ShippingMethodDelivery && o.Shipping != nil {
		s := o.Shipping
		fmt.Fprintf(&b, "Dirección: %s, %s, %s, %s\n", s.Address, s.City, s.PostalCode, s.Province)
	}
	fmt.Fprintf(&b, "Método de pago: %s\n\n", o.PaymentMethod.Label())
	fmt.Fprintf(&b, "Total: %s\n\n", money.Format(o.Total))

	if o.Shipping != nil {
		b.WriteString("Mis datos de contacto:\n")
		fmt.Fprintf(&b, "Nombre: %s\n", o.Shipping.Name)
		fmt.Fprintf(&b, "Email: %s\n", o.Shipping.Email)
		fmt.Fprintf(&b, "Teléfono: %s\n", o.Shipping.Phone)
	}
	return b.String()
}

type Contact struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ContactMessage formats a contact form submission.
func ContactMessage(c Contact) string {
	return fmt.Sprintf(
		"*Nuevo mensaje de contacto desde la web*\n\n*Nombre:* %s\n*Email:* %s\n*Asunto:* %s\n\n*Mensaje:*\n%s",
		c.Name, c.Email, c.Subject, c.Message,
	)
}
