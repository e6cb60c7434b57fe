package orderControllers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/galazzia/storefront-api/controllers"
	"github.com/galazzia/storefront-api/models"
	"github.com/galazzia/storefront-api/repository"
	"github.com/gin-gonic/gin"
)

var csvHeader = []string{
	"ID", "Fecha", "Cliente", "Email", "Teléfono", "Método de envío", "Dirección",
	"Método de pago", "Subtotal", "Envío", "Total", "Estado", "WhatsApp enviado", "Notas",
}

// WriteOrdersCSV writes one row per order.
func WriteOrdersCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, o := range orders {
		var name, email, phone string
		address := "Retiro en tienda"
		if s := o.Shipping; s != nil {
			name, email, phone = s.Name, s.Email, s.Phone
			if o.ShippingMethod == models.ShippingMethodDelivery {
				address = fmt.Sprintf("%s, %s, %s, %s", s.Address, s.City, s.PostalCode, s.Province)
			}
		}
		whatsappSent := "No"
		if o.WhatsappSent {
			whatsappSent = "Sí"
		}

		row := []string{
			o.ID,
			o.CreatedAt.Format("2006-01-02 15:04"),
			name,
			email,
			phone,
			o.ShippingMethod.Label(),
			address,
			o.PaymentMethod.Label(),
			o.Subtotal.StringFixed(2),
			o.ShippingCost.StringFixed(2),
			o.Total.StringFixed(2),
			string(o.Status),
			whatsappSent,
			o.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// GET /admin/orders/export
func ExportOrdersCSVHandler(orders *repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.List(c.Request.Context(), repository.OrderFilter{})
		if err != nil {
			controllers.Error(c, err)
			return
		}

		filename := fmt.Sprintf("pedidos_%s.csv", time.Now().Format("2006-01-02"))
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := WriteOrdersCSV(c.Writer, list); err != nil {
			c.Error(err)
		}
	}
}
