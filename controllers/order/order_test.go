package orderControllers

import (
	"bytes"
	"encoding/csv"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/galazzia/storefront-api/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() models.Order {
	return models.Order{
		ID:             "QWE42",
		Status:         models.OrderStatusPending,
		PaymentMethod:  models.PaymentMethodTransfer,
		ShippingMethod: models.ShippingMethodDelivery,
		Subtotal:       decimal.NewFromInt(175000),
		ShippingCost:   decimal.NewFromInt(2000),
		Total:          decimal.NewFromInt(177000),
		Notes:          "tocar timbre",
		WhatsappSent:   true,
		Shipping: &models.ShippingInfo{
			Name: "Lola", Email: "lola@example.com", Phone: "1150535668",
			Address: "Av. Corrientes 1234", City: "CABA", Province: "Buenos Aires", PostalCode: "1043",
		},
		CreatedAt: time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
	}
}

func TestWriteOrdersCSV(t *testing.T) {
	pickup := sampleOrder()
	pickup.ID = "ASD10"
	pickup.ShippingMethod = models.ShippingMethodPickup
	pickup.PaymentMethod = models.PaymentMethodCash
	pickup.WhatsappSent = false

	var buf bytes.Buffer
	require.NoError(t, WriteOrdersCSV(&buf, []models.Order{sampleOrder(), pickup}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])

	assert.Equal(t, []string{
		"QWE42", "2024-03-05 14:30", "Lola", "lola@example.com", "1150535668",
		"Envío a domicilio", "Av. Corrientes 1234, CABA, 1043, Buenos Aires",
		"Transferencia bancaria", "175000.00", "2000.00", "177000.00", "pending", "Sí", "tocar timbre",
	}, rows[1])

	assert.Equal(t, "Retiro en tienda", rows[2][6])
	assert.Equal(t, "Efectivo", rows[2][7])
	assert.Equal(t, "No", rows[2][12])
}

func TestHubBroadcastsNewOrders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	r := gin.New()
	r.GET("/ws", hub.OrderWebSocketHandler)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	order := sampleOrder()
	hub.BroadcastOrder(&order)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event struct {
		Type  string       `json:"type"`
		Order models.Order `json:"order"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "new_order", event.Type)
	assert.Equal(t, "QWE42", event.Order.ID)
	assert.True(t, event.Order.Total.Equal(decimal.NewFromInt(177000)))

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubBroadcastDoesNotWaitForStalledClients(t *testing.T) {
	hub := NewHub()
	stalled := &client{send: make(chan []byte)}
	hub.add(stalled)

	order := sampleOrder()
	start := time.Now()
	hub.BroadcastOrder(&order)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Zero(t, hub.Clients())

	_, open := <-stalled.send
	assert.False(t, open)
}
