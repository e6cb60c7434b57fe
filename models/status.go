package models

import (
	"errors"
	"strings"
)

var (
	ErrInvalidOrderStatus    = errors.New("invalid order status")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrInvalidShippingMethod = errors.New("invalid shipping method")
)

// ParseOrderStatus accepts the canonical status names plus the Spanish names
// used by the storefront and the legacy processing/completed pair.
func ParseOrderStatus(status string) (OrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case string(OrderStatusPending), "pendiente":
		return OrderStatusPending, nil
	case string(OrderStatusConfirmed), "confirmado", "processing":
		return OrderStatusConfirmed, nil
	case string(OrderStatusShipped), "enviado":
		return OrderStatusShipped, nil
	case string(OrderStatusDelivered), "entregado", "completed":
		return OrderStatusDelivered, nil
	case string(OrderStatusCancelled), "cancelado", "canceled":
		return OrderStatusCancelled, nil
	default:
		return "", ErrInvalidOrderStatus
	}
}

func ParsePaymentMethod(method string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case string(PaymentMethodTransfer), "transferencia":
		return PaymentMethodTransfer, nil
	case string(PaymentMethodCash), "efectivo":
		return PaymentMethodCash, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

func ParseShippingMethod(method string) (ShippingMethod, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case string(ShippingMethodDelivery), "envio", "envío":
		return ShippingMethodDelivery, nil
	case string(ShippingMethodPickup), "retiro":
		return ShippingMethodPickup, nil
	default:
		return "", ErrInvalidShippingMethod
	}
}

// Label returns the customer facing name of the payment method.
func (m PaymentMethod) Label() string {
	if m == PaymentMethodTransfer {
		return "Transferencia bancaria"
	}
	return "Efectivo"
}

// Label returns the customer facing name of the shipping method.
func (m ShippingMethod) Label() string {
	if m == ShippingMethodDelivery {
		return "Envío a domicilio"
	}
	return "Retiro en tienda"
}
