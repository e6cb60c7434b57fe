package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/galazzia/storefront-api/models"
	"github.com/galazzia/storefront-api/money"
	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// PostmarkMailer sends through the Postmark API. The client has no context
// support, so every request is bounded by the HTTP client timeout.
type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

func NewPostmarkMailer(serverToken, from string, timeout time.Duration) *PostmarkMailer {
	client := postmark.NewClient(serverToken, "")
	client.HTTPClient = &http.Client{Timeout: timeout}
	return &PostmarkMailer{client: client, from: from}
}

func (m *PostmarkMailer) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("postmark: %w", err)
	}
	_, err := m.client.SendEmail(postmark.Email{
		From:     m.from,
		To:       to,
		Subject:  subject,
		HtmlBody: html,
		Tag:      "order-confirmation",
	})
	if err != nil {
		return fmt.Errorf("postmark: %w", err)
	}
	return nil
}

// SendgridMailer sends through the SendGrid v3 API.
type SendgridMailer struct {
	client *sendgrid.Client
	from   string
}

func NewSendgridMailer(apiKey, from string) *SendgridMailer {
	return &SendgridMailer{client: sendgrid.NewSendClient(apiKey), from: from}
}

func (m *SendgridMailer) Send(ctx context.Context, to, subject, html string) error {
	msg := mail.NewSingleEmail(
		mail.NewEmail("Galazzia", m.from),
		subject,
		mail.NewEmail("", to),
		"",
		html,
	)
	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// NewMailer picks the provider by name. It returns nil when the provider has
// no credentials, which puts the e-mail notifier in preview mode.
func NewMailer(provider, postmarkToken, sendgridKey, from string, timeout time.Duration) Mailer {
	switch strings.ToLower(provider) {
	case "sendgrid":
		if sendgridKey != "" {
			return NewSendgridMailer(sendgridKey, from)
		}
	default:
		if postmarkToken != "" {
			return NewPostmarkMailer(postmarkToken, from, timeout)
		}
	}
	return nil
}

type EmailNotifier struct {
	mailer Mailer
}

// NewEmailNotifier returns a notifier that only logs when mailer is nil.
func NewEmailNotifier(mailer Mailer) *EmailNotifier {
	return &EmailNotifier{mailer: mailer}
}

func (e *EmailNotifier) Name() string { return "email" }

func (e *EmailNotifier) NotifyOrder(ctx context.Context, n OrderNotification) (Result, error) {
	html, err := RenderOrderEmail(n)
	if err != nil {
		return Result{}, err
	}
	subject := fmt.Sprintf("Galazzia - Pedido #%s confirmado", n.OrderNumber)

	if e.mailer == nil {
		log.Printf("📧 [preview] e-mail to %s: %s\n%s", n.Email, subject, html)
		return Result{Preview: true}, nil
	}
	if err := e.mailer.Send(ctx, n.Email, subject, html); err != nil {
		return Result{}, err
	}
	return Result{}, nil
}

var orderEmail = template.Must(template.New("order").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #000; text-align: center;">¡Gracias por tu compra!</h1>
  <p>Hola,</p>
  <p>Hemos recibido tu pedido correctamente. A continuación, te enviamos los detalles:</p>
  <div style="background-color: #f7f7f7; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <h2 style="margin-top: 0;">Pedido #{{.OrderNumber}}</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <tr>
        <th style="text-align: left; padding: 8px; border-bottom: 1px solid #ddd;">Producto</th>
        <th style="text-align: right; padding: 8px; border-bottom: 1px solid #ddd;">Cantidad</th>
        <th style="text-align: right; padding: 8px; border-bottom: 1px solid #ddd;">Precio</th>
      </tr>
      {{- range .Items}}
      <tr>
        <td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.Name}}{{if .Color}} - {{.Color}}{{end}}{{if .Size}}, Talle {{.Size}}{{end}}</td>
        <td style="text-align: right; padding: 8px; border-bottom: 1px solid #ddd;">{{.Quantity}}</td>
        <td style="text-align: right; padding: 8px; border-bottom: 1px solid #ddd;">{{.LineTotal}}</td>
      </tr>
      {{- end}}
      <tr>
        <td colspan="2" style="text-align: right; padding: 8px; font-weight: bold;">Total:</td>
        <td style="text-align: right; padding: 8px; font-weight: bold;">{{.Total}}</td>
      </tr>
    </table>
  </div>
  <div style="background-color: #f0f0f0; padding: 15px; border-radius: 5px; margin: 20px 0; border-left: 4px solid #000;">
    <p style="margin: 0;"><strong>Estado del pedido:</strong> Tu pedido fue procesado.</p>
    <p style="margin-top: 10px;">{{.PaymentMessage}}</p>
  </div>
  <p>Nos pondremos en contacto contigo a través de WhatsApp para coordinar los siguientes pasos.</p>
</div>`))

type emailLine struct {
	Name, Color, Size string
	Quantity          int
	LineTotal         string
}

// RenderOrderEmail returns the HTML order confirmation.
func RenderOrderEmail(n OrderNotification) (string, error) {
	data := struct {
		OrderNumber    string
		Items          []emailLine
		Total          string
		PaymentMessage string
	}{
		OrderNumber:    n.OrderNumber,
		Total:          money.Format(n.Total),
		PaymentMessage: paymentMessage(n.PaymentMethod),
	}
	for _, it := range n.Items {
		data.Items = append(data.Items, emailLine{
			Name:      it.Name,
			Color:     it.Color,
			Size:      it.Size,
			Quantity:  it.Quantity,
			LineTotal: money.Format(it.LineTotal()),
		})
	}

	var buf bytes.Buffer
	if err := orderEmail.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render order e-mail: %w", err)
	}
	return buf.String(), nil
}

func paymentMessage(m models.PaymentMethod) string {
	if m == models.PaymentMethodTransfer {
		return "Has seleccionado pago por transferencia bancaria. Confirmaremos tu pedido una vez recibido el pago."
	}
	return "Has seleccionado pago en efectivo. Un agente se contactará contigo por WhatsApp para coordinar la entrega o retiro del producto."
}
