package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/galazzia/storefront-api/money"
)

// Credentials resolves the bot token and chat id at send time so admin edits
// to the settings take effect without a restart.
type Credentials func(ctx context.Context) (token, chatID string, err error)

func StaticCredentials(token, chatID string) Credentials {
	return func(context.Context) (string, string, error) { return token, chatID, nil }
}

type TelegramNotifier struct {
	baseURL     string
	client      *http.Client
	credentials Credentials
}

func NewTelegramNotifier(baseURL string, client *http.Client, credentials Credentials) *TelegramNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &TelegramNotifier{
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      client,
		credentials: credentials,
	}
}

func (t *TelegramNotifier) Name() string { return "telegram" }

func (t *TelegramNotifier) NotifyOrder(ctx context.Context, n OrderNotification) (Result, error) {
	text := TelegramMessage(n)

	token, chatID, err := t.credentials(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("telegram credentials: %w", err)
	}
	if token == "" || chatID == "" {
		log.Printf("🤖 [preview] telegram message:\n%s", text)
		return Result{Preview: true}, nil
	}
	return Result{}, t.send(ctx, token, chatID, text)
}

func (t *TelegramNotifier) send(ctx context.Context, token, chatID, text string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/bot"+token+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("telegram: status %d: decode response: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !out.OK {
		return fmt.Errorf("telegram: status %d: %s", resp.StatusCode, out.Description)
	}
	return nil
}

// TelegramMessage renders the Markdown new-order alert.
func TelegramMessage(n OrderNotification) string {
	customer := n.CustomerName
	if customer == "" {
		customer = "No especificado"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🛍️ *NUEVO PEDIDO #%s*\n\n", escapeMarkdown(n.OrderNumber))
	fmt.Fprintf(&b, "👤 *Cliente:* %s\n", escapeMarkdown(customer))
	fmt.Fprintf(&b, "📧 *Email:* %s\n", escapeMarkdown(n.Email))
	fmt.Fprintf(&b, "💰 *Total:* $%s\n", money.Format(n.Total))
	fmt.Fprintf(&b, "💳 *Método de pago:* %s\n", n.PaymentMethod.Label())
	fmt.Fprintf(&b, "🚚 *Método de envío:* %s\n\n", n.ShippingMethod.Label())
	b.WriteString("[Ver detalles en el panel de administración]")
	return b.String()
}

var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "[", `\[`, "`", "\\`")

// escapeMarkdown protects customer input from the legacy Markdown parser.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
