package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/sidedish/internal/models"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramService sends order notifications to the admin chat.
type TelegramService struct {
	botToken    string
	adminChatID string
	apiBase     string
	client      *http.Client
	logger      *logrus.Logger
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string, logger *logrus.Logger) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
		apiBase:     telegramAPIBase,
		client:      &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

// Enabled reports whether both the bot token and admin chat are configured.
func (s *TelegramService) Enabled() bool {
	return s.botToken != "" && s.adminChatID != ""
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends an HTML message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		s.logger.Debug("[Telegram] bot token not configured")
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.botToken)
	body, err := json.Marshal(telegramMessage{ChatID: chatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return err
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		s.logger.Debug("[Telegram] admin chat id not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// FormatPrice formats an amount with thousand separators and a currency.
func FormatPrice(amount float64, currency string) string {
	if currency == "" {
		currency = "NGN"
	}
	str := fmt.Sprintf("%d", int64(amount))
	negative := strings.HasPrefix(str, "-")
	str = strings.TrimPrefix(str, "-")

	var result strings.Builder
	if negative {
		result.WriteString("-")
	}
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}
	return result.String() + " " + currency
}

var paymentMethodLabels = map[string]string{
	models.PaymentCashOnDelivery: "Cash on delivery",
	models.PaymentCard:           "Card payment",
	models.PaymentBankTransfer:   "Bank transfer",
}

// NotifyNewOrder sends the order summary to the admin chat.
func (s *TelegramService) NotifyNewOrder(order models.Order) error {
	if !s.Enabled() {
		return nil
	}
	return s.SendToAdmin(FormatOrderMessage(order))
}

// FormatOrderMessage renders an order as a Telegram HTML message. Every
// customer-supplied string is HTML-escaped.
func FormatOrderMessage(order models.Order) string {
	var items strings.Builder
	for i, item := range order.Items {
		items.WriteString(fmt.Sprintf("%d. <b>%s</b>\n   %d x %s = %s\n",
			i+1,
			html.EscapeString(item.Name),
			item.Qty,
			FormatPrice(item.Price, ""),
			FormatPrice(item.Subtotal(), ""),
		))
	}

	customer := "Guest"
	if order.Customer != nil {
		customer = order.Customer.Name
		if customer == "" {
			customer = order.Customer.Email
		}
	}

	payment := paymentMethodLabels[order.PaymentMethod]
	if payment == "" {
		payment = order.PaymentMethod
	}

	delivery := "Pickup"
	if order.DeliveryOption == models.DeliveryDelivery {
		delivery = fmt.Sprintf("Delivery to %s, %s", html.EscapeString(order.Address), html.EscapeString(order.State))
	}

	message := fmt.Sprintf(`<b>🛒 NEW ORDER #%s</b>
<b>👤 Customer:</b> %s
<b>📦 Items:</b>
%s
<b>💰 Total:</b> %s
<b>🚚 Fulfilment:</b> %s
<b>💳 Payment:</b> %s
<b>📍 Status:</b> %s`,
		html.EscapeString(order.ID),
		html.EscapeString(customer),
		items.String(),
		FormatPrice(order.Total, ""),
		delivery,
		html.EscapeString(payment),
		html.EscapeString(order.Status),
	)
	return strings.TrimSpace(message)
}
