package telegram

import (
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Dantikal/electronik-shop/config"
	"github.com/Dantikal/electronik-shop/models"
)

var ErrNotConfigured = errors.New("telegram bot is not configured")

// OrderMessage builds the text a customer sends to the manager to pay for an
// order: one line per item, the grand total and the delivery details.
// Requires order.Items to be populated.
func OrderMessage(cfg *config.Config, order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello! I want to pay for order #%d\n\n", order.ID)
	b.WriteString("📦 Items:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %s x%d = %s %s\n", item.ProductName, item.Quantity, item.TotalPrice().StringFixed(2), cfg.Currency)
	}
	fmt.Fprintf(&b, "\n💰 Total: %s %s\n", order.TotalPrice.StringFixed(2), cfg.Currency)
	fmt.Fprintf(&b, "👤 Name: %s %s\n", order.FirstName, order.LastName)
	fmt.Fprintf(&b, "📞 Phone: %s\n", order.Phone)
	fmt.Fprintf(&b, "📍 Address: %s, %s", order.Address, order.City)
	return b.String()
}

// EncodeMessage makes the message safe to embed in a t.me deep link.
// Newlines become %0A and spaces %20; everything else passes through.
func EncodeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\n", "%0A")
	return strings.ReplaceAll(msg, " ", "%20")
}

// PaymentLink is the deep link the customer is redirected to after checkout.
func PaymentLink(cfg *config.Config, order *models.Order) string {
	return fmt.Sprintf("https://t.me/%s?text=%s", cfg.TelegramManagerUsername, EncodeMessage(OrderMessage(cfg, order)))
}

// Notifier pushes payment claims to the shop manager through the bot API.
// A zero Notifier is valid and reports itself as unconfigured.
type Notifier struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	shopName string
}

func NewNotifier(cfg *config.Config) *Notifier {
	n := &Notifier{chatID: cfg.TelegramAdminChatID, shopName: cfg.ShopName}
	if cfg.TelegramBotToken == "" || cfg.TelegramAdminChatID == 0 {
		return n
	}
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Printf("❌ Telegram bot init failed: %v", err)
		return n
	}
	log.Printf("✅ Telegram notifier authorized as %s", bot.Self.UserName)
	n.bot = bot
	return n
}

func (n *Notifier) Configured() bool {
	return n != nil && n.bot != nil && n.chatID != 0
}

// NotifyPayment tells the manager that the customer claims to have paid.
// The order is already committed; a delivery failure here never touches it.
func (n *Notifier) NotifyPayment(order *models.Order) error {
	if !n.Configured() {
		return ErrNotConfigured
	}
	var b strings.Builder
	fmt.Fprintf(&b, "💳 %s: payment reported for order #%d\n", n.shopName, order.ID)
	fmt.Fprintf(&b, "Total: %s\n", order.TotalPrice.StringFixed(2))
	fmt.Fprintf(&b, "Customer: %s %s, %s\n", order.FirstName, order.LastName, order.Phone)
	fmt.Fprintf(&b, "Delivery: %s, %s", order.Address, order.City)
	_, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, b.String()))
	return err
}
