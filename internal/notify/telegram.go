package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"pitchbook/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender is the slice of the bot API the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier pushes booking and expense notifications to the owner's
// private chat. Delivery is best effort: a failed send is logged, never
// surfaced to the request that triggered it.
type TelegramNotifier struct {
	bot    Sender
	chatID int64
	logger *zerolog.Logger
}

func NewTelegramNotifier(botToken string, chatID int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

// NewTelegramNotifierWithSender wires a prebuilt sender, used in tests.
func NewTelegramNotifierWithSender(bot Sender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}
}

func (n *TelegramNotifier) NotifyOwner(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// SubscribeTo attaches the notifier to the event bus.
func (n *TelegramNotifier) SubscribeTo(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, n.onBookingCreated)
	bus.Subscribe(events.EventExpenseRecorded, n.onExpenseRecorded)
}

func (n *TelegramNotifier) onBookingCreated(e *events.Event) error {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Msg("bad booking event payload")
		return err
	}

	text := fmt.Sprintf("New booking: %s on %s (%s), amount %d\nCustomer: %s %s",
		payload.Slot, payload.Date, payload.ReservationID, payload.Amount,
		payload.CustomerName, payload.Phone)

	if err := n.NotifyOwner(context.Background(), text); err != nil {
		n.logger.Error().Err(err).Str("reservation_id", payload.ReservationID).Msg("owner notification failed")
		return err
	}
	return nil
}

func (n *TelegramNotifier) onExpenseRecorded(e *events.Event) error {
	var payload events.ExpenseEventPayload
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Msg("bad expense event payload")
		return err
	}

	text := fmt.Sprintf("Expense recorded: %s (%s), amount %d",
		payload.Item, payload.Category, payload.Amount)

	if err := n.NotifyOwner(context.Background(), text); err != nil {
		n.logger.Error().Err(err).Str("expense_id", payload.ExpenseID).Msg("owner notification failed")
		return err
	}
	return nil
}
