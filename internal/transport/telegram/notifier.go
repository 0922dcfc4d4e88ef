// Package telegram messages the operator chat about new bookings.
package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/metrics"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Notifier struct {
	bot    sender
	chatID int64
}

// New connects to the Bot API with token; it fails when the token is
// rejected.
func New(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

func (n *Notifier) NotifyBookingCreated(ctx context.Context, booking domain.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, formatBooking(booking)))
	metrics.ObserveNotification("telegram", err)
	if err != nil {
		return fmt.Errorf("telegram: send booking: %w", err)
	}
	return nil
}

func formatBooking(b domain.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "New booking: %s\n", b.TourName)
	fmt.Fprintf(&sb, "%s <%s>\n", b.Name, b.Email)
	if b.Date != nil {
		fmt.Fprintf(&sb, "Date: %s\n", b.Date.Format("2006-01-02"))
	}
	if msg := strings.TrimSpace(b.Message); msg != "" {
		fmt.Fprintf(&sb, "\n%s", msg)
	}
	return strings.TrimRight(sb.String(), "\n")
}
