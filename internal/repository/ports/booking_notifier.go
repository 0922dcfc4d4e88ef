package ports

import (
	"context"

	"github.com/zachrizzo/hens-travel/internal/domain"
)

type BookingNotifier interface {
	NotifyBookingCreated(ctx context.Context, booking domain.Booking) error
}
