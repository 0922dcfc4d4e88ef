package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/repository/ports"
)

// DefaultNotifyTimeout bounds each notifier call.
const DefaultNotifyTimeout = 15 * time.Second

type BookingService struct {
	bookings      ports.RecordStore[domain.Booking]
	notifiers     []ports.BookingNotifier
	notifyTimeout time.Duration
	inflight      sync.WaitGroup
	logger        zerolog.Logger
}

func NewBookingService(bookings ports.RecordStore[domain.Booking], logger zerolog.Logger, notifiers ...ports.BookingNotifier) *BookingService {
	return &BookingService{
		bookings:      bookings,
		notifiers:     notifiers,
		notifyTimeout: DefaultNotifyTimeout,
		logger:        logger,
	}
}

func (s *BookingService) SetNotifyTimeout(d time.Duration) {
	if d > 0 {
		s.notifyTimeout = d
	}
}

// List returns every booking, newest first.
func (s *BookingService) List(ctx context.Context) ([]domain.Booking, error) {
	records, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, storeErr("list bookings", err)
	}
	out := make([]domain.Booking, 0, len(records))
	for _, r := range records {
		b := r.Data
		b.ID = r.ID
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Delete removes a booking. A booking that is already gone counts as deleted.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	if err := s.bookings.Delete(ctx, id); err != nil && !errors.Is(err, ports.ErrRecordNotFound) {
		return storeErr("delete booking", err)
	}
	return nil
}

// Create stores the booking and returns without waiting for the notifiers.
// Each notifier runs in the background under its own timeout, detached from
// the request; failures are logged and the booking stands regardless.
func (s *BookingService) Create(ctx context.Context, booking domain.Booking) (*domain.Booking, error) {
	booking.ID = ""
	id, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return nil, storeErr("create booking", err)
	}
	booking.ID = id

	detached := context.WithoutCancel(ctx)
	for _, n := range s.notifiers {
		s.inflight.Add(1)
		go func(n ports.BookingNotifier) {
			defer s.inflight.Done()
			nctx, cancel := context.WithTimeout(detached, s.notifyTimeout)
			defer cancel()
			if err := n.NotifyBookingCreated(nctx, booking); err != nil {
				s.logger.Warn().Err(err).Str("booking_id", id).Msg("booking notification failed")
			}
		}(n)
	}
	return &booking, nil
}

// Wait blocks until background notifications finish or ctx is done.
func (s *BookingService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
