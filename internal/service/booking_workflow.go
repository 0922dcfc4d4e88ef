package service

import (
	"context"
	"sync"
	"time"

	"github.com/zachrizzo/hens-travel/internal/domain"
)

const (
	msgBookingsFetchFailed = "Failed to fetch bookings."
	msgBookingDeleted      = "Booking deleted successfully!"
	msgBookingDeleteFailed = "Failed to delete booking."
)

type BookingSnapshot struct {
	Bookings []domain.Booking
	Fetched  bool
	Fetch    OperationState
	Delete   OperationState
}

// BookingWorkflow lists bookings and deletes them. Bookings are never edited.
type BookingWorkflow struct {
	svc *BookingService
	now func() time.Time

	mu       sync.Mutex
	bookings []domain.Booking
	fetched  bool
	fetchOp  OperationState
	deleteOp OperationState
	notices  notices
}

func NewBookingWorkflow(svc *BookingService) *BookingWorkflow {
	return &BookingWorkflow{svc: svc, now: time.Now}
}

func (w *BookingWorkflow) Fetch(ctx context.Context) error {
	w.mu.Lock()
	w.fetchOp.start(w.now())
	w.mu.Unlock()

	bookings, err := w.svc.List(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.fetchOp.fail(w.now(), msgBookingsFetchFailed, err)
		w.notices.post(NoticeError, msgBookingsFetchFailed)
		return err
	}
	w.bookings = bookings
	w.fetched = true
	w.fetchOp.succeed(w.now(), "")
	return nil
}

// Mount refreshes on every visit: new bookings arrive from the public site.
func (w *BookingWorkflow) Mount(ctx context.Context) error {
	return w.Fetch(ctx)
}

func (w *BookingWorkflow) Delete(ctx context.Context, id string) error {
	w.mu.Lock()
	w.deleteOp.start(w.now())
	w.mu.Unlock()

	err := w.svc.Delete(ctx, id)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.deleteOp.fail(w.now(), msgBookingDeleteFailed, err)
		w.notices.post(NoticeError, msgBookingDeleteFailed)
		return err
	}
	out := make([]domain.Booking, 0, len(w.bookings))
	for _, b := range w.bookings {
		if b.ID != id {
			out = append(out, b)
		}
	}
	w.bookings = out
	w.deleteOp.succeed(w.now(), msgBookingDeleted)
	w.notices.post(NoticeSuccess, msgBookingDeleted)
	return nil
}

func (w *BookingWorkflow) Snapshot() BookingSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	bookings := make([]domain.Booking, len(w.bookings))
	copy(bookings, w.bookings)
	return BookingSnapshot{
		Bookings: bookings,
		Fetched:  w.fetched,
		Fetch:    w.fetchOp,
		Delete:   w.deleteOp,
	}
}

func (w *BookingWorkflow) TakeNotice() *Notice {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.notices.take()
}
