package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/repository/ports"
)

const (
	msgToursFetchFailed = "Failed to fetch tours."
	msgTourAdded        = "Tour added successfully!"
	msgTourUpdated      = "Tour updated successfully!"
	msgTourSaveFailed   = "Failed to add/update tour."
	msgTourDeleted      = "Tour deleted successfully!"
	msgTourDeleteFailed = "Failed to delete tour."
)

type TourSnapshot struct {
	Tours     []domain.Tour
	Form      TourForm
	EditingID string
	Fetched   bool
	Fetch     OperationState
	Submit    OperationState
	Delete    OperationState
}

// Editing reports whether the form holds an existing tour.
func (s TourSnapshot) Editing() bool {
	return s.EditingID != ""
}

// TourWorkflow is one admin's tour tab: the listed tours and a single form
// moving idle -> editing -> submitting -> idle. Remote writes are applied to
// the list only after they succeed.
type TourWorkflow struct {
	svc *TourService
	now func() time.Time

	mu        sync.Mutex
	tours     []domain.Tour
	form      TourForm
	editingID string
	fetched   bool
	fetchOp   OperationState
	submitOp  OperationState
	deleteOp  OperationState
	notices   notices
}

func NewTourWorkflow(svc *TourService) *TourWorkflow {
	return &TourWorkflow{svc: svc, now: time.Now}
}

// Fetch replaces the list. On failure the previous list is kept.
func (w *TourWorkflow) Fetch(ctx context.Context) error {
	w.mu.Lock()
	w.fetchOp.start(w.now())
	w.mu.Unlock()

	tours, err := w.svc.List(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.fetchOp.fail(w.now(), msgToursFetchFailed, err)
		w.notices.post(NoticeError, msgToursFetchFailed)
		return err
	}
	w.tours = tours
	w.fetched = true
	w.fetchOp.succeed(w.now(), "")
	return nil
}

// Mount fetches unless a previous fetch already succeeded.
func (w *TourWorkflow) Mount(ctx context.Context) error {
	w.mu.Lock()
	needed := !w.fetched || w.fetchOp.Status == OperationFailed
	w.mu.Unlock()
	if !needed {
		return nil
	}
	return w.Fetch(ctx)
}

// Edit returns a snapshot whose form holds the listed tour verbatim, image
// URL included. The workflow itself is not changed: the page carries the
// edited id back with the submit.
func (w *TourWorkflow) Edit(id string) (TourSnapshot, error) {
	snap := w.Snapshot()
	tour, ok := domain.FindTour(snap.Tours, id)
	if !ok {
		return snap, fmt.Errorf("tour %s: %w", id, ports.ErrRecordNotFound)
	}
	snap.Form = TourFormFrom(tour)
	snap.EditingID = id
	return snap, nil
}

func (w *TourWorkflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form = TourForm{}
	w.editingID = ""
}

// Submit saves form over tour id, or as a new tour when id is empty. A
// submit while another is pending fails with ErrSubmitInProgress. On failure
// the form and id stay populated for a retry.
func (w *TourWorkflow) Submit(ctx context.Context, id string, form TourForm, image *ImageUpload) (*domain.Tour, error) {
	w.mu.Lock()
	if w.submitOp.Pending() {
		w.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	editingID := strings.TrimSpace(id)
	w.form = form
	w.editingID = editingID
	w.submitOp.start(w.now())
	w.mu.Unlock()

	saved, err := w.svc.Save(ctx, editingID, form, image)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.submitOp.fail(w.now(), msgTourSaveFailed, err)
		w.notices.post(NoticeError, msgTourSaveFailed)
		return nil, err
	}

	message := msgTourAdded
	if editingID != "" {
		message = msgTourUpdated
	}
	w.tours = mergeTour(w.tours, *saved)
	w.form = TourForm{}
	w.editingID = ""
	w.submitOp.succeed(w.now(), message)
	w.notices.post(NoticeSuccess, message)
	return saved, nil
}

// Delete removes a listed tour: image first, then the record, then the list
// entry.
func (w *TourWorkflow) Delete(ctx context.Context, id string) (DeleteResult, error) {
	w.mu.Lock()
	tour, ok := domain.FindTour(w.tours, id)
	if !ok {
		w.mu.Unlock()
		return DeleteResult{}, fmt.Errorf("tour %s: %w", id, ports.ErrRecordNotFound)
	}
	w.deleteOp.start(w.now())
	w.mu.Unlock()

	result, err := w.svc.Delete(ctx, tour)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.deleteOp.fail(w.now(), msgTourDeleteFailed, err)
		w.notices.post(NoticeError, msgTourDeleteFailed)
		return result, err
	}
	w.tours = removeTour(w.tours, id)
	if w.editingID == id {
		w.form = TourForm{}
		w.editingID = ""
	}
	w.deleteOp.succeed(w.now(), msgTourDeleted)
	w.notices.post(NoticeSuccess, msgTourDeleted)
	return result, nil
}

func (w *TourWorkflow) Snapshot() TourSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	tours := make([]domain.Tour, len(w.tours))
	copy(tours, w.tours)
	return TourSnapshot{
		Tours:     tours,
		Form:      w.form,
		EditingID: w.editingID,
		Fetched:   w.fetched,
		Fetch:     w.fetchOp,
		Submit:    w.submitOp,
		Delete:    w.deleteOp,
	}
}

func (w *TourWorkflow) TakeNotice() *Notice {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.notices.take()
}

func mergeTour(tours []domain.Tour, saved domain.Tour) []domain.Tour {
	for i := range tours {
		if tours[i].ID == saved.ID {
			out := make([]domain.Tour, len(tours))
			copy(out, tours)
			out[i] = saved
			return out
		}
	}
	return append(append([]domain.Tour(nil), tours...), saved)
}

func removeTour(tours []domain.Tour, id string) []domain.Tour {
	out := make([]domain.Tour, 0, len(tours))
	for _, t := range tours {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
