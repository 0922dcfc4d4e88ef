package service

import (
	"context"
	"sync"
	"time"
)

const (
	msgContentFetchFailed = "Failed to fetch home page content."
	msgContentSaved       = "Home page content updated successfully!"
	msgContentSaveFailed  = "Failed to update home page content."
)

type SiteContentSnapshot struct {
	Form    SiteContentForm
	Exists  bool
	Fetched bool
	Fetch   OperationState
	Submit  OperationState
}

type SiteContentWorkflow struct {
	svc *SiteContentService
	now func() time.Time

	mu       sync.Mutex
	form     SiteContentForm
	exists   bool
	fetched  bool
	fetchOp  OperationState
	submitOp OperationState
	notices  notices
}

func NewSiteContentWorkflow(svc *SiteContentService) *SiteContentWorkflow {
	return &SiteContentWorkflow{svc: svc, now: time.Now}
}

// Fetch seeds the form from the stored record.
func (w *SiteContentWorkflow) Fetch(ctx context.Context) error {
	w.mu.Lock()
	w.fetchOp.start(w.now())
	w.mu.Unlock()

	content, exists, err := w.svc.Get(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.fetchOp.fail(w.now(), msgContentFetchFailed, err)
		w.notices.post(NoticeError, msgContentFetchFailed)
		return err
	}
	w.form = SiteContentFormFrom(*content)
	w.exists = exists
	w.fetched = true
	w.fetchOp.succeed(w.now(), "")
	return nil
}

func (w *SiteContentWorkflow) Mount(ctx context.Context) error {
	w.mu.Lock()
	needed := !w.fetched || w.fetchOp.Status == OperationFailed
	w.mu.Unlock()
	if !needed {
		return nil
	}
	return w.Fetch(ctx)
}

func (w *SiteContentWorkflow) Submit(ctx context.Context, form SiteContentForm, hero, about *ImageUpload) error {
	w.mu.Lock()
	if w.submitOp.Pending() {
		w.mu.Unlock()
		return ErrSubmitInProgress
	}
	w.form = form
	w.submitOp.start(w.now())
	w.mu.Unlock()

	saved, err := w.svc.Save(ctx, form, hero, about)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.submitOp.fail(w.now(), msgContentSaveFailed, err)
		w.notices.post(NoticeError, msgContentSaveFailed)
		return err
	}
	w.form = SiteContentFormFrom(*saved)
	w.exists = true
	w.submitOp.succeed(w.now(), msgContentSaved)
	w.notices.post(NoticeSuccess, msgContentSaved)
	return nil
}

func (w *SiteContentWorkflow) Snapshot() SiteContentSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return SiteContentSnapshot{
		Form:    w.form,
		Exists:  w.exists,
		Fetched: w.fetched,
		Fetch:   w.fetchOp,
		Submit:  w.submitOp,
	}
}

func (w *SiteContentWorkflow) TakeNotice() *Notice {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.notices.take()
}
