package service

import "sync"

// Workspace holds one admin session's dashboard state.
type Workspace struct {
	Tours    *TourWorkflow
	Content  *SiteContentWorkflow
	Bookings *BookingWorkflow
}

// Workspaces hands out a Workspace per session id. It drops a workspace when
// its session ends or expires.
type Workspaces struct {
	tours    *TourService
	content  *SiteContentService
	bookings *BookingService

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewWorkspaces(tours *TourService, content *SiteContentService, bookings *BookingService) *Workspaces {
	return &Workspaces{
		tours:    tours,
		content:  content,
		bookings: bookings,
		items:    make(map[string]*Workspace),
	}
}

func (w *Workspaces) For(sessionID string) *Workspace {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ws, ok := w.items[sessionID]; ok {
		return ws
	}
	ws := &Workspace{
		Tours:    NewTourWorkflow(w.tours),
		Content:  NewSiteContentWorkflow(w.content),
		Bookings: NewBookingWorkflow(w.bookings),
	}
	w.items[sessionID] = ws
	return ws
}

func (w *Workspaces) Drop(sessionID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.items, sessionID)
}

func (w *Workspaces) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// HandleSessionEvent is a SessionManager subscriber.
func (w *Workspaces) HandleSessionEvent(event SessionEvent) {
	switch event.Kind {
	case SessionEnded, SessionExpired:
		w.Drop(event.Session.ID)
	}
}
