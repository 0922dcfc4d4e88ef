package service

import "time"

type OperationStatus string

const (
	OperationIdle      OperationStatus = "idle"
	OperationPending   OperationStatus = "pending"
	OperationSucceeded OperationStatus = "succeeded"
	OperationFailed    OperationStatus = "failed"
)

// OperationState tracks one named asynchronous operation of a workflow
// (fetch, submit, delete).
type OperationState struct {
	Status    OperationStatus `json:"status"`
	Message   string          `json:"message,omitempty"`
	Err       error           `json:"-"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (s OperationState) Pending() bool {
	return s.Status == OperationPending
}

func (s *OperationState) start(now time.Time) {
	*s = OperationState{Status: OperationPending, UpdatedAt: now}
}

func (s *OperationState) succeed(now time.Time, message string) {
	*s = OperationState{Status: OperationSucceeded, Message: message, UpdatedAt: now}
}

func (s *OperationState) fail(now time.Time, message string, err error) {
	*s = OperationState{Status: OperationFailed, Message: message, Err: err, UpdatedAt: now}
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is the one-line message shown to the admin after an operation.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

type notices struct {
	pending *Notice
}

func (n *notices) post(kind NoticeKind, message string) {
	n.pending = &Notice{Kind: kind, Message: message}
}

// take returns the pending notice once.
func (n *notices) take() *Notice {
	out := n.pending
	n.pending = nil
	return out
}
