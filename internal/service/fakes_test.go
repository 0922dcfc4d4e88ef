package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/repository/memory"
	"github.com/zachrizzo/hens-travel/internal/repository/ports"
)

var (
	testNow    = time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	errBackend = errors.New("backend unavailable")
)

const testBucket = "hens-media"

type memoryStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	types     map[string]string
	uploadErr error
	removeErr error
	removed   []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (s *memoryStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectName] = data
	s.types[objectName] = contentType
	return "http://minio.local:9000/" + bucket + "/" + objectName, nil
}

func (s *memoryStorage) Remove(ctx context.Context, bucket, objectName string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectName)
	s.removed = append(s.removed, objectName)
	return nil
}

func (s *memoryStorage) has(objectName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[objectName]
	return ok
}

func (s *memoryStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// flakyStore fails selected operations of an in-memory store.
type flakyStore[T any] struct {
	*memory.Store[T]
	listErr   error
	getErr    error
	createErr error
	updateErr error
	deleteErr error
	upsertErr error
}

func newFlakyStore[T any]() *flakyStore[T] {
	return &flakyStore[T]{Store: memory.NewStore[T]()}
}

func (s *flakyStore[T]) ListAll(ctx context.Context) ([]ports.Record[T], error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.Store.ListAll(ctx)
}

func (s *flakyStore[T]) Get(ctx context.Context, id string) (*T, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.Store.Get(ctx, id)
}

func (s *flakyStore[T]) Create(ctx context.Context, value T) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	return s.Store.Create(ctx, value)
}

func (s *flakyStore[T]) Update(ctx context.Context, id string, value T) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	return s.Store.Update(ctx, id, value)
}

func (s *flakyStore[T]) Upsert(ctx context.Context, id string, value T) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	return s.Store.Upsert(ctx, id, value)
}

func (s *flakyStore[T]) Delete(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.Store.Delete(ctx, id)
}

// gatedTourStore holds Create until release is closed.
type gatedTourStore struct {
	*memory.Store[domain.Tour]
	entered chan struct{}
	release chan struct{}
}

func newGatedTourStore() *gatedTourStore {
	return &gatedTourStore{
		Store:   memory.NewStore[domain.Tour](),
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (s *gatedTourStore) Create(ctx context.Context, value domain.Tour) (string, error) {
	s.entered <- struct{}{}
	<-s.release
	return s.Store.Create(ctx, value)
}

type recordingNotifier struct {
	mu       sync.Mutex
	err      error
	bookings []domain.Booking
}

func (n *recordingNotifier) NotifyBookingCreated(ctx context.Context, booking domain.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bookings = append(n.bookings, booking)
	return n.err
}

// blockingNotifier holds each call until its context ends.
type blockingNotifier struct {
	entered chan struct{}
	cause   error
}

func newBlockingNotifier() *blockingNotifier {
	return &blockingNotifier{entered: make(chan struct{}, 1)}
}

func (n *blockingNotifier) NotifyBookingCreated(ctx context.Context, booking domain.Booking) error {
	n.entered <- struct{}{}
	<-ctx.Done()
	n.cause = ctx.Err()
	return n.cause
}

func fixedClock() time.Time { return testNow }

func newTestGateway(storage ports.ObjectStorage) *MediaGateway {
	g := NewMediaGateway(storage, MediaGatewayConfig{
		Bucket:      testBucket,
		EndpointURL: "http://minio.local:9000",
		Logger:      zerolog.Nop(),
	})
	g.SetClock(fixedClock)
	return g
}
