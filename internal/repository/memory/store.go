// Package memory keeps collections in process memory. It backs
// STORE_DRIVER=memory for local runs and stands in for the document store in
// tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/repository/ports"
)

type Store[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order map[string]int
	seq   int
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{items: make(map[string]T), order: make(map[string]int)}
}

func NewStores() ports.Stores {
	return ports.Stores{
		Tours:       NewStore[domain.Tour](),
		Bookings:    NewStore[domain.Booking](),
		SiteContent: NewStore[domain.SiteContent](),
		AdminUsers:  NewStore[domain.AdminUser](),
		Sessions:    NewStore[domain.AdminSession](),
	}
}

func (s *Store[T]) ListAll(ctx context.Context) ([]ports.Record[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ports.Record[T], 0, len(s.items))
	for id, v := range s.items {
		out = append(out, ports.Record[T]{ID: id, Data: v})
	}
	sort.Slice(out, func(i, j int) bool { return s.order[out[i].ID] < s.order[out[j].ID] })
	return out, nil
}

func (s *Store[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[id]
	if !ok {
		return nil, ports.ErrRecordNotFound
	}
	return &v, nil
}

func (s *Store[T]) Create(ctx context.Context, value T) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	s.put(id, value)
	return id, nil
}

func (s *Store[T]) Update(ctx context.Context, id string, value T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ports.ErrRecordNotFound
	}
	s.items[id] = value
	return nil
}

func (s *Store[T]) Upsert(ctx context.Context, id string, value T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.put(id, value)
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	delete(s.order, id)
	return nil
}

// Len reports how many records are stored.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T]) put(id string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.order[id]; !ok {
		s.seq++
		s.order[id] = s.seq
	}
	s.items[id] = value
}

var (
	_ ports.RecordStore[domain.Tour]        = (*Store[domain.Tour])(nil)
	_ ports.RecordStore[domain.SiteContent] = (*Store[domain.SiteContent])(nil)
)
