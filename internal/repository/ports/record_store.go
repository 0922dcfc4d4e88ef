package ports

import (
	"context"
	"errors"

	"github.com/zachrizzo/hens-travel/internal/domain"
)

var ErrRecordNotFound = errors.New("record not found")

const (
	CollectionTours         = "tours"
	CollectionBookings      = "bookings"
	CollectionSiteContent   = "siteContent"
	CollectionAdminUsers    = "adminUsers"
	CollectionAdminSessions = "adminSessions"
)

// Record pairs a stored document with its store-assigned id.
type Record[T any] struct {
	ID   string
	Data T
}

// RecordStore is the document-store gateway for one collection. Update is a
// full replace and fails with ErrRecordNotFound for unknown ids; Delete of an
// unknown id succeeds.
type RecordStore[T any] interface {
	ListAll(ctx context.Context) ([]Record[T], error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, value T) (string, error)
	Update(ctx context.Context, id string, value T) error
	Upsert(ctx context.Context, id string, value T) error
	Delete(ctx context.Context, id string) error
}

type Stores struct {
	Tours       RecordStore[domain.Tour]
	Bookings    RecordStore[domain.Booking]
	SiteContent RecordStore[domain.SiteContent]
	AdminUsers  RecordStore[domain.AdminUser]
	Sessions    RecordStore[domain.AdminSession]
}
