package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/metrics"
	"github.com/zachrizzo/hens-travel/internal/repository/ports"
)

// NewClient opens a Firestore client. credentialsFile may be empty to use
// application default credentials or the emulator (FIRESTORE_EMULATOR_HOST).
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	return firestore.NewClient(ctx, projectID, opts...)
}

// Collection adapts one Firestore collection to the record store port.
// Documents use the struct's firestore tags, so data written by earlier
// clients with the same field names reads back unchanged.
type Collection[T any] struct {
	client *firestore.Client
	name   string
}

func NewCollection[T any](client *firestore.Client, name string) *Collection[T] {
	return &Collection[T]{client: client, name: name}
}

func NewStores(client *firestore.Client) ports.Stores {
	return ports.Stores{
		Tours:       NewCollection[domain.Tour](client, ports.CollectionTours),
		Bookings:    NewCollection[domain.Booking](client, ports.CollectionBookings),
		SiteContent: NewCollection[domain.SiteContent](client, ports.CollectionSiteContent),
		AdminUsers:  NewCollection[domain.AdminUser](client, ports.CollectionAdminUsers),
		Sessions:    NewCollection[domain.AdminSession](client, ports.CollectionAdminSessions),
	}
}

func (c *Collection[T]) ListAll(ctx context.Context) (records []ports.Record[T], err error) {
	defer c.observe("list", time.Now(), &err)

	docs, err := c.client.Collection(c.name).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	records = make([]ports.Record[T], 0, len(docs))
	for _, doc := range docs {
		var value T
		if err = doc.DataTo(&value); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", c.name, doc.Ref.ID, err)
		}
		records = append(records, ports.Record[T]{ID: doc.Ref.ID, Data: value})
	}
	return records, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (_ *T, err error) {
	defer c.observe("get", time.Now(), &err)

	if strings.TrimSpace(id) == "" {
		err = ports.ErrRecordNotFound
		return nil, err
	}
	snap, err := c.client.Collection(c.name).Doc(id).Get(ctx)
	if err != nil {
		err = mapError(err)
		return nil, err
	}
	var value T
	if err = snap.DataTo(&value); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", c.name, id, err)
	}
	return &value, nil
}

func (c *Collection[T]) Create(ctx context.Context, value T) (_ string, err error) {
	defer c.observe("create", time.Now(), &err)

	ref, _, err := c.client.Collection(c.name).Add(ctx, value)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// Update replaces an existing document. The existence check and the write run
// in one transaction so an update never recreates a deleted record.
func (c *Collection[T]) Update(ctx context.Context, id string, value T) (err error) {
	defer c.observe("update", time.Now(), &err)

	if strings.TrimSpace(id) == "" {
		err = ports.ErrRecordNotFound
		return err
	}
	ref := c.client.Collection(c.name).Doc(id)
	err = c.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return mapError(err)
		}
		return tx.Set(ref, value)
	})
	return err
}

func (c *Collection[T]) Upsert(ctx context.Context, id string, value T) (err error) {
	defer c.observe("upsert", time.Now(), &err)

	_, err = c.client.Collection(c.name).Doc(id).Set(ctx, value)
	return err
}

func (c *Collection[T]) Delete(ctx context.Context, id string) (err error) {
	defer c.observe("delete", time.Now(), &err)

	if strings.TrimSpace(id) == "" {
		return nil
	}
	_, err = c.client.Collection(c.name).Doc(id).Delete(ctx)
	return err
}

func (c *Collection[T]) observe(op string, start time.Time, err *error) {
	metrics.ObserveStore(c.name, op, *err, ports.ErrRecordNotFound, time.Since(start))
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound || errors.Is(err, ports.ErrRecordNotFound) {
		return ports.ErrRecordNotFound
	}
	return err
}

var (
	_ ports.RecordStore[domain.Tour]    = (*Collection[domain.Tour])(nil)
	_ ports.RecordStore[domain.Booking] = (*Collection[domain.Booking])(nil)
)
