package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/metrics"
	"github.com/zachrizzo/hens-travel/internal/repository/ports"
)

// DocumentStore keeps one collection as JSON documents in a table shaped
// (id, data jsonb, created_at, updated_at).
type DocumentStore[T any] struct {
	db         *sqlx.DB
	collection string
	table      string
	newID      func() string
}

type documentRow struct {
	ID   string `db:"id"`
	Data []byte `db:"data"`
}

func NewDocumentStore[T any](db *sqlx.DB, collection, table string) *DocumentStore[T] {
	return &DocumentStore[T]{
		db:         db,
		collection: collection,
		table:      pq.QuoteIdentifier(table),
		newID:      uuid.NewString,
	}
}

func NewStores(db *sqlx.DB) ports.Stores {
	return ports.Stores{
		Tours:       NewDocumentStore[domain.Tour](db, ports.CollectionTours, "tours"),
		Bookings:    NewDocumentStore[domain.Booking](db, ports.CollectionBookings, "bookings"),
		SiteContent: NewDocumentStore[domain.SiteContent](db, ports.CollectionSiteContent, "site_content"),
		AdminUsers:  NewDocumentStore[domain.AdminUser](db, ports.CollectionAdminUsers, "admin_users"),
		Sessions:    NewDocumentStore[domain.AdminSession](db, ports.CollectionAdminSessions, "admin_sessions"),
	}
}

func (s *DocumentStore[T]) ListAll(ctx context.Context) (records []ports.Record[T], err error) {
	defer s.observe("list", time.Now(), &err)

	query := fmt.Sprintf(`SELECT id, data FROM %s ORDER BY created_at, id`, s.table)
	var rows []documentRow
	if err = s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	records = make([]ports.Record[T], 0, len(rows))
	for _, row := range rows {
		var value T
		if err = json.Unmarshal(row.Data, &value); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", s.collection, row.ID, err)
		}
		records = append(records, ports.Record[T]{ID: row.ID, Data: value})
	}
	return records, nil
}

func (s *DocumentStore[T]) Get(ctx context.Context, id string) (_ *T, err error) {
	defer s.observe("get", time.Now(), &err)

	query := fmt.Sprintf(`SELECT id, data FROM %s WHERE id = $1`, s.table)
	var row documentRow
	if err = s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ports.ErrRecordNotFound
		}
		return nil, err
	}
	var value T
	if err = json.Unmarshal(row.Data, &value); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", s.collection, id, err)
	}
	return &value, nil
}

func (s *DocumentStore[T]) Create(ctx context.Context, value T) (_ string, err error) {
	defer s.observe("create", time.Now(), &err)

	payload, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	id := s.newID()
	query := fmt.Sprintf(`INSERT INTO %s (id, data) VALUES ($1, $2::jsonb)`, s.table)
	if _, err = s.db.ExecContext(ctx, query, id, string(payload)); err != nil {
		return "", err
	}
	return id, nil
}

func (s *DocumentStore[T]) Update(ctx context.Context, id string, value T) (err error) {
	defer s.observe("update", time.Now(), &err)

	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET data = $2::jsonb, updated_at = NOW() WHERE id = $1`, s.table)
	result, err := s.db.ExecContext(ctx, query, id, string(payload))
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		err = ports.ErrRecordNotFound
		return err
	}
	return nil
}

func (s *DocumentStore[T]) Upsert(ctx context.Context, id string, value T) (err error) {
	defer s.observe("upsert", time.Now(), &err)

	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, data) VALUES ($1, $2::jsonb)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, s.table)
	_, err = s.db.ExecContext(ctx, query, id, string(payload))
	return err
}

func (s *DocumentStore[T]) Delete(ctx context.Context, id string) (err error) {
	defer s.observe("delete", time.Now(), &err)

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table)
	_, err = s.db.ExecContext(ctx, query, id)
	return err
}

func (s *DocumentStore[T]) observe(op string, start time.Time, err *error) {
	metrics.ObserveStore(s.collection, op, *err, ports.ErrRecordNotFound, time.Since(start))
}

var (
	_ ports.RecordStore[domain.Tour]         = (*DocumentStore[domain.Tour])(nil)
	_ ports.RecordStore[domain.Booking]      = (*DocumentStore[domain.Booking])(nil)
	_ ports.RecordStore[domain.SiteContent]  = (*DocumentStore[domain.SiteContent])(nil)
	_ ports.RecordStore[domain.AdminUser]    = (*DocumentStore[domain.AdminUser])(nil)
	_ ports.RecordStore[domain.AdminSession] = (*DocumentStore[domain.AdminSession])(nil)
)
