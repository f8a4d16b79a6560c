package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps documents as JSONB rows in the documents table.
type PostgresStore struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresStore(db *pgxpool.Pool, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout}
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *PostgresStore) List(ctx context.Context, collection string) ([]Document, error) {
	const query = `
	SELECT id, fields, created_at
	FROM documents
	WHERE collection = $1
	ORDER BY seq
	`
	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.Query(timeoutCtx, query, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	const query = `
	SELECT id, fields, created_at
	FROM documents
	WHERE collection = $1 AND id = $2
	`
	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	d, err := scanDocument(s.db.QueryRow(timeoutCtx, query, collection, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return d, nil
}

func (s *PostgresStore) Insert(ctx context.Context, collection string, fields Fields) (Document, error) {
	const query = `
	INSERT INTO documents (collection, id, fields)
	VALUES ($1, $2, $3)
	RETURNING created_at
	`
	id, err := uuid.NewV7()
	if err != nil {
		return Document{}, err
	}
	if fields == nil {
		fields = Fields{}
	}
	d := Document{ID: id.String(), Fields: fields.clone()}

	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	var createdAt time.Time
	if err := s.db.QueryRow(timeoutCtx, query, collection, d.ID, map[string]any(d.Fields)).Scan(&createdAt); err != nil {
		return Document{}, err
	}
	d.CreatedAt = &createdAt
	return d, nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	const query = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	result, err := s.db.Exec(timeoutCtx, query, collection, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.db.Ping(timeoutCtx)
}

// Close is a no-op; the pool is owned by the caller.
func (s *PostgresStore) Close() error { return nil }

func scanDocument(row pgx.Row) (Document, error) {
	var (
		d         Document
		fields    map[string]any
		createdAt *time.Time
	)
	if err := row.Scan(&d.ID, &fields, &createdAt); err != nil {
		return Document{}, err
	}
	d.Fields = Fields(fields)
	d.CreatedAt = createdAt
	return d, nil
}
