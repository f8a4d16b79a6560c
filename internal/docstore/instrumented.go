package docstore

import (
	"context"
	"errors"
	"time"

	"deepedu/internal/metrics"
)

// InstrumentedStore records Prometheus latency and error metrics.
type InstrumentedStore struct {
	backend string
	next    Store
}

func Instrument(backend string, next Store) *InstrumentedStore {
	return &InstrumentedStore{backend: backend, next: next}
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	failed := err != nil && !errors.Is(err, ErrNotFound)
	metrics.RecordStoreOperation(s.backend, op, time.Since(start), failed)
}

func (s *InstrumentedStore) List(ctx context.Context, collection string) (docs []Document, err error) {
	defer func(start time.Time) { s.observe("list", start, err) }(time.Now())
	return s.next.List(ctx, collection)
}

func (s *InstrumentedStore) Get(ctx context.Context, collection, id string) (d Document, err error) {
	defer func(start time.Time) { s.observe("get", start, err) }(time.Now())
	return s.next.Get(ctx, collection, id)
}

func (s *InstrumentedStore) Insert(ctx context.Context, collection string, fields Fields) (d Document, err error) {
	defer func(start time.Time) { s.observe("insert", start, err) }(time.Now())
	return s.next.Insert(ctx, collection, fields)
}

func (s *InstrumentedStore) Delete(ctx context.Context, collection, id string) (err error) {
	defer func(start time.Time) { s.observe("delete", start, err) }(time.Now())
	return s.next.Delete(ctx, collection, id)
}

func (s *InstrumentedStore) Ping(ctx context.Context) error { return s.next.Ping(ctx) }

func (s *InstrumentedStore) Close() error { return s.next.Close() }
