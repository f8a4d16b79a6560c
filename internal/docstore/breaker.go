package docstore

import (
	"context"
	"errors"
	"time"

	"deepedu/internal/logging"
	"deepedu/internal/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerSettings configures BreakerStore.
type BreakerSettings struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// BreakerStore fails fast with ErrUnavailable after repeated backend
// errors. Not-found and caller cancellation do not count as failures.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[any]
}

func NewBreakerStore(next Store, s BreakerSettings) *BreakerStore {
	threshold := s.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	settings := gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.StoreBreakerState.WithLabelValues(name).Set(float64(to))
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("store circuit breaker state change")
		},
	}
	return &BreakerStore{next: next, cb: gobreaker.NewCircuitBreaker[any](settings)}
}

// State reports the breaker state name: closed, half-open or open.
func (b *BreakerStore) State() string {
	return b.cb.State().String()
}

func (b *BreakerStore) execute(fn func() (any, error)) (any, error) {
	v, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, errors.Join(ErrUnavailable, err)
	}
	return v, err
}

func (b *BreakerStore) List(ctx context.Context, collection string) ([]Document, error) {
	v, err := b.execute(func() (any, error) { return b.next.List(ctx, collection) })
	if err != nil {
		return nil, err
	}
	return v.([]Document), nil
}

func (b *BreakerStore) Get(ctx context.Context, collection, id string) (Document, error) {
	v, err := b.execute(func() (any, error) { return b.next.Get(ctx, collection, id) })
	if err != nil {
		return Document{}, err
	}
	return v.(Document), nil
}

func (b *BreakerStore) Insert(ctx context.Context, collection string, fields Fields) (Document, error) {
	v, err := b.execute(func() (any, error) { return b.next.Insert(ctx, collection, fields) })
	if err != nil {
		return Document{}, err
	}
	return v.(Document), nil
}

func (b *BreakerStore) Delete(ctx context.Context, collection, id string) error {
	_, err := b.execute(func() (any, error) { return nil, b.next.Delete(ctx, collection, id) })
	return err
}

// Ping bypasses the breaker so readiness reflects the backend itself.
func (b *BreakerStore) Ping(ctx context.Context) error { return b.next.Ping(ctx) }

func (b *BreakerStore) Close() error { return b.next.Close() }
