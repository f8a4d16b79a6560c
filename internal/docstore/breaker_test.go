package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"deepedu/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) List(ctx context.Context, collection string) ([]Document, error) {
	args := m.Called(ctx, collection)
	docs, _ := args.Get(0).([]Document)
	return docs, args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, collection, id string) (Document, error) {
	args := m.Called(ctx, collection, id)
	return args.Get(0).(Document), args.Error(1)
}

func (m *mockStore) Insert(ctx context.Context, collection string, fields Fields) (Document, error) {
	args := m.Called(ctx, collection, fields)
	return args.Get(0).(Document), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, collection, id string) error {
	return m.Called(ctx, collection, id).Error(0)
}

func (m *mockStore) Ping(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *mockStore) Close() error { return nil }

func newTestBreaker(next Store) *BreakerStore {
	return NewBreakerStore(next, BreakerSettings{
		Name:             "test",
		MaxRequests:      1,
		Timeout:          time.Hour,
		FailureThreshold: 2,
	})
}

func TestBreakerStore_OpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	backend := new(mockStore)
	backend.On("List", mock.Anything, "ebooks").Return(nil, errors.New("connection refused")).Twice()

	b := newTestBreaker(backend)

	for i := 0; i < 2; i++ {
		_, err := b.List(ctx, "ebooks")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}

	_, err := b.List(ctx, "ebooks")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "open", b.State())
	backend.AssertExpectations(t)
}

func TestBreakerStore_NotFoundIsNotAFailure(t *testing.T) {
	ctx := context.Background()
	backend := new(mockStore)
	backend.On("Get", mock.Anything, "ebooks", "x").Return(Document{}, ErrNotFound).Times(3)

	b := newTestBreaker(backend)

	for i := 0; i < 3; i++ {
		_, err := b.Get(ctx, "ebooks", "x")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, "closed", b.State())
}

func TestBreakerStore_PassesResults(t *testing.T) {
	ctx := context.Background()
	backend := new(mockStore)
	doc := Document{ID: "1", Fields: Fields{"title": "A"}}
	backend.On("Insert", mock.Anything, "ebooks", Fields{"title": "A"}).Return(doc, nil)
	backend.On("Delete", mock.Anything, "ebooks", "1").Return(nil)
	backend.On("Ping", mock.Anything).Return(nil)

	b := newTestBreaker(backend)

	got, err := b.Insert(ctx, "ebooks", Fields{"title": "A"})
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	assert.NoError(t, b.Delete(ctx, "ebooks", "1"))
	assert.NoError(t, b.Ping(ctx))
}

func TestOpen(t *testing.T) {
	t.Run("memory with breaker", func(t *testing.T) {
		s, err := Open(config.StoreConfig{Type: config.StoreMemory, Breaker: config.BreakerConfig{Enabled: true, FailureThreshold: 3}}, nil)
		require.NoError(t, err)
		_, ok := s.(*BreakerStore)
		assert.True(t, ok)
	})

	t.Run("memory without breaker", func(t *testing.T) {
		s, err := Open(config.StoreConfig{Type: config.StoreMemory}, nil)
		require.NoError(t, err)
		_, ok := s.(*InstrumentedStore)
		assert.True(t, ok)
	})

	t.Run("postgres without pool", func(t *testing.T) {
		_, err := Open(config.StoreConfig{Type: config.StorePostgres}, nil)
		assert.Error(t, err)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(config.StoreConfig{Type: "firestore"}, nil)
		assert.Error(t, err)
	})
}
