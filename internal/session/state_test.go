package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"deepedu/internal/auth"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_StartsResolving(t *testing.T) {
	tr := NewTracker()
	st := tr.State()
	assert.True(t, st.Resolving)
	assert.Nil(t, st.User)
	assert.False(t, st.Authenticated())
}

func TestTracker_WaitReturnsOnResolve(t *testing.T) {
	tr := NewTracker()

	go func() {
		time.Sleep(10 * time.Millisecond)
		tr.Resolve(admin)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	st := tr.Wait(ctx)

	assert.False(t, st.Resolving)
	assert.True(t, st.Authenticated())
}

func TestTracker_WaitHonoursContext(t *testing.T) {
	tr := NewTracker()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	st := tr.Wait(ctx)

	assert.True(t, st.Resolving)
}

func TestTracker_ChangedIsClosedOnTransition(t *testing.T) {
	tr := NewTracker()
	ch := tr.Changed()

	tr.Resolve(nil)

	select {
	case <-ch:
	default:
		t.Fatal("changed channel not closed")
	}
	assert.NotEqual(t, ch, tr.Changed())
}

func TestTracker_ConcurrentWaiters(t *testing.T) {
	tr := NewTracker()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var wg sync.WaitGroup
	results := make([]State, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = tr.Wait(ctx)
		}(i)
	}
	tr.Resolve(admin)
	wg.Wait()

	for _, st := range results {
		assert.Equal(t, admin, st.User)
	}
}

func TestObserve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	provider := auth.NewMockProvider(ctrl)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	t.Run("resolves user", func(t *testing.T) {
		provider.EXPECT().Resolve(gomock.Any(), "tok").Return(admin, nil)
		tr := NewTracker()
		Observe(ctx, provider, "tok", tr)
		assert.Equal(t, admin, tr.Wait(ctx).User)
	})

	t.Run("provider error counts as no user", func(t *testing.T) {
		provider.EXPECT().Resolve(gomock.Any(), "expired").Return(nil, errors.New("token expired"))
		tr := NewTracker()
		Observe(ctx, provider, "expired", tr)
		st := tr.Wait(ctx)
		require.False(t, st.Resolving)
		assert.Nil(t, st.User)
	})

	t.Run("empty token resolves immediately", func(t *testing.T) {
		tr := NewTracker()
		Observe(ctx, provider, "", tr)
		st := tr.State()
		assert.False(t, st.Resolving)
		assert.Nil(t, st.User)
	})
}
