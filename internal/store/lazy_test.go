package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/olla-del-barrio/dish-sync/internal/domain"
)

func TestLazyStore_RetriesAfterFailedConnect(t *testing.T) {
	db := initSQLiteTestDB(t)
	ctx := context.Background()

	var attempts atomic.Int32
	s := NewLazyStore(func(context.Context) (*gorm.DB, error) {
		if attempts.Add(1) == 1 {
			return nil, errors.New("connection refused")
		}
		return db, nil
	})

	err := s.Ping(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.UpsertDishes(ctx, []domain.Dish{buildMinimalDish("page-1")}, 0))

	count, err := s.CountDishes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Connected stores do not connect again
	assert.Equal(t, int32(2), attempts.Load())
}

func TestLazyStore_UpsertWithoutConnectionIsWriteError(t *testing.T) {
	s := NewLazyStore(func(context.Context) (*gorm.DB, error) {
		return nil, errors.New("no route to host")
	})

	err := s.UpsertDishes(context.Background(), []domain.Dish{buildMinimalDish("page-1")}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWrite)
}

func TestLazyStore_ConcurrentConnectDoesNotWait(t *testing.T) {
	db := initSQLiteTestDB(t)

	started := make(chan struct{})
	release := make(chan struct{})
	s := NewLazyStore(func(context.Context) (*gorm.DB, error) {
		close(started)
		<-release
		return db, nil
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Ping(context.Background())
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("connect was not called")
	}

	assert.ErrorIs(t, s.Ping(context.Background()), ErrConnecting)

	close(release)
	require.NoError(t, <-errCh)
	require.NoError(t, s.Ping(context.Background()))
}

func TestLazyStore_CloseBeforeConnect(t *testing.T) {
	s := NewLazyStore(func(context.Context) (*gorm.DB, error) {
		t.Fatal("connect must not be called")
		return nil, nil
	})
	assert.NoError(t, s.Close())
}
