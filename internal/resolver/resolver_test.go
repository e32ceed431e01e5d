package resolver_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olla-del-barrio/dish-sync/internal/domain"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
	"github.com/olla-del-barrio/dish-sync/internal/mocks"
	"github.com/olla-del-barrio/dish-sync/internal/resolver"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const (
	producerID = "6f1c2b9e-3d4a-4c1e-9b7f-2a5d8e0c1f11"
	fallbackID = "0b8e7d6c-5a4f-4e3d-8c2b-1a0f9e8d7c66"
)

func setupTestResolver(t *testing.T, fallback string) (*mocks.MockProducerLookup, *resolver.Resolver) {
	ctrl := gomock.NewController(t)
	lookup := mocks.NewMockProducerLookup(ctrl)
	return lookup, resolver.New(lookup, fallback)
}

func idPtr(id string) *string {
	return &id
}

func TestResolve_EmptyName(t *testing.T) {
	t.Run("with fallback", func(t *testing.T) {
		_, r := setupTestResolver(t, fallbackID)

		res, err := r.Resolve(context.Background(), "   ")
		require.NoError(t, err)
		assert.False(t, res.Unresolved)
		assert.Nil(t, res.Err)
		require.NotNil(t, res.ProducerID)
		assert.Equal(t, fallbackID, *res.ProducerID)
	})

	t.Run("without fallback", func(t *testing.T) {
		_, r := setupTestResolver(t, "")

		res, err := r.Resolve(context.Background(), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		assert.False(t, res.Unresolved)
		assert.Nil(t, res.ProducerID)
	})
}

func TestResolve_Match(t *testing.T) {
	lookup, r := setupTestResolver(t, fallbackID)

	lookup.EXPECT().
		GetProducerIDByBusinessName(gomock.Any(), "Doña Rosa").
		Return(idPtr(producerID), nil)

	res, err := r.Resolve(context.Background(), "  Doña Rosa ")
	require.NoError(t, err)
	assert.False(t, res.Unresolved)
	require.NotNil(t, res.ProducerID)
	assert.Equal(t, producerID, *res.ProducerID)
}

func TestResolve_NoMatchWithFallback(t *testing.T) {
	lookup, r := setupTestResolver(t, fallbackID)

	lookup.EXPECT().
		GetProducerIDByBusinessName(gomock.Any(), "Cocina Fantasma").
		Return(nil, nil)

	res, err := r.Resolve(context.Background(), "Cocina Fantasma")
	require.NoError(t, err)
	assert.True(t, res.Unresolved)
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, domain.ErrReferenceUnresolved)
	assert.Contains(t, res.Err.Error(), "Cocina Fantasma")
	require.NotNil(t, res.ProducerID)
	assert.Equal(t, fallbackID, *res.ProducerID)
}

func TestResolve_NoMatchWithoutFallback(t *testing.T) {
	lookup, r := setupTestResolver(t, "")

	lookup.EXPECT().
		GetProducerIDByBusinessName(gomock.Any(), "Cocina Fantasma").
		Return(nil, nil)

	res, err := r.Resolve(context.Background(), "Cocina Fantasma")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.ErrorIs(t, err, domain.ErrReferenceUnresolved)
	assert.True(t, res.Unresolved)
	assert.Nil(t, res.ProducerID)
}

func TestResolve_LookupError(t *testing.T) {
	lookup, r := setupTestResolver(t, fallbackID)
	lookupErr := errors.New("connection refused")

	lookup.EXPECT().
		GetProducerIDByBusinessName(gomock.Any(), "Doña Rosa").
		Return(nil, lookupErr).
		Times(2)

	for i := 0; i < 2; i++ {
		res, err := r.Resolve(context.Background(), "Doña Rosa")
		require.NoError(t, err)
		assert.True(t, res.Unresolved)
		assert.ErrorIs(t, res.Err, domain.ErrReferenceUnresolved)
		assert.ErrorIs(t, res.Err, lookupErr)
		require.NotNil(t, res.ProducerID)
		assert.Equal(t, fallbackID, *res.ProducerID)
	}
}

func TestResolve_CachesHitsAndMisses(t *testing.T) {
	lookup, r := setupTestResolver(t, fallbackID)
	ctx := context.Background()

	lookup.EXPECT().
		GetProducerIDByBusinessName(gomock.Any(), "Doña Rosa").
		Return(idPtr(producerID), nil).
		Times(1)
	lookup.EXPECT().
		GetProducerIDByBusinessName(gomock.Any(), "Cocina Fantasma").
		Return(nil, nil).
		Times(1)

	for i := 0; i < 3; i++ {
		res, err := r.Resolve(ctx, "Doña Rosa")
		require.NoError(t, err)
		assert.Equal(t, producerID, *res.ProducerID)

		res, err = r.Resolve(ctx, "Cocina Fantasma")
		require.NoError(t, err)
		assert.True(t, res.Unresolved)
	}
}

func TestResolve_ReturnsCopies(t *testing.T) {
	lookup, r := setupTestResolver(t, fallbackID)
	ctx := context.Background()

	lookup.EXPECT().
		GetProducerIDByBusinessName(gomock.Any(), "Doña Rosa").
		Return(idPtr(producerID), nil)

	first, err := r.Resolve(ctx, "Doña Rosa")
	require.NoError(t, err)
	*first.ProducerID = "mutated"

	second, err := r.Resolve(ctx, "Doña Rosa")
	require.NoError(t, err)
	assert.Equal(t, producerID, *second.ProducerID)

	fb, err := r.Resolve(ctx, "")
	require.NoError(t, err)
	*fb.ProducerID = "mutated"
	fb, err = r.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, fallbackID, *fb.ProducerID)
}

func TestPrefetch(t *testing.T) {
	lookup, r := setupTestResolver(t, fallbackID)
	ctx := context.Background()

	lookup.EXPECT().
		GetProducerIDsByBusinessNames(gomock.Any(), []string{"Doña Rosa", "Cocina Fantasma"}).
		Return(map[string]string{"Doña Rosa": producerID}, nil)

	r.Prefetch(ctx, []string{"Doña Rosa", "", " Doña Rosa ", "Cocina Fantasma", "  "})

	// No per-name lookups follow: hits and misses are both cached
	res, err := r.Resolve(ctx, "Doña Rosa")
	require.NoError(t, err)
	assert.False(t, res.Unresolved)
	assert.Equal(t, producerID, *res.ProducerID)

	res, err = r.Resolve(ctx, "Cocina Fantasma")
	require.NoError(t, err)
	assert.True(t, res.Unresolved)
	assert.Equal(t, fallbackID, *res.ProducerID)
}

func TestPrefetch_NoNames(t *testing.T) {
	_, r := setupTestResolver(t, fallbackID)
	r.Prefetch(context.Background(), []string{"", "  "})
	r.Prefetch(context.Background(), nil)
}

func TestPrefetch_FailureFallsBackToLookups(t *testing.T) {
	lookup, r := setupTestResolver(t, fallbackID)
	ctx := context.Background()

	lookup.EXPECT().
		GetProducerIDsByBusinessNames(gomock.Any(), []string{"Doña Rosa"}).
		Return(nil, errors.New("timeout"))
	lookup.EXPECT().
		GetProducerIDByBusinessName(gomock.Any(), "Doña Rosa").
		Return(idPtr(producerID), nil)

	r.Prefetch(ctx, []string{"Doña Rosa"})

	res, err := r.Resolve(ctx, "Doña Rosa")
	require.NoError(t, err)
	assert.False(t, res.Unresolved)
	assert.Equal(t, producerID, *res.ProducerID)
}

func TestResolve_Concurrent(t *testing.T) {
	lookup, r := setupTestResolver(t, fallbackID)
	ctx := context.Background()

	lookup.EXPECT().
		GetProducerIDsByBusinessNames(gomock.Any(), gomock.Any()).
		Return(map[string]string{"a": "id-a", "b": "id-b"}, nil)
	r.Prefetch(ctx, []string{"a", "b", "c"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := []string{"a", "b", "c"}[i%3]
			res, err := r.Resolve(ctx, name)
			assert.NoError(t, err)
			assert.NotNil(t, res.ProducerID)
		}(i)
	}
	wg.Wait()
}
