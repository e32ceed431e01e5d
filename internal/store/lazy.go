package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"gorm.io/gorm"

	"github.com/olla-del-barrio/dish-sync/internal/domain"
)

// ErrConnecting is returned while another caller is establishing the connection
var ErrConnecting = errors.New("database connection in progress")

var _ Store = (*LazyStore)(nil)

// ConnectFunc opens the database
type ConnectFunc func(ctx context.Context) (*gorm.DB, error)

// LazyStore is a Store that connects on first use. A failed connection is not
// cached, so the next call (normally the next sync run) tries again.
type LazyStore struct {
	connect ConnectFunc

	connecting sync.Mutex
	store      atomic.Pointer[pgStore]
}

// NewLazyStore creates a store that opens its connection with connect on first use
func NewLazyStore(connect ConnectFunc) *LazyStore {
	return &LazyStore{connect: connect}
}

// get returns the connected store, connecting if needed.
// Only one caller connects at a time; the others get ErrConnecting instead of waiting.
func (s *LazyStore) get(ctx context.Context) (*pgStore, error) {
	if st := s.store.Load(); st != nil {
		return st, nil
	}

	if !s.connecting.TryLock() {
		return nil, ErrConnecting
	}
	defer s.connecting.Unlock()

	if st := s.store.Load(); st != nil {
		return st, nil
	}

	db, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	st := &pgStore{db: db}
	s.store.Store(st)
	return st, nil
}

// Close closes the connection if one was opened
func (s *LazyStore) Close() error {
	st := s.store.Load()
	if st == nil {
		return nil
	}

	sqlDB, err := st.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func (s *LazyStore) UpsertDishes(ctx context.Context, dishes []domain.Dish, chunkSize int) error {
	st, err := s.get(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWrite, err)
	}
	return st.UpsertDishes(ctx, dishes, chunkSize)
}

func (s *LazyStore) GetDishesByIDs(ctx context.Context, ids []string) ([]domain.Dish, error) {
	st, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return st.GetDishesByIDs(ctx, ids)
}

func (s *LazyStore) CountDishes(ctx context.Context) (int64, error) {
	st, err := s.get(ctx)
	if err != nil {
		return 0, err
	}
	return st.CountDishes(ctx)
}

func (s *LazyStore) GetProducerIDByBusinessName(ctx context.Context, name string) (*string, error) {
	st, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return st.GetProducerIDByBusinessName(ctx, name)
}

func (s *LazyStore) GetProducerIDsByBusinessNames(ctx context.Context, names []string) (map[string]string, error) {
	st, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return st.GetProducerIDsByBusinessNames(ctx, names)
}

// Ping connects if needed and checks the connection
func (s *LazyStore) Ping(ctx context.Context) error {
	st, err := s.get(ctx)
	if err != nil {
		return err
	}
	return st.Ping(ctx)
}
