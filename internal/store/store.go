package store

import (
	"context"

	"github.com/olla-del-barrio/dish-sync/internal/domain"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// UpsertDishes writes all dishes in one transaction, inserting new ids and replacing existing ones.
	// chunkSize bounds the rows per statement; 0 lets the store choose.
	UpsertDishes(ctx context.Context, dishes []domain.Dish, chunkSize int) error
	// GetDishesByIDs retrieves dishes by id, ordered by id
	GetDishesByIDs(ctx context.Context, ids []string) ([]domain.Dish, error)
	// CountDishes returns the number of rows in the dishes table
	CountDishes(ctx context.Context) (int64, error)
	// GetProducerIDByBusinessName retrieves the producer with exactly this business name, nil if none
	GetProducerIDByBusinessName(ctx context.Context, name string) (*string, error)
	// GetProducerIDsByBusinessNames retrieves producer ids keyed by business name for the names that match
	GetProducerIDsByBusinessNames(ctx context.Context, names []string) (map[string]string, error)
	// Ping checks the database connection
	Ping(ctx context.Context) error
}
