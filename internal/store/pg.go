package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/olla-del-barrio/dish-sync/internal/domain"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
	"github.com/olla-del-barrio/dish-sync/internal/store/schema"
)

// dishContentColumns are replaced on conflict. id and created_at are kept from the first insert.
var dishContentColumns = []string{
	"name",
	"description",
	"category",
	"image_url",
	"is_available",
	"status",
	"price_cents",
	"rating",
	"featured",
	"producer_id",
	"preparation_time_minutes",
	"tags",
	"chef_name",
	"chef_bio",
	"ingredients",
	"story",
	"serving_size",
	"spice_level",
	"calories",
	"difficulty",
	"source_last_edited_at",
}

// dishFieldsPerRecord is the number of bound parameters one dish row takes: content columns plus id and created_at
var dishFieldsPerRecord = len(dishContentColumns) + 2

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 5 (if 0)
//   - MaxIdleConns: 2 (if 0)
//   - ConnMaxLifetime: 1 hour (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// The sync holds one connection for the upsert transaction and a few for
// producer lookups, so the defaults are small.
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	// Set defaults if not provided
	if maxOpenConns <= 0 {
		maxOpenConns = 5
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 2
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = time.Hour
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// calculateSafeBatchSize computes the batch size for bulk inserts that stays under
// PostgreSQL's limit of 65535 bound parameters per statement.
//
// Each record consumes one parameter per inserted column, and the ON CONFLICT
// clause plus GORM bookkeeping take a fixed amount per batch, reserved as headroom.
//
// Example with headroom of 1000:
//   - Dish row: 23 fields → (65,535 - 1,000) / 23 = 2,805 records/batch
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000 // Total parameter headroom for batch-level overhead

	// Reserve headroom from total available parameters
	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/fieldsPerRecord, 1)

	if safeBatchSize > totalRecords {
		return totalRecords
	}

	return safeBatchSize
}

// UpsertDishes writes the batch in a single transaction so a failed chunk rolls back the whole run.
// Errors wrap domain.ErrWrite.
func (s *pgStore) UpsertDishes(ctx context.Context, dishes []domain.Dish, chunkSize int) error {
	if len(dishes) == 0 {
		return nil
	}

	rows := make([]schema.Dish, 0, len(dishes))
	for _, d := range dishes {
		if d.ID == "" {
			return fmt.Errorf("%w: dish without id", domain.ErrWrite)
		}
		rows = append(rows, toSchemaDish(d))
	}

	batchSize := calculateSafeBatchSize(len(rows), dishFieldsPerRecord)
	if chunkSize > 0 && chunkSize < batchSize {
		batchSize = chunkSize
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(dishContentColumns),
		}).CreateInBatches(&rows, batchSize).Error
	})
	if err != nil {
		return fmt.Errorf("%w: failed to upsert %d dishes: %w", domain.ErrWrite, len(rows), err)
	}

	logger.DebugCtx(ctx, "Upserted dishes", zap.Int("count", len(rows)), zap.Int("batchSize", batchSize))
	return nil
}

// GetDishesByIDs retrieves dishes by id, ordered by id
func (s *pgStore) GetDishesByIDs(ctx context.Context, ids []string) ([]domain.Dish, error) {
	if len(ids) == 0 {
		return []domain.Dish{}, nil
	}

	var rows []schema.Dish
	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get dishes: %w", err)
	}

	dishes := make([]domain.Dish, 0, len(rows))
	for _, row := range rows {
		dishes = append(dishes, toDomainDish(row))
	}
	return dishes, nil
}

// CountDishes returns the number of rows in the dishes table
func (s *pgStore) CountDishes(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&schema.Dish{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count dishes: %w", err)
	}
	return count, nil
}

// GetProducerIDByBusinessName retrieves the producer with exactly this business name.
// When several producers share a name the oldest wins.
func (s *pgStore) GetProducerIDByBusinessName(ctx context.Context, name string) (*string, error) {
	var producers []schema.Producer
	err := s.db.WithContext(ctx).
		Select("id").
		Where("business_name = ?", name).
		Order("created_at ASC, id ASC").
		Limit(1).
		Find(&producers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get producer: %w", err)
	}

	if len(producers) == 0 {
		return nil, nil
	}

	id := producers[0].ID
	return &id, nil
}

// GetProducerIDsByBusinessNames retrieves producer ids for the names that match, with the same
// tie-break as GetProducerIDByBusinessName
func (s *pgStore) GetProducerIDsByBusinessNames(ctx context.Context, names []string) (map[string]string, error) {
	result := make(map[string]string)
	if len(names) == 0 {
		return result, nil
	}

	var producers []schema.Producer
	err := s.db.WithContext(ctx).
		Select("id", "business_name").
		Where("business_name IN ?", names).
		Order("business_name ASC, created_at ASC, id ASC").
		Find(&producers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get producers: %w", err)
	}

	for _, p := range producers {
		if _, exists := result[p.BusinessName]; !exists {
			result[p.BusinessName] = p.ID
		}
	}
	return result, nil
}

// Ping checks the database connection
func (s *pgStore) Ping(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func toSchemaDish(d domain.Dish) schema.Dish {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}

	var edited *time.Time
	if d.SourceLastEditedAt != nil {
		t := d.SourceLastEditedAt.UTC()
		edited = &t
	}

	return schema.Dish{
		ID:                     d.ID,
		Name:                   d.Name,
		Description:            d.Description,
		Category:               d.Category,
		ImageURL:               d.ImageURL,
		IsAvailable:            d.IsAvailable,
		Status:                 d.Status,
		PriceCents:             d.PriceCents,
		Rating:                 d.Rating,
		Featured:               d.Featured,
		ProducerID:             d.ProducerID,
		PreparationTimeMinutes: d.PreparationTimeMinutes,
		Tags:                   datatypes.JSONSlice[string](tags),
		ChefName:               d.ChefName,
		ChefBio:                d.ChefBio,
		Ingredients:            d.Ingredients,
		Story:                  d.Story,
		ServingSize:            d.ServingSize,
		SpiceLevel:             d.SpiceLevel,
		Calories:               d.Calories,
		Difficulty:             d.Difficulty,
		SourceLastEditedAt:     edited,
	}
}

func toDomainDish(row schema.Dish) domain.Dish {
	tags := []string(row.Tags)
	if tags == nil {
		tags = []string{}
	}

	var edited *time.Time
	if row.SourceLastEditedAt != nil {
		t := row.SourceLastEditedAt.UTC()
		edited = &t
	}

	return domain.Dish{
		ID:                     row.ID,
		Name:                   row.Name,
		Description:            row.Description,
		Category:               row.Category,
		ImageURL:               row.ImageURL,
		IsAvailable:            row.IsAvailable,
		Status:                 row.Status,
		PriceCents:             row.PriceCents,
		PreparationTimeMinutes: row.PreparationTimeMinutes,
		Rating:                 row.Rating,
		ProducerID:             row.ProducerID,
		Featured:               row.Featured,
		Tags:                   tags,
		ChefName:               row.ChefName,
		ChefBio:                row.ChefBio,
		Ingredients:            row.Ingredients,
		Story:                  row.Story,
		ServingSize:            row.ServingSize,
		SpiceLevel:             row.SpiceLevel,
		Calories:               row.Calories,
		Difficulty:             row.Difficulty,
		SourceLastEditedAt:     edited,
	}
}
