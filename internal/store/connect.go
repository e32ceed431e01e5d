package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/olla-del-barrio/dish-sync/internal/config"
	"github.com/olla-del-barrio/dish-sync/internal/logger"
)

// Connect opens the PostgreSQL database, retrying with exponential backoff
// until cfg.ConnectTimeout elapses, and configures the connection pool.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = cfg.ConnectTimeout
	if b.MaxElapsedTime <= 0 {
		b.MaxElapsedTime = 30 * time.Second
	}

	var db *gorm.DB
	operation := func() error {
		// The ping below honors ctx; gorm's own ping would not
		conn, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
			DisableAutomaticPing: true,
		})
		if err != nil {
			return err
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return err
		}

		db = conn
		return nil
	}

	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Database connection failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", duration),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notifyOnError); err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attemptCount+1, err)
	}

	if err := ConfigureConnectionPool(db, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime); err != nil {
		return nil, err
	}

	return db, nil
}
