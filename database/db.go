package database

import (
	"context"
	"fmt"
	"time"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/config"
	applogger "github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectAttempts = 5
	connectDelay    = 2 * time.Second
)

// Connect opens the Postgres pool described by cfg, retrying while the
// server is still coming up.
func Connect(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return connectWithRetry(func() (*gorm.DB, error) {
		return Open(postgres.Open(cfg.DSN()), cfg, logger)
	}, connectAttempts, connectDelay, logger)
}

// Open opens a GORM handle on dialector and applies the pool settings.
func Open(dialector gorm.Dialector, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			zap.NewStdLog(logger),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  applogger.GormLevel(cfg.Env),
				IgnoreRecordNotFoundError: true,
			},
		),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	return db, nil
}

func connectWithRetry(open func() (*gorm.DB, error), attempts int, delay time.Duration, logger *zap.Logger) (*gorm.DB, error) {
	var err error
	for i := 0; i < attempts; i++ {
		var db *gorm.DB
		if db, err = open(); err == nil {
			logger.Info("Connected to PostgreSQL")
			return db, nil
		}
		logger.Warn("DB connection failed, retrying",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return nil, fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %w", attempts, err)
}

// Ping checks that the database answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// ServerVersion returns the Postgres server version string.
func ServerVersion(ctx context.Context, db *gorm.DB) (string, error) {
	var version string
	if err := db.WithContext(ctx).Raw("SELECT version()").Scan(&version).Error; err != nil {
		return "", err
	}
	return version, nil
}
