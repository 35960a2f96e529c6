package client

import (
	"course-marketplace/internal/model"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDBClient opens the database named by databaseURL ("sqlite://<path>" or
// "mysql://<dsn>") and migrates the schema.
func InitDBClient(databaseURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(databaseURL, "sqlite://"):
		dialector = sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://"))
	case strings.HasPrefix(databaseURL, "mysql://"):
		dialector = mysql.Open(strings.TrimPrefix(databaseURL, "mysql://"))
	default:
		return nil, fmt.Errorf("unsupported database url %q", databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(slog.Default()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool (important for provider notifications)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Lesson{},
		&model.Enrollment{},
		&model.CheckoutSession{},
		&model.WebhookEvent{},
		&model.Notification{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return db, nil
}

// newGormLogger writes gorm's slow query and error lines through log.
// Misses are normal lookups and are not logged.
func newGormLogger(log *slog.Logger) logger.Interface {
	return logger.New(slog.NewLogLogger(log.Handler(), slog.LevelWarn), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
