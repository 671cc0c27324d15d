package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stahnma/puppet-dashboard/internal/config"
	"github.com/stahnma/puppet-dashboard/internal/logging"
	"github.com/stahnma/puppet-dashboard/internal/models"
	"github.com/stahnma/puppet-dashboard/internal/version"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DefaultBootLimit = 20
	MaxBootLimit     = 200
)

func Open(cfg *config.Config, logger logging.Logger) (*gorm.DB, error) {
	var gormLevel gormlogger.LogLevel
	switch strings.ToLower(logging.GetLevel()) {
	case "debug":
		gormLevel = gormlogger.Info // SQL traces only at debug
	case "error", "fatal":
		gormLevel = gormlogger.Error
	default:
		gormLevel = gormlogger.Warn
	}

	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(cfg.DBDriver)) {
	case "postgres", "postgresql":
		if cfg.DBDsn == "" {
			return nil, &os.PathError{Op: "open", Path: "DATABASE_URL/DB_DSN", Err: os.ErrInvalid}
		}
		dialector = postgres.Open(cfg.DBDsn)
		logger.Info("db connect", "driver", "postgres")
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(cfg.DBPath)
		logger.Info("db connect", "driver", "sqlite", "path", cfg.DBPath)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(logger, gormLevel)})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := gdb.AutoMigrate(&models.Boot{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return gdb, nil
}

// RecordBoot stores the version this process started with.
func RecordBoot(ctx context.Context, gdb *gorm.DB, res version.Result) (*models.Boot, error) {
	host, _ := os.Hostname()
	b := &models.Boot{
		Version:   res.String(),
		Source:    string(res.Source),
		Hostname:  host,
		PID:       os.Getpid(),
		StartedAt: time.Now().UTC(),
	}
	if err := gdb.WithContext(ctx).Create(b).Error; err != nil {
		return nil, fmt.Errorf("record boot: %w", err)
	}
	return b, nil
}

// RecentBoots lists boots newest first. limit is clamped to [1, MaxBootLimit];
// zero or negative means DefaultBootLimit.
func RecentBoots(ctx context.Context, gdb *gorm.DB, limit int) ([]models.Boot, error) {
	if limit <= 0 {
		limit = DefaultBootLimit
	}
	if limit > MaxBootLimit {
		limit = MaxBootLimit
	}
	var rows []models.Boot
	err := gdb.WithContext(ctx).Order("started_at desc").Order("id desc").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list boots: %w", err)
	}
	return rows, nil
}
