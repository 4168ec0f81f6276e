package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Object is the row layout of the objects table. Documents are JSON, so the
// body is kept in a JSON column.
type Object struct {
	Key         string         `gorm:"type:varchar(512);primaryKey"`
	ContentType string         `gorm:"type:varchar(128);not null"`
	Data        datatypes.JSON `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the database table name for Object.
func (Object) TableName() string { return "objects" }

// SQLBucket stores objects in a single table through GORM.
type SQLBucket struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) a SQLite database, applies PRAGMAs and pool
// settings, and installs the OpenTelemetry GORM plugin.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Use(tracing.NewPlugin()); err != nil {
		return nil, fmt.Errorf("gorm tracing: %w", err)
	}
	return db, nil
}

// NewSQLBucket opens the database at path and migrates the objects table.
func NewSQLBucket(path string) (*SQLBucket, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return NewSQLBucketFromDB(db)
}

// NewSQLBucketFromDB wraps an existing handle and migrates the objects table.
func NewSQLBucketFromDB(db *gorm.DB) (*SQLBucket, error) {
	if err := db.AutoMigrate(&Object{}); err != nil {
		return nil, fmt.Errorf("migrate objects: %w", err)
	}
	return &SQLBucket{db: db}, nil
}

// Exists counts rows with the given key.
func (b *SQLBucket) Exists(ctx context.Context, key string) (bool, error) {
	var n int64
	err := b.db.WithContext(ctx).
		Model(&Object{}).
		Where("key = ?", key).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", key, err)
	}
	return n > 0, nil
}

// Get returns the stored body.
func (b *SQLBucket) Get(ctx context.Context, key string) ([]byte, error) {
	var obj Object
	err := b.db.WithContext(ctx).
		Where("key = ?", key).
		First(&obj).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get %s: %w", key, ErrObjectNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(obj.Data), nil
}

// Put upserts the row for key.
func (b *SQLBucket) Put(ctx context.Context, key string, data []byte, contentType string) error {
	obj := &Object{
		Key:         key,
		ContentType: contentType,
		Data:        datatypes.JSON(data),
	}
	err := b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"content_type", "data", "updated_at"}),
		}).
		Create(obj).Error
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (b *SQLBucket) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
