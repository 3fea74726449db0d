package gormdb

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/common"
	"github.com/ternarybob/pdfextractor/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB manages the relational database connection
type DB struct {
	db     *gorm.DB
	logger arbor.ILogger
	kind   string
}

// NewDB opens the database selected by config.Type (postgres or sqlite) and migrates the schema
func NewDB(logger arbor.ILogger, config *common.StorageConfig) (*DB, error) {
	var dialector gorm.Dialector

	switch config.Type {
	case common.StorageTypePostgres:
		logger.Debug().Msg("Opening Postgres database connection")
		dialector = postgres.Open(config.DatabaseURL)

	case common.StorageTypeSQLite:
		dir := filepath.Dir(config.SQLite.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		logger.Debug().Str("path", config.SQLite.Path).Msg("Opening SQLite database connection")
		// Foreign keys are off by default in SQLite; cascades depend on them
		dsn := config.SQLite.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		dialector = sqlite.Open(dsn)

	default:
		return nil, fmt.Errorf("unsupported relational storage type: %s", config.Type)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:  newGormLogger(logger, 500*time.Millisecond),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", config.Type, err)
	}

	d := &DB{
		db:     gdb,
		logger: logger,
		kind:   config.Type,
	}

	if err := d.migrate(); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Str("type", config.Type).Msg("Relational database initialized")
	return d, nil
}

// migrate creates or updates the document tables
func (d *DB) migrate() error {
	return d.db.AutoMigrate(
		&models.Document{},
		&models.TextContent{},
		&models.Table{},
		&models.Image{},
	)
}

// Gorm returns the underlying gorm handle
func (d *DB) Gorm() *gorm.DB {
	return d.db
}

// Close closes the database connection
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
