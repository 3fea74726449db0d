package badger

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/common"
	"github.com/ternarybob/pdfextractor/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// BadgerDB holds the embedded document store
type BadgerDB struct {
	store  *badgerhold.Store
	logger arbor.ILogger
	config *common.BadgerConfig
}

// NewBadgerDB opens the document store at config.Path. With ResetOnStartup
// every stored document and its artifacts are discarded first.
func NewBadgerDB(logger arbor.ILogger, config *common.BadgerConfig) (*BadgerDB, error) {
	if strings.TrimSpace(config.Path) == "" {
		return nil, fmt.Errorf("badger document store path is required (storage.badger.path)")
	}

	if config.ResetOnStartup {
		if _, err := os.Stat(config.Path); err == nil {
			logger.Warn().Str("path", config.Path).Msg("Discarding stored documents (reset_on_startup=true)")
			if err := os.RemoveAll(config.Path); err != nil {
				return nil, fmt.Errorf("failed to reset document store: %w", err)
			}
		}
	}

	if err := os.MkdirAll(config.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create document store directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = config.Path
	options.ValueDir = config.Path
	options.Logger = nil // arbor does the logging

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}

	db := &BadgerDB{
		store:  store,
		logger: logger,
		config: config,
	}

	documents, err := db.DocumentCount()
	if err != nil {
		store.Close()
		return nil, err
	}

	logger.Info().
		Str("path", config.Path).
		Bool("reset_on_startup", config.ResetOnStartup).
		Int("documents", documents).
		Msg("Badger document store opened")

	return db, nil
}

// DocumentCount reports how many documents the store holds
func (b *BadgerDB) DocumentCount() (int, error) {
	count, err := b.store.Count(&models.Document{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return int(count), nil
}

// Path is the directory backing the store
func (b *BadgerDB) Path() string {
	return b.config.Path
}

// Store returns the underlying badgerhold store
func (b *BadgerDB) Store() *badgerhold.Store {
	return b.store
}

func (b *BadgerDB) Close() error {
	if b.store != nil {
		b.logger.Debug().Str("path", b.config.Path).Msg("Closing Badger document store")
		return b.store.Close()
	}
	return nil
}
