package storage

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/common"
	"github.com/ternarybob/pdfextractor/internal/interfaces"
	"github.com/ternarybob/pdfextractor/internal/storage/badger"
	"github.com/ternarybob/pdfextractor/internal/storage/gormdb"
)

// NewStorageManager creates a new storage manager based on config
func NewStorageManager(logger arbor.ILogger, config *common.Config) (interfaces.StorageManager, error) {
	switch config.Storage.Type {
	case common.StorageTypePostgres, common.StorageTypeSQLite:
		return gormdb.NewManager(logger, &config.Storage)
	case common.StorageTypeBadger:
		return badger.NewManager(logger, &config.Storage.Badger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s (expected postgres, sqlite or badger)", config.Storage.Type)
	}
}
