package storage

import (
	"complainthub/backend/internal/config"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenPostgres connects to PostgreSQL with opts and returns the gorm-backed store.
func OpenPostgres(opts config.DatabaseOptions) (*Service, error) {
	return OpenPostgresDSN(opts.DSN())
}

// OpenPostgresDSN accepts both keyword/value and URL style DSNs.
func OpenPostgresDSN(dsn string) (*Service, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "storage: connect postgres")
	}
	return NewStorageService(db), nil
}

// Open returns the store selected by opts.Driver. The postgres store is migrated
// before it is returned.
func Open(opts config.DatabaseOptions) (Storage, error) {
	switch opts.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "", "postgres":
		s, err := OpenPostgres(opts)
		if err != nil {
			return nil, err
		}
		if err := s.AutoMigrate(); err != nil {
			return nil, pkgerrors.Wrap(err, "storage: migrate")
		}
		return s, nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}
