package bootstrap

import (
	"fmt"

	"listening-notes-be/internal/config"
	"listening-notes-be/internal/repository/badgerstore"
	"listening-notes-be/internal/repository/contract"
	"listening-notes-be/internal/repository/implementation"
	"listening-notes-be/internal/repository/memory"
	"listening-notes-be/internal/repository/redisstore"
	"listening-notes-be/pkg/database"
)

// OpenNoteRepository opens the document store selected by cfg.Driver and
// returns it with a function that releases its resources.
func OpenNoteRepository(cfg config.StoreConfig) (contract.NoteRepository, func() error, error) {
	switch cfg.Driver {
	case config.StoreDriverMemory, "":
		return memory.NewNoteRepository(), func() error { return nil }, nil

	case config.StoreDriverPostgres:
		if cfg.Connection == "" {
			return nil, nil, fmt.Errorf("store driver %q requires DB_CONNECTION_STRING", cfg.Driver)
		}
		gormDB, err := database.NewGormDBFromDSN(cfg.Connection, cfg.MaxOpenConns)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to connect to GORM DB: %w", err)
		}
		if cfg.AutoMigrate {
			if err := database.AutoMigrate(gormDB); err != nil {
				return nil, nil, fmt.Errorf("auto migrate: %w", err)
			}
		}
		closeDB := func() error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return implementation.NewNoteRepository(gormDB), closeDB, nil

	case config.StoreDriverRedis:
		repo, err := redisstore.NewNoteRepositoryFromURL(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil

	case config.StoreDriverBadger:
		repo, err := badgerstore.Open(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
