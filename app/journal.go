package app

import (
	"fmt"

	"github.com/kilianp07/brigade/config"
	"github.com/kilianp07/brigade/core/dispatch/logging"
)

// OpenJournal opens the batch journal selected by cfg, wrapped in a query
// cache when cfg.CacheTTL is set.
func OpenJournal(cfg config.JournalConfig) (logging.LogStore, error) {
	var (
		store logging.LogStore
		err   error
	)
	switch cfg.Backend {
	case "none":
		return logging.NopStore{}, nil
	case "sqlite":
		store, err = logging.NewSQLiteStore(cfg.Path)
	case "jsonl", "":
		if cfg.MaxSizeMB > 0 {
			store, err = logging.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
		} else {
			store, err = logging.NewJSONLStore(cfg.Path)
		}
	default:
		return nil, fmt.Errorf("unknown journal backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if cfg.CacheTTL > 0 {
		store = logging.NewCachedStore(store, cfg.CacheTTL)
	}
	return store, nil
}
