package cmd

import (
	"fmt"
	"strings"

	"weeklog/config"
	"weeklog/entries"
	"weeklog/internal/logger"
	"weeklog/storage"
)

// app bundles what most commands need: validated config, a logger, the
// selected store and the entry service on top of it.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	store   storage.Store
	service *entries.Service
}

func openApp() (*app, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dbPath) != "" {
		cfg.Storage.Driver = config.DriverSQLite
		cfg.Storage.Path = dbPath
	}

	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		log.Sync()
		return nil, err
	}
	log.Debug("store opened", "driver", cfg.Storage.Driver, "path", cfg.Storage.Path, "dsn", cfg.Storage.DSN)

	return &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		service: entries.NewService(store, rules, entries.WithLogger(log)),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("close store failed", "error", err)
	}
	a.log.Sync()
}

func requireActingUser(id int64) error {
	if id <= 0 {
		return fmt.Errorf("--as is required and must be > 0")
	}
	return nil
}
