package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mmcdole/grimoire/internal/adapter"
	"github.com/mmcdole/grimoire/internal/auth"
	"github.com/mmcdole/grimoire/internal/catalog"
	"github.com/mmcdole/grimoire/internal/domain"
	"github.com/mmcdole/grimoire/internal/favourites"
	"github.com/mmcdole/grimoire/internal/library"
	"github.com/mmcdole/grimoire/internal/query"
	"github.com/mmcdole/grimoire/internal/router"
	"github.com/mmcdole/grimoire/internal/store"
	"github.com/mmcdole/grimoire/internal/wizardapi"
)

// favouriteKinds are the collections that can be favourited
var favouriteKinds = []domain.Kind{domain.KindSpells, domain.KindElixirs, domain.KindWizards}

// app owns every long-lived dependency. Commands build one, use the parts
// they need, and close it.
type app struct {
	cfg        *adapter.Config
	logger     *slog.Logger
	store      *store.Store
	cache      *query.Cache
	library    *library.Service
	catalog    *catalog.Catalog
	auth       *auth.Store
	router     *router.Router
	favourites map[domain.Kind]*favourites.Store

	logCloser io.Closer
}

func openApp(opts *globalOptions) (*app, error) {
	cfg, err := adapter.LoadConfig(adapter.LoadOptions{
		ConfigFile: opts.configFile,
		EnvFile:    opts.envFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.noCache {
		cfg.Cache.Dir = ""
	}

	logger, logCloser, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger, logCloser = adapter.NullLogger(), io.NopCloser(nil)
	}
	slog.SetDefault(logger)

	st, err := store.Open(cfg.Cache.Dir)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	client, err := wizardapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)
	if err != nil {
		st.Close()
		logCloser.Close()
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	logger.Debug("api client ready", "base_url", client.BaseURL(), "timeout", cfg.API.Timeout)

	cache := query.New(query.Options{
		Persister: st,
		Buster:    cfg.Cache.Buster,
		MaxAge:    cfg.Cache.MaxAge,
		Logger:    logger,
	})
	if n, err := cache.Restore(context.Background()); err != nil {
		logger.Warn("starting with an empty cache", "error", err)
	} else if n > 0 {
		logger.Info("restored cached queries", "entries", n)
	}

	lib := library.NewService(client, cache, library.Staleness{
		Collection: cfg.Cache.CollectionStaleTime,
		Item:       cfg.Cache.ItemStaleTime,
	}, logger)

	users := auth.DemoUsers()
	if cfg.Auth.UsersFile != "" {
		users, err = auth.LoadUsers(cfg.Auth.UsersFile)
		if err != nil {
			cache.Close()
			st.Close()
			logCloser.Close()
			return nil, err
		}
	}
	authStore := auth.NewStore(users, st, nil, logger)
	authStore.Init()
	r := router.New(authStore, logger)
	authStore.SetNavigator(r)

	favs := make(map[domain.Kind]*favourites.Store, len(favouriteKinds))
	for _, kind := range favouriteKinds {
		favs[kind] = favourites.New(st, string(kind), logger)
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		cache:      cache,
		library:    lib,
		catalog:    catalog.New(lib, logger),
		auth:       authStore,
		router:     r,
		favourites: favs,
		logCloser:  logCloser,
	}, nil
}

// Close stops background fetches and releases the database and log file.
func (a *app) Close() error {
	a.cache.Close()
	return errors.Join(a.store.Close(), a.logCloser.Close())
}
