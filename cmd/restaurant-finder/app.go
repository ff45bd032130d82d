package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mainbong/restaurant_finder/internal/config"
	"github.com/mainbong/restaurant_finder/internal/filesystem"
	"github.com/mainbong/restaurant_finder/internal/layout"
	"github.com/mainbong/restaurant_finder/internal/logger"
	"github.com/mainbong/restaurant_finder/internal/places"
	"github.com/mainbong/restaurant_finder/internal/store"
	"github.com/mainbong/restaurant_finder/internal/website"
)

var errMissingAPIKey = errors.New("places API key is not set")

// app bundles the services shared by the CLI commands and the TUI.
type app struct {
	cfg       *config.Config
	client    *places.Client
	limited   *places.LimitedClient
	store     *store.Store
	toasts    *layout.Toasts
	modal     *layout.Modal
	previewer *website.Previewer
}

func newApp(cfg *config.Config, client *places.Client) *app {
	client.SetEndpoint(cfg.Places.Endpoint)
	limited := places.NewLimitedClient(client, places.NewDefaultRateLimiter())
	toasts := layout.NewToasts(layout.DefaultToastTTL)

	st := store.New(limited, toasts, store.SearchParams{
		Query:  cfg.Search.Query,
		Radius: cfg.Search.Radius,
		Sort:   cfg.SortKey(),
	})
	st.SetLimit(cfg.Search.Limit)

	return &app{
		cfg:       cfg,
		client:    client,
		limited:   limited,
		store:     st,
		toasts:    toasts,
		modal:     layout.NewModal(),
		previewer: website.NewPreviewer(),
	}
}

func (a *app) requireAPIKey() error {
	if a.cfg.Places.APIKey == "" {
		return fmt.Errorf("%w: run `restaurant-finder config set places.api_key <key>` or export %s", errMissingAPIKey, config.PlacesKeyEnv)
	}
	return nil
}

// applyConfig takes over a reloaded config and reports whether the search
// results depend on something that changed.
func (a *app) applyConfig(next *config.Config) bool {
	prev := a.cfg
	a.cfg = next

	a.client.SetAPIKey(next.Places.APIKey)
	a.client.SetEndpoint(next.Places.Endpoint)
	a.client.SetCenter(next.Center)
	a.store.SetLimit(next.Search.Limit)
	if l := logger.Default(); l != nil {
		l.SetLevel(logger.ParseLevel(next.LogLevel))
	}

	return prev.Center != next.Center ||
		prev.Places.Endpoint != next.Places.Endpoint ||
		prev.Places.APIKey != next.Places.APIKey ||
		prev.Search.Limit != next.Search.Limit
}

// watchConfig reloads the config file until ctx is done, handing valid
// configs to onChange.
func watchConfig(ctx context.Context, onChange func(*config.Config), onError func(error)) {
	fs := filesystem.NewOSFileSystem()
	file := config.GetConfigFile()
	watcher, err := config.NewWatcher(fs, config.GetConfigDir(), file)
	if err != nil {
		logger.Warn("config watcher disabled: %v", err)
		return
	}
	defer watcher.Close()

	logger.Info("watching %s for changes", file)
	if err := watcher.Watch(ctx, onChange, onError); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("config watcher stopped: %v", err)
	}
}
