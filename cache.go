package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// reloadDelay lets an editor finish writing before the file is read.
const reloadDelay = 100 * time.Millisecond

// CatalogCache holds the engine built from the current catalog and swaps
// it when the catalog file changes. A catalog that fails to load or
// validate never replaces the running one.
type CatalogCache struct {
	sync.RWMutex
	catalog *Catalog
	engine  *Engine
	watcher *fsnotify.Watcher
	dir     string
	logger  zerolog.Logger
}

// NewCatalogCache loads the catalog from dir and watches dir for changes
// when it exists. Without a catalog file the embedded catalog is used.
func NewCatalogCache(dir string, logger zerolog.Logger) (*CatalogCache, error) {
	cc := &CatalogCache{
		dir:    dir,
		logger: logger.With().Str("component", "catalog").Logger(),
	}

	if err := cc.Reload(); err != nil {
		return nil, err
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		cc.logger.Info().Str("dir", dir).Msg("catalog directory not found, file watching disabled")
		return cc, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	cc.watcher = watcher
	cc.logger.Info().Str("dir", dir).Msg("file watcher initialized")
	return cc, nil
}

func (cc *CatalogCache) Close() {
	if cc.watcher != nil {
		cc.watcher.Close()
	}
}

// Engine returns the engine for the current catalog.
func (cc *CatalogCache) Engine() *Engine {
	cc.RLock()
	defer cc.RUnlock()
	return cc.engine
}

func (cc *CatalogCache) Catalog() *Catalog {
	cc.RLock()
	defer cc.RUnlock()
	return cc.catalog
}

// Reload reads the catalog again and swaps it in on success.
func (cc *CatalogCache) Reload() error {
	catalog, err := LoadCatalog(cc.dir)
	if err != nil {
		return err
	}

	engine := NewCatalogEngine(catalog)

	cc.Lock()
	cc.catalog = catalog
	cc.engine = engine
	cc.Unlock()

	cc.logger.Info().
		Str("source", catalog.Source()).
		Int("intents", len(catalog.Intents)).
		Msg("loaded intent catalog")
	return nil
}

// WatchFiles reloads the catalog on writes to catalog files until ctx is
// done or the watcher is closed.
func (cc *CatalogCache) WatchFiles(ctx context.Context) {
	if cc.watcher == nil {
		return
	}
	cc.logger.Info().Msg("file watcher started")

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-cc.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !slices.Contains(catalogFiles, filepath.Base(event.Name)) {
				continue
			}

			time.Sleep(reloadDelay)

			cc.logger.Info().Str("file", event.Name).Str("op", event.Op.String()).Msg("catalog file changed, reloading")
			if err := cc.Reload(); err != nil {
				cc.logger.Error().Err(err).Msg("catalog reload failed, keeping previous catalog")
			}

		case err, ok := <-cc.watcher.Errors:
			if !ok {
				return
			}
			cc.logger.Error().Err(err).Msg("file watcher error")
		}
	}
}
