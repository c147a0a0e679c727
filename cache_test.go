package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCache_EmbeddedWhenDirMissing(t *testing.T) {
	t.Parallel()

	cc, err := NewCatalogCache(filepath.Join(t.TempDir(), "missing"), zerolog.Nop())
	require.NoError(t, err)
	defer cc.Close()

	assert.Nil(t, cc.watcher)
	assert.Equal(t, embeddedSource, cc.Catalog().Source())
	require.NotNil(t, cc.Engine())

	// returns at once without a watcher
	cc.WatchFiles(context.Background())
}

func TestCatalogCache_LoadsFromDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "intents.yaml", testCatalogYAML)

	cc, err := NewCatalogCache(dir, zerolog.Nop())
	require.NoError(t, err)
	defer cc.Close()

	assert.Equal(t, "test", cc.Catalog().Version)
	assert.Equal(t, "field_trip", cc.Engine().Classify("school field trip").Intent)
}

func TestCatalogCache_InvalidInitialCatalog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "intents.yaml", "intents: [")

	_, err := NewCatalogCache(dir, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestCatalogCache_ReloadKeepsPreviousOnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "intents.yaml", testCatalogYAML)

	cc, err := NewCatalogCache(dir, zerolog.Nop())
	require.NoError(t, err)
	defer cc.Close()

	before := cc.Engine()

	writeFile(t, dir, "intents.yaml", "intents:\n  - name: unknown\n    triggers: [a]\n")
	assert.ErrorIs(t, cc.Reload(), ErrInvalidCatalog)
	assert.Same(t, before, cc.Engine())
	assert.Equal(t, "test", cc.Catalog().Version)
}

func TestCatalogCache_WatchFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "intents.yaml", testCatalogYAML)

	cc, err := NewCatalogCache(dir, zerolog.Nop())
	require.NoError(t, err)
	defer cc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cc.WatchFiles(ctx)
		close(done)
	}()

	updated := strings.Replace(testCatalogYAML, `version: "test"`, `version: "updated"`, 1)
	writeFile(t, dir, "intents.yaml", updated)

	require.Eventually(t, func() bool {
		return cc.Catalog().Version == "updated"
	}, 5*time.Second, 20*time.Millisecond)

	// unrelated files are ignored
	writeFile(t, dir, "notes.txt", "hello")

	// broken edits keep the last good catalog
	writeFile(t, dir, "intents.yaml", "intents: [")
	time.Sleep(3 * reloadDelay)
	assert.Equal(t, "updated", cc.Catalog().Version)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
