package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger, closeLog, err := InitLogger(config.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}
	defer closeLog()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize intent catalog with file watcher
	catalogs, err := NewCatalogCache(config.CatalogDir, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize intent catalog")
	}
	defer catalogs.Close()

	// Start file watcher in background
	go catalogs.WatchFiles(ctx)

	sessions := newSessionStore(ctx, config, logger)
	if closer, ok := sessions.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	messages := newMessageLog(ctx, config, logger)

	var sender Sender = disabledSender{}
	if config.WhatsApp.Enabled() {
		sender = NewWhatsAppClient(config.WhatsApp, logger)
	} else {
		logger.Warn().Msg("WHATSAPP_ACCESS_TOKEN or WHATSAPP_PHONE_NUMBER_ID not set, replies will not be delivered")
	}

	conversation := NewConversation(catalogs, sessions, messages, sender, logger, config.WebhookWorkers)
	server := NewServer(conversation, catalogs, sessions, config, logger)
	e := NewRouter(server)

	go func() {
		logger.Info().
			Str("port", config.Port).
			Str("catalog_dir", config.CatalogDir).
			Int("webhook_workers", config.WebhookWorkers).
			Bool("admin", config.AdminToken != "").
			Msg("uniqbot started")
		if err := e.Start(":" + config.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
	logger.Info().Msg("uniqbot stopped")
}

// newSessionStore prefers Redis and falls back to memory when it is not
// configured or not reachable at start-up.
func newSessionStore(ctx context.Context, config *Config, logger zerolog.Logger) SessionStore {
	if config.Redis.URL == "" {
		logger.Info().Msg("REDIS_URL not set, using in-memory session store")
		return NewMemorySessionStore()
	}

	store, err := NewRedisSessionStore(ctx, config.Redis.URL, config.SessionTTL)
	if err != nil {
		logger.Error().Err(err).Msg("redis unavailable, using in-memory session store")
		return NewMemorySessionStore()
	}

	logger.Info().Dur("ttl", config.SessionTTL).Msg("using redis session store")
	return store
}

func newMessageLog(ctx context.Context, config *Config, logger zerolog.Logger) MessageLog {
	if !config.Firebase.Enabled() {
		return NewEventMessageLog(logger)
	}

	messages, err := NewFirebaseMessageLog(ctx, config.Firebase.ServiceAccountKeyPath, config.Firebase.DatabaseURL)
	if err != nil {
		logger.Error().Err(err).Msg("error initializing Firebase, logging messages locally")
		return NewEventMessageLog(logger)
	}

	logger.Info().Msg("logging messages to Firebase")
	return messages
}
