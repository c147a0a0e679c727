package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// maxWebhookBody bounds the POST body read before signature checks.
const maxWebhookBody = 1 << 20

// Server carries the dependencies of the HTTP handlers.
type Server struct {
	conversation *Conversation
	catalogs     *CatalogCache
	sessions     SessionStore
	verifyToken  string
	appSecret    string
	adminToken   string
	logger       zerolog.Logger
}

func NewServer(conversation *Conversation, catalogs *CatalogCache, sessions SessionStore, config *Config, logger zerolog.Logger) *Server {
	return &Server{
		conversation: conversation,
		catalogs:     catalogs,
		sessions:     sessions,
		verifyToken:  config.WhatsApp.VerifyToken,
		appSecret:    config.WhatsApp.AppSecret,
		adminToken:   config.AdminToken,
		logger:       logger.With().Str("component", "http").Logger(),
	}
}

func (s *Server) handleVerify(c echo.Context) error {
	mode := c.QueryParam("hub.mode")
	token := c.QueryParam("hub.verify_token")
	challenge := c.QueryParam("hub.challenge")

	status, body := VerifyChallenge(mode, token, challenge, s.verifyToken)
	switch {
	case status == http.StatusOK && mode != "":
		s.logger.Info().Msg("webhook verified successfully")
	case status != http.StatusOK:
		s.logger.Warn().Str("mode", mode).Bool("has_token", token != "").Msg("webhook verification failed")
	}

	return c.String(status, body)
}

func (s *Server) handleWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return c.String(http.StatusBadRequest, "Error processing webhook")
	}

	if s.appSecret != "" {
		if err := VerifySignature(s.appSecret, c.Request().Header.Get(signatureHeader), body); err != nil {
			s.logger.Warn().Err(err).Msg("rejected webhook delivery")
			return c.String(http.StatusUnauthorized, "Invalid signature")
		}
	}

	messages, err := ParseWebhook(body)
	if err != nil {
		s.logger.Error().Err(err).Msg("error processing webhook")
		return c.String(http.StatusBadRequest, "Error processing webhook")
	}

	turns := s.conversation.HandleBatch(c.Request().Context(), messages)
	for _, turn := range turns {
		s.logger.Info().
			Str("user_id", turn.UserID).
			Bool("stateless", turn.Stateless).
			Bool("delivered", turn.Delivered).
			Msg("processed message")
	}

	return c.String(http.StatusOK, "OK")
}

// pinger is implemented by stores that can report connectivity.
type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHealth(c echo.Context) error {
	status := "ok"
	store := "ok"

	if p, ok := s.sessions.(pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			status = "degraded"
			store = err.Error()
		}
	}

	catalog := s.catalogs.Catalog()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":        status,
		"session_store": store,
		"catalog":       catalog.Source(),
		"intents":       len(catalog.Intents),
		"timestamp":     time.Now(),
	})
}

func (s *Server) handleGetSession(c echo.Context) error {
	userID := c.Param("user")

	session, found, err := s.sessions.Get(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("Session not found: %s", userID),
		})
	}

	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleDeleteSession(c echo.Context) error {
	userID := c.Param("user")

	if err := s.sessions.Delete(c.Request().Context(), userID); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}

	s.logger.Info().Str("user_id", userID).Msg("session deleted")
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleCatalogInfo(c echo.Context) error {
	catalog := s.catalogs.Catalog()

	intents := make([]map[string]interface{}, 0, len(catalog.Intents))
	for _, def := range catalog.Intents {
		roles := make([]string, 0, len(def.Responses))
		for key := range def.Responses {
			roles = append(roles, key)
		}
		intents = append(intents, map[string]interface{}{
			"name":      def.Name,
			"priority":  def.Priority,
			"triggers":  len(def.Triggers),
			"responses": roles,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":   catalog.Version,
		"source":    catalog.Source(),
		"loaded_at": catalog.LoadedAt(),
		"intents":   intents,
	})
}

func (s *Server) handleReloadCatalog(c echo.Context) error {
	if err := s.catalogs.Reload(); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrInvalidCatalog) {
			status = http.StatusUnprocessableEntity
		}
		return c.JSON(status, map[string]string{"error": err.Error()})
	}

	catalog := s.catalogs.Catalog()
	return c.JSON(http.StatusOK, ReloadResponse{
		Message:    fmt.Sprintf("Catalog reloaded with %d intents", len(catalog.Intents)),
		Intents:    len(catalog.Intents),
		Source:     catalog.Source(),
		ReloadedAt: time.Now(),
	})
}

func (s *Server) handleClassify(c echo.Context) error {
	var req ClassifyRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}

	role := RoleNone
	if req.Role != "" {
		r, ok := roleByName(req.Role)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("Unknown role: %s", req.Role),
			})
		}
		role = r
	}

	engine := s.catalogs.Engine()
	result := engine.Classify(req.Text)
	resp := ClassifyResponse{
		Intent:     result.Intent,
		Confidence: result.Confidence,
		Normalized: normalizeText(req.Text),
	}
	if reply, ok := engine.responses.ResolveContextual(result.Intent, result.Confidence, role); ok {
		resp.Reply = reply
	}

	return c.JSON(http.StatusOK, resp)
}
