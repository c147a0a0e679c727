package main

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Direction tells whether a logged message came from or went to the user.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

const messageLogPath = "message_logs"

// MessageEntry is one logged message.
type MessageEntry struct {
	UserID    string    `json:"phone_number"`
	Direction Direction `json:"message_type"`
	Text      string    `json:"message_content"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageLog records conversation messages. Callers treat it as best
// effort: an Append error is logged and otherwise ignored.
type MessageLog interface {
	Append(ctx context.Context, entry MessageEntry) error
}

// FirebaseMessageLog pushes entries to a Firebase Realtime Database list.
type FirebaseMessageLog struct {
	client *db.Client
	path   string
}

// NewFirebaseMessageLog initializes a Firebase app from a service account key.
func NewFirebaseMessageLog(ctx context.Context, serviceAccountKeyPath, databaseURL string) (*FirebaseMessageLog, error) {
	opt := option.WithCredentialsFile(serviceAccountKeyPath)

	config := &firebase.Config{
		DatabaseURL: databaseURL,
	}
	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting database client: %w", err)
	}

	return &FirebaseMessageLog{
		client: client,
		path:   messageLogPath,
	}, nil
}

func (f *FirebaseMessageLog) Append(ctx context.Context, entry MessageEntry) error {
	if _, err := f.client.NewRef(f.path).Push(ctx, entry); err != nil {
		return fmt.Errorf("error logging %s message: %w", entry.Direction, err)
	}
	return nil
}

// EventMessageLog writes entries as structured log events.
type EventMessageLog struct {
	logger zerolog.Logger
}

func NewEventMessageLog(logger zerolog.Logger) *EventMessageLog {
	return &EventMessageLog{logger: logger.With().Str("component", "message_log").Logger()}
}

func (e *EventMessageLog) Append(ctx context.Context, entry MessageEntry) error {
	e.logger.Info().
		Str("user_id", entry.UserID).
		Str("direction", string(entry.Direction)).
		Str("text", entry.Text).
		Time("timestamp", entry.Timestamp).
		Msg("message logged")
	return nil
}
