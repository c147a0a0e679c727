package main

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// EngineSource hands out the engine built from the current catalog.
type EngineSource interface {
	Engine() *Engine
}

// Turn is the outcome of one inbound message.
type Turn struct {
	UserID      string
	Text        string
	Reply       string
	Stateless   bool
	Delivered   bool
	DeliveryErr error
}

// Conversation runs turns against the session store, message log and sender.
// Turns for the same user are serialized; different users may run in parallel.
type Conversation struct {
	engines  EngineSource
	sessions SessionStore
	messages MessageLog
	sender   Sender
	logger   zerolog.Logger
	workers  int
	locks    keyedMutex
	now      func() time.Time
}

func NewConversation(engines EngineSource, sessions SessionStore, messages MessageLog, sender Sender, logger zerolog.Logger, workers int) *Conversation {
	if workers < 1 {
		workers = 1
	}
	return &Conversation{
		engines:  engines,
		sessions: sessions,
		messages: messages,
		sender:   sender,
		logger:   logger.With().Str("component", "conversation").Logger(),
		workers:  workers,
		now:      time.Now,
	}
}

// Reply computes the reply to text and persists the new session. When the
// store fails on load or save the stateless reply is returned instead.
func (c *Conversation) Reply(ctx context.Context, userID, text string) Turn {
	unlock := c.locks.Lock(userID)
	defer unlock()

	return c.reply(ctx, userID, text)
}

func (c *Conversation) reply(ctx context.Context, userID, text string) Turn {
	engine := c.engines.Engine()
	turn := Turn{UserID: userID, Text: text}

	session, found, err := c.sessions.Get(ctx, userID)
	if err != nil {
		c.logger.Warn().Err(err).Str("user_id", userID).Msg("session load failed, replying stateless")
		turn.Reply = engine.HandleStateless(text)
		turn.Stateless = true
		return turn
	}
	if !found {
		session = NewSession(userID)
	}

	reply, next := engine.HandleTurn(session, text)
	if err := c.sessions.Upsert(ctx, next); err != nil {
		c.logger.Warn().Err(err).Str("user_id", userID).Msg("session save failed, replying stateless")
		turn.Reply = engine.HandleStateless(text)
		turn.Stateless = true
		return turn
	}

	if next.LastIntent != "" && next.LastIntent != session.LastIntent {
		c.logger.Debug().
			Str("user_id", userID).
			Str("intent", next.LastIntent).
			Msg("contextual reply")
	}

	turn.Reply = reply
	return turn
}

// Handle logs the inbound message, replies, delivers and logs the reply.
// Log failures never stop the turn; delivery failures are reported on Turn.
func (c *Conversation) Handle(ctx context.Context, msg InboundMessage) Turn {
	unlock := c.locks.Lock(msg.UserID)
	defer unlock()

	c.logMessage(ctx, msg.UserID, DirectionIncoming, msg.Text)

	turn := c.reply(ctx, msg.UserID, msg.Text)
	if turn.Reply == "" {
		c.logger.Warn().Str("user_id", msg.UserID).Msg("no reply generated")
		return turn
	}

	if err := c.sender.Send(ctx, msg.UserID, turn.Reply); err != nil {
		turn.DeliveryErr = err
		c.logger.Error().Err(err).Str("user_id", msg.UserID).Msg("error sending message")
	} else {
		turn.Delivered = true
	}

	c.logMessage(ctx, msg.UserID, DirectionOutgoing, turn.Reply)
	return turn
}

// HandleBatch handles the messages of one webhook delivery. With a single
// worker they run one at a time in receipt order; with more, users run in
// parallel and each user's messages keep their order.
func (c *Conversation) HandleBatch(ctx context.Context, msgs []InboundMessage) []Turn {
	turns := make([]Turn, len(msgs))

	if c.workers == 1 {
		for i, msg := range msgs {
			turns[i] = c.Handle(ctx, msg)
		}
		return turns
	}

	order, byUser := groupByUser(msgs)

	var g errgroup.Group
	g.SetLimit(c.workers)
	for _, userID := range order {
		indexes := byUser[userID]
		g.Go(func() error {
			for _, i := range indexes {
				turns[i] = c.Handle(ctx, msgs[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	return turns
}

func (c *Conversation) logMessage(ctx context.Context, userID string, direction Direction, text string) {
	entry := MessageEntry{
		UserID:    userID,
		Direction: direction,
		Text:      text,
		Timestamp: c.now(),
	}
	if err := c.messages.Append(ctx, entry); err != nil {
		c.logger.Warn().Err(err).Str("user_id", userID).Str("direction", string(direction)).Msg("error logging message")
	}
}

// groupByUser returns users in first-seen order and each user's message indexes.
func groupByUser(msgs []InboundMessage) ([]string, map[string][]int) {
	var order []string
	byUser := make(map[string][]int)
	for i, msg := range msgs {
		if _, seen := byUser[msg.UserID]; !seen {
			order = append(order, msg.UserID)
		}
		byUser[msg.UserID] = append(byUser[msg.UserID], i)
	}
	return order, byUser
}

// keyedMutex serializes work per key. Entries are removed once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
