// Package telegraph pushes document lifecycle events to chat platforms
// (Slack, Discord). It only sends: completion notices when a document is
// marked COMPLETED, and scheduled digests of overdue documents.
package telegraph

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/zulandar/doctrail/internal/models"
)

// Adapter is the interface platform-specific implementations must satisfy.
// Each adapter handles connection management and message delivery for a
// single chat platform.
type Adapter interface {
	// Connect establishes a connection to the chat platform.
	Connect(ctx context.Context) error

	// Send delivers an outbound message to the platform's configured channel.
	Send(ctx context.Context, msg OutboundMessage) error

	// Close gracefully shuts down the adapter connection.
	Close() error
}

// OutboundMessage is a message to be sent to a chat platform.
type OutboundMessage struct {
	Title string // short headline
	Body  string // message body, platform-agnostic plain text
}

// Telegraph fans lifecycle notices out to every configured adapter. It
// implements the lifecycle Notifier seam.
type Telegraph struct {
	adapters []Adapter
	log      zerolog.Logger
}

// Opts holds parameters for creating a Telegraph.
type Opts struct {
	Adapters []Adapter
	Log      zerolog.Logger
}

// New creates a Telegraph over the given adapters.
func New(opts Opts) *Telegraph {
	return &Telegraph{
		adapters: opts.Adapters,
		log:      opts.Log,
	}
}

// Connect connects every adapter. Adapters that fail to connect are dropped
// with a warning rather than taking the service down.
func (t *Telegraph) Connect(ctx context.Context) {
	live := t.adapters[:0]
	for _, a := range t.adapters {
		if err := a.Connect(ctx); err != nil {
			t.log.Warn().Err(err).Msg("telegraph adapter failed to connect; dropping")
			continue
		}
		live = append(live, a)
	}
	t.adapters = live
}

// Close closes every adapter.
func (t *Telegraph) Close() {
	for _, a := range t.adapters {
		if err := a.Close(); err != nil {
			t.log.Warn().Err(err).Msg("telegraph adapter close failed")
		}
	}
}

// NotifyCompletion announces a completed document on every platform.
// Per-adapter failures are collected so the caller can log them; delivery to
// the remaining platforms is not affected.
func (t *Telegraph) NotifyCompletion(ctx context.Context, doc *models.Document) error {
	return t.broadcast(ctx, FormatCompletion(doc))
}

// SendDigest delivers a prebuilt digest message to every platform.
func (t *Telegraph) SendDigest(ctx context.Context, msg OutboundMessage) error {
	return t.broadcast(ctx, msg)
}

func (t *Telegraph) broadcast(ctx context.Context, msg OutboundMessage) error {
	var failures []string
	for _, a := range t.adapters {
		if err := a.Send(ctx, msg); err != nil {
			failures = append(failures, err.Error())
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("telegraph: send: %s", strings.Join(failures, "; "))
	}
	return nil
}
