// Package slack implements the telegraph Adapter for Slack using the Web API.
package slack

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	slackapi "github.com/slack-go/slack"
	"github.com/zulandar/doctrail/internal/telegraph"
)

// maxRetries is the max number of retries for rate-limited API calls.
const maxRetries = 3

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	AuthTestContext(ctx context.Context) (*slackapi.AuthTestResponse, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Adapter implements telegraph.Adapter for Slack. Send-only: Doctrail pushes
// notices, it does not listen.
type Adapter struct {
	client    slackClient
	channelID string
	mu        sync.Mutex
	connected bool
}

// AdapterOpts holds parameters for creating a Slack Adapter.
type AdapterOpts struct {
	BotToken  string // xoxb-... Slack bot token
	ChannelID string // channel to post to
}

// NewAdapter creates a Slack Adapter from bot credentials.
func NewAdapter(opts AdapterOpts) (*Adapter, error) {
	if opts.BotToken == "" {
		return nil, fmt.Errorf("slack: bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("slack: channel ID is required")
	}
	return &Adapter{
		client:    slackapi.New(opts.BotToken),
		channelID: opts.ChannelID,
	}, nil
}

// Connect verifies the bot credentials against the Slack API.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.client.AuthTestContext(ctx); err != nil {
		return fmt.Errorf("slack: auth test: %w", err)
	}
	a.connected = true
	return nil
}

// Send posts the message to the configured channel, retrying on rate limits.
func (a *Adapter) Send(ctx context.Context, msg telegraph.OutboundMessage) error {
	a.mu.Lock()
	connected := a.connected
	a.mu.Unlock()
	if !connected {
		return fmt.Errorf("slack: not connected")
	}

	text := msg.Body
	if msg.Title != "" {
		text = "*" + msg.Title + "*\n" + msg.Body
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		_, _, err := a.client.PostMessageContext(ctx, a.channelID,
			slackapi.MsgOptionText(text, false),
			slackapi.MsgOptionDisableLinkUnfurl(),
		)
		if err == nil {
			return nil
		}
		lastErr = err

		var rle *slackapi.RateLimitedError
		if !errors.As(err, &rle) {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rle.RetryAfter):
		}
	}
	return fmt.Errorf("slack: post message: %w", lastErr)
}

// Close marks the adapter disconnected. The Web API client holds no
// persistent connection.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connected = false
	return nil
}
