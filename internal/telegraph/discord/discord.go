// Package discord implements the telegraph Adapter for Discord.
package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/zulandar/doctrail/internal/telegraph"
)

// session abstracts the discordgo.Session methods we use, enabling test mocks.
type session interface {
	Open() error
	Close() error
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Adapter implements telegraph.Adapter for Discord. Send-only.
type Adapter struct {
	session   session
	channelID string
	mu        sync.Mutex
	connected bool
}

// AdapterOpts holds parameters for creating a Discord Adapter.
type AdapterOpts struct {
	Token     string // bot token
	ChannelID string // channel to post to
}

// NewAdapter creates a Discord Adapter from bot credentials.
func NewAdapter(opts AdapterOpts) (*Adapter, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("discord: token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("discord: channel ID is required")
	}
	s, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	return &Adapter{
		session:   s,
		channelID: opts.ChannelID,
	}, nil
}

// Connect opens the Discord gateway connection.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("discord: open session: %w", err)
	}
	a.connected = true
	return nil
}

// Send posts the message to the configured channel.
func (a *Adapter) Send(ctx context.Context, msg telegraph.OutboundMessage) error {
	a.mu.Lock()
	connected := a.connected
	a.mu.Unlock()
	if !connected {
		return fmt.Errorf("discord: not connected")
	}

	content := msg.Body
	if msg.Title != "" {
		content = "**" + msg.Title + "**\n" + msg.Body
	}

	if _, err := a.session.ChannelMessageSend(a.channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord: send message: %w", err)
	}
	return nil
}

// Close shuts down the gateway connection.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.connected {
		return nil
	}
	a.connected = false
	if err := a.session.Close(); err != nil {
		return fmt.Errorf("discord: close session: %w", err)
	}
	return nil
}
