package telegraph

import (
	"context"
	"fmt"
	"sync"
)

// MockAdapter implements Adapter for testing. It records sent messages and
// can be configured to fail.
type MockAdapter struct {
	mu        sync.Mutex
	connected bool
	closed    bool
	sent      []OutboundMessage
	failSend  bool
	failConn  bool
}

// NewMockAdapter creates a MockAdapter.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{}
}

// FailSends makes every subsequent Send return an error.
func (m *MockAdapter) FailSends() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSend = true
}

// FailConnect makes Connect return an error.
func (m *MockAdapter) FailConnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failConn = true
}

// Connect marks the adapter as connected.
func (m *MockAdapter) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failConn {
		return fmt.Errorf("mock adapter: connect refused")
	}
	if m.closed {
		return fmt.Errorf("mock adapter: already closed")
	}
	m.connected = true
	return nil
}

// Send records the outbound message.
func (m *MockAdapter) Send(ctx context.Context, msg OutboundMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend {
		return fmt.Errorf("mock adapter: send failed")
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Close marks the adapter as closed.
func (m *MockAdapter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.connected = false
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *MockAdapter) Sent() []OutboundMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]OutboundMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// Connected reports whether Connect succeeded and Close has not been called.
func (m *MockAdapter) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}
