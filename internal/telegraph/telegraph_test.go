package telegraph

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/zulandar/doctrail/internal/models"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

func ptr(t time.Time) *time.Time { return &t }

func TestNotifyCompletion_Broadcasts(t *testing.T) {
	a1 := NewMockAdapter()
	a2 := NewMockAdapter()
	tg := New(Opts{Adapters: []Adapter{a1, a2}, Log: zerolog.Nop()})
	tg.Connect(context.Background())

	doc := &models.Document{
		ID:           "doc-abc12",
		Title:        "Q1 report",
		CreatedByID:  "alice",
		StartTrackAt: now.Add(-days(10)),
		EndTrackAt:   now.Add(days(5)),
		CompletedAt:  ptr(now),
	}
	if err := tg.NotifyCompletion(context.Background(), doc); err != nil {
		t.Fatalf("NotifyCompletion() error: %v", err)
	}

	for i, a := range []*MockAdapter{a1, a2} {
		sent := a.Sent()
		if len(sent) != 1 {
			t.Fatalf("adapter %d sent %d messages, want 1", i, len(sent))
		}
		if !strings.Contains(sent[0].Title, "doc-abc12") {
			t.Errorf("adapter %d title = %q, want document id", i, sent[0].Title)
		}
	}
}

func TestBroadcast_PartialFailure(t *testing.T) {
	good := NewMockAdapter()
	bad := NewMockAdapter()
	bad.FailSends()
	tg := New(Opts{Adapters: []Adapter{bad, good}, Log: zerolog.Nop()})
	tg.Connect(context.Background())

	err := tg.SendDigest(context.Background(), OutboundMessage{Title: "t", Body: "b"})
	if err == nil {
		t.Fatal("expected error from failing adapter")
	}
	// The healthy adapter still got the message.
	if len(good.Sent()) != 1 {
		t.Errorf("healthy adapter sent %d messages, want 1", len(good.Sent()))
	}
}

func TestConnect_DropsFailingAdapters(t *testing.T) {
	good := NewMockAdapter()
	bad := NewMockAdapter()
	bad.FailConnect()
	tg := New(Opts{Adapters: []Adapter{bad, good}, Log: zerolog.Nop()})
	tg.Connect(context.Background())

	if err := tg.SendDigest(context.Background(), OutboundMessage{Body: "b"}); err != nil {
		t.Fatalf("SendDigest() error: %v", err)
	}
	if len(good.Sent()) != 1 {
		t.Errorf("surviving adapter sent %d messages, want 1", len(good.Sent()))
	}
	if len(bad.Sent()) != 0 {
		t.Errorf("dropped adapter sent %d messages, want 0", len(bad.Sent()))
	}
}

func TestClose(t *testing.T) {
	a := NewMockAdapter()
	tg := New(Opts{Adapters: []Adapter{a}, Log: zerolog.Nop()})
	tg.Connect(context.Background())
	if !a.Connected() {
		t.Fatal("adapter not connected")
	}
	tg.Close()
	if a.Connected() {
		t.Error("adapter still connected after Close")
	}
}
