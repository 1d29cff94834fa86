package server

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestConsole(t *testing.T) (*slog.Logger, *ConsoleHandler, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	handler := NewConsoleHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return slog.New(handler), handler, &buf
}

func TestConsoleHandler_BasicLogging(t *testing.T) {
	logger, handler, buf := newTestConsole(t)

	messageChan := make(chan ConsoleMessage, 10)
	unsubscribe := handler.Subscribe("test-render-123", messageChan)
	defer unsubscribe()

	ctx := WithRenderID(context.Background(), "test-render-123")
	logger.InfoContext(ctx, "pass finished", "pass", 2)

	select {
	case msg := <-messageChan:
		if msg.Message != "pass finished pass=2" {
			t.Errorf("Expected 'pass finished pass=2', got '%s'", msg.Message)
		}
		if msg.Level != "info" {
			t.Errorf("Expected level 'info', got '%s'", msg.Level)
		}
		if time.Since(msg.Timestamp) > time.Second {
			t.Errorf("Timestamp seems too old: %v", msg.Timestamp)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Timeout waiting for console message")
	}

	// Records are also passed to the wrapped handler
	if !strings.Contains(buf.String(), "pass finished") {
		t.Errorf("Expected the server log to contain the record, got %q", buf.String())
	}
}

func TestConsoleHandler_Routing(t *testing.T) {
	logger, handler, _ := newTestConsole(t)

	first := make(chan ConsoleMessage, 10)
	second := make(chan ConsoleMessage, 10)
	defer handler.Subscribe("render-a", first)()
	defer handler.Subscribe("render-b", second)()

	logger.InfoContext(WithRenderID(context.Background(), "render-a"), "for a")
	logger.WarnContext(WithRenderID(context.Background(), "render-b"), "for b")
	logger.Info("untagged")
	logger.DebugContext(WithRenderID(context.Background(), "render-a"), "debug is server-only")
	logger.InfoContext(WithRenderID(context.Background(), "render-c"), "nobody listens")

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("Expected one message per render, got %d and %d", len(first), len(second))
	}
	if msg := <-first; msg.Message != "for a" {
		t.Errorf("Unexpected message for render a: %+v", msg)
	}
	if msg := <-second; msg.Message != "for b" || msg.Level != "warning" {
		t.Errorf("Unexpected message for render b: %+v", msg)
	}
}

func TestConsoleHandler_WithAttrs(t *testing.T) {
	logger, handler, _ := newTestConsole(t)

	messageChan := make(chan ConsoleMessage, 10)
	defer handler.Subscribe("r", messageChan)()

	logger.With("width", 64).InfoContext(WithRenderID(context.Background(), "r"), "render finished", "height", 32)

	msg := <-messageChan
	if msg.Message != "render finished width=64 height=32" {
		t.Errorf("Unexpected message %q", msg.Message)
	}
}

func TestConsoleHandler_WithGroup(t *testing.T) {
	logger, handler, _ := newTestConsole(t)

	messageChan := make(chan ConsoleMessage, 10)
	defer handler.Subscribe("r", messageChan)()
	ctx := WithRenderID(context.Background(), "r")

	logger.With("id", 7).WithGroup("tile").With("x", 1).InfoContext(ctx, "tile done",
		"y", 2, slog.Group("stats", "samples", 4))

	msg := <-messageChan
	if msg.Message != "tile done id=7 tile.x=1 tile.y=2 tile.stats.samples=4" {
		t.Errorf("Unexpected message %q", msg.Message)
	}

	logger.InfoContext(ctx, "flat", slog.Group("pass", "number", 3))
	msg = <-messageChan
	if msg.Message != "flat pass.number=3" {
		t.Errorf("Unexpected message %q", msg.Message)
	}
}

func TestConsoleHandler_ChannelFull(t *testing.T) {
	logger, handler, _ := newTestConsole(t)

	messageChan := make(chan ConsoleMessage, 1)
	defer handler.Subscribe("full", messageChan)()
	ctx := WithRenderID(context.Background(), "full")

	done := make(chan struct{})
	go func() {
		logger.InfoContext(ctx, "Message 1")
		logger.InfoContext(ctx, "Message 2") // dropped
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Logging blocked on a full console channel")
	}

	if msg := <-messageChan; msg.Message != "Message 1" {
		t.Errorf("Expected the first message to survive, got %q", msg.Message)
	}
	if len(messageChan) != 0 {
		t.Error("Expected the second message to be dropped")
	}
}

func TestConsoleHandler_Unsubscribe(t *testing.T) {
	logger, handler, _ := newTestConsole(t)

	messageChan := make(chan ConsoleMessage, 10)
	unsubscribe := handler.Subscribe("gone", messageChan)
	unsubscribe()

	logger.InfoContext(WithRenderID(context.Background(), "gone"), "late message")
	if len(messageChan) != 0 {
		t.Error("Expected no messages after unsubscribe")
	}
}
