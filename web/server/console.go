package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warning", "error"
}

type renderIDKey struct{}

// WithRenderID tags ctx so records logged with it reach that render's console
func WithRenderID(ctx context.Context, renderID string) context.Context {
	return context.WithValue(ctx, renderIDKey{}, renderID)
}

func renderIDFrom(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(renderIDKey{}).(string)
	return id, ok
}

// consoleHub maps render IDs to their console channels
type consoleHub struct {
	mu          sync.RWMutex
	subscribers map[string]chan<- ConsoleMessage
}

// ConsoleHandler is a slog.Handler that passes records to next and copies
// Info and above onto the console channel of the render that logged them.
// Sends never block; a full channel drops the message.
type ConsoleHandler struct {
	next   slog.Handler
	hub    *consoleHub
	attrs  []string // Formatted key=value pairs from WithAttrs
	prefix string   // Open groups joined as "a.b."
}

// NewConsoleHandler wraps next; a nil next only feeds consoles
func NewConsoleHandler(next slog.Handler) *ConsoleHandler {
	return &ConsoleHandler{
		next: next,
		hub:  &consoleHub{subscribers: make(map[string]chan<- ConsoleMessage)},
	}
}

// Subscribe routes records tagged with renderID to ch until the returned function is called
func (h *ConsoleHandler) Subscribe(renderID string, ch chan<- ConsoleMessage) (unsubscribe func()) {
	h.hub.mu.Lock()
	h.hub.subscribers[renderID] = ch
	h.hub.mu.Unlock()

	return func() {
		h.hub.mu.Lock()
		delete(h.hub.subscribers, renderID)
		h.hub.mu.Unlock()
	}
}

func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= slog.LevelInfo {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, level)
}

func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelInfo {
		h.publish(ctx, r)
	}
	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *ConsoleHandler) publish(ctx context.Context, r slog.Record) {
	renderID, ok := renderIDFrom(ctx)
	if !ok {
		return
	}

	h.hub.mu.RLock()
	defer h.hub.mu.RUnlock()
	ch, ok := h.hub.subscribers[renderID]
	if !ok {
		return
	}

	select {
	case ch <- ConsoleMessage{Message: h.format(r), Timestamp: r.Time, Level: levelName(r.Level)}:
	default:
		// Channel full, skip (don't block)
	}
}

// format renders the message followed by key=value attributes,
// with keys qualified by their groups
func (h *ConsoleHandler) format(r slog.Record) string {
	parts := append([]string{r.Message}, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		parts = appendAttr(parts, h.prefix, a)
		return true
	})
	return strings.Join(parts, " ")
}

// appendAttr formats a as prefix+key=value, flattening group values
func appendAttr(parts []string, prefix string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return parts
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			parts = appendAttr(parts, prefix, ga)
		}
		return parts
	}
	return append(parts, fmt.Sprintf("%s%s=%v", prefix, a.Key, a.Value))
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := &ConsoleHandler{
		hub:    h.hub,
		attrs:  append([]string{}, h.attrs...),
		prefix: h.prefix,
	}
	for _, a := range attrs {
		clone.attrs = appendAttr(clone.attrs, h.prefix, a)
	}
	if h.next != nil {
		clone.next = h.next.WithAttrs(attrs)
	}
	return clone
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := &ConsoleHandler{hub: h.hub, attrs: h.attrs, prefix: h.prefix + name + "."}
	if h.next != nil {
		clone.next = h.next.WithGroup(name)
	}
	return clone
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
