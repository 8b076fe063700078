package service

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter: decouples services from their front end
// ─────────────────────────────────────────────────────────────

// Event names emitted by the services.
const (
	EventDraftCreated       = "draft:created"
	EventDraftSaved         = "draft:saved"
	EventDraftDeleted       = "draft:deleted"
	EventPageChanged        = "page:changed"
	EventPageDeleteRejected = "page:delete-rejected"
	EventDraftPublished     = "draft:published"
	EventPublishFailed      = "draft:publish-failed"
)

// EventEmitter is an interface for emitting events to whatever front end
// drives the services (MCP notifications, CLI logs).
// Services receive this interface instead of a concrete transport,
// which makes them independently testable with a mock emitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// LogEmitter writes every event to a logger at debug level.
type LogEmitter struct {
	Logger *log.Logger
}

func (e LogEmitter) Emit(_ context.Context, event string, data any) {
	if e.Logger == nil {
		return
	}
	e.Logger.Debug("event", "name", event, "data", data)
}

// MultiEmitter fans an event out to several emitters.
type MultiEmitter []EventEmitter

func (m MultiEmitter) Emit(ctx context.Context, event string, data any) {
	for _, e := range m {
		if e != nil {
			e.Emit(ctx, event, data)
		}
	}
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
// It is safe for use from scheduler and watcher goroutines.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Names returns the recorded event names in order.
func (m *MockEmitter) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.Events))
	for i, e := range m.Events {
		names[i] = e.Event
	}
	return names
}

// Count returns how many times event was emitted.
func (m *MockEmitter) Count(event string) int {
	n := 0
	for _, name := range m.Names() {
		if name == event {
			n++
		}
	}
	return n
}
