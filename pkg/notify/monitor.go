package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Handler handles a published event. A returned error is logged and
// contained; it never reaches the publisher or sibling handlers.
type Handler func(context.Context, Event) error

// Subscription identifies one registered handler for later removal.
type Subscription struct {
	kind Kind
	id   uint64
}

type registration struct {
	id uint64
	fn Handler
}

// Monitor is the in-process event hub between the ingestion paths and
// application subscribers. Delivery is gated by an explicit lifecycle:
// events published while stopped are dropped, never queued. Handlers for
// one publish run sequentially in registration order, each under its own
// failure boundary.
type Monitor struct {
	logger *zap.Logger

	mu       sync.Mutex
	started  bool
	nextID   uint64
	handlers map[Kind][]registration
}

// NewMonitor creates a stopped monitor.
func NewMonitor(logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		logger:   logger,
		handlers: make(map[Kind][]registration),
	}
}

// Start enables delivery. Calling Start on a started monitor is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true
	m.logger.Debug("monitor started")
}

// Stop disables delivery. Calling Stop on a stopped monitor is a no-op.
// Stop does not wait for handlers of an in-flight Publish to finish.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return
	}
	m.started = false
	m.logger.Debug("monitor stopped")
}

// Started reports whether the monitor currently delivers events.
func (m *Monitor) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Subscribe registers a handler for one event kind and returns a handle
// for Unsubscribe. Handlers fire in registration order.
func (m *Monitor) Subscribe(kind Kind, fn Handler) Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.handlers[kind] = append(m.handlers[kind], registration{id: m.nextID, fn: fn})
	return Subscription{kind: kind, id: m.nextID}
}

// Unsubscribe removes a previously registered handler. Unknown handles
// are ignored.
func (m *Monitor) Unsubscribe(sub Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	regs := m.handlers[sub.kind]
	for i := range regs {
		if regs[i].id == sub.id {
			m.handlers[sub.kind] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Publish delivers an event to every handler subscribed to its kind. When
// the monitor is stopped the event is dropped. A handler error or panic is
// logged and does not prevent delivery to subsequent handlers; Publish
// never propagates handler failures.
func (m *Monitor) Publish(ctx context.Context, event Event) {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		m.logger.Debug("event dropped, monitor stopped",
			zap.String("event_id", event.EventID()),
			zap.String("kind", string(event.EventKind())))
		return
	}
	regs := append([]registration{}, m.handlers[event.EventKind()]...)
	m.mu.Unlock()

	for _, reg := range regs {
		m.invoke(ctx, reg, event)
	}
}

func (m *Monitor) invoke(ctx context.Context, reg registration, event Event) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("event handler panicked",
				zap.String("event_id", event.EventID()),
				zap.String("kind", string(event.EventKind())),
				zap.Any("panic", r))
		}
	}()
	if err := reg.fn(ctx, event); err != nil {
		m.logger.Error("event handler failed",
			zap.String("event_id", event.EventID()),
			zap.String("kind", string(event.EventKind())),
			zap.Error(err))
	}
}

// OnTicketCreated subscribes a typed handler for ticket creation events.
func (m *Monitor) OnTicketCreated(fn func(context.Context, TicketCreatedEvent) error) Subscription {
	return m.Subscribe(KindTicketCreated, func(ctx context.Context, event Event) error {
		if e, ok := event.(TicketCreatedEvent); ok {
			return fn(ctx, e)
		}
		return nil
	})
}

// OnTicketUpdated subscribes a typed handler for ticket update events.
func (m *Monitor) OnTicketUpdated(fn func(context.Context, TicketUpdatedEvent) error) Subscription {
	return m.Subscribe(KindTicketUpdated, func(ctx context.Context, event Event) error {
		if e, ok := event.(TicketUpdatedEvent); ok {
			return fn(ctx, e)
		}
		return nil
	})
}

// OnTicketClosed subscribes a typed handler for ticket close events.
func (m *Monitor) OnTicketClosed(fn func(context.Context, TicketClosedEvent) error) Subscription {
	return m.Subscribe(KindTicketClosed, func(ctx context.Context, event Event) error {
		if e, ok := event.(TicketClosedEvent); ok {
			return fn(ctx, e)
		}
		return nil
	})
}

// OnArticleCreated subscribes a typed handler for article creation events.
func (m *Monitor) OnArticleCreated(fn func(context.Context, ArticleCreatedEvent) error) Subscription {
	return m.Subscribe(KindArticleCreated, func(ctx context.Context, event Event) error {
		if e, ok := event.(ArticleCreatedEvent); ok {
			return fn(ctx, e)
		}
		return nil
	})
}
