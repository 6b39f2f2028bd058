package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/zammad-bridge/pkg/notify"
)

const schema = `
CREATE TABLE IF NOT EXISTS ticket_events (
    id          UUID PRIMARY KEY,
    kind        TEXT NOT NULL,
    ticket_id   BIGINT NOT NULL,
    payload     JSONB NOT NULL,
    recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ticket_events_ticket_id_idx ON ticket_events (ticket_id);
`

// Journal persists every dispatched event to Postgres. It is a write-only
// sink for operators who want event history across restarts; the core
// never reads it back.
type Journal struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewJournal creates a journal writing to the given pool.
func NewJournal(pool *pgxpool.Pool, logger *zap.Logger) *Journal {
	return &Journal{pool: pool, logger: logger}
}

// EnsureSchema creates the ticket_events table when missing.
func (j *Journal) EnsureSchema(ctx context.Context) error {
	if _, err := j.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure journal schema: %w", err)
	}
	return nil
}

// RegisterHandlers subscribes the journal to every event kind.
func (j *Journal) RegisterHandlers(monitor *notify.Monitor) {
	for _, kind := range notify.Kinds() {
		monitor.Subscribe(kind, j.record)
	}
}

func (j *Journal) record(ctx context.Context, event notify.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.EventID(), err)
	}

	_, err = j.pool.Exec(ctx,
		`INSERT INTO ticket_events (id, kind, ticket_id, payload) VALUES ($1, $2, $3, $4)`,
		event.EventID(), string(event.EventKind()), ticketID(event), payload)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", event.EventID(), err)
	}

	j.logger.Debug("event journaled",
		zap.String("event_id", event.EventID()),
		zap.String("kind", string(event.EventKind())))
	return nil
}

func ticketID(event notify.Event) int {
	switch e := event.(type) {
	case notify.TicketCreatedEvent:
		return e.Ticket.ID
	case notify.TicketUpdatedEvent:
		return e.Ticket.ID
	case notify.TicketClosedEvent:
		return e.Ticket.ID
	case notify.ArticleCreatedEvent:
		return e.Ticket.ID
	}
	return 0
}
