package relay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/zammad-bridge/pkg/notify"
)

// Relay republishes dispatched events as JSON on a Redis pub/sub channel
// so consumers outside this process can follow the event stream.
type Relay struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRelay creates a relay publishing to the given channel.
func NewRelay(client *redis.Client, channel string, logger *zap.Logger) *Relay {
	return &Relay{client: client, channel: channel, logger: logger}
}

// RegisterHandlers subscribes the relay to every event kind.
func (r *Relay) RegisterHandlers(monitor *notify.Monitor) {
	for _, kind := range notify.Kinds() {
		monitor.Subscribe(kind, r.publish)
	}
}

type envelope struct {
	ID      string       `json:"id"`
	Kind    notify.Kind  `json:"kind"`
	Payload notify.Event `json:"payload"`
}

func (r *Relay) publish(ctx context.Context, event notify.Event) error {
	message, err := json.Marshal(envelope{
		ID:      event.EventID(),
		Kind:    event.EventKind(),
		Payload: event,
	})
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.EventID(), err)
	}

	if err := r.client.Publish(ctx, r.channel, message).Err(); err != nil {
		return fmt.Errorf("relay event %s: %w", event.EventID(), err)
	}

	r.logger.Debug("event relayed",
		zap.String("event_id", event.EventID()),
		zap.String("channel", r.channel))
	return nil
}
