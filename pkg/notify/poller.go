package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/zammad-bridge/pkg/zammad"
)

// Defaults for the polling reconciliation path.
const (
	DefaultPollInterval = 30 * time.Second
	DefaultPollPageSize = 200

	stopWait = 5 * time.Second
)

// trackedFields are the ticket fields the diff inspects for ChangedFields
// content. The "did anything change" gate is the ticket's own updated_at
// timestamp, so an update touching only untracked fields still yields a
// TicketUpdatedEvent with an empty ChangedFields map. That approximation
// is intentional.
var trackedFields = []string{"state_id", "title", "owner_id", "priority_id"}

// PollerConfig configures the polling path. Zero values fall back to the
// defaults above.
type PollerConfig struct {
	Interval time.Duration
	PageSize int
}

// Poller discovers the same event kinds as the webhook path by
// periodically diffing the ticket list against retained snapshots. Its
// snapshot map starts empty, so the very first cycle emits a
// TicketCreatedEvent for every existing ticket.
type Poller struct {
	source   TicketSource
	users    *UserResolver
	monitor  *Monitor
	logger   *zap.Logger
	interval time.Duration
	pageSize int

	// snapshots is touched only by the loop goroutine (and PollOnce,
	// which must not run concurrently with the loop).
	snapshots map[int]zammad.Ticket

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewPoller constructs a poller. Start must be called to begin polling.
func NewPoller(source TicketSource, users *UserResolver, monitor *Monitor, logger *zap.Logger, cfg PollerConfig) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPollPageSize
	}
	return &Poller{
		source:    source,
		users:     users,
		monitor:   monitor,
		logger:    logger,
		interval:  interval,
		pageSize:  pageSize,
		snapshots: make(map[int]zammad.Ticket),
	}
}

// Start launches the background loop. It starts the monitor, polls once
// immediately and then on every interval tick until Stop is called.
// Calling Start on a running poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	go p.run(p.stopCh, p.doneCh)
}

// Stop cancels the loop and waits, bounded, for it to exit. The current
// cycle is allowed to finish; the inter-cycle sleep is interrupted
// immediately. Safe to call multiple times.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	done := p.doneCh
	p.mu.Unlock()

	select {
	case <-done:
	case <-time.After(stopWait):
		p.logger.Warn("poll loop did not stop in time", zap.Duration("waited", stopWait))
	}
}

func (p *Poller) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	p.monitor.Start()
	defer p.monitor.Stop()

	p.logger.Info("poll loop started",
		zap.Duration("interval", p.interval),
		zap.Int("page_size", p.pageSize))

	ctx := context.Background()
	for {
		if err := p.PollOnce(ctx); err != nil {
			// Transient failures wait for the next tick, no retry.
			p.logger.Error("poll cycle failed", zap.Error(err))
		}

		select {
		case <-stopCh:
			p.logger.Info("poll loop stopped")
			return
		case <-time.After(p.interval):
		}
	}
}

// PollOnce runs a single reconciliation cycle: fetch one page of tickets,
// diff each against its snapshot and publish the implied events. The
// first error aborts the remainder of the cycle.
func (p *Poller) PollOnce(ctx context.Context) error {
	tickets, err := p.source.ListTickets(ctx, 1, p.pageSize)
	if err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}

	for i := range tickets {
		if err := p.reconcile(ctx, tickets[i]); err != nil {
			return fmt.Errorf("reconcile ticket %d: %w", tickets[i].ID, err)
		}
	}
	return nil
}

func (p *Poller) reconcile(ctx context.Context, ticket zammad.Ticket) error {
	previous, seen := p.snapshots[ticket.ID]
	if !seen {
		return p.firstSight(ctx, ticket)
	}

	if ticket.UpdatedAt.Equal(previous.UpdatedAt) {
		return nil
	}
	p.snapshots[ticket.ID] = ticket.Clone()

	updater, err := p.users.Resolve(ctx, ticket.UpdatedByID)
	if err != nil {
		return err
	}

	p.monitor.Publish(ctx, TicketUpdatedEvent{
		ID:            newEventID(),
		Ticket:        ticket,
		Previous:      previous,
		ChangedFields: diffTracked(previous, ticket),
		UpdatedBy:     updater,
	})

	if ticket.Closed() && !previous.Closed() {
		p.monitor.Publish(ctx, TicketClosedEvent{
			ID:       newEventID(),
			Ticket:   ticket,
			ClosedBy: updater,
			ClosedAt: *ticket.CloseAt,
		})
	}
	return nil
}

// firstSight records a snapshot and publishes TicketCreatedEvent. A
// ticket that existed before the loop started is indistinguishable from a
// truly new one; that is an accepted limitation of the polling path.
func (p *Poller) firstSight(ctx context.Context, ticket zammad.Ticket) error {
	p.snapshots[ticket.ID] = ticket.Clone()

	articles, err := p.source.TicketArticles(ctx, ticket.ID)
	if err != nil {
		return err
	}
	first := zammad.Article{TicketID: ticket.ID}
	if len(articles) > 0 {
		first = articles[0]
	}

	creator, err := p.users.Resolve(ctx, ticket.CreatedByID)
	if err != nil {
		return err
	}

	p.monitor.Publish(ctx, TicketCreatedEvent{
		ID:           newEventID(),
		Ticket:       ticket,
		FirstArticle: first,
		Creator:      creator,
		ObservedAt:   time.Now(),
	})
	return nil
}

// diffTracked compares the tracked fields of two snapshots and returns
// the differing ones keyed by field name, values being the new value.
func diffTracked(previous, current zammad.Ticket) map[string]any {
	changed := make(map[string]any)
	for _, field := range trackedFields {
		switch field {
		case "state_id":
			if previous.StateID != current.StateID {
				changed[field] = current.StateID
			}
		case "title":
			if previous.Title != current.Title {
				changed[field] = current.Title
			}
		case "owner_id":
			if previous.OwnerID != current.OwnerID {
				changed[field] = current.OwnerID
			}
		case "priority_id":
			if previous.PriorityID != current.PriorityID {
				changed[field] = current.PriorityID
			}
		}
	}
	return changed
}
