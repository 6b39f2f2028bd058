package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/zammad-bridge/pkg/notify"
	"github.com/spec-kit/zammad-bridge/pkg/zammad"
)

type fakeTicketSource struct {
	countingUserSource
	tickets  []zammad.Ticket
	articles map[int][]zammad.Article
	listErr  error
}

func (s *fakeTicketSource) ListTickets(_ context.Context, page, perPage int) ([]zammad.Ticket, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if page > 1 {
		return nil, nil
	}
	out := make([]zammad.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out, nil
}

func (s *fakeTicketSource) TicketArticles(_ context.Context, ticketID int) ([]zammad.Article, error) {
	return s.articles[ticketID], nil
}

type pollerFixture struct {
	source   *fakeTicketSource
	poller   *notify.Poller
	monitor  *notify.Monitor
	recorder *eventRecorder
}

func newPollerFixture(t *testing.T, tickets ...zammad.Ticket) *pollerFixture {
	t.Helper()

	source := &fakeTicketSource{
		countingUserSource: countingUserSource{users: map[int]zammad.User{
			7: {ID: 7, Firstname: "Nicole", Lastname: "Braun"},
			9: {ID: 9, Login: "agent"},
		}},
		tickets:  tickets,
		articles: map[int][]zammad.Article{},
	}

	monitor := notify.NewMonitor(zap.NewNop())
	monitor.Start()
	recorder := &eventRecorder{}
	recorder.subscribeAll(monitor)

	poller := notify.NewPoller(source, notify.NewUserResolver(source), monitor, zap.NewNop(), notify.PollerConfig{})
	return &pollerFixture{source: source, poller: poller, monitor: monitor, recorder: recorder}
}

func ticketAt(id int, updated time.Time) zammad.Ticket {
	return zammad.Ticket{
		ID:          id,
		Title:       "printer on fire",
		StateID:     1,
		PriorityID:  2,
		OwnerID:     9,
		CreatedByID: 7,
		UpdatedByID: 9,
		UpdatedAt:   updated,
	}
}

func TestPollerFirstSightPublishesCreated(t *testing.T) {
	now := time.Now()
	fixture := newPollerFixture(t, ticketAt(1, now), ticketAt(2, now))
	fixture.source.articles[1] = []zammad.Article{
		{ID: 100, TicketID: 1, Body: "first"},
		{ID: 101, TicketID: 1, Body: "second"},
	}

	require.NoError(t, fixture.poller.PollOnce(context.Background()))

	require.Len(t, fixture.recorder.events, 2, "first cycle floods a created event per existing ticket")

	first, ok := fixture.recorder.events[0].(notify.TicketCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, 1, first.Ticket.ID)
	assert.Equal(t, 100, first.FirstArticle.ID, "oldest article is the first article")
	require.NotNil(t, first.Creator)
	assert.Equal(t, 7, first.Creator.ID)

	second, ok := fixture.recorder.events[1].(notify.TicketCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, 2, second.Ticket.ID)
	assert.Equal(t, 2, second.FirstArticle.TicketID, "ticket without articles gets an empty article")
	assert.Zero(t, second.FirstArticle.ID)
}

func TestPollerUnchangedTicketIsSilent(t *testing.T) {
	now := time.Now()
	fixture := newPollerFixture(t, ticketAt(1, now))

	require.NoError(t, fixture.poller.PollOnce(context.Background()))
	require.Len(t, fixture.recorder.events, 1)

	require.NoError(t, fixture.poller.PollOnce(context.Background()))
	assert.Len(t, fixture.recorder.events, 1, "identical snapshot must yield no events")
}

func TestPollerDetectsOwnerChange(t *testing.T) {
	now := time.Now()
	fixture := newPollerFixture(t, ticketAt(1, now))
	require.NoError(t, fixture.poller.PollOnce(context.Background()))

	changed := ticketAt(1, now.Add(time.Minute))
	changed.OwnerID = 12
	fixture.source.tickets = []zammad.Ticket{changed}

	require.NoError(t, fixture.poller.PollOnce(context.Background()))

	require.Len(t, fixture.recorder.events, 2)
	event, ok := fixture.recorder.events[1].(notify.TicketUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"owner_id": 12}, event.ChangedFields)
	assert.Equal(t, 9, event.Previous.OwnerID)
	assert.Equal(t, 12, event.Ticket.OwnerID)
	require.NotNil(t, event.UpdatedBy)
	assert.Equal(t, 9, event.UpdatedBy.ID)
}

func TestPollerTimestampBumpWithoutTrackedChange(t *testing.T) {
	now := time.Now()
	fixture := newPollerFixture(t, ticketAt(1, now))
	require.NoError(t, fixture.poller.PollOnce(context.Background()))

	// Only an untracked field changed, but updated_at moved.
	bumped := ticketAt(1, now.Add(time.Minute))
	bumped.Note = "escalated via phone"
	fixture.source.tickets = []zammad.Ticket{bumped}

	require.NoError(t, fixture.poller.PollOnce(context.Background()))

	require.Len(t, fixture.recorder.events, 2)
	event, ok := fixture.recorder.events[1].(notify.TicketUpdatedEvent)
	require.True(t, ok)
	assert.Empty(t, event.ChangedFields, "untracked changes report an empty field map")
}

func TestPollerDetectsClose(t *testing.T) {
	now := time.Now()
	fixture := newPollerFixture(t, ticketAt(1, now))
	require.NoError(t, fixture.poller.PollOnce(context.Background()))

	closedAt := now.Add(2 * time.Minute)
	closed := ticketAt(1, closedAt)
	closed.StateID = 4
	closed.CloseAt = &closedAt
	fixture.source.tickets = []zammad.Ticket{closed}

	require.NoError(t, fixture.poller.PollOnce(context.Background()))

	require.Len(t, fixture.recorder.events, 3, "close emits both an update and a close event")

	update, ok := fixture.recorder.events[1].(notify.TicketUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"state_id": 4}, update.ChangedFields)

	closeEvent, ok := fixture.recorder.events[2].(notify.TicketClosedEvent)
	require.True(t, ok)
	assert.True(t, closeEvent.ClosedAt.Equal(closedAt))
	require.NotNil(t, closeEvent.ClosedBy)
	assert.Equal(t, 9, closeEvent.ClosedBy.ID)

	// A later update on the already closed ticket must not re-emit close.
	reopenedAt := closedAt.Add(time.Minute)
	later := closed.Clone()
	later.UpdatedAt = reopenedAt
	later.Title = "printer was on fire"
	fixture.source.tickets = []zammad.Ticket{later}

	require.NoError(t, fixture.poller.PollOnce(context.Background()))
	require.Len(t, fixture.recorder.events, 4)
	_, ok = fixture.recorder.events[3].(notify.TicketUpdatedEvent)
	assert.True(t, ok)
}

func TestPollerSnapshotIsDetachedCopy(t *testing.T) {
	now := time.Now()
	closedAt := now.Add(-time.Hour)

	ticket := ticketAt(1, now)
	ticket.CloseAt = &closedAt
	fixture := newPollerFixture(t, ticket)
	require.NoError(t, fixture.poller.PollOnce(context.Background()))

	// Zero the timestamp through the pointer the source handed out. A
	// snapshot holding a live reference would now believe the ticket was
	// never closed and re-emit a close event below.
	closedAt = time.Time{}

	stillClosed := now.Add(-time.Hour)
	changed := ticketAt(1, now.Add(time.Minute))
	changed.Title = "still broken"
	changed.CloseAt = &stillClosed
	fixture.source.tickets = []zammad.Ticket{changed}

	require.NoError(t, fixture.poller.PollOnce(context.Background()))

	require.Len(t, fixture.recorder.events, 2)
	_, ok := fixture.recorder.events[1].(notify.TicketUpdatedEvent)
	assert.True(t, ok, "already closed ticket must only yield an update")
}

func TestPollerListFailureSurfacesFromPollOnce(t *testing.T) {
	fixture := newPollerFixture(t)
	fixture.source.listErr = errors.New("connection refused")

	err := fixture.poller.PollOnce(context.Background())
	require.Error(t, err)
	assert.Empty(t, fixture.recorder.events)
}

func TestPollerStartStopDrivesMonitorLifecycle(t *testing.T) {
	now := time.Now()
	source := &fakeTicketSource{
		countingUserSource: countingUserSource{users: map[int]zammad.User{
			7: {ID: 7}, 9: {ID: 9},
		}},
		tickets:  []zammad.Ticket{ticketAt(1, now)},
		articles: map[int][]zammad.Article{},
	}

	monitor := notify.NewMonitor(zap.NewNop())
	delivered := make(chan notify.Event, 8)
	monitor.Subscribe(notify.KindTicketCreated, func(_ context.Context, event notify.Event) error {
		delivered <- event
		return nil
	})

	poller := notify.NewPoller(source, notify.NewUserResolver(source), monitor, zap.NewNop(), notify.PollerConfig{
		Interval: time.Hour,
	})

	poller.Start()
	poller.Start() // no-op on a running poller

	select {
	case event := <-delivered:
		assert.Equal(t, notify.KindTicketCreated, event.EventKind())
	case <-time.After(2 * time.Second):
		t.Fatal("first cycle did not run after Start")
	}
	assert.True(t, monitor.Started())

	poller.Stop()
	poller.Stop() // safe to call again
	assert.False(t, monitor.Started(), "stopping the loop stops the monitor")
}
