package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/zammad-bridge/pkg/zammad"
)

// Kind enumerates the recognized notification types. The values match the
// event names Zammad sends in the X-Zammad-Event webhook header.
type Kind string

const (
	KindTicketCreated  Kind = "ticket.created"
	KindTicketUpdated  Kind = "ticket.updated"
	KindTicketClosed   Kind = "ticket.closed"
	KindArticleCreated Kind = "ticket.article.created"
)

// Kinds lists every recognized event kind.
func Kinds() []Kind {
	return []Kind{KindTicketCreated, KindTicketUpdated, KindTicketClosed, KindArticleCreated}
}

// Event is the closed set of notification records produced by the webhook
// and polling paths. Every event carries the full current ticket/article
// object so subscribers never need a secondary fetch for basic display.
type Event interface {
	EventID() string
	EventKind() Kind
}

// TicketCreatedEvent reports a ticket seen for the first time.
type TicketCreatedEvent struct {
	ID           string
	Ticket       zammad.Ticket
	FirstArticle zammad.Article
	Creator      *zammad.User
	ObservedAt   time.Time
}

func (e TicketCreatedEvent) EventID() string { return e.ID }

func (e TicketCreatedEvent) EventKind() Kind { return KindTicketCreated }

// TicketUpdatedEvent reports a change to an already known ticket.
// ChangedFields holds only fields whose value differs between Previous and
// Ticket, keyed by the stable JSON field name, values being the new value.
// It may be empty when only untracked fields changed.
type TicketUpdatedEvent struct {
	ID            string
	Ticket        zammad.Ticket
	Previous      zammad.Ticket
	ChangedFields map[string]any
	UpdatedBy     *zammad.User
}

func (e TicketUpdatedEvent) EventID() string { return e.ID }

func (e TicketUpdatedEvent) EventKind() Kind { return KindTicketUpdated }

// TicketClosedEvent reports a ticket transitioning to closed.
type TicketClosedEvent struct {
	ID       string
	Ticket   zammad.Ticket
	ClosedBy *zammad.User
	ClosedAt time.Time
}

func (e TicketClosedEvent) EventID() string { return e.ID }

func (e TicketClosedEvent) EventKind() Kind { return KindTicketClosed }

// ArticleCreatedEvent reports a new article on a ticket, including split
// metadata when the article was moved from another ticket.
type ArticleCreatedEvent struct {
	ID                 string
	Article            zammad.Article
	Ticket             zammad.Ticket
	IsSplit            bool
	SplitFromTicketID  *int
	SplitFromArticleID *int
}

func (e ArticleCreatedEvent) EventID() string { return e.ID }

func (e ArticleCreatedEvent) EventKind() Kind { return KindArticleCreated }

func newEventID() string {
	return uuid.NewString()
}
