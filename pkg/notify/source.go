package notify

import (
	"context"

	"github.com/spec-kit/zammad-bridge/pkg/zammad"
)

// TicketSource is the REST collaborator contract of the polling path.
type TicketSource interface {
	ListTickets(ctx context.Context, page, perPage int) ([]zammad.Ticket, error)
	TicketArticles(ctx context.Context, ticketID int) ([]zammad.Article, error)
}

// UserSource is the lookup collaborator contract of the user resolver.
type UserSource interface {
	GetUser(ctx context.Context, id int) (*zammad.User, error)
}

// APISource adapts a zammad.Client to the collaborator contracts.
type APISource struct {
	Client *zammad.Client
}

// ListTickets fetches one page of tickets with referenced records expanded.
func (s APISource) ListTickets(ctx context.Context, page, perPage int) ([]zammad.Ticket, error) {
	return s.Client.Tickets.List(ctx, &zammad.ListOptions{Page: page, PerPage: perPage, Expand: true})
}

// TicketArticles fetches the articles of one ticket.
func (s APISource) TicketArticles(ctx context.Context, ticketID int) ([]zammad.Article, error) {
	return s.Client.Articles.ByTicket(ctx, ticketID)
}

// GetUser fetches one user by id.
func (s APISource) GetUser(ctx context.Context, id int) (*zammad.User, error) {
	return s.Client.Users.Get(ctx, id)
}
