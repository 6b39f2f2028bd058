package zammad

import (
	"context"
	"fmt"
	"time"
)

// Ticket is the API shape of a Zammad ticket. Only scalar fields are kept;
// referenced records (owner, customer, ...) are carried as ids.
type Ticket struct {
	ID             int        `json:"id"`
	Number         string     `json:"number,omitempty"`
	Title          string     `json:"title"`
	GroupID        int        `json:"group_id,omitempty"`
	StateID        int        `json:"state_id,omitempty"`
	PriorityID     int        `json:"priority_id,omitempty"`
	OwnerID        int        `json:"owner_id,omitempty"`
	CustomerID     int        `json:"customer_id,omitempty"`
	OrganizationID *int       `json:"organization_id,omitempty"`
	Note           string     `json:"note,omitempty"`
	CreatedByID    int        `json:"created_by_id,omitempty"`
	UpdatedByID    int        `json:"updated_by_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at,omitempty"`
	CloseAt        *time.Time `json:"close_at,omitempty"`
}

// Clone returns a deep copy of the ticket, detached from any pointer
// fields of the receiver.
func (t Ticket) Clone() Ticket {
	clone := t
	if t.OrganizationID != nil {
		v := *t.OrganizationID
		clone.OrganizationID = &v
	}
	if t.CloseAt != nil {
		v := *t.CloseAt
		clone.CloseAt = &v
	}
	return clone
}

// Closed reports whether the ticket carries a close timestamp.
func (t Ticket) Closed() bool {
	return t.CloseAt != nil && !t.CloseAt.IsZero()
}

// TicketCreate is the payload for creating a ticket.
type TicketCreate struct {
	Title      string         `json:"title"`
	GroupID    int            `json:"group_id,omitempty"`
	Group      string         `json:"group,omitempty"`
	CustomerID int            `json:"customer_id,omitempty"`
	Customer   string         `json:"customer,omitempty"`
	StateID    int            `json:"state_id,omitempty"`
	PriorityID int            `json:"priority_id,omitempty"`
	OwnerID    int            `json:"owner_id,omitempty"`
	Note       string         `json:"note,omitempty"`
	Article    *ArticleCreate `json:"article,omitempty"`
}

// TicketUpdate is a partial update; nil fields are left unchanged.
type TicketUpdate struct {
	Title      *string `json:"title,omitempty"`
	GroupID    *int    `json:"group_id,omitempty"`
	StateID    *int    `json:"state_id,omitempty"`
	PriorityID *int    `json:"priority_id,omitempty"`
	OwnerID    *int    `json:"owner_id,omitempty"`
	Note       *string `json:"note,omitempty"`
}

// TicketsClient provides ticket CRUD and search.
type TicketsClient struct {
	client *Client
}

// List returns one page of tickets.
func (tc *TicketsClient) List(ctx context.Context, opts *ListOptions) ([]Ticket, error) {
	var tickets []Ticket
	if err := tc.client.do(ctx, "GET", "/tickets", opts.values(), nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// Get fetches a single ticket by id.
func (tc *TicketsClient) Get(ctx context.Context, id int) (*Ticket, error) {
	var ticket Ticket
	if err := tc.client.do(ctx, "GET", fmt.Sprintf("/tickets/%d", id), nil, nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Search runs a ticket search query. Results are always expanded so the
// server returns full ticket records.
func (tc *TicketsClient) Search(ctx context.Context, query string, opts *ListOptions) ([]Ticket, error) {
	values := opts.values()
	values.Set("query", query)
	values.Set("expand", "true")
	var tickets []Ticket
	if err := tc.client.do(ctx, "GET", "/tickets/search", values, nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// Create creates a ticket, optionally with its first article.
func (tc *TicketsClient) Create(ctx context.Context, input TicketCreate) (*Ticket, error) {
	var ticket Ticket
	if err := tc.client.do(ctx, "POST", "/tickets", nil, input, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Update applies a partial update to a ticket.
func (tc *TicketsClient) Update(ctx context.Context, id int, input TicketUpdate) (*Ticket, error) {
	var ticket Ticket
	if err := tc.client.do(ctx, "PUT", fmt.Sprintf("/tickets/%d", id), nil, input, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Delete removes a ticket. Requires admin permissions on the instance.
func (tc *TicketsClient) Delete(ctx context.Context, id int) error {
	return tc.client.do(ctx, "DELETE", fmt.Sprintf("/tickets/%d", id), nil, nil, nil)
}
