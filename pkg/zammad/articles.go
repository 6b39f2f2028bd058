package zammad

import (
	"context"
	"fmt"
	"time"
)

// Article is one communication entry on a ticket.
type Article struct {
	ID          int       `json:"id"`
	TicketID    int       `json:"ticket_id"`
	Type        string    `json:"type,omitempty"`
	Sender      string    `json:"sender,omitempty"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to,omitempty"`
	Cc          string    `json:"cc,omitempty"`
	Subject     string    `json:"subject,omitempty"`
	Body        string    `json:"body,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	Internal    bool      `json:"internal,omitempty"`
	CreatedByID int       `json:"created_by_id,omitempty"`
	UpdatedByID int       `json:"updated_by_id,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// ArticleCreate is the payload for adding an article to a ticket.
type ArticleCreate struct {
	TicketID    int    `json:"ticket_id,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Body        string `json:"body"`
	ContentType string `json:"content_type,omitempty"`
	Type        string `json:"type,omitempty"`
	Internal    bool   `json:"internal,omitempty"`
}

// ArticlesClient provides access to ticket articles.
type ArticlesClient struct {
	client *Client
}

// ByTicket returns all articles of a ticket, oldest first.
func (ac *ArticlesClient) ByTicket(ctx context.Context, ticketID int) ([]Article, error) {
	var articles []Article
	path := fmt.Sprintf("/ticket_articles/by_ticket/%d", ticketID)
	if err := ac.client.do(ctx, "GET", path, nil, nil, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// Get fetches a single article by id.
func (ac *ArticlesClient) Get(ctx context.Context, id int) (*Article, error) {
	var article Article
	if err := ac.client.do(ctx, "GET", fmt.Sprintf("/ticket_articles/%d", id), nil, nil, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// Create adds an article to an existing ticket.
func (ac *ArticlesClient) Create(ctx context.Context, input ArticleCreate) (*Article, error) {
	var article Article
	if err := ac.client.do(ctx, "POST", "/ticket_articles", nil, input, &article); err != nil {
		return nil, err
	}
	return &article, nil
}
