package zammad

import (
	"context"
	"net/url"
	"strconv"
)

// Link connects two tickets (normal, parent or child relation).
type Link struct {
	LinkType        string `json:"link_type"`
	LinkObject      string `json:"link_object"`
	LinkObjectValue int    `json:"link_object_value"`
}

// LinkAdd is the payload for creating a link. The source ticket is
// addressed by its number, the target by its id, matching the API.
type LinkAdd struct {
	LinkType               string `json:"link_type"`
	LinkObjectTarget       string `json:"link_object_target"`
	LinkObjectTargetValue  int    `json:"link_object_target_value"`
	LinkObjectSource       string `json:"link_object_source"`
	LinkObjectSourceNumber string `json:"link_object_source_number"`
}

// LinkRemove is the payload for deleting a link.
type LinkRemove struct {
	LinkType              string `json:"link_type"`
	LinkObjectTarget      string `json:"link_object_target"`
	LinkObjectTargetValue int    `json:"link_object_target_value"`
	LinkObjectSource      string `json:"link_object_source"`
	LinkObjectSourceValue int    `json:"link_object_source_value"`
}

// LinksClient manages links between tickets.
type LinksClient struct {
	client *Client
}

// ByTicket returns all links attached to a ticket.
func (lc *LinksClient) ByTicket(ctx context.Context, ticketID int) ([]Link, error) {
	query := url.Values{}
	query.Set("link_object", "Ticket")
	query.Set("link_object_value", strconv.Itoa(ticketID))

	var response struct {
		Links []Link `json:"links"`
	}
	if err := lc.client.do(ctx, "GET", "/links", query, nil, &response); err != nil {
		return nil, err
	}
	return response.Links, nil
}

// Add creates a link between two tickets.
func (lc *LinksClient) Add(ctx context.Context, input LinkAdd) error {
	return lc.client.do(ctx, "POST", "/links/add", nil, input, nil)
}

// Remove deletes a link between two tickets.
func (lc *LinksClient) Remove(ctx context.Context, input LinkRemove) error {
	return lc.client.do(ctx, "DELETE", "/links/remove", nil, input, nil)
}
