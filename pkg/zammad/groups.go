package zammad

import (
	"context"
	"fmt"
	"time"
)

// Group is a Zammad agent group.
type Group struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// GroupCreate is the payload for creating a group.
type GroupCreate struct {
	Name   string `json:"name"`
	Active *bool  `json:"active,omitempty"`
	Note   string `json:"note,omitempty"`
}

// GroupUpdate is a partial update; nil fields are left unchanged.
type GroupUpdate struct {
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`
	Note   *string `json:"note,omitempty"`
}

// GroupsClient provides group CRUD.
type GroupsClient struct {
	client *Client
}

// List returns one page of groups.
func (gc *GroupsClient) List(ctx context.Context, opts *ListOptions) ([]Group, error) {
	var groups []Group
	if err := gc.client.do(ctx, "GET", "/groups", opts.values(), nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Get fetches a single group by id.
func (gc *GroupsClient) Get(ctx context.Context, id int) (*Group, error) {
	var group Group
	if err := gc.client.do(ctx, "GET", fmt.Sprintf("/groups/%d", id), nil, nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// Create creates a group.
func (gc *GroupsClient) Create(ctx context.Context, input GroupCreate) (*Group, error) {
	var group Group
	if err := gc.client.do(ctx, "POST", "/groups", nil, input, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// Update applies a partial update to a group.
func (gc *GroupsClient) Update(ctx context.Context, id int, input GroupUpdate) (*Group, error) {
	var group Group
	if err := gc.client.do(ctx, "PUT", fmt.Sprintf("/groups/%d", id), nil, input, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// Delete removes a group.
func (gc *GroupsClient) Delete(ctx context.Context, id int) error {
	return gc.client.do(ctx, "DELETE", fmt.Sprintf("/groups/%d", id), nil, nil, nil)
}
