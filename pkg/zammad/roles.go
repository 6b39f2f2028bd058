package zammad

import (
	"context"
	"fmt"
	"time"
)

// Role is a Zammad permission role.
type Role struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active,omitempty"`
	Default   bool      `json:"default_at_signup,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// RoleCreate is the payload for creating a role.
type RoleCreate struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permission_names,omitempty"`
	Active      *bool    `json:"active,omitempty"`
	Note        string   `json:"note,omitempty"`
}

// RoleUpdate is a partial update; nil fields are left unchanged.
type RoleUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Permissions []string `json:"permission_names,omitempty"`
	Active      *bool    `json:"active,omitempty"`
	Note        *string  `json:"note,omitempty"`
}

// RolesClient provides role CRUD.
type RolesClient struct {
	client *Client
}

// List returns one page of roles.
func (rc *RolesClient) List(ctx context.Context, opts *ListOptions) ([]Role, error) {
	var roles []Role
	if err := rc.client.do(ctx, "GET", "/roles", opts.values(), nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// Get fetches a single role by id.
func (rc *RolesClient) Get(ctx context.Context, id int) (*Role, error) {
	var role Role
	if err := rc.client.do(ctx, "GET", fmt.Sprintf("/roles/%d", id), nil, nil, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// Create creates a role.
func (rc *RolesClient) Create(ctx context.Context, input RoleCreate) (*Role, error) {
	var role Role
	if err := rc.client.do(ctx, "POST", "/roles", nil, input, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// Update applies a partial update to a role.
func (rc *RolesClient) Update(ctx context.Context, id int, input RoleUpdate) (*Role, error) {
	var role Role
	if err := rc.client.do(ctx, "PUT", fmt.Sprintf("/roles/%d", id), nil, input, &role); err != nil {
		return nil, err
	}
	return &role, nil
}
