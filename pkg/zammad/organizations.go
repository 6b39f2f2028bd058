package zammad

import (
	"context"
	"fmt"
	"time"
)

// Organization is a Zammad customer organization.
type Organization struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Shared    bool      `json:"shared,omitempty"`
	Domain    string    `json:"domain,omitempty"`
	Active    bool      `json:"active,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// OrganizationCreate is the payload for creating an organization.
type OrganizationCreate struct {
	Name   string `json:"name"`
	Shared *bool  `json:"shared,omitempty"`
	Domain string `json:"domain,omitempty"`
	Active *bool  `json:"active,omitempty"`
	Note   string `json:"note,omitempty"`
}

// OrganizationUpdate is a partial update; nil fields are left unchanged.
type OrganizationUpdate struct {
	Name   *string `json:"name,omitempty"`
	Shared *bool   `json:"shared,omitempty"`
	Domain *string `json:"domain,omitempty"`
	Active *bool   `json:"active,omitempty"`
	Note   *string `json:"note,omitempty"`
}

// OrganizationsClient provides organization CRUD.
type OrganizationsClient struct {
	client *Client
}

// List returns one page of organizations.
func (oc *OrganizationsClient) List(ctx context.Context, opts *ListOptions) ([]Organization, error) {
	var orgs []Organization
	if err := oc.client.do(ctx, "GET", "/organizations", opts.values(), nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// Get fetches a single organization by id.
func (oc *OrganizationsClient) Get(ctx context.Context, id int) (*Organization, error) {
	var org Organization
	if err := oc.client.do(ctx, "GET", fmt.Sprintf("/organizations/%d", id), nil, nil, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// Create creates an organization.
func (oc *OrganizationsClient) Create(ctx context.Context, input OrganizationCreate) (*Organization, error) {
	var org Organization
	if err := oc.client.do(ctx, "POST", "/organizations", nil, input, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// Update applies a partial update to an organization.
func (oc *OrganizationsClient) Update(ctx context.Context, id int, input OrganizationUpdate) (*Organization, error) {
	var org Organization
	if err := oc.client.do(ctx, "PUT", fmt.Sprintf("/organizations/%d", id), nil, input, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// Delete removes an organization.
func (oc *OrganizationsClient) Delete(ctx context.Context, id int) error {
	return oc.client.do(ctx, "DELETE", fmt.Sprintf("/organizations/%d", id), nil, nil, nil)
}
