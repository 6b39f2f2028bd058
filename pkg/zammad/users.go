package zammad

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// User is the API shape of a Zammad user account.
type User struct {
	ID             int        `json:"id"`
	Login          string     `json:"login,omitempty"`
	Firstname      string     `json:"firstname,omitempty"`
	Lastname       string     `json:"lastname,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	OrganizationID *int       `json:"organization_id,omitempty"`
	Active         bool       `json:"active,omitempty"`
	Note           string     `json:"note,omitempty"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	CreatedAt      time.Time  `json:"created_at,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at,omitempty"`
}

// DisplayName returns the best human-readable identifier for the user.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.Firstname + " " + u.Lastname)
	if name != "" {
		return name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.Login
}

// UserCreate is the payload for creating a user.
type UserCreate struct {
	Login          string `json:"login,omitempty"`
	Firstname      string `json:"firstname,omitempty"`
	Lastname       string `json:"lastname,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	OrganizationID *int   `json:"organization_id,omitempty"`
	RoleIDs        []int  `json:"role_ids,omitempty"`
	Note           string `json:"note,omitempty"`
}

// UserUpdate is a partial update; nil fields are left unchanged.
type UserUpdate struct {
	Login          *string `json:"login,omitempty"`
	Firstname      *string `json:"firstname,omitempty"`
	Lastname       *string `json:"lastname,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	OrganizationID *int    `json:"organization_id,omitempty"`
	RoleIDs        []int   `json:"role_ids,omitempty"`
	Active         *bool   `json:"active,omitempty"`
	Note           *string `json:"note,omitempty"`
}

// UsersClient provides user CRUD and search.
type UsersClient struct {
	client *Client
}

// List returns one page of users.
func (uc *UsersClient) List(ctx context.Context, opts *ListOptions) ([]User, error) {
	var users []User
	if err := uc.client.do(ctx, "GET", "/users", opts.values(), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Get fetches a single user by id.
func (uc *UsersClient) Get(ctx context.Context, id int) (*User, error) {
	var user User
	if err := uc.client.do(ctx, "GET", fmt.Sprintf("/users/%d", id), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me returns the account the client authenticates as.
func (uc *UsersClient) Me(ctx context.Context) (*User, error) {
	var user User
	if err := uc.client.do(ctx, "GET", "/users/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Search runs a user search query.
func (uc *UsersClient) Search(ctx context.Context, query string, opts *ListOptions) ([]User, error) {
	values := opts.values()
	values.Set("query", query)
	var users []User
	if err := uc.client.do(ctx, "GET", "/users/search", values, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create creates a user.
func (uc *UsersClient) Create(ctx context.Context, input UserCreate) (*User, error) {
	var user User
	if err := uc.client.do(ctx, "POST", "/users", nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies a partial update to a user.
func (uc *UsersClient) Update(ctx context.Context, id int, input UserUpdate) (*User, error) {
	var user User
	if err := uc.client.do(ctx, "PUT", fmt.Sprintf("/users/%d", id), nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user.
func (uc *UsersClient) Delete(ctx context.Context, id int) error {
	return uc.client.do(ctx, "DELETE", fmt.Sprintf("/users/%d", id), nil, nil, nil)
}
