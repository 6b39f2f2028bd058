package zammad

import (
	"context"
	"fmt"
	"time"
)

// AccessToken is a personal API token of the authenticated user. The
// secret itself is only returned once, by Create.
type AccessToken struct {
	ID         int        `json:"id"`
	Label      string     `json:"label,omitempty"`
	Permission []string   `json:"permission,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at,omitempty"`
}

// TokenCreate is the payload for minting a new access token.
type TokenCreate struct {
	Label      string     `json:"label"`
	Permission []string   `json:"permission,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// TokensClient manages the authenticated user's access tokens.
type TokensClient struct {
	client *Client
}

// List returns all access tokens of the current user.
func (tc *TokensClient) List(ctx context.Context) ([]AccessToken, error) {
	var response struct {
		Tokens []AccessToken `json:"tokens"`
	}
	if err := tc.client.do(ctx, "GET", "/user_access_token", nil, nil, &response); err != nil {
		return nil, err
	}
	return response.Tokens, nil
}

// Create mints a new access token and returns the secret string. The
// secret cannot be retrieved again afterwards.
func (tc *TokensClient) Create(ctx context.Context, input TokenCreate) (string, error) {
	var response struct {
		Token string `json:"token"`
	}
	if err := tc.client.do(ctx, "POST", "/user_access_token", nil, input, &response); err != nil {
		return "", err
	}
	return response.Token, nil
}

// Delete revokes an access token.
func (tc *TokensClient) Delete(ctx context.Context, id int) error {
	return tc.client.do(ctx, "DELETE", fmt.Sprintf("/user_access_token/%d", id), nil, nil, nil)
}
