package zammad_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/zammad-bridge/pkg/zammad"
)

func TestArticlesByTicket(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/ticket_articles/by_ticket/5", r.URL.Path)
		w.Write([]byte(`[{"id":1,"ticket_id":5,"body":"first"},{"id":2,"ticket_id":5,"body":"second"}]`))
	})

	articles, err := client.Articles.ByTicket(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "first", articles[0].Body)
}

func TestUsersMe(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/me", r.URL.Path)
		w.Write([]byte(`{"id":3,"login":"agent@example.com","firstname":"Anna","lastname":"Lopez"}`))
	})

	user, err := client.Users.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, user.ID)
	assert.Equal(t, "Anna Lopez", user.DisplayName())
}

func TestUsersSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/search", r.URL.Path)
		assert.Equal(t, "braun", r.URL.Query().Get("query"))
		w.Write([]byte(`[{"id":7,"email":"nicole.braun@example.com"}]`))
	})

	users, err := client.Users.Search(context.Background(), "braun", nil)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "nicole.braun@example.com", users[0].DisplayName())
}

func TestGroupsCRUD(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			assert.Equal(t, "/api/v1/groups", r.URL.Path)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":2,"name":"Sales"}`))
		case r.Method == http.MethodDelete:
			assert.Equal(t, "/api/v1/groups/2", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		default:
			assert.Equal(t, "/api/v1/groups/2", r.URL.Path)
			w.Write([]byte(`{"id":2,"name":"Sales","active":true}`))
		}
	})

	group, err := client.Groups.Create(context.Background(), zammad.GroupCreate{Name: "Sales"})
	require.NoError(t, err)
	assert.Equal(t, 2, group.ID)

	fetched, err := client.Groups.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, fetched.Active)

	require.NoError(t, client.Groups.Delete(context.Background(), 2))
}

func TestOrganizationsList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/organizations", r.URL.Path)
		w.Write([]byte(`[{"id":1,"name":"Zammad Foundation","shared":true}]`))
	})

	orgs, err := client.Organizations.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.True(t, orgs[0].Shared)
}

func TestRolesList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/roles", r.URL.Path)
		w.Write([]byte(`[{"id":1,"name":"Admin"},{"id":2,"name":"Agent"}]`))
	})

	roles, err := client.Roles.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "Agent", roles[1].Name)
}

func TestTagsByObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tags", r.URL.Path)
		assert.Equal(t, "Ticket", r.URL.Query().Get("object"))
		assert.Equal(t, "5", r.URL.Query().Get("o_id"))
		w.Write([]byte(`{"tags":["urgent","hardware"]}`))
	})

	tags, err := client.Tags.ByObject(context.Background(), "Ticket", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent", "hardware"}, tags)
}

func TestTagsAdd(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/tags/add", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Ticket", payload["object"])
		assert.Equal(t, float64(5), payload["o_id"])
		assert.Equal(t, "urgent", payload["item"])
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.Tags.Add(context.Background(), "Ticket", 5, "urgent"))
}

func TestLinksByTicket(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/links", r.URL.Path)
		assert.Equal(t, "Ticket", r.URL.Query().Get("link_object"))
		assert.Equal(t, "5", r.URL.Query().Get("link_object_value"))
		w.Write([]byte(`{"links":[{"link_type":"child","link_object":"Ticket","link_object_value":9}]}`))
	})

	links, err := client.Links.ByTicket(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "child", links[0].LinkType)
	assert.Equal(t, 9, links[0].LinkObjectValue)
}

func TestTokensLifecycle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/api/v1/user_access_token", r.URL.Path)
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "bridge", payload["label"])
			w.Write([]byte(`{"token":"nEw-s3cret-t0ken"}`))
		case http.MethodDelete:
			assert.Equal(t, "/api/v1/user_access_token/4", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		default:
			assert.Equal(t, "/api/v1/user_access_token", r.URL.Path)
			w.Write([]byte(`{"tokens":[{"id":4,"label":"bridge","permission":["ticket.agent"]}],"permissions":[]}`))
		}
	})

	secret, err := client.Tokens.Create(context.Background(), zammad.TokenCreate{Label: "bridge", Permission: []string{"ticket.agent"}})
	require.NoError(t, err)
	assert.Equal(t, "nEw-s3cret-t0ken", secret)

	tokens, err := client.Tokens.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "bridge", tokens[0].Label)

	require.NoError(t, client.Tokens.Delete(context.Background(), 4))
}
