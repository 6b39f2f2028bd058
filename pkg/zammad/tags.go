package zammad

import (
	"context"
	"net/url"
	"strconv"
)

// TagListEntry is one entry of the admin tag overview.
type TagListEntry struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

// TagsClient manages tags on tickets and other objects.
type TagsClient struct {
	client *Client
}

type tagChange struct {
	Object   string `json:"object"`
	ObjectID int    `json:"o_id"`
	Item     string `json:"item"`
}

// ByObject returns the tags attached to one object, e.g. ("Ticket", 42).
func (tc *TagsClient) ByObject(ctx context.Context, object string, objectID int) ([]string, error) {
	query := url.Values{}
	query.Set("object", object)
	query.Set("o_id", strconv.Itoa(objectID))

	var response struct {
		Tags []string `json:"tags"`
	}
	if err := tc.client.do(ctx, "GET", "/tags", query, nil, &response); err != nil {
		return nil, err
	}
	return response.Tags, nil
}

// Add attaches a tag to an object.
func (tc *TagsClient) Add(ctx context.Context, object string, objectID int, tag string) error {
	return tc.client.do(ctx, "POST", "/tags/add", nil, tagChange{Object: object, ObjectID: objectID, Item: tag}, nil)
}

// Remove detaches a tag from an object.
func (tc *TagsClient) Remove(ctx context.Context, object string, objectID int, tag string) error {
	return tc.client.do(ctx, "DELETE", "/tags/remove", nil, tagChange{Object: object, ObjectID: objectID, Item: tag}, nil)
}

// List returns the instance-wide tag overview. Requires admin permissions.
func (tc *TagsClient) List(ctx context.Context) ([]TagListEntry, error) {
	var entries []TagListEntry
	if err := tc.client.do(ctx, "GET", "/tag_list", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
