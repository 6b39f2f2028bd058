package zammad

import (
	"net/url"
	"strconv"
)

// ListOptions controls pagination and result shape for list endpoints.
type ListOptions struct {
	Page    int
	PerPage int
	// Expand asks the server to inline referenced records (state name,
	// group name, ...) instead of returning bare ids.
	Expand  bool
	SortBy  string
	OrderBy string
}

func (o *ListOptions) values() url.Values {
	query := url.Values{}
	if o == nil {
		return query
	}
	if o.Page > 0 {
		query.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(o.PerPage))
	}
	if o.Expand {
		query.Set("expand", "true")
	}
	if o.SortBy != "" {
		query.Set("sort_by", o.SortBy)
	}
	if o.OrderBy != "" {
		query.Set("order_by", o.OrderBy)
	}
	return query
}
