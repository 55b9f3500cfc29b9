package request

import "net/http"

// ListParams holds the search term and page of a partner list query.
type ListParams struct {
	Search string
	Page   int
}

// ParseListParams extracts list parameters from the query string.
func ParseListParams(r *http.Request) ListParams {
	page, _ := ParsePage(r)
	return ListParams{
		Search: r.URL.Query().Get("search"),
		Page:   page,
	}
}
