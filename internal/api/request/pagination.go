package request

import (
	"net/http"
	"strconv"
)

// PageParam is the query parameter carrying the zero-based page index.
const PageParam = "page"

// ParsePage extracts the page index from the query string. The second return
// is false when the parameter is absent. Malformed or negative values read as
// page 0; values past the last page are kept as-is.
func ParsePage(r *http.Request) (int, bool) {
	raw, present := r.URL.Query()[PageParam]
	if !present || len(raw) == 0 {
		return 0, false
	}
	page, err := strconv.Atoi(raw[0])
	if err != nil || page < 0 {
		return 0, true
	}
	return page, true
}

// PageURL is the table location for page index.
func PageURL(index int) string {
	return "/?" + PageParam + "=" + strconv.Itoa(max(index, 0))
}
