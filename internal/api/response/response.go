package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edvin/partners/internal/store"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteStoreError maps a failed remote store call to a gateway status.
func WriteStoreError(w http.ResponseWriter, err error) {
	var statusErr *store.StatusError
	switch {
	case errors.As(err, &statusErr):
		WriteError(w, http.StatusBadGateway, statusErr.Error())
	case errors.Is(err, context.DeadlineExceeded):
		WriteError(w, http.StatusGatewayTimeout, err.Error())
	default:
		WriteError(w, http.StatusBadGateway, err.Error())
	}
}

// PageResponse wraps one page of a locally paginated list.
type PageResponse struct {
	Items     any `json:"items"`
	Page      int `json:"page"`
	PageCount int `json:"page_count"`
	Total     int `json:"total"`
}

// WritePage writes a page of results as JSON.
func WritePage(w http.ResponseWriter, items any, page, pageCount, total int) {
	WriteJSON(w, http.StatusOK, PageResponse{
		Items:     items,
		Page:      page,
		PageCount: pageCount,
		Total:     total,
	})
}
