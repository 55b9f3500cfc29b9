package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/partners/internal/api/request"
	"github.com/edvin/partners/internal/api/response"
	"github.com/edvin/partners/internal/model"
	"github.com/edvin/partners/internal/view"
)

// PartnerReader is the read side of the partner service.
type PartnerReader interface {
	Partners() []model.Partner
	GetPartnerByID(id string) (model.Partner, bool)
}

// Partner serves the read-only JSON view of the local collection.
type Partner struct {
	svc PartnerReader
}

func NewPartner(svc PartnerReader) *Partner {
	return &Partner{svc: svc}
}

// List godoc
//
//	@Summary		List partners
//	@Description	Filters the local collection by name and returns one page of it.
//	@Tags			Partners
//	@Param			search	query		string	false	"Case-insensitive name filter"
//	@Param			page	query		int		false	"Zero-based page index"
//	@Success		200		{object}	response.PageResponse
//	@Router			/partners [get]
func (h *Partner) List(w http.ResponseWriter, r *http.Request) {
	params := request.ParseListParams(r)
	listing := view.BuildListing(h.svc.Partners(), params.Search, params.Page)
	response.WritePage(w, listing.Items, listing.PageIndex, listing.PageCount, listing.Total)
}

// Get godoc
//
//	@Summary		Get a partner
//	@Tags			Partners
//	@Param			id	path		string	true	"Partner ID"
//	@Success		200	{object}	model.Partner
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/partners/{id} [get]
func (h *Partner) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, found := h.svc.GetPartnerByID(id)
	if !found {
		response.WriteError(w, http.StatusNotFound, "partner not found")
		return
	}
	response.WriteJSON(w, http.StatusOK, p)
}
