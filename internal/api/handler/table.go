package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/partners/internal/api/request"
	"github.com/edvin/partners/internal/api/session"
	"github.com/edvin/partners/internal/view"
)

// Table serves the HTML admin. Every action redirects back to the table at
// the session's current page.
type Table struct {
	sessions *session.Store
	renderer *Renderer
}

func NewTable(sessions *session.Store, renderer *Renderer) *Table {
	return &Table{sessions: sessions, renderer: renderer}
}

// Index renders the table. A request without ?page is redirected to the
// session's current page so the URL always carries it.
func (h *Table) Index(w http.ResponseWriter, r *http.Request) {
	table := h.sessions.Table(w, r)

	page, present := request.ParsePage(r)
	if !present {
		http.Redirect(w, r, request.PageURL(table.PageIndex()), http.StatusFound)
		return
	}
	table.SetPageIndex(page)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.renderer.Page(w, table.Render()); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Table) Search(w http.ResponseWriter, r *http.Request) {
	table := h.sessions.Table(w, r)
	term, err := request.DecodeSearch(r)
	if err != nil {
		table.Notify(view.LevelError, err.Error())
		back(w, r, table)
		return
	}
	table.Search(term)
	back(w, r, table)
}

func (h *Table) OpenAdd(w http.ResponseWriter, r *http.Request) {
	table := h.sessions.Table(w, r)
	table.OpenAdd()
	back(w, r, table)
}

func (h *Table) SubmitAdd(w http.ResponseWriter, r *http.Request) {
	table := h.sessions.Table(w, r)
	form, err := request.DecodePartnerForm(w, r)
	if err != nil {
		table.Notify(view.LevelError, err.Error())
		back(w, r, table)
		return
	}
	table.SubmitAdd(r.Context(), form)
	back(w, r, table)
}

func (h *Table) OpenEdit(w http.ResponseWriter, r *http.Request) {
	table := h.sessions.Table(w, r)
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		table.Notify(view.LevelError, err.Error())
		back(w, r, table)
		return
	}
	table.OpenEdit(id)
	back(w, r, table)
}

func (h *Table) SubmitEdit(w http.ResponseWriter, r *http.Request) {
	table := h.sessions.Table(w, r)
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		table.Notify(view.LevelError, err.Error())
		back(w, r, table)
		return
	}
	form, err := request.DecodePartnerForm(w, r)
	if err != nil {
		table.Notify(view.LevelError, err.Error())
		back(w, r, table)
		return
	}
	table.SubmitEdit(r.Context(), id, form)
	back(w, r, table)
}

func (h *Table) Delete(w http.ResponseWriter, r *http.Request) {
	table := h.sessions.Table(w, r)
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		table.Notify(view.LevelError, err.Error())
		back(w, r, table)
		return
	}
	table.Delete(r.Context(), id)
	back(w, r, table)
}

// CloseModal hides the add or edit modal.
func (h *Table) CloseModal(w http.ResponseWriter, r *http.Request) {
	table := h.sessions.Table(w, r)
	switch chi.URLParam(r, "name") {
	case "add":
		table.CloseAdd()
	case "edit":
		table.CloseEdit()
	default:
		http.NotFound(w, r)
		return
	}
	back(w, r, table)
}

func (h *Table) Refresh(w http.ResponseWriter, r *http.Request) {
	table := h.sessions.Table(w, r)
	table.Refresh(r.Context())
	back(w, r, table)
}

func back(w http.ResponseWriter, r *http.Request, table *view.Table) {
	http.Redirect(w, r, request.PageURL(table.PageIndex()), http.StatusSeeOther)
}
