// Package view holds the per-session table orchestration: search, paging,
// the add and edit modals, and the notifications produced by each action.
package view

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edvin/partners/internal/core"
	"github.com/edvin/partners/internal/model"
)

const (
	msgCreated    = "Partner created successfully"
	msgUpdated    = "Partner updated successfully"
	msgDeleted    = "Partner deleted!"
	msgNotFound   = "Partner not found"
	msgBusy       = "Another action is still in progress"
	msgNoSelected = "No partner selected for editing"
)

// Partners is the slice of the partner service the table drives.
type Partners interface {
	Partners() []model.Partner
	Loading() bool
	GetPartnerByID(id string) (model.Partner, bool)
	FetchPartners(ctx context.Context) core.Result[[]model.Partner]
	AddPartner(ctx context.Context, input model.PartnerInput) core.Result[model.Partner]
	UpdatePartner(ctx context.Context, id string, p model.Partner) core.Result[model.Partner]
	DeletePartner(ctx context.Context, id string) core.Result[string]
}

// Options tune a Table. Zero values pick the defaults.
type Options struct {
	NewID func() string
	Now   func() time.Time
}

// Table is one session's view of the partner list. The lock is never held
// across a call into Partners.
type Table struct {
	partners Partners
	newID    func() string
	now      func() time.Time

	mu        sync.Mutex
	filter    string
	pageIndex int
	addModal  Modal
	editModal Modal
	draft     model.Partner
	editing   model.Partner
	busy      bool
	notes     []Notification
}

func NewTable(partners Partners, opts Options) *Table {
	t := &Table{
		partners:  partners,
		newID:     opts.NewID,
		now:       opts.Now,
		addModal:  Modal{Title: "New Partner", CloseAction: "/modal/add/close"},
		editModal: Modal{Title: "Edit Partner", CloseAction: "/modal/edit/close"},
	}
	if t.newID == nil {
		t.newID = uuid.NewString
	}
	if t.now == nil {
		t.now = time.Now
	}
	return t
}

// Page is everything a render needs.
type Page struct {
	Listing
	Filter        string
	Search        SearchInput
	Loading       bool
	Skeleton      Skeleton
	AddModal      Modal
	EditModal     Modal
	Draft         PartnerForm
	Editing       PartnerForm
	EditingID     string
	Busy          bool
	Notifications []Notification
}

// Render derives the current page and drains pending notifications.
func (t *Table) Render() Page {
	all := t.partners.Partners()
	loading := t.partners.Loading()

	t.mu.Lock()
	defer t.mu.Unlock()

	notes := t.notes
	t.notes = nil

	return Page{
		Listing:       BuildListing(all, t.filter, t.pageIndex),
		Filter:        t.filter,
		Search:        SearchInput{Value: t.filter, Placeholder: "Search by name...", Action: "/search"},
		Loading:       loading,
		Skeleton:      DefaultSkeleton,
		AddModal:      t.addModal,
		EditModal:     t.editModal,
		Draft:         FormFor(t.draft),
		Editing:       FormFor(t.editing),
		EditingID:     t.editing.ID,
		Busy:          t.busy,
		Notifications: notes,
	}
}

// Filter returns the current search term.
func (t *Table) Filter() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filter
}

// PageIndex returns the current page index.
func (t *Table) PageIndex() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pageIndex
}

// Search sets the filter and always returns to the first page.
func (t *Table) Search(term string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.filter = term
	t.pageIndex = 0
}

// SetPageIndex restores the page from the URL. It is not clamped: an
// out-of-range index renders an empty page.
func (t *Table) SetPageIndex(index int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pageIndex = max(index, 0)
}

// GoToPage moves to index when it is a valid page and reports whether it moved.
func (t *Table) GoToPage(index int) bool {
	count := PageCount(len(FilterByName(t.partners.Partners(), t.Filter())))

	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= count {
		return false
	}
	t.pageIndex = index
	return true
}

// OpenAdd shows the add modal with a fresh blank draft.
func (t *Table) OpenAdd() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.draft = model.NewBlankPartner(t.newID(), t.now())
	t.addModal.Open = true
}

func (t *Table) CloseAdd() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.addModal.Open = false
}

// OpenEdit shows the edit modal with a copy of the selected partner.
func (t *Table) OpenEdit(id string) bool {
	p, found := t.partners.GetPartnerByID(id)

	t.mu.Lock()
	defer t.mu.Unlock()
	if !found {
		t.notifyLocked(LevelError, msgNotFound)
		return false
	}
	t.editing = p.Clone()
	t.editModal.Open = true
	return true
}

func (t *Table) CloseEdit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.editModal.Open = false
}

// SubmitAdd validates the draft and creates it. An empty name never reaches
// the store. The modal stays open when anything fails.
func (t *Table) SubmitAdd(ctx context.Context, form PartnerForm) bool {
	t.mu.Lock()
	if t.busy {
		t.notifyLocked(LevelWarning, msgBusy)
		t.mu.Unlock()
		return false
	}
	t.draft = form.Apply(t.draft)
	input := t.draft.Input()
	if err := validateCreate(input); err != nil {
		t.notifyLocked(LevelError, err.Error())
		t.mu.Unlock()
		return false
	}
	t.busy = true
	t.mu.Unlock()
	defer t.release()

	res := t.partners.AddPartner(ctx, input)
	if !res.OK() {
		t.fail(ctx, "create partner", res.Err)
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.addModal.Open = false
	t.notifyLocked(LevelSuccess, msgCreated)
	return true
}

// SubmitEdit applies the form to the partner being edited and updates it.
// id must name that partner. Edits are never validated.
func (t *Table) SubmitEdit(ctx context.Context, id string, form PartnerForm) bool {
	t.mu.Lock()
	if t.busy {
		t.notifyLocked(LevelWarning, msgBusy)
		t.mu.Unlock()
		return false
	}
	if !t.editModal.Open || t.editing.ID == "" || t.editing.ID != id {
		t.notifyLocked(LevelError, msgNoSelected)
		t.mu.Unlock()
		return false
	}
	t.editing = form.ApplyEdit(t.editing)
	edited := t.editing.Clone()
	t.busy = true
	t.mu.Unlock()
	defer t.release()

	res := t.partners.UpdatePartner(ctx, edited.ID, edited)
	if !res.OK() {
		t.fail(ctx, "update partner", res.Err)
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.editModal.Open = false
	t.notifyLocked(LevelSuccess, msgUpdated)
	return true
}

// Delete removes a partner without confirmation.
func (t *Table) Delete(ctx context.Context, id string) bool {
	t.mu.Lock()
	if t.busy {
		t.notifyLocked(LevelWarning, msgBusy)
		t.mu.Unlock()
		return false
	}
	t.busy = true
	t.mu.Unlock()
	defer t.release()

	res := t.partners.DeletePartner(ctx, id)
	if !res.OK() {
		t.fail(ctx, "delete partner", res.Err)
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.editModal.Open && t.editing.ID == id {
		t.editModal.Open = false
	}
	t.notifyLocked(LevelWarning, msgDeleted)
	return true
}

// Refresh reloads the whole collection.
func (t *Table) Refresh(ctx context.Context) bool {
	res := t.partners.FetchPartners(ctx)
	if !res.OK() {
		t.fail(ctx, "reload partners", res.Err)
		return false
	}
	return true
}

// Busy reports whether an action of this table is outstanding.
func (t *Table) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

// Notify queues a notification for the next render.
func (t *Table) Notify(level Level, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notifyLocked(level, message)
}

func (t *Table) notifyLocked(level Level, message string) {
	t.notes = append(t.notes, Notification{Level: level, Message: message})
}

func (t *Table) release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.busy = false
}

func (t *Table) fail(ctx context.Context, action string, err error) {
	zerolog.Ctx(ctx).Warn().Err(err).Str("action", action).Msg("table action failed")
	t.Notify(LevelError, "Could not "+action+": "+err.Error())
}
