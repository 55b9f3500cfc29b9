package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/partners/internal/api/response"
	"github.com/edvin/partners/internal/core"
	"github.com/edvin/partners/internal/mockstore"
	"github.com/edvin/partners/internal/model"
	"github.com/edvin/partners/internal/store"
	"github.com/edvin/partners/internal/view"
)

const basePath = "/v1/partners/"

func seedPartner(id, name string) model.Partner {
	return model.Partner{ID: id, Name: name, Clients: []model.Token{}, Projects: []model.Token{}}
}

func numberedSeed(n int) []model.Partner {
	out := make([]model.Partner, n)
	for i := range out {
		out[i] = seedPartner(fmt.Sprint(i+1), fmt.Sprintf("Partner %d", i+1))
	}
	return out
}

// newTestServer wires the admin to a mock store over real HTTP and loads the
// collection once.
func newTestServer(t *testing.T, seed ...model.Partner) (*Server, *mockstore.Server, *core.PartnerService) {
	t.Helper()
	mock := mockstore.New(zerolog.Nop(), basePath, seed)
	ts := httptest.NewServer(mock)
	t.Cleanup(ts.Close)

	svc := core.NewPartnerService(store.NewClient(ts.URL+basePath, 0), zerolog.Nop())
	require.True(t, svc.FetchPartners(context.Background()).OK())

	s, err := NewServer(zerolog.Nop(), svc, view.Options{})
	require.NoError(t, err)
	return s, mock, svc
}

// browser carries the session cookie between requests and never follows
// redirects.
type browser struct {
	h       http.Handler
	cookies []*http.Cookie
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	r := httptest.NewRequest(method, target, body)
	if form != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range b.cookies {
		r.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	b.h.ServeHTTP(rec, r)
	if cs := rec.Result().Cookies(); len(cs) > 0 {
		b.cookies = cs
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, target, nil)
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return b.do(http.MethodPost, target, form)
}

// page renders the table at index and returns the HTML.
func (b *browser) page(t *testing.T, index int) string {
	t.Helper()
	rec := b.get(fmt.Sprintf("/?page=%d", index))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func requestsOf(mock *mockstore.Server, method string) []string {
	var paths []string
	for _, req := range mock.Requests() {
		if req.Method == method {
			paths = append(paths, req.Path)
		}
	}
	return paths
}

func TestIndex_RedirectsToCurrentPage(t *testing.T) {
	s, _, _ := newTestServer(t, seedPartner("1", "Partner 1"))
	b := &browser{h: s}

	rec := b.get("/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?page=0", rec.Header().Get("Location"))
	require.Len(t, b.cookies, 1)
	assert.Equal(t, "partners_session", b.cookies[0].Name)
}

func TestIndex_RendersRows(t *testing.T) {
	p := seedPartner("1", "Partner 1")
	p.Description = "Integration partner"
	p.Clients = model.ParseTokenList("42, acme")
	p.RepositoryGit = "https://git.example/p1"
	s, _, _ := newTestServer(t, p, seedPartner("2", "Partner 2"))
	b := &browser{h: s}

	html := b.page(t, 0)
	assert.Contains(t, html, "Partner 1")
	assert.Contains(t, html, "Partner 2")
	assert.Contains(t, html, "Integration partner")
	assert.Contains(t, html, "42, acme")
	assert.Contains(t, html, `href="https://git.example/p1"`)
	assert.Contains(t, html, `action="/partners/1/delete"`)
	assert.NotContains(t, html, `class="skeleton"`)
	assert.NotContains(t, html, `role="dialog"`)
}

func TestSearch_FiltersAndResetsPage(t *testing.T) {
	s, _, _ := newTestServer(t, numberedSeed(12)...)
	b := &browser{h: s}

	b.page(t, 2)
	rec := b.post("/search", url.Values{"q": {"Partner 1"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?page=0", rec.Header().Get("Location"))

	html := b.page(t, 0)
	for _, name := range []string{"Partner 1<", "Partner 10", "Partner 11", "Partner 12"} {
		assert.Contains(t, html, name)
	}
	assert.NotContains(t, html, "Partner 2<")
	assert.Contains(t, html, `value="Partner 1"`)
}

func TestSearch_TwoPartnerScenario(t *testing.T) {
	s, _, _ := newTestServer(t, seedPartner("1", "Partner 1"), seedPartner("2", "Partner 2"))
	b := &browser{h: s}

	b.post("/search", url.Values{"q": {"Partner 1"}})
	html := b.page(t, 0)
	assert.Contains(t, html, "Partner 1")
	assert.NotContains(t, html, "Partner 2")
}

func TestPagination_Controls(t *testing.T) {
	s, _, _ := newTestServer(t, numberedSeed(12)...)
	b := &browser{h: s}

	first := b.page(t, 0)
	assert.Contains(t, first, `<button type="button" disabled>First</button>`)
	assert.Contains(t, first, `<button type="button" disabled>Previous</button>`)
	assert.Contains(t, first, `<a href="/?page=1">Next</a>`)
	assert.Contains(t, first, `<a href="/?page=2">Last</a>`)
	assert.Contains(t, first, "Page 1 of 3")

	middle := b.page(t, 1)
	assert.Contains(t, middle, "Partner 6")
	assert.Contains(t, middle, "Partner 10")
	assert.NotContains(t, middle, "Partner 11")
	assert.Contains(t, middle, `<a href="/?page=0">Previous</a>`)

	last := b.page(t, 2)
	assert.Contains(t, last, "Partner 12")
	assert.Contains(t, last, `<button type="button" disabled>Next</button>`)
	assert.Contains(t, last, `<button type="button" disabled>Last</button>`)
}

func TestPagination_OutOfRangeIsEmpty(t *testing.T) {
	s, _, _ := newTestServer(t, numberedSeed(3)...)
	b := &browser{h: s}

	html := b.page(t, 9)
	assert.Contains(t, html, "No partners found")

	rec := b.post("/refresh", nil)
	assert.Equal(t, "/?page=9", rec.Header().Get("Location"))
}

func TestAdd_EmptyNameNeverReachesStore(t *testing.T) {
	s, mock, svc := newTestServer(t, seedPartner("1", "Partner 1"))
	b := &browser{h: s}

	b.post("/partners/new", nil)
	assert.Contains(t, b.page(t, 0), `role="dialog"`)

	rec := b.post("/partners", url.Values{"name": {"  "}, "description": {"draft"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	html := b.page(t, 0)
	assert.Contains(t, html, "Name is required")
	assert.Contains(t, html, `role="dialog"`)
	assert.Empty(t, requestsOf(mock, http.MethodPost))
	assert.Equal(t, 1, svc.Len())
}

func TestAdd_Success(t *testing.T) {
	s, mock, svc := newTestServer(t, seedPartner("1", "Partner 1"))
	b := &browser{h: s}

	b.post("/partners/new", nil)
	b.post("/partners", url.Values{"name": {"Acme"}, "clients": {"7, beta"}})

	html := b.page(t, 0)
	assert.Contains(t, html, "Partner created successfully")
	assert.Contains(t, html, "Acme")
	assert.NotContains(t, html, `role="dialog"`)
	assert.Equal(t, []string{basePath}, requestsOf(mock, http.MethodPost))

	stored := mock.Partners()
	require.Len(t, stored, 2)
	assert.Equal(t, "Acme", stored[1].Name)
	assert.NotEmpty(t, stored[1].ID)
	assert.True(t, stored[1].Clients[0].IsNumber())
	assert.Equal(t, 2, svc.Len())

	assert.NotContains(t, b.page(t, 0), "Partner created successfully")
}

func TestEdit_Success(t *testing.T) {
	s, mock, svc := newTestServer(t, seedPartner("1", "Partner 1"), seedPartner("2", "Partner 2"))
	b := &browser{h: s}

	b.post("/partners/2/edit", nil)
	html := b.page(t, 0)
	assert.Contains(t, html, `action="/partners/2"`)
	assert.Contains(t, html, `value="Partner 2"`)

	b.post("/partners/2", url.Values{"name": {"Renamed"}, "description": {"edited"}})
	html = b.page(t, 0)
	assert.Contains(t, html, "Partner updated successfully")
	assert.Contains(t, html, "Renamed")

	assert.Equal(t, []string{basePath + "2"}, requestsOf(mock, http.MethodPut))
	assert.Equal(t, "Renamed", mock.Partners()[1].Name)
	got, _ := svc.GetPartnerByID("1")
	assert.Equal(t, "Partner 1", got.Name)
}

func TestEdit_RenameKeepsTokenKinds(t *testing.T) {
	p := seedPartner("1", "Partner 1")
	p.Clients = []model.Token{model.StringToken("Acme, Inc"), model.StringToken("42")}
	s, mock, svc := newTestServer(t, p)
	b := &browser{h: s}

	b.post("/partners/1/edit", nil)
	html := b.page(t, 0)
	assert.Contains(t, html, `name="clients" value="Acme, Inc, 42"`)

	b.post("/partners/1", url.Values{"name": {"Renamed"}, "clients": {"Acme, Inc, 42"}, "projects": {""}})
	assert.Contains(t, b.page(t, 0), "Partner updated successfully")

	stored := mock.Partners()[0]
	assert.Equal(t, "Renamed", stored.Name)
	assert.Equal(t, p.Clients, stored.Clients)
	got, _ := svc.GetPartnerByID("1")
	assert.Equal(t, p.Clients, got.Clients)
}

func TestEdit_UnknownPartner(t *testing.T) {
	s, _, _ := newTestServer(t, seedPartner("1", "Partner 1"))
	b := &browser{h: s}

	b.post("/partners/nope/edit", nil)
	html := b.page(t, 0)
	assert.Contains(t, html, "Partner not found")
	assert.NotContains(t, html, `role="dialog"`)
}

func TestDelete_CallsItemURL(t *testing.T) {
	s, mock, svc := newTestServer(t, seedPartner("1", "Partner 1"), seedPartner("2", "Partner 2"), seedPartner("3", "Partner 3"))
	b := &browser{h: s}

	rec := b.post("/partners/1/delete", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	assert.Equal(t, []string{basePath + "1"}, requestsOf(mock, http.MethodDelete))
	html := b.page(t, 0)
	assert.Contains(t, html, "Partner deleted!")
	assert.NotContains(t, html, "Partner 1<")

	remaining := svc.Partners()
	require.Len(t, remaining, 2)
	assert.Equal(t, "2", remaining[0].ID)
	assert.Equal(t, "3", remaining[1].ID)
}

func TestDelete_StoreFailureShowsError(t *testing.T) {
	s, mock, svc := newTestServer(t, seedPartner("1", "Partner 1"))
	b := &browser{h: s}
	mock.FailWith(http.MethodDelete, http.StatusInternalServerError)

	b.post("/partners/1/delete", nil)
	html := b.page(t, 0)
	assert.Contains(t, html, "toast-error")
	assert.Contains(t, html, "Could not delete partner")
	assert.Equal(t, 1, svc.Len())

	mock.ClearFailures()
	b.post("/partners/1/delete", nil)
	assert.Equal(t, 0, svc.Len())
}

func TestCloseModal(t *testing.T) {
	s, _, _ := newTestServer(t, seedPartner("1", "Partner 1"))
	b := &browser{h: s}

	b.post("/partners/new", nil)
	b.post("/modal/add/close", nil)
	assert.NotContains(t, b.page(t, 0), `role="dialog"`)

	b.post("/partners/1/edit", nil)
	b.post("/modal/edit/close", nil)
	assert.NotContains(t, b.page(t, 0), `role="dialog"`)

	rec := b.post("/modal/other/close", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionsAreIndependent(t *testing.T) {
	s, _, _ := newTestServer(t, seedPartner("1", "Partner 1"), seedPartner("2", "Partner 2"))
	alice := &browser{h: s}
	bob := &browser{h: s}

	alice.post("/search", url.Values{"q": {"Partner 2"}})
	bob.get("/")

	assert.NotContains(t, alice.page(t, 0), "Partner 1")
	assert.Contains(t, bob.page(t, 0), "Partner 1")
	assert.Equal(t, 2, s.Sessions().Len())
}

func TestRefresh_PicksUpRemoteChanges(t *testing.T) {
	s, mock, _ := newTestServer(t, seedPartner("1", "Partner 1"))
	b := &browser{h: s}

	req := httptest.NewRequest(http.MethodPost, basePath, strings.NewReader(`{"name":"Remote"}`))
	mock.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotContains(t, b.page(t, 0), "Remote")

	b.post("/refresh", nil)
	assert.Contains(t, b.page(t, 0), "Remote")
}

func TestLoadingShowsSkeleton(t *testing.T) {
	release := make(chan struct{})
	var releaseOnce sync.Once
	unblock := func() { releaseOnce.Do(func() { close(release) }) }

	mock := mockstore.New(zerolog.Nop(), basePath, []model.Partner{seedPartner("1", "Partner 1")})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		mock.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)
	t.Cleanup(unblock)

	svc := core.NewPartnerService(store.NewClient(ts.URL+basePath, 0), zerolog.Nop())
	done := svc.Start(context.Background())

	s, err := NewServer(zerolog.Nop(), svc, view.Options{})
	require.NoError(t, err)
	b := &browser{h: s}

	html := b.page(t, 0)
	assert.Equal(t, view.DefaultSkeleton.Rows, strings.Count(html, `<tr class="skeleton">`))
	assert.Contains(t, html, `http-equiv="refresh"`)
	assert.NotContains(t, html, "Partner 1")

	unblock()
	require.True(t, (<-done).OK())

	html = b.page(t, 0)
	assert.Contains(t, html, "Partner 1")
	assert.NotContains(t, html, `class="skeleton"`)
}

func TestAPI_ListPartners(t *testing.T) {
	s, _, _ := newTestServer(t, numberedSeed(12)...)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/partners?search=partner+1&page=0", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items     []model.Partner `json:"items"`
		Page      int             `json:"page"`
		PageCount int             `json:"page_count"`
		Total     int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Total)
	assert.Equal(t, 1, body.PageCount)
	assert.Equal(t, 0, body.Page)
	require.Len(t, body.Items, 4)
	assert.Equal(t, "Partner 1", body.Items[0].Name)
}

func TestAPI_GetPartner(t *testing.T) {
	s, _, _ := newTestServer(t, seedPartner("1", "Partner 1"))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/partners/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var p model.Partner
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Partner 1", p.Name)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/partners/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errBody response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, "partner not found", errBody.Error)
}

func TestHealthz(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	s, mock, svc := newTestServer(t, seedPartner("1", "Partner 1"))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"fetch":"success"}`, rec.Body.String())

	mock.FailWith(http.MethodGet, http.StatusServiceUnavailable)
	require.False(t, svc.FetchPartners(context.Background()).OK())

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fetch":"failed"`)
}

func TestReadyz_BeforeFirstFetch(t *testing.T) {
	svc := core.NewPartnerService(store.NewClient("http://127.0.0.1:1/", 0), zerolog.Nop())
	s, err := NewServer(zerolog.Nop(), svc, view.Options{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fetch":"idle"`)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	b := &browser{h: s}
	b.page(t, 0)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "partners_admin_http_requests_total")
	assert.Contains(t, rec.Body.String(), "partners_store_requests_total")
}
