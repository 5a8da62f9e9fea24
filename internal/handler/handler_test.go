// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/finpanel/internal/analytics"
	"github.com/olegiv/finpanel/internal/backend"
	"github.com/olegiv/finpanel/internal/cache"
	"github.com/olegiv/finpanel/internal/catalog"
	"github.com/olegiv/finpanel/internal/i18n"
	"github.com/olegiv/finpanel/internal/logging"
	"github.com/olegiv/finpanel/internal/media"
	"github.com/olegiv/finpanel/internal/middleware"
	"github.com/olegiv/finpanel/internal/model"
	"github.com/olegiv/finpanel/internal/preview"
	"github.com/olegiv/finpanel/internal/relation"
	"github.com/olegiv/finpanel/internal/render"
	"github.com/olegiv/finpanel/internal/scheduler"
	"github.com/olegiv/finpanel/internal/session"
)

// fakeBackend is an in-memory REST backend. Collections are keyed by their
// path ("/document/"); created records are the posted payload plus an id.
type fakeBackend struct {
	mu      sync.Mutex
	records map[string][]map[string]any
	nextID  int64
	fail    map[string]int
	calls   []string
	uploads int
	holds   map[string]*heldRequest
}

// heldRequest parks a request until released.
type heldRequest struct {
	entered chan struct{}
	release chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		records: make(map[string][]map[string]any),
		nextID:  100,
		fail:    make(map[string]int),
		holds:   make(map[string]*heldRequest),
	}
}

// hold parks the next "METHOD path" request until release is closed.
// entered receives once the request has arrived.
func (f *fakeBackend) hold(method, path string) (entered <-chan struct{}, release chan<- struct{}) {
	h := &heldRequest{entered: make(chan struct{}, 1), release: make(chan struct{})}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holds[method+" "+path] = h
	return h.entered, h.release
}

// seed adds a raw JSON record to a collection.
func (f *fakeBackend) seed(collection, record string) {
	var m map[string]any
	if err := json.Unmarshal([]byte(record), &m); err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[collection] = append(f.records[collection], m)
}

// failWith makes "METHOD path" answer status with a detail message.
func (f *fakeBackend) failWith(method, path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[method+" "+path] = status
}

// heal removes a failure set by failWith.
func (f *fakeBackend) heal(method, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.fail, method+" "+path)
}

func (f *fakeBackend) called(method, path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.calls, method+" "+path)
}

func (f *fakeBackend) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *fakeBackend) count(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[collection])
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	f.mu.Lock()
	h := f.holds[key]
	delete(f.holds, key)
	f.mu.Unlock()
	if h != nil {
		h.entered <- struct{}{}
		<-h.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, key)
	w.Header().Set("Content-Type", "application/json")

	if status, ok := f.fail[key]; ok {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"detail":"backend says no"}`)
		return
	}

	if r.URL.Path == "/upload/" {
		f.uploads++
		_, _ = io.WriteString(w, `{"url":"https://cdn.example.mn/uploads/logo.png"}`)
		return
	}
	if strings.HasPrefix(r.URL.Path, "/analytics/") {
		_, _ = io.WriteString(w, analyticsFixtures[r.URL.Path])
		return
	}

	segs := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{}`)
	case len(segs) == 1:
		f.serveCollection(w, r, "/"+segs[0]+"/")
	case len(segs) == 2:
		id, _ := strconv.ParseInt(segs[1], 10, 64)
		f.serveItem(w, r, "/"+segs[0]+"/", id)
	default:
		// Relation attach and detach.
		w.WriteHeader(http.StatusNoContent)
	}
}

func (f *fakeBackend) serveCollection(w http.ResponseWriter, r *http.Request, collection string) {
	switch r.Method {
	case http.MethodGet:
		list := f.records[collection]
		if list == nil {
			list = []map[string]any{}
		}
		_ = json.NewEncoder(w).Encode(list)
	case http.MethodPost:
		var m map[string]any
		_ = json.NewDecoder(r.Body).Decode(&m)
		if m == nil {
			m = map[string]any{}
		}
		f.nextID++
		m["id"] = f.nextID
		f.records[collection] = append(f.records[collection], m)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": f.nextID})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeBackend) serveItem(w http.ResponseWriter, r *http.Request, collection string, id int64) {
	idx := slices.IndexFunc(f.records[collection], func(m map[string]any) bool {
		v, _ := m["id"].(float64)
		n, _ := m["id"].(int64)
		return int64(v) == id || n == id
	})
	if idx < 0 {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"not found"}`)
		return
	}
	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		var m map[string]any
		_ = json.NewDecoder(r.Body).Decode(&m)
		m["id"] = id
		f.records[collection][idx] = m
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		f.records[collection] = slices.Delete(f.records[collection], idx, idx+1)
		w.WriteHeader(http.StatusNoContent)
	default:
		_ = json.NewEncoder(w).Encode(f.records[collection][idx])
	}
}

var analyticsFixtures = map[string]string{
	analytics.PathSummary: `{"total_visitors":1200,"total_page_views":"3400","total_sessions":1500,
		"avg_session_duration":95.5,"daily":[{"date":"2026-03-01","visitors":40,"page_views":120,"sessions":50}]}`,
	analytics.PathTopPages: `[{"path":"/loans","title":"Loans","views":800,
		"devices":{"desktop":50,"tablet":10,"mobile":40}}]`,
	analytics.PathRecentUpdates: `{"results":[{"resource":"products","title":"Car loan","action":"updated",
		"updated_at":"2026-03-01T10:00:00Z"}]}`,
}

// testTemplates stand in for the admin pages; they print just what the
// tests assert on.
func testTemplates() fstest.MapFS {
	page := func(body string) *fstest.MapFile {
		return &fstest.MapFile{Data: []byte(`{{define "content"}}` + body + `{{end}}`)}
	}
	editorBody := `state={{.Data.State}} id={{.Data.ID}} items={{len .Data.Items}}` +
		`{{if .Data.LoadError}} load_error={{.Data.LoadError}}{{end}}`
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}` +
			`{{if .Flash}}[flash:{{.FlashType}}:{{.Flash}}]{{end}}` +
			`{{if .Notice}}[notice:{{.Notice.Kind}}:{{.Notice.Text}}]{{end}}` +
			`{{template "content" .}}{{end}}`)},
		"layouts/admin.html": {Data: []byte(`{{define "admin"}}{{end}}`)},
		"partials/relations.html": {Data: []byte(`{{define "relations"}}<section kind="{{.Kind}}">` +
			`{{range .Selected}}[{{.ID}}{{if .Pending}}:{{.Pending}}{{end}}]{{end}}` +
			`{{if .Error}} error={{.Error}}{{end}}</section>{{end}}`)},
		"admin/taxonomy.html": page(editorBody +
			` label={{.Data.Draft.Label.Primary}}|{{.Data.Draft.Label.Secondary}} kind={{.Data.Extra.Kind}}`),
		"admin/products.html": page(editorBody +
			` preview={{if .Data.Preview}}yes{{else}}no{{end}}{{range .Data.Extra.Relations}}{{template "relations" .}}{{end}}`),
		"admin/services.html":       page(editorBody + ` icon={{.Data.Draft.IconURL}}`),
		"admin/hero_slides.html":    page(editorBody),
		"admin/cta_slides.html":     page(editorBody),
		"admin/exchange_rates.html": page(editorBody),
		"admin/footer.html": page(editorBody +
			` logo={{.Data.Draft.LogoURL}}{{with .Data.Draft.LogoPending}} pending={{.PreviewURL}}{{end}}`),
		"admin/confirm_delete.html": page(`confirm id={{.Data.ID}} label={{.Data.Label}} token={{.Data.Token}}`),
		"admin/dashboard.html": page(`products={{.Data.Products}} services={{.Data.Services}}` +
			` visitors={{.Data.Summary.TotalVisitors.Float}} pages={{len .Data.TopPages}} updates={{len .Data.Updates}}` +
			`{{if .Data.SummaryError}} summary_error={{.Data.SummaryError}}{{end}}` +
			`{{if .Data.RangeError}} range_error{{end}} jobs={{len .Data.Jobs}}`),
	}
}

// testEnv runs the admin router against a fake backend.
type testEnv struct {
	t       *testing.T
	backend *fakeBackend
	deps    *Deps
	admin   *Admin
	server  *httptest.Server
	client  *http.Client

	mu      sync.Mutex
	changes []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if err := i18n.Init("en", nil); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}

	fb := newFakeBackend()
	backendSrv := httptest.NewServer(fb)
	t.Cleanup(backendSrv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := backend.New(backend.Options{BaseURL: backendSrv.URL, Timeout: 5 * time.Second, Logger: logger})
	memCache := cache.NewMemoryCache(cache.MemoryOptions{DefaultTTL: time.Minute})

	sources := make(map[model.TaxonomyKind]catalog.Lister[model.TaxonomyItem], len(model.TaxonomyKinds))
	for _, kind := range model.TaxonomyKinds {
		sources[kind] = api.Taxonomy(kind)
	}

	sm := session.New(true)
	renderer, err := render.New(render.Config{TemplatesFS: testTemplates(), SessionManager: sm, Version: "test"})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	previewRenderer, err := preview.NewRenderer("https://www.example.mn")
	if err != nil {
		t.Fatalf("preview.NewRenderer: %v", err)
	}
	_, logs := logging.Setup(io.Discard, "debug")

	sched := scheduler.New(logger)
	if err := sched.Add(scheduler.Job{
		Name:        "noop",
		Description: "does nothing",
		Schedule:    "@every 1h",
		Run:         func(context.Context) error { return nil },
	}); err != nil {
		t.Fatalf("scheduler.Add: %v", err)
	}

	env := &testEnv{t: t, backend: fb}
	env.deps = &Deps{
		Renderer:       renderer,
		Preview:        previewRenderer,
		Sessions:       sm,
		Backend:        api,
		Catalog:        catalog.NewStore(api.Products(), api.Services(), logger),
		Taxonomy:       catalog.NewTaxonomy(sources, memCache, logger),
		Previews:       media.NewPreviews(1 << 20),
		Uploader:       media.NewUploader(api, "/upload/", logger),
		Relations:      relation.NewPool(),
		Analytics:      analytics.NewClient(api, nil, 0),
		Jobs:           sched.Registry(),
		Logs:           logs,
		Cache:          memCache,
		Notify:         env.recordChange,
		MaxUploadBytes: 1 << 20,
		Logger:         logger,
	}
	env.admin = NewAdmin(env.deps)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave, middleware.AdminLanguage, middleware.Workspace(sm))
	env.admin.Routes(r)
	env.server = httptest.NewServer(r)
	t.Cleanup(env.server.Close)

	jar, _ := cookiejar.New(nil)
	env.client = &http.Client{
		Jar:     jar,
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return env
}

func (e *testEnv) recordChange(_ context.Context, resource string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.changes = append(e.changes, resource)
}

func (e *testEnv) changed(resource string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Contains(e.changes, resource)
}

// response is a fully read HTTP response.
type response struct {
	Status   int
	Location string
	Header   http.Header
	Body     string
}

func (e *testEnv) do(req *http.Request) response {
	e.t.Helper()
	resp, err := e.client.Do(req)
	if err != nil {
		e.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	return response{Status: resp.StatusCode, Location: resp.Header.Get("Location"), Header: resp.Header, Body: string(body)}
}

func (e *testEnv) get(path string) response {
	e.t.Helper()
	req, _ := http.NewRequest(http.MethodGet, e.server.URL+path, nil)
	return e.do(req)
}

func (e *testEnv) post(path string, form url.Values) response {
	e.t.Helper()
	req, _ := http.NewRequest(http.MethodPost, e.server.URL+path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func (e *testEnv) fetch(path string, form url.Values) response {
	e.t.Helper()
	req, _ := http.NewRequest(http.MethodPost, e.server.URL+path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "fetch")
	return e.do(req)
}

// follow requests the redirect target of resp.
func (e *testEnv) follow(resp response) response {
	e.t.Helper()
	if resp.Location == "" {
		e.t.Fatalf("expected a redirect, got %d: %s", resp.Status, resp.Body)
	}
	return e.get(resp.Location)
}

func assertContains(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q:\n%s", want, body)
		}
	}
}

func assertStatus(t *testing.T, resp response, want int) {
	t.Helper()
	if resp.Status != want {
		t.Fatalf("status = %d, want %d; body: %s", resp.Status, want, resp.Body)
	}
}
