// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/olegiv/finpanel/internal/backend"
	"github.com/olegiv/finpanel/internal/model"
)

// fakeBackend is an in-memory product collection.
type fakeBackend struct {
	mu       sync.Mutex
	items    []model.Product
	nextID   int64
	listErr  error
	saveErr  error
	creates  int
	updates  int
	deletes  int
	block    chan struct{}
	entered  chan struct{}
	rewrites func(model.Product) model.Product
	// omitID makes Create answer without the new id. Records in alsoAdd
	// appear next to the created one, as if another editor saved meanwhile.
	omitID  bool
	alsoAdd []model.Product
}

func newFakeBackend(items ...model.Product) *fakeBackend {
	return &fakeBackend{items: items, nextID: 100}
}

func (f *fakeBackend) wait() {
	if f.block != nil {
		f.entered <- struct{}{}
		<-f.block
	}
}

func (f *fakeBackend) List(context.Context) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Product, len(f.items))
	for i, p := range f.items {
		out[i] = p.Clone()
	}
	return out, nil
}

func (f *fakeBackend) Create(_ context.Context, p model.Product) (int64, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.nextID++
	p.ID = f.nextID
	if f.rewrites != nil {
		p = f.rewrites(p)
	}
	f.items = append(f.items, p)
	f.items = append(f.items, f.alsoAdd...)
	if f.omitID {
		return 0, nil
	}
	return p.ID, nil
}

func (f *fakeBackend) Update(_ context.Context, id int64, p model.Product) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.saveErr != nil {
		return f.saveErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			p.ID = id
			if f.rewrites != nil {
				p = f.rewrites(p)
			}
			f.items[i] = p
			return nil
		}
	}
	return &backend.ServerError{Status: http.StatusNotFound}
}

func (f *fakeBackend) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return &backend.ServerError{Status: http.StatusNotFound}
}

func product(id int64, index int, name string) model.Product {
	return model.Product{ID: id, Index: index, Name: model.NewLocalizedText(name, "")}
}

func newProductEditor(b *fakeBackend) *Editor[model.Product] {
	return New(Config[model.Product]{
		Resource: "product",
		Backend:  b,
		Template: func(next int) model.Product { return model.Product{Index: next, Visible: true} },
		Validate: ValidateProduct,
	})
}

func TestNextIndex(t *testing.T) {
	tests := []struct {
		name    string
		indices []int
		want    int
	}{
		{"empty", nil, 1},
		{"gaps are kept", []int{1, 3, 4}, 5},
		{"unordered", []int{7, 2}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var items []model.Product
			for i, ix := range tt.indices {
				items = append(items, product(int64(i+1), ix, "p"))
			}
			if got := NextIndex(items); got != tt.want {
				t.Errorf("NextIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOpenNewDraftUsesNextIndex(t *testing.T) {
	b := newFakeBackend(product(1, 4, "c"), product(2, 1, "a"), product(3, 3, "b"))
	e := newProductEditor(b)

	if err := e.Open(context.Background(), 0); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := e.Draft().Index; got != 5 {
		t.Errorf("draft index = %d, want 5", got)
	}
	if e.State() != StateEditing {
		t.Errorf("state = %v, want editing", e.State())
	}

	items := e.Items()
	for i, want := range []int{1, 3, 4} {
		if items[i].Index != want {
			t.Errorf("items[%d].Index = %d, want %d", i, items[i].Index, want)
		}
	}
}

func TestOpenExistingAndMissing(t *testing.T) {
	b := newFakeBackend(product(1, 1, "a"))
	e := newProductEditor(b)

	if err := e.Open(context.Background(), 1); err != nil {
		t.Fatalf("Open(1) error = %v", err)
	}
	if got := e.Draft().Name.Get(model.LanguagePrimary); got != "a" {
		t.Errorf("draft name = %q, want a", got)
	}

	if err := e.Open(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open(99) error = %v, want ErrNotFound", err)
	}
	if e.State() != StateError {
		t.Errorf("state = %v, want error", e.State())
	}
	if err := e.Mutate(func(*model.Product) {}); !errors.Is(err, ErrNotEditable) {
		t.Errorf("Mutate() in error state = %v, want ErrNotEditable", err)
	}
}

func TestOpenPrimaryFailureAndAuxTolerance(t *testing.T) {
	b := newFakeBackend(product(1, 1, "a"))
	auxCalled := false
	e := New(Config[model.Product]{
		Resource: "product",
		Backend:  b,
		Aux: []Loader{func(context.Context) error {
			auxCalled = true
			return errors.New("categories down")
		}},
	})

	if err := e.Open(context.Background(), 1); err != nil {
		t.Fatalf("Open() with failing aux loader error = %v", err)
	}
	if !auxCalled {
		t.Error("aux loader was not called")
	}

	b.listErr = errors.New("backend down")
	if err := e.Open(context.Background(), 1); err == nil {
		t.Fatal("Open() with failing list should fail")
	}
	if e.State() != StateError || e.Err() == nil {
		t.Errorf("state = %v err = %v, want error state", e.State(), e.Err())
	}
}

func TestMutateIsLocal(t *testing.T) {
	b := newFakeBackend(product(1, 1, "a"))
	e := newProductEditor(b)
	_ = e.Open(context.Background(), 1)

	if err := e.Mutate(func(p *model.Product) {
		p.Name = p.Name.Set(model.LanguageSecondary, "Loan")
	}); err != nil {
		t.Fatalf("Mutate() error = %v", err)
	}

	if b.updates != 0 || b.creates != 0 {
		t.Error("Mutate() contacted the backend")
	}
	if got := e.Draft().Name.Get(model.LanguageSecondary); got != "Loan" {
		t.Errorf("draft secondary name = %q, want Loan", got)
	}
}

func TestSaveValidationNeverContactsBackend(t *testing.T) {
	b := newFakeBackend()
	e := newProductEditor(b)
	_ = e.Open(context.Background(), 0)

	err := e.Save(context.Background())
	if err == nil {
		t.Fatal("Save() of nameless product should fail validation")
	}
	if b.creates != 0 {
		t.Errorf("creates = %d, want 0", b.creates)
	}
	n, ok := e.Notice()
	if !ok || n.Kind != NoticeError || n.Key != KeyInvalid {
		t.Errorf("notice = %+v, want invalid error notice", n)
	}
	if e.State() != StateEditing {
		t.Errorf("state = %v, want editing", e.State())
	}
}

func TestSaveCreatesAndReplacesDraftWithServerCopy(t *testing.T) {
	b := newFakeBackend(product(1, 1, "a"))
	b.rewrites = func(p model.Product) model.Product {
		p.MaxTermMonths = 60
		return p
	}
	var changed []string
	e := New(Config[model.Product]{
		Resource: "product",
		Backend:  b,
		Template: func(next int) model.Product { return model.Product{Index: next} },
		Validate: ValidateProduct,
		OnChange: func(_ context.Context, resource string) { changed = append(changed, resource) },
	})
	_ = e.Open(context.Background(), 0)
	_ = e.Mutate(func(p *model.Product) { p.Name = model.NewLocalizedText("Зээл", "Loan") })

	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if e.ID() != 101 {
		t.Errorf("ID() = %d, want 101", e.ID())
	}
	if d := e.Draft(); d.ID != 101 || d.MaxTermMonths != 60 {
		t.Errorf("draft = %+v, want server copy", d)
	}
	if len(e.Items()) != 2 {
		t.Errorf("items = %d, want 2", len(e.Items()))
	}
	n, ok := e.Notice()
	if !ok || n.Kind != NoticeSuccess {
		t.Errorf("notice = %+v, want success", n)
	}
	if len(changed) != 1 || changed[0] != "product" {
		t.Errorf("OnChange calls = %v", changed)
	}

	// second save updates instead of creating
	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	if b.creates != 1 || b.updates != 1 {
		t.Errorf("creates = %d updates = %d, want 1/1", b.creates, b.updates)
	}
}

func TestSaveFailureKeepsDraftAndServerMessage(t *testing.T) {
	b := newFakeBackend(product(1, 1, "a"))
	b.saveErr = &backend.ServerError{Status: http.StatusBadRequest, Message: "Index already used"}
	e := newProductEditor(b)
	_ = e.Open(context.Background(), 1)
	_ = e.Mutate(func(p *model.Product) { p.Index = 9 })

	if err := e.Save(context.Background()); err == nil {
		t.Fatal("Save() should fail")
	}
	if e.Draft().Index != 9 {
		t.Errorf("draft index = %d, want unsaved 9", e.Draft().Index)
	}
	if e.State() != StateEditing {
		t.Errorf("state = %v, want editing", e.State())
	}
	n, _ := e.Notice()
	if n.Message != "Index already used" {
		t.Errorf("notice message = %q, want server message", n.Message)
	}

	b.saveErr = &backend.TransportError{Err: errors.New("refused")}
	_ = e.Save(context.Background())
	n, _ = e.Notice()
	if n.Message != "" || n.Key != KeySaveFailed {
		t.Errorf("notice = %+v, want generic save failure", n)
	}
}

func TestSaveCreateWithoutReturnedID(t *testing.T) {
	t.Run("single new record is adopted", func(t *testing.T) {
		b := newFakeBackend(product(1, 1, "a"))
		b.omitID = true
		e := newProductEditor(b)
		_ = e.Open(context.Background(), 0)
		_ = e.Mutate(func(p *model.Product) { p.Name = model.NewLocalizedText("Зээл", "Loan") })

		if err := e.Save(context.Background()); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if e.ID() != 101 || e.Draft().ID != 101 {
			t.Errorf("ID() = %d draft id = %d, want 101", e.ID(), e.Draft().ID)
		}
		if n, _ := e.Notice(); n.Key != KeySaved {
			t.Errorf("notice = %+v, want saved", n)
		}

		if err := e.Save(context.Background()); err != nil {
			t.Fatalf("second Save() error = %v", err)
		}
		if b.creates != 1 || b.updates != 1 {
			t.Errorf("creates = %d updates = %d, want 1/1", b.creates, b.updates)
		}
	})

	t.Run("ambiguous list is reported", func(t *testing.T) {
		b := newFakeBackend(product(1, 1, "a"))
		b.omitID = true
		b.alsoAdd = []model.Product{product(500, 2, "other")}
		var changed int
		e := New(Config[model.Product]{
			Resource: "product",
			Backend:  b,
			Template: func(next int) model.Product { return model.Product{Index: next} },
			Validate: ValidateProduct,
			OnChange: func(context.Context, string) { changed++ },
		})
		_ = e.Open(context.Background(), 0)
		_ = e.Mutate(func(p *model.Product) { p.Name = model.NewLocalizedText("Зээл", "Loan") })

		if err := e.Save(context.Background()); !errors.Is(err, ErrMissingID) {
			t.Fatalf("Save() error = %v, want ErrMissingID", err)
		}
		if e.ID() != 0 || e.Draft().Name.Get(model.LanguagePrimary) != "Зээл" {
			t.Errorf("id = %d draft = %+v, want the unsaved draft kept", e.ID(), e.Draft())
		}
		if e.State() != StateEditing {
			t.Errorf("state = %v, want editing", e.State())
		}
		n, _ := e.Notice()
		if n.Kind != NoticeError || n.Key != KeyUnconfirmed {
			t.Errorf("notice = %+v, want unconfirmed create", n)
		}
		if len(e.Items()) != 3 {
			t.Errorf("items = %d, want the refreshed list of 3", len(e.Items()))
		}
		if changed != 0 {
			t.Errorf("OnChange called %d times for an unconfirmed create", changed)
		}
	})
}

func TestNoticeExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	b := newFakeBackend(product(1, 1, "a"))
	e := New(Config[model.Product]{
		Resource: "product",
		Backend:  b,
		Validate: ValidateProduct,
		Now:      func() time.Time { return now },
	})
	_ = e.Open(context.Background(), 1)
	_ = e.Save(context.Background())

	if _, ok := e.Notice(); !ok {
		t.Fatal("notice should be active right after save")
	}
	now = now.Add(SuccessNoticeTTL)
	if _, ok := e.Notice(); ok {
		t.Error("success notice should expire after 3s")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	b := newFakeBackend(product(1, 1, "a"), product(2, 2, "b"))
	e := newProductEditor(b)
	_ = e.Open(context.Background(), 1)

	if err := e.Delete(context.Background(), "forged"); !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("Delete(forged) = %v, want ErrNotConfirmed", err)
	}
	if b.deletes != 0 {
		t.Fatalf("deletes = %d before confirmation", b.deletes)
	}

	c, err := e.RequestDelete(2)
	if err != nil {
		t.Fatalf("RequestDelete() error = %v", err)
	}
	if len(e.Items()) != 2 {
		t.Error("RequestDelete() must not remove the item")
	}
	if err := e.Delete(context.Background(), c.Token); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if b.deletes != 1 || len(e.Items()) != 1 {
		t.Errorf("deletes = %d items = %d, want 1/1", b.deletes, len(e.Items()))
	}

	if err := e.Delete(context.Background(), c.Token); !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("reused token = %v, want ErrNotConfirmed", err)
	}
	if _, err := e.RequestDelete(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("RequestDelete(42) = %v, want ErrNotFound", err)
	}
}

func TestDeleteOfOpenRecordResetsDraft(t *testing.T) {
	b := newFakeBackend(product(1, 1, "a"), product(2, 2, "b"))
	e := newProductEditor(b)
	_ = e.Open(context.Background(), 2)

	c, _ := e.RequestDelete(2)
	if err := e.Delete(context.Background(), c.Token); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if e.ID() != 0 || e.Draft().Index != 2 {
		t.Errorf("after delete id = %d index = %d, want new draft with index 2", e.ID(), e.Draft().Index)
	}
}

func TestBusyAndStaleResults(t *testing.T) {
	b := newFakeBackend(product(1, 1, "a"))
	b.block = make(chan struct{})
	b.entered = make(chan struct{})
	e := newProductEditor(b)
	_ = e.Open(context.Background(), 1)

	done := make(chan error, 1)
	go func() { done <- e.Save(context.Background()) }()
	<-b.entered

	if e.State() != StateSaving {
		t.Errorf("state = %v, want saving", e.State())
	}
	if err := e.Mutate(func(*model.Product) {}); !errors.Is(err, ErrBusy) {
		t.Errorf("Mutate() while saving = %v, want ErrBusy", err)
	}
	if err := e.Save(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second Save() = %v, want ErrBusy", err)
	}

	e.Close()
	close(b.block)

	if err := <-done; !errors.Is(err, ErrStale) {
		t.Errorf("Save() after Close() = %v, want ErrStale", err)
	}
	if e.State() != StateIdle {
		t.Errorf("state = %v, want idle", e.State())
	}
	if _, ok := e.Notice(); ok {
		t.Error("stale save must not publish a notice")
	}
}

func TestSingletonOpensExistingRecord(t *testing.T) {
	b := newFakeBackend(product(7, 1, "only"))
	e := New(Config[model.Product]{Resource: "footer", Backend: b, Singleton: true})

	if err := e.Open(context.Background(), 0); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if e.ID() != 7 {
		t.Errorf("ID() = %d, want 7", e.ID())
	}
}

func TestRegistrySweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	b := newFakeBackend(product(1, 1, "a"))
	r := NewRegistry(func() *Editor[model.Product] {
		return New(Config[model.Product]{Resource: "product", Backend: b, Now: func() time.Time { return now }})
	})

	a := r.Get("ws-1", "1")
	if r.Get("ws-1", "1") != a {
		t.Error("Get() should return the same editor for the same key")
	}
	if r.Get("ws-2", "1") == a {
		t.Error("workspaces must not share editors")
	}

	now = now.Add(time.Hour)
	if n := r.Sweep(now, 30*time.Minute); n != 2 {
		t.Errorf("Sweep() = %d, want 2", n)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}
