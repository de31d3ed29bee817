package treatments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"nyanpass/internal/domain/cats"
	"nyanpass/internal/platform/validation"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	items map[string]Treatment
	seq   int
}

func newTestRepo() *testRepo { return &testRepo{items: map[string]Treatment{}} }

func (r *testRepo) ListByCat(ctx context.Context, uid, catID string) ([]Treatment, error) {
	out := make([]Treatment, 0)
	for _, t := range r.items {
		if t.CatID == catID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *testRepo) ListAll(ctx context.Context, uid string) ([]Treatment, error) {
	out := make([]Treatment, 0, len(r.items))
	for _, t := range r.items {
		out = append(out, t)
	}
	return out, nil
}

func (r *testRepo) Get(ctx context.Context, uid, catID, id string) (Treatment, error) {
	t, ok := r.items[id]
	if !ok || t.CatID != catID {
		return Treatment{}, ErrNotFound
	}
	return t, nil
}

func (r *testRepo) Add(ctx context.Context, uid string, t Treatment) (Treatment, error) {
	r.seq++
	t.ID = fmt.Sprintf("t-%d", r.seq)
	r.items[t.ID] = t
	return t, nil
}

func (r *testRepo) Update(ctx context.Context, uid string, t Treatment) error {
	r.items[t.ID] = t
	return nil
}

func (r *testRepo) Delete(ctx context.Context, uid, catID, id string) error {
	delete(r.items, id)
	return nil
}

type testCats struct{}

func (testCats) Get(ctx context.Context, uid, id string) (cats.Profile, error) {
	return cats.Profile{ID: id}, nil
}

type testMedia struct {
	objects map[string][]byte
}

func (m *testMedia) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.objects[key] = b
	return key, nil
}

func (m *testMedia) Delete(ctx context.Context, ref string) error {
	delete(m.objects, ref)
	return nil
}

var testNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time { return testNow.AddDate(0, 0, -n) }

func newTestService() (*Service, *testRepo, *testMedia) {
	repo := newTestRepo()
	m := &testMedia{objects: map[string][]byte{}}
	svc := NewService(repo, testCats{}, m, nil, nil)
	svc.now = func() time.Time { return testNow }
	return svc, repo, m
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DateRules(t *testing.T) {
	start := daysAgo(10)
	beforeStart := daysAgo(20)
	future := testNow.Add(time.Hour)

	cases := map[string]struct {
		in    Input
		field string
	}{
		"future start":     {Input{CatID: "c1", Name: "Drops", StartDate: future}, "startDate"},
		"future end":       {Input{CatID: "c1", Name: "Drops", StartDate: start, EndDate: &future}, "endDate"},
		"end before start": {Input{CatID: "c1", Name: "Drops", StartDate: start, EndDate: &beforeStart}, "endDate"},
		"missing start":    {Input{CatID: "c1", Name: "Drops"}, "startDate"},
		"short name":       {Input{CatID: "c1", Name: "D", StartDate: start}, "name"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			_, err := svc.Create(context.Background(), "u1", tc.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *validation.Error")
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected violation on %s, got %v", tc.field, verr.Fields)
			}
			if len(repo.items) != 0 {
				t.Fatalf("invalid treatment must not reach the store")
			}
		})
	}
}

func TestService_Ongoing(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	ended := daysAgo(1)
	sameDay := testNow
	mustCreate := func(in Input) Treatment {
		t.Helper()
		tr, err := svc.Create(ctx, "u1", in)
		if err != nil {
			t.Fatalf("Create %s: %v", in.Name, err)
		}
		return tr
	}

	open := mustCreate(Input{CatID: "c1", Name: "Open", StartDate: daysAgo(5)})
	mustCreate(Input{CatID: "c1", Name: "Ended", StartDate: daysAgo(5), EndDate: &ended})
	mustCreate(Input{CatID: "c2", Name: "Ends now", StartDate: daysAgo(2), EndDate: &sameDay})

	items, err := svc.Ongoing(ctx, "u1")
	if err != nil {
		t.Fatalf("Ongoing error: %v", err)
	}
	if len(items) != 1 || items[0].ID != open.ID {
		t.Fatalf("expected only the open treatment, got %+v", items)
	}

	// un fin posterior a now sigue en curso
	later := testNow.Add(2 * time.Hour)
	if !(Treatment{StartDate: daysAgo(1), EndDate: &later}).Ongoing(testNow) {
		t.Fatalf("end after now must be ongoing")
	}
	if !svc.IsOngoing(open) {
		t.Fatalf("open treatment must be ongoing")
	}
}

func TestService_ListByCat_LatestStartFirst(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for _, d := range []int{30, 2, 10} {
		if _, err := svc.Create(ctx, "u1", Input{CatID: "c1", Name: "Pills", StartDate: daysAgo(d)}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	items, _ := svc.ListByCat(ctx, "u1", "c1")
	if len(items) != 3 || !items[0].StartDate.Equal(daysAgo(2)) || !items[2].StartDate.Equal(daysAgo(30)) {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestService_Attachments(t *testing.T) {
	svc, repo, m := newTestService()
	ctx := context.Background()

	tr, err := svc.Create(ctx, "u1", Input{CatID: "c1", Name: "Antibiotic", StartDate: daysAgo(3)})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	tr, err = svc.AddAttachment(ctx, "u1", "c1", tr.ID, bytes.NewBufferString("%PDF"), 4, "application/pdf")
	if err != nil {
		t.Fatalf("AddAttachment error: %v", err)
	}
	if len(tr.Attachments) != 1 || len(m.objects) != 1 {
		t.Fatalf("expected one attachment, got %v", tr.Attachments)
	}

	// Update conserva los adjuntos
	updated, err := svc.Update(ctx, "u1", "c1", tr.ID, Input{Name: "Antibiotic", StartDate: daysAgo(3), Dosage: "5ml"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if len(updated.Attachments) != 1 || updated.Dosage != "5ml" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	if err := svc.Delete(ctx, "u1", "c1", tr.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(m.objects) != 0 || len(repo.items) != 0 {
		t.Fatalf("expected treatment and attachments removed")
	}
}

func TestService_AddAttachment_Limit(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	tr, _ := svc.Create(ctx, "u1", Input{CatID: "c1", Name: "Antibiotic", StartDate: daysAgo(3)})
	for i := 0; i < maxAttachments; i++ {
		tr.Attachments = append(tr.Attachments, fmt.Sprintf("ref-%d", i))
	}
	repo.items[tr.ID] = tr

	_, err := svc.AddAttachment(ctx, "u1", "c1", tr.ID, bytes.NewBufferString("x"), 1, "image/png")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
