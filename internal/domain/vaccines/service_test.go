package vaccines

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"nyanpass/internal/domain/cats"
	"nyanpass/internal/ports/docstore"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	items map[string]Vaccine
	seq   int
}

func newTestRepo() *testRepo { return &testRepo{items: map[string]Vaccine{}} }

func key(uid, catID, id string) string { return uid + "/" + catID + "/" + id }

func (r *testRepo) ListByCat(ctx context.Context, uid, catID string) ([]Vaccine, error) {
	out := make([]Vaccine, 0)
	for k, v := range r.items {
		if k == key(uid, catID, v.ID) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *testRepo) ListAll(ctx context.Context, uid string) ([]Vaccine, error) {
	out := make([]Vaccine, 0)
	for k, v := range r.items {
		if k == key(uid, v.CatID, v.ID) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *testRepo) Get(ctx context.Context, uid, catID, id string) (Vaccine, error) {
	v, ok := r.items[key(uid, catID, id)]
	if !ok {
		return Vaccine{}, ErrNotFound
	}
	return v, nil
}

func (r *testRepo) Add(ctx context.Context, uid string, v Vaccine) (Vaccine, error) {
	r.seq++
	v.ID = fmt.Sprintf("v-%d", r.seq)
	r.items[key(uid, v.CatID, v.ID)] = v
	return v, nil
}

func (r *testRepo) Update(ctx context.Context, uid string, v Vaccine) error {
	r.items[key(uid, v.CatID, v.ID)] = v
	return nil
}

func (r *testRepo) Delete(ctx context.Context, uid, catID, id string) error {
	delete(r.items, key(uid, catID, id))
	return nil
}

type testCats map[string]bool

func (c testCats) Get(ctx context.Context, uid, id string) (cats.Profile, error) {
	if !c[uid+"/"+id] {
		return cats.Profile{}, cats.ErrNotFound
	}
	return cats.Profile{ID: id}, nil
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func newTestService(now time.Time) (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, testCats{"u1/c1": true}, nil)
	svc.now = func() time.Time { return now }
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestService_Create(t *testing.T) {
	now := day(2024, 2, 1)
	svc, repo := newTestService(now)
	next := day(2024, 7, 10)

	v, err := svc.Create(context.Background(), "u1", Input{
		CatID:           "c1",
		Name:            " Triple Feline ",
		ApplicationDate: day(2024, 1, 10),
		NextDoseDate:    &next,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if v.ID == "" || v.Name != "Triple Feline" {
		t.Fatalf("unexpected vaccine: %+v", v)
	}
	if !v.CreatedAt.Equal(now) {
		t.Fatalf("expected createdAt=now")
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected stored vaccine")
	}
}

func TestService_Create_Rules(t *testing.T) {
	now := day(2024, 2, 1)
	before := day(2023, 12, 1)

	cases := map[string]struct {
		in   Input
		want error
	}{
		"missing name":         {Input{CatID: "c1", ApplicationDate: day(2024, 1, 1)}, ErrInvalidInput},
		"missing date":         {Input{CatID: "c1", Name: "Rabies"}, ErrInvalidInput},
		"next dose before app": {Input{CatID: "c1", Name: "Rabies", ApplicationDate: day(2024, 1, 1), NextDoseDate: &before}, ErrInvalidInput},
		"unknown cat":          {Input{CatID: "c9", Name: "Rabies", ApplicationDate: day(2024, 1, 1)}, cats.ErrNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc, repo := newTestService(now)
			_, err := svc.Create(context.Background(), "u1", tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(repo.items) != 0 {
				t.Fatalf("nothing must be stored")
			}
		})
	}

	svc, _ := newTestService(now)
	if _, err := svc.Create(context.Background(), "", Input{}); !errors.Is(err, docstore.ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}
}

func TestService_ListByCat_NewestFirst(t *testing.T) {
	svc, _ := newTestService(day(2024, 6, 1))
	ctx := context.Background()

	for _, d := range []time.Time{day(2023, 1, 1), day(2024, 3, 1), day(2023, 6, 1)} {
		if _, err := svc.Create(ctx, "u1", Input{CatID: "c1", Name: "Rabies", ApplicationDate: d}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	items, err := svc.ListByCat(ctx, "u1", "c1")
	if err != nil {
		t.Fatalf("ListByCat error: %v", err)
	}
	if len(items) != 3 || !items[0].ApplicationDate.Equal(day(2024, 3, 1)) || !items[2].ApplicationDate.Equal(day(2023, 1, 1)) {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestService_Update_PreservesCreatedAtAndCat(t *testing.T) {
	svc, _ := newTestService(day(2024, 2, 1))
	ctx := context.Background()

	v, _ := svc.Create(ctx, "u1", Input{CatID: "c1", Name: "Rabies", ApplicationDate: day(2024, 1, 1)})

	later := day(2024, 2, 5)
	svc.now = func() time.Time { return later }
	got, err := svc.Update(ctx, "u1", "c1", v.ID, Input{CatID: "other", Name: "Rabies booster", ApplicationDate: day(2024, 1, 2)})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.CatID != "c1" || got.ID != v.ID {
		t.Fatalf("identity changed: %+v", got)
	}
	if !got.CreatedAt.Equal(v.CreatedAt) || !got.UpdatedAt.Equal(later) {
		t.Fatalf("timestamps: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestVaccine_StatusAt(t *testing.T) {
	now := day(2024, 6, 1)
	in := func(days int) *time.Time {
		d := now.AddDate(0, 0, days)
		return &d
	}

	cases := []struct {
		name   string
		next   *time.Time
		status Status
		days   int
	}{
		{"no next dose", nil, StatusOK, 0},
		{"far away", in(45), StatusOK, 45},
		{"within window", in(30), StatusUpcoming, 30},
		{"today", in(0), StatusUpcoming, 0},
		{"expired", in(-3), StatusExpired, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, days := Vaccine{NextDoseDate: tc.next}.StatusAt(now)
			if status != tc.status || days != tc.days {
				t.Fatalf("expected %s/%d, got %s/%d", tc.status, tc.days, status, days)
			}
		})
	}

	// fracciones de día se redondean hacia arriba
	partial := now.Add(36 * time.Hour)
	if _, days := (Vaccine{NextDoseDate: &partial}).StatusAt(now); days != 2 {
		t.Fatalf("expected 2 days, got %d", days)
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo := newTestService(day(2024, 2, 1))
	ctx := context.Background()

	v, _ := svc.Create(ctx, "u1", Input{CatID: "c1", Name: "Rabies", ApplicationDate: day(2024, 1, 1)})
	if err := svc.Delete(ctx, "u1", "c1", v.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatalf("expected removal")
	}
	if _, err := svc.Get(ctx, "u1", "c1", v.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
