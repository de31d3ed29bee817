package cats

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"nyanpass/internal/i18n"
	"nyanpass/internal/platform/validation"
	"nyanpass/internal/ports/docstore"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	byUser  map[string]map[string]Profile
	seq     int
	deleted []string
}

func newTestRepo() *testRepo {
	return &testRepo{byUser: map[string]map[string]Profile{}}
}

func (r *testRepo) List(ctx context.Context, uid string) ([]Profile, error) {
	out := make([]Profile, 0)
	for _, p := range r.byUser[uid] {
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) Get(ctx context.Context, uid, id string) (Profile, error) {
	p, ok := r.byUser[uid][id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) Add(ctx context.Context, uid string, p Profile) (Profile, error) {
	r.seq++
	p.ID = fmt.Sprintf("cat-%d", r.seq)
	if r.byUser[uid] == nil {
		r.byUser[uid] = map[string]Profile{}
	}
	r.byUser[uid][p.ID] = p
	return p, nil
}

func (r *testRepo) Update(ctx context.Context, uid string, p Profile) error {
	if r.byUser[uid] == nil {
		r.byUser[uid] = map[string]Profile{}
	}
	r.byUser[uid][p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, uid, id string) error {
	delete(r.byUser[uid], id)
	r.deleted = append(r.deleted, id)
	return nil
}

type testMedia struct {
	objects map[string]string
	failPut bool
}

func newTestMedia() *testMedia { return &testMedia{objects: map[string]string{}} }

func (m *testMedia) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if m.failPut {
		return "", errors.New("media: put failed")
	}
	b, _ := io.ReadAll(r)
	m.objects[key] = string(b)
	return key, nil
}

func (m *testMedia) Delete(ctx context.Context, ref string) error {
	delete(m.objects, ref)
	return nil
}

type testTracker struct{ events []string }

func (t *testTracker) Track(ctx context.Context, event string, params map[string]any) {
	t.events = append(t.events, event)
}

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func ptr[T any](v T) *T { return &v }

var testNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func validInput() ProfileInput {
	return ProfileInput{
		Name:      "Luna",
		Birthdate: time.Date(2020, 5, 15, 0, 0, 0, 0, time.UTC),
		Breed:     "Siamese",
		Traits:    []string{"playful", " Playful ", ""},
	}
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsAndInitialWeight(t *testing.T) {
	repo := newTestRepo()
	tr := &testTracker{}
	svc := NewService(repo, fixedClock(testNow), WithTracker(tr))

	in := validInput()
	in.Weight = ptr(4.2)

	p, err := svc.Create(context.Background(), "u1", in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected id")
	}
	if p.WeightUnit != i18n.Kilograms {
		t.Fatalf("expected default unit kg, got %q", p.WeightUnit)
	}
	if len(p.Traits) != 1 || p.Traits[0] != "playful" {
		t.Fatalf("expected deduplicated traits, got %v", p.Traits)
	}
	if len(p.WeightRecords) != 1 || p.WeightRecords[0].Weight != 4.2 || !p.WeightRecords[0].Date.Equal(testNow) {
		t.Fatalf("unexpected weight records: %+v", p.WeightRecords)
	}
	if !p.CreatedAt.Equal(testNow) || !p.UpdatedAt.Equal(testNow) {
		t.Fatalf("expected timestamps at now")
	}
	if len(tr.events) != 1 || tr.events[0] != "cat_created" {
		t.Fatalf("expected cat_created event, got %v", tr.events)
	}
}

func TestService_Create_Validation(t *testing.T) {
	cases := map[string]struct {
		mutate func(*ProfileInput)
		field  string
	}{
		"short name":       {func(in *ProfileInput) { in.Name = "L" }, "name"},
		"long name":        {func(in *ProfileInput) { in.Name = strings.Repeat("a", 31) }, "name"},
		"short nickname":   {func(in *ProfileInput) { in.Nickname = "x" }, "nickname"},
		"missing birth":    {func(in *ProfileInput) { in.Birthdate = time.Time{} }, "birthdate"},
		"future birth":     {func(in *ProfileInput) { in.Birthdate = testNow.AddDate(0, 0, 1) }, "birthdate"},
		"missing breed":    {func(in *ProfileInput) { in.Breed = " " }, "breed"},
		"weight too heavy": {func(in *ProfileInput) { in.Weight = ptr(120.0) }, "weightRecords[0].weight"},
		"negative weight":  {func(in *ProfileInput) { in.Weight = ptr(-1.0) }, "weightRecords[0].weight"},
		"bad unit":         {func(in *ProfileInput) { in.WeightUnit = "stone" }, "weightUnit"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newTestRepo()
			svc := NewService(repo, fixedClock(testNow))

			in := validInput()
			tc.mutate(&in)

			_, err := svc.Create(context.Background(), "u1", in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var verr *validation.Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *validation.Error, got %T", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected violation on %q, got %v", tc.field, verr.Fields)
			}
			if len(repo.byUser["u1"]) != 0 {
				t.Fatalf("invalid profile must not be stored")
			}
		})
	}
}

func TestService_RequiresIdentity(t *testing.T) {
	svc := NewService(newTestRepo(), fixedClock(testNow))
	ctx := context.Background()

	if _, err := svc.Create(ctx, "", validInput()); !errors.Is(err, docstore.ErrNoIdentity) {
		t.Fatalf("Create: expected ErrNoIdentity, got %v", err)
	}
	if _, err := svc.List(ctx, " "); !errors.Is(err, docstore.ErrNoIdentity) {
		t.Fatalf("List: expected ErrNoIdentity, got %v", err)
	}
	if err := svc.Delete(ctx, "", "c1"); !errors.Is(err, docstore.ErrNoIdentity) {
		t.Fatalf("Delete: expected ErrNoIdentity, got %v", err)
	}
}

func TestService_List_SortedByName(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, fixedClock(testNow))
	ctx := context.Background()

	for _, name := range []string{"Milo", "luna", "Bella"} {
		in := validInput()
		in.Name = name
		if _, err := svc.Create(ctx, "u1", in); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	items, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	got := []string{items[0].Name, items[1].Name, items[2].Name}
	want := []string{"Bella", "luna", "Milo"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestService_Update_PreservesIdentityAndHistory(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, fixedClock(testNow))
	ctx := context.Background()

	in := validInput()
	in.Weight = ptr(4.0)
	created, err := svc.Create(ctx, "u1", in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	created.Image = "users/u1/cats/x/photo.jpg"
	_ = repo.Update(ctx, "u1", created)

	later := testNow.Add(48 * time.Hour)
	svc.now = func() time.Time { return later }

	upd := validInput()
	upd.Name = "Luna Bella"
	upd.Weight = ptr(4.4)
	got, err := svc.Update(ctx, "u1", created.ID, upd)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}

	if got.ID != created.ID {
		t.Fatalf("id changed: %s -> %s", created.ID, got.ID)
	}
	if !got.CreatedAt.Equal(testNow) {
		t.Fatalf("createdAt must be preserved, got %v", got.CreatedAt)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Fatalf("updatedAt must move, got %v", got.UpdatedAt)
	}
	if got.Image != created.Image {
		t.Fatalf("image must be preserved")
	}
	if len(got.WeightRecords) != 2 || got.WeightRecords[1].Weight != 4.4 {
		t.Fatalf("expected appended weight, got %+v", got.WeightRecords)
	}

	stored, _ := repo.Get(ctx, "u1", created.ID)
	if stored.Name != "Luna Bella" {
		t.Fatalf("update not persisted")
	}
}

func TestService_Update_NotFound(t *testing.T) {
	svc := NewService(newTestRepo(), fixedClock(testNow))
	_, err := svc.Update(context.Background(), "u1", "missing", validInput())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_AddWeight_AndHistory(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, fixedClock(testNow))
	ctx := context.Background()

	p, err := svc.Create(ctx, "u1", validInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	old := testNow.AddDate(0, -4, 0)
	if _, err := svc.AddWeight(ctx, "u1", p.ID, WeightRecord{Date: old, Weight: 3.8}); err != nil {
		t.Fatalf("AddWeight old: %v", err)
	}
	if _, err := svc.AddWeight(ctx, "u1", p.ID, WeightRecord{Weight: 4.2}); err != nil {
		t.Fatalf("AddWeight now: %v", err)
	}
	if _, err := svc.AddWeight(ctx, "u1", p.ID, WeightRecord{Date: testNow.AddDate(0, 0, 2), Weight: 4}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("future weight date: expected ErrInvalidInput, got %v", err)
	}

	all, err := svc.WeightHistory(ctx, "u1", p.ID, RangeAll, "")
	if err != nil {
		t.Fatalf("WeightHistory error: %v", err)
	}
	if len(all) != 2 || !all[0].Date.Equal(old) {
		t.Fatalf("expected 2 points oldest first, got %+v", all)
	}

	quarter, _ := svc.WeightHistory(ctx, "u1", p.ID, RangeQuarter, i18n.Pounds)
	if len(quarter) != 1 {
		t.Fatalf("expected 1 point in 3m, got %+v", quarter)
	}
	if quarter[0].Weight != 9.3 || quarter[0].Unit != i18n.Pounds {
		t.Fatalf("expected 9.3 lbs, got %+v", quarter[0])
	}
}

func TestParseRange(t *testing.T) {
	if r, err := ParseRange(""); err != nil || r != RangeAll {
		t.Fatalf("empty range: got %q, %v", r, err)
	}
	if r, err := ParseRange(" 6M "); err != nil || r != RangeSemester {
		t.Fatalf("6M: got %q, %v", r, err)
	}
	if _, err := ParseRange("2w"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_SetPhoto_ReplacesPrevious(t *testing.T) {
	repo := newTestRepo()
	m := newTestMedia()
	svc := NewService(repo, fixedClock(testNow), WithMedia(m))
	ctx := context.Background()

	p, _ := svc.Create(ctx, "u1", validInput())

	first, err := svc.SetPhoto(ctx, "u1", p.ID, bytes.NewBufferString("one"), 3, "image/jpeg")
	if err != nil {
		t.Fatalf("SetPhoto error: %v", err)
	}
	if !strings.HasPrefix(first.Image, "users/u1/cats/"+p.ID+"/photo/") || !strings.HasSuffix(first.Image, ".jpg") {
		t.Fatalf("unexpected key: %s", first.Image)
	}

	second, err := svc.SetPhoto(ctx, "u1", p.ID, bytes.NewBufferString("two"), 3, "image/png")
	if err != nil {
		t.Fatalf("SetPhoto error: %v", err)
	}
	if _, ok := m.objects[first.Image]; ok {
		t.Fatalf("previous photo must be removed")
	}
	if m.objects[second.Image] != "two" {
		t.Fatalf("new photo not stored")
	}
}

func TestService_SetPhoto_WithoutMedia(t *testing.T) {
	svc := NewService(newTestRepo(), fixedClock(testNow))
	_, err := svc.SetPhoto(context.Background(), "u1", "c1", bytes.NewBufferString("x"), 1, "image/png")
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestService_Delete_RemovesPhotoAndIsIdempotent(t *testing.T) {
	repo := newTestRepo()
	m := newTestMedia()
	svc := NewService(repo, fixedClock(testNow), WithMedia(m))
	ctx := context.Background()

	p, _ := svc.Create(ctx, "u1", validInput())
	p, _ = svc.SetPhoto(ctx, "u1", p.ID, bytes.NewBufferString("img"), 3, "image/jpeg")

	if err := svc.Delete(ctx, "u1", p.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(m.objects) != 0 {
		t.Fatalf("photo must be removed with the cat")
	}
	if err := svc.Delete(ctx, "u1", p.ID); err != nil {
		t.Fatalf("second Delete must not fail: %v", err)
	}
}

func TestService_DeleteAll(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, fixedClock(testNow))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, "u1", validInput()); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	keep, _ := svc.Create(ctx, "u2", validInput())

	if err := svc.DeleteAll(ctx, "u1"); err != nil {
		t.Fatalf("DeleteAll error: %v", err)
	}
	if len(repo.byUser["u1"]) != 0 {
		t.Fatalf("expected no cats for u1")
	}
	if _, err := repo.Get(ctx, "u2", keep.ID); err != nil {
		t.Fatalf("other users must be untouched")
	}
}

func TestBreeds_SortedAndCopied(t *testing.T) {
	b := Breeds()
	if len(b) == 0 {
		t.Fatalf("expected breeds")
	}
	b[0] = "mutated"
	if Breeds()[0] == "mutated" {
		t.Fatalf("Breeds must return a copy")
	}
}
