package documents

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"nyanpass/internal/adapters/storage/memory"
	"nyanpass/internal/adapters/storage/sqlite"
	"nyanpass/internal/domain/allergies"
	"nyanpass/internal/domain/cats"
	"nyanpass/internal/domain/settings"
	"nyanpass/internal/domain/treatments"
	"nyanpass/internal/domain/vaccines"
	"nyanpass/internal/i18n"
	"nyanpass/internal/ports/docstore"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seqIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("id-%03d", n.Add(1)) }
}

func newRepos(t *testing.T) (*Repos, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return New(store, nil, WithIDGenerator(seqIDs())), store
}

func luna() cats.Profile {
	now := day(2024, 2, 1)
	return cats.Profile{
		Name:          "Luna",
		Birthdate:     day(2020, 5, 15),
		Breed:         "Siamese",
		Traits:        []string{"playful"},
		WeightRecords: []cats.WeightRecord{{Date: day(2024, 1, 20), Weight: 4.2, Unit: i18n.Kilograms}},
		WeightUnit:    i18n.Kilograms,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestCats_AddThenGetReturnsInput(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	in := luna()
	saved, err := repos.Cats.Add(ctx, "u1", in)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := repos.Cats.Get(ctx, "u1", saved.ID)
	require.NoError(t, err)

	if diff := cmp.Diff(in, got, cmpopts.IgnoreFields(cats.Profile{}, "ID")); diff != "" {
		t.Fatalf("round trip mismatch (-in +got):\n%s", diff)
	}
}

func TestCats_DeleteCascadesChildren(t *testing.T) {
	repos, store := newRepos(t)
	ctx := context.Background()

	cat, err := repos.Cats.Add(ctx, "u1", luna())
	require.NoError(t, err)
	other, err := repos.Cats.Add(ctx, "u1", luna())
	require.NoError(t, err)

	for _, catID := range []string{cat.ID, other.ID} {
		_, err = repos.Vaccines.Add(ctx, "u1", vaccines.Vaccine{CatID: catID, Name: "Rabies", ApplicationDate: day(2024, 1, 1)})
		require.NoError(t, err)
		_, err = repos.Allergies.Add(ctx, "u1", allergies.Allergy{CatID: catID, Name: "Pollen", Symptoms: "sneezing", Severity: allergies.SeverityLow, DiagnosisDate: day(2024, 1, 2)})
		require.NoError(t, err)
		_, err = repos.Treatments.Add(ctx, "u1", treatments.Treatment{CatID: catID, Name: "Antibiotic", StartDate: day(2024, 1, 3)})
		require.NoError(t, err)
	}

	require.NoError(t, repos.Cats.Delete(ctx, "u1", cat.ID))

	v, _ := repos.Vaccines.ListByCat(ctx, "u1", cat.ID)
	a, _ := repos.Allergies.ListByCat(ctx, "u1", cat.ID)
	tr, _ := repos.Treatments.ListByCat(ctx, "u1", cat.ID)
	require.Empty(t, v)
	require.Empty(t, a)
	require.Empty(t, tr)

	_, err = repos.Cats.Get(ctx, "u1", cat.ID)
	require.ErrorIs(t, err, cats.ErrNotFound)

	// sin documentos huérfanos en el store
	for _, sub := range catChildren {
		docs, err := store.List(ctx, "users/u1/cats/"+cat.ID+"/"+sub)
		require.NoError(t, err)
		require.Empty(t, docs, sub)
	}

	// el otro gato queda intacto
	v, _ = repos.Vaccines.ListByCat(ctx, "u1", other.ID)
	require.Len(t, v, 1)
}

func TestUpdate_IsIdempotent(t *testing.T) {
	repos, store := newRepos(t)
	ctx := context.Background()

	saved, err := repos.Treatments.Add(ctx, "u1", treatments.Treatment{CatID: "c1", Name: "Drops", StartDate: day(2024, 3, 1)})
	require.NoError(t, err)

	end := day(2024, 3, 10)
	upd := saved
	upd.EndDate = &end
	upd.Dosage = "2 drops"

	path := "users/u1/cats/c1/treatments/" + saved.ID
	require.NoError(t, repos.Treatments.Update(ctx, "u1", upd))
	once, err := store.Get(ctx, path)
	require.NoError(t, err)

	require.NoError(t, repos.Treatments.Update(ctx, "u1", upd))
	twice, err := store.Get(ctx, path)
	require.NoError(t, err)

	if diff := cmp.Diff(once.Fields, twice.Fields); diff != "" {
		t.Fatalf("second update changed state (-once +twice):\n%s", diff)
	}
}

func TestUpdate_MergeKeepsUnknownFields(t *testing.T) {
	repos, store := newRepos(t)
	ctx := context.Background()

	saved, err := repos.Cats.Add(ctx, "u1", luna())
	require.NoError(t, err)
	path := "users/u1/cats/" + saved.ID
	require.NoError(t, store.Set(ctx, path, map[string]any{"legacyField": "keep me"}))

	saved.Nickname = "Lu"
	require.NoError(t, repos.Cats.Update(ctx, "u1", saved))

	doc, err := store.Get(ctx, path)
	require.NoError(t, err)
	require.Equal(t, "keep me", doc.Fields["legacyField"])
	require.Equal(t, "Lu", doc.Fields["nickname"])
}

func TestUpdate_ClearsOptionalDate(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	next := day(2024, 7, 10)
	saved, err := repos.Vaccines.Add(ctx, "u1", vaccines.Vaccine{CatID: "c1", Name: "FVRCP", ApplicationDate: day(2024, 1, 10), NextDoseDate: &next})
	require.NoError(t, err)

	saved.NextDoseDate = nil
	require.NoError(t, repos.Vaccines.Update(ctx, "u1", saved))

	got, err := repos.Vaccines.Get(ctx, "u1", "c1", saved.ID)
	require.NoError(t, err)
	require.Nil(t, got.NextDoseDate)
}

func TestDates_RoundTripPerBackend(t *testing.T) {
	backends := map[string]func(t *testing.T) docstore.Store{
		"memory": func(t *testing.T) docstore.Store { return memory.NewStore() },
		"sqlite": func(t *testing.T) docstore.Store {
			ctx := context.Background()
			db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "dates.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })
			s := sqlite.NewStore(db)
			require.NoError(t, s.Migrate(ctx))
			return s
		},
	}

	for name, newStore := range backends {
		t.Run(name, func(t *testing.T) {
			repos := New(newStore(t), nil, WithIDGenerator(seqIDs()))
			ctx := context.Background()

			start := time.Date(2024, 2, 3, 10, 30, 0, 0, time.UTC)
			end := time.Date(2024, 2, 13, 0, 0, 0, 0, time.UTC)
			saved, err := repos.Treatments.Add(ctx, "u1", treatments.Treatment{CatID: "c1", Name: "Drops", StartDate: start, EndDate: &end})
			require.NoError(t, err)
			open, err := repos.Treatments.Add(ctx, "u1", treatments.Treatment{CatID: "c1", Name: "Pills", StartDate: start})
			require.NoError(t, err)

			got, err := repos.Treatments.Get(ctx, "u1", "c1", saved.ID)
			require.NoError(t, err)
			require.Equal(t, start.Format("2006-01-02"), got.StartDate.UTC().Format("2006-01-02"))
			require.NotNil(t, got.EndDate)
			require.True(t, got.EndDate.Equal(end))

			gotOpen, err := repos.Treatments.Get(ctx, "u1", "c1", open.ID)
			require.NoError(t, err)
			require.Nil(t, gotOpen.EndDate, "absent end date must not become epoch")
		})
	}
}

func TestListAll_LunaScenario(t *testing.T) {
	defer goleak.VerifyNone(t)

	repos, _ := newRepos(t)
	ctx := context.Background()

	cat, err := repos.Cats.Add(ctx, "u1", luna())
	require.NoError(t, err)
	_, err = repos.Cats.Add(ctx, "u1", cats.Profile{Name: "Milo", Birthdate: day(2021, 1, 1), Breed: "Persian", WeightUnit: i18n.Kilograms})
	require.NoError(t, err)

	next := day(2024, 7, 10)
	_, err = repos.Vaccines.Add(ctx, "u1", vaccines.Vaccine{
		CatID:           cat.ID,
		Name:            "Triple Feline",
		ApplicationDate: day(2024, 1, 10),
		NextDoseDate:    &next,
	})
	require.NoError(t, err)

	// otro usuario no debe aparecer
	_, err = repos.Vaccines.Add(ctx, "u2", vaccines.Vaccine{CatID: cat.ID, Name: "Other", ApplicationDate: day(2024, 1, 1)})
	require.NoError(t, err)

	all, err := repos.Vaccines.ListAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 1)

	v := all[0]
	require.NotEmpty(t, v.ID)
	require.Equal(t, cat.ID, v.CatID)
	require.Equal(t, "Triple Feline", v.Name)
	require.True(t, v.ApplicationDate.Equal(day(2024, 1, 10)))
	require.NotNil(t, v.NextDoseDate)
	require.True(t, v.NextDoseDate.Equal(next))
}

func TestListAll_GroupsByCat(t *testing.T) {
	defer goleak.VerifyNone(t)

	repos, _ := newRepos(t)
	ctx := context.Background()

	var catIDs []string
	for i := 0; i < 12; i++ {
		c, err := repos.Cats.Add(ctx, "u1", luna())
		require.NoError(t, err)
		catIDs = append(catIDs, c.ID)
		for j := 0; j < 2; j++ {
			_, err := repos.Allergies.Add(ctx, "u1", allergies.Allergy{CatID: c.ID, Name: "Dust", Symptoms: "itch", Severity: allergies.SeverityMedium, DiagnosisDate: day(2024, 1, 1)})
			require.NoError(t, err)
		}
	}

	all, err := repos.Allergies.ListAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 24)
	for i, a := range all {
		require.Equal(t, catIDs[i/2], a.CatID, "item %d out of cat order", i)
	}
}

// failingStore falla en todo lo que indique.
type failingStore struct {
	docstore.Store
	failReads  bool
	failWrites bool
}

var errBoom = errors.New("backend unavailable")

func (f *failingStore) Get(ctx context.Context, p string) (docstore.Document, error) {
	if f.failReads {
		return docstore.Document{}, errBoom
	}
	return f.Store.Get(ctx, p)
}

func (f *failingStore) List(ctx context.Context, p string) ([]docstore.Document, error) {
	if f.failReads {
		return nil, errBoom
	}
	return f.Store.List(ctx, p)
}

func (f *failingStore) Set(ctx context.Context, p string, fields map[string]any) error {
	if f.failWrites {
		return errBoom
	}
	return f.Store.Set(ctx, p, fields)
}

func (f *failingStore) Delete(ctx context.Context, p string) error {
	if f.failWrites {
		return errBoom
	}
	return f.Store.Delete(ctx, p)
}

func TestReadFailuresAreSwallowed(t *testing.T) {
	fs := &failingStore{Store: memory.NewStore()}
	repos := New(fs, nil, WithIDGenerator(seqIDs()))
	ctx := context.Background()

	saved, err := repos.Cats.Add(ctx, "u1", luna())
	require.NoError(t, err)

	fs.failReads = true

	list, err := repos.Cats.List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, list)

	_, err = repos.Cats.Get(ctx, "u1", saved.ID)
	require.ErrorIs(t, err, cats.ErrNotFound)

	all, err := repos.Vaccines.ListAll(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, all)

	_, err = repos.Settings.Get(ctx, "u1")
	require.ErrorIs(t, err, settings.ErrNotFound)
}

func TestWriteFailuresPropagate(t *testing.T) {
	fs := &failingStore{Store: memory.NewStore(), failWrites: true}
	repos := New(fs, nil)
	ctx := context.Background()

	_, err := repos.Cats.Add(ctx, "u1", luna())
	require.ErrorIs(t, err, errBoom)

	err = repos.Vaccines.Update(ctx, "u1", vaccines.Vaccine{ID: "v1", CatID: "c1", Name: "x"})
	require.ErrorIs(t, err, errBoom)

	err = repos.Settings.Save(ctx, "u1", settings.Defaults())
	require.ErrorIs(t, err, errBoom)
}

func TestCascadeStopsWhenChildrenCannotBeListed(t *testing.T) {
	fs := &failingStore{Store: memory.NewStore()}
	repos := New(fs, nil, WithIDGenerator(seqIDs()))
	ctx := context.Background()

	saved, err := repos.Cats.Add(ctx, "u1", luna())
	require.NoError(t, err)

	fs.failReads = true
	require.ErrorIs(t, repos.Cats.Delete(ctx, "u1", saved.ID), errBoom)

	fs.failReads = false
	_, err = repos.Cats.Get(ctx, "u1", saved.ID)
	require.NoError(t, err, "profile must survive an aborted cascade")
}

func TestNoIdentityFailsFast(t *testing.T) {
	repos, store := newRepos(t)
	ctx := context.Background()

	_, err := repos.Cats.Add(ctx, "", luna())
	require.ErrorIs(t, err, docstore.ErrNoIdentity)
	_, err = repos.Cats.List(ctx, "  ")
	require.ErrorIs(t, err, docstore.ErrNoIdentity)
	_, err = repos.Cats.Get(ctx, "", "c1")
	require.ErrorIs(t, err, docstore.ErrNoIdentity)
	_, err = repos.Vaccines.ListAll(ctx, "")
	require.ErrorIs(t, err, docstore.ErrNoIdentity)
	_, err = repos.Treatments.ListByCat(ctx, "", "c1")
	require.ErrorIs(t, err, docstore.ErrNoIdentity)
	require.ErrorIs(t, repos.Settings.Save(ctx, "", settings.Defaults()), docstore.ErrNoIdentity)

	// nada se escribió en un bucket compartido
	docs, err := store.List(ctx, "users/default_user/cats")
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestSettings_SaveGetDelete(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	_, err := repos.Settings.Get(ctx, "u1")
	require.ErrorIs(t, err, settings.ErrNotFound)

	st := settings.Defaults()
	st.Language = i18n.French
	st.DarkMode = true
	require.NoError(t, repos.Settings.Save(ctx, "u1", st))

	got, err := repos.Settings.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, st, got)

	require.NoError(t, repos.Settings.Delete(ctx, "u1"))
	_, err = repos.Settings.Get(ctx, "u1")
	require.ErrorIs(t, err, settings.ErrNotFound)
}
