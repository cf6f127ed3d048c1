package repos_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"novastock/internal/domain"
	"novastock/internal/repos"
)

func newRepo(t *testing.T) *repos.ProductRepo {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repos.NewProductRepo(db)
}

func item(name, barcode string, created time.Time) domain.Product {
	return domain.Product{
		ID: uuid.NewString(),
		ProductFields: domain.ProductFields{
			Name:       name,
			Barcode:    barcode,
			Amount:     4,
			BuyPrice:   decimal.RequireFromString("0.10"),
			SellPrice:  decimal.RequireFromString("19.99"),
			OfferPrice: decimal.Zero,
		},
		CreatedAt: created,
	}
}

func TestProductRepo_RoundTrip(t *testing.T) {
	r := newRepo(t)
	created := time.Date(2025, 3, 1, 9, 30, 15, 123456789, time.FixedZone("EST", -5*3600))
	p := item("Apple Juice", "0012345678905", created)
	p.Image = []byte{0x89, 'P', 'N', 'G'}
	p.Specification = "1L carton"
	p.OfferPrice = decimal.RequireFromString("17.50")
	require.NoError(t, r.Insert(p))

	got, err := r.Get(p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
	require.Equal(t, p.Name, got.Name)
	require.Equal(t, "0012345678905", got.Barcode, "leading zeros survive")
	require.Equal(t, p.Image, got.Image)
	require.Equal(t, 4, got.Amount)
	require.True(t, p.BuyPrice.Equal(got.BuyPrice))
	require.True(t, p.SellPrice.Equal(got.SellPrice))
	require.True(t, p.OfferPrice.Equal(got.OfferPrice))
	require.Equal(t, "1L carton", got.Specification)
	require.True(t, created.Equal(got.CreatedAt))
}

func TestProductRepo_ListAllCreationOrder(t *testing.T) {
	r := newRepo(t)
	base := time.Now()
	// ids are random, so any ordering by id would shuffle these
	var want []string
	for i, name := range []string{"Zucchini", "Apple", "Milk", "Bread"} {
		p := item(name, "222", base.Add(time.Duration(i)*time.Second))
		require.NoError(t, r.Insert(p))
		want = append(want, p.ID)
	}

	all, err := r.ListAll()
	require.NoError(t, err)
	got := make([]string, 0, len(all))
	for _, p := range all {
		got = append(got, p.ID)
	}
	require.Equal(t, want, got)
}

func TestProductRepo_UpdateKeepsIdentity(t *testing.T) {
	r := newRepo(t)
	created := time.Now().UTC()
	p := item("Soap", "222", created)
	require.NoError(t, r.Insert(p))

	changed := p
	changed.Name = "Olive Soap"
	changed.Amount = 0
	changed.CreatedAt = created.Add(48 * time.Hour)
	require.NoError(t, r.Update(changed))

	got, err := r.Get(p.ID)
	require.NoError(t, err)
	require.Equal(t, "Olive Soap", got.Name)
	require.Equal(t, 0, got.Amount)
	require.True(t, created.Equal(got.CreatedAt), "created_at is never rewritten")
}

func TestProductRepo_NotFound(t *testing.T) {
	r := newRepo(t)
	missing := item("Ghost", "0", time.Now())

	_, err := r.Get(missing.ID)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	require.ErrorIs(t, r.Update(missing), domain.ErrProductNotFound)
	require.ErrorIs(t, r.Delete(missing.ID), domain.ErrProductNotFound)
}

func TestProductRepo_RejectsEmptyName(t *testing.T) {
	r := newRepo(t)
	require.Error(t, r.Insert(item("", "1", time.Now())))
	all, err := r.ListAll()
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestSeedDemo_OnlyWhenEmpty(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, repos.SeedDemo(db))
	require.NoError(t, repos.SeedDemo(db))

	all, err := repos.NewProductRepo(db).ListAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, p := range all {
		require.NoError(t, domain.Validate(p.ProductFields))
	}
}

func TestProductRepo_ListAllFollowsCreatedAt(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	r := repos.NewProductRepo(db)
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	// inserted newest first; the whole second must still sort before .5s and .12s
	later := item("Later", "222", base.Add(500*time.Millisecond))
	mid := item("Mid", "222", base.Add(120*time.Millisecond))
	oldest := item("Oldest", "222", base)
	for _, p := range []domain.Product{later, mid, oldest} {
		require.NoError(t, r.Insert(p))
	}

	all, err := r.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{"Oldest", "Mid", "Later"}, []string{all[0].Name, all[1].Name, all[2].Name})

	// survives a vacuum, which may renumber rowids
	_, err = db.Exec(`VACUUM`)
	require.NoError(t, err)
	all, err = r.ListAll()
	require.NoError(t, err)
	require.Equal(t, oldest.ID, all[0].ID)
}
