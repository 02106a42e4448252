package repo

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/parfum_shop/internal/db"
	"github.com/Skotchmaster/parfum_shop/internal/hash"
	"github.com/Skotchmaster/parfum_shop/internal/models"
)

func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	db, err := pkgdb.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := pkgdb.EnsureSchema(ctx, db); err != nil {
		t.Fatalf("failed to create tables: %v", err)
	}
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	return db
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeed_Idempotent(t *testing.T) {
	db := InitTestDB(t)
	r := New(db)
	ctx := context.Background()

	res, err := r.Seed(ctx, false)
	require.NoError(t, err)
	require.Equal(t, SeedResult{Products: 3, Users: 3}, res)

	res, err = r.Seed(ctx, false)
	require.NoError(t, err)
	require.Equal(t, SeedResult{}, res)

	require.EqualValues(t, 3, countRows(t, db, &models.Product{}))
	require.EqualValues(t, 3, countRows(t, db, &models.User{}))
}

func TestSeed_SkipsNonEmptyTableAfterDeletes(t *testing.T) {
	db := InitTestDB(t)
	r := New(db)
	ctx := context.Background()

	_, err := r.Seed(ctx, false)
	require.NoError(t, err)

	_, err = r.DeleteProduct(ctx, 1)
	require.NoError(t, err)
	_, err = r.DeleteProduct(ctx, 2)
	require.NoError(t, err)

	res, err := r.Seed(ctx, false)
	require.NoError(t, err)
	require.Zero(t, res.Products)
	require.EqualValues(t, 1, countRows(t, db, &models.Product{}))
}

func TestSeed_DemoValues(t *testing.T) {
	db := InitTestDB(t)
	r := New(db)
	ctx := context.Background()

	_, err := r.Seed(ctx, false)
	require.NoError(t, err)

	items, err := r.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	want := DemoProducts()
	for i := range want {
		want[i].ID = i + 1
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Fatalf("seeded products mismatch (-want +got):\n%s", diff)
	}

	admin, err := r.FindUser(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, "admin123", admin.Password)
	require.Equal(t, models.RoleAdmin, admin.Role)
}

func TestSeed_HashedPasswords(t *testing.T) {
	db := InitTestDB(t)
	r := New(db)
	ctx := context.Background()

	_, err := r.Seed(ctx, true)
	require.NoError(t, err)

	u, err := r.FindUser(ctx, "manager")
	require.NoError(t, err)
	require.True(t, hash.IsHashed(u.Password))
	require.True(t, hash.CheckPassword(u.Password, "manager123"))
}

func TestFindUser_NotFound(t *testing.T) {
	r := New(InitTestDB(t))
	_, err := r.FindUser(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestProductCRUD(t *testing.T) {
	db := InitTestDB(t)
	r := New(db)
	ctx := context.Background()

	prod := models.Product{
		Name:         "Baccarat Rouge 540",
		Category:     "Унисекс",
		Description:  "desc",
		Manufacturer: "MFK",
		Supplier:     "Niche Co",
		Price:        31000.5,
		Unit:         "мл",
		Stock:        3,
		Discount:     15,
		Image:        "https://example.com/br540.jpg",
	}
	require.NoError(t, r.CreateProduct(ctx, &prod))
	require.NotZero(t, prod.ID)

	items, err := r.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, prod, items[0])

	updated := models.Product{Name: "Renamed", Price: 1, Stock: 0}
	n, err := r.UpdateProduct(ctx, prod.ID, updated)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	items, err = r.ListProducts(ctx)
	require.NoError(t, err)
	updated.ID = prod.ID
	require.Equal(t, updated, items[0], "update must overwrite every column, zero values included")

	n, err = r.DeleteProduct(ctx, prod.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	items, err = r.ListProducts(ctx)
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestUpdateAndDelete_MissingRow(t *testing.T) {
	db := InitTestDB(t)
	r := New(db)
	ctx := context.Background()
	_, err := r.Seed(ctx, false)
	require.NoError(t, err)

	n, err := r.UpdateProduct(ctx, 999, models.Product{Name: "nope"})
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = r.DeleteProduct(ctx, 999)
	require.NoError(t, err)
	require.Zero(t, n)

	require.EqualValues(t, 3, countRows(t, db, &models.Product{}))
}

func TestSearchProducts(t *testing.T) {
	db := InitTestDB(t)
	r := New(db)
	ctx := context.Background()
	_, err := r.Seed(ctx, false)
	require.NoError(t, err)

	total, items, err := r.SearchProducts(ctx, "dior", 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Dior Sauvage", items[0].Name)

	total, items, err = r.SearchProducts(ctx, "distribution", 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 0, total)
	require.Empty(t, items)

	total, items, err = r.SearchProducts(ctx, "o", 1, 1)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, items, 1)
	require.Equal(t, 2, items[0].ID)
}

func TestSearchProducts_CyrillicIgnoresCase(t *testing.T) {
	db := InitTestDB(t)
	r := New(db)
	ctx := context.Background()
	_, err := r.Seed(ctx, false)
	require.NoError(t, err)

	for _, q := range []string{"унисекс", "Унисекс", "УНИСЕКС"} {
		t.Run(q, func(t *testing.T) {
			total, items, err := r.SearchProducts(ctx, q, 0, 10)
			require.NoError(t, err)
			require.EqualValues(t, 1, total)
			require.Equal(t, "Tom Ford Lost Cherry", items[0].Name)
		})
	}

	total, items, err := r.SearchProducts(ctx, "классический", 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Chanel No. 5", items[0].Name)

	total, items, err = r.SearchProducts(ctx, "аромат", 5, 10)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Empty(t, items)
}
