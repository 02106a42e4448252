package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/parfum_shop/internal/config"
	pkgdb "github.com/Skotchmaster/parfum_shop/internal/db"
	"github.com/Skotchmaster/parfum_shop/internal/events"
	"github.com/Skotchmaster/parfum_shop/internal/models"
	"github.com/Skotchmaster/parfum_shop/internal/repo"
	"github.com/Skotchmaster/parfum_shop/internal/tokens"
)

type published struct {
	Topic string
	Key   string
	Event map[string]any
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, published{Topic: topic, Key: key, Event: event})
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, p := range f.sent {
		out = append(out, p.Event["type"].(string))
	}
	return out
}

type fakeIndex struct {
	indexed map[int]models.Product
	deleted []int
	err     error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{indexed: map[int]models.Product{}} }

func (f *fakeIndex) IndexProduct(_ context.Context, p models.Product) error {
	if f.err != nil {
		return f.err
	}
	f.indexed[p.ID] = p
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	delete(f.indexed, id)
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, q string, from, size int) (int64, []models.Product, error) {
	return 42, []models.Product{{ID: 99, Name: q}}, nil
}

func newRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	ctx := context.Background()
	db, err := pkgdb.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, pkgdb.EnsureSchema(ctx, db))
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	r := repo.New(db)
	_, err = r.Seed(ctx, false)
	require.NoError(t, err)
	return r
}

func TestLogin_GuestSkipsLookup(t *testing.T) {
	r := newRepo(t)
	require.NoError(t, r.DB.Migrator().DropTable(&models.User{}))
	svc := &AuthService{Repo: r}

	res, err := svc.Login(context.Background(), "", "anything")
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, res.Role)
	assert.Empty(t, res.Username)
	assert.Empty(t, res.Token)
}

func TestLogin_Credentials(t *testing.T) {
	pub := &fakePublisher{}
	svc := &AuthService{Repo: newRepo(t), Events: pub}
	ctx := context.Background()

	res, err := svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", res.Username)
	assert.Equal(t, models.RoleAdmin, res.Role)
	assert.Equal(t, []string{events.UserLoggedIn}, pub.types())
	assert.Equal(t, events.TopicUsers, pub.sent[0].Topic)
	assert.Equal(t, "admin", pub.sent[0].Key)

	_, err = svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "Admin", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_IssuesTokenWhenSecretSet(t *testing.T) {
	secret := []byte("s3cret")
	svc := &AuthService{Repo: newRepo(t), JWTSecret: secret, TokenTTL: time.Minute}

	res, err := svc.Login(context.Background(), "manager", "manager123")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	claims, err := tokens.AccessClaimsFromToken(res.Token, secret)
	require.NoError(t, err)
	assert.Equal(t, "manager", claims.Subject)
	assert.Equal(t, models.RoleManager, claims.Role)
}

func TestLogin_PublishFailureIsNotSurfaced(t *testing.T) {
	svc := &AuthService{Repo: newRepo(t), Events: &fakePublisher{err: errors.New("broker down")}}
	res, err := svc.Login(context.Background(), "user", "user123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, res.Role)
}

func TestCatalog_CreateAppliesPlaceholder(t *testing.T) {
	r := newRepo(t)
	pub := &fakePublisher{}
	idx := newFakeIndex()
	svc := &CatalogService{Repo: r, Events: pub, Index: idx}
	ctx := context.Background()

	id, err := svc.CreateProduct(ctx, models.Product{Name: "Bleu de Chanel", Price: 11000})
	require.NoError(t, err)
	assert.Equal(t, 4, id)

	withImage, err := svc.CreateProduct(ctx, models.Product{Name: "Aventus", Image: "https://example.com/a.png"})
	require.NoError(t, err)

	items, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, config.DefaultPlaceholderImage, items[3].Image)
	assert.Equal(t, "https://example.com/a.png", items[4].Image)

	assert.Equal(t, []string{events.ProductCreated, events.ProductCreated}, pub.types())
	assert.Equal(t, "4", pub.sent[0].Key)
	assert.Contains(t, idx.indexed, id)
	assert.Contains(t, idx.indexed, withImage)
}

func TestCatalog_CustomPlaceholder(t *testing.T) {
	svc := &CatalogService{Repo: newRepo(t), PlaceholderImage: "https://example.com/none.png"}
	ctx := context.Background()

	id, err := svc.CreateProduct(ctx, models.Product{Name: "x"})
	require.NoError(t, err)

	items, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, items[len(items)-1].ID)
	assert.Equal(t, "https://example.com/none.png", items[len(items)-1].Image)
}

func TestCatalog_UpdateAndDeleteMissingRowAreSilent(t *testing.T) {
	pub := &fakePublisher{}
	idx := newFakeIndex()
	svc := &CatalogService{Repo: newRepo(t), Events: pub, Index: idx}
	ctx := context.Background()

	require.NoError(t, svc.UpdateProduct(ctx, 404, models.Product{Name: "ghost"}))
	require.NoError(t, svc.DeleteProduct(ctx, 404))

	assert.Empty(t, pub.types())
	assert.Empty(t, idx.indexed)
	assert.Empty(t, idx.deleted)

	items, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestCatalog_UpdateAndDeleteSyncSideChannels(t *testing.T) {
	pub := &fakePublisher{}
	idx := newFakeIndex()
	svc := &CatalogService{Repo: newRepo(t), Events: pub, Index: idx}
	ctx := context.Background()

	require.NoError(t, svc.UpdateProduct(ctx, 2, models.Product{Name: "Dior Sauvage Elixir", Price: 15000}))
	assert.Equal(t, "Dior Sauvage Elixir", idx.indexed[2].Name)
	assert.Equal(t, 2, idx.indexed[2].ID)

	require.NoError(t, svc.DeleteProduct(ctx, 2))
	assert.Equal(t, []int{2}, idx.deleted)
	assert.Equal(t, []string{events.ProductUpdated, events.ProductDeleted}, pub.types())
}

func TestCatalog_IndexFailureIsNotSurfaced(t *testing.T) {
	idx := newFakeIndex()
	idx.err = errors.New("es down")
	svc := &CatalogService{Repo: newRepo(t), Index: idx}

	_, err := svc.CreateProduct(context.Background(), models.Product{Name: "x"})
	assert.NoError(t, err)
}

func TestCatalog_SearchUsesIndexWhenConfigured(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	fallback := &CatalogService{Repo: r}
	total, items, err := fallback.SearchProducts(ctx, "sauvage", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Dior Sauvage", items[0].Name)

	withIndex := &CatalogService{Repo: r, Index: newFakeIndex()}
	total, items, err = withIndex.SearchProducts(ctx, "sauvage", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 42, total)
	assert.Equal(t, 99, items[0].ID)
}

func TestCatalog_Reindex(t *testing.T) {
	idx := newFakeIndex()
	svc := &CatalogService{Repo: newRepo(t), Index: idx}
	require.NoError(t, svc.Reindex(context.Background()))
	assert.Len(t, idx.indexed, 3)

	assert.NoError(t, (&CatalogService{Repo: svc.Repo}).Reindex(context.Background()))
}
