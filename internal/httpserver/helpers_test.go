package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/parfum_shop/internal/db"
	"github.com/Skotchmaster/parfum_shop/internal/models"
	"github.com/Skotchmaster/parfum_shop/internal/repo"
	"github.com/Skotchmaster/parfum_shop/internal/service"
)

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _, _ string, event map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, event["type"].(string))
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type testServer struct {
	e   *echo.Echo
	db  *gorm.DB
	pub *recordingPublisher
}

func newTestServer(t *testing.T, mutate func(*Deps)) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := pkgdb.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, pkgdb.EnsureSchema(ctx, db))
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	r := repo.New(db)
	_, err = r.Seed(ctx, false)
	require.NoError(t, err)

	pub := &recordingPublisher{}
	deps := &Deps{
		AuthHandler:    &AuthHTTP{Svc: &service.AuthService{Repo: r, Events: pub}},
		CatalogHandler: &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Events: pub}},
		DB:             db,
	}
	if mutate != nil {
		mutate(deps)
	}

	e := NewEcho(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, Register(e, deps))

	return &testServer{e: e, db: db, pub: pub}
}

func (s *testServer) do(t *testing.T, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) products(t *testing.T) []models.Product {
	t.Helper()
	rec := s.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	return items
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
