package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/parfum_shop/internal/config"
	pkgdb "github.com/Skotchmaster/parfum_shop/internal/db"
	"github.com/Skotchmaster/parfum_shop/internal/events"
	"github.com/Skotchmaster/parfum_shop/internal/httpserver"
	"github.com/Skotchmaster/parfum_shop/internal/logging"
	"github.com/Skotchmaster/parfum_shop/internal/repo"
	"github.com/Skotchmaster/parfum_shop/internal/search"
	"github.com/Skotchmaster/parfum_shop/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if cfg.EnforceRoles {
		config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	}
	if cfg.Production() {
		config.MustNonEmpty(cfg.StaticDir, "STATIC_DIR")
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg)
	if err == nil {
		err = pkgdb.EnsureSchema(ctx, db)
	}
	cancel()
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	gormRepo := repo.New(db)

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	seeded, err := gormRepo.Seed(ctx, cfg.HashSeedPasswords)
	if err != nil {
		cancel()
		log.Fatalf("seed: %v", err)
	}
	total, err := gormRepo.CountProducts(ctx)
	cancel()
	if err != nil {
		log.Fatalf("count products: %v", err)
	}
	logger.Info("seed_done", "products", seeded.Products, "users", seeded.Users, "catalog_size", total)

	producer := events.New(cfg.KafkaBrokers)

	catalog := &service.CatalogService{
		Repo:             gormRepo,
		Events:           producer,
		PlaceholderImage: cfg.PlaceholderImage,
	}
	if cfg.ESURL != "" {
		idx, err := search.NewESIndex(search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		catalog.Index = idx

		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		if err := catalog.Reindex(ctx); err != nil {
			logger.Error("reindex_failed", "error", err)
		}
		cancel()
	}

	auth := &service.AuthService{
		Repo:      gormRepo,
		Events:    producer,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
	}

	deps := &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: auth},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog},
		DB:             db,
		EnforceRoles:   cfg.EnforceRoles,
		JWTSecret:      cfg.JWTSecret,
	}
	if cfg.Production() {
		deps.StaticDir = cfg.StaticDir
	} else {
		deps.DevProxyURL = cfg.DevProxyURL
	}

	e := httpserver.NewEcho(logger)
	if err := httpserver.Register(e, deps); err != nil {
		log.Fatalf("routes: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("parfum listening on %s (%s)", srv.Addr, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if err := producer.Close(); err != nil {
		log.Printf("close producer: %v", err)
	}
	if err := pkgdb.Close(db); err != nil {
		log.Printf("close db: %v", err)
	}

	log.Println("parfum stopped")
}
