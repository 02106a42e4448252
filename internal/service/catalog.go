package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/parfum_shop/internal/config"
	"github.com/Skotchmaster/parfum_shop/internal/events"
	"github.com/Skotchmaster/parfum_shop/internal/logging"
	"github.com/Skotchmaster/parfum_shop/internal/models"
	"github.com/Skotchmaster/parfum_shop/internal/repo"
	"github.com/Skotchmaster/parfum_shop/internal/search"
)

type CatalogService struct {
	Repo             *repo.GormRepo
	Events           events.Publisher
	Index            search.Index
	PlaceholderImage string
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

// CreateProduct stores p, substituting the placeholder image when none is given, and returns the new id.
func (s *CatalogService) CreateProduct(ctx context.Context, p models.Product) (int, error) {
	if p.Image == "" {
		p.Image = s.placeholder()
	}
	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		return 0, err
	}

	s.publish(ctx, events.ProductCreated, p.ID, map[string]any{"productID": p.ID, "name": p.Name})
	s.index(ctx, p)
	return p.ID, nil
}

// UpdateProduct overwrites every field of product id. A missing row is not an error.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int, p models.Product) error {
	n, err := s.Repo.UpdateProduct(ctx, id, p)
	if err != nil {
		return err
	}
	if n == 0 {
		logging.FromContext(ctx).Debug("update_no_rows", "productID", id)
		return nil
	}

	p.ID = id
	s.publish(ctx, events.ProductUpdated, id, map[string]any{"productID": id, "name": p.Name})
	s.index(ctx, p)
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int) error {
	n, err := s.Repo.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		logging.FromContext(ctx).Debug("delete_no_rows", "productID", id)
		return nil
	}

	s.publish(ctx, events.ProductDeleted, id, map[string]any{"productID": id})
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Error("unindex_failed", "productID", id, "error", err)
		}
	}
	return nil
}

// SearchProducts queries the search index when one is configured and the store otherwise.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	if s.Index != nil {
		return s.Index.Search(ctx, q, offset, limit)
	}
	return s.Repo.SearchProducts(ctx, q, offset, limit)
}

// Reindex copies the whole catalog into the search index.
func (s *CatalogService) Reindex(ctx context.Context) error {
	if s.Index == nil {
		return nil
	}
	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return err
	}
	return search.Reindex(ctx, s.Index, items)
}

func (s *CatalogService) placeholder() string {
	if s.PlaceholderImage == "" {
		return config.DefaultPlaceholderImage
	}
	return s.PlaceholderImage
}

func (s *CatalogService) publish(ctx context.Context, typ string, id int, fields map[string]any) {
	if s.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.Events.PublishEvent(ctx, events.TopicProducts, strconv.Itoa(id), events.NewEvent(typ, fields)); err != nil {
		logging.FromContext(ctx).Error("publish_failed", "topic", events.TopicProducts, "type", typ, "error", err)
	}
}

func (s *CatalogService) index(ctx context.Context, p models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("index_failed", "productID", p.ID, "error", err)
	}
}
