package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/parfum_shop/internal/models"
)

// productColumns lists every mutable column so that updates overwrite zero values too.
var productColumns = []string{
	"name", "category", "description", "manufacturer", "supplier",
	"price", "unit", "stock", "discount", "image",
}

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	items := make([]models.Product, 0)
	if err := r.DB.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	prod.ID = 0
	return r.DB.WithContext(ctx).Create(prod).Error
}

// UpdateProduct overwrites all columns of the row with the given id and reports how many rows matched.
func (r *GormRepo) UpdateProduct(ctx context.Context, id int, prod models.Product) (int64, error) {
	prod.ID = 0
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Select(productColumns).
		Updates(&prod)
	return res.RowsAffected, res.Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id int) (int64, error) {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error
	return total, err
}

// SearchProducts matches q case-insensitively against name, description, manufacturer and category.
func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	needle := strings.ToLower(strings.TrimSpace(q))
	if r.DB.Dialector.Name() == "sqlite" {
		return r.searchFolded(ctx, needle, offset, limit)
	}

	pattern := "%" + needle + "%"
	where := "LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(manufacturer) LIKE ? OR LOWER(category) LIKE ?"

	var total int64
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where(where, pattern, pattern, pattern, pattern).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where(where, pattern, pattern, pattern, pattern).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

// searchFolded filters in Go: SQLite's LOWER() folds ASCII letters only, so Cyrillic
// text would never match a lowercased query.
func (r *GormRepo) searchFolded(ctx context.Context, needle string, offset, limit int) (int64, []models.Product, error) {
	var all []models.Product
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&all).Error; err != nil {
		return 0, nil, err
	}

	matched := make([]models.Product, 0, len(all))
	for _, p := range all {
		if productMatches(p, needle) {
			matched = append(matched, p)
		}
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return total, []models.Product{}, nil
	}
	end := min(offset+limit, len(matched))
	return total, matched[offset:end], nil
}

func productMatches(p models.Product, needle string) bool {
	for _, field := range []string{p.Name, p.Description, p.Manufacturer, p.Category} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
