package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/parfum_shop/internal/hash"
	"github.com/Skotchmaster/parfum_shop/internal/models"
)

func DemoProducts() []models.Product {
	return []models.Product{
		{
			Name:         "Chanel No. 5",
			Category:     "Женская парфюмерия",
			Description:  "Классический аромат, символ элегантности и женственности.",
			Manufacturer: "Chanel",
			Supplier:     "LVMH Distribution",
			Price:        12500,
			Unit:         "мл",
			Stock:        15,
			Discount:     10,
			Image:        "https://picsum.photos/seed/chanel/200/300",
		},
		{
			Name:         "Dior Sauvage",
			Category:     "Мужская парфюмерия",
			Description:  "Свежий, древесный аромат для уверенных в себе мужчин.",
			Manufacturer: "Dior",
			Supplier:     "LVMH Distribution",
			Price:        9800,
			Unit:         "мл",
			Stock:        24,
			Discount:     5,
			Image:        "https://picsum.photos/seed/dior/200/300",
		},
		{
			Name:         "Tom Ford Lost Cherry",
			Category:     "Унисекс",
			Description:  "Насыщенный восточный аромат с нотами спелой вишни.",
			Manufacturer: "Tom Ford",
			Supplier:     "Estée Lauder",
			Price:        25000,
			Unit:         "мл",
			Stock:        8,
			Discount:     0,
			Image:        "https://picsum.photos/seed/tomford/200/300",
		},
	}
}

func DemoUsers() []models.User {
	return []models.User{
		{Username: "admin", Password: "admin123", Role: models.RoleAdmin},
		{Username: "manager", Password: "manager123", Role: models.RoleManager},
		{Username: "user", Password: "user123", Role: models.RoleUser},
	}
}

type SeedResult struct {
	Products int
	Users    int
}

// Seed fills each table with demo rows only when that table is empty.
func (r *GormRepo) Seed(ctx context.Context, hashPasswords bool) (SeedResult, error) {
	var res SeedResult

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		products := DemoProducts()
		if err := tx.Create(&products).Error; err != nil {
			return err
		}
		res.Products = len(products)
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("seed products: %w", err)
	}

	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		users := DemoUsers()
		if hashPasswords {
			for i := range users {
				h, err := hash.HashPassword(users[i].Password)
				if err != nil {
					return err
				}
				users[i].Password = h
			}
		}
		if err := tx.Create(&users).Error; err != nil {
			return err
		}
		res.Users = len(users)
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("seed users: %w", err)
	}

	return res, nil
}
