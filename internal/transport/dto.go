package transport

import "github.com/Skotchmaster/parfum_shop/internal/models"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Username string      `json:"username,omitempty"`
	Role     models.Role `json:"role"`
	Token    string      `json:"token,omitempty"`
}

// ProductRequest is the body of both create and update; absent fields arrive as zero values.
type ProductRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Manufacturer string  `json:"manufacturer"`
	Supplier     string  `json:"supplier"`
	Price        float64 `json:"price"`
	Unit         string  `json:"unit"`
	Stock        int     `json:"stock"`
	Discount     int     `json:"discount"`
	Image        string  `json:"image"`
}

func (r ProductRequest) Product() models.Product {
	return models.Product{
		Name:         r.Name,
		Category:     r.Category,
		Description:  r.Description,
		Manufacturer: r.Manufacturer,
		Supplier:     r.Supplier,
		Price:        r.Price,
		Unit:         r.Unit,
		Stock:        r.Stock,
		Discount:     r.Discount,
		Image:        r.Image,
	}
}

type CreatedResponse struct {
	ID int `json:"id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type SearchResponse struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
