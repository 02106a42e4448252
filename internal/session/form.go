package session

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Skotchmaster/parfum_shop/internal/models"
	"github.com/Skotchmaster/parfum_shop/internal/transport"
)

const DefaultUnit = "мл"

// Form is the editable draft behind the add and edit views. Every field is raw text.
type Form struct {
	Name         string
	Category     string
	Description  string
	Manufacturer string
	Supplier     string
	Price        string
	Unit         string
	Stock        string
	Discount     string
	Image        string
}

func BlankForm() Form {
	return Form{Price: "0", Unit: DefaultUnit, Stock: "0", Discount: "0"}
}

func FormFrom(p models.Product) Form {
	return Form{
		Name:         p.Name,
		Category:     p.Category,
		Description:  p.Description,
		Manufacturer: p.Manufacturer,
		Supplier:     p.Supplier,
		Price:        strconv.FormatFloat(p.Price, 'f', -1, 64),
		Unit:         p.Unit,
		Stock:        strconv.Itoa(p.Stock),
		Discount:     strconv.Itoa(p.Discount),
		Image:        p.Image,
	}
}

// Request converts the draft. Numbers are read from the leading digits; none gives 0.
func (f Form) Request() transport.ProductRequest {
	return transport.ProductRequest{
		Name:         f.Name,
		Category:     f.Category,
		Description:  f.Description,
		Manufacturer: f.Manufacturer,
		Supplier:     f.Supplier,
		Price:        parseFloat(f.Price),
		Unit:         f.Unit,
		Stock:        parseInt(f.Stock),
		Discount:     parseInt(f.Discount),
		Image:        f.Image,
	}
}

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
)

// parseFloat reads the longest numeric prefix, so "12abc" is 12.
func parseFloat(s string) float64 {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return v
}
