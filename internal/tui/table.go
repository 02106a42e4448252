package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Skotchmaster/parfum_shop/internal/models"
)

var productHeaders = []string{"ID", "Название", "Категория", "Производитель", "Цена", "Остаток", "Скидка"}

func productRow(p models.Product) []string {
	return []string{
		strconv.Itoa(p.ID),
		p.Name,
		p.Category,
		p.Manufacturer,
		strconv.FormatFloat(p.Price, 'f', -1, 64) + " ₽",
		strconv.Itoa(p.Stock) + " " + p.Unit,
		strconv.Itoa(p.Discount) + "%",
	}
}

// RenderProducts lays the catalog out as an aligned table. selected < 0 highlights nothing.
func RenderProducts(items []models.Product, selected int, styles Styles) string {
	rows := make([][]string, len(items))
	widths := make([]int, len(productHeaders))
	for i, h := range productHeaders {
		widths[i] = lipgloss.Width(h)
	}
	for i, p := range items {
		rows[i] = productRow(p)
		for j, cell := range rows[i] {
			widths[j] = max(widths[j], lipgloss.Width(cell))
		}
	}

	var sb strings.Builder
	sb.WriteString("  " + styles.Header.Render(joinCells(productHeaders, widths)))
	sb.WriteString("\n")
	for i, row := range rows {
		line := joinCells(row, widths)
		if i == selected {
			line = styles.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func joinCells(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c + strings.Repeat(" ", widths[i]-lipgloss.Width(c))
	}
	return strings.Join(parts, "  ")
}
