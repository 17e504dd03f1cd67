package bot

import (
	"fmt"

	"github.com/crypted-pay/crypted-pay/internal/models"
)

// Paginate windows a button listing into one page. Each listed button becomes
// its own row; when the listing does not fit on one page a single pagination
// row is appended. The page-selector row is compressed to first + up to three
// interior pages + last once there are more than five pages.
func Paginate(buttons []models.Button, page, perPage int, trigger string) [][]models.Button {
	if perPage <= 0 || len(buttons) <= perPage {
		return toRows(buttons)
	}

	totalPages := (len(buttons) + perPage - 1) / perPage
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(buttons) {
		end = len(buttons)
	}

	rows := toRows(buttons[start:end])
	return append(rows, pageRow(totalPages, page, trigger))
}

func toRows(buttons []models.Button) [][]models.Button {
	rows := make([][]models.Button, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []models.Button{b})
	}
	return rows
}

func pageButton(n, current int, trigger string) models.Button {
	label := fmt.Sprintf("%d", n)
	if n == current {
		label = fmt.Sprintf("·%d·", n)
	}
	return models.Button{
		Label:   label,
		Payload: fmt.Sprintf("%s|%d", trigger, n),
	}
}

func pageRow(totalPages, page int, trigger string) []models.Button {
	if totalPages <= 5 {
		row := make([]models.Button, 0, totalPages)
		for n := 1; n <= totalPages; n++ {
			row = append(row, pageButton(n, page, trigger))
		}
		return row
	}

	first := pageButton(1, page, trigger)
	last := pageButton(totalPages, page, trigger)

	overflow := (totalPages - page) > 2
	if overflow {
		last.Label = fmt.Sprintf("%d »", totalPages)
	}

	var interior []models.Button
	switch {
	case page < 4:
		for n := 2; n <= 4; n++ {
			interior = append(interior, pageButton(n, page, trigger))
		}
	case page > totalPages-3:
		for n := totalPages - 3; n <= totalPages-1; n++ {
			interior = append(interior, pageButton(n, page, trigger))
		}
		interior[0].Label = "‹ " + interior[0].Label
		first.Label = "« " + first.Label
	default:
		for n := page - 1; n <= page+1; n++ {
			interior = append(interior, pageButton(n, page, trigger))
		}
	}

	if overflow {
		interior[len(interior)-1].Label += " ›"
	}

	row := make([]models.Button, 0, len(interior)+2)
	row = append(row, first)
	row = append(row, interior...)
	row = append(row, last)
	return row
}
