package bot

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crypted-pay/crypted-pay/internal/models"
)

func listButtons(n int) []models.Button {
	buttons := make([]models.Button, 0, n)
	for i := 1; i <= n; i++ {
		buttons = append(buttons, models.Button{
			Label:   fmt.Sprintf("item %d", i),
			Payload: fmt.Sprintf("code-%d", i),
		})
	}
	return buttons
}

func labels(row []models.Button) []string {
	out := make([]string, 0, len(row))
	for _, b := range row {
		out = append(out, b.Label)
	}
	return out
}

func TestPaginateSinglePageUnchanged(t *testing.T) {
	rows := Paginate(listButtons(5), 1, 5, "check")
	require.Len(t, rows, 5)
	for _, row := range rows {
		assert.Len(t, row, 1)
	}
}

func TestPaginateUncompressedSelector(t *testing.T) {
	// 23 items at 5 per page is exactly 5 pages, the compression threshold.
	rows := Paginate(listButtons(23), 2, 5, "check")
	require.Len(t, rows, 6)

	selector := rows[5]
	assert.Equal(t, []string{"1", "·2·", "3", "4", "5"}, labels(selector))
	assert.Equal(t, "check|1", selector[0].Payload)
	assert.Equal(t, "check|5", selector[4].Payload)
}

func TestPaginateWindowsListing(t *testing.T) {
	rows := Paginate(listButtons(23), 5, 5, "check")
	require.Len(t, rows, 4)
	assert.Equal(t, "item 21", rows[0][0].Label)
	assert.Equal(t, "item 23", rows[2][0].Label)
}

func TestPaginateCompressedFirstPages(t *testing.T) {
	rows := Paginate(listButtons(60), 1, 5, "check")
	selector := rows[len(rows)-1]
	assert.Equal(t, []string{"·1·", "2", "3", "4 ›", "12 »"}, labels(selector))
	assert.Equal(t, "check|12", selector[4].Payload)
}

func TestPaginateCompressedCentered(t *testing.T) {
	rows := Paginate(listButtons(60), 6, 5, "check")
	selector := rows[len(rows)-1]
	assert.Equal(t, []string{"1", "5", "·6·", "7 ›", "12 »"}, labels(selector))
}

func TestPaginateCompressedTail(t *testing.T) {
	rows := Paginate(listButtons(60), 12, 5, "check")
	selector := rows[len(rows)-1]
	assert.Equal(t, []string{"« 1", "‹ 9", "10", "11", "·12·"}, labels(selector))
}

func TestPaginateCompressedNearTail(t *testing.T) {
	// Page 10 of 12: tail window, but still two pages of overflow ahead.
	rows := Paginate(listButtons(60), 10, 5, "check")
	selector := rows[len(rows)-1]
	assert.Equal(t, []string{"« 1", "‹ 9", "·10·", "11", "12"}, labels(selector))
}

func TestPaginateClampsPage(t *testing.T) {
	rows := Paginate(listButtons(23), 99, 5, "check")
	assert.Equal(t, "item 21", rows[0][0].Label)

	rows = Paginate(listButtons(23), 0, 5, "check")
	assert.Equal(t, "item 1", rows[0][0].Label)
}
