package query

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/baharkarakas/finflow-backend/internal/models"
)

func TestPaginate(t *testing.T) {
	cases := []struct {
		name               string
		total, page, limit int
		skip, pages        int
	}{
		{"empty", 0, 1, 10, 0, 0},
		{"exact fit", 10, 1, 10, 0, 1},
		{"remainder", 12, 3, 5, 10, 3},
		{"past end", 12, 4, 5, 15, 3},
		{"limit one", 3, 2, 1, 1, 3},
		{"zero page defaults", 7, 0, 5, 0, 2},
		{"zero limit defaults", 25, 2, 0, 10, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			skip, pages := Paginate(tc.total, tc.page, tc.limit)
			assert.Equal(t, tc.skip, skip)
			assert.Equal(t, tc.pages, pages)
		})
	}
}

func TestPaginate_OffsetOverflow(t *testing.T) {
	skip, pages := Paginate(12, math.MaxInt, 10)
	assert.Equal(t, math.MaxInt, skip)
	assert.Equal(t, 2, pages)

	skip, pages = Paginate(12, 1, math.MaxInt)
	assert.Equal(t, 0, skip)
	assert.Equal(t, 1, pages)

	skip, _ = Paginate(12, 3, math.MaxInt)
	assert.Equal(t, math.MaxInt, skip)

	skip, pages = Paginate(math.MaxInt, 1, 2)
	assert.Equal(t, 0, skip)
	assert.Equal(t, math.MaxInt/2+1, pages)
}

func TestWindow_HugeBounds(t *testing.T) {
	all := sample()
	assert.Empty(t, Window(all, math.MaxInt, 10))
	assert.Equal(t, []string{"2", "3", "4", "5", "6", "7", "8"}, ids(Window(all, 1, math.MaxInt)))
}

func TestWindow(t *testing.T) {
	all := sample()

	assert.Equal(t, []string{"1", "2", "3"}, ids(Window(all, 0, 3)))
	assert.Equal(t, []string{"7", "8"}, ids(Window(all, 6, 5)))
	assert.Len(t, Window(all, 2, 0), 6)

	out := Window(all, 50, 5)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	got := Window(all, 0, 2)
	got[0].ID = "changed"
	assert.Equal(t, "1", all[0].ID, "window must copy")
}

func TestWindow_PagesPartitionTheResult(t *testing.T) {
	all := sample()
	limit := 3
	_, pages := Paginate(len(all), 1, limit)

	var seen []string
	for p := 1; p <= pages; p++ {
		skip, _ := Paginate(len(all), p, limit)
		seen = append(seen, ids(Window(all, skip, limit))...)
	}
	assert.Equal(t, ids(all), seen)
}

func TestSortByDateDesc_StableOnTies(t *testing.T) {
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		{ID: "a", Date: day},
		{ID: "b", Date: day.Add(time.Hour)},
		{ID: "c", Date: day},
		{ID: "d", Date: day.Add(-time.Hour)},
		{ID: "e", Date: day},
	}
	SortByDateDesc(txs)
	assert.Equal(t, []string{"b", "a", "c", "e", "d"}, ids(txs))
}
