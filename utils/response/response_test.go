package response

import "testing"

func TestCalculatePagination(t *testing.T) {
	cases := []struct {
		page, limit    int
		total          int64
		wantPage       int
		wantPerPage    int
		wantTotalPages int
	}{
		{1, 10, 95, 1, 10, 10},
		{2, 10, 100, 2, 10, 10},
		{1, 10, 0, 1, 10, 0},
		{0, 0, 5, 1, 10, 1},      // defaults kick in
		{1, 500, 250, 1, 100, 3}, // limit capped at 100
	}

	for _, c := range cases {
		meta := CalculatePagination(c.page, c.limit, c.total)
		if meta.CurrentPage != c.wantPage || meta.PerPage != c.wantPerPage || meta.TotalPages != c.wantTotalPages {
			t.Errorf("CalculatePagination(%d, %d, %d) = %+v, want page %d perPage %d totalPages %d",
				c.page, c.limit, c.total, meta, c.wantPage, c.wantPerPage, c.wantTotalPages)
		}
		if meta.Total != c.total {
			t.Errorf("Total = %d, want %d", meta.Total, c.total)
		}
	}
}
