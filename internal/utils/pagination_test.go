package utils

import (
	"math"
	"testing"
)

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		// empty -> default
		{"", 10, 10},
		// valid ints
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		// invalid -> default (no trim)
		{"x", 5, 5},
		{" 42", 7, 7},
		// overflow -> default
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestPaginate(t *testing.T) {
	cases := []struct {
		name                   string
		total, page, size      int
		start, end, pages      int
		hasNext                bool
		wantPage, wantPageSize int
	}{
		{"first page", 10, 1, 4, 0, 4, 3, true, 1, 4},
		{"last partial", 10, 3, 4, 8, 10, 3, false, 3, 4},
		{"past end", 10, 9, 4, 10, 10, 3, false, 9, 4},
		{"clamped page", 5, 0, 2, 0, 2, 3, true, 1, 2},
		{"clamped size low", 3, 1, 0, 0, 1, 3, true, 1, 1},
		{"clamped size high", 3, 1, MaxPageSize + 1, 0, 3, 1, false, 1, MaxPageSize},
		{"empty", 0, 1, 10, 0, 0, 0, false, 1, 10},
		{"huge page", 3, math.MaxInt, MaxPageSize, 3, 3, 1, false, math.MaxInt, MaxPageSize},
		{"huge page small size", 7, math.MaxInt / 2, 3, 7, 7, 3, false, math.MaxInt / 2, 3},
	}
	for _, tc := range cases {
		w := Paginate(tc.total, tc.page, tc.size)
		if w.Start != tc.start || w.End != tc.end || w.TotalPages != tc.pages || w.HasNext != tc.hasNext ||
			w.Page != tc.wantPage || w.PageSize != tc.wantPageSize || w.Total != tc.total {
			t.Errorf("%s: Paginate(%d,%d,%d) = %+v", tc.name, tc.total, tc.page, tc.size, w)
		}
	}
}
