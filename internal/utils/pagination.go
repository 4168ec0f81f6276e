// Package utils holds small helpers shared by the HTTP layer.
package utils

import "strconv"

// Page bounds.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// AtoiDefault parses s as an int, returning def when s is empty or invalid.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Window is a clamped page over a list of Total items; Items[Start:End] is
// the page.
type Window struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	Start      int  `json:"-"`
	End        int  `json:"-"`
}

// Paginate clamps page to >= 1 and pageSize to [1, MaxPageSize] and computes
// the slice bounds for a list of total items. Pages past the end are empty.
func Paginate(total, page, pageSize int) Window {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if total < 0 {
		total = 0
	}

	pages := (total + pageSize - 1) / pageSize

	// Compare page counts before multiplying so huge pages cannot overflow.
	start := total
	if page-1 < pages {
		start = (page - 1) * pageSize
	}
	end := min(start+pageSize, total)

	return Window{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: pages,
		HasNext:    end < total,
		Start:      start,
		End:        end,
	}
}
