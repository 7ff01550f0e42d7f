package domain

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page (0-based).
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Bounds returns the [start, end) slice indexes of the page within total items.
// A page past the end yields an empty range.
func (p PaginationParams) Bounds(total int) (start, end int) {
	if p.PageSize <= 0 {
		return 0, total
	}
	// Compare before multiplying so a huge page cannot overflow Offset.
	if p.Page > 1 && p.Page-1 > total/p.PageSize {
		return total, total
	}
	start = p.Offset()
	if start > total {
		start = total
	}
	end = start + p.PageSize
	if end > total {
		end = total
	}
	return start, end
}
