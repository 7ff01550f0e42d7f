package helpers

import (
	"net/http"
	"strconv"

	"eventpass/internal/domain"
)

// Admin list paging defaults and limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// QueryInt reads an integer query parameter. Missing, malformed, or below-min values yield def;
// values above max are clamped to max unless max is 0.
func QueryInt(r *http.Request, name string, def, min, max int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < min {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

// ParsePagination reads page and page_size for the admin registration list.
func ParsePagination(r *http.Request) domain.PaginationParams {
	return domain.PaginationParams{
		Page:     QueryInt(r, "page", DefaultPage, 1, 0),
		PageSize: QueryInt(r, "page_size", DefaultPageSize, 1, MaxPageSize),
	}
}

// PaginationMeta describes the page returned in a list response.
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta rounds TotalPages up; a zero page size yields zero pages.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	meta := PaginationMeta{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		meta.TotalPages = (total + pageSize - 1) / pageSize
	}
	return meta
}
