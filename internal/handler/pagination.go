package handler

import (
	"strconv"

	"chronicles/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// PaginationMeta defines the structure for pagination metadata.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
	NextPage    int   `json:"next_page,omitempty"`
	PrevPage    int   `json:"prev_page,omitempty"`
}

// PaginatedResponse defines the structure for a paginated list of any type.
type PaginatedResponse[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPaginatedResponse converts a store page, mapping every item through convert.
func NewPaginatedResponse[M, T any](page *store.Page[M], convert func(M) T) PaginatedResponse[T] {
	data := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		data = append(data, convert(item))
	}
	return PaginatedResponse[T]{
		Data: data,
		Meta: PaginationMeta{
			TotalItems:  page.Total,
			TotalPages:  page.Pages(),
			CurrentPage: page.Page,
			PageSize:    page.PerPage,
			HasNext:     page.HasNext(),
			HasPrev:     page.HasPrev(),
			NextPage:    page.NextNum(),
			PrevPage:    page.PrevNum(),
		},
	}
}

// pageParam reads the 1-indexed page query parameter.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	return page
}
