package models

import (
	"math"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination 分页响应信息
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NormalizePage 规范化分页参数
func NormalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	switch {
	case limit > MaxPageSize:
		limit = MaxPageSize
	case limit <= 0:
		limit = DefaultPageSize
	}
	return page, limit
}

// NewPagination 根据总数构建分页信息
func NewPagination(page, limit int, total int64) Pagination {
	page, limit = NormalizePage(page, limit)

	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}

	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}
