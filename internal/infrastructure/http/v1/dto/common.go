// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"onghub/internal/domain"
)

// ListQuery contains search, ordering and pagination parameters.
type ListQuery struct {
	Search  string `form:"search"`
	OrderBy string `form:"orderBy"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset  int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts the query to a normalized domain filter.
func (q ListQuery) ToFilter() domain.ListFilter {
	return domain.ListFilter{
		Search:  q.Search,
		OrderBy: q.OrderBy,
		Limit:   q.Limit,
		Offset:  q.Offset,
	}.Normalize()
}

// IDResponse is returned by endpoints that only report the affected id.
type IDResponse struct {
	ID int `json:"id"`
}

// SuccessResponse for operations that return success status.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// PeriodQuery selects a statistics window.
type PeriodQuery struct {
	Period string `form:"period" binding:"required,oneof=DAILY MONTHLY YEARLY"`
}
