package dto

import (
	"onghub/internal/domain/application"
)

// ApplicationRequest creates or updates a catalog entry.
type ApplicationRequest struct {
	Name             string  `json:"name" binding:"required,max=100"`
	Type             string  `json:"type" binding:"required,app_type"`
	Status           string  `json:"status" binding:"omitempty,oneof=ACTIVE DISABLED"`
	ShortDescription string  `json:"shortDescription" binding:"required,max=160"`
	Description      string  `json:"description" binding:"required,max=2000"`
	Website          string  `json:"website" binding:"required,url"`
	LoginLink        *string `json:"loginLink" binding:"omitempty,url"`
	VideoLink        *string `json:"videoLink" binding:"omitempty,url"`
}

// ToInput maps the request to the domain input.
func (r ApplicationRequest) ToInput() application.Input {
	return application.Input{
		Name:             r.Name,
		Type:             application.Type(r.Type),
		Status:           application.Status(r.Status),
		ShortDescription: r.ShortDescription,
		Description:      r.Description,
		Website:          r.Website,
		LoginLink:        r.LoginLink,
		VideoLink:        r.VideoLink,
	}
}

// ApplicationListQuery filters the catalog.
type ApplicationListQuery struct {
	ListQuery
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE DISABLED"`
	Type   string `form:"type" binding:"omitempty,app_type"`
}

// ToFilter converts the query to a domain filter.
func (q ApplicationListQuery) ToFilter() application.ListFilter {
	return application.ListFilter{
		ListFilter: q.ListQuery.ToFilter(),
		Status:     application.Status(q.Status),
		Type:       application.Type(q.Type),
	}
}

// CreateAccessRequest asks for access to an application. OrganizationID is
// only read for super admins; other callers act for their own organization.
type CreateAccessRequest struct {
	ApplicationID  int `json:"applicationId" binding:"required,min=1"`
	OrganizationID int `json:"organizationId" binding:"omitempty,min=1"`
}

// AccessRequestListQuery filters access requests.
type AccessRequestListQuery struct {
	ListQuery
	Status string `form:"status" binding:"omitempty,oneof=PENDING APPROVED DECLINED"`
}

// ToFilter converts the query to a domain filter.
func (q AccessRequestListQuery) ToFilter() application.RequestFilter {
	return application.RequestFilter{
		ListFilter: q.ListQuery.ToFilter(),
		Status:     application.RequestStatus(q.Status),
	}
}
