// Package application manages the catalog of applications offered to
// organizations and the requests organizations make to use them.
package application

import (
	"onghub/internal/core/entity"
	"onghub/internal/domain"
)

// Type tells how an application is reached.
type Type string

const (
	TypeIndependent Type = "INDEPENDENT"
	TypeSimple      Type = "SIMPLE"
	TypeStandalone  Type = "STANDALONE"
)

// Status of a catalog entry.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusDisabled Status = "DISABLED"
)

// RequestStatus of an access request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestDeclined RequestStatus = "DECLINED"
)

// AccessStatus of an application assigned to an organization.
type AccessStatus string

const (
	AccessActive     AccessStatus = "ACTIVE"
	AccessRestricted AccessStatus = "RESTRICTED"
)

// Application is a catalog entry.
type Application struct {
	entity.BaseEntity

	Name             string  `db:"name" json:"name"`
	Type             Type    `db:"type" json:"type"`
	Status           Status  `db:"status" json:"status"`
	ShortDescription string  `db:"short_description" json:"shortDescription"`
	Description      string  `db:"description" json:"description"`
	Website          string  `db:"website" json:"website"`
	LoginLink        *string `db:"login_link" json:"loginLink"`
	VideoLink        *string `db:"video_link" json:"videoLink"`
	Logo             *string `db:"logo" json:"logo"`
}

// Request is an organization asking for access to an application.
type Request struct {
	entity.BaseEntity

	OrganizationID int           `db:"organization_id" json:"organizationId"`
	ApplicationID  int           `db:"application_id" json:"applicationId"`
	Status         RequestStatus `db:"status" json:"status"`
}

// Access is an application assigned to an organization.
type Access struct {
	entity.BaseEntity

	OrganizationID int          `db:"organization_id" json:"organizationId"`
	ApplicationID  int          `db:"application_id" json:"applicationId"`
	Status         AccessStatus `db:"status" json:"status"`
}

// OrganizationView is one application as seen by an organization.
type OrganizationView struct {
	ID            int            `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Type          Type           `db:"type" json:"type"`
	Logo          *string        `db:"logo" json:"logo"`
	LoginLink     *string        `db:"login_link" json:"loginLink"`
	AccessStatus  *AccessStatus  `db:"access_status" json:"status"`
	RequestStatus *RequestStatus `db:"request_status" json:"requestStatus"`
}

// ListFilter narrows the catalog list.
type ListFilter struct {
	domain.ListFilter
	Status Status
	Type   Type
}

// RequestFilter narrows the request list.
type RequestFilter struct {
	domain.ListFilter
	Status RequestStatus
}
