// Package user reads the platform users attached to organizations. Accounts
// are managed by the identity provider; this package only queries them.
package user

import (
	"onghub/internal/core/entity"
)

// Status of a user account.
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusRestricted Status = "RESTRICTED"
	StatusDeleted    Status = "DELETED"
)

// User is a platform account.
type User struct {
	entity.BaseEntity

	Name           string `db:"name" json:"name"`
	Email          string `db:"email" json:"email"`
	Phone          string `db:"phone" json:"phone"`
	Role           string `db:"role" json:"role"`
	Status         Status `db:"status" json:"status"`
	OrganizationID *int   `db:"organization_id" json:"organizationId"`
}

// CountFilter narrows Count. Zero values mean "no restriction".
type CountFilter struct {
	OrganizationID int
	Role           string
	Statuses       []Status
	// ActiveOrganizationsOnly counts users whose organization is ACTIVE.
	ActiveOrganizationsOnly bool
}
