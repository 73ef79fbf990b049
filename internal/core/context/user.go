// Package context provides request-scoped values extraction.
package context

import (
	"context"
	"slices"
)

// Roles known to the platform.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
	RoleEmployee   = "EMPLOYEE"
)

// UserContext contains authenticated user information.
type UserContext struct {
	UserID         int
	Email          string
	Role           string
	OrganizationID int // zero for SUPER_ADMIN
	SessionID      string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or zero.
func GetUserID(ctx context.Context) int {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return 0
}

// HasRole checks if user has one of the given roles.
func HasRole(ctx context.Context, roles ...string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	return slices.Contains(roles, u.Role)
}

// HasOrgAccess checks if user may act on the organization.
// Super admins see every organization.
func HasOrgAccess(ctx context.Context, orgID int) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	if u.Role == RoleSuperAdmin {
		return true
	}
	return u.OrganizationID == orgID
}
