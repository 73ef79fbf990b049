// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	appctx "onghub/internal/core/context"
	"onghub/internal/infrastructure/http/v1/handlers"
	"onghub/internal/infrastructure/http/v1/middleware"
)

// Role guards shared by the route groups.
var (
	superAdmin = middleware.RequireRole(appctx.RoleSuperAdmin)
	admins     = middleware.RequireRole(appctx.RoleSuperAdmin, appctx.RoleAdmin)
	anyRole    = middleware.RequireRole(appctx.RoleSuperAdmin, appctx.RoleAdmin, appctx.RoleEmployee)
)

// OrganizationScope bundles the handlers served for one organization.
type OrganizationScope struct {
	Organizations *handlers.OrganizationHandler
	Applications  *handlers.ApplicationHandler
	Users         *handlers.UserHandler
	Statistics    *handlers.StatisticsHandler
}

// RegisterOrganizationScope registers the routes acting on a single
// organization. scope resolves and guards the organization id: it is
// middleware.RequireOrgAccess under /organizations/:id and
// middleware.OwnOrganization under /organization.
//
// Usage:
//
//	RegisterOrganizationScope(v1.Group("/organizations/:id"), middleware.RequireOrgAccess(middleware.OrganizationParam), scope)
//	RegisterOrganizationScope(v1.Group("/organization"), middleware.OwnOrganization(middleware.OrganizationParam), scope)
func RegisterOrganizationScope(group *gin.RouterGroup, scope gin.HandlerFunc, h OrganizationScope) {
	group.Use(scope)

	group.GET("", anyRole, h.Organizations.Get)
	group.PATCH("", admins, h.Organizations.Update)

	group.PATCH("/partners/:itemId", admins, h.Organizations.UploadPartners)
	group.DELETE("/partners/:itemId", admins, h.Organizations.DeletePartner)
	group.PATCH("/investors/:itemId", admins, h.Organizations.UploadInvestors)
	group.DELETE("/investors/:itemId", admins, h.Organizations.DeleteInvestor)

	group.GET("/applications", anyRole, h.Applications.ListForOrganization)
	group.GET("/users", admins, h.Users.ListByOrganization)
	group.GET("/statistics", anyRole, h.Statistics.Organization)
}
