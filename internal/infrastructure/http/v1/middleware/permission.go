// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"onghub/internal/core/apperror"
	appctx "onghub/internal/core/context"
)

// OrganizationParam is the path parameter carrying an organization id.
const OrganizationParam = "id"

// RequireOrgAccess rejects callers that may not act on the organization
// named by the path parameter. Super admins pass for any organization.
// A missing or malformed id is a validation error.
func RequireOrgAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if appctx.GetUser(ctx) == nil {
			abortUnauthorized(c, "authentication required")
			return
		}

		orgID, err := strconv.Atoi(c.Param(param))
		if err != nil || orgID <= 0 {
			_ = c.Error(apperror.NewValidation("invalid organization id").WithDetail("param", param))
			c.Abort()
			return
		}

		if !appctx.HasOrgAccess(ctx, orgID) {
			_ = c.Error(
				apperror.NewForbidden("no access to organization").
					WithDetail("organization_id", orgID),
			)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OwnOrganization rewrites the organization path parameter to the caller's
// organization. Routes such as /organization/profile use it so that admins
// and employees never name their organization explicitly.
func OwnOrganization(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			abortUnauthorized(c, "authentication required")
			return
		}
		if user.OrganizationID == 0 {
			_ = c.Error(apperror.NewForbidden("caller has no organization"))
			c.Abort()
			return
		}

		id := strconv.Itoa(user.OrganizationID)
		for i, p := range c.Params {
			if p.Key == param {
				c.Params[i].Value = id
				c.Next()
				return
			}
		}
		c.Params = append(c.Params, gin.Param{Key: param, Value: id})
		c.Next()
	}
}
