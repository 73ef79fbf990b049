package handlers

import (
	"github.com/gin-gonic/gin"

	"onghub/internal/domain/user"
	"onghub/internal/infrastructure/http/v1/dto"
	"onghub/internal/infrastructure/http/v1/middleware"
)

// UserHandler lists the users of an organization.
type UserHandler struct {
	*BaseHandler
	service *user.Service
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(base *BaseHandler, service *user.Service) *UserHandler {
	return &UserHandler{BaseHandler: base, service: service}
}

// ListByOrganization returns a page of users.
// GET /organizations/:id/users
func (h *UserHandler) ListByOrganization(c *gin.Context) {
	orgID, ok := h.ParamID(c, middleware.OrganizationParam)
	if !ok {
		return
	}
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	result, err := h.service.ListByOrganization(c.Request.Context(), orgID, q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
