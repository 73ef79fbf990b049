package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"onghub/internal/core/apperror"
	appctx "onghub/internal/core/context"
	"onghub/internal/domain/application"
	"onghub/internal/infrastructure/http/v1/dto"
	"onghub/internal/infrastructure/http/v1/middleware"
)

// ApplicationHandler handles the application catalog, the applications of
// an organization and access requests.
type ApplicationHandler struct {
	*BaseHandler
	service *application.Service
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(base *BaseHandler, service *application.Service) *ApplicationHandler {
	return &ApplicationHandler{BaseHandler: base, service: service}
}

// List returns a page of the catalog.
// GET /applications
func (h *ApplicationHandler) List(c *gin.Context) {
	var q dto.ApplicationListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	result, err := h.service.FindAll(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Get returns one catalog entry.
// GET /applications/:appId
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "appId")
	if !ok {
		return
	}
	app, err := h.service.FindOne(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, app)
}

// Create adds a catalog entry with an optional "logo" file.
// POST /applications
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req dto.ApplicationRequest
	if !h.BindBody(c, &req) {
		return
	}
	var uploads Uploads
	defer uploads.Close()
	logo, ok := h.FormFile(c, &uploads, "logo")
	if !ok {
		return
	}

	app, err := h.service.Create(c.Request.Context(), req.ToInput(), logo)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, app)
}

// Update replaces a catalog entry.
// PATCH /applications/:appId
func (h *ApplicationHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "appId")
	if !ok {
		return
	}
	var req dto.ApplicationRequest
	if !h.BindBody(c, &req) {
		return
	}
	var uploads Uploads
	defer uploads.Close()
	logo, ok := h.FormFile(c, &uploads, "logo")
	if !ok {
		return
	}

	app, err := h.service.Update(c.Request.Context(), id, req.ToInput(), logo)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, app)
}

// ListForOrganization returns every active application with the access
// state of the organization.
// GET /organizations/:id/applications
func (h *ApplicationHandler) ListForOrganization(c *gin.Context) {
	orgID, ok := h.ParamID(c, middleware.OrganizationParam)
	if !ok {
		return
	}
	views, err := h.service.ListForOrganization(c.Request.Context(), orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, views)
}

// RestrictAccess blocks an assigned application for an organization.
// PATCH /organizations/:id/applications/:appId/restrict
func (h *ApplicationHandler) RestrictAccess(c *gin.Context) {
	h.setAccess(c, h.service.Restrict)
}

// RestoreAccess unblocks an assigned application.
// PATCH /organizations/:id/applications/:appId/restore
func (h *ApplicationHandler) RestoreAccess(c *gin.Context) {
	h.setAccess(c, h.service.Restore)
}

func (h *ApplicationHandler) setAccess(c *gin.Context, fn func(ctx context.Context, orgID, appID int) error) {
	orgID, ok := h.ParamID(c, middleware.OrganizationParam)
	if !ok {
		return
	}
	appID, ok := h.ParamID(c, "appId")
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), orgID, appID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// CreateRequest asks for access to an application.
// POST /application-requests
func (h *ApplicationHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateAccessRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user := h.User(c)
	orgID := user.OrganizationID
	if user.Role == appctx.RoleSuperAdmin {
		if req.OrganizationID == 0 {
			h.Error(c, apperror.NewValidation("organizationId is required").WithDetail("field", "organizationId"))
			return
		}
		orgID = req.OrganizationID
	}

	created, err := h.service.CreateRequest(c.Request.Context(), orgID, req.ApplicationID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// ListRequests returns a page of access requests.
// GET /application-requests
func (h *ApplicationHandler) ListRequests(c *gin.Context) {
	var q dto.AccessRequestListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	result, err := h.service.ListRequests(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Approve grants a pending request.
// PATCH /application-requests/:requestId/approve
func (h *ApplicationHandler) Approve(c *gin.Context) {
	h.resolve(c, h.service.Approve)
}

// Reject declines a pending request.
// PATCH /application-requests/:requestId/reject
func (h *ApplicationHandler) Reject(c *gin.Context) {
	h.resolve(c, h.service.Reject)
}

func (h *ApplicationHandler) resolve(c *gin.Context, fn func(context.Context, int) (*application.Request, error)) {
	id, ok := h.ParamID(c, "requestId")
	if !ok {
		return
	}
	req, err := fn(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, req)
}
