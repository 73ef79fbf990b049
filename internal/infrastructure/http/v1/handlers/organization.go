package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"onghub/internal/core/apperror"
	"onghub/internal/core/files"
	"onghub/internal/domain/organization"
	"onghub/internal/infrastructure/http/v1/dto"
	"onghub/internal/infrastructure/http/v1/middleware"
)

// OrganizationHandler handles HTTP requests for organizations.
type OrganizationHandler struct {
	*BaseHandler
	service *organization.Service
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(base *BaseHandler, service *organization.Service) *OrganizationHandler {
	return &OrganizationHandler{BaseHandler: base, service: service}
}

// List returns a page of organizations.
// GET /organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	var q dto.OrganizationListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	result, err := h.service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Create registers an organization. The body is JSON, or multipart with a
// "data" part plus optional "logo" and "statute" files.
// POST /organizations
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req dto.CreateOrganizationRequest
	if !h.BindBody(c, &req) {
		return
	}

	var uploads Uploads
	defer uploads.Close()
	logo, ok := h.FormFile(c, &uploads, "logo")
	if !ok {
		return
	}
	statute, ok := h.FormFile(c, &uploads, "statute")
	if !ok {
		return
	}

	org, err := h.service.Create(c.Request.Context(), req.ToInput(), logo, statute)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, org)
}

// ValidateGeneral reports unique general fields already in use.
// POST /organizations/validate
func (h *OrganizationHandler) ValidateGeneral(c *gin.Context) {
	var req dto.ValidateGeneralRequest
	if !h.BindJSON(c, &req) {
		return
	}
	taken, err := h.service.ValidateOrganizationGeneral(c.Request.Context(), req.ToProbe())
	if err != nil {
		h.Error(c, err)
		return
	}
	if len(taken) > 0 {
		h.Error(c, apperror.NewValidation("organization data already in use").WithDetail("errors", taken))
		return
	}
	h.OK(c, dto.SuccessResponse{Success: true})
}

// Get returns the full aggregate.
// GET /organizations/:id
func (h *OrganizationHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, middleware.OrganizationParam)
	if !ok {
		return
	}
	org, err := h.service.FindWithRelations(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, org)
}

// Update changes one section. Multipart requests may carry "logo" (general
// section) or "statute" (legal section).
// PATCH /organizations/:id
func (h *OrganizationHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, middleware.OrganizationParam)
	if !ok {
		return
	}
	var req dto.UpdateOrganizationRequest
	if !h.BindBody(c, &req) {
		return
	}
	update, ok := req.ToUpdate()
	if !ok {
		h.Error(c, apperror.NewValidation("exactly one section may be updated per request"))
		return
	}

	var uploads Uploads
	defer uploads.Close()
	logo, ok := h.FormFile(c, &uploads, "logo")
	if !ok {
		return
	}
	statute, ok := h.FormFile(c, &uploads, "statute")
	if !ok {
		return
	}

	result, err := h.service.Update(c.Request.Context(), id, update, logo, statute)
	if err != nil {
		h.Error(c, err)
		return
	}
	if result == nil {
		h.NoContent(c)
		return
	}
	h.OK(c, result)
}

// Activate moves a pending organization to ACTIVE.
// PATCH /organizations/:id/activate
func (h *OrganizationHandler) Activate(c *gin.Context) {
	h.transition(c, h.service.Activate)
}

// Restrict moves an active organization to RESTRICTED.
// PATCH /organizations/:id/restrict
func (h *OrganizationHandler) Restrict(c *gin.Context) {
	h.transition(c, h.service.Restrict)
}

// Restore moves a restricted organization back to ACTIVE.
// PATCH /organizations/:id/restore
func (h *OrganizationHandler) Restore(c *gin.Context) {
	h.transition(c, h.service.Restore)
}

func (h *OrganizationHandler) transition(c *gin.Context, fn func(context.Context, int) (*organization.Organization, error)) {
	id, ok := h.ParamID(c, middleware.OrganizationParam)
	if !ok {
		return
	}
	org, err := fn(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, org)
}

// Delete removes the organization and every owned row and file.
// DELETE /organizations/:id
func (h *OrganizationHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c, middleware.OrganizationParam)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// CreateReportingEntries adds the current reporting year rows.
// POST /organizations/:id/reporting-entries
func (h *OrganizationHandler) CreateReportingEntries(c *gin.Context) {
	id, ok := h.ParamID(c, middleware.OrganizationParam)
	if !ok {
		return
	}
	org, err := h.service.CreateNewReportingEntries(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, org)
}

// UploadPartners replaces the partner list of one year.
// PATCH /organizations/:id/partners/:itemId
func (h *OrganizationHandler) UploadPartners(c *gin.Context) {
	h.uploadList(c, h.service.UploadPartners)
}

// UploadInvestors replaces the investor list of one year.
// PATCH /organizations/:id/investors/:itemId
func (h *OrganizationHandler) UploadInvestors(c *gin.Context) {
	h.uploadList(c, h.service.UploadInvestors)
}

func (h *OrganizationHandler) uploadList(c *gin.Context, fn func(context.Context, int, int, int, []files.File) (*organization.ReportContainer, error)) {
	orgID, ok := h.ParamID(c, middleware.OrganizationParam)
	if !ok {
		return
	}
	itemID, ok := h.ParamID(c, "itemId")
	if !ok {
		return
	}
	var req dto.UploadListRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Error(c, apperror.NewValidation("invalid form").WithDetail("error", err.Error()))
		return
	}

	var uploads Uploads
	defer uploads.Close()
	list, ok := h.FormFiles(c, &uploads, "files")
	if !ok {
		return
	}

	container, err := fn(c.Request.Context(), orgID, itemID, req.Count, list)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, container)
}

// DeletePartner clears the partner list of one year.
// DELETE /organizations/:id/partners/:itemId
func (h *OrganizationHandler) DeletePartner(c *gin.Context) {
	h.deleteList(c, h.service.DeletePartner)
}

// DeleteInvestor clears the investor list of one year.
// DELETE /organizations/:id/investors/:itemId
func (h *OrganizationHandler) DeleteInvestor(c *gin.Context) {
	h.deleteList(c, h.service.DeleteInvestor)
}

func (h *OrganizationHandler) deleteList(c *gin.Context, fn func(context.Context, int, int) (*organization.ReportContainer, error)) {
	orgID, ok := h.ParamID(c, middleware.OrganizationParam)
	if !ok {
		return
	}
	itemID, ok := h.ParamID(c, "itemId")
	if !ok {
		return
	}
	container, err := fn(c.Request.Context(), orgID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, container)
}
