package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"onghub/internal/core/apperror"
	appctx "onghub/internal/core/context"
	"onghub/internal/core/files"
)

// maxMultipartMemory bounds the form parts kept in memory.
const maxMultipartMemory = 32 << 20

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindBody binds a JSON body, or the JSON document in the "data" part of a
// multipart form so that files can travel with it.
func (h *BaseHandler) BindBody(c *gin.Context, obj any) bool {
	if !isMultipart(c) {
		return h.BindJSON(c, obj)
	}
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.Error(c, apperror.NewValidation("invalid multipart form").WithDetail("error", err.Error()))
		return false
	}
	raw := c.PostForm("data")
	if raw == "" {
		h.Error(c, apperror.NewValidation("missing data part"))
		return false
	}
	if err := json.Unmarshal([]byte(raw), obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// Error processes error and sends appropriate response.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	h.HandleError(c, err)
}

// HandleError registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParamID parses a positive integer path parameter.
func (h *BaseHandler) ParamID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		h.Error(c, apperror.NewValidation("invalid "+name).WithDetail("value", c.Param(name)))
		return 0, false
	}
	return id, true
}

// User returns the authenticated caller. Routes behind middleware.Auth
// always have one.
func (h *BaseHandler) User(c *gin.Context) *appctx.UserContext {
	return appctx.GetUser(c.Request.Context())
}

// Uploads keeps opened form files until the handler is done with them.
type Uploads struct {
	open []io.Closer
}

// Close closes every opened file.
func (u *Uploads) Close() {
	for _, f := range u.open {
		_ = f.Close()
	}
	u.open = nil
}

func (u *Uploads) add(fh *multipart.FileHeader) (files.File, error) {
	f, err := fh.Open()
	if err != nil {
		return files.File{}, err
	}
	u.open = append(u.open, f)
	return files.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      f,
	}, nil
}

// FormFile opens the single file sent under field. It returns nil when the
// field is absent.
func (h *BaseHandler) FormFile(c *gin.Context, u *Uploads, field string) (*files.File, bool) {
	if !isMultipart(c) {
		return nil, true
	}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		h.Error(c, apperror.NewValidation("invalid file").WithDetail("field", field))
		return nil, false
	}
	f, err := u.add(fh)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return nil, false
	}
	return &f, true
}

// FormFiles opens every file sent under field.
func (h *BaseHandler) FormFiles(c *gin.Context, u *Uploads, field string) ([]files.File, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid multipart form").WithDetail("error", err.Error()))
		return nil, false
	}
	headers := form.File[field]
	out := make([]files.File, 0, len(headers))
	for _, fh := range headers {
		f, err := u.add(fh)
		if err != nil {
			h.Error(c, apperror.NewInternal(err))
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
