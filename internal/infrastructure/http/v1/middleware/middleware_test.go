package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onghub/internal/core/apperror"
	appctx "onghub/internal/core/context"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator struct {
	user *appctx.UserContext
}

func (v stubValidator) ValidateToken(token string) (*appctx.UserContext, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return v.user, nil
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(mw...)
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuth(t *testing.T) {
	admin := &appctx.UserContext{UserID: 3, Role: appctx.RoleAdmin, OrganizationID: 9}
	r := newEngine(Auth(stubValidator{user: admin}))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": appctx.GetUserID(c.Request.Context())})
	})

	t.Run("missing header", func(t *testing.T) {
		w := do(r, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperror.CodeUnauthorized, decode(t, w)["code"])
	})

	t.Run("invalid token", func(t *testing.T) {
		w := do(r, "/me", "bad")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := do(r, "/me", "good")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(3), decode(t, w)["id"])
	})
}

func TestRequireRole(t *testing.T) {
	employee := &appctx.UserContext{UserID: 4, Role: appctx.RoleEmployee, OrganizationID: 9}
	r := newEngine(Auth(stubValidator{user: employee}))
	r.GET("/admin", RequireRole(appctx.RoleSuperAdmin, appctx.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/any", RequireRole(appctx.RoleEmployee), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", "good").Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/any", "good").Code)
}

func TestRequireOrgAccess(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	t.Run("admin of another organization", func(t *testing.T) {
		r := newEngine(Auth(stubValidator{user: &appctx.UserContext{UserID: 1, Role: appctx.RoleAdmin, OrganizationID: 9}}))
		r.GET("/organizations/:id", RequireOrgAccess(OrganizationParam), ok)

		assert.Equal(t, http.StatusNoContent, do(r, "/organizations/9", "good").Code)
		assert.Equal(t, http.StatusForbidden, do(r, "/organizations/10", "good").Code)
		assert.Equal(t, http.StatusBadRequest, do(r, "/organizations/abc", "good").Code)
	})

	t.Run("super admin", func(t *testing.T) {
		r := newEngine(Auth(stubValidator{user: &appctx.UserContext{UserID: 1, Role: appctx.RoleSuperAdmin}}))
		r.GET("/organizations/:id", RequireOrgAccess(OrganizationParam), ok)

		assert.Equal(t, http.StatusNoContent, do(r, "/organizations/10", "good").Code)
	})
}

func TestOwnOrganization(t *testing.T) {
	r := newEngine(Auth(stubValidator{user: &appctx.UserContext{UserID: 1, Role: appctx.RoleAdmin, OrganizationID: 42}}))
	r.GET("/organization", OwnOrganization(OrganizationParam), func(c *gin.Context) {
		c.String(http.StatusOK, c.Param(OrganizationParam))
	})

	w := do(r, "/organization", "good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())
}

func TestErrorHandler(t *testing.T) {
	r := newEngine()
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperror.NewBadRequest("ORG001", "Organization not found"))
	})
	r.GET("/raw", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})

	w := do(r, "/app", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ORG001", decode(t, w)["code"])

	w = do(r, "/raw", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, decode(t, w)["code"])
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRecovery(t *testing.T) {
	r := newEngine(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := do(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTrace(t *testing.T) {
	r := newEngine(Trace())
	r.GET("/t", func(c *gin.Context) {
		c.String(http.StatusOK, appctx.GetRequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Body.String())
	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(HeaderTraceID))
}
