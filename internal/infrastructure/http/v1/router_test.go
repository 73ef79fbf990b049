package v1

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	appctx "onghub/internal/core/context"
	"onghub/internal/infrastructure/storage/postgres"
	"onghub/pkg/logger"
)

type tokens map[string]*appctx.UserContext

func (t tokens) ValidateToken(token string) (*appctx.UserContext, error) {
	if u, ok := t[token]; ok {
		return u, nil
	}
	return nil, errors.New("unknown token")
}

type okDB struct{}

func (okDB) Ping(context.Context) error { return nil }
func (okDB) Stats() postgres.PoolStats { return postgres.PoolStats{} }

func testRouter() http.Handler {
	return NewRouter(RouterConfig{
		Logger: logger.Default(),
		JWTValidator: tokens{
			"super":    {UserID: 1, Role: appctx.RoleSuperAdmin},
			"admin":    {UserID: 2, Role: appctx.RoleAdmin, OrganizationID: 5},
			"employee": {UserID: 3, Role: appctx.RoleEmployee, OrganizationID: 5},
		},
		DB:          okDB{},
		CORSOrigins: []string{"https://app.onghub.ro"},
		Version:     "test",
	})
}

func request(r http.Handler, method, path, token string) int {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRouter_Access(t *testing.T) {
	r := testRouter()

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health is public", http.MethodGet, "/health/live", "", http.StatusOK},
		{"api needs a token", http.MethodGet, "/api/v1/organizations", "", http.StatusUnauthorized},
		{"unknown token", http.MethodGet, "/api/v1/organizations", "nope", http.StatusUnauthorized},
		{"admin cannot list organizations", http.MethodGet, "/api/v1/organizations", "admin", http.StatusForbidden},
		{"admin cannot read another organization", http.MethodGet, "/api/v1/organizations/6", "admin", http.StatusForbidden},
		{"admin cannot activate", http.MethodPatch, "/api/v1/organizations/5/activate", "admin", http.StatusForbidden},
		{"employee cannot update", http.MethodPatch, "/api/v1/organizations/5", "employee", http.StatusForbidden},
		{"employee cannot list users", http.MethodGet, "/api/v1/organization/users", "employee", http.StatusForbidden},
		{"hub statistics are super admin only", http.MethodGet, "/api/v1/statistics/hub", "admin", http.StatusForbidden},
		{"bad period", http.MethodGet, "/api/v1/statistics/requests?period=WEEKLY", "super", http.StatusBadRequest},
		{"approve needs super admin", http.MethodPatch, "/api/v1/application-requests/1/approve", "admin", http.StatusForbidden},
		{"malformed organization id", http.MethodGet, "/api/v1/organizations/x", "super", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, request(r, tt.method, tt.path, tt.token))
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/organizations", nil)
	req.Header.Set("Origin", "https://app.onghub.ro")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.onghub.ro", w.Header().Get("Access-Control-Allow-Origin"))
}
