package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "onghub/internal/core/context"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("secret", "onghub"))
	in := appctx.UserContext{UserID: 4, Email: "ana@ong.ro", Role: appctx.RoleAdmin, OrganizationID: 9}

	token, exp, err := svc.GenerateAccessToken(in)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	user, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, in, *user)
}

func TestJWTService_RejectsForeignIssuer(t *testing.T) {
	other := NewJWTService(DefaultJWTConfig("secret", "someone-else"))
	token, _, err := other.GenerateAccessToken(appctx.UserContext{UserID: 1, Role: appctx.RoleSuperAdmin})
	require.NoError(t, err)

	_, err = NewJWTService(DefaultJWTConfig("secret", "onghub")).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsOrgRoleWithoutOrganization(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("secret", "onghub"))
	token, _, err := svc.GenerateAccessToken(appctx.UserContext{UserID: 1, Role: appctx.RoleEmployee})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "onghub"},
		UserID:           1,
		Role:             appctx.RoleSuperAdmin,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService(DefaultJWTConfig("secret", "onghub")).ValidateToken(token)
	assert.Error(t, err)
}
