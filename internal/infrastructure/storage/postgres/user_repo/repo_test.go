package user_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onghub/internal/domain/user"
)

func TestCountQuery_HubUsers(t *testing.T) {
	sql, args, err := countQuery(user.CountFilter{
		Statuses:                []user.Status{user.StatusActive, user.StatusRestricted},
		ActiveOrganizationsOnly: true,
	}).ToSql()

	require.NoError(t, err)
	assert.Equal(t,
		"SELECT COUNT(*) FROM users u JOIN organization o ON o.id = u.organization_id "+
			"WHERE u.deleted_on IS NULL AND u.status IN ($1,$2) AND o.status = $3",
		sql)
	assert.Equal(t, []any{user.StatusActive, user.StatusRestricted, "ACTIVE"}, args)
}

func TestCountQuery_Employees(t *testing.T) {
	sql, args, err := countQuery(user.CountFilter{OrganizationID: 4, Role: "EMPLOYEE"}).ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM users u WHERE u.deleted_on IS NULL AND u.organization_id = $1 AND u.role = $2", sql)
	assert.Equal(t, []any{4, "EMPLOYEE"}, args)
}
