package application_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onghub/internal/domain"
	"onghub/internal/domain/application"
	"onghub/internal/infrastructure/storage/postgres"
)

func TestListWhere(t *testing.T) {
	where := listWhere(application.ListFilter{
		ListFilter: domain.ListFilter{Search: "vot"},
		Type:       application.TypeSimple,
	})

	sql, args, err := postgres.Builder().Select("id").From("application").Where(where).ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM application WHERE (deleted_on IS NULL AND name ILIKE $1 AND type = $2)", sql)
	assert.Equal(t, []any{"%vot%", application.TypeSimple}, args)
}

func TestAccessibleQuery(t *testing.T) {
	sql, _, err := accessibleQuery(3, 0)
	require.NoError(t, err)
	assert.NotContains(t, sql, "user_organization_application")

	sql, args, err := accessibleQuery(3, 11)
	require.NoError(t, err)
	assert.Contains(t, sql, "JOIN user_organization_application uoa ON uoa.organization_application_id = oa.id")
	assert.Equal(t, 11, args[len(args)-1])
}
