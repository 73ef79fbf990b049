package postgres

import (
	"errors"
	"net/http"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"onghub/internal/core/apperror"
	"onghub/internal/core/entity"
)

type sampleRow struct {
	entity.BaseEntity
	Name string `db:"name"`
}

func TestBaseRepo_SelectBuilder(t *testing.T) {
	repo := NewBaseRepo[sampleRow](nil, "sample")

	sql, args, err := repo.SelectBuilder().Where(squirrel.Eq{"id": 3}).ToSql()

	assert.NoError(t, err)
	assert.Equal(t, "SELECT name, id, created_on, updated_on, deleted_on FROM sample WHERE id = $1", sql)
	assert.Equal(t, []any{3}, args)
}

func TestMapWriteError(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "organization_general_cui_key"}
	err := MapWriteError(unique, "organization_general")

	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
	assert.Equal(t, "organization_general_cui_key", appErr.Details["constraint"])
	assert.True(t, errors.Is(err, unique))

	plain := MapWriteError(errors.New("boom"), "report")
	assert.False(t, apperror.IsAppError(plain))
	assert.EqualError(t, plain, "write report: boom")
}
