// Package user_repo queries platform users.
package user_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"onghub/internal/domain"
	"onghub/internal/domain/user"
	"onghub/internal/infrastructure/storage/postgres"
)

var _ user.Repository = (*Repo)(nil)

// Repo implements user.Repository.
type Repo struct {
	*postgres.BaseRepo[user.User]
}

// New creates the user store.
func New(txm *postgres.TxManager) *Repo {
	return &Repo{BaseRepo: postgres.NewBaseRepo[user.User](txm, "users")}
}

// EmailsByRole returns the addresses of ACTIVE users with role in organizationID.
func (r *Repo) EmailsByRole(ctx context.Context, organizationID int, role string) ([]string, error) {
	sql, args, err := postgres.Builder().
		Select("email").
		From(r.Table()).
		Where(squirrel.Eq{
			"organization_id": organizationID,
			"role":            role,
			"status":          user.StatusActive,
			"deleted_on":      nil,
		}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	emails := []string{}
	if err := pgxscan.Select(ctx, r.Querier(ctx), &emails, sql, args...); err != nil {
		return nil, fmt.Errorf("select user emails: %w", err)
	}
	return emails, nil
}

func countQuery(f user.CountFilter) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select("COUNT(*)").
		From("users u").
		Where(squirrel.Eq{"u.deleted_on": nil})
	if f.OrganizationID > 0 {
		q = q.Where(squirrel.Eq{"u.organization_id": f.OrganizationID})
	}
	if f.Role != "" {
		q = q.Where(squirrel.Eq{"u.role": f.Role})
	}
	if len(f.Statuses) > 0 {
		q = q.Where(squirrel.Eq{"u.status": f.Statuses})
	}
	if f.ActiveOrganizationsOnly {
		q = q.Join("organization o ON o.id = u.organization_id").
			Where(squirrel.Eq{"o.status": "ACTIVE"})
	}
	return q
}

// Count counts users matching f.
func (r *Repo) Count(ctx context.Context, f user.CountFilter) (int, error) {
	sql, args, err := countQuery(f).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	var n int
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// ListByOrganization pages the users of organizationID by name.
func (r *Repo) ListByOrganization(ctx context.Context, organizationID int, f domain.ListFilter) (domain.ListResult[user.User], error) {
	result := domain.ListResult[user.User]{Items: []user.User{}, Limit: f.Limit, Offset: f.Offset}

	where := squirrel.And{squirrel.Eq{"organization_id": organizationID, "deleted_on": nil}}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		where = append(where, squirrel.Or{squirrel.ILike{"name": pattern}, squirrel.ILike{"email": pattern}})
	}

	n, err := r.count(ctx, where)
	if err != nil {
		return result, err
	}
	result.TotalCount = n

	sql, args, err := r.SelectBuilder().
		Where(where).
		OrderBy("name", "id").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.Querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list users: %w", err)
	}
	return result, nil
}

func (r *Repo) count(ctx context.Context, where squirrel.Sqlizer) (int64, error) {
	sql, args, err := postgres.Builder().Select("COUNT(*)").From(r.Table()).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var n int64
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
