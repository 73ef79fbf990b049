// Package application_repo stores the application catalog, access requests
// and organization assignments.
package application_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"onghub/internal/core/apperror"
	"onghub/internal/domain"
	"onghub/internal/domain/application"
	"onghub/internal/infrastructure/storage/postgres"
)

var _ application.Store = (*Repo)(nil)

// Repo implements application.Store.
type Repo struct {
	apps     *postgres.BaseRepo[application.Application]
	requests *postgres.BaseRepo[application.Request]
	access   *postgres.BaseRepo[application.Access]
}

// New creates the application store.
func New(txm *postgres.TxManager) *Repo {
	return &Repo{
		apps:     postgres.NewBaseRepo[application.Application](txm, "application"),
		requests: postgres.NewBaseRepo[application.Request](txm, "application_request"),
		access:   postgres.NewBaseRepo[application.Access](txm, "organization_application"),
	}
}

func (r *Repo) Create(ctx context.Context, app *application.Application) error {
	id, err := r.apps.Insert(ctx, app)
	if err != nil {
		return err
	}
	app.ID = id
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (*application.Application, error) {
	return r.apps.GetByID(ctx, id)
}

func (r *Repo) Update(ctx context.Context, app *application.Application) error {
	return r.apps.Update(ctx, app)
}

func listWhere(f application.ListFilter) squirrel.And {
	where := squirrel.And{squirrel.Eq{"deleted_on": nil}}
	if f.Search != "" {
		where = append(where, squirrel.ILike{"name": "%" + f.Search + "%"})
	}
	if f.Status != "" {
		where = append(where, squirrel.Eq{"status": f.Status})
	}
	if f.Type != "" {
		where = append(where, squirrel.Eq{"type": f.Type})
	}
	return where
}

// List pages the catalog by name.
func (r *Repo) List(ctx context.Context, f application.ListFilter) (domain.ListResult[application.Application], error) {
	result := domain.ListResult[application.Application]{Items: []application.Application{}, Limit: f.Limit, Offset: f.Offset}
	where := listWhere(f)

	n, err := r.countWhere(ctx, r.apps.Table(), where)
	if err != nil {
		return result, err
	}
	result.TotalCount = int64(n)

	sql, args, err := r.apps.SelectBuilder().
		Where(where).
		OrderBy("name", "id").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.apps.Querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list applications: %w", err)
	}
	return result, nil
}

// Count counts catalog entries in status.
func (r *Repo) Count(ctx context.Context, status application.Status) (int, error) {
	return r.countWhere(ctx, r.apps.Table(), squirrel.Eq{"status": status, "deleted_on": nil})
}

func (r *Repo) countWhere(ctx context.Context, table string, where squirrel.Sqlizer) (int, error) {
	sql, args, err := postgres.Builder().Select("COUNT(*)").From(table).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var n int
	if err := r.apps.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

const forOrganizationQuery = `
	SELECT a.id, a.name, a.type, a.logo, a.login_link,
		oa.status AS access_status,
		(SELECT ar.status FROM application_request ar
			WHERE ar.application_id = a.id AND ar.organization_id = $1
			ORDER BY ar.created_on DESC LIMIT 1) AS request_status
	FROM application a
	LEFT JOIN organization_application oa ON oa.application_id = a.id AND oa.organization_id = $1
	WHERE a.status = 'ACTIVE' AND a.deleted_on IS NULL
	ORDER BY a.name
`

// ForOrganization lists active applications with the access state of organizationID.
func (r *Repo) ForOrganization(ctx context.Context, organizationID int) ([]application.OrganizationView, error) {
	items := []application.OrganizationView{}
	if err := pgxscan.Select(ctx, r.apps.Querier(ctx), &items, forOrganizationQuery, organizationID); err != nil {
		return nil, fmt.Errorf("list organization applications: %w", err)
	}
	return items, nil
}

// accessibleQuery counts ACTIVE assignments of an organization. With a
// userID only applications granted to that user are counted.
func accessibleQuery(organizationID, userID int) (string, []any, error) {
	q := postgres.Builder().
		Select("COUNT(*)").
		From("organization_application oa").
		Join("application a ON a.id = oa.application_id").
		Where(squirrel.Eq{"oa.organization_id": organizationID, "oa.status": application.AccessActive, "a.status": application.StatusActive})
	if userID > 0 {
		q = q.Join("user_organization_application uoa ON uoa.organization_application_id = oa.id").
			Where(squirrel.Eq{"uoa.user_id": userID})
	}
	return q.ToSql()
}

// CountAccessible counts applications usable by an organization or one of its users.
func (r *Repo) CountAccessible(ctx context.Context, organizationID, userID int) (int, error) {
	sql, args, err := accessibleQuery(organizationID, userID)
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	var n int
	if err := r.apps.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accessible applications: %w", err)
	}
	return n, nil
}

func (r *Repo) CreateRequest(ctx context.Context, req *application.Request) error {
	id, err := r.requests.Insert(ctx, req)
	if err != nil {
		return err
	}
	req.ID = id
	return nil
}

func (r *Repo) GetRequest(ctx context.Context, id int) (*application.Request, error) {
	return r.requests.GetByID(ctx, id)
}

func (r *Repo) SetRequestStatus(ctx context.Context, id int, status application.RequestStatus) error {
	return r.setStatus(ctx, r.requests.Table(), id, status)
}

func (r *Repo) setStatus(ctx context.Context, table string, id int, status any) error {
	sql, args, err := postgres.Builder().
		Update(table).
		Set("status", status).
		Set("updated_on", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := r.apps.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapWriteError(err, table)
	}
	return nil
}

// ListRequests pages requests, newest first.
func (r *Repo) ListRequests(ctx context.Context, f application.RequestFilter) (domain.ListResult[application.Request], error) {
	result := domain.ListResult[application.Request]{Items: []application.Request{}, Limit: f.Limit, Offset: f.Offset}
	where := squirrel.And{}
	if f.Status != "" {
		where = append(where, squirrel.Eq{"status": f.Status})
	}

	n, err := r.countWhere(ctx, r.requests.Table(), where)
	if err != nil {
		return result, err
	}
	result.TotalCount = int64(n)

	sql, args, err := r.requests.SelectBuilder().
		Where(where).
		OrderBy("created_on DESC", "id DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset)).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.requests.Querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list application requests: %w", err)
	}
	return result, nil
}

func (r *Repo) PendingExists(ctx context.Context, organizationID, applicationID int) (bool, error) {
	return r.requests.Exists(ctx, squirrel.Eq{
		"organization_id": organizationID,
		"application_id":  applicationID,
		"status":          application.RequestPending,
	})
}

// GetAccess loads the assignment of applicationID to organizationID.
func (r *Repo) GetAccess(ctx context.Context, organizationID, applicationID int) (*application.Access, error) {
	items, err := r.access.Select(ctx, squirrel.Eq{"organization_id": organizationID, "application_id": applicationID})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperror.NewNotFound(r.access.Table(), applicationID)
	}
	return &items[0], nil
}

func (r *Repo) CreateAccess(ctx context.Context, a *application.Access) error {
	id, err := r.access.Insert(ctx, a)
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

func (r *Repo) SetAccessStatus(ctx context.Context, id int, status application.AccessStatus) error {
	return r.setStatus(ctx, r.access.Table(), id, status)
}
