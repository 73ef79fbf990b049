package statistics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"onghub/internal/core/apperror"
	appctx "onghub/internal/core/context"
	"onghub/pkg/logger"
)

// Error codes returned to clients.
const (
	CodeRequestStatistics      = "STATS_001"
	CodeStatusStatistics       = "STATS_002"
	CodeHubStatistics          = "STATS_003"
	CodeOrganizationStatistics = "STATS_004"
	CodeInvalidPeriod          = "STATS_005"
)

// Store runs the aggregate queries.
type Store interface {
	CountOrganizations(ctx context.Context, status string) (int, error)
	// CountUpToDateOrganizations counts ACTIVE organizations whose
	// completion status is COMPLETED.
	CountUpToDateOrganizations(ctx context.Context) (int, error)
	CountPendingRequests(ctx context.Context) (int, error)
	Buckets(ctx context.Context, series Series, from time.Time, unit string) ([]Bucket, error)
	OrganizationDates(ctx context.Context, organizationID int) (createdOn time.Time, syncedOn *time.Time, err error)
	CountNotCompletedReports(ctx context.Context, organizationID int) (int, error)
}

// Users counts platform users.
type Users interface {
	CountHubUsers(ctx context.Context) (int, error)
	CountEmployees(ctx context.Context, organizationID int) (int, error)
}

// Applications counts catalog entries and organization access.
type Applications interface {
	CountActive(ctx context.Context) (int, error)
	CountAccessible(ctx context.Context, organizationID, userID int) (int, error)
}

// Financial counts financial rows needing attention.
type Financial interface {
	CountNotCompletedReports(ctx context.Context, organizationID int) (int, error)
}

// Service builds dashboards.
type Service struct {
	store     Store
	users     Users
	apps      Applications
	financial Financial
	now       func() time.Time
}

// NewService creates the statistics service.
func NewService(store Store, users Users, apps Applications, financial Financial) *Service {
	return &Service{store: store, users: users, apps: apps, financial: financial, now: time.Now}
}

// Hub returns the super admin dashboard.
func (s *Service) Hub(ctx context.Context) (*Hub, error) {
	var h Hub
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		h.NumberOfActiveOrganizations, err = s.store.CountOrganizations(gctx, "ACTIVE")
		return err
	})
	g.Go(func() (err error) {
		h.NumberOfUpdatedOrganizations, err = s.store.CountUpToDateOrganizations(gctx)
		return err
	})
	g.Go(func() (err error) {
		h.NumberOfUsers, err = s.users.CountHubUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		h.NumberOfPendingRequests, err = s.store.CountPendingRequests(gctx)
		return err
	})
	g.Go(func() (err error) {
		h.NumberOfApps, err = s.apps.CountActive(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail(ctx, CodeHubStatistics, "Error while loading hub statistics", err)
	}

	if h.NumberOfActiveOrganizations > 0 {
		h.MeanNumberOfUsers = (h.NumberOfUsers + h.NumberOfActiveOrganizations - 1) / h.NumberOfActiveOrganizations
	}
	return &h, nil
}

// Organization returns the dashboard of one organization. Employees see the
// applications they can open; admins see every active assignment.
func (s *Service) Organization(ctx context.Context, organizationID int, role string, userID int) (*Organization, error) {
	var (
		o   Organization
		err error
	)
	o.OrganizationCreatedOn, o.OrganizationSyncedOn, err = s.store.OrganizationDates(ctx, organizationID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, s.fail(ctx, CodeOrganizationStatistics, "Error while loading organization statistics", err)
	}

	appsUser := 0
	if role == appctx.RoleEmployee {
		appsUser = userID
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		o.NumberOfInstalledApps, err = s.apps.CountAccessible(gctx, organizationID, appsUser)
		return err
	})
	g.Go(func() (err error) {
		o.NumberOfUsers, err = s.users.CountEmployees(gctx, organizationID)
		return err
	})
	g.Go(func() (err error) {
		o.NumberOfErroredFinancialReports, err = s.financial.CountNotCompletedReports(gctx, organizationID)
		return err
	})
	g.Go(func() (err error) {
		o.NumberOfErroredReportsInvestorsPartners, err = s.store.CountNotCompletedReports(gctx, organizationID)
		return err
	})
	g.Go(func() (err error) {
		o.HubStatistics.NumberOfActiveOrganizations, err = s.store.CountOrganizations(gctx, "ACTIVE")
		return err
	})
	g.Go(func() (err error) {
		o.HubStatistics.NumberOfApplications, err = s.apps.CountActive(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail(ctx, CodeOrganizationStatistics, "Error while loading organization statistics", err)
	}
	return &o, nil
}

// Requests returns approved and declined organization requests per bucket.
func (s *Service) Requests(ctx context.Context, p Period) (*RequestSeries, error) {
	w, err := windowOf(p)
	if err != nil {
		return nil, apperror.NewBadRequest(CodeInvalidPeriod, err.Error())
	}
	starts := w.starts(s.now())

	approved, err := s.store.Buckets(ctx, SeriesRequestsApproved, starts[0], p.Unit())
	if err != nil {
		return nil, s.fail(ctx, CodeRequestStatistics, "Error while loading request statistics", err)
	}
	declined, err := s.store.Buckets(ctx, SeriesRequestsDeclined, starts[0], p.Unit())
	if err != nil {
		return nil, s.fail(ctx, CodeRequestStatistics, "Error while loading request statistics", err)
	}

	return &RequestSeries{
		Labels:   labels(w, starts),
		Approved: fill(starts, approved),
		Declined: fill(starts, declined),
	}, nil
}

// Statuses returns organizations turned ACTIVE and RESTRICTED per bucket.
func (s *Service) Statuses(ctx context.Context, p Period) (*StatusSeries, error) {
	w, err := windowOf(p)
	if err != nil {
		return nil, apperror.NewBadRequest(CodeInvalidPeriod, err.Error())
	}
	starts := w.starts(s.now())

	active, err := s.store.Buckets(ctx, SeriesOrganizationsActive, starts[0], p.Unit())
	if err != nil {
		return nil, s.fail(ctx, CodeStatusStatistics, "Error while loading organization status statistics", err)
	}
	restricted, err := s.store.Buckets(ctx, SeriesOrganizationsRestricted, starts[0], p.Unit())
	if err != nil {
		return nil, s.fail(ctx, CodeStatusStatistics, "Error while loading organization status statistics", err)
	}

	return &StatusSeries{
		Labels:     labels(w, starts),
		Active:     fill(starts, active),
		Restricted: fill(starts, restricted),
	}, nil
}

func (s *Service) fail(ctx context.Context, code, msg string, err error) error {
	logger.Error(ctx, msg, "code", code, "error", err)
	return apperror.NewInternalCode(code, msg, err)
}
