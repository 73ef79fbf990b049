package application

import (
	"context"

	"onghub/internal/core/apperror"
	"onghub/internal/core/entity"
	"onghub/internal/core/events"
	"onghub/internal/domain"
	"onghub/pkg/logger"
)

// RequestedPayload is the outbox payload of an access request.
type RequestedPayload struct {
	RequestID       int    `json:"requestId"`
	OrganizationID  int    `json:"organizationId"`
	ApplicationID   int    `json:"applicationId"`
	ApplicationName string `json:"applicationName"`
}

// CreateRequest records that organizationID wants applicationID. The
// application must be ACTIVE and not INDEPENDENT, and the organization may
// hold neither a pending request nor an assignment for it.
func (s *Service) CreateRequest(ctx context.Context, organizationID, applicationID int) (*Request, error) {
	app, err := s.get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != StatusActive {
		return nil, errNotActive()
	}
	if app.Type == TypeIndependent {
		return nil, errIndependent()
	}

	pending, err := s.repo.PendingExists(ctx, organizationID, applicationID)
	if err != nil {
		return nil, errRequestCreate(err)
	}
	if pending {
		return nil, errPendingExists()
	}
	if _, err := s.repo.GetAccess(ctx, organizationID, applicationID); err == nil {
		return nil, errAlreadyAssigned()
	} else if !apperror.IsNotFound(err) {
		return nil, errRequestCreate(err)
	}

	req := &Request{
		BaseEntity:     entity.NewBaseEntity(),
		OrganizationID: organizationID,
		ApplicationID:  applicationID,
		Status:         RequestPending,
	}
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateRequest(ctx, req); err != nil {
			return err
		}
		return s.events.Publish(ctx, events.Event{
			AggregateType: "application_request",
			AggregateID:   req.ID,
			Type:          events.ApplicationRequested,
			Payload: RequestedPayload{
				RequestID:       req.ID,
				OrganizationID:  organizationID,
				ApplicationID:   applicationID,
				ApplicationName: app.Name,
			},
		})
	})
	if err != nil {
		logger.Error(ctx, "create application request failed", "organization_id", organizationID, "application_id", applicationID, "error", err)
		return nil, errRequestCreate(err)
	}
	return req, nil
}

// Approve grants the requested application to the organization.
func (s *Service) Approve(ctx context.Context, requestID int) (*Request, error) {
	return s.resolve(ctx, requestID, RequestApproved, events.ApplicationApproved)
}

// Reject declines a pending request.
func (s *Service) Reject(ctx context.Context, requestID int) (*Request, error) {
	return s.resolve(ctx, requestID, RequestDeclined, events.ApplicationRejected)
}

func (s *Service) resolve(ctx context.Context, requestID int, to RequestStatus, eventType string) (*Request, error) {
	req, err := s.repo.GetRequest(ctx, requestID)
	if apperror.IsNotFound(err) {
		return nil, errRequestNotFound()
	}
	if err != nil {
		return nil, err
	}
	if req.Status != RequestPending {
		return nil, errNotPending()
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SetRequestStatus(ctx, req.ID, to); err != nil {
			return err
		}
		if to == RequestApproved {
			access := &Access{
				BaseEntity:     entity.NewBaseEntity(),
				OrganizationID: req.OrganizationID,
				ApplicationID:  req.ApplicationID,
				Status:         AccessActive,
			}
			if err := s.repo.CreateAccess(ctx, access); err != nil {
				return err
			}
		}
		return s.events.Publish(ctx, events.Event{
			AggregateType: "application_request",
			AggregateID:   req.ID,
			Type:          eventType,
			Payload:       req,
		})
	})
	if err != nil {
		logger.Error(ctx, "resolve application request failed", "request_id", requestID, "status", to, "error", err)
		return nil, errRequestUpdate(err)
	}

	req.Status = to
	return req, nil
}

// ListRequests pages access requests.
func (s *Service) ListRequests(ctx context.Context, f RequestFilter) (domain.ListResult[Request], error) {
	f.ListFilter = f.ListFilter.Normalize()
	return s.repo.ListRequests(ctx, f)
}

// Restrict blocks an organization from an assigned application.
func (s *Service) Restrict(ctx context.Context, organizationID, applicationID int) error {
	return s.setAccess(ctx, organizationID, applicationID, AccessRestricted)
}

// Restore lifts a restriction set by Restrict.
func (s *Service) Restore(ctx context.Context, organizationID, applicationID int) error {
	return s.setAccess(ctx, organizationID, applicationID, AccessActive)
}

func (s *Service) setAccess(ctx context.Context, organizationID, applicationID int, status AccessStatus) error {
	access, err := s.repo.GetAccess(ctx, organizationID, applicationID)
	if apperror.IsNotFound(err) {
		return errAccessNotFound()
	}
	if err != nil {
		return err
	}
	return s.repo.SetAccessStatus(ctx, access.ID, status)
}
