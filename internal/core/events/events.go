// Package events defines domain events written to the transactional outbox.
package events

import "context"

// Event types.
const (
	OrganizationCreated    = "organization.created"
	OrganizationActivated  = "organization.activated"
	OrganizationRestricted = "organization.restricted"
	OrganizationRestored   = "organization.restored"
	OrganizationDeleted    = "organization.deleted"
	ApplicationRequested   = "application.requested"
	ApplicationApproved    = "application.request_approved"
	ApplicationRejected    = "application.request_rejected"
)

// Event is a fact about an aggregate, serialized as JSON into the outbox.
type Event struct {
	AggregateType string
	AggregateID   int
	Type          string
	Payload       any
}

// Publisher records events. Implementations must be called inside the
// transaction that produced the change.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
