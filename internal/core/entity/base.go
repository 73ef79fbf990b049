// Package entity provides core domain entities.
package entity

import "time"

// BaseEntity contains the columns every table carries.
type BaseEntity struct {
	ID        int       `db:"id" json:"id"`
	CreatedOn time.Time `db:"created_on" json:"createdOn"`
	UpdatedOn time.Time `db:"updated_on" json:"updatedOn"`

	// DeletedOn is the soft-delete timestamp. Rows are only physically
	// removed by the organization deletion transaction.
	DeletedOn *time.Time `db:"deleted_on" json:"-"`
}

// NewBaseEntity returns a BaseEntity stamped with the current time.
// ID stays zero until the row is inserted.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{CreatedOn: now, UpdatedOn: now}
}

// Touch updates the UpdatedOn timestamp.
func (b *BaseEntity) Touch() {
	b.UpdatedOn = time.Now().UTC()
}
