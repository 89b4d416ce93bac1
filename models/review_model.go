package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is tied to exactly one trip through (TripKind, TripID). The
// composite unique index makes a concurrent double-submit a rejected
// write instead of a duplicate row.
type Review struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TripKind string    `gorm:"size:16;not null;uniqueIndex:idx_reviews_trip_reference" json:"trip_kind"`
	TripID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_trip_reference" json:"trip_id"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
