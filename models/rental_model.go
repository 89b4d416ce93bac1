package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Rental struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ShortCode string    `gorm:"size:12;not null;uniqueIndex" json:"short_code"`
	VehicleID uuid.UUID `gorm:"type:uuid;not null" json:"vehicle_id"`

	TravelerName  string `gorm:"size:255;not null" json:"traveler_name"`
	TravelerEmail string `gorm:"size:255;not null" json:"traveler_email"`
	TravelerPhone string `gorm:"size:30" json:"traveler_phone"`

	PickupLocation  string `gorm:"size:255" json:"pickup_location"`
	DropoffLocation string `gorm:"size:255" json:"dropoff_location"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Status    string    `gorm:"size:20;not null;default:'pending'" json:"status"`

	ReviewToken       *string    `gorm:"size:64;uniqueIndex" json:"-"`
	ReviewEmailSentAt *time.Time `json:"-"`

	Vehicle Vehicle `gorm:"foreignkey:VehicleID" json:"vehicle,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Rental) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
