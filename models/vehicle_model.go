package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vehicle struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Category     string    `gorm:"size:50;not null" json:"category"`
	Seats        int       `gorm:"not null" json:"seats"`
	Transmission string    `gorm:"size:20" json:"transmission"`
	PricePerDay  float64   `gorm:"type:numeric(10,2);not null" json:"price_per_day"`
	Currency     string    `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Location     string    `gorm:"size:255" json:"location"`
	ImageURL     *string   `gorm:"size:512" json:"image_url"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
