package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Package struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Destination  string    `gorm:"size:255;not null" json:"destination"`
	Description  string    `gorm:"type:text" json:"description"`
	DurationDays int       `gorm:"not null" json:"duration_days"`
	Price        float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	Currency     string    `gorm:"size:3;not null;default:'USD'" json:"currency"`
	ImageURL     *string   `gorm:"size:512" json:"image_url"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Package) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
