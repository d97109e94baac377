package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SafeZone is a circular, optionally time-windowed area around a center point.
type SafeZone struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PersonID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name            string          `gorm:"type:varchar(100);not null"`
	Description     string          `gorm:"type:text;not null"`
	CenterLatitude  decimal.Decimal `gorm:"type:numeric(10,8);not null"`
	CenterLongitude decimal.Decimal `gorm:"type:numeric(11,8);not null"`
	RadiusMeters    int             `gorm:"not null"`
	ActiveStartTime *string         `gorm:"type:time"`
	ActiveEndTime   *string         `gorm:"type:time"`
	ActiveDays      string          `gorm:"type:varchar(7);not null"`
	IsActive        bool            `gorm:"not null"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
}

func (z *SafeZone) BeforeCreate(tx *gorm.DB) error {
	ensureID(&z.ID)
	return nil
}
