package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LocationLog is an append-only GPS fix reported for a person.
type LocationLog struct {
	ID                  uuid.UUID         `gorm:"type:uuid;primaryKey"`
	PersonID            uuid.UUID         `gorm:"type:uuid;not null;index:idx_location_logs_person_time,priority:1"`
	Person              *VulnerablePerson `gorm:"foreignKey:PersonID"`
	Latitude            decimal.Decimal   `gorm:"type:numeric(10,8);not null"`
	Longitude           decimal.Decimal   `gorm:"type:numeric(11,8);not null"`
	Accuracy            *decimal.Decimal  `gorm:"type:numeric(6,2)"`
	Altitude            *decimal.Decimal  `gorm:"type:numeric(8,2)"`
	Speed               *decimal.Decimal  `gorm:"type:numeric(6,2)"`
	BatteryLevel        *int
	LocationDescription string    `gorm:"type:varchar(255);not null"`
	IsSafeZone          bool      `gorm:"not null"`
	Timestamp           time.Time `gorm:"autoCreateTime;index;index:idx_location_logs_person_time,priority:2,sort:desc"`
}

func (l *LocationLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
