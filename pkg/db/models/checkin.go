package models

import (
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckInSchedule describes when a person is expected to confirm they are safe.
type CheckInSchedule struct {
	ID                    uuid.UUID              `gorm:"type:uuid;primaryKey"`
	PersonID              uuid.UUID              `gorm:"type:uuid;not null;index"`
	Person                *VulnerablePerson      `gorm:"foreignKey:PersonID"`
	Name                  string                 `gorm:"type:varchar(100);not null"`
	Frequency             enums.CheckInFrequency `gorm:"type:varchar(10);not null"`
	ScheduledTime         string                 `gorm:"type:time;not null"`
	DaysOfWeek            string                 `gorm:"type:varchar(7);not null"`
	ReminderMinutesBefore int                    `gorm:"not null"`
	IsActive              bool                   `gorm:"not null"`
	CreatedAt             time.Time              `gorm:"autoCreateTime"`

	CheckInLogs []CheckInLog `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE"`
}

func (s *CheckInSchedule) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// CheckInLog records one check-in occurrence.
type CheckInLog struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ScheduleID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	Schedule      *CheckInSchedule    `gorm:"foreignKey:ScheduleID"`
	PersonID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	Person        *VulnerablePerson   `gorm:"foreignKey:PersonID"`
	ScheduledTime time.Time           `gorm:"not null;index"`
	ActualTime    *time.Time
	Status        enums.CheckInStatus `gorm:"type:varchar(10);not null"`
	Notes         string              `gorm:"type:text;not null"`
	Location      string              `gorm:"type:varchar(255);not null"`
	CreatedAt     time.Time           `gorm:"autoCreateTime"`
}

func (l *CheckInLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
