package models

import (
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert is a condition raised against a person that needs handling.
type Alert struct {
	ID                   uuid.UUID           `gorm:"type:uuid;primaryKey"`
	PersonID             uuid.UUID           `gorm:"type:uuid;not null;index"`
	Person               *VulnerablePerson   `gorm:"foreignKey:PersonID"`
	AlertType            enums.AlertType     `gorm:"type:varchar(30);not null"`
	Priority             enums.AlertPriority `gorm:"type:varchar(10);not null"`
	Status               enums.AlertStatus   `gorm:"type:varchar(15);not null;index"`
	Title                string              `gorm:"type:varchar(200);not null"`
	Description          string              `gorm:"type:text;not null"`
	Location             string              `gorm:"type:varchar(255);not null"`
	AssignedToID         *uuid.UUID          `gorm:"type:uuid"`
	AssignedTo           *User               `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`
	ResolvedByID         *uuid.UUID          `gorm:"type:uuid"`
	ResolvedBy           *User               `gorm:"foreignKey:ResolvedByID;constraint:OnDelete:SET NULL"`
	ResolutionNotes      string              `gorm:"type:text;not null"`
	ResolvedAt           *time.Time
	SMSSent              bool                `gorm:"column:sms_sent;not null"`
	EmailSent            bool                `gorm:"not null"`
	PushNotificationSent bool                `gorm:"not null"`
	CreatedAt            time.Time           `gorm:"autoCreateTime;index"`
	UpdatedAt            time.Time           `gorm:"autoUpdateTime"`

	NotificationLogs []NotificationLog `gorm:"foreignKey:AlertID;constraint:OnDelete:CASCADE"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
