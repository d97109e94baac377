package models

import (
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationLog records an outbound notification attempt.
type NotificationLog struct {
	ID               uuid.UUID                `gorm:"type:uuid;primaryKey"`
	AlertID          *uuid.UUID               `gorm:"type:uuid;index"`
	Alert            *Alert                   `gorm:"foreignKey:AlertID"`
	PersonID         uuid.UUID                `gorm:"type:uuid;not null;index"`
	Person           *VulnerablePerson        `gorm:"foreignKey:PersonID"`
	Recipient        string                   `gorm:"type:varchar(255);not null"`
	NotificationType enums.NotificationType   `gorm:"type:varchar(10);not null"`
	Status           enums.NotificationStatus `gorm:"type:varchar(10);not null"`
	Message          string                   `gorm:"type:text;not null"`
	ErrorMessage     string                   `gorm:"type:text;not null"`
	SentAt           *time.Time
	DeliveredAt      *time.Time
	CreatedAt        time.Time                `gorm:"autoCreateTime;index"`
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&n.ID)
	return nil
}
