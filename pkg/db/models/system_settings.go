package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SystemSettings holds platform-wide toggles. Multiple rows are allowed; the
// oldest row is treated as the effective one.
type SystemSettings struct {
	ID                            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EnableSMSAlerts               bool      `gorm:"column:enable_sms_alerts;not null"`
	EnableEmailAlerts             bool      `gorm:"not null"`
	EnablePushNotifications       bool      `gorm:"not null"`
	LocationUpdateIntervalMinutes int       `gorm:"not null"`
	GPSAccuracyThresholdMeters    int       `gorm:"column:gps_accuracy_threshold_meters;not null"`
	EnableEmergencyAlerts         bool      `gorm:"not null"`
	EnableCheckinReminders        bool      `gorm:"not null"`
	EnableLocationAlerts          bool      `gorm:"not null"`
	SessionTimeoutMinutes         int       `gorm:"not null"`
	MaxActiveAlerts               int       `gorm:"not null"`
	DataRetentionDays             int       `gorm:"not null"`
	MapboxAPIKey                  string    `gorm:"column:mapbox_api_key;type:varchar(255);not null"`
	CreatedAt                     time.Time `gorm:"autoCreateTime"`
	UpdatedAt                     time.Time `gorm:"autoUpdateTime"`
}

func (SystemSettings) TableName() string {
	return "system_settings"
}

func (s *SystemSettings) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
