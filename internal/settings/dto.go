package settings

import (
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/google/uuid"
)

const (
	defaultLocationUpdateIntervalMinutes = 5
	defaultGPSAccuracyThresholdMeters    = 50
	defaultSessionTimeoutMinutes         = 60
	defaultMaxActiveAlerts               = 100
	// DefaultDataRetentionDays applies when no settings row exists.
	DefaultDataRetentionDays = 365
)

// SettingsDTO never carries the map provider API key.
type SettingsDTO struct {
	ID                            uuid.UUID `json:"id"`
	EnableSMSAlerts               bool      `json:"enable_sms_alerts"`
	EnableEmailAlerts             bool      `json:"enable_email_alerts"`
	EnablePushNotifications       bool      `json:"enable_push_notifications"`
	LocationUpdateIntervalMinutes int       `json:"location_update_interval_minutes"`
	GPSAccuracyThresholdMeters    int       `json:"gps_accuracy_threshold_meters"`
	EnableEmergencyAlerts         bool      `json:"enable_emergency_alerts"`
	EnableCheckinReminders        bool      `json:"enable_checkin_reminders"`
	EnableLocationAlerts          bool      `json:"enable_location_alerts"`
	SessionTimeoutMinutes         int       `json:"session_timeout_minutes"`
	MaxActiveAlerts               int       `json:"max_active_alerts"`
	DataRetentionDays             int       `json:"data_retention_days"`
	CreatedAt                     time.Time `json:"created_at"`
	UpdatedAt                     time.Time `json:"updated_at"`
}

// Request is used for create, replace and partial update alike: every field
// is optional and absent fields keep their current or default value.
type Request struct {
	EnableSMSAlerts               *bool   `json:"enable_sms_alerts"`
	EnableEmailAlerts             *bool   `json:"enable_email_alerts"`
	EnablePushNotifications       *bool   `json:"enable_push_notifications"`
	LocationUpdateIntervalMinutes *int    `json:"location_update_interval_minutes" validate:"omitempty,gt=0"`
	GPSAccuracyThresholdMeters    *int    `json:"gps_accuracy_threshold_meters" validate:"omitempty,gt=0"`
	EnableEmergencyAlerts         *bool   `json:"enable_emergency_alerts"`
	EnableCheckinReminders        *bool   `json:"enable_checkin_reminders"`
	EnableLocationAlerts          *bool   `json:"enable_location_alerts"`
	SessionTimeoutMinutes         *int    `json:"session_timeout_minutes" validate:"omitempty,gt=0"`
	MaxActiveAlerts               *int    `json:"max_active_alerts" validate:"omitempty,gt=0"`
	DataRetentionDays             *int    `json:"data_retention_days" validate:"omitempty,gt=0"`
	MapboxAPIKey                  *string `json:"mapbox_api_key" validate:"omitempty,max=255"`
}

func FromModel(s *models.SystemSettings) SettingsDTO {
	return SettingsDTO{
		ID:                            s.ID,
		EnableSMSAlerts:               s.EnableSMSAlerts,
		EnableEmailAlerts:             s.EnableEmailAlerts,
		EnablePushNotifications:       s.EnablePushNotifications,
		LocationUpdateIntervalMinutes: s.LocationUpdateIntervalMinutes,
		GPSAccuracyThresholdMeters:    s.GPSAccuracyThresholdMeters,
		EnableEmergencyAlerts:         s.EnableEmergencyAlerts,
		EnableCheckinReminders:        s.EnableCheckinReminders,
		EnableLocationAlerts:          s.EnableLocationAlerts,
		SessionTimeoutMinutes:         s.SessionTimeoutMinutes,
		MaxActiveAlerts:               s.MaxActiveAlerts,
		DataRetentionDays:             s.DataRetentionDays,
		CreatedAt:                     s.CreatedAt,
		UpdatedAt:                     s.UpdatedAt,
	}
}

func FromModels(rows []models.SystemSettings) []SettingsDTO {
	out := make([]SettingsDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

// Defaults returns a settings row with every documented default applied.
func Defaults() *models.SystemSettings {
	return &models.SystemSettings{
		EnableSMSAlerts:               true,
		EnableEmailAlerts:             true,
		EnablePushNotifications:       true,
		LocationUpdateIntervalMinutes: defaultLocationUpdateIntervalMinutes,
		GPSAccuracyThresholdMeters:    defaultGPSAccuracyThresholdMeters,
		EnableEmergencyAlerts:         true,
		EnableCheckinReminders:        true,
		EnableLocationAlerts:          true,
		SessionTimeoutMinutes:         defaultSessionTimeoutMinutes,
		MaxActiveAlerts:               defaultMaxActiveAlerts,
		DataRetentionDays:             DefaultDataRetentionDays,
	}
}

func (r Request) apply(s *models.SystemSettings) {
	setBool(&s.EnableSMSAlerts, r.EnableSMSAlerts)
	setBool(&s.EnableEmailAlerts, r.EnableEmailAlerts)
	setBool(&s.EnablePushNotifications, r.EnablePushNotifications)
	setInt(&s.LocationUpdateIntervalMinutes, r.LocationUpdateIntervalMinutes)
	setInt(&s.GPSAccuracyThresholdMeters, r.GPSAccuracyThresholdMeters)
	setBool(&s.EnableEmergencyAlerts, r.EnableEmergencyAlerts)
	setBool(&s.EnableCheckinReminders, r.EnableCheckinReminders)
	setBool(&s.EnableLocationAlerts, r.EnableLocationAlerts)
	setInt(&s.SessionTimeoutMinutes, r.SessionTimeoutMinutes)
	setInt(&s.MaxActiveAlerts, r.MaxActiveAlerts)
	setInt(&s.DataRetentionDays, r.DataRetentionDays)
	if r.MapboxAPIKey != nil {
		s.MapboxAPIKey = *r.MapboxAPIKey
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
