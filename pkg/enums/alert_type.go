package enums

import "fmt"

// AlertType identifies the condition that raised an alert.
type AlertType string

const (
	AlertTypeLocationMissing    AlertType = "location_missing"
	AlertTypeSafeZoneExit       AlertType = "safe_zone_exit"
	AlertTypeMedicationReminder AlertType = "medication_reminder"
	AlertTypeCheckInMissed      AlertType = "check_in_missed"
	AlertTypeBatteryLow         AlertType = "battery_low"
	AlertTypeEmergencyButton    AlertType = "emergency_button"
	AlertTypeFallDetection      AlertType = "fall_detection"
	AlertTypeGeofenceViolation  AlertType = "geofence_violation"
	AlertTypeDeviceOffline      AlertType = "device_offline"
)

var validAlertTypes = []AlertType{
	AlertTypeLocationMissing,
	AlertTypeSafeZoneExit,
	AlertTypeMedicationReminder,
	AlertTypeCheckInMissed,
	AlertTypeBatteryLow,
	AlertTypeEmergencyButton,
	AlertTypeFallDetection,
	AlertTypeGeofenceViolation,
	AlertTypeDeviceOffline,
}

func (a AlertType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AlertType.
func (a AlertType) IsValid() bool {
	for _, candidate := range validAlertTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertType converts raw input into an AlertType.
func ParseAlertType(value string) (AlertType, error) {
	for _, candidate := range validAlertTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert type %q", value)
}
