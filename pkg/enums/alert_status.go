package enums

import "fmt"

// AlertStatus tracks alert handling. Any value may follow any other.
type AlertStatus string

const (
	AlertStatusActive        AlertStatus = "active"
	AlertStatusInvestigating AlertStatus = "investigating"
	AlertStatusResolved      AlertStatus = "resolved"
	AlertStatusDismissed     AlertStatus = "dismissed"
)

var validAlertStatuses = []AlertStatus{
	AlertStatusActive,
	AlertStatusInvestigating,
	AlertStatusResolved,
	AlertStatusDismissed,
}

func (a AlertStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AlertStatus.
func (a AlertStatus) IsValid() bool {
	for _, candidate := range validAlertStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertStatus converts raw input into an AlertStatus.
func ParseAlertStatus(value string) (AlertStatus, error) {
	for _, candidate := range validAlertStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert status %q", value)
}
