package enums

import "fmt"

type AlertPriority string

const (
	AlertPriorityLow      AlertPriority = "low"
	AlertPriorityMedium   AlertPriority = "medium"
	AlertPriorityHigh     AlertPriority = "high"
	AlertPriorityCritical AlertPriority = "critical"
)

var validAlertPrioritys = []AlertPriority{
	AlertPriorityLow,
	AlertPriorityMedium,
	AlertPriorityHigh,
	AlertPriorityCritical,
}

func (a AlertPriority) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AlertPriority.
func (a AlertPriority) IsValid() bool {
	for _, candidate := range validAlertPrioritys {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertPriority converts raw input into an AlertPriority.
func ParseAlertPriority(value string) (AlertPriority, error) {
	for _, candidate := range validAlertPrioritys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert priority %q", value)
}
