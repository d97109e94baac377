package enums

import "fmt"

// PersonStatus is the last status written for a tracked person.
type PersonStatus string

const (
	PersonStatusSafe      PersonStatus = "safe"
	PersonStatusWarning   PersonStatus = "warning"
	PersonStatusEmergency PersonStatus = "emergency"
)

var validPersonStatuses = []PersonStatus{
	PersonStatusSafe,
	PersonStatusWarning,
	PersonStatusEmergency,
}

func (p PersonStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PersonStatus.
func (p PersonStatus) IsValid() bool {
	for _, candidate := range validPersonStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePersonStatus converts raw input into a PersonStatus.
func ParsePersonStatus(value string) (PersonStatus, error) {
	for _, candidate := range validPersonStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid person status %q", value)
}
