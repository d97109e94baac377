package enums

import "fmt"

// CheckInStatus records the outcome of a scheduled check-in.
type CheckInStatus string

const (
	CheckInStatusCompleted CheckInStatus = "completed"
	CheckInStatusMissed    CheckInStatus = "missed"
	CheckInStatusLate      CheckInStatus = "late"
)

var validCheckInStatuses = []CheckInStatus{
	CheckInStatusCompleted,
	CheckInStatusMissed,
	CheckInStatusLate,
}

func (c CheckInStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckInStatus.
func (c CheckInStatus) IsValid() bool {
	for _, candidate := range validCheckInStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckInStatus converts raw input into a CheckInStatus.
func ParseCheckInStatus(value string) (CheckInStatus, error) {
	for _, candidate := range validCheckInStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid check-in status %q", value)
}
