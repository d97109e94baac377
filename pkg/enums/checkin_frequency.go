package enums

import "fmt"

type CheckInFrequency string

const (
	CheckInFrequencyDaily  CheckInFrequency = "daily"
	CheckInFrequencyWeekly CheckInFrequency = "weekly"
	CheckInFrequencyCustom CheckInFrequency = "custom"
)

var validCheckInFrequencys = []CheckInFrequency{
	CheckInFrequencyDaily,
	CheckInFrequencyWeekly,
	CheckInFrequencyCustom,
}

func (c CheckInFrequency) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckInFrequency.
func (c CheckInFrequency) IsValid() bool {
	for _, candidate := range validCheckInFrequencys {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckInFrequency converts raw input into a CheckInFrequency.
func ParseCheckInFrequency(value string) (CheckInFrequency, error) {
	for _, candidate := range validCheckInFrequencys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid check-in frequency %q", value)
}
