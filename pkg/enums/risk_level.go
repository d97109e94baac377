package enums

import "fmt"

// RiskLevel grades how closely a person should be watched.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

var validRiskLevels = []RiskLevel{
	RiskLevelLow,
	RiskLevelMedium,
	RiskLevelHigh,
}

func (r RiskLevel) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RiskLevel.
func (r RiskLevel) IsValid() bool {
	for _, candidate := range validRiskLevels {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRiskLevel converts raw input into a RiskLevel.
func ParseRiskLevel(value string) (RiskLevel, error) {
	for _, candidate := range validRiskLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid risk level %q", value)
}
