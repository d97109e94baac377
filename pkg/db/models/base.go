package models

import "github.com/google/uuid"

// ensureID assigns a random identifier unless the caller pre-generated one.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&User{},
		&AuthToken{},
		&VulnerablePerson{},
		&EmergencyContact{},
		&LocationLog{},
		&Alert{},
		&SafeZone{},
		&CheckInSchedule{},
		&CheckInLog{},
		&NotificationLog{},
		&SystemSettings{},
	}
}
