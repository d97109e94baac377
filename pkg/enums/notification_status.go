package enums

import "fmt"

type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "pending"
	NotificationStatusSent      NotificationStatus = "sent"
	NotificationStatusDelivered NotificationStatus = "delivered"
	NotificationStatusFailed    NotificationStatus = "failed"
	NotificationStatusBounced   NotificationStatus = "bounced"
)

var validNotificationStatuses = []NotificationStatus{
	NotificationStatusPending,
	NotificationStatusSent,
	NotificationStatusDelivered,
	NotificationStatusFailed,
	NotificationStatusBounced,
}

func (n NotificationStatus) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationStatus.
func (n NotificationStatus) IsValid() bool {
	for _, candidate := range validNotificationStatuses {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationStatus converts raw input into a NotificationStatus.
func ParseNotificationStatus(value string) (NotificationStatus, error) {
	for _, candidate := range validNotificationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification status %q", value)
}
