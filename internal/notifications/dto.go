package notifications

import (
	"strings"
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/angelmondragon/vtps-backend/pkg/types"
	"github.com/google/uuid"
)

// NotificationDTO is the wire shape of a notification log entry.
type NotificationDTO struct {
	ID               uuid.UUID                `json:"id"`
	Alert            *uuid.UUID               `json:"alert"`
	AlertTitle       *string                  `json:"alert_title"`
	Person           uuid.UUID                `json:"person"`
	PersonName       string                   `json:"person_name"`
	Recipient        string                   `json:"recipient"`
	NotificationType enums.NotificationType   `json:"notification_type"`
	Status           enums.NotificationStatus `json:"status"`
	Message          string                   `json:"message"`
	ErrorMessage     string                   `json:"error_message"`
	SentAt           *time.Time               `json:"sent_at"`
	DeliveredAt      *time.Time               `json:"delivered_at"`
	CreatedAt        time.Time                `json:"created_at"`
}

type CreateRequest struct {
	Alert            *uuid.UUID               `json:"alert"`
	Person           uuid.UUID                `json:"person" validate:"required"`
	Recipient        string                   `json:"recipient" validate:"required,max=255"`
	NotificationType enums.NotificationType   `json:"notification_type" validate:"required,oneof=sms email push in_app"`
	Status           enums.NotificationStatus `json:"status" validate:"omitempty,oneof=pending sent delivered failed bounced"`
	Message          string                   `json:"message" validate:"required"`
	ErrorMessage     string                   `json:"error_message"`
	SentAt           *time.Time               `json:"sent_at"`
	DeliveredAt      *time.Time               `json:"delivered_at"`
}

// UpdateRequest carries a partial update; nullable keys may be cleared.
type UpdateRequest struct {
	Alert            types.NullableUUID        `json:"alert"`
	Person           *uuid.UUID                `json:"person"`
	Recipient        *string                   `json:"recipient" validate:"omitempty,min=1,max=255"`
	NotificationType *enums.NotificationType   `json:"notification_type" validate:"omitempty,oneof=sms email push in_app"`
	Status           *enums.NotificationStatus `json:"status" validate:"omitempty,oneof=pending sent delivered failed bounced"`
	Message          *string                   `json:"message" validate:"omitempty,min=1"`
	ErrorMessage     *string                   `json:"error_message"`
	SentAt           types.Nullable[time.Time] `json:"sent_at"`
	DeliveredAt      types.Nullable[time.Time] `json:"delivered_at"`
}

var PutFields = []string{"person", "recipient", "notification_type", "message"}

type ListFilter struct {
	Person           *uuid.UUID
	Alert            *uuid.UUID
	NotificationType *enums.NotificationType
	Status           *enums.NotificationStatus
	Search           string
}

func FromModel(n *models.NotificationLog) NotificationDTO {
	dto := NotificationDTO{
		ID:               n.ID,
		Alert:            n.AlertID,
		Person:           n.PersonID,
		Recipient:        n.Recipient,
		NotificationType: n.NotificationType,
		Status:           n.Status,
		Message:          n.Message,
		ErrorMessage:     n.ErrorMessage,
		SentAt:           n.SentAt,
		DeliveredAt:      n.DeliveredAt,
		CreatedAt:        n.CreatedAt,
	}
	if n.Alert != nil {
		title := n.Alert.Title
		dto.AlertTitle = &title
	}
	if n.Person != nil {
		dto.PersonName = n.Person.FullName()
	}
	return dto
}

func FromModels(rows []models.NotificationLog) []NotificationDTO {
	out := make([]NotificationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

func (r CreateRequest) toModel() *models.NotificationLog {
	status := r.Status
	if status == "" {
		status = enums.NotificationStatusPending
	}
	return &models.NotificationLog{
		AlertID:          r.Alert,
		PersonID:         r.Person,
		Recipient:        strings.TrimSpace(r.Recipient),
		NotificationType: r.NotificationType,
		Status:           status,
		Message:          r.Message,
		ErrorMessage:     r.ErrorMessage,
		SentAt:           r.SentAt,
		DeliveredAt:      r.DeliveredAt,
	}
}

func (r UpdateRequest) apply(n *models.NotificationLog) {
	r.Alert.Apply(&n.AlertID)
	if r.Person != nil {
		n.PersonID = *r.Person
	}
	if r.Recipient != nil {
		n.Recipient = strings.TrimSpace(*r.Recipient)
	}
	if r.NotificationType != nil {
		n.NotificationType = *r.NotificationType
	}
	if r.Status != nil {
		n.Status = *r.Status
	}
	if r.Message != nil {
		n.Message = *r.Message
	}
	if r.ErrorMessage != nil {
		n.ErrorMessage = *r.ErrorMessage
	}
	r.SentAt.Apply(&n.SentAt)
	r.DeliveredAt.Apply(&n.DeliveredAt)
}
