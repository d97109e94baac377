package alerts

import (
	"strings"
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/angelmondragon/vtps-backend/pkg/types"
	"github.com/google/uuid"
)

// AlertDTO is the full alert representation used for every read.
type AlertDTO struct {
	ID                   uuid.UUID           `json:"id"`
	Person               uuid.UUID           `json:"person"`
	PersonName           string              `json:"person_name"`
	AlertType            enums.AlertType     `json:"alert_type"`
	Priority             enums.AlertPriority `json:"priority"`
	Status               enums.AlertStatus   `json:"status"`
	Title                string              `json:"title"`
	Description          string              `json:"description"`
	Location             string              `json:"location"`
	AssignedTo           *uuid.UUID          `json:"assigned_to"`
	AssignedToName       *string             `json:"assigned_to_name"`
	ResolvedBy           *uuid.UUID          `json:"resolved_by"`
	ResolvedByName       *string             `json:"resolved_by_name"`
	ResolutionNotes      string              `json:"resolution_notes"`
	CreatedAt            time.Time           `json:"created_at"`
	ResolvedAt           *time.Time          `json:"resolved_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
	SMSSent              bool                `json:"sms_sent"`
	EmailSent            bool                `json:"email_sent"`
	PushNotificationSent bool                `json:"push_notification_sent"`
}

// CreateRequest raises a new alert. The caller becomes the assignee.
type CreateRequest struct {
	Person      uuid.UUID           `json:"person" validate:"required"`
	AlertType   enums.AlertType     `json:"alert_type" validate:"required,oneof=location_missing safe_zone_exit medication_reminder check_in_missed battery_low emergency_button fall_detection geofence_violation device_offline"`
	Priority    enums.AlertPriority `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	Title       string              `json:"title" validate:"required,max=200"`
	Description string              `json:"description" validate:"required"`
	Location    string              `json:"location" validate:"max=255"`
}

// UpdateRequest is the only writable surface of an existing alert.
type UpdateRequest struct {
	Status          *enums.AlertStatus `json:"status" validate:"omitempty,oneof=active investigating resolved dismissed"`
	AssignedTo      types.NullableUUID `json:"assigned_to"`
	ResolutionNotes *string            `json:"resolution_notes"`
}

type ListFilter struct {
	Person     *uuid.UUID
	Status     *enums.AlertStatus
	Priority   *enums.AlertPriority
	AlertType  *enums.AlertType
	AssignedTo *uuid.UUID
	Search     string
}

func FromModel(a *models.Alert) AlertDTO {
	dto := AlertDTO{
		ID:                   a.ID,
		Person:               a.PersonID,
		AlertType:            a.AlertType,
		Priority:             a.Priority,
		Status:               a.Status,
		Title:                a.Title,
		Description:          a.Description,
		Location:             a.Location,
		AssignedTo:           a.AssignedToID,
		ResolvedBy:           a.ResolvedByID,
		ResolutionNotes:      a.ResolutionNotes,
		CreatedAt:            a.CreatedAt,
		ResolvedAt:           a.ResolvedAt,
		UpdatedAt:            a.UpdatedAt,
		SMSSent:              a.SMSSent,
		EmailSent:            a.EmailSent,
		PushNotificationSent: a.PushNotificationSent,
	}
	if a.Person != nil {
		dto.PersonName = a.Person.FullName()
	}
	if a.AssignedTo != nil {
		name := a.AssignedTo.FullName()
		dto.AssignedToName = &name
	}
	if a.ResolvedBy != nil {
		name := a.ResolvedBy.FullName()
		dto.ResolvedByName = &name
	}
	return dto
}

func FromModels(rows []models.Alert) []AlertDTO {
	out := make([]AlertDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

func (r CreateRequest) toModel(assignee uuid.UUID) *models.Alert {
	priority := r.Priority
	if priority == "" {
		priority = enums.AlertPriorityMedium
	}
	return &models.Alert{
		PersonID:     r.Person,
		AlertType:    r.AlertType,
		Priority:     priority,
		Status:       enums.AlertStatusActive,
		Title:        strings.TrimSpace(r.Title),
		Description:  r.Description,
		Location:     r.Location,
		AssignedToID: &assignee,
	}
}

// Apply writes the present fields onto a and nothing else.
func (r UpdateRequest) Apply(a *models.Alert) {
	if r.Status != nil {
		a.Status = *r.Status
	}
	r.AssignedTo.Apply(&a.AssignedToID)
	if r.ResolutionNotes != nil {
		a.ResolutionNotes = *r.ResolutionNotes
	}
}
