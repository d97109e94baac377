package people

import (
	"strings"
	"time"

	"github.com/angelmondragon/vtps-backend/internal/alerts"
	"github.com/angelmondragon/vtps-backend/internal/contacts"
	"github.com/angelmondragon/vtps-backend/internal/locations"
	"github.com/angelmondragon/vtps-backend/internal/safezones"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/angelmondragon/vtps-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LastLocation summarizes the newest location entry of a person.
type LastLocation struct {
	Latitude     decimal.Decimal `json:"latitude"`
	Longitude    decimal.Decimal `json:"longitude"`
	Timestamp    time.Time       `json:"timestamp"`
	BatteryLevel *int            `json:"battery_level"`
}

// ListItemDTO is the compact person shape used by lists and the dashboard.
type ListItemDTO struct {
	ID                     uuid.UUID          `json:"id"`
	FirstName              string             `json:"first_name"`
	LastName               string             `json:"last_name"`
	Age                    int                `json:"age"`
	Phone                  string             `json:"phone"`
	Email                  string             `json:"email"`
	Address                string             `json:"address"`
	RiskLevel              enums.RiskLevel    `json:"risk_level"`
	CurrentStatus          enums.PersonStatus `json:"current_status"`
	IsBeingMonitored       bool               `json:"is_being_monitored"`
	LastContactTime        *time.Time         `json:"last_contact_time"`
	EmergencyContactsCount int64              `json:"emergency_contacts_count"`
	LastLocation           *LastLocation      `json:"last_location"`
	ActiveAlertsCount      int64              `json:"active_alerts_count"`
}

// DetailDTO is the full person shape with its related records.
type DetailDTO struct {
	ID                     uuid.UUID               `json:"id"`
	FirstName              string                  `json:"first_name"`
	LastName               string                  `json:"last_name"`
	FullName               string                  `json:"full_name"`
	Age                    int                     `json:"age"`
	Phone                  string                  `json:"phone"`
	Email                  string                  `json:"email"`
	Address                string                  `json:"address"`
	CurrentLocation        string                  `json:"current_location"`
	RiskLevel              enums.RiskLevel         `json:"risk_level"`
	CurrentStatus          enums.PersonStatus      `json:"current_status"`
	MedicalConditions      string                  `json:"medical_conditions"`
	Medications            string                  `json:"medications"`
	Allergies              string                  `json:"allergies"`
	GPSDeviceID            *string                 `json:"gps_device_id"`
	IsBeingMonitored       bool                    `json:"is_being_monitored"`
	LastKnownLocation      string                  `json:"last_known_location"`
	LastContactTime        *time.Time              `json:"last_contact_time"`
	AssignedSupervisor     *uuid.UUID              `json:"assigned_supervisor"`
	AssignedSupervisorName *string                 `json:"assigned_supervisor_name"`
	CreatedBy              *uuid.UUID              `json:"created_by"`
	CreatedAt              time.Time               `json:"created_at"`
	UpdatedAt              time.Time               `json:"updated_at"`
	EmergencyContacts      []contacts.ContactDTO   `json:"emergency_contacts"`
	SafeZones              []safezones.SafeZoneDTO `json:"safe_zones"`
	RecentLocations        []locations.LocationDTO `json:"recent_locations"`
	ActiveAlerts           []alerts.AlertDTO       `json:"active_alerts"`
}

// CreateRequest registers a person, optionally with emergency contacts that
// are stored in the same transaction.
type CreateRequest struct {
	FirstName          string             `json:"first_name" validate:"required,max=100"`
	LastName           string             `json:"last_name" validate:"required,max=100"`
	Age                *int               `json:"age" validate:"required,gte=0,lte=150"`
	Phone              string             `json:"phone" validate:"omitempty,phone"`
	Email              string             `json:"email" validate:"omitempty,email,max=254"`
	Address            string             `json:"address"`
	CurrentLocation    string             `json:"current_location" validate:"max=255"`
	RiskLevel          enums.RiskLevel    `json:"risk_level" validate:"omitempty,oneof=low medium high"`
	CurrentStatus      enums.PersonStatus `json:"current_status" validate:"omitempty,oneof=safe warning emergency"`
	MedicalConditions  string             `json:"medical_conditions"`
	Medications        string             `json:"medications"`
	Allergies          string             `json:"allergies"`
	GPSDeviceID        *string            `json:"gps_device_id" validate:"omitempty,max=100"`
	IsBeingMonitored   bool               `json:"is_being_monitored"`
	LastKnownLocation  string             `json:"last_known_location" validate:"max=255"`
	LastContactTime    *time.Time         `json:"last_contact_time"`
	AssignedSupervisor *uuid.UUID         `json:"assigned_supervisor"`
	EmergencyContacts  []contacts.Input   `json:"emergency_contacts" validate:"omitempty,dive"`
}

// UpdateRequest carries a partial update. Nullable fields distinguish an
// absent key from an explicit null.
type UpdateRequest struct {
	FirstName          *string                   `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName           *string                   `json:"last_name" validate:"omitempty,min=1,max=100"`
	Age                *int                      `json:"age" validate:"omitempty,gte=0,lte=150"`
	Phone              *string                   `json:"phone" validate:"omitempty,phone"`
	Email              *string                   `json:"email" validate:"omitempty,email,max=254"`
	Address            *string                   `json:"address"`
	CurrentLocation    *string                   `json:"current_location" validate:"omitempty,max=255"`
	RiskLevel          *enums.RiskLevel          `json:"risk_level" validate:"omitempty,oneof=low medium high"`
	CurrentStatus      *enums.PersonStatus       `json:"current_status" validate:"omitempty,oneof=safe warning emergency"`
	MedicalConditions  *string                   `json:"medical_conditions"`
	Medications        *string                   `json:"medications"`
	Allergies          *string                   `json:"allergies"`
	GPSDeviceID        types.Nullable[string]    `json:"gps_device_id"`
	IsBeingMonitored   *bool                     `json:"is_being_monitored"`
	LastKnownLocation  *string                   `json:"last_known_location" validate:"omitempty,max=255"`
	LastContactTime    types.Nullable[time.Time] `json:"last_contact_time"`
	AssignedSupervisor types.NullableUUID        `json:"assigned_supervisor"`
}

// PutFields lists the fields a full replacement must carry.
var PutFields = []string{"first_name", "last_name", "age"}

// ListFilter narrows the person list.
type ListFilter struct {
	RiskLevel          *enums.RiskLevel
	CurrentStatus      *enums.PersonStatus
	IsBeingMonitored   *bool
	AssignedSupervisor *uuid.UUID
	Search             string
}

// listSummary carries the per-person aggregates of a list page.
type listSummary struct {
	contacts map[uuid.UUID]int64
	alerts   map[uuid.UUID]int64
	latest   map[uuid.UUID]models.LocationLog
}

func toListItem(p *models.VulnerablePerson, sum listSummary) ListItemDTO {
	item := ListItemDTO{
		ID:                     p.ID,
		FirstName:              p.FirstName,
		LastName:               p.LastName,
		Age:                    p.Age,
		Phone:                  p.Phone,
		Email:                  p.Email,
		Address:                p.Address,
		RiskLevel:              p.RiskLevel,
		CurrentStatus:          p.CurrentStatus,
		IsBeingMonitored:       p.IsBeingMonitored,
		LastContactTime:        p.LastContactTime,
		EmergencyContactsCount: sum.contacts[p.ID],
		ActiveAlertsCount:      sum.alerts[p.ID],
	}
	if loc, ok := sum.latest[p.ID]; ok {
		item.LastLocation = &LastLocation{
			Latitude:     loc.Latitude,
			Longitude:    loc.Longitude,
			Timestamp:    loc.Timestamp,
			BatteryLevel: loc.BatteryLevel,
		}
	}
	return item
}

func toDetail(p *models.VulnerablePerson) DetailDTO {
	dto := DetailDTO{
		ID:                 p.ID,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		FullName:           p.FullName(),
		Age:                p.Age,
		Phone:              p.Phone,
		Email:              p.Email,
		Address:            p.Address,
		CurrentLocation:    p.CurrentLocation,
		RiskLevel:          p.RiskLevel,
		CurrentStatus:      p.CurrentStatus,
		MedicalConditions:  p.MedicalConditions,
		Medications:        p.Medications,
		Allergies:          p.Allergies,
		GPSDeviceID:        p.GPSDeviceID,
		IsBeingMonitored:   p.IsBeingMonitored,
		LastKnownLocation:  p.LastKnownLocation,
		LastContactTime:    p.LastContactTime,
		AssignedSupervisor: p.AssignedSupervisorID,
		CreatedBy:          p.CreatedByID,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.AssignedSupervisor != nil {
		name := p.AssignedSupervisor.FullName()
		dto.AssignedSupervisorName = &name
	}
	return dto
}

func (r CreateRequest) toModel(createdBy uuid.UUID) *models.VulnerablePerson {
	risk := r.RiskLevel
	if risk == "" {
		risk = enums.RiskLevelLow
	}
	status := r.CurrentStatus
	if status == "" {
		status = enums.PersonStatusSafe
	}
	return &models.VulnerablePerson{
		FirstName:            strings.TrimSpace(r.FirstName),
		LastName:             strings.TrimSpace(r.LastName),
		Age:                  *r.Age,
		Phone:                r.Phone,
		Email:                strings.TrimSpace(r.Email),
		Address:              r.Address,
		CurrentLocation:      r.CurrentLocation,
		RiskLevel:            risk,
		CurrentStatus:        status,
		MedicalConditions:    r.MedicalConditions,
		Medications:          r.Medications,
		Allergies:            r.Allergies,
		GPSDeviceID:          normalizeDeviceID(r.GPSDeviceID),
		IsBeingMonitored:     r.IsBeingMonitored,
		LastKnownLocation:    r.LastKnownLocation,
		LastContactTime:      r.LastContactTime,
		AssignedSupervisorID: r.AssignedSupervisor,
		CreatedByID:          &createdBy,
	}
}

func (r UpdateRequest) apply(p *models.VulnerablePerson) {
	if r.FirstName != nil {
		p.FirstName = strings.TrimSpace(*r.FirstName)
	}
	if r.LastName != nil {
		p.LastName = strings.TrimSpace(*r.LastName)
	}
	if r.Age != nil {
		p.Age = *r.Age
	}
	if r.Phone != nil {
		p.Phone = *r.Phone
	}
	if r.Email != nil {
		p.Email = strings.TrimSpace(*r.Email)
	}
	if r.Address != nil {
		p.Address = *r.Address
	}
	if r.CurrentLocation != nil {
		p.CurrentLocation = *r.CurrentLocation
	}
	if r.RiskLevel != nil {
		p.RiskLevel = *r.RiskLevel
	}
	if r.CurrentStatus != nil {
		p.CurrentStatus = *r.CurrentStatus
	}
	if r.MedicalConditions != nil {
		p.MedicalConditions = *r.MedicalConditions
	}
	if r.Medications != nil {
		p.Medications = *r.Medications
	}
	if r.Allergies != nil {
		p.Allergies = *r.Allergies
	}
	if r.GPSDeviceID.Set {
		p.GPSDeviceID = normalizeDeviceID(r.GPSDeviceID.Value)
	}
	if r.IsBeingMonitored != nil {
		p.IsBeingMonitored = *r.IsBeingMonitored
	}
	if r.LastKnownLocation != nil {
		p.LastKnownLocation = *r.LastKnownLocation
	}
	r.LastContactTime.Apply(&p.LastContactTime)
	r.AssignedSupervisor.Apply(&p.AssignedSupervisorID)
}

// normalizeDeviceID stores a blank device id as null so the unique index only
// covers real devices.
func normalizeDeviceID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
