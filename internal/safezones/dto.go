package safezones

import (
	"strings"
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultRadiusMeters = 100
	allDays             = "1234567"
)

// SafeZoneDTO is the wire shape of a safe zone.
type SafeZoneDTO struct {
	ID              uuid.UUID       `json:"id"`
	Person          uuid.UUID       `json:"person"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	CenterLatitude  decimal.Decimal `json:"center_latitude"`
	CenterLongitude decimal.Decimal `json:"center_longitude"`
	RadiusMeters    int             `json:"radius_meters"`
	ActiveStartTime *string         `json:"active_start_time"`
	ActiveEndTime   *string         `json:"active_end_time"`
	ActiveDays      string          `json:"active_days"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type CreateRequest struct {
	Person          uuid.UUID        `json:"person" validate:"required"`
	Name            string           `json:"name" validate:"required,max=100"`
	Description     string           `json:"description"`
	CenterLatitude  *decimal.Decimal `json:"center_latitude" validate:"required,gte=-90,lte=90"`
	CenterLongitude *decimal.Decimal `json:"center_longitude" validate:"required,gte=-180,lte=180"`
	RadiusMeters    *int             `json:"radius_meters" validate:"omitempty,gt=0"`
	ActiveStartTime *string          `json:"active_start_time" validate:"omitempty,timeofday"`
	ActiveEndTime   *string          `json:"active_end_time" validate:"omitempty,timeofday"`
	ActiveDays      *string          `json:"active_days" validate:"omitempty,weekdays"`
	IsActive        *bool            `json:"is_active"`
}

// UpdateRequest carries a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Person          *uuid.UUID       `json:"person"`
	Name            *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Description     *string          `json:"description"`
	CenterLatitude  *decimal.Decimal `json:"center_latitude" validate:"omitempty,gte=-90,lte=90"`
	CenterLongitude *decimal.Decimal `json:"center_longitude" validate:"omitempty,gte=-180,lte=180"`
	RadiusMeters    *int             `json:"radius_meters" validate:"omitempty,gt=0"`
	ActiveStartTime *string          `json:"active_start_time" validate:"omitempty,timeofday"`
	ActiveEndTime   *string          `json:"active_end_time" validate:"omitempty,timeofday"`
	ActiveDays      *string          `json:"active_days" validate:"omitempty,weekdays"`
	IsActive        *bool            `json:"is_active"`
}

var PutFields = []string{"person", "name", "center_latitude", "center_longitude"}

type ListFilter struct {
	Person   *uuid.UUID
	IsActive *bool
	Search   string
}

func FromModel(z *models.SafeZone) SafeZoneDTO {
	return SafeZoneDTO{
		ID:              z.ID,
		Person:          z.PersonID,
		Name:            z.Name,
		Description:     z.Description,
		CenterLatitude:  z.CenterLatitude,
		CenterLongitude: z.CenterLongitude,
		RadiusMeters:    z.RadiusMeters,
		ActiveStartTime: z.ActiveStartTime,
		ActiveEndTime:   z.ActiveEndTime,
		ActiveDays:      z.ActiveDays,
		IsActive:        z.IsActive,
		CreatedAt:       z.CreatedAt,
		UpdatedAt:       z.UpdatedAt,
	}
}

func FromModels(rows []models.SafeZone) []SafeZoneDTO {
	out := make([]SafeZoneDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

func (r CreateRequest) toModel() *models.SafeZone {
	zone := &models.SafeZone{
		PersonID:        r.Person,
		Name:            strings.TrimSpace(r.Name),
		Description:     r.Description,
		CenterLatitude:  *r.CenterLatitude,
		CenterLongitude: *r.CenterLongitude,
		RadiusMeters:    defaultRadiusMeters,
		ActiveStartTime: r.ActiveStartTime,
		ActiveEndTime:   r.ActiveEndTime,
		ActiveDays:      allDays,
		IsActive:        true,
	}
	if r.RadiusMeters != nil {
		zone.RadiusMeters = *r.RadiusMeters
	}
	if r.ActiveDays != nil {
		zone.ActiveDays = *r.ActiveDays
	}
	if r.IsActive != nil {
		zone.IsActive = *r.IsActive
	}
	return zone
}

func (r UpdateRequest) apply(z *models.SafeZone) {
	if r.Person != nil {
		z.PersonID = *r.Person
	}
	if r.Name != nil {
		z.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		z.Description = *r.Description
	}
	if r.CenterLatitude != nil {
		z.CenterLatitude = *r.CenterLatitude
	}
	if r.CenterLongitude != nil {
		z.CenterLongitude = *r.CenterLongitude
	}
	if r.RadiusMeters != nil {
		z.RadiusMeters = *r.RadiusMeters
	}
	if r.ActiveStartTime != nil {
		z.ActiveStartTime = r.ActiveStartTime
	}
	if r.ActiveEndTime != nil {
		z.ActiveEndTime = r.ActiveEndTime
	}
	if r.ActiveDays != nil {
		z.ActiveDays = *r.ActiveDays
	}
	if r.IsActive != nil {
		z.IsActive = *r.IsActive
	}
}
