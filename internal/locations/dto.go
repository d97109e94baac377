package locations

import (
	"strings"
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LocationDTO is the wire shape of a location log entry.
type LocationDTO struct {
	ID                  uuid.UUID        `json:"id"`
	Person              uuid.UUID        `json:"person"`
	PersonName          string           `json:"person_name"`
	Latitude            decimal.Decimal  `json:"latitude"`
	Longitude           decimal.Decimal  `json:"longitude"`
	Accuracy            *decimal.Decimal `json:"accuracy"`
	Altitude            *decimal.Decimal `json:"altitude"`
	Speed               *decimal.Decimal `json:"speed"`
	BatteryLevel        *int             `json:"battery_level"`
	LocationDescription string           `json:"location_description"`
	IsSafeZone          bool             `json:"is_safe_zone"`
	Timestamp           time.Time        `json:"timestamp"`
}

// CreateRequest is what a GPS device reports. The device id is resolved to
// the person carrying it.
type CreateRequest struct {
	DeviceID            string           `json:"device_id" validate:"required,max=100"`
	Latitude            *decimal.Decimal `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude           *decimal.Decimal `json:"longitude" validate:"required,gte=-180,lte=180"`
	Accuracy            *decimal.Decimal `json:"accuracy" validate:"omitempty,gte=0,lt=10000"`
	Altitude            *decimal.Decimal `json:"altitude" validate:"omitempty,gt=-1000000,lt=1000000"`
	Speed               *decimal.Decimal `json:"speed" validate:"omitempty,gte=0,lt=10000"`
	BatteryLevel        *int             `json:"battery_level" validate:"omitempty,gte=0,lte=100"`
	LocationDescription string           `json:"location_description" validate:"max=255"`
	IsSafeZone          *bool            `json:"is_safe_zone"`
}

type ListFilter struct {
	Person     *uuid.UUID
	IsSafeZone *bool
	Search     string
}

func FromModel(l *models.LocationLog) LocationDTO {
	dto := LocationDTO{
		ID:                  l.ID,
		Person:              l.PersonID,
		Latitude:            l.Latitude,
		Longitude:           l.Longitude,
		Accuracy:            l.Accuracy,
		Altitude:            l.Altitude,
		Speed:               l.Speed,
		BatteryLevel:        l.BatteryLevel,
		LocationDescription: l.LocationDescription,
		IsSafeZone:          l.IsSafeZone,
		Timestamp:           l.Timestamp,
	}
	if l.Person != nil {
		dto.PersonName = l.Person.FullName()
	}
	return dto
}

func FromModels(rows []models.LocationLog) []LocationDTO {
	out := make([]LocationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

func (r CreateRequest) toModel(person *models.VulnerablePerson) *models.LocationLog {
	isSafe := true
	if r.IsSafeZone != nil {
		isSafe = *r.IsSafeZone
	}
	return &models.LocationLog{
		PersonID:            person.ID,
		Person:              person,
		Latitude:            *r.Latitude,
		Longitude:           *r.Longitude,
		Accuracy:            r.Accuracy,
		Altitude:            r.Altitude,
		Speed:               r.Speed,
		BatteryLevel:        r.BatteryLevel,
		LocationDescription: strings.TrimSpace(r.LocationDescription),
		IsSafeZone:          isSafe,
	}
}
