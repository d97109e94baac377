package contacts

import (
	"strings"
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/google/uuid"
)

// ContactDTO is the wire shape of an emergency contact.
type ContactDTO struct {
	ID           uuid.UUID          `json:"id"`
	Person       uuid.UUID          `json:"person"`
	Name         string             `json:"name"`
	Relationship enums.Relationship `json:"relationship"`
	Phone        string             `json:"phone"`
	Email        string             `json:"email"`
	IsPrimary    bool               `json:"is_primary"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Input is a contact without its owning person, used when contacts are
// created together with a person.
type Input struct {
	Name         string             `json:"name" validate:"required,max=200"`
	Relationship enums.Relationship `json:"relationship" validate:"required,oneof=son daughter spouse sibling parent friend caregiver other"`
	Phone        string             `json:"phone" validate:"required,phone"`
	Email        string             `json:"email" validate:"omitempty,email,max=254"`
	IsPrimary    bool               `json:"is_primary"`
}

// CreateRequest creates a contact for an existing person.
type CreateRequest struct {
	Person       uuid.UUID          `json:"person" validate:"required"`
	Name         string             `json:"name" validate:"required,max=200"`
	Relationship enums.Relationship `json:"relationship" validate:"required,oneof=son daughter spouse sibling parent friend caregiver other"`
	Phone        string             `json:"phone" validate:"required,phone"`
	Email        string             `json:"email" validate:"omitempty,email,max=254"`
	IsPrimary    bool               `json:"is_primary"`
}

// UpdateRequest carries a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Person       *uuid.UUID          `json:"person"`
	Name         *string             `json:"name" validate:"omitempty,min=1,max=200"`
	Relationship *enums.Relationship `json:"relationship" validate:"omitempty,oneof=son daughter spouse sibling parent friend caregiver other"`
	Phone        *string             `json:"phone" validate:"omitempty,phone"`
	Email        *string             `json:"email" validate:"omitempty,email,max=254"`
	IsPrimary    *bool               `json:"is_primary"`
}

// PutFields lists the fields a full replacement must carry.
var PutFields = []string{"person", "name", "relationship", "phone"}

// ListFilter narrows the contact list.
type ListFilter struct {
	Person    *uuid.UUID
	IsPrimary *bool
	Search    string
}

func FromModel(c *models.EmergencyContact) ContactDTO {
	return ContactDTO{
		ID:           c.ID,
		Person:       c.PersonID,
		Name:         c.Name,
		Relationship: c.Relationship,
		Phone:        c.Phone,
		Email:        c.Email,
		IsPrimary:    c.IsPrimary,
		CreatedAt:    c.CreatedAt,
	}
}

// FromModels keeps the order of the input slice.
func FromModels(rows []models.EmergencyContact) []ContactDTO {
	out := make([]ContactDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

// ToModel builds a contact owned by personID.
func (in Input) ToModel(personID uuid.UUID) *models.EmergencyContact {
	return &models.EmergencyContact{
		PersonID:     personID,
		Name:         strings.TrimSpace(in.Name),
		Relationship: in.Relationship,
		Phone:        in.Phone,
		Email:        strings.TrimSpace(in.Email),
		IsPrimary:    in.IsPrimary,
	}
}

func (r CreateRequest) toModel() *models.EmergencyContact {
	return Input{
		Name:         r.Name,
		Relationship: r.Relationship,
		Phone:        r.Phone,
		Email:        r.Email,
		IsPrimary:    r.IsPrimary,
	}.ToModel(r.Person)
}

func (r UpdateRequest) apply(c *models.EmergencyContact) {
	if r.Person != nil {
		c.PersonID = *r.Person
	}
	if r.Name != nil {
		c.Name = strings.TrimSpace(*r.Name)
	}
	if r.Relationship != nil {
		c.Relationship = *r.Relationship
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.Email != nil {
		c.Email = strings.TrimSpace(*r.Email)
	}
	if r.IsPrimary != nil {
		c.IsPrimary = *r.IsPrimary
	}
}
