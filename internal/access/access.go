// Package access holds the permission predicates shared by handlers and
// services. Both predicates are pure functions of the requester and target.
package access

import (
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/google/uuid"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID      uuid.UUID
	Role        enums.UserRole
	IsSuperuser bool
}

// Ownership names the users recorded against a target entity.
type Ownership struct {
	CreatedBy  *uuid.UUID
	Supervisor *uuid.UUID
}

// IsSupervisorOrAdmin grants superusers and admin/supervisor roles.
func IsSupervisorOrAdmin(p Principal) bool {
	if p.IsSuperuser {
		return true
	}
	return p.Role == enums.UserRoleAdmin || p.Role == enums.UserRoleSupervisor
}

// IsOwnerOrSupervisor additionally grants the entity's creator and its
// assigned supervisor.
func IsOwnerOrSupervisor(p Principal, target Ownership) bool {
	if IsSupervisorOrAdmin(p) {
		return true
	}
	if p.UserID == uuid.Nil {
		return false
	}
	if target.CreatedBy != nil && *target.CreatedBy == p.UserID {
		return true
	}
	return target.Supervisor != nil && *target.Supervisor == p.UserID
}

// ErrForbidden is returned for every denied check so callers cannot tell
// which rule failed.
func ErrForbidden() error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "you do not have permission to perform this action")
}

// OwnershipOf reads the creator and supervisor recorded on a person.
func OwnershipOf(person *models.VulnerablePerson) Ownership {
	if person == nil {
		return Ownership{}
	}
	return Ownership{CreatedBy: person.CreatedByID, Supervisor: person.AssignedSupervisorID}
}

// CheckOwnerOrSupervisor returns ErrForbidden when IsOwnerOrSupervisor denies.
func CheckOwnerOrSupervisor(p Principal, target Ownership) error {
	if !IsOwnerOrSupervisor(p, target) {
		return ErrForbidden()
	}
	return nil
}

// CheckSupervisorOrAdmin returns ErrForbidden when IsSupervisorOrAdmin denies.
func CheckSupervisorOrAdmin(p Principal) error {
	if !IsSupervisorOrAdmin(p) {
		return ErrForbidden()
	}
	return nil
}
