package access

import (
	"context"

	pkgdb "github.com/angelmondragon/vtps-backend/pkg/db"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/google/uuid"
)

// PersonLoader resolves the ownership columns of a tracked person.
type PersonLoader interface {
	PersonRef(ctx context.Context, id uuid.UUID) (*models.VulnerablePerson, error)
}

// ResolvePerson loads the referenced person, reporting a missing one as a
// validation error on field.
func ResolvePerson(ctx context.Context, loader PersonLoader, field string, id uuid.UUID) (*models.VulnerablePerson, error) {
	person, err := loader.PersonRef(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.Field(field, "object does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load person")
	}
	return person, nil
}

// AuthorizePersonWrite resolves the person and applies IsOwnerOrSupervisor to it.
func AuthorizePersonWrite(ctx context.Context, loader PersonLoader, actor Principal, personID uuid.UUID) error {
	person, err := ResolvePerson(ctx, loader, "person", personID)
	if err != nil {
		return err
	}
	return CheckOwnerOrSupervisor(actor, OwnershipOf(person))
}

// UserLoader checks that a referenced user exists.
type UserLoader interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ResolveUser reports a missing user as a validation error on field.
func ResolveUser(ctx context.Context, loader UserLoader, field string, id uuid.UUID) error {
	ok, err := loader.UserExists(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if !ok {
		return pkgerrors.Field(field, "object does not exist")
	}
	return nil
}
