package people

import (
	"context"
	"fmt"

	"github.com/angelmondragon/vtps-backend/internal/access"
	"github.com/angelmondragon/vtps-backend/internal/alerts"
	"github.com/angelmondragon/vtps-backend/internal/contacts"
	"github.com/angelmondragon/vtps-backend/internal/locations"
	"github.com/angelmondragon/vtps-backend/internal/safezones"
	pkgdb "github.com/angelmondragon/vtps-backend/pkg/db"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// recentLocationsLimit bounds the location history embedded in a detail.
const recentLocationsLimit = 10

// Service manages tracked people and assembles their list and detail
// representations.
type Service interface {
	List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[ListItemDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*DetailDTO, error)
	Create(ctx context.Context, actor access.Principal, req CreateRequest) (*DetailDTO, error)
	Update(ctx context.Context, actor access.Principal, id uuid.UUID, req UpdateRequest) (*DetailDTO, error)
	Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type personRepository interface {
	access.UserLoader
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.VulnerablePerson, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.VulnerablePerson, error)
	Save(ctx context.Context, person *models.VulnerablePerson) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactRepository interface {
	ForPerson(ctx context.Context, personID uuid.UUID) ([]models.EmergencyContact, error)
	CountByPerson(ctx context.Context, personIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type zoneRepository interface {
	ForPerson(ctx context.Context, personID uuid.UUID) ([]models.SafeZone, error)
}

type locationRepository interface {
	Recent(ctx context.Context, personID uuid.UUID, limit int) ([]models.LocationLog, error)
	Latest(ctx context.Context, personIDs []uuid.UUID) (map[uuid.UUID]models.LocationLog, error)
}

type alertRepository interface {
	ActiveForPerson(ctx context.Context, personID uuid.UUID) ([]models.Alert, error)
	ActiveCounts(ctx context.Context, personIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type service struct {
	db        txRunner
	people    personRepository
	contacts  contactRepository
	zones     zoneRepository
	locations locationRepository
	alerts    alertRepository
}

// ServiceParams bundles the dependencies required to build a people service.
type ServiceParams struct {
	DB           txRunner
	Repo         personRepository
	ContactRepo  contactRepository
	ZoneRepo     zoneRepository
	LocationRepo locationRepository
	AlertRepo    alertRepository
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("person repository is required")
	}
	if params.ContactRepo == nil {
		return nil, fmt.Errorf("contact repository is required")
	}
	if params.ZoneRepo == nil {
		return nil, fmt.Errorf("safe zone repository is required")
	}
	if params.LocationRepo == nil {
		return nil, fmt.Errorf("location repository is required")
	}
	if params.AlertRepo == nil {
		return nil, fmt.Errorf("alert repository is required")
	}
	return &service{
		db:        params.DB,
		people:    params.Repo,
		contacts:  params.ContactRepo,
		zones:     params.ZoneRepo,
		locations: params.LocationRepo,
		alerts:    params.AlertRepo,
	}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[ListItemDTO], error) {
	rows, total, err := s.people.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[ListItemDTO]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list people")
	}
	items, err := s.summarize(ctx, rows)
	if err != nil {
		return pagination.Page[ListItemDTO]{}, err
	}
	return pagination.NewPage(items, total, params), nil
}

func (s *service) summarize(ctx context.Context, rows []models.VulnerablePerson) ([]ListItemDTO, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, p.ID)
	}

	var (
		sum listSummary
		err error
	)
	if sum.contacts, err = s.contacts.CountByPerson(ctx, ids); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count contacts")
	}
	if sum.alerts, err = s.alerts.ActiveCounts(ctx, ids); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count active alerts")
	}
	if sum.latest, err = s.locations.Latest(ctx, ids); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load last locations")
	}

	items := make([]ListItemDTO, 0, len(rows))
	for i := range rows {
		items = append(items, toListItem(&rows[i], sum))
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DetailDTO, error) {
	person, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDetail(person)

	contactRows, err := s.contacts.ForPerson(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load contacts")
	}
	zoneRows, err := s.zones.ForPerson(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load safe zones")
	}
	locationRows, err := s.locations.Recent(ctx, id, recentLocationsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recent locations")
	}
	alertRows, err := s.alerts.ActiveForPerson(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load active alerts")
	}

	dto.EmergencyContacts = contacts.FromModels(contactRows)
	dto.SafeZones = safezones.FromModels(zoneRows)
	dto.RecentLocations = locations.FromModels(locationRows)
	dto.ActiveAlerts = alerts.FromModels(alertRows)
	return &dto, nil
}

// Create stores the person and any nested contacts atomically. The caller is
// recorded as the creator.
func (s *service) Create(ctx context.Context, actor access.Principal, req CreateRequest) (*DetailDTO, error) {
	if req.AssignedSupervisor != nil {
		if err := access.ResolveUser(ctx, s.people, "assigned_supervisor", *req.AssignedSupervisor); err != nil {
			return nil, err
		}
	}

	person := req.toModel(actor.UserID)
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := NewRepository(tx).Create(ctx, person); err != nil {
			return s.mapWriteError(err, "create person")
		}
		nested := make([]*models.EmergencyContact, 0, len(req.EmergencyContacts))
		for _, in := range req.EmergencyContacts {
			nested = append(nested, in.ToModel(person.ID))
		}
		if err := contacts.NewRepository(tx).CreateMany(ctx, nested); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create emergency contacts")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, person.ID)
}

func (s *service) Update(ctx context.Context, actor access.Principal, id uuid.UUID, req UpdateRequest) (*DetailDTO, error) {
	person, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.CheckOwnerOrSupervisor(actor, access.OwnershipOf(person)); err != nil {
		return nil, err
	}
	if req.AssignedSupervisor.Set && req.AssignedSupervisor.Value != nil {
		if err := access.ResolveUser(ctx, s.people, "assigned_supervisor", *req.AssignedSupervisor.Value); err != nil {
			return nil, err
		}
	}

	req.apply(person)
	if err := s.people.Save(ctx, person); err != nil {
		return nil, s.mapWriteError(err, "update person")
	}
	return s.Get(ctx, person.ID)
}

func (s *service) Delete(ctx context.Context, actor access.Principal, id uuid.UUID) error {
	person, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := access.CheckOwnerOrSupervisor(actor, access.OwnershipOf(person)); err != nil {
		return err
	}
	if err := s.people.Delete(ctx, id); err != nil {
		if pkgdb.IsNotFound(err) {
			return pkgerrors.NotFound("person")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete person")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.VulnerablePerson, error) {
	person, err := s.people.FindByID(ctx, id)
	if err != nil {
		if pkgdb.IsNotFound(err) {
			return nil, pkgerrors.NotFound("person")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load person")
	}
	return person, nil
}

func (s *service) mapWriteError(err error, action string) error {
	if pkgdb.IsUniqueViolation(err, "gps_device_id") {
		return pkgerrors.New(pkgerrors.CodeConflict, "a person with that gps device id already exists").
			WithDetails(map[string]string{"gps_device_id": "already in use"})
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}
