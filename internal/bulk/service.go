// Package bulk applies one sparse change to many alerts or people. Each target
// is saved on its own; the result reports every identifier's outcome and
// overlapping concurrent requests resolve last-write-wins per row.
package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/vtps-backend/internal/access"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/logger"
	"github.com/google/uuid"
)

type Service interface {
	UpdateAlerts(ctx context.Context, req AlertUpdateRequest) (*Result, error)
	UpdatePeople(ctx context.Context, req PersonUpdateRequest) (*Result, error)
}

type alertRepository interface {
	access.UserLoader
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Alert, error)
	Save(ctx context.Context, alert *models.Alert) error
}

type personRepository interface {
	access.UserLoader
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.VulnerablePerson, error)
	Save(ctx context.Context, person *models.VulnerablePerson) error
}

type service struct {
	alerts alertRepository
	people personRepository
	logg   *logger.Logger
}

func NewService(alertRepo alertRepository, personRepo personRepository, logg *logger.Logger) (Service, error) {
	if alertRepo == nil {
		return nil, fmt.Errorf("alert repository is required")
	}
	if personRepo == nil {
		return nil, fmt.Errorf("person repository is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{alerts: alertRepo, people: personRepo, logg: logg}, nil
}

func (s *service) UpdateAlerts(ctx context.Context, req AlertUpdateRequest) (*Result, error) {
	if req.AssignedTo != nil {
		if err := access.ResolveUser(ctx, s.alerts, "assigned_to", *req.AssignedTo); err != nil {
			return nil, err
		}
	}
	ids := dedupe(req.AlertIDs)
	rows, err := s.alerts.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load alerts")
	}
	byID := make(map[uuid.UUID]*models.Alert, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	result := &Result{Results: make([]ItemResult, 0, len(ids))}
	for _, id := range ids {
		alert, ok := byID[id]
		if !ok {
			result.add(id, OutcomeNotFound, nil)
			continue
		}
		alert.Status = req.Status
		if req.AssignedTo != nil {
			assignee := *req.AssignedTo
			alert.AssignedToID = &assignee
		}
		if req.ResolutionNotes != "" {
			alert.ResolutionNotes = req.ResolutionNotes
		}
		if err := s.alerts.Save(ctx, alert); err != nil {
			s.logg.Error(s.logg.WithField(ctx, "alert_id", id.String()), "bulk.alert_update_failed", err)
			result.add(id, OutcomeFailed, errSaveFailed)
			continue
		}
		result.add(id, OutcomeUpdated, nil)
	}
	return result, nil
}

func (s *service) UpdatePeople(ctx context.Context, req PersonUpdateRequest) (*Result, error) {
	if req.AssignedSupervisor != nil {
		if err := access.ResolveUser(ctx, s.people, "assigned_supervisor", *req.AssignedSupervisor); err != nil {
			return nil, err
		}
	}
	ids := dedupe(req.PersonIDs)
	rows, err := s.people.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load people")
	}
	byID := make(map[uuid.UUID]*models.VulnerablePerson, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	result := &Result{Results: make([]ItemResult, 0, len(ids))}
	for _, id := range ids {
		person, ok := byID[id]
		if !ok {
			result.add(id, OutcomeNotFound, nil)
			continue
		}
		if req.AssignedSupervisor != nil {
			supervisor := *req.AssignedSupervisor
			person.AssignedSupervisorID = &supervisor
		}
		if req.RiskLevel != "" {
			person.RiskLevel = req.RiskLevel
		}
		if req.IsBeingMonitored != nil {
			person.IsBeingMonitored = *req.IsBeingMonitored
		}
		if err := s.people.Save(ctx, person); err != nil {
			s.logg.Error(s.logg.WithField(ctx, "person_id", id.String()), "bulk.person_update_failed", err)
			result.add(id, OutcomeFailed, errSaveFailed)
			continue
		}
		result.add(id, OutcomeUpdated, nil)
	}
	return result, nil
}

var errSaveFailed = errors.New("save failed")

// dedupe keeps the first occurrence of each id.
func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
