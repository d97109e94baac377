// Package dashboard assembles the operator overview: person counters, the
// newest alerts and a short people list.
package dashboard

import (
	"context"
	"fmt"

	"github.com/angelmondragon/vtps-backend/internal/alerts"
	"github.com/angelmondragon/vtps-backend/internal/people"
	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vtps-backend/pkg/errors"
	"github.com/angelmondragon/vtps-backend/pkg/pagination"
)

// previewSize bounds both embedded lists.
const previewSize = 10

// StatsDTO is the dashboard payload.
type StatsDTO struct {
	TotalPeople    int64                `json:"total_people"`
	SafeCount      int64                `json:"safe_count"`
	WarningCount   int64                `json:"warning_count"`
	EmergencyCount int64                `json:"emergency_count"`
	ActiveAlerts   int64                `json:"active_alerts"`
	TotalTracked   int64                `json:"total_tracked"`
	RecentAlerts   []alerts.AlertDTO    `json:"recent_alerts"`
	PeopleStatus   []people.ListItemDTO `json:"people_status"`
}

type Service interface {
	Stats(ctx context.Context) (*StatsDTO, error)
}

type personStats interface {
	Stats(ctx context.Context) (people.Stats, error)
}

type alertReader interface {
	CountByStatus(ctx context.Context, status enums.AlertStatus) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.Alert, error)
}

type personLister interface {
	List(ctx context.Context, filter people.ListFilter, params pagination.Params) (pagination.Page[people.ListItemDTO], error)
}

type service struct {
	stats  personStats
	alerts alertReader
	people personLister
}

func NewService(stats personStats, alertRepo alertReader, peopleSvc personLister) (Service, error) {
	if stats == nil {
		return nil, fmt.Errorf("person stats source is required")
	}
	if alertRepo == nil {
		return nil, fmt.Errorf("alert repository is required")
	}
	if peopleSvc == nil {
		return nil, fmt.Errorf("people service is required")
	}
	return &service{stats: stats, alerts: alertRepo, people: peopleSvc}, nil
}

func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	counts, err := s.stats.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count people")
	}
	active, err := s.alerts.CountByStatus(ctx, enums.AlertStatusActive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count active alerts")
	}
	recent, err := s.alerts.Recent(ctx, previewSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recent alerts")
	}
	page, err := s.people.List(ctx, people.ListFilter{}, pagination.Params{Page: 1, Limit: previewSize})
	if err != nil {
		return nil, err
	}

	return &StatsDTO{
		TotalPeople:    counts.Total,
		SafeCount:      counts.Safe,
		WarningCount:   counts.Warning,
		EmergencyCount: counts.Emergency,
		ActiveAlerts:   active,
		TotalTracked:   counts.Tracked,
		RecentAlerts:   alerts.FromModels(recent),
		PeopleStatus:   page.Results,
	}, nil
}
