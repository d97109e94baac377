package bulk

import (
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/google/uuid"
)

// Outcome values reported per target.
const (
	OutcomeUpdated  = "updated"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

// AlertUpdateRequest applies one status, and optionally an assignee and
// resolution notes, to every listed alert.
type AlertUpdateRequest struct {
	AlertIDs        []uuid.UUID       `json:"alert_ids" validate:"required,min=1,max=500"`
	Status          enums.AlertStatus `json:"status" validate:"required,oneof=active investigating resolved dismissed"`
	AssignedTo      *uuid.UUID        `json:"assigned_to"`
	ResolutionNotes string            `json:"resolution_notes"`
}

// PersonUpdateRequest applies the present fields to every listed person.
type PersonUpdateRequest struct {
	PersonIDs          []uuid.UUID     `json:"person_ids" validate:"required,min=1,max=500"`
	AssignedSupervisor *uuid.UUID      `json:"assigned_supervisor"`
	RiskLevel          enums.RiskLevel `json:"risk_level" validate:"omitempty,oneof=low medium high"`
	IsBeingMonitored   *bool           `json:"is_being_monitored"`
}

// ItemResult is the outcome for one requested identifier.
type ItemResult struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
	Error  string    `json:"error,omitempty"`
}

// Result lists the per-identifier outcomes in request order.
type Result struct {
	Results []ItemResult `json:"results"`
	Updated int          `json:"updated"`
	Failed  int          `json:"failed"`
}

func (r *Result) add(id uuid.UUID, status string, err error) {
	item := ItemResult{ID: id, Status: status}
	if err != nil {
		item.Error = err.Error()
	}
	switch status {
	case OutcomeUpdated:
		r.Updated++
	default:
		r.Failed++
	}
	r.Results = append(r.Results, item)
}
