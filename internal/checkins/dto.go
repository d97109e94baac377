package checkins

import (
	"strings"
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/db/models"
	"github.com/angelmondragon/vtps-backend/pkg/enums"
	"github.com/angelmondragon/vtps-backend/pkg/types"
	"github.com/google/uuid"
)

const (
	allDays                      = "1234567"
	defaultReminderMinutesBefore = 30
)

// ScheduleDTO is the wire shape of a check-in schedule.
type ScheduleDTO struct {
	ID                    uuid.UUID              `json:"id"`
	Person                uuid.UUID              `json:"person"`
	PersonName            string                 `json:"person_name"`
	Name                  string                 `json:"name"`
	Frequency             enums.CheckInFrequency `json:"frequency"`
	ScheduledTime         string                 `json:"scheduled_time"`
	DaysOfWeek            string                 `json:"days_of_week"`
	ReminderMinutesBefore int                    `json:"reminder_minutes_before"`
	IsActive              bool                   `json:"is_active"`
	CreatedAt             time.Time              `json:"created_at"`
}

type ScheduleCreateRequest struct {
	Person                uuid.UUID              `json:"person" validate:"required"`
	Name                  string                 `json:"name" validate:"required,max=100"`
	Frequency             enums.CheckInFrequency `json:"frequency" validate:"omitempty,oneof=daily weekly custom"`
	ScheduledTime         string                 `json:"scheduled_time" validate:"required,timeofday"`
	DaysOfWeek            *string                `json:"days_of_week" validate:"omitempty,weekdays"`
	ReminderMinutesBefore *int                   `json:"reminder_minutes_before" validate:"omitempty,gte=0"`
	IsActive              *bool                  `json:"is_active"`
}

// ScheduleUpdateRequest carries a partial update; nil fields are left untouched.
type ScheduleUpdateRequest struct {
	Person                *uuid.UUID              `json:"person"`
	Name                  *string                 `json:"name" validate:"omitempty,min=1,max=100"`
	Frequency             *enums.CheckInFrequency `json:"frequency" validate:"omitempty,oneof=daily weekly custom"`
	ScheduledTime         *string                 `json:"scheduled_time" validate:"omitempty,timeofday"`
	DaysOfWeek            *string                 `json:"days_of_week" validate:"omitempty,weekdays"`
	ReminderMinutesBefore *int                    `json:"reminder_minutes_before" validate:"omitempty,gte=0"`
	IsActive              *bool                   `json:"is_active"`
}

var SchedulePutFields = []string{"person", "name", "scheduled_time"}

type ScheduleFilter struct {
	Person   *uuid.UUID
	IsActive *bool
	Search   string
}

// LogDTO is the wire shape of a check-in log entry.
type LogDTO struct {
	ID            uuid.UUID           `json:"id"`
	Schedule      uuid.UUID           `json:"schedule"`
	ScheduleName  string              `json:"schedule_name"`
	Person        uuid.UUID           `json:"person"`
	PersonName    string              `json:"person_name"`
	ScheduledTime time.Time           `json:"scheduled_time"`
	ActualTime    *time.Time          `json:"actual_time"`
	Status        enums.CheckInStatus `json:"status"`
	Notes         string              `json:"notes"`
	Location      string              `json:"location"`
	CreatedAt     time.Time           `json:"created_at"`
}

// LogCreateRequest completes a check-in against a schedule. The person is
// taken from the schedule.
type LogCreateRequest struct {
	Schedule uuid.UUID `json:"schedule" validate:"required"`
	Notes    string    `json:"notes"`
	Location string    `json:"location" validate:"max=255"`
}

// LogUpdateRequest carries a partial update of a log entry.
type LogUpdateRequest struct {
	Schedule      *uuid.UUID                `json:"schedule"`
	ScheduledTime *time.Time                `json:"scheduled_time"`
	ActualTime    types.Nullable[time.Time] `json:"actual_time"`
	Status        *enums.CheckInStatus      `json:"status" validate:"omitempty,oneof=completed missed late"`
	Notes         *string                   `json:"notes"`
	Location      *string                   `json:"location" validate:"omitempty,max=255"`
}

var LogPutFields = []string{"schedule", "scheduled_time", "status"}

type LogFilter struct {
	Person   *uuid.UUID
	Status   *enums.CheckInStatus
	Schedule *uuid.UUID
	Search   string
}

func ScheduleFromModel(s *models.CheckInSchedule) ScheduleDTO {
	dto := ScheduleDTO{
		ID:                    s.ID,
		Person:                s.PersonID,
		Name:                  s.Name,
		Frequency:             s.Frequency,
		ScheduledTime:         s.ScheduledTime,
		DaysOfWeek:            s.DaysOfWeek,
		ReminderMinutesBefore: s.ReminderMinutesBefore,
		IsActive:              s.IsActive,
		CreatedAt:             s.CreatedAt,
	}
	if s.Person != nil {
		dto.PersonName = s.Person.FullName()
	}
	return dto
}

func ScheduleFromModels(rows []models.CheckInSchedule) []ScheduleDTO {
	out := make([]ScheduleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ScheduleFromModel(&rows[i]))
	}
	return out
}

func LogFromModel(l *models.CheckInLog) LogDTO {
	dto := LogDTO{
		ID:            l.ID,
		Schedule:      l.ScheduleID,
		Person:        l.PersonID,
		ScheduledTime: l.ScheduledTime,
		ActualTime:    l.ActualTime,
		Status:        l.Status,
		Notes:         l.Notes,
		Location:      l.Location,
		CreatedAt:     l.CreatedAt,
	}
	if l.Schedule != nil {
		dto.ScheduleName = l.Schedule.Name
	}
	if l.Person != nil {
		dto.PersonName = l.Person.FullName()
	}
	return dto
}

func LogFromModels(rows []models.CheckInLog) []LogDTO {
	out := make([]LogDTO, 0, len(rows))
	for i := range rows {
		out = append(out, LogFromModel(&rows[i]))
	}
	return out
}

func (r ScheduleCreateRequest) toModel() *models.CheckInSchedule {
	schedule := &models.CheckInSchedule{
		PersonID:              r.Person,
		Name:                  strings.TrimSpace(r.Name),
		Frequency:             r.Frequency,
		ScheduledTime:         r.ScheduledTime,
		DaysOfWeek:            allDays,
		ReminderMinutesBefore: defaultReminderMinutesBefore,
		IsActive:              true,
	}
	if schedule.Frequency == "" {
		schedule.Frequency = enums.CheckInFrequencyDaily
	}
	if r.DaysOfWeek != nil {
		schedule.DaysOfWeek = *r.DaysOfWeek
	}
	if r.ReminderMinutesBefore != nil {
		schedule.ReminderMinutesBefore = *r.ReminderMinutesBefore
	}
	if r.IsActive != nil {
		schedule.IsActive = *r.IsActive
	}
	return schedule
}

func (r ScheduleUpdateRequest) apply(s *models.CheckInSchedule) {
	if r.Person != nil {
		s.PersonID = *r.Person
	}
	if r.Name != nil {
		s.Name = strings.TrimSpace(*r.Name)
	}
	if r.Frequency != nil {
		s.Frequency = *r.Frequency
	}
	if r.ScheduledTime != nil {
		s.ScheduledTime = *r.ScheduledTime
	}
	if r.DaysOfWeek != nil {
		s.DaysOfWeek = *r.DaysOfWeek
	}
	if r.ReminderMinutesBefore != nil {
		s.ReminderMinutesBefore = *r.ReminderMinutesBefore
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
}

// toModel records a completed check-in at now.
func (r LogCreateRequest) toModel(schedule *models.CheckInSchedule, now time.Time) *models.CheckInLog {
	return &models.CheckInLog{
		ScheduleID:    schedule.ID,
		PersonID:      schedule.PersonID,
		ScheduledTime: now,
		ActualTime:    &now,
		Status:        enums.CheckInStatusCompleted,
		Notes:         r.Notes,
		Location:      strings.TrimSpace(r.Location),
	}
}

func (r LogUpdateRequest) apply(l *models.CheckInLog) {
	if r.ScheduledTime != nil {
		l.ScheduledTime = r.ScheduledTime.UTC()
	}
	r.ActualTime.Apply(&l.ActualTime)
	if r.Status != nil {
		l.Status = *r.Status
	}
	if r.Notes != nil {
		l.Notes = *r.Notes
	}
	if r.Location != nil {
		l.Location = strings.TrimSpace(*r.Location)
	}
}
