package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/vtps-backend/pkg/logger"
	"github.com/angelmondragon/vtps-backend/pkg/metrics"
)

const (
	LocationRetentionJobName     = "location-retention"
	NotificationRetentionJobName = "notification-retention"
)

// Deleter removes rows created before the cutoff and reports how many went.
type Deleter interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionSource reports the configured retention window in days.
type RetentionSource interface {
	RetentionDays(ctx context.Context) (int, error)
}

// RetentionJobParams configure a retention job.
type RetentionJobParams struct {
	Name      string
	Logger    *logger.Logger
	Deleter   Deleter
	Retention RetentionSource
	Metrics   *metrics.CronJobMetrics
	Now       func() time.Time
}

// RetentionJob deletes rows older than the data_retention_days setting.
type RetentionJob struct {
	name      string
	logg      *logger.Logger
	deleter   Deleter
	retention RetentionSource
	metrics   *metrics.CronJobMetrics
	now       func() time.Time
}

// NewRetentionJob builds a retention job.
func NewRetentionJob(params RetentionJobParams) (*RetentionJob, error) {
	if params.Name == "" {
		return nil, errors.New("job name required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Deleter == nil {
		return nil, errors.New("deleter required")
	}
	if params.Retention == nil {
		return nil, errors.New("retention source required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &RetentionJob{
		name:      params.Name,
		logg:      params.Logger,
		deleter:   params.Deleter,
		retention: params.Retention,
		metrics:   params.Metrics,
		now:       now,
	}, nil
}

func (j *RetentionJob) Name() string { return j.name }

func (j *RetentionJob) Run(ctx context.Context) error {
	days, err := j.retention.RetentionDays(ctx)
	if err != nil {
		return fmt.Errorf("read retention window: %w", err)
	}
	if days <= 0 {
		j.logg.Info(ctx, "cron.retention_disabled")
		return nil
	}
	cutoff := j.now().UTC().AddDate(0, 0, -days)
	deleted, err := j.deleter.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete rows before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	j.metrics.AddDeleted(j.name, deleted)
	ctx = j.logg.WithFields(ctx, map[string]any{
		"deleted":        deleted,
		"retention_days": days,
	})
	j.logg.Info(ctx, "cron.retention_swept")
	return nil
}
