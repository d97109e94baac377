package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/vtps-backend/pkg/logger"
	"github.com/angelmondragon/vtps-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type fakeLock struct {
	acquired bool
	releases int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.acquired {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.acquired = false
	f.releases++
	return nil
}

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func mustRegistry(t *testing.T, jobs ...Job) *Registry {
	t.Helper()
	registry, err := NewRegistry(jobs...)
	require.NoError(t, err)
	return registry
}

func newTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test"})
}

func TestRunOnceRunsAllJobsEvenOnFailure(t *testing.T) {
	ok := &testJob{name: "success"}
	first := &testJob{name: "fail-a", err: errors.New("boom")}
	second := &testJob{name: "fail-b", err: errors.New("bang")}
	lock := &fakeLock{}
	service, err := NewService(ServiceParams{
		Logger:   newTestLogger(),
		Registry: mustRegistry(t, first, ok, second),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.NewRegistry()),
	})
	require.NoError(t, err)

	err = service.RunOnce(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "fail-a: boom")
	require.ErrorContains(t, err, "fail-b: bang")
	require.Equal(t, 1, ok.runs)
	require.Equal(t, 1, first.runs)
	require.Equal(t, 1, second.runs)
	require.Equal(t, 1, lock.releases)
	require.False(t, lock.acquired)
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	job := &testJob{name: "noop"}
	service, err := NewService(ServiceParams{
		Logger:   newTestLogger(),
		Registry: mustRegistry(t, job),
		Lock:     &fakeLock{acquired: true},
	})
	require.NoError(t, err)

	require.NoError(t, service.RunOnce(context.Background()))
	require.Zero(t, job.runs)
}

func TestNewServiceRequiresLock(t *testing.T) {
	_, err := NewService(ServiceParams{Logger: newTestLogger()})
	require.Error(t, err)
}
