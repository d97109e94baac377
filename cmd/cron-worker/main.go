package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/vtps-backend/internal/cron"
	"github.com/angelmondragon/vtps-backend/internal/locations"
	"github.com/angelmondragon/vtps-backend/internal/notifications"
	"github.com/angelmondragon/vtps-backend/internal/settings"
	"github.com/angelmondragon/vtps-backend/pkg/config"
	"github.com/angelmondragon/vtps-backend/pkg/db"
	"github.com/angelmondragon/vtps-backend/pkg/instance"
	"github.com/angelmondragon/vtps-backend/pkg/logger"
	"github.com/angelmondragon/vtps-backend/pkg/metrics"
	"github.com/angelmondragon/vtps-backend/pkg/migrate"
	"github.com/angelmondragon/vtps-backend/pkg/redis"
)

func main() {
	jobs := flag.String("jobs", "", "comma separated job names to run (default: all)")
	once := flag.Bool("once", false, "run a single cycle and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
		Fields: map[string]any{
			"env":      cfg.App.Env,
			"instance": instance.GetID("cron-worker-0"),
		},
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()), cfg.Cron.DefaultRetentionDays)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	jobMetrics := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	registry, err := retentionJobs(logg, dbClient, settingsService, jobMetrics)
	if err == nil && *jobs != "" {
		registry, err = registry.Select(strings.Split(*jobs, ",")...)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to register cron jobs", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("cron-worker:"+envName(cfg.App.Env)), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"serviceKind": cfg.Service.Kind,
		"interval":    cfg.Cron.Interval.String(),
		"jobs":        strings.Join(registry.Names(), ","),
	})

	if *once {
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "cron cycle failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "cron cycle complete")
		return
	}

	if cfg.Cron.MetricsAddr != "" {
		go serveMetrics(ctx, logg, cfg.Cron.MetricsAddr)
	}

	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func retentionJobs(logg *logger.Logger, dbClient *db.Client, retention cron.RetentionSource, jobMetrics *metrics.CronJobMetrics) (*cron.Registry, error) {
	locationJob, err := cron.NewRetentionJob(cron.RetentionJobParams{
		Name:      cron.LocationRetentionJobName,
		Logger:    logg,
		Deleter:   locations.NewRepository(dbClient.DB()),
		Retention: retention,
		Metrics:   jobMetrics,
	})
	if err != nil {
		return nil, err
	}
	notificationJob, err := cron.NewRetentionJob(cron.RetentionJobParams{
		Name:      cron.NotificationRetentionJobName,
		Logger:    logg,
		Deleter:   notifications.NewRepository(dbClient.DB()),
		Retention: retention,
		Metrics:   jobMetrics,
	})
	if err != nil {
		return nil, err
	}
	return cron.NewRegistry(locationJob, notificationJob)
}

func envName(env string) string {
	if env == "" {
		return "local"
	}
	return env
}

func serveMetrics(ctx context.Context, logg *logger.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logg.Info(logg.WithField(ctx, "metrics_addr", addr), "serving cron metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "cron metrics server stopped", err)
	}
}
