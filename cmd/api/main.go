package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/vtps-backend/api/routes"
	"github.com/angelmondragon/vtps-backend/internal/alerts"
	"github.com/angelmondragon/vtps-backend/internal/auth"
	"github.com/angelmondragon/vtps-backend/internal/bulk"
	"github.com/angelmondragon/vtps-backend/internal/checkins"
	"github.com/angelmondragon/vtps-backend/internal/contacts"
	"github.com/angelmondragon/vtps-backend/internal/dashboard"
	"github.com/angelmondragon/vtps-backend/internal/locations"
	"github.com/angelmondragon/vtps-backend/internal/notifications"
	"github.com/angelmondragon/vtps-backend/internal/people"
	"github.com/angelmondragon/vtps-backend/internal/safezones"
	"github.com/angelmondragon/vtps-backend/internal/settings"
	"github.com/angelmondragon/vtps-backend/internal/users"
	"github.com/angelmondragon/vtps-backend/pkg/config"
	"github.com/angelmondragon/vtps-backend/pkg/db"
	"github.com/angelmondragon/vtps-backend/pkg/instance"
	"github.com/angelmondragon/vtps-backend/pkg/logger"
	"github.com/angelmondragon/vtps-backend/pkg/migrate"
	"github.com/angelmondragon/vtps-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
		Fields: map[string]any{
			"env":      cfg.App.Env,
			"instance": instance.GetID("local"),
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

	services, err := buildServices(cfg, logg, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"addr":   addr,
		"driver": cfg.DB.Driver,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, registry, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		errCh <- server.ListenAndServe()
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (routes.Services, error) {
	conn := dbClient.DB()

	userRepo := users.NewRepository(conn)
	peopleRepo := people.NewRepository(conn)
	contactRepo := contacts.NewRepository(conn)
	zoneRepo := safezones.NewRepository(conn)
	locationRepo := locations.NewRepository(conn)
	alertRepo := alerts.NewRepository(conn)
	checkinRepo := checkins.NewRepository(conn)
	notificationRepo := notifications.NewRepository(conn)
	settingsRepo := settings.NewRepository(conn)

	var (
		svc routes.Services
		err error
	)
	if svc.Auth, err = auth.NewService(auth.ServiceParams{
		DB:             dbClient,
		UserRepo:       userRepo,
		TokenRepo:      auth.NewTokenRepository(conn),
		AuthConfig:     cfg.Auth,
		PasswordConfig: cfg.Password,
	}); err != nil {
		return svc, err
	}
	if svc.Users, err = users.NewService(users.ServiceParams{
		Repo:              userRepo,
		PasswordConfig:    cfg.Password,
		MinPasswordLength: cfg.Auth.MinPasswordLength,
	}); err != nil {
		return svc, err
	}
	if svc.People, err = people.NewService(people.ServiceParams{
		DB:           dbClient,
		Repo:         peopleRepo,
		ContactRepo:  contactRepo,
		ZoneRepo:     zoneRepo,
		LocationRepo: locationRepo,
		AlertRepo:    alertRepo,
	}); err != nil {
		return svc, err
	}
	if svc.Contacts, err = contacts.NewService(contactRepo); err != nil {
		return svc, err
	}
	if svc.Locations, err = locations.NewService(locationRepo); err != nil {
		return svc, err
	}
	if svc.Alerts, err = alerts.NewService(alertRepo); err != nil {
		return svc, err
	}
	if svc.SafeZones, err = safezones.NewService(zoneRepo); err != nil {
		return svc, err
	}
	if svc.Schedules, err = checkins.NewScheduleService(checkinRepo); err != nil {
		return svc, err
	}
	if svc.CheckInLogs, err = checkins.NewLogService(checkinRepo); err != nil {
		return svc, err
	}
	if svc.Notifications, err = notifications.NewService(notificationRepo); err != nil {
		return svc, err
	}
	if svc.Settings, err = settings.NewService(settingsRepo, cfg.Cron.DefaultRetentionDays); err != nil {
		return svc, err
	}
	if svc.Dashboard, err = dashboard.NewService(peopleRepo, alertRepo, svc.People); err != nil {
		return svc, err
	}
	if svc.Bulk, err = bulk.NewService(alertRepo, peopleRepo, logg); err != nil {
		return svc, err
	}
	return svc, nil
}
