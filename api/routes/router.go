package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/vtps-backend/api/controllers"
	"github.com/angelmondragon/vtps-backend/api/middleware"
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
	"github.com/angelmondragon/vtps-backend/pkg/logger"
	"github.com/angelmondragon/vtps-backend/pkg/metrics"
	"github.com/angelmondragon/vtps-backend/pkg/redis"
)

// Services groups the domain services mounted by the router. Any nil service
// answers its routes with an internal error instead of panicking.
type Services struct {
	Auth          auth.Service
	Users         users.Service
	People        people.Service
	Contacts      contacts.Service
	Locations     locations.Service
	Alerts        alerts.Service
	SafeZones     safezones.Service
	Schedules     checkins.ScheduleService
	CheckInLogs   checkins.LogService
	Notifications notifications.Service
	Settings      settings.Service
	Dashboard     dashboard.Service
	Bulk          bulk.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	svc Services,
) http.Handler {
	r := chi.NewRouter()

	var httpMetrics *metrics.HTTPMetrics
	if registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	// A nil *redis.Client must not reach the middleware as a non-nil interface.
	var (
		limiterStore     middleware.RateLimiterStore
		idempotencyStore redis.IdempotencyStore
		redisPinger      controllers.Pinger
	)
	if redisClient != nil {
		limiterStore = redisClient
		idempotencyStore = redisClient
		redisPinger = redisClient
	}
	var dbPinger controllers.Pinger
	if dbP != nil {
		dbPinger = dbP
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbPinger,
			"redis":    redisPinger,
		}))
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, logg)).
			Post("/auth/login/", controllers.AuthLogin(svc.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(svc.Auth, logg))
			r.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window, logg))
			r.Use(middleware.Idempotency(idempotencyStore, logg))

			r.Post("/auth/logout/", controllers.AuthLogout(svc.Auth, logg))
			r.Get("/auth/me/", controllers.AuthMe(svc.Auth, logg))
			r.With(
				middleware.RequireSupervisorOrAdmin(logg),
				middleware.AuthRateLimit(registerPolicy, limiterStore, logg),
			).Post("/auth/register/", controllers.AuthRegister(svc.Users, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSupervisorOrAdmin(logg))

				r.Route("/users", func(r chi.Router) {
					r.Get("/", controllers.UserList(svc.Users, logg))
					r.With(middleware.AuthRateLimit(registerPolicy, limiterStore, logg)).
						Post("/", controllers.AuthRegister(svc.Users, logg))
					r.Get("/{id}/", controllers.UserDetail(svc.Users, logg))
					r.Put("/{id}/", controllers.UserUpdate(svc.Users, logg))
					r.Patch("/{id}/", controllers.UserUpdate(svc.Users, logg))
					r.Delete("/{id}/", controllers.UserDelete(svc.Users, logg))
				})

				r.Route("/system-settings", func(r chi.Router) {
					r.Get("/", controllers.SettingsList(svc.Settings, logg))
					r.Post("/", controllers.SettingsCreate(svc.Settings, logg))
					r.Get("/{id}/", controllers.SettingsDetail(svc.Settings, logg))
					r.Put("/{id}/", controllers.SettingsUpdate(svc.Settings, logg))
					r.Patch("/{id}/", controllers.SettingsUpdate(svc.Settings, logg))
					r.Delete("/{id}/", controllers.SettingsDelete(svc.Settings, logg))
				})

				r.Post("/bulk-alert-update/", controllers.BulkAlertUpdate(svc.Bulk, logg))
				r.Post("/bulk-person-update/", controllers.BulkPersonUpdate(svc.Bulk, logg))
			})

			r.Get("/dashboard-stats/", controllers.DashboardStats(svc.Dashboard, logg))

			r.Route("/people", func(r chi.Router) {
				r.Get("/", controllers.PersonList(svc.People, logg))
				r.Post("/", controllers.PersonCreate(svc.People, logg))
				r.Get("/{id}/", controllers.PersonDetail(svc.People, logg))
				r.Put("/{id}/", controllers.PersonUpdate(svc.People, logg))
				r.Patch("/{id}/", controllers.PersonUpdate(svc.People, logg))
				r.Delete("/{id}/", controllers.PersonDelete(svc.People, logg))
			})

			r.Route("/emergency-contacts", func(r chi.Router) {
				r.Get("/", controllers.ContactList(svc.Contacts, logg))
				r.Post("/", controllers.ContactCreate(svc.Contacts, logg))
				r.Get("/{id}/", controllers.ContactDetail(svc.Contacts, logg))
				r.Put("/{id}/", controllers.ContactUpdate(svc.Contacts, logg))
				r.Patch("/{id}/", controllers.ContactUpdate(svc.Contacts, logg))
				r.Delete("/{id}/", controllers.ContactDelete(svc.Contacts, logg))
			})

			// location logs are append-only
			r.Route("/locations", func(r chi.Router) {
				r.Get("/", controllers.LocationList(svc.Locations, logg))
				r.Post("/", controllers.LocationCreate(svc.Locations, logg))
				r.Get("/{id}/", controllers.LocationDetail(svc.Locations, logg))
				r.Delete("/{id}/", controllers.LocationDelete(svc.Locations, logg))
			})

			r.Route("/alerts", func(r chi.Router) {
				r.Get("/", controllers.AlertList(svc.Alerts, logg))
				r.Post("/", controllers.AlertCreate(svc.Alerts, logg))
				r.Get("/{id}/", controllers.AlertDetail(svc.Alerts, logg))
				r.Put("/{id}/", controllers.AlertUpdate(svc.Alerts, logg))
				r.Patch("/{id}/", controllers.AlertUpdate(svc.Alerts, logg))
				r.Delete("/{id}/", controllers.AlertDelete(svc.Alerts, logg))
			})

			r.Route("/safe-zones", func(r chi.Router) {
				r.Get("/", controllers.SafeZoneList(svc.SafeZones, logg))
				r.Post("/", controllers.SafeZoneCreate(svc.SafeZones, logg))
				r.Get("/{id}/", controllers.SafeZoneDetail(svc.SafeZones, logg))
				r.Put("/{id}/", controllers.SafeZoneUpdate(svc.SafeZones, logg))
				r.Patch("/{id}/", controllers.SafeZoneUpdate(svc.SafeZones, logg))
				r.Delete("/{id}/", controllers.SafeZoneDelete(svc.SafeZones, logg))
			})

			r.Route("/checkin-schedules", func(r chi.Router) {
				r.Get("/", controllers.ScheduleList(svc.Schedules, logg))
				r.Post("/", controllers.ScheduleCreate(svc.Schedules, logg))
				r.Get("/{id}/", controllers.ScheduleDetail(svc.Schedules, logg))
				r.Put("/{id}/", controllers.ScheduleUpdate(svc.Schedules, logg))
				r.Patch("/{id}/", controllers.ScheduleUpdate(svc.Schedules, logg))
				r.Delete("/{id}/", controllers.ScheduleDelete(svc.Schedules, logg))
			})

			r.Route("/checkin-logs", func(r chi.Router) {
				r.Get("/", controllers.CheckInLogList(svc.CheckInLogs, logg))
				r.Post("/", controllers.CheckInLogCreate(svc.CheckInLogs, logg))
				r.Get("/{id}/", controllers.CheckInLogDetail(svc.CheckInLogs, logg))
				r.Put("/{id}/", controllers.CheckInLogUpdate(svc.CheckInLogs, logg))
				r.Patch("/{id}/", controllers.CheckInLogUpdate(svc.CheckInLogs, logg))
				r.Delete("/{id}/", controllers.CheckInLogDelete(svc.CheckInLogs, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.NotificationList(svc.Notifications, logg))
				r.Post("/", controllers.NotificationCreate(svc.Notifications, logg))
				r.Get("/{id}/", controllers.NotificationDetail(svc.Notifications, logg))
				r.Put("/{id}/", controllers.NotificationUpdate(svc.Notifications, logg))
				r.Patch("/{id}/", controllers.NotificationUpdate(svc.Notifications, logg))
				r.Delete("/{id}/", controllers.NotificationDelete(svc.Notifications, logg))
			})
		})
	})

	return r
}
