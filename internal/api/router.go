// Package api assembles the HTTP surface: routes, middleware and the
// handlers behind them.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/agenda-app/server/internal/api/handlers"
	"github.com/agenda-app/server/internal/api/middleware"
	"github.com/agenda-app/server/internal/config"
	"github.com/agenda-app/server/internal/metrics"
)

// EventService also exposes per-calendar listing for the iCalendar export.
type EventService interface {
	handlers.EventService
	handlers.CalendarEventLister
}

type Services struct {
	Calendars  handlers.CalendarService
	TaskGroups handlers.TaskGroupService
	Events     EventService
	Tasks      handlers.TaskService
	Health     *handlers.HealthChecker
}

type Deps struct {
	Config  config.Config
	Logger  zerolog.Logger
	Tokens  middleware.TokenValidator
	Limiter *middleware.RateLimiter
	Build   BuildInfo
	Services
}

// preflightPaths answer OPTIONS with 204 when no Origin header is sent.
// Listing them one by one keeps unknown /api paths at 404.
var preflightPaths = []string{
	"/api/openapi.json",
	"/api/calendars",
	"/api/calendars/{id}",
	"/api/calendars/{id}/export.ics",
	"/api/task-groups",
	"/api/task-groups/{id}",
	"/api/events",
	"/api/events/{id}",
	"/api/tasks",
	"/api/tasks/{id}",
	"/api/tasks/{id}/occurrences",
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func NewRouter(d Deps) http.Handler {
	env := d.Config.Environment
	protect := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireUser(d.Tokens, env)(h)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", handlers.Healthz())
	mux.Handle("GET /readyz", d.Health.Readyz())
	mux.Handle("GET /health", d.Health.Health())
	mux.Handle("GET /version", VersionHandler(d.Build))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.Handle("GET /api/openapi.json", OpenAPIHandler())
	for _, path := range preflightPaths {
		mux.HandleFunc("OPTIONS "+path, noContent)
	}

	calendarsHandler := handlers.NewCalendarsHandler(d.Calendars, d.Events, env)
	mux.Handle("GET /api/calendars", protect(calendarsHandler.List))
	mux.Handle("POST /api/calendars", protect(calendarsHandler.Create))
	mux.Handle("GET /api/calendars/{id}", protect(calendarsHandler.Get))
	mux.Handle("PUT /api/calendars/{id}", protect(calendarsHandler.Update))
	mux.Handle("PATCH /api/calendars/{id}", protect(calendarsHandler.Update))
	mux.Handle("DELETE /api/calendars/{id}", protect(calendarsHandler.Delete))
	mux.Handle("GET /api/calendars/{id}/export.ics", protect(calendarsHandler.Export))

	groupsHandler := handlers.NewTaskGroupsHandler(d.TaskGroups, env)
	mux.Handle("GET /api/task-groups", protect(groupsHandler.List))
	mux.Handle("POST /api/task-groups", protect(groupsHandler.Create))
	mux.Handle("GET /api/task-groups/{id}", protect(groupsHandler.Get))
	mux.Handle("PUT /api/task-groups/{id}", protect(groupsHandler.Update))
	mux.Handle("PATCH /api/task-groups/{id}", protect(groupsHandler.Update))
	mux.Handle("DELETE /api/task-groups/{id}", protect(groupsHandler.Delete))

	eventsHandler := handlers.NewEventsHandler(d.Events, env)
	mux.Handle("GET /api/events", protect(eventsHandler.List))
	mux.Handle("POST /api/events", protect(eventsHandler.Create))
	mux.Handle("GET /api/events/{id}", protect(eventsHandler.Get))
	mux.Handle("PUT /api/events/{id}", protect(eventsHandler.Update))
	mux.Handle("PATCH /api/events/{id}", protect(eventsHandler.Update))
	mux.Handle("DELETE /api/events/{id}", protect(eventsHandler.Delete))

	tasksHandler := handlers.NewTasksHandler(d.Tasks, env)
	mux.Handle("GET /api/tasks", protect(tasksHandler.List))
	mux.Handle("POST /api/tasks", protect(tasksHandler.Create))
	mux.Handle("GET /api/tasks/{id}", protect(tasksHandler.Get))
	mux.Handle("PUT /api/tasks/{id}", protect(tasksHandler.Update))
	mux.Handle("PATCH /api/tasks/{id}", protect(tasksHandler.Update))
	mux.Handle("DELETE /api/tasks/{id}", protect(tasksHandler.Delete))
	mux.Handle("GET /api/tasks/{id}/occurrences", protect(tasksHandler.Occurrences))

	var handler http.Handler = mux
	handler = middleware.RequestSize(d.Config.Server.MaxBodyBytes)(handler)
	if d.Limiter != nil {
		handler = d.Limiter.Middleware(env)(handler)
	}
	handler = middleware.CORS(d.Config.CORS, d.Logger)(handler)
	handler = middleware.SecurityHeaders(env == "production")(handler)
	handler = middleware.RequestLogging(d.Logger)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.Tracing(handler)
	handler = middleware.CorrelationID(d.Logger)(handler)
	return handler
}
