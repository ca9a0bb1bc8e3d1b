package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/agenda-app/server/internal/domain/calendars"
	"github.com/agenda-app/server/internal/domain/events"
	"github.com/agenda-app/server/internal/ics"
)

type CalendarService interface {
	List(ctx context.Context, userID int64) ([]calendars.Calendar, error)
	Get(ctx context.Context, userID, id int64) (*calendars.Calendar, error)
	Create(ctx context.Context, userID int64, input calendars.Input) (*calendars.Calendar, error)
	Update(ctx context.Context, userID, id int64, input calendars.Input) (*calendars.Calendar, error)
	Delete(ctx context.Context, userID, id int64) error
}

// CalendarEventLister backs the iCalendar export.
type CalendarEventLister interface {
	ListByCalendar(ctx context.Context, userID, calendarID int64) (*calendars.Calendar, []events.Event, error)
}

type CalendarsHandler struct {
	Service CalendarService
	Events  CalendarEventLister
	Env     string
	now     func() time.Time
}

func NewCalendarsHandler(service CalendarService, eventsLister CalendarEventLister, env string) *CalendarsHandler {
	return &CalendarsHandler{Service: service, Events: eventsLister, Env: env, now: time.Now}
}

func (h *CalendarsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	items, err := h.Service.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(items, newCalendarResponse))
}

func (h *CalendarsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, err := userAndID(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	item, err := h.Service.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, newCalendarResponse(*item))
}

func (h *CalendarsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var input calendars.Input
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	item, err := h.Service.Create(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	recordMutation(r, userID, "calendar", "create", item.ID)
	writeJSON(w, http.StatusCreated, newCalendarResponse(*item))
}

func (h *CalendarsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, err := userAndID(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var input calendars.Input
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	item, err := h.Service.Update(r.Context(), userID, id, input)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	recordMutation(r, userID, "calendar", "update", id)
	writeJSON(w, http.StatusOK, newCalendarResponse(*item))
}

func (h *CalendarsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, err := userAndID(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	recordMutation(r, userID, "calendar", "delete", id)
	writeJSON(w, http.StatusOK, messageResponse{Message: "calendar deleted"})
}

// Export serves the calendar and its events as text/calendar.
func (h *CalendarsHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, id, err := userAndID(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	calendar, items, err := h.Events.ListByCalendar(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}

	now := time.Now
	if h.now != nil {
		now = h.now
	}
	body := ics.Export(*calendar, items, r.Host, now())
	w.Header().Set("Content-Type", ics.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ics.Filename(*calendar)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func userAndID(r *http.Request) (int64, int64, error) {
	userID, err := currentUser(r)
	if err != nil {
		return 0, 0, err
	}
	id, err := pathID(r)
	if err != nil {
		return 0, 0, err
	}
	return userID, id, nil
}
