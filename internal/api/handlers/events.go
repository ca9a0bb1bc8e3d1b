package handlers

import (
	"context"
	"net/http"

	"github.com/agenda-app/server/internal/domain/events"
)

type EventService interface {
	List(ctx context.Context, userID int64, start, end string) ([]events.Event, error)
	Get(ctx context.Context, userID, id int64) (*events.Event, error)
	Create(ctx context.Context, userID int64, input events.Input) (*events.Event, error)
	Update(ctx context.Context, userID, id int64, input events.Input) (*events.Event, error)
	Delete(ctx context.Context, userID, id int64) error
}

type EventsHandler struct {
	Service EventService
	Env     string
}

func NewEventsHandler(service EventService, env string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env}
}

// List accepts optional start and end query parameters.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	query := r.URL.Query()
	items, err := h.Service.List(r.Context(), userID, query.Get("start"), query.Get("end"))
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(items, newEventResponse))
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, newEventResponse(*item))
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var input events.Input
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	item, err := h.Service.Create(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	recordMutation(r, userID, "event", "create", item.ID)
	writeJSON(w, http.StatusCreated, newEventResponse(*item))
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, err := userAndID(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var input events.Input
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	item, err := h.Service.Update(r.Context(), userID, id, input)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	recordMutation(r, userID, "event", "update", id)
	writeJSON(w, http.StatusOK, newEventResponse(*item))
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, err := userAndID(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	recordMutation(r, userID, "event", "delete", id)
	writeJSON(w, http.StatusOK, messageResponse{Message: "event deleted"})
}
