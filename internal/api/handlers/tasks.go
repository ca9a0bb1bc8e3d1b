package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/agenda-app/server/internal/domain/tasks"
)

type TaskService interface {
	List(ctx context.Context, userID int64, start, end string) ([]tasks.Task, error)
	Get(ctx context.Context, userID, id int64) (*tasks.Task, error)
	Create(ctx context.Context, userID int64, input tasks.Input) (*tasks.Task, error)
	Update(ctx context.Context, userID, id int64, input tasks.Input) (*tasks.Task, error)
	Delete(ctx context.Context, userID, id int64) error
	Occurrences(ctx context.Context, userID, id int64, start, end string) ([]time.Time, error)
}

type TasksHandler struct {
	Service TaskService
	Env     string
}

func NewTasksHandler(service TaskService, env string) *TasksHandler {
	return &TasksHandler{Service: service, Env: env}
}

func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, mapSlice(items, newTaskResponse))
}

func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, newTaskResponse(*item))
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var input tasks.Input
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	item, err := h.Service.Create(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	recordMutation(r, userID, "task", "create", item.ID)
	writeJSON(w, http.StatusCreated, newTaskResponse(*item))
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, err := userAndID(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var input tasks.Input
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	item, err := h.Service.Update(r.Context(), userID, id, input)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	recordMutation(r, userID, "task", "update", id)
	writeJSON(w, http.StatusOK, newTaskResponse(*item))
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, err := userAndID(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	recordMutation(r, userID, "task", "delete", id)
	writeJSON(w, http.StatusOK, messageResponse{Message: "task deleted"})
}

// Occurrences expands a recurring task inside the optional start/end window.
func (h *TasksHandler) Occurrences(w http.ResponseWriter, r *http.Request) {
	userID, id, err := userAndID(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	query := r.URL.Query()
	items, err := h.Service.Occurrences(r.Context(), userID, id, query.Get("start"), query.Get("end"))
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	if items == nil {
		items = []time.Time{}
	}
	writeJSON(w, http.StatusOK, items)
}
