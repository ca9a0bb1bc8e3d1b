package handlers

import (
	"context"
	"net/http"

	"github.com/agenda-app/server/internal/domain/taskgroups"
)

type TaskGroupService interface {
	List(ctx context.Context, userID int64) ([]taskgroups.TaskGroup, error)
	Get(ctx context.Context, userID, id int64) (*taskgroups.TaskGroup, error)
	Create(ctx context.Context, userID int64, input taskgroups.Input) (*taskgroups.TaskGroup, error)
	Update(ctx context.Context, userID, id int64, input taskgroups.Input) (*taskgroups.TaskGroup, error)
	Delete(ctx context.Context, userID, id int64) error
}

// TaskGroupsHandler serves task groups with their tasks embedded.
type TaskGroupsHandler struct {
	Service TaskGroupService
	Env     string
}

func NewTaskGroupsHandler(service TaskGroupService, env string) *TaskGroupsHandler {
	return &TaskGroupsHandler{Service: service, Env: env}
}

func (h *TaskGroupsHandler) List(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, mapSlice(items, newTaskGroupResponse))
}

func (h *TaskGroupsHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, newTaskGroupResponse(*item))
}

func (h *TaskGroupsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var input taskgroups.Input
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	item, err := h.Service.Create(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	recordMutation(r, userID, "task_group", "create", item.ID)
	writeJSON(w, http.StatusCreated, newTaskGroupResponse(*item))
}

func (h *TaskGroupsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, err := userAndID(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	var input taskgroups.Input
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	item, err := h.Service.Update(r.Context(), userID, id, input)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	recordMutation(r, userID, "task_group", "update", id)
	writeJSON(w, http.StatusOK, newTaskGroupResponse(*item))
}

func (h *TaskGroupsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, err := userAndID(r)
	if err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, h.Env, err)
		return
	}
	recordMutation(r, userID, "task_group", "delete", id)
	writeJSON(w, http.StatusOK, messageResponse{Message: "task group deleted"})
}
