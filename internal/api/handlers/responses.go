package handlers

import (
	"time"

	"github.com/agenda-app/server/internal/domain/calendars"
	"github.com/agenda-app/server/internal/domain/events"
	"github.com/agenda-app/server/internal/domain/taskgroups"
	"github.com/agenda-app/server/internal/domain/tasks"
)

type calendarResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newCalendarResponse(c calendars.Calendar) calendarResponse {
	return calendarResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type eventResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	CalendarID  int64     `json:"calendar_id"`
	Title       string    `json:"title"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newEventResponse(e events.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		CalendarID:  e.CalendarID,
		Title:       e.Title,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Description: e.Description,
		Color:       e.Color,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type taskResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	TaskGroupID int64     `json:"task_group_id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Status      bool      `json:"status"`
	Recurrence  int       `json:"recurrence"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTaskResponse(t tasks.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		TaskGroupID: t.TaskGroupID,
		Title:       t.Title,
		Date:        t.Date,
		Status:      t.Status,
		Recurrence:  int(t.Recurrence),
		Color:       t.Color,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type taskGroupResponse struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Title     string         `json:"title"`
	Color     string         `json:"color"`
	Tasks     []taskResponse `json:"tasks"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func newTaskGroupResponse(g taskgroups.TaskGroup) taskGroupResponse {
	return taskGroupResponse{
		ID:        g.ID,
		UserID:    g.UserID,
		Title:     g.Title,
		Color:     g.Color,
		Tasks:     mapSlice(g.Tasks, newTaskResponse),
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// mapSlice never returns nil so empty lists encode as [].
func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
