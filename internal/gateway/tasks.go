package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/todoevolve/server/internal/store"
)

type taskCreateRequest struct {
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Priority           string     `json:"priority"`
	Tags               []string   `json:"tags"`
	DueDate            *time.Time `json:"due_date"`
	IsRecurring        bool       `json:"is_recurring"`
	RecurrenceInterval string     `json:"recurrence_interval"`
}

type taskUpdateRequest struct {
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	Priority           *string    `json:"priority"`
	Tags               *[]string  `json:"tags"`
	DueDate            *time.Time `json:"due_date"`
	IsRecurring        *bool      `json:"is_recurring"`
	RecurrenceInterval *string    `json:"recurrence_interval"`
}

func validPriority(p string) bool {
	return p == "high" || p == "medium" || p == "low"
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	filter := store.TaskFilter{}
	switch r.URL.Query().Get("status") {
	case "pending":
		f := false
		filter.Completed = &f
	case "completed":
		t := true
		filter.Completed = &t
	}
	if p := r.URL.Query().Get("priority"); p != "" {
		if !validPriority(p) {
			writeError(w, http.StatusBadRequest, "Invalid priority filter")
			return
		}
		filter.Priority = p
	}
	filter.Search = r.URL.Query().Get("search")
	if sort := r.URL.Query().Get("sort"); sort != "" {
		switch sort {
		case "created_asc", "created_desc", "priority", "title":
			filter.Sort = sort
		default:
			writeError(w, http.StatusBadRequest, "Invalid sort option")
			return
		}
	}

	tasks, err := s.store.Tasks.List(r.Context(), userID(r), filter)
	if err != nil {
		s.logger.Error("list tasks failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []*store.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": tasks,
		"total": len(tasks),
	})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || len(req.Title) > 200 {
		writeError(w, http.StatusBadRequest, "Title is required and must be at most 200 characters")
		return
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
	if !validPriority(req.Priority) {
		writeError(w, http.StatusBadRequest, "Priority must be high, medium, or low")
		return
	}

	task := &store.Task{
		UserID:             userID(r),
		Title:              req.Title,
		Description:        req.Description,
		Priority:           req.Priority,
		Tags:               req.Tags,
		DueDate:            req.DueDate,
		IsRecurring:        req.IsRecurring,
		RecurrenceInterval: req.RecurrenceInterval,
	}
	if err := s.store.Tasks.Create(r.Context(), task); err != nil {
		s.logger.Error("create task failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) taskFromPath(w http.ResponseWriter, r *http.Request) (*store.Task, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task id")
		return nil, false
	}
	task, err := s.store.Tasks.Get(r.Context(), userID(r), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
		} else {
			s.logger.Error("load task failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to load task")
		}
		return nil, false
	}
	return task, true
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.taskFromPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.taskFromPath(w, r)
	if !ok {
		return
	}

	var req taskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title != nil {
		if *req.Title == "" || len(*req.Title) > 200 {
			writeError(w, http.StatusBadRequest, "Title must be 1-200 characters")
			return
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		if !validPriority(*req.Priority) {
			writeError(w, http.StatusBadRequest, "Priority must be high, medium, or low")
			return
		}
		task.Priority = *req.Priority
	}
	if req.Tags != nil {
		task.Tags = *req.Tags
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.IsRecurring != nil {
		task.IsRecurring = *req.IsRecurring
	}
	if req.RecurrenceInterval != nil {
		task.RecurrenceInterval = *req.RecurrenceInterval
	}

	if err := s.store.Tasks.Update(r.Context(), task); err != nil {
		s.logger.Error("update task failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.taskFromPath(w, r)
	if !ok {
		return
	}
	if err := s.store.Tasks.Delete(r.Context(), userID(r), task.ID); err != nil {
		s.logger.Error("delete task failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.taskFromPath(w, r)
	if !ok {
		return
	}

	completed := !task.Completed
	if err := s.store.Tasks.SetCompleted(r.Context(), userID(r), task.ID, completed); err != nil {
		s.logger.Error("toggle task failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update task")
		return
	}

	verb := "completed"
	if !completed {
		verb = "reopened"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        task.ID,
		"completed": completed,
		"message":   fmt.Sprintf("Task '%s' %s", task.Title, verb),
	})
}
