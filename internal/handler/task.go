package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/taskora/internal/apperror"
	"github.com/sakif/taskora/internal/model"
	"github.com/sakif/taskora/internal/service"
)

// TaskHandler exposes task CRUD and the derived list views over HTTP.
//
// WHO OWNS THE TASKS BEING LISTED?
// Every list endpoint scopes to the current session's user — the handler
// resolves "who is logged in" from the session slot before touching the
// task service. Item endpoints (get/update/delete/toggle) address tasks by
// id, matching the single-user-per-device model: the session gate keeps
// anonymous callers out, and there is exactly one user behind it.
type TaskHandler struct {
	tasks  *service.TaskService
	auth   *service.AuthService
	logger *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks *service.TaskService, auth *service.AuthService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, auth: auth, logger: logger}
}

// taskRequest is the JSON body for create and update.
// description and dueDate are pointers so "absent" survives decoding —
// a missing key stays nil instead of collapsing to "".
type taskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Category    string  `json:"category"`
	Completed   bool    `json:"completed"`
}

type completedRequest struct {
	Completed bool `json:"completed"`
}

// currentUser resolves the logged-in user from the session slot.
// Writes a 401 and returns false when the device is anonymous.
func (h *TaskHandler) currentUser(w http.ResponseWriter) (*model.Session, bool) {
	sess := h.auth.CurrentUser()
	if sess == nil {
		writeError(w, apperror.Unauthorized("Not logged in"))
		return nil, false
	}
	return sess, true
}

// taskID parses the {id} path parameter.
func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, apperror.ValidationFailed("id", "Task id must be a number"))
		return 0, false
	}
	return id, true
}

// HandleList returns the current user's tasks, newest first.
//
// HTTP: GET /api/tasks           → all tasks
// HTTP: GET /api/tasks?category=Work → one category, exact match
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentUser(w)
	if !ok {
		return
	}

	var (
		tasks []model.Task
		err   error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		tasks, err = h.tasks.ListByCategory(r.Context(), sess.ID, category)
	} else {
		tasks, err = h.tasks.List(r.Context(), sess.ID)
	}
	if err != nil {
		h.logger.Error("listing tasks failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// HandleOverview returns the home-screen split: active tasks, then done.
//
// HTTP: GET /api/tasks/overview
func (h *TaskHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentUser(w)
	if !ok {
		return
	}

	overview, err := h.tasks.GetOverview(r.Context(), sess.ID)
	if err != nil {
		h.logger.Error("loading overview failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

// HandleCategories returns per-category task counts.
//
// HTTP: GET /api/categories
func (h *TaskHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentUser(w)
	if !ok {
		return
	}

	summary, err := h.tasks.CategorySummary(r.Context(), sess.ID)
	if err != nil {
		h.logger.Error("category summary failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// HandleCreate stores a new task for the current user.
//
// HTTP: POST /api/tasks
// REQUEST: {"title": "T", "description": "D", "dueDate": "2025-01-01", "category": "Work"}
// RESPONSE: 201 with the stored task (id and createdAt filled in).
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.currentUser(w)
	if !ok {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}

	task, err := h.tasks.Create(r.Context(), sess.ID, req.Title, req.Description, req.DueDate, req.Category)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// HandleGet returns a single task.
//
// HTTP: GET /api/tasks/{id}
func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w); !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleUpdate rewrites a task's editable fields.
//
// HTTP: PUT /api/tasks/{id}
// RESPONSE: 200 with the stored state; 404 when the id matches no row.
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w); !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}

	task, err := h.tasks.Update(r.Context(), id, req.Title, req.Description, req.DueDate, req.Category, req.Completed)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleSetCompleted flips the done checkbox.
//
// HTTP: PATCH /api/tasks/{id}/completed
// REQUEST: {"completed": true}
func (h *TaskHandler) HandleSetCompleted(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w); !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var req completedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}

	if err := h.tasks.SetCompleted(r.Context(), id, req.Completed); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes a task.
//
// HTTP: DELETE /api/tasks/{id}
// RESPONSE: 204; a second delete of the same id is a 404.
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w); !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
