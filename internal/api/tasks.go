package api

import (
	"net/http"
	"strings"

	"github.com/starford/syndic/internal/models"
)

// ListTasks handles GET /api/tasks, optionally filtered by ?status=.
//
//	@Summary	List tasks
//	@Tags		tasks
//	@Produce	json
//	@Param		status	query	string	false	"TODO or DONE"
//	@Success	200		{array}	models.Task
//	@Router		/tasks [get]
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	var (
		tasks []models.Task
		err   error
	)
	if s := r.URL.Query().Get("status"); s != "" {
		tasks, err = h.db.Tasks().GetByStatus(r.Context(), models.TaskStatus(strings.ToUpper(s)))
	} else {
		tasks, err = h.db.Tasks().GetAll(r.Context())
	}
	if err != nil {
		fail(w, "list tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// CreateTask handles POST /api/tasks.
//
//	@Summary	Add a task
//	@Tags		tasks
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.Task	true	"Task to create"
//	@Success	201		{object}	models.Task
//	@Failure	400		{object}	errResponse
//	@Router		/tasks [post]
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var t models.Task
	if !decodeJSON(w, r, &t) {
		return
	}
	id, err := h.db.Tasks().Create(r.Context(), t)
	if err != nil {
		fail(w, "create task", err)
		return
	}
	h.writeTask(w, r, id, http.StatusCreated)
}

// UpdateTask handles PATCH /api/tasks/{id}.
//
//	@Summary	Change some fields of a task
//	@Tags		tasks
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"Task id"
//	@Param		body	body		models.TaskPatch	true	"Fields to change"
//	@Success	200		{object}	models.Task
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Router		/tasks/{id} [patch]
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p models.TaskPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := h.db.Tasks().Update(r.Context(), id, p); err != nil {
		fail(w, "update task", err)
		return
	}
	h.writeTask(w, r, id, http.StatusOK)
}

// ToggleTask handles POST /api/tasks/{id}/toggle.
//
//	@Summary	Flip a task between TODO and DONE
//	@Tags		tasks
//	@Produce	json
//	@Param		id	path		int	true	"Task id"
//	@Success	200	{object}	ToggleResponse
//	@Failure	404	{object}	errResponse
//	@Router		/tasks/{id}/toggle [post]
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	t, err := h.db.Tasks().GetByID(r.Context(), id)
	if err != nil {
		fail(w, "get task", err)
		return
	}
	if t == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	status, err := h.db.Tasks().ToggleStatus(r.Context(), id, t.Status)
	if err != nil {
		fail(w, "toggle task", err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleResponse{ID: id, Status: status})
}

// DeleteTask handles DELETE /api/tasks/{id}.
//
//	@Summary	Delete a task
//	@Tags		tasks
//	@Param		id	path	int	true	"Task id"
//	@Success	204
//	@Failure	404	{object}	errResponse
//	@Router		/tasks/{id} [delete]
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.db.Tasks().Delete(r.Context(), id); err != nil {
		fail(w, "delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeTask(w http.ResponseWriter, r *http.Request, id int64, status int) {
	t, err := h.db.Tasks().GetByID(r.Context(), id)
	if err != nil {
		fail(w, "get task", err)
		return
	}
	if t == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, status, t)
}
