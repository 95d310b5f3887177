package api

import (
	"net/http"

	"github.com/starford/syndic/internal/dashboard"
	"github.com/starford/syndic/internal/models"
)

// ListTimeEntries handles GET /api/time-entries.
//
//	@Summary	List time entries
//	@Tags		time
//	@Produce	json
//	@Success	200	{array}	models.TimeEntry
//	@Router		/time-entries [get]
func (h *Handler) ListTimeEntries(w http.ResponseWriter, r *http.Request) {
	all, err := h.db.TimeEntries().GetAll(r.Context())
	if err != nil {
		fail(w, "list time entries", err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// ActiveTimeEntry handles GET /api/time-entries/active. The body is null
// when no session is open.
//
//	@Summary	The open session, if any
//	@Tags		time
//	@Produce	json
//	@Success	200	{object}	models.TimeEntry
//	@Router		/time-entries/active [get]
func (h *Handler) ActiveTimeEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.db.TimeEntries().GetActive(r.Context())
	if err != nil {
		fail(w, "active time entry", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// MonthTime handles GET /api/time-entries/month?month=YYYY-MM. An empty
// month means the current one.
//
//	@Summary	Tracked minutes of a month, in total and per day
//	@Tags		time
//	@Produce	json
//	@Param		month	query		string	false	"YYYY-MM"
//	@Success	200		{object}	MonthTimeResponse
//	@Failure	400		{object}	errResponse
//	@Router		/time-entries/month [get]
func (h *Handler) MonthTime(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	month := r.URL.Query().Get("month")
	if month == "" {
		month = h.db.Now().Format(models.MonthLayout)
	}
	total, err := h.db.TimeEntries().MonthMinutes(ctx, month)
	if err != nil {
		fail(w, "month minutes", err)
		return
	}
	daily, err := h.db.TimeEntries().DailyMinutes(ctx, month)
	if err != nil {
		fail(w, "daily minutes", err)
		return
	}
	writeJSON(w, http.StatusOK, MonthTimeResponse{
		Month:          month,
		TotalMinutes:   total,
		TotalFormatted: dashboard.FormatMinutes(total),
		Daily:          daily,
	})
}

// StartSession handles POST /api/time-entries/start. The body is optional.
//
//	@Summary	Open a time tracking session
//	@Tags		time
//	@Accept		json
//	@Produce	json
//	@Param		body	body		StartSessionRequest	false	"Meeting link"
//	@Success	201		{object}	models.TimeEntry
//	@Failure	409		{object}	errResponse	"A session is already open"
//	@Router		/time-entries/start [post]
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := decodeOptional(r.Body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	e, err := h.db.TimeEntries().StartSession(r.Context(), req.MeetingID)
	if err != nil {
		fail(w, "start session", err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// StopSession handles POST /api/time-entries/{id}/stop.
//
//	@Summary	Close a time tracking session
//	@Tags		time
//	@Produce	json
//	@Param		id	path		int	true	"Time entry id"
//	@Success	200	{object}	models.TimeEntry
//	@Failure	404	{object}	errResponse
//	@Router		/time-entries/{id}/stop [post]
func (h *Handler) StopSession(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	e, err := h.db.TimeEntries().StopSession(r.Context(), id)
	if err != nil {
		fail(w, "stop session", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteTimeEntry handles DELETE /api/time-entries/{id}.
//
//	@Summary	Delete a time entry
//	@Tags		time
//	@Param		id	path	int	true	"Time entry id"
//	@Success	204
//	@Failure	404	{object}	errResponse
//	@Router		/time-entries/{id} [delete]
func (h *Handler) DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.db.TimeEntries().Delete(r.Context(), id); err != nil {
		fail(w, "delete time entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
