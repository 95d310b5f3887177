package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/starford/syndic/internal/models"
	"github.com/starford/syndic/internal/store"
)

// ListMeetings handles GET /api/meetings.
// With both from and to (RFC 3339) only meetings starting in that inclusive
// range are returned.
//
//	@Summary	List meetings by start time
//	@Tags		meetings
//	@Produce	json
//	@Param		from	query		string	false	"Range start (RFC 3339)"
//	@Param		to		query		string	false	"Range end (RFC 3339)"
//	@Success	200		{array}		models.Meeting
//	@Failure	400		{object}	errResponse
//	@Router		/meetings [get]
func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" && to == "" {
		all, err := h.db.Meetings().GetAll(r.Context())
		if err != nil {
			fail(w, "list meetings", err)
			return
		}
		writeJSON(w, http.StatusOK, all)
		return
	}

	start, err1 := time.Parse(time.RFC3339, from)
	end, err2 := time.Parse(time.RFC3339, to)
	if err1 != nil || err2 != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("from and to must both be RFC 3339 timestamps"))
		return
	}
	got, err := h.db.Meetings().GetByRange(r.Context(), start, end)
	if err != nil {
		fail(w, "meetings by range", err)
		return
	}
	writeJSON(w, http.StatusOK, got)
}

// UpcomingMeetings handles GET /api/meetings/upcoming.
//
//	@Summary	Next scheduled meetings
//	@Tags		meetings
//	@Produce	json
//	@Param		limit	query	int	false	"Maximum count"
//	@Success	200		{array}	models.Meeting
//	@Router		/meetings/upcoming [get]
func (h *Handler) UpcomingMeetings(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	got, err := h.db.Meetings().GetUpcoming(r.Context(), limit)
	if err != nil {
		fail(w, "upcoming meetings", err)
		return
	}
	writeJSON(w, http.StatusOK, got)
}

// GetMeeting handles GET /api/meetings/{id}.
//
//	@Summary	A meeting with its notes and documents
//	@Tags		meetings
//	@Produce	json
//	@Param		id	path		int	true	"Meeting id"
//	@Success	200	{object}	MeetingDetail
//	@Failure	404	{object}	errResponse
//	@Router		/meetings/{id} [get]
func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	m, err := h.db.Meetings().GetByID(ctx, id)
	if err != nil {
		fail(w, "get meeting", err)
		return
	}
	if m == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	notes, err := h.db.Notes().GetByMeetingID(ctx, id)
	if err != nil {
		fail(w, "meeting notes", err)
		return
	}
	docs, err := h.db.Documents().GetByMeetingID(ctx, id)
	if err != nil {
		fail(w, "meeting documents", err)
		return
	}
	writeJSON(w, http.StatusOK, MeetingDetail{
		Meeting:   *m,
		Minutes:   m.Minutes(),
		Notes:     notes,
		Documents: documentViews(docs),
	})
}

// CreateMeeting handles POST /api/meetings.
//
//	@Summary	Schedule a meeting
//	@Tags		meetings
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.Meeting	true	"Meeting to create"
//	@Success	201		{object}	models.Meeting
//	@Failure	400		{object}	errResponse
//	@Router		/meetings [post]
func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var m models.Meeting
	if !decodeJSON(w, r, &m) {
		return
	}
	m.ID = 0
	m.DurationMinutes = nil
	id, err := h.db.Meetings().Create(r.Context(), m)
	if err != nil {
		fail(w, "create meeting", err)
		return
	}
	m.ID = id
	writeJSON(w, http.StatusCreated, m)
}

// UpdateMeeting handles PATCH /api/meetings/{id}.
//
//	@Summary	Change some fields of a meeting
//	@Tags		meetings
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"Meeting id"
//	@Param		body	body		models.MeetingPatch	true	"Fields to change"
//	@Success	200		{object}	models.Meeting
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Router		/meetings/{id} [patch]
func (h *Handler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p models.MeetingPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	if p.Empty() {
		writeJSON(w, http.StatusBadRequest, errorBody("no fields to update"))
		return
	}
	if err := h.db.Meetings().Update(r.Context(), id, p); err != nil {
		fail(w, "update meeting", err)
		return
	}
	m, err := h.db.Meetings().GetByID(r.Context(), id)
	if err != nil {
		fail(w, "reload meeting", err)
		return
	}
	if m == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// DeleteMeeting handles DELETE /api/meetings/{id}. Notes of the meeting are
// deleted; documents and time entries are unlinked.
//
//	@Summary	Delete a meeting
//	@Tags		meetings
//	@Param		id	path	int	true	"Meeting id"
//	@Success	204
//	@Failure	404	{object}	errResponse
//	@Router		/meetings/{id} [delete]
func (h *Handler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.db.Meetings().Delete(r.Context(), id); err != nil {
		fail(w, "delete meeting", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
