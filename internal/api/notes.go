package api

import (
	"net/http"
	"strconv"

	"github.com/starford/syndic/internal/models"
	"github.com/starford/syndic/internal/store"
)

// ListNotes handles GET /api/notes.
// q searches the content; meeting_id restricts to one meeting. q wins when
// both are given.
//
//	@Summary	List, search or filter notes
//	@Tags		notes
//	@Produce	json
//	@Param		q			query		string	false	"Substring to search"
//	@Param		meeting_id	query		int		false	"Meeting filter"
//	@Success	200			{array}		models.Note
//	@Router		/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meetingID, err := queryID(r, "meeting_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	var notes []models.Note
	switch q := r.URL.Query().Get("q"); {
	case q != "":
		notes, err = h.db.Notes().Search(ctx, q)
	case meetingID != nil:
		notes, err = h.db.Notes().GetByMeetingID(ctx, *meetingID)
	default:
		notes, err = h.db.Notes().GetAll(ctx)
	}
	if err != nil {
		fail(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// RecentNotes handles GET /api/notes/recent.
//
//	@Summary	Most recently written notes
//	@Tags		notes
//	@Produce	json
//	@Param		limit	query	int	false	"Maximum count"
//	@Success	200		{array}	models.Note
//	@Router		/notes/recent [get]
func (h *Handler) RecentNotes(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	notes, err := h.db.Notes().GetRecent(r.Context(), limit)
	if err != nil {
		fail(w, "recent notes", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// CreateNote handles POST /api/notes.
//
//	@Summary	Write a note, optionally attached to a meeting
//	@Tags		notes
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateNoteRequest	true	"Note to create"
//	@Success	201		{object}	models.Note
//	@Failure	400		{object}	errResponse
//	@Router		/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := h.db.Notes().Create(r.Context(), req.Content, req.MeetingID)
	if err != nil {
		fail(w, "create note", err)
		return
	}
	h.writeNote(w, r, id, http.StatusCreated)
}

// UpdateNote handles PUT /api/notes/{id}.
//
//	@Summary	Replace the content of a note
//	@Tags		notes
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"Note id"
//	@Param		body	body		UpdateNoteRequest	true	"New content"
//	@Success	200		{object}	models.Note
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Router		/notes/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req UpdateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.db.Notes().Update(r.Context(), id, req.Content); err != nil {
		fail(w, "update note", err)
		return
	}
	h.writeNote(w, r, id, http.StatusOK)
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary	Delete a note
//	@Tags		notes
//	@Param		id	path	int	true	"Note id"
//	@Success	204
//	@Failure	404	{object}	errResponse
//	@Router		/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.db.Notes().Delete(r.Context(), id); err != nil {
		fail(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeNote(w http.ResponseWriter, r *http.Request, id int64, status int) {
	n, err := h.db.Notes().GetByID(r.Context(), id)
	if err != nil {
		fail(w, "get note", err)
		return
	}
	if n == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, status, n)
}
