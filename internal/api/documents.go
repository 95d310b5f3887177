package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/starford/syndic/internal/models"
	"github.com/starford/syndic/internal/service"
)

const maxUploadBytes = 50 << 20 // 50 MB

// ListDocuments handles GET /api/documents.
// category and meeting_id filter the list; category wins when both are given.
//
//	@Summary	List documents by category or meeting
//	@Tags		documents
//	@Produce	json
//	@Param		category	query		string	false	"PV, CONTRAT, FACTURE or AUTRE"
//	@Param		meeting_id	query		int		false	"Meeting filter"
//	@Success	200			{array}		DocumentView
//	@Failure	400			{object}	errResponse
//	@Router		/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meetingID, err := queryID(r, "meeting_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	var docs []models.Document
	switch c := r.URL.Query().Get("category"); {
	case c != "":
		docs, err = h.db.Documents().GetByCategory(ctx, models.DocumentCategory(strings.ToUpper(c)))
	case meetingID != nil:
		docs, err = h.db.Documents().GetByMeetingID(ctx, *meetingID)
	default:
		docs, err = h.db.Documents().GetAll(ctx)
	}
	if err != nil {
		fail(w, "list documents", err)
		return
	}
	writeJSON(w, http.StatusOK, documentViews(docs))
}

// ImportDocument handles POST /api/documents (multipart/form-data, field
// "file", plus "category", optional "name" and "meeting_id").
//
//	@Summary	Import a document into application storage
//	@Tags		documents
//	@Accept		mpfd
//	@Produce	json
//	@Param		file		formData	file	true	"Document"
//	@Param		category	formData	string	true	"PV, CONTRAT, FACTURE or AUTRE"
//	@Param		name		formData	string	false	"Display name (defaults to the file name)"
//	@Param		meeting_id	formData	int		false	"Meeting to attach to"
//	@Success	201			{object}	DocumentView
//	@Failure	400			{object}	errResponse
//	@Router		/documents [post]
func (h *Handler) ImportDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	req := service.ImportRequest{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Category: models.DocumentCategory(strings.ToUpper(r.FormValue("category"))),
		Body:     file,
	}
	if req.Name == "" {
		req.Name = header.Filename
	}
	if raw := r.FormValue("meeting_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("meeting_id must be a positive integer"))
			return
		}
		req.MeetingID = &id
	}

	doc, err := h.docs.Import(r.Context(), req)
	if err != nil {
		fail(w, "import document", err)
		return
	}
	writeJSON(w, http.StatusCreated, documentViews([]models.Document{doc})[0])
}

// UpdateDocument handles PATCH /api/documents/{id}.
//
//	@Summary	Rename, recategorize or relink a document
//	@Tags		documents
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int						true	"Document id"
//	@Param		body	body		models.DocumentPatch	true	"Fields to change"
//	@Success	200		{object}	DocumentView
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Router		/documents/{id} [patch]
func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p models.DocumentPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := h.db.Documents().Update(r.Context(), id, p); err != nil {
		fail(w, "update document", err)
		return
	}
	d, err := h.db.Documents().GetByID(r.Context(), id)
	if err != nil {
		fail(w, "get document", err)
		return
	}
	if d == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, documentViews([]models.Document{*d})[0])
}

// DeleteDocument handles DELETE /api/documents/{id}. The stored file is kept.
//
//	@Summary	Forget a document
//	@Tags		documents
//	@Param		id	path	int	true	"Document id"
//	@Success	204
//	@Failure	404	{object}	errResponse
//	@Router		/documents/{id} [delete]
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.db.Documents().Delete(r.Context(), id); err != nil {
		fail(w, "delete document", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DocumentFile handles GET /api/documents/{id}/file, streaming the stored
// copy for sharing or export.
//
//	@Summary	Download the stored copy of a document
//	@Tags		documents
//	@Produce	octet-stream
//	@Param		id	path		int	true	"Document id"
//	@Success	200	{file}		file
//	@Failure	404	{object}	errResponse
//	@Router		/documents/{id}/file [get]
func (h *Handler) DocumentFile(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	doc, f, err := h.docs.Open(r.Context(), id)
	if err != nil {
		fail(w, "open document", err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		fail(w, "stat document", err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(doc.Name, `"`, "")+`"`)
	http.ServeContent(w, r, doc.Name, info.ModTime(), f)
}
