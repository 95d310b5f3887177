package api

import (
	"net/http"
	"strings"

	"github.com/starford/syndic/internal/models"
)

// ListContacts handles GET /api/contacts, optionally filtered by ?type=.
//
//	@Summary	List contacts
//	@Tags		contacts
//	@Produce	json
//	@Param		type	query	string	false	"Contact type filter"
//	@Success	200		{array}	models.Contact
//	@Router		/contacts [get]
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	var (
		contacts []models.Contact
		err      error
	)
	if t := r.URL.Query().Get("type"); t != "" {
		contacts, err = h.db.Contacts().GetByType(r.Context(), models.ContactType(strings.ToUpper(t)))
	} else {
		contacts, err = h.db.Contacts().GetAll(r.Context())
	}
	if err != nil {
		fail(w, "list contacts", err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// CreateContact handles POST /api/contacts.
//
//	@Summary	Add a contact
//	@Tags		contacts
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.Contact	true	"Contact to create"
//	@Success	201		{object}	models.Contact
//	@Failure	400		{object}	errResponse
//	@Router		/contacts [post]
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var c models.Contact
	if !decodeJSON(w, r, &c) {
		return
	}
	id, err := h.db.Contacts().Create(r.Context(), c)
	if err != nil {
		fail(w, "create contact", err)
		return
	}
	c.ID = id
	writeJSON(w, http.StatusCreated, c)
}

// UpdateContact handles PATCH /api/contacts/{id}.
//
//	@Summary	Change some fields of a contact
//	@Tags		contacts
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"Contact id"
//	@Param		body	body		models.ContactPatch	true	"Fields to change"
//	@Success	200		{object}	models.Contact
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Router		/contacts/{id} [patch]
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p models.ContactPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := h.db.Contacts().Update(r.Context(), id, p); err != nil {
		fail(w, "update contact", err)
		return
	}
	c, err := h.db.Contacts().GetByID(r.Context(), id)
	if err != nil {
		fail(w, "get contact", err)
		return
	}
	if c == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteContact handles DELETE /api/contacts/{id}.
//
//	@Summary	Delete a contact
//	@Tags		contacts
//	@Param		id	path	int	true	"Contact id"
//	@Success	204
//	@Failure	404	{object}	errResponse
//	@Router		/contacts/{id} [delete]
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.db.Contacts().Delete(r.Context(), id); err != nil {
		fail(w, "delete contact", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
