package api

import (
	"log/slog"
	"net/http"

	"github.com/starford/syndic/internal/appstate"
	"github.com/starford/syndic/internal/dashboard"
	"github.com/starford/syndic/internal/models"
	"github.com/starford/syndic/internal/service"
	"github.com/starford/syndic/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	db    *store.DB
	state *appstate.State
	dash  *dashboard.Service
	docs  *service.Documents
}

// NewHandler creates a new Handler.
func NewHandler(db *store.DB, state *appstate.State, dash *dashboard.Service, docs *service.Documents) *Handler {
	return &Handler{db: db, state: state, dash: dash, docs: docs}
}

// GetSettings handles GET /api/settings.
//
//	@Summary	Current settings and theme palette
//	@Tags		settings
//	@Produce	json
//	@Success	200	{object}	SettingsResponse
//	@Router		/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.state.Snapshot())
}

// UpdateSettings handles PATCH /api/settings.
//
//	@Summary	Change display name, monthly quota or theme
//	@Tags		settings
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.SettingsPatch	true	"Fields to change"
//	@Success	200		{object}	SettingsResponse
//	@Failure	400		{object}	errResponse
//	@Router		/settings [patch]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var p models.SettingsPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	snap, err := h.state.Update(r.Context(), p)
	if err != nil {
		fail(w, "update settings", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ResetAll handles POST /api/settings/reset.
//
//	@Summary	Delete every meeting, note and time entry
//	@Tags		settings
//	@Success	204	"Data reset"
//	@Router		/settings/reset [post]
func (h *Handler) ResetAll(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Settings().ResetAll(r.Context()); err != nil {
		fail(w, "reset", err)
		return
	}
	if err := h.state.Reload(r.Context()); err != nil {
		fail(w, "reload settings", err)
		return
	}
	slog.Info("data reset")
	w.WriteHeader(http.StatusNoContent)
}

// Dashboard handles GET /api/dashboard.
//
//	@Summary	Monthly meeting time, quota progress, upcoming meetings and recent notes
//	@Tags		dashboard
//	@Produce	json
//	@Success	200	{object}	DashboardResponse
//	@Router		/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	st, err := h.dash.Stats(r.Context())
	if err != nil {
		fail(w, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, newDashboardResponse(st))
}
