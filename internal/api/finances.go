package api

import (
	"net/http"

	"github.com/starford/syndic/internal/models"
)

// ListFinances handles GET /api/finances.
//
//	@Summary	List finance entries
//	@Tags		finances
//	@Produce	json
//	@Success	200	{array}	models.FinanceEntry
//	@Router		/finances [get]
func (h *Handler) ListFinances(w http.ResponseWriter, r *http.Request) {
	all, err := h.db.Finances().GetAll(r.Context())
	if err != nil {
		fail(w, "list finances", err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// CreateFinance handles POST /api/finances.
//
//	@Summary	Record an income or expense
//	@Tags		finances
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.FinanceEntry	true	"Entry to record"
//	@Success	201		{object}	models.FinanceEntry
//	@Failure	400		{object}	errResponse
//	@Router		/finances [post]
func (h *Handler) CreateFinance(w http.ResponseWriter, r *http.Request) {
	var f models.FinanceEntry
	if !decodeJSON(w, r, &f) {
		return
	}
	id, err := h.db.Finances().Create(r.Context(), f)
	if err != nil {
		fail(w, "create finance", err)
		return
	}
	got, err := h.db.Finances().GetByID(r.Context(), id)
	if err != nil {
		fail(w, "get finance", err)
		return
	}
	writeJSON(w, http.StatusCreated, got)
}

// FinanceStats handles GET /api/finances/stats.
//
//	@Summary	Income, expense and balance over every entry
//	@Tags		finances
//	@Produce	json
//	@Success	200	{object}	models.FinanceStats
//	@Router		/finances/stats [get]
func (h *Handler) FinanceStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.db.Finances().GetStats(r.Context())
	if err != nil {
		fail(w, "finance stats", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// DeleteFinance handles DELETE /api/finances/{id}.
//
//	@Summary	Delete a finance entry
//	@Tags		finances
//	@Param		id	path	int	true	"Entry id"
//	@Success	204
//	@Failure	404	{object}	errResponse
//	@Router		/finances/{id} [delete]
func (h *Handler) DeleteFinance(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.db.Finances().Delete(r.Context(), id); err != nil {
		fail(w, "delete finance", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
