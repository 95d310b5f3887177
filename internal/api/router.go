package api

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// localOnly rejects requests from non-loopback peers. Successful mutations
// are reported to events, which may be nil.
func NewRouter(h *Handler, localOnly bool, events ChangePublisher) chi.Router {
	r := chi.NewRouter()
	r.Use(LocalOnly(localOnly))
	r.Use(Notify(events))

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.GetSettings)
		r.Patch("/", h.UpdateSettings)
		r.Post("/reset", h.ResetAll)
	})
	r.Get("/dashboard", h.Dashboard)

	r.Route("/meetings", func(r chi.Router) {
		r.Get("/", h.ListMeetings)
		r.Post("/", h.CreateMeeting)
		r.Get("/upcoming", h.UpcomingMeetings)
		r.Get("/{id}", h.GetMeeting)
		r.Patch("/{id}", h.UpdateMeeting)
		r.Delete("/{id}", h.DeleteMeeting)
	})

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", h.ListNotes)
		r.Post("/", h.CreateNote)
		r.Get("/recent", h.RecentNotes)
		r.Put("/{id}", h.UpdateNote)
		r.Delete("/{id}", h.DeleteNote)
	})

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", h.ListDocuments)
		r.Post("/", h.ImportDocument)
		r.Patch("/{id}", h.UpdateDocument)
		r.Delete("/{id}", h.DeleteDocument)
		r.Get("/{id}/file", h.DocumentFile)
	})

	r.Route("/contacts", func(r chi.Router) {
		r.Get("/", h.ListContacts)
		r.Post("/", h.CreateContact)
		r.Patch("/{id}", h.UpdateContact)
		r.Delete("/{id}", h.DeleteContact)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Patch("/{id}", h.UpdateTask)
		r.Delete("/{id}", h.DeleteTask)
		r.Post("/{id}/toggle", h.ToggleTask)
	})

	r.Route("/finances", func(r chi.Router) {
		r.Get("/", h.ListFinances)
		r.Post("/", h.CreateFinance)
		r.Get("/stats", h.FinanceStats)
		r.Delete("/{id}", h.DeleteFinance)
	})

	r.Route("/time-entries", func(r chi.Router) {
		r.Get("/", h.ListTimeEntries)
		r.Get("/active", h.ActiveTimeEntry)
		r.Get("/month", h.MonthTime)
		r.Post("/start", h.StartSession)
		r.Post("/{id}/stop", h.StopSession)
		r.Delete("/{id}", h.DeleteTimeEntry)
	})

	return r
}
