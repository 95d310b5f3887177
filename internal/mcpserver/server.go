// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the organizer's meetings, notes, tasks and figures
// via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/syndic/internal/dashboard"
	"github.com/starford/syndic/internal/models"
	"github.com/starford/syndic/internal/service"
	"github.com/starford/syndic/internal/store"
)

// Server wraps the MCP server with the organizer tools.
type Server struct {
	mcp  *server.MCPServer
	db   *store.DB
	dash *dashboard.Service
	docs *service.Documents
}

// New creates a new MCP server with all tools registered.
func New(db *store.DB, dash *dashboard.Service, docs *service.Documents) *Server {
	s := &Server{db: db, dash: dash, docs: docs}

	s.mcp = server.NewMCPServer(
		"Syndic",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_meetings",
		mcp.WithDescription("List meetings. With from and to, only meetings starting in that inclusive range."),
		mcp.WithString("from", mcp.Description("Range start, RFC 3339")),
		mcp.WithString("to", mcp.Description("Range end, RFC 3339")),
	), s.listMeetings)

	s.mcp.AddTool(mcp.NewTool("upcoming_meetings",
		mcp.WithDescription("List the next meetings starting now or later, soonest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of meetings (default 3)")),
	), s.upcomingMeetings)

	s.mcp.AddTool(mcp.NewTool("create_meeting",
		mcp.WithDescription("Schedule a meeting."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Meeting title")),
		mcp.WithString("start_at", mcp.Required(), mcp.Description("Start, RFC 3339")),
		mcp.WithString("end_at", mcp.Required(), mcp.Description("End, RFC 3339")),
		mcp.WithString("location", mcp.Description("Where the meeting takes place")),
		mcp.WithString("description", mcp.Description("Agenda or free text")),
	), s.createMeeting)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Write a note, optionally attached to a meeting."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note text")),
		mcp.WithNumber("meeting_id", mcp.Description("Meeting to attach the note to")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Case-insensitive substring search through note contents."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks, newest first."),
		mcp.WithString("status", mcp.Description("Only tasks with this status"), mcp.Enum("TODO", "DONE")),
	), s.listTasks)

	s.mcp.AddTool(mcp.NewTool("create_task",
		mcp.WithDescription("Add a task. It starts as TODO."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
		mcp.WithString("priority", mcp.Description("Priority (default MEDIUM)"), mcp.Enum("LOW", "MEDIUM", "HIGH")),
	), s.createTask)

	s.mcp.AddTool(mcp.NewTool("toggle_task",
		mcp.WithDescription("Flip a task between TODO and DONE."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Task id")),
	), s.toggleTask)

	s.mcp.AddTool(mcp.NewTool("finance_stats",
		mcp.WithDescription("Total income, total expense and balance over all finance entries."),
	), s.financeStats)

	s.mcp.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start tracking a work session. Fails while another session is open."),
		mcp.WithNumber("meeting_id", mcp.Description("Meeting the session belongs to")),
	), s.startSession)

	s.mcp.AddTool(mcp.NewTool("stop_session",
		mcp.WithDescription("Stop an open work session and record its minutes."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Time entry id")),
	), s.stopSession)

	s.mcp.AddTool(mcp.NewTool("dashboard",
		mcp.WithDescription("Meeting minutes of the current month against the quota, upcoming meetings and recent notes."),
	), s.dashboard)

	s.mcp.AddTool(mcp.NewTool("import_document",
		mcp.WithDescription("Archive a document given as a base64 data URI. "+
			"Read the syndic://guide resource for the valid categories."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name, usually the file name")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Document category"),
			mcp.Enum("PV", "CONTRAT", "FACTURE", "AUTRE")),
		mcp.WithString("data", mcp.Required(), mcp.Description("data:<mime>;base64,<payload>")),
		mcp.WithNumber("meeting_id", mcp.Description("Meeting the document belongs to")),
	), s.importDocument)

	s.mcp.AddResource(
		mcp.NewResource(guideURI, "Organizer Guide",
			mcp.WithResourceDescription("Valid enumerations and formats accepted by the tools."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuide,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// optionalID reads a positive id argument; zero means absent.
func optionalID(req mcp.CallToolRequest, key string) *int64 {
	if v := req.GetInt(key, 0); v > 0 {
		id := int64(v)
		return &id
	}
	return nil
}

func requireID(req mcp.CallToolRequest, key string) (int64, error) {
	id := optionalID(req, key)
	if id == nil {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return *id, nil
}

func requireTime(req mcp.CallToolRequest, key string) (time.Time, error) {
	raw, err := req.RequireString(key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return t, nil
}

func (s *Server) listMeetings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if req.GetString("from", "") == "" && req.GetString("to", "") == "" {
		all, err := s.db.Meetings().GetAll(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(all)
	}
	from, err := requireTime(req, "from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := requireTime(req, "to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	got, err := s.db.Meetings().GetByRange(ctx, from, to)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(got)
}

func (s *Server) upcomingMeetings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	got, err := s.db.Meetings().GetUpcoming(ctx, req.GetInt("limit", store.DefaultListLimit))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(got)
}

func (s *Server) createMeeting(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, err := requireTime(req, "start_at")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := requireTime(req, "end_at")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m := models.Meeting{
		Title:       title,
		Location:    req.GetString("location", ""),
		Description: req.GetString("description", ""),
		StartAt:     start,
		EndAt:       end,
	}
	id, err := s.db.Meetings().Create(ctx, m)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m.ID = id
	return jsonResult(m)
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := s.db.Notes().Create(ctx, content, optionalID(req, "meeting_id"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created note %d", id)), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes, err := s.db.Notes().Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(notes)
}

func (s *Server) listTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		tasks []models.Task
		err   error
	)
	if status := req.GetString("status", ""); status != "" {
		tasks, err = s.db.Tasks().GetByStatus(ctx, models.TaskStatus(strings.ToUpper(status)))
	} else {
		tasks, err = s.db.Tasks().GetAll(ctx)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(tasks)
}

func (s *Server) createTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t := models.Task{
		Title:    title,
		Priority: models.TaskPriority(strings.ToUpper(req.GetString("priority", ""))),
	}
	id, err := s.db.Tasks().Create(ctx, t)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created task %d", id)), nil
}

func (s *Server) toggleTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := s.db.Tasks().GetByID(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if t == nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: task %d", id)), nil
	}
	status, err := s.db.Tasks().ToggleStatus(ctx, id, t.Status)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(status)), nil
}

func (s *Server) financeStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.db.Finances().GetStats(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(st)
}

func (s *Server) startSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	e, err := s.db.TimeEntries().StartSession(ctx, optionalID(req, "meeting_id"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(e)
}

func (s *Server) stopSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	e, err := s.db.TimeEntries().StopSession(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(e)
}

func (s *Server) dashboard(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.dash.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Month: %s\n", st.MonthStart.Format(models.MonthLayout))
	fmt.Fprintf(&b, "Meetings: %s of %s (%.0f%%)\n",
		dashboard.FormatMinutes(st.TotalMinutesMonth),
		dashboard.FormatMinutes(st.MonthlyQuotaMinutes),
		st.Progress*100)
	fmt.Fprintf(&b, "Remaining: %s\n", dashboard.FormatMinutes(st.RemainingMinutes))
	fmt.Fprintf(&b, "Tracked sessions: %s\n", dashboard.FormatMinutes(st.TrackedMinutesMonth))
	for _, m := range st.UpcomingMeetings {
		fmt.Fprintf(&b, "Upcoming: %s at %s\n", m.Title, m.StartAt.Format("2006-01-02 15:04"))
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}
