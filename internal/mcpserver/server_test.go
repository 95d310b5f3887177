package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/syndic/internal/dashboard"
	"github.com/starford/syndic/internal/models"
	"github.com/starford/syndic/internal/service"
	"github.com/starford/syndic/internal/store"
	"github.com/starford/syndic/internal/testutil"
)

var testNow = time.Date(2024, time.June, 15, 9, 0, 0, 0, time.Local)

func testServer(t *testing.T) (*Server, *store.DB) {
	t.Helper()
	db := testutil.TestDB(t, store.WithClock(testutil.FixedClock(testNow)))
	files := testutil.TestFiles(t)
	dash := dashboard.NewService(db.Meetings(), db.Notes(), db.Settings(), db.TimeEntries(), db.Now)
	docs := service.NewDocuments(files, db.Documents(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(db, dash, docs), db
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"list_meetings":     srv.listMeetings,
		"upcoming_meetings": srv.upcomingMeetings,
		"create_meeting":    srv.createMeeting,
		"create_note":       srv.createNote,
		"search_notes":      srv.searchNotes,
		"list_tasks":        srv.listTasks,
		"create_task":       srv.createTask,
		"toggle_task":       srv.toggleTask,
		"finance_stats":     srv.financeStats,
		"start_session":     srv.startSession,
		"stop_session":      srv.stopSession,
		"dashboard":         srv.dashboard,
		"import_document":   srv.importDocument,
	}
	h, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	result, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func stamp(day, hour int) string {
	return time.Date(2024, time.June, day, hour, 0, 0, 0, time.Local).Format(time.RFC3339)
}

func TestCreateAndListMeetings(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_meeting", map[string]any{
		"title": "Conseil syndical", "start_at": stamp(20, 18), "end_at": stamp(20, 20), "location": "Hall B",
	})
	if r.IsError {
		t.Fatalf("create_meeting: %s", resultText(r))
	}

	r = callTool(t, srv, "upcoming_meetings", map[string]any{})
	var got []models.Meeting
	if err := json.Unmarshal([]byte(resultText(r)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Conseil syndical" || got[0].Location != "Hall B" {
		t.Errorf("upcoming = %+v", got)
	}

	r = callTool(t, srv, "list_meetings", map[string]any{"from": stamp(21, 0), "to": stamp(30, 0)})
	if text := resultText(r); strings.Contains(text, "Conseil") {
		t.Errorf("range should exclude the meeting, got %s", text)
	}
}

func TestCreateMeetingRejectsBadTime(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_meeting", map[string]any{
		"title": "x", "start_at": "tomorrow", "end_at": stamp(20, 20),
	})
	if !r.IsError {
		t.Error("expected error for unparsable start_at")
	}
	r = callTool(t, srv, "list_meetings", map[string]any{"from": stamp(1, 0)})
	if !r.IsError {
		t.Error("expected error when to is missing")
	}
}

func TestNotesTools(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_note", map[string]any{"content": "Fuite au 3e étage"})
	if text := resultText(r); text != "created note 1" {
		t.Errorf("create result = %q", text)
	}

	r = callTool(t, srv, "search_notes", map[string]any{"query": "FUITE"})
	if !strings.Contains(resultText(r), "Fuite au 3e étage") {
		t.Errorf("search result = %s", resultText(r))
	}

	r = callTool(t, srv, "create_note", map[string]any{"content": "orphan", "meeting_id": 77})
	if !r.IsError {
		t.Error("expected error for unknown meeting")
	}

	r = callTool(t, srv, "create_note", map[string]any{"content": "   "})
	if !r.IsError {
		t.Error("expected error for blank content")
	}
}

func TestTaskTools(t *testing.T) {
	srv, db := testServer(t)

	r := callTool(t, srv, "create_task", map[string]any{"title": "Changer l'ampoule", "priority": "high"})
	if r.IsError {
		t.Fatalf("create_task: %s", resultText(r))
	}
	task, err := db.Tasks().GetByID(context.Background(), 1)
	if err != nil || task == nil {
		t.Fatalf("task not stored: %v", err)
	}
	if task.Priority != models.PriorityHigh || task.Status != models.TaskTodo {
		t.Errorf("task = %+v", task)
	}

	r = callTool(t, srv, "toggle_task", map[string]any{"id": 1})
	if text := resultText(r); text != "DONE" {
		t.Errorf("toggle = %q, want DONE", text)
	}

	r = callTool(t, srv, "list_tasks", map[string]any{"status": "todo"})
	if text := resultText(r); text != "[]" {
		t.Errorf("todo list = %s", text)
	}

	r = callTool(t, srv, "toggle_task", map[string]any{"id": 99})
	if !r.IsError {
		t.Error("expected error for unknown task")
	}
}

func TestFinanceStatsTool(t *testing.T) {
	srv, db := testServer(t)
	ctx := context.Background()
	for _, f := range []models.FinanceEntry{
		{Title: "Appel de fonds", Amount: 100, Type: models.FinanceIncome, Date: testNow},
		{Title: "Jardinier", Amount: 40, Type: models.FinanceExpense, Date: testNow},
	} {
		if _, err := db.Finances().Create(ctx, f); err != nil {
			t.Fatal(err)
		}
	}

	r := callTool(t, srv, "finance_stats", map[string]any{})
	var st models.FinanceStats
	if err := json.Unmarshal([]byte(resultText(r)), &st); err != nil {
		t.Fatal(err)
	}
	if st.Balance != 60 {
		t.Errorf("balance = %v, want 60", st.Balance)
	}
}

func TestSessionTools(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "start_session", map[string]any{})
	if r.IsError {
		t.Fatalf("start_session: %s", resultText(r))
	}
	r = callTool(t, srv, "start_session", map[string]any{})
	if !r.IsError {
		t.Error("expected error for a second open session")
	}

	r = callTool(t, srv, "stop_session", map[string]any{"id": 1})
	if r.IsError {
		t.Fatalf("stop_session: %s", resultText(r))
	}
	r = callTool(t, srv, "stop_session", map[string]any{})
	if !r.IsError {
		t.Error("expected error for missing id")
	}
}

func TestDashboardTool(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_meeting", map[string]any{
		"title": "AG", "start_at": stamp(20, 10), "end_at": stamp(20, 12),
	})

	text := resultText(callTool(t, srv, "dashboard", map[string]any{}))
	for _, want := range []string{"Month: 2024-06", "Meetings: 2h 00m of 35h 00m", "Upcoming: AG at 2024-06-20 10:00"} {
		if !strings.Contains(text, want) {
			t.Errorf("dashboard missing %q in:\n%s", want, text)
		}
	}
}

func TestImportDocumentTool(t *testing.T) {
	srv, db := testServer(t)
	payload := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 contract"))

	r := callTool(t, srv, "import_document", map[string]any{
		"name": "contrat-ascenseur.pdf", "category": "contrat", "data": "data:application/pdf;base64," + payload,
	})
	if r.IsError {
		t.Fatalf("import_document: %s", resultText(r))
	}
	docs, err := db.Documents().GetByCategory(context.Background(), models.CategoryContrat)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Size != 17 {
		t.Errorf("documents = %+v", docs)
	}

	r = callTool(t, srv, "import_document", map[string]any{
		"name": "x.pdf", "category": "PV", "data": "https://example.com/x.pdf",
	})
	if !r.IsError {
		t.Error("expected error for a non data URI")
	}
}

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"data:text/plain;base64,aGVsbG8=", "hello", false},
		{"data:text/plain;base64,aGVsbG8", "hello", false},
		{"data:text/plain,hello", "", true},
		{"data:text/plain;base64", "", true},
		{"hello", "", true},
	}
	for _, tt := range tests {
		got, err := decodeDataURI(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("decodeDataURI(%q) err = %v", tt.in, err)
			continue
		}
		if string(got) != tt.want {
			t.Errorf("decodeDataURI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
