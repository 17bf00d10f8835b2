package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/unowned-ai/mimal/pkg/kv"
	"github.com/unowned-ai/mimal/pkg/notes"
	"go.uber.org/zap"
)

var testDay = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

func setupTestStore(t *testing.T) *notes.Store {
	t.Helper()
	return notes.NewStore(kv.NewMemory(),
		notes.WithClock(func() time.Time { return testDay }),
		notes.WithLocation(time.UTC),
	)
}

func callTool(t *testing.T, h toolHandler, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if res == nil {
		t.Fatal("handler returned nil result")
	}
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", res.Content[0])
	}
	return text.Text
}

func TestPing(t *testing.T) {
	res := callTool(t, pingHandler, nil)
	if got := resultText(t, res); got != "pong_mimal" {
		t.Errorf("expected pong_mimal, got %q", got)
	}
}

func TestAppendAndListVoiceGroups(t *testing.T) {
	store := setupTestStore(t)
	appendH := appendVoiceNoteHandler(store, zap.NewNop())

	res := callTool(t, appendH, map[string]interface{}{"content": "first", "audio_url": "blob:1"})
	if res.IsError {
		t.Fatalf("append failed: %s", resultText(t, res))
	}
	var note notes.VoiceNote
	if err := json.Unmarshal([]byte(resultText(t, res)), &note); err != nil {
		t.Fatalf("failed to decode note: %v", err)
	}
	if note.ID == "" || note.Content != "first" || note.AudioURL != "blob:1" {
		t.Errorf("unexpected note: %+v", note)
	}

	res = callTool(t, appendH, map[string]interface{}{})
	if res.IsError {
		t.Fatalf("append without content failed: %s", resultText(t, res))
	}

	listH := listVoiceGroupsHandler(store)
	var groups []notes.DayGroup
	if err := json.Unmarshal([]byte(resultText(t, callTool(t, listH, nil))), &groups); err != nil {
		t.Fatalf("failed to decode groups: %v", err)
	}
	if len(groups) != 1 || groups[0].Date != "2024-01-01" {
		t.Fatalf("expected one 2024-01-01 group, got %+v", groups)
	}
	if len(groups[0].Notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(groups[0].Notes))
	}
	if groups[0].Notes[1].Content != notes.DefaultVoiceNoteContent {
		t.Errorf("expected default transcript, got %q", groups[0].Notes[1].Content)
	}

	if err := json.Unmarshal([]byte(resultText(t, callTool(t, listH, map[string]interface{}{"date": "2023-12-31"}))), &groups); err != nil {
		t.Fatalf("failed to decode groups: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected no groups for 2023-12-31, got %+v", groups)
	}

	res = callTool(t, listH, map[string]interface{}{"date": "yesterday"})
	if !res.IsError {
		t.Error("expected tool error for malformed date")
	}
}

func TestSaveGetListDeleteDocument(t *testing.T) {
	store := setupTestStore(t)
	logger := zap.NewNop()

	res := callTool(t, saveDocumentHandler(store, logger), map[string]interface{}{"title": "", "content": "<p>hi</p>"})
	if res.IsError {
		t.Fatalf("save failed: %s", resultText(t, res))
	}
	var saved notes.Document
	if err := json.Unmarshal([]byte(resultText(t, res)), &saved); err != nil {
		t.Fatalf("failed to decode document: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected a generated id")
	}
	if saved.Title != notes.DefaultDocumentTitle {
		t.Errorf("expected default title, got %q", saved.Title)
	}

	res = callTool(t, saveDocumentHandler(store, logger), map[string]interface{}{"id": saved.ID, "title": "Report", "content": "<p>v2</p>"})
	if res.IsError {
		t.Fatalf("update failed: %s", resultText(t, res))
	}

	res = callTool(t, getDocumentHandler(store), map[string]interface{}{"id": saved.ID})
	var got notes.Document
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("failed to decode document: %v", err)
	}
	if got.Title != "Report" || got.Content != "<p>v2</p>" {
		t.Errorf("unexpected document after update: %+v", got)
	}

	var docs []notes.Document
	if err := json.Unmarshal([]byte(resultText(t, callTool(t, listDocumentsHandler(store), nil))), &docs); err != nil {
		t.Fatalf("failed to decode documents: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}

	res = callTool(t, deleteDocumentHandler(store, logger), map[string]interface{}{"id": saved.ID})
	if res.IsError {
		t.Fatalf("delete failed: %s", resultText(t, res))
	}
	res = callTool(t, getDocumentHandler(store), map[string]interface{}{"id": saved.ID})
	if !res.IsError {
		t.Error("expected not-found tool error after delete")
	}
	if !strings.Contains(resultText(t, res), "not found") {
		t.Errorf("unexpected error text: %s", resultText(t, res))
	}
}

func TestDocumentTools_MissingArguments(t *testing.T) {
	store := setupTestStore(t)
	logger := zap.NewNop()

	cases := []struct {
		name string
		h    toolHandler
		args map[string]interface{}
	}{
		{"get without id", getDocumentHandler(store), map[string]interface{}{}},
		{"delete without id", deleteDocumentHandler(store, logger), map[string]interface{}{"id": ""}},
		{"save without content", saveDocumentHandler(store, logger), map[string]interface{}{"title": "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if res := callTool(t, tc.h, tc.args); !res.IsError {
				t.Errorf("expected tool error, got %s", resultText(t, res))
			}
		})
	}
}

func TestSaveDocument_WriteFailure(t *testing.T) {
	store := notes.NewStore(kv.NewMemory(kv.WithQuota(10)))
	res := callTool(t, saveDocumentHandler(store, zap.NewNop()), map[string]interface{}{"title": "big", "content": strings.Repeat("x", 100)})
	if !res.IsError {
		t.Fatal("expected tool error when the medium is full")
	}
}

func TestNewMimalMCPServer(t *testing.T) {
	medium := kv.NewMemory()
	srv := NewMimalMCPServer(notes.NewStore(medium), medium, nil)
	if srv.MCPRawServer() == nil {
		t.Fatal("expected raw server")
	}
	if err := srv.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
}

func TestAppendVoiceNote_ReturnsStoredTimestamp(t *testing.T) {
	store := setupTestStore(t)

	res := callTool(t, appendVoiceNoteHandler(store, zap.NewNop()), map[string]interface{}{"content": "precise"})
	if res.IsError {
		t.Fatalf("append failed: %s", resultText(t, res))
	}
	var returned notes.VoiceNote
	if err := json.Unmarshal([]byte(resultText(t, res)), &returned); err != nil {
		t.Fatalf("failed to decode note: %v", err)
	}
	if returned.Timestamp.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("returned timestamp has sub-millisecond precision: %v", returned.Timestamp)
	}

	group, ok := notes.FindDayGroup(store.LoadVoiceGroups(context.Background()), "2024-01-01")
	if !ok || len(group.Notes) != 1 {
		t.Fatalf("expected one stored note, got %+v", group)
	}
	if !group.Notes[0].Timestamp.Equal(returned.Timestamp) {
		t.Errorf("returned timestamp %v differs from stored %v", returned.Timestamp, group.Notes[0].Timestamp)
	}
}
