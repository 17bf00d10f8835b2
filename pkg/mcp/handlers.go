package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/unowned-ai/mimal/pkg/notes"
	"go.uber.org/zap"
)

type toolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong_mimal' to check if the Mimal MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_mimal"), nil
}

// RegisterListVoiceGroupsTool registers the list_voice_groups tool.
func RegisterListVoiceGroupsTool(s *server.MCPServer, store notes.NoteStore) {
	tool := mcp.NewTool("list_voice_groups",
		mcp.WithDescription("Lists recorded voice notes grouped by day, oldest day first."),
		mcp.WithString("date", mcp.Description("Optional day (YYYY-MM-DD) to return only that group.")),
	)
	s.AddTool(tool, listVoiceGroupsHandler(store))
}

func listVoiceGroupsHandler(store notes.NoteStore) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		groups := store.LoadVoiceGroups(ctx)

		date, _ := request.Params.Arguments["date"].(string)
		if date == "" {
			return jsonResult(groups, "voice groups")
		}
		if _, err := time.Parse(notes.DateLayout, date); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("'date' must be YYYY-MM-DD, got '%s'.", date)), nil
		}
		group, ok := notes.FindDayGroup(groups, date)
		if !ok {
			return jsonResult([]notes.DayGroup{}, "voice groups")
		}
		return jsonResult([]notes.DayGroup{group}, "voice groups")
	}
}

// RegisterAppendVoiceNoteTool registers the append_voice_note tool.
func RegisterAppendVoiceNoteTool(s *server.MCPServer, store notes.NoteStore, logger *zap.Logger) {
	tool := mcp.NewTool("append_voice_note",
		mcp.WithDescription("Appends a voice note to today's group."),
		mcp.WithString("content", mcp.Description("Transcript text. Defaults to 'Recording without transcript'.")),
		mcp.WithString("audio_url", mcp.Description("Optional reference to the recorded audio.")),
	)
	s.AddTool(tool, appendVoiceNoteHandler(store, logger))
}

func appendVoiceNoteHandler(store notes.NoteStore, logger *zap.Logger) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content, _ := request.Params.Arguments["content"].(string)
		audioURL, _ := request.Params.Arguments["audio_url"].(string)

		note := notes.VoiceNote{
			ID:        notes.NewID(),
			Content:   transcriptOrDefault(content),
			Timestamp: time.Now().Truncate(time.Millisecond), // stored precision
			AudioURL:  audioURL,
		}
		if err := store.AppendVoiceNote(ctx, note); err != nil {
			logger.Error("append_voice_note failed", zap.String("id", note.ID), zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("Failed to save voice note: %v", err)), nil
		}
		return jsonResult(note, "voice note")
	}
}

// RegisterListDocumentsTool registers the list_documents tool.
func RegisterListDocumentsTool(s *server.MCPServer, store notes.NoteStore) {
	tool := mcp.NewTool("list_documents",
		mcp.WithDescription("Lists saved documents, most recently updated first."),
	)
	s.AddTool(tool, listDocumentsHandler(store))
}

func listDocumentsHandler(store notes.NoteStore) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		docs := store.LoadDocuments(ctx)
		notes.SortByUpdated(docs)
		return jsonResult(docs, "documents")
	}
}

// RegisterGetDocumentTool registers the get_document tool.
func RegisterGetDocumentTool(s *server.MCPServer, store notes.NoteStore) {
	tool := mcp.NewTool("get_document",
		mcp.WithDescription("Returns one document by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The document id.")),
	)
	s.AddTool(tool, getDocumentHandler(store))
}

func getDocumentHandler(store notes.NoteStore) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := request.Params.Arguments["id"].(string)
		if !ok || id == "" {
			return mcp.NewToolResultError("'id' parameter is required."), nil
		}
		doc, err := store.GetDocument(ctx, id)
		if errors.Is(err, notes.ErrDocumentNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Document '%s' not found.", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error loading document '%s': %v", id, err)), nil
		}
		return jsonResult(doc, "document")
	}
}

// RegisterSaveDocumentTool registers the save_document tool.
func RegisterSaveDocumentTool(s *server.MCPServer, store notes.NoteStore, logger *zap.Logger) {
	tool := mcp.NewTool("save_document",
		mcp.WithDescription("Creates a document, or replaces the one with the given id."),
		mcp.WithString("id", mcp.Description("Id of the document to replace. Omit to create a new document.")),
		mcp.WithString("title", mcp.Description("Document title. Empty means 'เอกสารใหม่'.")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Document body (HTML markup).")),
	)
	s.AddTool(tool, saveDocumentHandler(store, logger))
}

func saveDocumentHandler(store notes.NoteStore, logger *zap.Logger) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, _ := request.Params.Arguments["id"].(string)
		title, _ := request.Params.Arguments["title"].(string)
		content, contentOk := request.Params.Arguments["content"].(string)
		if !contentOk { // content itself can be empty, but param must exist
			return mcp.NewToolResultError("'content' parameter is required."), nil
		}
		if id == "" {
			id = notes.NewID()
		}

		saved, err := store.UpsertDocument(ctx, notes.Document{ID: id, Title: title, Content: content})
		if err != nil {
			logger.Error("save_document failed", zap.String("id", id), zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("Failed to save document '%s': %v", id, err)), nil
		}
		return jsonResult(saved, "document")
	}
}

// RegisterDeleteDocumentTool registers the delete_document tool.
func RegisterDeleteDocumentTool(s *server.MCPServer, store notes.NoteStore, logger *zap.Logger) {
	tool := mcp.NewTool("delete_document",
		mcp.WithDescription("Deletes a document by id. Unknown ids are ignored."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The document id.")),
	)
	s.AddTool(tool, deleteDocumentHandler(store, logger))
}

func deleteDocumentHandler(store notes.NoteStore, logger *zap.Logger) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := request.Params.Arguments["id"].(string)
		if !ok || id == "" {
			return mcp.NewToolResultError("'id' parameter is required."), nil
		}
		if err := store.DeleteDocument(ctx, id); err != nil {
			logger.Error("delete_document failed", zap.String("id", id), zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete document '%s': %v", id, err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Document '%s' deleted.", id)), nil
	}
}
