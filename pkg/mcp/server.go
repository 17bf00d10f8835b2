package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	mimal "github.com/unowned-ai/mimal/pkg"
	"github.com/unowned-ai/mimal/pkg/kv"
	"github.com/unowned-ai/mimal/pkg/notes"
	"go.uber.org/zap"
)

type MimalMCPServer struct {
	mcpServer *server.MCPServer
	store     notes.NoteStore
	medium    kv.Store
	logger    *zap.Logger
}

// NewMimalMCPServer wraps store in an MCP server with every note tool registered.
// The server owns medium and closes it in Close.
func NewMimalMCPServer(store notes.NoteStore, medium kv.Store, logger *zap.Logger) *MimalMCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := server.NewMCPServer(
		"Mimal MCP Server",
		mimal.Version,
		server.WithLogging(),
		server.WithRecovery(),
	)

	srv := &MimalMCPServer{
		mcpServer: s,
		store:     store,
		medium:    medium,
		logger:    logger.Named("mcp"),
	}
	RegisterTools(s, store, srv.logger)
	return srv
}

// RegisterTools adds every note tool to s.
func RegisterTools(s *server.MCPServer, store notes.NoteStore, logger *zap.Logger) {
	RegisterPingTool(s)
	RegisterListVoiceGroupsTool(s, store)
	RegisterAppendVoiceNoteTool(s, store, logger)
	RegisterListDocumentsTool(s, store)
	RegisterGetDocumentTool(s, store)
	RegisterSaveDocumentTool(s, store, logger)
	RegisterDeleteDocumentTool(s, store, logger)
}

// ToolNames lists the registered tools in registration order.
var ToolNames = []string{
	"ping",
	"list_voice_groups",
	"append_voice_note",
	"list_documents",
	"get_document",
	"save_document",
	"delete_document",
}

// Start runs the stdio event loop until stdin closes.
func (s *MimalMCPServer) Start() error {
	s.logger.Info("listening for MCP JSON-RPC on stdio", zap.Strings("tools", ToolNames))
	return server.ServeStdio(s.mcpServer)
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *MimalMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}

// Close releases the storage medium.
func (s *MimalMCPServer) Close() error {
	if s.medium == nil {
		return nil
	}
	if err := s.medium.Close(); err != nil {
		s.logger.Warn("closing storage failed", zap.Error(err))
		return err
	}
	return nil
}
