package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/unowned-ai/mimal/pkg/notes"
)

// jsonResult serializes v as the tool's text result.
func jsonResult(v any, what string) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize %s to JSON: %v", what, err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func transcriptOrDefault(content string) string {
	if strings.TrimSpace(content) == "" {
		return notes.DefaultVoiceNoteContent
	}
	return content
}
