package tui

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/unowned-ai/mimal/pkg/notes"

	tea "github.com/charmbracelet/bubbletea"
)

type voiceGroupsMsg []notes.DayGroup

type documentsMsg []notes.Document

type documentDeletedMsg struct {
	id string
}

// Load day groups from the store, newest day first
func loadVoiceGroups(store notes.NoteStore) tea.Cmd {
	return func() tea.Msg {
		groups := store.LoadVoiceGroups(context.Background())
		reversed := make([]notes.DayGroup, len(groups))
		for i, g := range groups {
			reversed[len(groups)-1-i] = g
		}
		return voiceGroupsMsg(reversed)
	}
}

// Load documents from the store in list order
func loadDocuments(store notes.NoteStore) tea.Cmd {
	return func() tea.Msg {
		docs := store.LoadDocuments(context.Background())
		notes.SortByUpdated(docs)
		return documentsMsg(docs)
	}
}

func deleteDocument(store notes.NoteStore, id string) tea.Cmd {
	return func() tea.Msg {
		if err := store.DeleteDocument(context.Background(), id); err != nil {
			return err
		}
		return documentDeletedMsg{id: id}
	}
}

var (
	blockTagPattern = regexp.MustCompile(`(?i)</?(p|div|br|h[1-6]|li|ul|ol|blockquote)[^>]*>`)
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	blankRunPattern = regexp.MustCompile(`\n{3,}`)
)

// Reduce document markup to plain text for the preview pane
func plainText(markup string) string {
	text := blockTagPattern.ReplaceAllString(markup, "\n")
	text = tagPattern.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
