package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/unowned-ai/mimal/pkg/notes"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type viewMode int

const (
	modeRecordings viewMode = iota
	modeDocuments
)

type model struct {
	groups []notes.DayGroup // newest day first
	docs   []notes.Document // newest update first

	mode        viewMode
	columnFocus int // recordings only: 0 = days, 1 = notes
	width       int
	height      int
	err         error

	dynamicWidth bool
	help         help.Model

	store        notes.NoteStore
	storageLabel string
	loc          *time.Location // display zone for timestamps

	quitting bool

	dayCursor  int
	noteCursor int

	docCursor           int
	docDeleting         bool
	docDeleteConfirmIdx int // 0 = "Yes" selected, 1 = "No"

	// Animation state
	marqueeOffset int
	marqueeTimer  int
}

func initModel(store notes.NoteStore, storageLabel string, loc *time.Location) model {
	if loc == nil {
		loc = time.Local
	}
	return model{
		groups:       []notes.DayGroup{},
		docs:         []notes.Document{},
		mode:         modeRecordings,
		dynamicWidth: true,
		help:         help.New(),
		store:        store,
		storageLabel: storageLabel,
		loc:          loc,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		loadVoiceGroups(m.store),
		loadDocuments(m.store),
		tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
			return t
		}),
	)
}

func (m model) selectedNotes() []notes.VoiceNote {
	if m.dayCursor < len(m.groups) {
		return m.groups[m.dayCursor].Notes
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case error:
		m.err = msg
		return m, nil

	case voiceGroupsMsg:
		m.groups = msg
		if m.dayCursor >= len(m.groups) {
			m.dayCursor = 0
		}
		m.noteCursor = 0
		return m, nil

	case documentsMsg:
		m.docs = msg
		if m.docCursor >= len(m.docs) {
			m.docCursor = max(len(m.docs)-1, 0)
		}
		return m, nil

	case documentDeletedMsg:
		for i, d := range m.docs {
			if d.ID == msg.id {
				m.docs = append(m.docs[:i], m.docs[i+1:]...)
				break
			}
		}
		if m.docCursor >= len(m.docs) {
			m.docCursor = max(len(m.docs)-1, 0)
		}
		return m, nil

	case tea.KeyMsg:
		if m.docDeleting {
			switch {
			case key.Matches(msg, keys.Up):
				m.docDeleteConfirmIdx = 0
			case key.Matches(msg, keys.Down):
				m.docDeleteConfirmIdx = 1
			case key.Matches(msg, keys.Yes):
				m.docDeleting = false
				return m, deleteDocument(m.store, m.docs[m.docCursor].ID)
			case key.Matches(msg, keys.No):
				m.docDeleting = false
			case key.Matches(msg, keys.Confirm):
				m.docDeleting = false
				if m.docDeleteConfirmIdx == 0 {
					return m, deleteDocument(m.store, m.docs[m.docCursor].ID)
				}
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			// Exit alt screen before quitting so the goodbye message displays
			return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)

		case key.Matches(msg, keys.Tab):
			if m.mode == modeRecordings {
				m.mode = modeDocuments
				return m, loadDocuments(m.store)
			}
			m.mode = modeRecordings
			return m, loadVoiceGroups(m.store)

		case key.Matches(msg, keys.Reload):
			return m, tea.Batch(loadVoiceGroups(m.store), loadDocuments(m.store))

		case key.Matches(msg, keys.Layout):
			m.dynamicWidth = !m.dynamicWidth
			return m, nil

		case key.Matches(msg, keys.Up):
			switch {
			case m.mode == modeDocuments:
				if m.docCursor > 0 {
					m.docCursor--
				}
			case m.columnFocus == 0:
				if m.dayCursor > 0 {
					m.dayCursor--
					m.noteCursor = 0
				}
			default:
				if m.noteCursor > 0 {
					m.noteCursor--
				}
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			switch {
			case m.mode == modeDocuments:
				if m.docCursor < len(m.docs)-1 {
					m.docCursor++
				}
			case m.columnFocus == 0:
				if m.dayCursor < len(m.groups)-1 {
					m.dayCursor++
					m.noteCursor = 0
				}
			default:
				if m.noteCursor < len(m.selectedNotes())-1 {
					m.noteCursor++
				}
			}
			return m, nil

		case key.Matches(msg, keys.Right):
			if m.mode == modeRecordings && m.columnFocus == 0 && len(m.selectedNotes()) > 0 {
				m.columnFocus = 1
				m.noteCursor = 0
			}
			return m, nil

		case key.Matches(msg, keys.Left):
			if m.mode == modeRecordings && m.columnFocus > 0 {
				m.columnFocus--
			}
			return m, nil

		case key.Matches(msg, keys.Delete):
			if m.mode == modeDocuments && len(m.docs) > 0 {
				m.docDeleteConfirmIdx = 1
				m.docDeleting = true
			}
			return m, nil
		}

	case time.Time:
		m.marqueeTimer++
		if m.marqueeTimer >= 10 {
			m.marqueeTimer = 0
			m.marqueeOffset++
		}
		return m, tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
			return t
		})
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return "Notes closed. Everything is already saved.\n"
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	titleText := "Mimal - voice notes"
	if m.mode == modeDocuments {
		titleText = "Mimal - documents"
	}
	titleBar := titleStyle.Width(m.width).Render(titleText)

	var columns string
	if m.mode == modeDocuments {
		columns = m.documentsView()
	} else {
		columns = m.recordingsView()
	}

	footerBar := footerStyle.Width(m.width).Render("\n" + m.help.View(keys))

	return titleBar + "\n\n" + columns + footerBar
}

func (m model) panelHeight() int {
	return max(m.height-3, 0)
}

// Left column info panel
func (m model) infoView(width int) string {
	var storageStatus int
	if m.storageLabel != "" {
		storageStatus = 1
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Storage: %v\nDays: %v\nDocuments: %v\n",
		TextStatusColorize(m.storageLabel, storageStatus),
		TextStatusColorize(strconv.Itoa(len(m.groups)), 1),
		TextStatusColorize(strconv.Itoa(len(m.docs)), 1)))

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(1, 2).
		Width(width).Height(max((m.height-bordersAndPaddingWidth)/4, 0)).
		Render(b.String())
}

func (m model) listLine(text string, selected, focused bool, width int) string {
	pointer := generateLinePointer(selected && focused, 2)
	available := width - len(pointer) - bordersAndPaddingWidth - 1
	if selected {
		return pointer + selectedStyle.Render(lipgloss.NewStyle().MaxWidth(max(available, 0)).Render(m.marqueeText(text, available))) + "\n"
	}
	return pointer + inactiveStyle.Render(truncate(text, available)) + "\n"
}

func (m model) recordingsView() string {
	leftWidth, middleWidth, rightWidth := m.dynamicColumnWidth()
	quarterHeight := max((m.height-bordersAndPaddingWidth)/4, 0)

	var days strings.Builder
	days.WriteString(subtitleStyle.Width(max(leftWidth-bordersAndPaddingWidth, 0)).Render("  Days"))
	days.WriteString("\n\n")
	if len(m.groups) == 0 {
		days.WriteString("No recordings yet.\n")
	}
	for i, g := range m.groups {
		label := fmt.Sprintf("%s (%d)", g.Date, len(g.Notes))
		days.WriteString(m.listLine(label, i == m.dayCursor, m.columnFocus == 0, leftWidth))
	}

	daysPanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, true, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2).
		Width(leftWidth).Height(quarterHeight * 3).
		Render(days.String())
	leftPanel := lipgloss.JoinVertical(lipgloss.Left, daysPanel, m.infoView(leftWidth))

	var list strings.Builder
	list.WriteString(subtitleStyle.Width(max(middleWidth-bordersAndPaddingWidth, 0)).Render("  Notes"))
	list.WriteString("\n\n")
	dayNotes := m.selectedNotes()
	if len(dayNotes) == 0 {
		list.WriteString("  No notes for this day.\n")
	}
	for i, n := range dayNotes {
		label := n.Timestamp.In(m.loc).Format("15:04") + " " + firstLine(n.Content)
		list.WriteString(m.listLine(label, i == m.noteCursor && m.columnFocus == 1, m.columnFocus == 1, middleWidth))
	}

	var detail strings.Builder
	detail.WriteString(subtitleStyle.Width(max(rightWidth-bordersAndPaddingWidth, 0)).Render("Note"))
	detail.WriteString("\n\n")
	if m.columnFocus == 1 && m.noteCursor < len(dayNotes) {
		n := dayNotes[m.noteCursor]
		detail.WriteString(elemTitleHeaderStyle.Render("Recorded: ") +
			inactiveStyle.Render(n.Timestamp.In(m.loc).Format("2006-01-02 15:04:05")) + "\n\n")
		audio := "-"
		if n.AudioURL != "" {
			audio = n.AudioURL
		}
		detail.WriteString(elemTitleHeaderStyle.Render("Audio: ") + multiElemsTitleStyle.Render(audio) + "\n\n")
		detail.WriteString(inactiveStyle.Render(n.Content))
	} else {
		detail.WriteString("Select a note to view details.")
	}

	middlePanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2).
		Width(middleWidth).Height(m.panelHeight()).
		Render(list.String())
	rightPanel := lipgloss.NewStyle().Padding(0, 2).
		Width(rightWidth).Height(m.panelHeight()).
		Render(detail.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, middlePanel, rightPanel)
}

func (m model) documentsView() string {
	halfWidth := m.width / 2
	leftWidth := halfWidth / 2
	if m.dynamicWidth {
		leftWidth = (m.width * 35) / 100
	}
	rightWidth := m.width - leftWidth
	quarterHeight := max((m.height-bordersAndPaddingWidth)/4, 0)

	var list strings.Builder
	list.WriteString(subtitleStyle.Width(max(leftWidth-bordersAndPaddingWidth, 0)).Render("  Documents"))
	list.WriteString("\n\n")
	if len(m.docs) == 0 {
		list.WriteString("No documents yet.\n")
	}
	for i, d := range m.docs {
		list.WriteString(m.listLine(d.Title, i == m.docCursor, true, leftWidth))
	}

	listPanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, true, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2).
		Width(leftWidth).Height(quarterHeight * 3).
		Render(list.String())
	leftPanel := lipgloss.JoinVertical(lipgloss.Left, listPanel, m.infoView(leftWidth))

	var right strings.Builder
	subtitle := "Document"
	if m.docDeleting {
		subtitle = "Delete Document"
	}
	right.WriteString(subtitleStyle.Width(max(rightWidth-bordersAndPaddingWidth, 0)).Render(subtitle))
	right.WriteString("\n\n")

	switch {
	case m.docDeleting:
		right.WriteString("Title: " + textRedStyle.Render(m.docs[m.docCursor].Title) + "\n\n")
		yesOpt, noOpt := "Yes", "No"
		if m.docDeleteConfirmIdx == 0 {
			yesOpt = dangerSelectedStyle.Render(" >" + yesOpt)
			noOpt = inactiveStyle.Render("  " + noOpt)
		} else {
			yesOpt = inactiveStyle.Render("  " + yesOpt)
			noOpt = selectedStyle.Render(" >" + noOpt)
		}
		right.WriteString(fmt.Sprintf("%s\n%s\n\n", yesOpt, noOpt))
		right.WriteString("(enter to confirm, esc to cancel, up/down to switch)")
	case m.docCursor < len(m.docs):
		d := m.docs[m.docCursor]
		right.WriteString(lipgloss.NewStyle().Bold(true).
			Render(elemTitleHeaderStyle.Render("Title: ")+inactiveStyle.Render(d.Title)) + "\n\n")
		right.WriteString(elemTitleHeaderStyle.Render("Updated: ") +
			multiElemsTitleStyle.Render(d.UpdatedAt.In(m.loc).Format("2006-01-02 15:04")) + "\n\n")
		right.WriteString(inactiveStyle.Render(plainText(d.Content)))
	default:
		right.WriteString("Select a document to preview it.")
	}

	rightPanel := lipgloss.NewStyle().Padding(0, 2).
		Width(rightWidth).Height(m.panelHeight()).
		Render(right.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// ShowTUI starts the terminal UI over store. storageLabel names the medium in the info panel
// and times are shown in loc, or the local zone when loc is nil.
func ShowTUI(store notes.NoteStore, storageLabel string, loc *time.Location) error {
	p := tea.NewProgram(initModel(store, storageLabel, loc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
