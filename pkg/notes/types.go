package notes

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultDocumentTitle replaces an empty document title on save ("new document").
	DefaultDocumentTitle = "เอกสารใหม่"
	// DefaultVoiceNoteContent is what capture front-ends store when no transcript was typed.
	DefaultVoiceNoteContent = "Recording without transcript"

	// DateLayout is the calendar date key format of a DayGroup.
	DateLayout = "2006-01-02"
)

// VoiceNote is one completed recording.
type VoiceNote struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	AudioURL  string    `json:"audioUrl,omitempty"` // empty for a text-only note
}

// DayGroup buckets the voice notes recorded on one calendar day, in recording order.
type DayGroup struct {
	Date  string      `json:"date"`
	Notes []VoiceNote `json:"notes"`
}

// Document is a saved rich-text report. Content is opaque markup.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewID mints an identifier for a new VoiceNote or Document.
func NewID() string {
	return uuid.NewString()
}

// SortByUpdated orders docs in place, most recently updated first.
func SortByUpdated(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
}

// FindDayGroup returns the group for date, if present.
func FindDayGroup(groups []DayGroup, date string) (DayGroup, bool) {
	for _, g := range groups {
		if g.Date == date {
			return g, true
		}
	}
	return DayGroup{}, false
}
