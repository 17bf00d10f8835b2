package notes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// timestampLayout matches what a browser Date serializes to: UTC, milliseconds, Z suffix.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// validDateKey reports whether s is a real calendar date in YYYY-MM-DD form.
func validDateKey(s string) bool {
	d, err := time.Parse(DateLayout, s)
	return err == nil && d.Format(DateLayout) == s
}

// Stored records. Decoding goes through pointer fields so a missing or null
// field can be told apart from an empty one.

type voiceNoteRecord struct {
	ID        *string `json:"id"`
	Content   *string `json:"content"`
	Timestamp *string `json:"timestamp"`
	AudioURL  *string `json:"audioUrl,omitempty"`
}

type dayGroupRecord struct {
	Date  *string            `json:"date"`
	Notes *[]voiceNoteRecord `json:"notes"`
}

type documentRecord struct {
	ID        *string `json:"id"`
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	CreatedAt *string `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt"`
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCorruptState}, args...)...)
}

func decodeArray[T any](raw []byte, what string, out *[]T) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(out); err != nil {
		return corrupt("%s: %v", what, err)
	}
	if dec.More() {
		return corrupt("%s: trailing data after array", what)
	}
	if *out == nil {
		return corrupt("%s: not an array", what)
	}
	return nil
}

func decodeVoiceGroups(raw []byte) ([]DayGroup, error) {
	var records []dayGroupRecord
	if err := decodeArray(raw, "recordings", &records); err != nil {
		return nil, err
	}
	return voiceGroupsFromRecords(records)
}

func voiceGroupsFromRecords(records []dayGroupRecord) ([]DayGroup, error) {
	groups := make([]DayGroup, 0, len(records))
	seen := make(map[string]bool, len(records))

	for i, rec := range records {
		if rec.Date == nil || !validDateKey(*rec.Date) {
			return nil, corrupt("recordings[%d]: missing or malformed date", i)
		}
		if seen[*rec.Date] {
			return nil, corrupt("recordings[%d]: duplicate date %s", i, *rec.Date)
		}
		seen[*rec.Date] = true

		if rec.Notes == nil {
			return nil, corrupt("recordings[%d]: notes missing", i)
		}

		group := DayGroup{Date: *rec.Date, Notes: make([]VoiceNote, 0, len(*rec.Notes))}
		for j, n := range *rec.Notes {
			note, err := voiceNoteFromRecord(n)
			if err != nil {
				return nil, corrupt("recordings[%d].notes[%d]: %v", i, j, err)
			}
			group.Notes = append(group.Notes, note)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func voiceNoteFromRecord(rec voiceNoteRecord) (VoiceNote, error) {
	if rec.ID == nil || *rec.ID == "" {
		return VoiceNote{}, errors.New("missing id")
	}
	if rec.Content == nil {
		return VoiceNote{}, errors.New("missing content")
	}
	if rec.Timestamp == nil {
		return VoiceNote{}, errors.New("missing timestamp")
	}
	ts, err := parseTimestamp(*rec.Timestamp)
	if err != nil {
		return VoiceNote{}, fmt.Errorf("bad timestamp: %v", err)
	}

	note := VoiceNote{ID: *rec.ID, Content: *rec.Content, Timestamp: ts}
	if rec.AudioURL != nil {
		note.AudioURL = *rec.AudioURL
	}
	return note, nil
}

func decodeDocuments(raw []byte) ([]Document, error) {
	var records []documentRecord
	if err := decodeArray(raw, "editor-notes", &records); err != nil {
		return nil, err
	}
	return documentsFromRecords(records)
}

func documentsFromRecords(records []documentRecord) ([]Document, error) {
	docs := make([]Document, 0, len(records))
	seen := make(map[string]bool, len(records))

	for i, rec := range records {
		if rec.ID == nil || *rec.ID == "" {
			return nil, corrupt("editor-notes[%d]: missing id", i)
		}
		if seen[*rec.ID] {
			return nil, corrupt("editor-notes[%d]: duplicate id %s", i, *rec.ID)
		}
		seen[*rec.ID] = true

		if rec.Title == nil || rec.Content == nil {
			return nil, corrupt("editor-notes[%d]: missing title or content", i)
		}
		if rec.CreatedAt == nil || rec.UpdatedAt == nil {
			return nil, corrupt("editor-notes[%d]: missing createdAt or updatedAt", i)
		}
		createdAt, err := parseTimestamp(*rec.CreatedAt)
		if err != nil {
			return nil, corrupt("editor-notes[%d]: bad createdAt: %v", i, err)
		}
		updatedAt, err := parseTimestamp(*rec.UpdatedAt)
		if err != nil {
			return nil, corrupt("editor-notes[%d]: bad updatedAt: %v", i, err)
		}

		docs = append(docs, Document{
			ID:        *rec.ID,
			Title:     *rec.Title,
			Content:   *rec.Content,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		})
	}
	return docs, nil
}

// Encoding mirrors the records above with plain fields.

type voiceNoteOut struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	AudioURL  string `json:"audioUrl,omitempty"`
}

type dayGroupOut struct {
	Date  string         `json:"date"`
	Notes []voiceNoteOut `json:"notes"`
}

type documentOut struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func voiceGroupsToOut(groups []DayGroup) []dayGroupOut {
	out := make([]dayGroupOut, 0, len(groups))
	for _, g := range groups {
		notes := make([]voiceNoteOut, 0, len(g.Notes))
		for _, n := range g.Notes {
			notes = append(notes, voiceNoteOut{
				ID:        n.ID,
				Content:   n.Content,
				Timestamp: formatTimestamp(n.Timestamp),
				AudioURL:  n.AudioURL,
			})
		}
		out = append(out, dayGroupOut{Date: g.Date, Notes: notes})
	}
	return out
}

func documentsToOut(docs []Document) []documentOut {
	out := make([]documentOut, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentOut{
			ID:        d.ID,
			Title:     d.Title,
			Content:   d.Content,
			CreatedAt: formatTimestamp(d.CreatedAt),
			UpdatedAt: formatTimestamp(d.UpdatedAt),
		})
	}
	return out
}

func encodeVoiceGroups(groups []DayGroup) (string, error) {
	b, err := json.Marshal(voiceGroupsToOut(groups))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func encodeDocuments(docs []Document) (string, error) {
	b, err := json.Marshal(documentsToOut(docs))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// validateVoiceGroups rejects collections a caller must never hand to SaveVoiceGroups.
func validateVoiceGroups(groups []DayGroup) error {
	seen := make(map[string]bool, len(groups))
	for i, g := range groups {
		if !validDateKey(g.Date) {
			return fmt.Errorf("%w: group %d has malformed date %q", ErrInvalidArgument, i, g.Date)
		}
		if seen[g.Date] {
			return fmt.Errorf("%w: duplicate group for date %s", ErrInvalidArgument, g.Date)
		}
		seen[g.Date] = true
		for j, n := range g.Notes {
			if n.ID == "" {
				return fmt.Errorf("%w: group %s note %d has no id", ErrInvalidArgument, g.Date, j)
			}
		}
	}
	return nil
}
