package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Snapshot is both collections at one point in time, used to move data
// between media or in from a browser localStorage export.
type Snapshot struct {
	Recordings []DayGroup
	Documents  []Document
}

type snapshotOut struct {
	Recordings []dayGroupOut `json:"recordings"`
	Documents  []documentOut `json:"editor-notes"`
}

type snapshotRecord struct {
	Recordings json.RawMessage `json:"recordings"`
	Documents  json.RawMessage `json:"editor-notes"`
}

// EncodeSnapshot writes snap as one JSON object keyed by the logical collection keys.
func EncodeSnapshot(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshotOut{
		Recordings: voiceGroupsToOut(snap.Recordings),
		Documents:  documentsToOut(snap.Documents),
	})
}

// DecodeSnapshot reads the format EncodeSnapshot writes. Either key may be
// absent. Invalid content fails with ErrCorruptState.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var rec snapshotRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return Snapshot{}, fmt.Errorf("%w: snapshot: %v", ErrCorruptState, err)
	}

	// Recordings stays nil when the key is absent so Import leaves stored recordings alone.
	snap := Snapshot{Documents: []Document{}}
	if len(rec.Recordings) > 0 && string(rec.Recordings) != "null" {
		groups, err := decodeVoiceGroups(rec.Recordings)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Recordings = groups
	}
	if len(rec.Documents) > 0 && string(rec.Documents) != "null" {
		docs, err := decodeDocuments(rec.Documents)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Documents = docs
	}
	return snap, nil
}

// Export loads both collections.
func (s *Store) Export(ctx context.Context) Snapshot {
	return Snapshot{
		Recordings: s.LoadVoiceGroups(ctx),
		Documents:  s.LoadDocuments(ctx),
	}
}

// Import replaces the recordings collection with snap.Recordings when it is
// non-nil, then saves every document in snap.Documents over any stored
// document with the same ID. Imported documents keep their own timestamps.
func (s *Store) Import(ctx context.Context, snap Snapshot) error {
	if snap.Recordings != nil {
		if err := s.SaveVoiceGroups(ctx, snap.Recordings); err != nil {
			return fmt.Errorf("importing recordings: %w", err)
		}
	}
	if len(snap.Documents) > 0 {
		if err := s.restoreDocuments(ctx, snap.Documents); err != nil {
			return fmt.Errorf("importing documents: %w", err)
		}
	}
	return nil
}

// restoreDocuments merges incoming into the stored documents in one write.
// Unlike UpsertDocument it does not touch UpdatedAt; zero timestamps mean now.
func (s *Store) restoreDocuments(ctx context.Context, incoming []Document) error {
	for i, d := range incoming {
		if d.ID == "" {
			return fmt.Errorf("%w: document %d has no id", ErrInvalidArgument, i)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, raw, err := s.readDocuments(ctx)
	if errors.Is(err, ErrCorruptState) {
		if qerr := s.quarantine(ctx, KeyDocuments, raw, err); qerr != nil {
			return qerr
		}
		docs = []Document{}
	} else if err != nil {
		s.logger.Error("error loading editor notes", zap.Error(err))
		return err
	}

	index := make(map[string]int, len(docs))
	for i, d := range docs {
		index[d.ID] = i
	}

	now := s.now()
	for _, d := range incoming {
		if d.Title == "" {
			d.Title = DefaultDocumentTitle
		}
		if d.CreatedAt.IsZero() {
			d.CreatedAt = now
		}
		if d.UpdatedAt.IsZero() {
			d.UpdatedAt = now
		}
		if d.UpdatedAt.Before(d.CreatedAt) {
			d.UpdatedAt = d.CreatedAt
		}

		if i, ok := index[d.ID]; ok {
			docs[i] = d
			continue
		}
		index[d.ID] = len(docs)
		docs = append(docs, d)
	}

	return s.saveDocuments(ctx, docs)
}
