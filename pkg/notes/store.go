// Package notes persists voice notes grouped by day and rich-text documents
// into a key/value medium. Each collection lives under its own key as one
// JSON array and every write replaces the whole array.
package notes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/unowned-ai/mimal/pkg/kv"
	"go.uber.org/zap"
)

const (
	// KeyRecordings holds the []DayGroup collection.
	KeyRecordings = "recordings"
	// KeyDocuments holds the []Document collection.
	KeyDocuments = "editor-notes"

	// DefaultKeyPrefix namespaces both keys, matching the browser build's localStorage keys.
	DefaultKeyPrefix = "mimal-note-speech-"

	corruptSuffix = ".corrupt"
)

// NoteStore is what capture, editing and listing front-ends depend on.
type NoteStore interface {
	LoadVoiceGroups(ctx context.Context) []DayGroup
	SaveVoiceGroups(ctx context.Context, groups []DayGroup) error
	AppendVoiceNote(ctx context.Context, note VoiceNote) error

	LoadDocuments(ctx context.Context) []Document
	GetDocument(ctx context.Context, id string) (Document, error)
	UpsertDocument(ctx context.Context, doc Document) (Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// Store is the NoteStore backed by a kv.Store.
type Store struct {
	kv     kv.Store
	logger *zap.Logger
	now    func() time.Time
	loc    *time.Location
	prefix string

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

var _ NoteStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces time.Now, which drives day bucketing and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone whose calendar decides a note's day. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// NewStore returns a Store persisting into medium.
func NewStore(medium kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     medium,
		logger: zap.NewNop(),
		now:    time.Now,
		loc:    time.Local,
		prefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("notes")
	return s
}

// Today returns the date key AppendVoiceNote would use right now.
func (s *Store) Today() string {
	return s.now().In(s.loc).Format(DateLayout)
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// readRaw fetches the value under name. ok is false when the key was never written.
func (s *Store) readRaw(ctx context.Context, name string) (raw string, ok bool, err error) {
	raw, err = s.kv.Get(ctx, s.key(name))
	if errors.Is(err, kv.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: %w", ErrReadFailure, name, err)
	}
	return raw, true, nil
}

func (s *Store) write(ctx context.Context, name, value string) error {
	if err := s.kv.Set(ctx, s.key(name), value); err != nil {
		s.logger.Error("failed to persist collection", zap.String("key", s.key(name)), zap.Int("bytes", len(value)), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrWriteFailure, name, err)
	}
	return nil
}

// quarantine copies a corrupt raw value aside before a mutator overwrites it.
func (s *Store) quarantine(ctx context.Context, name, raw string, cause error) error {
	s.logger.Warn("discarding corrupt collection", zap.String("key", s.key(name)), zap.String("backup", s.key(name)+corruptSuffix), zap.Error(cause))
	if err := s.kv.Set(ctx, s.key(name)+corruptSuffix, raw); err != nil {
		s.logger.Error("failed to back up corrupt collection", zap.String("key", s.key(name)), zap.Error(err))
		return fmt.Errorf("%w: backing up corrupt %s: %w", ErrWriteFailure, name, err)
	}
	return nil
}

func (s *Store) readVoiceGroups(ctx context.Context) (groups []DayGroup, raw string, err error) {
	raw, ok, err := s.readRaw(ctx, KeyRecordings)
	if err != nil || !ok {
		return []DayGroup{}, "", err
	}
	groups, err = decodeVoiceGroups([]byte(raw))
	if err != nil {
		return []DayGroup{}, raw, err
	}
	return groups, raw, nil
}

func (s *Store) readDocuments(ctx context.Context) (docs []Document, raw string, err error) {
	raw, ok, err := s.readRaw(ctx, KeyDocuments)
	if err != nil || !ok {
		return []Document{}, "", err
	}
	docs, err = decodeDocuments([]byte(raw))
	if err != nil {
		return []Document{}, raw, err
	}
	return docs, raw, nil
}

// LoadVoiceGroups returns every day group in stored order. Missing, unreadable
// or corrupt data yields an empty slice; the cause is logged, not returned.
func (s *Store) LoadVoiceGroups(ctx context.Context) []DayGroup {
	groups, _, err := s.readVoiceGroups(ctx)
	if err != nil {
		s.logger.Error("error loading recordings", zap.Error(err))
		return []DayGroup{}
	}
	return groups
}

// SaveVoiceGroups replaces the whole recordings collection with groups.
func (s *Store) SaveVoiceGroups(ctx context.Context, groups []DayGroup) error {
	if err := validateVoiceGroups(groups); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveVoiceGroups(ctx, groups)
}

func (s *Store) saveVoiceGroups(ctx context.Context, groups []DayGroup) error {
	value, err := encodeVoiceGroups(groups)
	if err != nil {
		return fmt.Errorf("%w: encoding recordings: %w", ErrWriteFailure, err)
	}
	return s.write(ctx, KeyRecordings, value)
}

// AppendVoiceNote adds note to the end of today's day group, creating the group
// when it is the first note of the day. "Today" comes from the store clock in
// the store location, not from note.Timestamp.
func (s *Store) AppendVoiceNote(ctx context.Context, note VoiceNote) error {
	if note.ID == "" {
		return fmt.Errorf("%w: voice note id is empty", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if note.Timestamp.IsZero() {
		note.Timestamp = now
	}
	today := now.In(s.loc).Format(DateLayout)
	if noteDay := note.Timestamp.In(s.loc).Format(DateLayout); noteDay != today {
		s.logger.Debug("voice note timestamp falls outside today's group",
			zap.String("id", note.ID), zap.String("group", today), zap.String("timestampDay", noteDay))
	}

	groups, raw, err := s.readVoiceGroups(ctx)
	if errors.Is(err, ErrCorruptState) {
		if qerr := s.quarantine(ctx, KeyRecordings, raw, err); qerr != nil {
			return qerr
		}
		groups = []DayGroup{}
	} else if err != nil {
		s.logger.Error("error loading recordings", zap.Error(err))
		return err
	}

	idx := -1
	for i := range groups {
		if groups[i].Date == today {
			idx = i
			break
		}
	}
	if idx < 0 {
		groups = append(groups, DayGroup{Date: today, Notes: []VoiceNote{}})
		idx = len(groups) - 1
	}
	groups[idx].Notes = append(groups[idx].Notes, note)

	return s.saveVoiceGroups(ctx, groups)
}

// LoadDocuments returns every document in stored order, with the same soft-fail
// contract as LoadVoiceGroups.
func (s *Store) LoadDocuments(ctx context.Context) []Document {
	docs, _, err := s.readDocuments(ctx)
	if err != nil {
		s.logger.Error("error loading editor notes", zap.Error(err))
		return []Document{}
	}
	return docs
}

// GetDocument returns the document with id, or ErrDocumentNotFound.
func (s *Store) GetDocument(ctx context.Context, id string) (Document, error) {
	for _, d := range s.LoadDocuments(ctx) {
		if d.ID == id {
			return d, nil
		}
	}
	return Document{}, ErrDocumentNotFound
}

// UpsertDocument replaces the document sharing doc.ID or appends doc as new.
// A replaced document keeps its stored CreatedAt and gets UpdatedAt from the
// store clock. A new document keeps the caller's timestamps, zero meaning now.
// The stored form is returned.
func (s *Store) UpsertDocument(ctx context.Context, doc Document) (Document, error) {
	if doc.ID == "" {
		return Document{}, fmt.Errorf("%w: document id is empty", ErrInvalidArgument)
	}
	if doc.Title == "" {
		doc.Title = DefaultDocumentTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, raw, err := s.readDocuments(ctx)
	if errors.Is(err, ErrCorruptState) {
		if qerr := s.quarantine(ctx, KeyDocuments, raw, err); qerr != nil {
			return Document{}, qerr
		}
		docs = []Document{}
	} else if err != nil {
		s.logger.Error("error loading editor notes", zap.Error(err))
		return Document{}, err
	}

	now := s.now()
	idx := -1
	for i := range docs {
		if docs[i].ID == doc.ID {
			idx = i
			break
		}
	}

	if idx >= 0 {
		doc.CreatedAt = docs[idx].CreatedAt
		doc.UpdatedAt = now
	} else {
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = now
		}
		if doc.UpdatedAt.IsZero() {
			doc.UpdatedAt = now
		}
	}
	if doc.UpdatedAt.Before(doc.CreatedAt) {
		doc.UpdatedAt = doc.CreatedAt
	}

	if idx >= 0 {
		docs[idx] = doc
	} else {
		docs = append(docs, doc)
	}

	if err := s.saveDocuments(ctx, docs); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// DeleteDocument removes the document with id. A missing id changes nothing
// and is not an error.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, _, err := s.readDocuments(ctx)
	if err != nil {
		// Nothing readable can contain id; leave corrupt data for inspection.
		s.logger.Error("error loading editor notes", zap.Error(err))
		if errors.Is(err, ErrCorruptState) {
			return nil
		}
		return err
	}

	kept := make([]Document, 0, len(docs))
	for _, d := range docs {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(docs) {
		s.logger.Debug("delete of unknown document ignored", zap.String("id", id))
		return nil
	}
	return s.saveDocuments(ctx, kept)
}

func (s *Store) saveDocuments(ctx context.Context, docs []Document) error {
	value, err := encodeDocuments(docs)
	if err != nil {
		return fmt.Errorf("%w: encoding editor notes: %w", ErrWriteFailure, err)
	}
	return s.write(ctx, KeyDocuments, value)
}
