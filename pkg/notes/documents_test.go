package notes

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestUpsertDocument_Insert(t *testing.T) {
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	store, _, _ := setupTestStore(t, now)
	ctx := context.Background()

	created := time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC)
	doc := Document{ID: "doc-1", Title: "Weekly report", Content: "<p>draft</p>", CreatedAt: created, UpdatedAt: created}

	saved, err := store.UpsertDocument(ctx, doc)
	if err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}
	if !saved.CreatedAt.Equal(created) || !saved.UpdatedAt.Equal(created) {
		t.Errorf("Insert must keep caller timestamps, got created %v updated %v", saved.CreatedAt, saved.UpdatedAt)
	}

	docs := store.LoadDocuments(ctx)
	if len(docs) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(docs))
	}
	if docs[0].ID != "doc-1" || docs[0].Title != "Weekly report" || docs[0].Content != "<p>draft</p>" {
		t.Errorf("Stored document mismatch: %+v", docs[0])
	}
}

func TestUpsertDocument_UpdatePreservesCreatedAt(t *testing.T) {
	store, _, clock := setupTestStore(t, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := store.UpsertDocument(ctx, Document{ID: "doc-1", Title: "v1", Content: "one"})
	if err != nil {
		t.Fatalf("UpsertDocument(v1) failed: %v", err)
	}
	if _, err := store.UpsertDocument(ctx, Document{ID: "doc-2", Title: "other", Content: "x"}); err != nil {
		t.Fatalf("UpsertDocument(doc-2) failed: %v", err)
	}

	clock.Advance(90 * time.Minute)
	// A caller-supplied createdAt/updatedAt on update is ignored.
	bogus := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	second, err := store.UpsertDocument(ctx, Document{ID: "doc-1", Title: "v2", Content: "two", CreatedAt: bogus, UpdatedAt: bogus})
	if err != nil {
		t.Fatalf("UpsertDocument(v2) failed: %v", err)
	}

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on update: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.Equal(clock.Now()) {
		t.Errorf("UpdatedAt = %v, want store clock %v", second.UpdatedAt, clock.Now())
	}

	docs := store.LoadDocuments(ctx)
	if len(docs) != 2 {
		t.Fatalf("Expected collection length to stay 2, got %d", len(docs))
	}
	if docs[0].ID != "doc-1" {
		t.Errorf("Update must replace in place, got order %s, %s", docs[0].ID, docs[1].ID)
	}
	if docs[0].Title != "v2" || docs[0].Content != "two" {
		t.Errorf("Update did not replace title/content: %+v", docs[0])
	}
	if !docs[0].CreatedAt.Equal(first.CreatedAt) || !docs[0].UpdatedAt.Equal(clock.Now()) {
		t.Errorf("Stored timestamps wrong: %+v", docs[0])
	}
	if docs[1].Title != "other" {
		t.Errorf("Unrelated document changed: %+v", docs[1])
	}
}

func TestUpsertDocument_Defaults(t *testing.T) {
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	store, _, _ := setupTestStore(t, now)

	saved, err := store.UpsertDocument(context.Background(), Document{ID: "d", Content: "body"})
	if err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}
	if saved.Title != DefaultDocumentTitle {
		t.Errorf("Title = %q, want %q", saved.Title, DefaultDocumentTitle)
	}
	if !saved.CreatedAt.Equal(now) || !saved.UpdatedAt.Equal(now) {
		t.Errorf("Zero timestamps must become now, got %+v", saved)
	}
}

func TestUpsertDocument_UpdatedAtNeverBeforeCreatedAt(t *testing.T) {
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	store, _, clock := setupTestStore(t, now)
	ctx := context.Background()

	future := now.Add(48 * time.Hour)
	saved, err := store.UpsertDocument(ctx, Document{ID: "d", Title: "t", CreatedAt: future, UpdatedAt: now})
	if err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}
	if saved.UpdatedAt.Before(saved.CreatedAt) {
		t.Errorf("UpdatedAt %v before CreatedAt %v", saved.UpdatedAt, saved.CreatedAt)
	}

	clock.Advance(time.Hour)
	saved, err = store.UpsertDocument(ctx, Document{ID: "d", Title: "t2"})
	if err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}
	if saved.UpdatedAt.Before(saved.CreatedAt) {
		t.Errorf("UpdatedAt %v before CreatedAt %v after update", saved.UpdatedAt, saved.CreatedAt)
	}
}

func TestUpsertDocument_EmptyID(t *testing.T) {
	store, medium, _ := setupTestStore(t, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))

	_, err := store.UpsertDocument(context.Background(), Document{Title: "t"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
	if medium.sets != 0 {
		t.Errorf("Expected no writes, got %d", medium.sets)
	}
}

func TestUpsertDocument_WriteFailure(t *testing.T) {
	store, medium, _ := setupTestStore(t, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := store.UpsertDocument(ctx, Document{ID: "d", Title: "kept"}); err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}

	medium.setErr = errors.New("permission denied")
	if _, err := store.UpsertDocument(ctx, Document{ID: "d", Title: "lost"}); !errors.Is(err, ErrWriteFailure) {
		t.Errorf("Expected ErrWriteFailure, got %v", err)
	}
	medium.setErr = nil

	doc, err := store.GetDocument(ctx, "d")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if doc.Title != "kept" {
		t.Errorf("Failed write changed stored title to %q", doc.Title)
	}
}

func TestGetDocument(t *testing.T) {
	store, _, _ := setupTestStore(t, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := store.GetDocument(ctx, "missing"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Expected ErrDocumentNotFound, got %v", err)
	}

	if _, err := store.UpsertDocument(ctx, Document{ID: "d", Title: "t", Content: "c"}); err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}
	doc, err := store.GetDocument(ctx, "d")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if doc.Content != "c" {
		t.Errorf("Content = %q, want c", doc.Content)
	}
}

func TestDeleteDocument(t *testing.T) {
	store, _, _ := setupTestStore(t, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := store.UpsertDocument(ctx, Document{ID: id, Title: id}); err != nil {
			t.Fatalf("UpsertDocument(%s) failed: %v", id, err)
		}
	}

	if err := store.DeleteDocument(ctx, "b"); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}

	docs := store.LoadDocuments(ctx)
	if len(docs) != 2 || docs[0].ID != "a" || docs[1].ID != "c" {
		t.Errorf("Expected [a c], got %+v", docs)
	}
	if _, err := store.GetDocument(ctx, "b"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Deleted document still found: %v", err)
	}
}

func TestDeleteDocument_UnknownIDIsNoop(t *testing.T) {
	store, medium, _ := setupTestStore(t, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := store.UpsertDocument(ctx, Document{ID: "a", Title: "a"}); err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}
	before := rawValue(t, medium, KeyDocuments)
	writes := medium.sets

	if err := store.DeleteDocument(ctx, "nope"); err != nil {
		t.Errorf("Deleting an unknown id must not fail, got %v", err)
	}
	if medium.sets != writes {
		t.Errorf("Expected no write for an unknown id")
	}
	if after := rawValue(t, medium, KeyDocuments); after != before {
		t.Errorf("Collection changed: %s -> %s", before, after)
	}

	// Also fine on an empty store.
	empty, _, _ := setupTestStore(t, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))
	if err := empty.DeleteDocument(ctx, "nope"); err != nil {
		t.Errorf("Delete on empty store failed: %v", err)
	}
}

func TestDeleteDocument_ReadFailure(t *testing.T) {
	store, medium, _ := setupTestStore(t, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))
	medium.getErr = errors.New("timeout")

	if err := store.DeleteDocument(context.Background(), "a"); !errors.Is(err, ErrReadFailure) {
		t.Errorf("Expected ErrReadFailure, got %v", err)
	}
}

func TestSortByUpdated(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	docs := []Document{
		{ID: "old", UpdatedAt: base},
		{ID: "new", UpdatedAt: base.Add(2 * time.Hour)},
		{ID: "mid", UpdatedAt: base.Add(time.Hour)},
	}
	SortByUpdated(docs)

	got := []string{docs[0].ID, docs[1].ID, docs[2].ID}
	if strings.Join(got, ",") != "new,mid,old" {
		t.Errorf("Unexpected order: %v", got)
	}
}

func TestSnapshot_ExportImport(t *testing.T) {
	src, _, _ := setupTestStore(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if err := src.AppendVoiceNote(ctx, VoiceNote{ID: "n1", Content: "hello", AudioURL: "blob:1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := src.UpsertDocument(ctx, Document{ID: "d1", Title: "Report", Content: "<h1>x</h1>"}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, src.Export(ctx)); err != nil {
		t.Fatalf("EncodeSnapshot failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"editor-notes"`) || !strings.Contains(buf.String(), `"recordings"`) {
		t.Errorf("Snapshot is missing collection keys: %s", buf.String())
	}

	snap, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}

	dst, _, _ := setupTestStore(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err := dst.Import(ctx, snap); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	groups := dst.LoadVoiceGroups(ctx)
	if len(groups) != 1 || groups[0].Date != "2024-01-01" || groups[0].Notes[0].AudioURL != "blob:1" {
		t.Errorf("Imported groups mismatch: %+v", groups)
	}
	docs := dst.LoadDocuments(ctx)
	if len(docs) != 1 || docs[0].Title != "Report" {
		t.Fatalf("Imported documents mismatch: %+v", docs)
	}
	if want := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC); !docs[0].CreatedAt.Equal(want) || !docs[0].UpdatedAt.Equal(want) {
		t.Errorf("Import must keep document timestamps, got %+v", docs[0])
	}
}

func TestDecodeSnapshot(t *testing.T) {
	snap, err := DecodeSnapshot(strings.NewReader(`{"recordings":[{"date":"2024-01-01","notes":[]}]}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}
	if len(snap.Recordings) != 1 || snap.Documents == nil || len(snap.Documents) != 0 {
		t.Errorf("Unexpected snapshot: %+v", snap)
	}

	if _, err := DecodeSnapshot(strings.NewReader(`{"editor-notes":[{"id":1}]}`)); !errors.Is(err, ErrCorruptState) {
		t.Errorf("Expected ErrCorruptState, got %v", err)
	}
	if _, err := DecodeSnapshot(strings.NewReader(`nope`)); !errors.Is(err, ErrCorruptState) {
		t.Errorf("Expected ErrCorruptState, got %v", err)
	}
}

func TestImport_DocumentsOnlyKeepsRecordings(t *testing.T) {
	store, _, _ := setupTestStore(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if err := store.AppendVoiceNote(ctx, VoiceNote{ID: "a", Content: "kept"}); err != nil {
		t.Fatal(err)
	}

	snap, err := DecodeSnapshot(strings.NewReader(`{"editor-notes":[{"id":"d1","title":"T","content":"c","createdAt":"2024-01-01T00:00:00.000Z","updatedAt":"2024-01-01T00:00:00.000Z"}]}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}
	if snap.Recordings != nil {
		t.Fatalf("Expected nil recordings for a snapshot without the key, got %+v", snap.Recordings)
	}
	if err := store.Import(ctx, snap); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	groups := store.LoadVoiceGroups(ctx)
	if len(groups) != 1 || len(groups[0].Notes) != 1 || groups[0].Notes[0].ID != "a" {
		t.Errorf("Recordings changed by a documents-only import: %+v", groups)
	}
	if docs := store.LoadDocuments(ctx); len(docs) != 1 || docs[0].ID != "d1" {
		t.Errorf("Unexpected documents: %+v", docs)
	}

	snap, err = DecodeSnapshot(strings.NewReader(`{"recordings":null}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}
	if err := store.Import(ctx, snap); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if groups := store.LoadVoiceGroups(ctx); len(groups) != 1 {
		t.Errorf("Null recordings must not clear stored recordings, got %+v", groups)
	}
}

func TestImport_KeepsDocumentTimestamps(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	store, medium, clock := setupTestStore(t, start)
	ctx := context.Background()

	if _, err := store.UpsertDocument(ctx, Document{ID: "old", Title: "Old"}); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Hour)
	if _, err := store.UpsertDocument(ctx, Document{ID: "new", Title: "New"}); err != nil {
		t.Fatal(err)
	}

	snap := store.Export(ctx)
	clock.Advance(24 * time.Hour)
	setsBefore := medium.sets
	if err := store.Import(ctx, snap); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	// Recordings plus one write for all documents.
	if got := medium.sets - setsBefore; got != 2 {
		t.Errorf("Expected 2 writes, got %d", got)
	}

	docs := store.LoadDocuments(ctx)
	if len(docs) != 2 {
		t.Fatalf("Expected 2 documents, got %+v", docs)
	}
	for _, d := range docs {
		want := start
		if d.ID == "new" {
			want = start.Add(time.Hour)
		}
		if !d.CreatedAt.Equal(want) || !d.UpdatedAt.Equal(want) {
			t.Errorf("Document %s timestamps changed by import: %+v", d.ID, d)
		}
	}
	SortByUpdated(docs)
	if docs[0].ID != "new" {
		t.Errorf("Import reordered documents: %s first", docs[0].ID)
	}
}

func TestImport_RejectsEmptyDocumentID(t *testing.T) {
	store, _, _ := setupTestStore(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	err := store.Import(context.Background(), Snapshot{Documents: []Document{{Title: "x"}}})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}
