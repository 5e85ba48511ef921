// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/docsight-tui/internal/docquery"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "documents.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	uploaded := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	doc := docquery.DocumentInfo{ID: "doc1", Filename: "report.pdf", Pages: 12, UploadedAt: uploaded}
	if err := store.Record(ctx, doc); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := store.Get(ctx, "doc1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Filename != "report.pdf" || got.Pages != 12 {
		t.Errorf("Get returned %+v", got)
	}
	if !got.UploadedAt.Equal(uploaded) {
		t.Errorf("UploadedAt = %v, want %v", got.UploadedAt, uploaded)
	}
}

func TestGetNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRecordUpsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.Record(ctx, docquery.DocumentInfo{ID: "doc1", Filename: "v1.pdf", Pages: 3})
	if err := store.Record(ctx, docquery.DocumentInfo{ID: "doc1", Filename: "v2.pdf", Pages: 5}); err != nil {
		t.Fatalf("Re-record failed: %v", err)
	}

	got, err := store.Get(ctx, "doc1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Filename != "v2.pdf" || got.Pages != 5 {
		t.Errorf("Upsert did not refresh metadata: %+v", got)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count = %d after upsert", n)
	}
}

func TestListOrderedNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	store.Record(ctx, docquery.DocumentInfo{ID: "old", Filename: "old.pdf", UploadedAt: base})
	store.Record(ctx, docquery.DocumentInfo{ID: "new", Filename: "new.pdf", UploadedAt: base.Add(time.Hour)})

	docs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("List returned %d documents", len(docs))
	}
	if docs[0].ID != "new" || docs[1].ID != "old" {
		t.Errorf("List order wrong: %s, %s", docs[0].ID, docs[1].ID)
	}
}

func TestRemove(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.Record(ctx, docquery.DocumentInfo{ID: "doc1", Filename: "a.pdf"})

	if err := store.Remove(ctx, "doc1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := store.Get(ctx, "doc1"); !errors.Is(err, ErrNotFound) {
		t.Error("Removed document still present")
	}
	if err := store.Remove(ctx, "doc1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Removing absent document should return ErrNotFound, got %v", err)
	}
}

func TestSyncReconciles(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.Record(ctx, docquery.DocumentInfo{ID: "stale", Filename: "gone.pdf"})
	store.Record(ctx, docquery.DocumentInfo{ID: "kept", Filename: "kept.pdf"})

	remote := []docquery.DocumentInfo{
		{ID: "kept", Filename: "kept.pdf", Pages: 4},
		{ID: "fresh", Filename: "fresh.pdf", Pages: 9},
	}
	if err := store.Sync(ctx, remote); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if _, err := store.Get(ctx, "stale"); !errors.Is(err, ErrNotFound) {
		t.Error("Sync should drop documents the service no longer has")
	}
	if got, err := store.Get(ctx, "fresh"); err != nil || got.Pages != 9 {
		t.Errorf("Sync should add remote documents: %+v, %v", got, err)
	}
	if n, _ := store.Count(ctx); n != 2 {
		t.Errorf("Count = %d after sync", n)
	}
}

func TestTouchQueried(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.Record(ctx, docquery.DocumentInfo{ID: "doc1", Filename: "a.pdf"})
	if err := store.TouchQueried(ctx, "doc1"); err != nil {
		t.Fatalf("TouchQueried failed: %v", err)
	}
	// Touching an unknown ID is a no-op, not an error.
	if err := store.TouchQueried(ctx, "missing"); err != nil {
		t.Errorf("TouchQueried of unknown ID should not fail: %v", err)
	}
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	store.Record(ctx, docquery.DocumentInfo{ID: "doc1", Filename: "a.pdf", Pages: 2})
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "doc1")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got.Pages != 2 {
		t.Errorf("Persisted document wrong: %+v", got)
	}
}
