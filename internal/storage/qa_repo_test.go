package storage

import (
	"context"
	"errors"
	"testing"
)

func newTestDB(t *testing.T) *QARepo {
	t.Helper()
	dbPath := t.TempDir() + "/test.db"

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	return NewQARepo(db)
}

func TestQARepo_GetByID_NotFound(t *testing.T) {
	repo := newTestDB(t)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestQARepo_UpsertAndGet(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	entry := &QAEntryRecord{
		ID:          "point-1",
		Question:    "요금제가 궁금해요",
		Answer:      "월 구독제입니다.",
		ContentHash: "abc123",
	}
	if err := repo.Upsert(ctx, entry); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "point-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Question != entry.Question || got.Answer != entry.Answer || got.ContentHash != entry.ContentHash {
		t.Errorf("GetByID() = %+v, want %+v", got, entry)
	}
	if got.EmbeddedAt.IsZero() {
		t.Error("GetByID() embedded_at not set")
	}
}

func TestQARepo_Upsert_UpdatesExisting(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	entry := &QAEntryRecord{
		ID:          "point-1",
		Question:    "요금제가 궁금해요",
		Answer:      "월 구독제입니다.",
		ContentHash: "abc123",
	}
	if err := repo.Upsert(ctx, entry); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	entry.Answer = "연 구독제로 변경되었습니다."
	entry.ContentHash = "def456"
	if err := repo.Upsert(ctx, entry); err != nil {
		t.Fatalf("Upsert() update error = %v", err)
	}

	got, err := repo.GetByID(ctx, "point-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Answer != entry.Answer || got.ContentHash != "def456" {
		t.Errorf("GetByID() after update = %+v, want updated fields", got)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1 after upserting the same id twice", count)
	}
}

func TestQARepo_Count(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0 for empty ledger", count)
	}

	for i, q := range []string{"질문 하나", "질문 둘", "질문 셋"} {
		entry := &QAEntryRecord{
			ID:          string(rune('a' + i)),
			Question:    q,
			Answer:      "답변",
			ContentHash: "hash",
		}
		if err := repo.Upsert(ctx, entry); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	count, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}
