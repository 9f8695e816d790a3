package session

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/lkoster/screenlens/internal/model/chat"
)

func newTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore err: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func sampleSession() *chat.Session {
	screenshot := "data:image/png;base64,AAAA"
	return &chat.Session{
		Screenshot:    &screenshot,
		ExtractedText: "Dashboard Overview",
		Messages: []chat.Message{
			{ID: "1", Role: chat.RoleUser, Content: "hello", Timestamp: "2025-03-15T10:45:00Z"},
			{ID: "2", Role: chat.RoleAssistant, Content: "hi", Timestamp: "2025-03-15T10:45:01Z"},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	saved := sampleSession()
	if err := store.Save(ctx, saved); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected a session, got nil")
	}
	if !reflect.DeepEqual(saved, loaded) {
		t.Fatalf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", saved, loaded)
	}
}

func TestSaveNilDeletes(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, sampleSession()); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if err := store.Save(ctx, nil); err != nil {
		t.Fatalf("Save(nil) err: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil after delete, got %+v", loaded)
	}
}

func TestLoadAbsent(t *testing.T) {
	store, _ := newTestStore(t)

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil for empty store, got %+v", loaded)
	}
}

func TestLoadCorruptRecordTreatedAsAbsent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, sampleSession()); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if _, err := store.db.Exec(`UPDATE sessions SET value = '{' WHERE key = ?`, sessionKey); err != nil {
		t.Fatalf("corrupt record: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load should swallow corruption, got err: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil for corrupt record, got %+v", loaded)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	saved := sampleSession()
	if err := store.Save(ctx, saved); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close err: %v", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen err: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !reflect.DeepEqual(saved, loaded) {
		t.Fatal("session did not survive a reopen")
	}
}

func TestNoopStore(t *testing.T) {
	store := NewNoopStore()
	ctx := context.Background()

	if err := store.Save(ctx, sampleSession()); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if loaded != nil {
		t.Fatalf("noop store must always load nil, got %+v", loaded)
	}
}
