package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "texts.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestStore_PutGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, 1, "{d10} mm"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got != "{d10} mm" {
		t.Errorf("Get = %q, want %q", got, "{d10} mm")
	}

	// Put on an existing id replaces the template.
	if err := s.Put(ctx, 1, "{d10:.1f}"); err != nil {
		t.Fatalf("Put (replace) failed: %v", err)
	}

	got, err = s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get after replace failed: %v", err)
	}

	if got != "{d10:.1f}" {
		t.Errorf("Get after replace = %q, want %q", got, "{d10:.1f}")
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), 99)
	if !errors.Is(err, ErrTextNotFound) {
		t.Fatalf("Get(99) error = %v, want %v", err, ErrTextNotFound)
	}
}

func TestStore_Remove(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, 1, "text"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := s.Bind(ctx, 1, "Sketch1"); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	if err := s.Remove(ctx, 1); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if _, err := s.Get(ctx, 1); !errors.Is(err, ErrTextNotFound) {
		t.Errorf("Get after Remove error = %v, want %v", err, ErrTextNotFound)
	}

	// Bindings cascade with the text.
	texts, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}

	if len(texts) != 0 {
		t.Errorf("All after Remove = %v, want empty", texts)
	}

	if err := s.Remove(ctx, 1); !errors.Is(err, ErrTextNotFound) {
		t.Errorf("Remove(missing) error = %v, want %v", err, ErrTextNotFound)
	}
}

func TestStore_BindUnbind(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, 1, "text"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := s.Bind(ctx, 1, "Sketch1"); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	// Re-binding the same sketch is a no-op.
	if err := s.Bind(ctx, 1, "Sketch1"); err != nil {
		t.Fatalf("Bind (duplicate) failed: %v", err)
	}

	if err := s.Bind(ctx, 1, "Sketch2"); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	// Binding to a missing text fails.
	if err := s.Bind(ctx, 2, "Sketch1"); !errors.Is(err, ErrTextNotFound) {
		t.Errorf("Bind(missing) error = %v, want %v", err, ErrTextNotFound)
	}

	if err := s.Unbind(ctx, 1, "Sketch1"); err != nil {
		t.Fatalf("Unbind failed: %v", err)
	}

	texts, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}

	if len(texts) != 1 {
		t.Fatalf("All = %v, want one text", texts)
	}

	if len(texts[0].Sketches) != 1 || texts[0].Sketches[0] != "Sketch2" {
		t.Errorf("Sketches = %v, want [Sketch2]", texts[0].Sketches)
	}
}

func TestStore_All_OrdersByID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []int{3, 1, 2} {
		if err := s.Put(ctx, id, "text"); err != nil {
			t.Fatalf("Put(%d) failed: %v", id, err)
		}
	}

	texts, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}

	if len(texts) != 3 {
		t.Fatalf("All = %v, want three texts", texts)
	}

	for i, want := range []int{1, 2, 3} {
		if texts[i].ID != want {
			t.Errorf("All[%d].ID = %d, want %d", i, texts[i].ID, want)
		}
	}
}

func TestStore_NextID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	next, err := s.NextID(ctx)
	if err != nil {
		t.Fatalf("NextID failed: %v", err)
	}

	if next != 1 {
		t.Errorf("NextID on empty store = %d, want 1", next)
	}

	if err := s.Put(ctx, 5, "text"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	next, err = s.NextID(ctx)
	if err != nil {
		t.Fatalf("NextID failed: %v", err)
	}

	if next != 6 {
		t.Errorf("NextID = %d, want 6", next)
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "texts.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := s.Put(ctx, 1, "persisted"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	got, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}

	if got != "persisted" {
		t.Errorf("Get after reopen = %q, want %q", got, "persisted")
	}
}

func TestStore_RejectsForeignStorageVersion(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "texts.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	_, err = s.db.ExecContext(
		ctx, "UPDATE meta SET value = '99' WHERE key = 'storage-version'",
	)
	if err != nil {
		t.Fatalf("version update failed: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := Open(ctx, path); !errors.Is(err, ErrStorageVersion) {
		t.Fatalf("reopen error = %v, want %v", err, ErrStorageVersion)
	}
}
