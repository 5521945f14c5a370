package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"listy/kv"
)

func TestImplementsInterface(t *testing.T) {
	var _ kv.Store = (*Store)(nil)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := New(Config{Dir: dir}); err != nil {
		t.Fatalf("New error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat error: %v", err)
	}
	if !info.IsDir() {
		t.Error("data path is not a directory")
	}
}

func TestGetAbsentKey(t *testing.T) {
	s := newTestStore(t)

	value, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if value != nil {
		t.Errorf("Get(missing) = %v, want nil", value)
	}
}

func TestSetAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "listy.todo_data", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	value, err := s.Get(ctx, "listy.todo_data")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(value) != `{"a":1}` {
		t.Errorf("Get = %q", value)
	}
}

func TestRecordsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := New(Config{Dir: dir})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := s1.Set(ctx, "k", []byte("persisted")); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_ = s1.Close()

	s2, err := New(Config{Dir: dir})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	value, err := s2.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(value) != "persisted" {
		t.Errorf("Get after reopen = %q", value)
	}
}

func TestOneFilePerRecord(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{Dir: dir})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if err := s.Set(context.Background(), "listy.todo_data", []byte("{}")); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "listy.todo_data.json")); err != nil {
		t.Errorf("record file missing: %v", err)
	}
}
