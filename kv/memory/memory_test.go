package memory

import (
	"context"
	"testing"

	"listy/kv"
)

func TestImplementsInterface(t *testing.T) {
	var _ kv.Store = (*Store)(nil)
}

func TestGetAbsentKey(t *testing.T) {
	s := New()

	value, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if value != nil {
		t.Errorf("Get(missing) = %v, want nil", value)
	}
}

func TestSetAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	value, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(value) != "v1" {
		t.Errorf("Get = %q, want v1", value)
	}

	// Overwrite
	if err := s.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	value, _ = s.Get(ctx, "k")
	if string(value) != "v2" {
		t.Errorf("Get after overwrite = %q, want v2", value)
	}
}

func TestValuesAreCopied(t *testing.T) {
	s := New()
	ctx := context.Background()

	in := []byte("original")
	if err := s.Set(ctx, "k", in); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	in[0] = 'X'

	out, _ := s.Get(ctx, "k")
	if string(out) != "original" {
		t.Errorf("stored value mutated through caller slice: %q", out)
	}

	// Mutating the returned slice must not affect the store either.
	out[0] = 'Y'
	again, _ := s.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}
}
