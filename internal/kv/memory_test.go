package kv

import (
	"context"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "missing"); err != ErrNotFound {
		t.Errorf("Get(missing) err = %v, want ErrNotFound", err)
	}

	if err := s.Set(ctx, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("Get = %q", got)
	}

	// Last write wins.
	if err := s.Set(ctx, "k", []byte(`{"a":2}`)); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Get(ctx, "k")
	if string(got) != `{"a":2}` {
		t.Errorf("Get after overwrite = %q", got)
	}

	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "k"); err != ErrNotFound {
		t.Errorf("Get after remove err = %v, want ErrNotFound", err)
	}

	// Removing an absent key is not an error.
	if err := s.Remove(ctx, "k"); err != nil {
		t.Errorf("Remove(absent) = %v", err)
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	value := []byte("original")
	if err := s.Set(ctx, "k", value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'X'

	got, _ := s.Get(ctx, "k")
	if string(got) != "original" {
		t.Errorf("stored value aliased caller slice: %q", got)
	}
}
