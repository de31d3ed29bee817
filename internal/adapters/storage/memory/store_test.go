package memory

import (
	"context"
	"testing"

	"nyanpass/internal/ports/docstore"
	"nyanpass/internal/ports/docstore/docstoretest"
)

func TestStore_Contract(t *testing.T) {
	docstoretest.Run(t, func(t *testing.T) docstore.Store { return NewStore() })
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	in := map[string]any{"traits": []any{"playful"}}
	if err := s.Set(ctx, "users/u1/cats/c1", in); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	in["traits"].([]any)[0] = "mutated"

	doc, err := s.Get(ctx, "users/u1/cats/c1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	doc.Fields["traits"].([]any)[0] = "mutated again"

	again, _ := s.Get(ctx, "users/u1/cats/c1")
	if got := again.Fields["traits"].([]any)[0]; got != "playful" {
		t.Fatalf("store leaked internal state, got %v", got)
	}
}

func TestStore_CanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Set(ctx, "users/u1/cats/c1", map[string]any{"name": "x"}); err == nil {
		t.Fatalf("expected context error")
	}
}
