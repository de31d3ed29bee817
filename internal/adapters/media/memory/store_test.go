package memory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"nyanpass/internal/ports/media"
)

func TestStore_PutDelete(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	key := media.NewKey("u1", "image/png", "cats", "c1", "photo")
	if !strings.HasPrefix(key, "users/u1/cats/c1/photo/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected key %q", key)
	}

	ref, err := s.Put(ctx, key, strings.NewReader("png-bytes"), 9, "image/png")
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}
	obj, ok := s.Get(ref)
	if !ok || string(obj.Data) != "png-bytes" || obj.ContentType != "image/png" {
		t.Fatalf("unexpected object %#v", obj)
	}

	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("second Delete should be a no-op, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store")
	}
}

func TestStore_RejectsLargeObjects(t *testing.T) {
	s := NewStore()
	_, err := s.Put(context.Background(), "k", strings.NewReader(""), media.MaxObjectSize+1, "image/png")
	if !errors.Is(err, media.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}
