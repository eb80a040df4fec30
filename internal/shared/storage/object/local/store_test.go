package local

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"style-finder/internal/shared/storage/object"
)

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir())

	key, err := store.Put(ctx, "session-1", "outfit.jpg", "image/jpeg", []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.HasSuffix(key, "_outfit.jpg") {
		t.Fatalf("unexpected key: %s", key)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, []byte("jpeg-bytes")) {
		t.Fatalf("unexpected content: %q", got)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	for _, key := range []string{"../secret", "/etc/passwd", "."} {
		if _, err := store.Get(context.Background(), key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestPutRejectsBadFileName(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Put(context.Background(), "s", "../../x.jpg", "image/jpeg", []byte("x")); err == nil {
		t.Fatalf("expected sanitize error")
	}
}
