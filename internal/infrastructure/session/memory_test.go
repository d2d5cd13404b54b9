package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_PutGetDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Put(ctx, "tok", 7, time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	id, ok, err := c.Get(ctx, "tok")
	if err != nil || !ok || id != 7 {
		t.Fatalf("Get = (%d, %v, %v), want (7, true, nil)", id, ok, err)
	}

	if err := c.Delete(ctx, "tok"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "tok"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestMemoryCache_MissingToken(t *testing.T) {
	c := NewMemoryCache()

	id, ok, err := c.Get(context.Background(), "nope")
	if err != nil || ok || id != 0 {
		t.Fatalf("Get = (%d, %v, %v), want (0, false, nil)", id, ok, err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Put(ctx, "tok", 1, time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "tok"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Put(ctx, "tok", 1, 0)
	if _, ok, _ := c.Get(ctx, "tok"); !ok {
		t.Fatalf("zero-TTL entry should persist")
	}
}
