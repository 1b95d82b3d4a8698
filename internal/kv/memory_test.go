package kv

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, "videos"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound for missing key, got %v", err)
	}

	if err := store.Set(ctx, "videos", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	value, err := store.Get(ctx, "videos")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(value) != `[]` {
		t.Fatalf("unexpected value: %s", value)
	}

	if err := store.Delete(ctx, "videos"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Has("videos") {
		t.Fatal("expected key to be removed")
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Set(ctx, "token", []byte("abc")); err != nil {
		t.Fatalf("set: %v", err)
	}

	value, err := store.Get(ctx, "token")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	value[0] = 'z'

	again, err := store.Get(ctx, "token")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(again) != "abc" {
		t.Fatalf("stored value mutated through returned slice: %s", again)
	}
}

func TestMemoryStoreDeleteMissingKey(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Delete(context.Background(), "nope"); err != nil {
		t.Fatalf("expected delete of missing key to succeed, got %v", err)
	}
}
