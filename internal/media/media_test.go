package media

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("read failure")
}

func TestBase64EncoderRoundTrip(t *testing.T) {
	payload, err := Base64Encoder{}.Encode(strings.NewReader("binary video bytes"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if string(decoded) != "binary video bytes" {
		t.Fatalf("round trip mismatch: %s", decoded)
	}
}

func TestBase64EncoderReadFailure(t *testing.T) {
	if _, err := (Base64Encoder{}).Encode(failingReader{}); err == nil {
		t.Fatal("expected read failure to propagate")
	}
}

func TestMemoryStoreSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ref, err := store.Save(ctx, "videos/demo.mp4", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if ref != "memory://videos/demo.mp4" {
		t.Fatalf("unexpected reference: %s", ref)
	}

	data, ok := store.Object("videos/demo.mp4")
	if !ok {
		t.Fatal("expected object to be stored")
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected payload: %s", data)
	}
}

func TestMemoryStoreEmptyKey(t *testing.T) {
	if _, err := NewMemoryStore().Save(context.Background(), "/", strings.NewReader("x")); err == nil {
		t.Fatal("expected empty key to fail")
	}
}

func TestMemoryStoreReadFailure(t *testing.T) {
	if _, err := NewMemoryStore().Save(context.Background(), "videos/x.mp4", failingReader{}); err == nil {
		t.Fatal("expected read failure to propagate")
	}
}
