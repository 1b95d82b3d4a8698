package catalog

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestPlaceholderThumbnailDeterministic(t *testing.T) {
	a := PlaceholderThumbnail("T1")
	b := PlaceholderThumbnail("T1")
	if a != b {
		t.Fatal("expected the same seed to produce the same thumbnail")
	}
	if a == "" {
		t.Fatal("expected a non-empty thumbnail reference")
	}
	if !strings.HasPrefix(a, "data:image/svg+xml;base64,") {
		t.Fatalf("unexpected thumbnail prefix: %s", a[:32])
	}
}

func TestPlaceholderThumbnailUsesAccentColor(t *testing.T) {
	ref := PlaceholderThumbnail("seed")
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ref, "data:image/svg+xml;base64,"))
	if err != nil {
		t.Fatalf("decode thumbnail payload: %v", err)
	}

	svg := string(raw)
	var matched bool
	for _, color := range placeholderColors {
		if strings.Contains(svg, color) {
			matched = true
			break
		}
	}
	if !matched {
		t.Fatalf("thumbnail does not use a known accent color: %s", svg)
	}
	if !strings.Contains(svg, `width="800" height="450"`) {
		t.Fatalf("unexpected thumbnail dimensions: %s", svg)
	}
}
