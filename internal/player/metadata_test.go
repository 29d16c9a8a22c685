package player

import (
	"path/filepath"
	"testing"
)

func TestReadMetadataFallsBackToFileName(t *testing.T) {
	m := ReadMetadata(filepath.Join(t.TempDir(), "Song5.wav"))
	if m.Title != "Song5" {
		t.Fatalf("expected title from file name, got %q", m.Title)
	}
	if m.Subtitle() != "" {
		t.Fatalf("expected empty subtitle, got %q", m.Subtitle())
	}
}

func TestReadMetadataMissingMP3(t *testing.T) {
	m := ReadMetadata(filepath.Join(t.TempDir(), "missing.mp3"))
	if m.Title != "missing" {
		t.Fatalf("expected fallback title, got %q", m.Title)
	}
}

func TestMetadataSubtitle(t *testing.T) {
	cases := []struct {
		m    Metadata
		want string
	}{
		{Metadata{Artist: "A", Album: "B"}, "A - B"},
		{Metadata{Artist: "A"}, "A"},
		{Metadata{Album: "B"}, "B"},
	}
	for _, tc := range cases {
		if got := tc.m.Subtitle(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}
