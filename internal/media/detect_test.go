package media

import (
	"strings"
	"testing"
)

func TestIsSupportedExt(t *testing.T) {
	for _, ext := range []string{".mp3", ".WAV", ".flac", ".ogg"} {
		if !IsSupportedExt(ext) {
			t.Fatalf("expected %s to be supported", ext)
		}
	}
	for _, ext := range []string{".m4a", ".txt", ""} {
		if IsSupportedExt(ext) {
			t.Fatalf("expected %s to be unsupported", ext)
		}
	}
}

func TestSupportedExtsListMatchesTable(t *testing.T) {
	list := SupportedExtsList()
	for ext := range audioExts {
		if !strings.Contains(list, ext) {
			t.Fatalf("expected supported ext list to include %s, got %q", ext, list)
		}
	}
}
