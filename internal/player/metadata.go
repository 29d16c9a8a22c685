package player

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// Metadata holds song information.
type Metadata struct {
	Title  string
	Artist string
	Album  string
}

// Subtitle joins artist and album, skipping whichever is empty.
func (m Metadata) Subtitle() string {
	switch {
	case m.Artist != "" && m.Album != "":
		return m.Artist + " - " + m.Album
	case m.Artist != "":
		return m.Artist
	default:
		return m.Album
	}
}

// ReadMetadata reads ID3v2 tags from an MP3 file, falling back to the
// file name for the title.
func ReadMetadata(path string) Metadata {
	var m Metadata
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		if tag, err := id3v2.Open(path, id3v2.Options{Parse: true}); err == nil {
			m = Metadata{
				Title:  strings.TrimSpace(tag.Title()),
				Artist: strings.TrimSpace(tag.Artist()),
				Album:  strings.TrimSpace(tag.Album()),
			}
			tag.Close()
		}
	}
	if m.Title == "" {
		base := filepath.Base(path)
		m.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return m
}
