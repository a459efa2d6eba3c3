package audio

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
)

var supportedExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
}

// IsSupportedExt reports whether the lowercase extension is a decodable
// format.
func IsSupportedExt(ext string) bool {
	return supportedExts[ext]
}

// SupportedExtsList returns the supported extensions for error messages.
func SupportedExtsList() string {
	return ".mp3, .wav, .flac, .ogg"
}

// ReadTitle returns the display title for a file: the ID3v2 title tag when
// present, otherwise the filename without extension.
func ReadTitle(path string) string {
	fallback := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Title", "Artist"}})
	if err != nil {
		return fallback
	}
	defer tag.Close()

	title := strings.TrimSpace(tag.Title())
	if title == "" {
		return fallback
	}
	if artist := strings.TrimSpace(tag.Artist()); artist != "" {
		return artist + " - " + title
	}
	return title
}
