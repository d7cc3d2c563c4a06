package files

import (
	"strings"
	"unicode"

	"github.com/contre95/shadowbox/src/music"
	"github.com/gosimple/unidecode"
)

// albumPrefix is stripped from album names, some uploads carry it literally.
const albumPrefix = "Album - "

// PathParser turns a TrackIdentity into the three path segments of the
// library layout: <artist>/<album>/<title><ext>.
type PathParser struct {
	placeholder string
	asciify     bool
}

// NewPathParser creates a PathParser. An empty placeholder falls back to
// music.UnknownValue.
func NewPathParser(placeholder string, asciify bool) *PathParser {
	if strings.TrimSpace(placeholder) == "" {
		placeholder = music.UnknownValue
	}
	return &PathParser{placeholder: placeholder, asciify: asciify}
}

// Segments returns the sanitized artist directory, album directory and
// file stem for identity.
func (p *PathParser) Segments(identity music.TrackIdentity) (artist, album, stem string) {
	artist = p.Sanitize(music.FirstArtist(identity.Artist))

	albumName := strings.TrimSpace(identity.Album)
	albumName = strings.TrimSpace(strings.TrimPrefix(albumName, albumPrefix))
	if albumName == "" {
		albumName = identity.Title
	}
	album = p.Sanitize(albumName)

	stem = p.Sanitize(identity.Title)
	return artist, album, stem
}

// Sanitize makes name safe as a single path segment on every common
// filesystem. It never returns an empty string.
func (p *PathParser) Sanitize(name string) string {
	if p.asciify {
		name = unidecode.Unidecode(name)
	}
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', '*', '?', ':', '"', '<', '>', '|':
			return '_'
		}
		if unicode.IsControl(r) {
			return '_'
		}
		return r
	}, name)
	cleaned = strings.Trim(cleaned, ". ")
	if cleaned == "" {
		return p.placeholder
	}
	return cleaned
}
