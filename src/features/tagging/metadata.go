package tagging

import (
	"context"

	"github.com/contre95/shadowbox/src/music"
)

// SearchParams contains parameters for searching tracks in metadata providers
type SearchParams struct {
	Title  string
	Artist string // empty means a title-only query
}

// MetadataProvider defines the interface for catalog searches
type MetadataProvider interface {
	// SearchTracks returns candidates ranked best first. An empty slice with
	// a nil error means nothing matched.
	SearchTracks(ctx context.Context, params SearchParams) ([]music.TrackIdentity, error)

	// Name returns the provider name
	Name() string

	// IsEnabled returns whether the provider is enabled
	IsEnabled() bool
}

// GenreProvider returns descriptive tags for a track, most popular first.
type GenreProvider interface {
	TopTags(ctx context.Context, artist, title string) ([]string, error)
	Name() string
	IsEnabled() bool
}

// LyricsSearchParams contains parameters for searching lyrics
type LyricsSearchParams struct {
	Title  string
	Artist string
	Album  string
}

// LyricsProvider defines the interface for lyrics sources
type LyricsProvider interface {
	SearchLyrics(ctx context.Context, params LyricsSearchParams) (string, error)
	Name() string
	IsEnabled() bool
}
