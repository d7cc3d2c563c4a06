package tagging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/contre95/shadowbox/src/features/metrics"
	"github.com/contre95/shadowbox/src/music"
)

// maxGenreTags is how many tag-cloud entries become the genre.
const maxGenreTags = 2

// Resolver turns a seed title and artist into a finished TrackIdentity.
type Resolver struct {
	providers []MetadataProvider
	genres    []GenreProvider
	lyrics    []LyricsProvider
	recorder  *metrics.Recorder
}

// NewResolver creates a Resolver. Every list may be empty; with no catalog
// providers the resolver works offline.
func NewResolver(providers []MetadataProvider, genres []GenreProvider, lyrics []LyricsProvider, recorder *metrics.Recorder) *Resolver {
	return &Resolver{
		providers: providers,
		genres:    genres,
		lyrics:    lyrics,
		recorder:  recorder,
	}
}

// Resolve never fails: when nothing better is found it returns the seed
// with "Unknown" placeholders.
func (r *Resolver) Resolve(ctx context.Context, title, artist string, embedded *music.TrackIdentity) music.TrackIdentity {
	identity := seedIdentity(title, artist, embedded)

	if match, ok := r.searchCatalog(ctx, identity.Title, identity.Artist); ok {
		identity = mergeIdentity(identity, match)
		if identity.Genre == "" {
			r.applyGenre(ctx, &identity)
		}
	}

	identity.EnsureDefaults()
	if err := identity.Validate(); err != nil {
		slog.Warn("Dropping inconsistent track position", "error", err)
		identity.TrackNumber, identity.TotalTracks = 0, 0
		identity.DiscNumber, identity.TotalDiscs = 0, 0
	}
	r.recorder.Resolution(string(identity.Source))
	slog.Info("Resolved track", "title", identity.Title, "artist", identity.Artist, "album", identity.Album, "source", identity.Source)
	return identity
}

// seedIdentity applies the offline precedence: embedded tags, then the
// "Artist - Title" filename heuristic, then the raw input.
func seedIdentity(title, artist string, embedded *music.TrackIdentity) music.TrackIdentity {
	if embedded.HasTitleAndArtist() {
		seed := *embedded
		seed.Source = music.SourceEmbeddedTag
		return seed
	}

	var seed music.TrackIdentity
	if embedded != nil {
		seed = *embedded
	}
	cleaned := CleanVideoTitle(strings.TrimSpace(title))
	if a, t, ok := SplitArtistTitle(cleaned); ok {
		seed.Title, seed.Artist = t, a
		seed.Source = music.SourceFilenameHeuristic
		return seed
	}

	if seed.Title == "" {
		seed.Title = cleaned
	}
	if seed.Artist == "" {
		seed.Artist = CleanUploader(artist)
	}
	if embedded != nil && (embedded.Title != "" || embedded.Artist != "") {
		seed.Source = music.SourceEmbeddedTag
	} else {
		seed.Source = music.SourceFilenameHeuristic
	}
	return seed
}

// searchCatalog runs the relaxation cascade against each enabled catalog
// provider. An empty result moves on to the next relaxed query; an error
// ends that provider's cascade.
func (r *Resolver) searchCatalog(ctx context.Context, title, artist string) (music.TrackIdentity, bool) {
	if strings.TrimSpace(title) == "" {
		return music.TrackIdentity{}, false
	}
	plan := queryPlan(title, artist)
	for _, provider := range r.providers {
		if !provider.IsEnabled() {
			continue
		}
		for i, params := range plan {
			if ctx.Err() != nil {
				return music.TrackIdentity{}, false
			}
			results, err := provider.SearchTracks(ctx, params)
			if err != nil {
				r.recorder.ProviderQuery(provider.Name(), "error")
				slog.Warn("Metadata provider failed, skipping remaining queries", "provider", provider.Name(), "title", params.Title, "artist", params.Artist, "error", err)
				break
			}
			if len(results) == 0 {
				r.recorder.ProviderQuery(provider.Name(), "miss")
				slog.Debug("No catalog match", "provider", provider.Name(), "title", params.Title, "artist", params.Artist)
				continue
			}
			r.recorder.ProviderQuery(provider.Name(), "hit")
			if i > 0 {
				slog.Info("Matched with relaxed query", "provider", provider.Name(), "title", params.Title, "artist", params.Artist)
			}
			match := results[0]
			match.Source = music.SourceProviderA
			return match, true
		}
	}
	return music.TrackIdentity{}, false
}

// mergeIdentity lets catalog values win and keeps seed values the catalog
// left empty. The album artist is always the full artist credit.
func mergeIdentity(seed, match music.TrackIdentity) music.TrackIdentity {
	result := match
	if result.Title == "" {
		result.Title = seed.Title
	}
	if result.Artist == "" {
		result.Artist = seed.Artist
	}
	result.AlbumArtist = result.Artist
	if result.Album == "" {
		result.Album = seed.Album
	}
	if result.ReleaseDate == "" {
		result.ReleaseDate = seed.ReleaseDate
	}
	if result.Genre == "" {
		result.Genre = seed.Genre
		result.GenreSource = seed.GenreSource
	}
	if result.TrackNumber == 0 {
		result.TrackNumber, result.TotalTracks = seed.TrackNumber, seed.TotalTracks
	}
	if result.DiscNumber == 0 {
		result.DiscNumber, result.TotalDiscs = seed.DiscNumber, seed.TotalDiscs
	}
	if result.CoverURL == "" {
		result.CoverURL = seed.CoverURL
	}
	if result.Lyrics == "" {
		result.Lyrics = seed.Lyrics
	}
	result.Source = music.SourceProviderA
	return result
}

// applyGenre fills an empty genre from the first tag provider that answers.
func (r *Resolver) applyGenre(ctx context.Context, identity *music.TrackIdentity) {
	if identity.Genre != "" {
		return
	}
	for _, provider := range r.genres {
		if !provider.IsEnabled() {
			continue
		}
		tags, err := provider.TopTags(ctx, identity.FirstArtist(), identity.Title)
		if err != nil {
			slog.Warn("Genre lookup failed", "provider", provider.Name(), "error", err)
			continue
		}
		var picked []string
		for _, tag := range tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				picked = append(picked, titleCase(tag))
			}
			if len(picked) == maxGenreTags {
				break
			}
		}
		if len(picked) == 0 {
			continue
		}
		identity.Genre = strings.Join(picked, ", ")
		identity.GenreSource = music.SourceProviderB
		slog.Debug("Genre from tag provider", "provider", provider.Name(), "genre", identity.Genre)
		return
	}
}

// FindLyrics asks each lyrics provider with progressively simpler queries.
// It returns an empty string when nothing is found.
func (r *Resolver) FindLyrics(ctx context.Context, identity music.TrackIdentity) string {
	clean := CleanTitle(identity.Title)
	attempts := []LyricsSearchParams{
		{Title: identity.Title, Artist: identity.Artist, Album: identity.Album},
		{Title: clean, Artist: identity.Artist},
		{Title: clean, Artist: identity.FirstArtist()},
	}
	for _, provider := range r.lyrics {
		if !provider.IsEnabled() {
			continue
		}
		tried := make(map[LyricsSearchParams]bool)
		for _, params := range attempts {
			if tried[params] || params.Title == "" {
				continue
			}
			tried[params] = true
			lyrics, err := provider.SearchLyrics(ctx, params)
			if err != nil {
				slog.Debug("Lyrics lookup failed", "provider", provider.Name(), "title", params.Title, "error", err)
				continue
			}
			if strings.TrimSpace(lyrics) != "" {
				slog.Info("Found lyrics", "provider", provider.Name(), "title", identity.Title)
				return strings.TrimSpace(lyrics)
			}
		}
	}
	return ""
}
