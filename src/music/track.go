package music

import (
	"fmt"
	"strconv"
	"strings"
)

// UnknownValue fills identity fields that could not be resolved.
const UnknownValue = "Unknown"

// Source tells which step of the resolution chain produced an identity.
type Source string

const (
	SourceNone              Source = ""
	SourceEmbeddedTag       Source = "embedded_tag"
	SourceFilenameHeuristic Source = "filename"
	SourceProviderA         Source = "catalog"
	SourceProviderB         Source = "tag_cloud"
)

// TrackIdentity is the resolved description of one audio file.
type TrackIdentity struct {
	Title       string
	Artist      string // Full credit, may be a comma separated list
	AlbumArtist string
	Album       string
	ReleaseDate string // YYYY, YYYY-MM or YYYY-MM-DD
	Genre       string
	TrackNumber int // 0 when unknown
	TotalTracks int
	DiscNumber  int
	TotalDiscs  int
	CoverURL    string
	Lyrics      string
	Source      Source
	GenreSource Source
}

// HasTitleAndArtist reports whether both primary fields are present.
func (t *TrackIdentity) HasTitleAndArtist() bool {
	return t != nil && strings.TrimSpace(t.Title) != "" && strings.TrimSpace(t.Artist) != ""
}

// FirstArtist returns the first entry of a comma separated artist credit.
func (t TrackIdentity) FirstArtist() string {
	return FirstArtist(t.Artist)
}

// FirstArtist returns the first entry of a comma separated artist credit.
func FirstArtist(artist string) string {
	first, _, _ := strings.Cut(artist, ",")
	return strings.TrimSpace(first)
}

// Year extracts the year from ReleaseDate, 0 if it has none.
func (t TrackIdentity) Year() int {
	date := strings.TrimSpace(t.ReleaseDate)
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// EnsureDefaults trims every text field and fills the mandatory ones.
func (t *TrackIdentity) EnsureDefaults() {
	t.Title = strings.TrimSpace(t.Title)
	t.Artist = strings.TrimSpace(t.Artist)
	t.AlbumArtist = strings.TrimSpace(t.AlbumArtist)
	t.Album = strings.TrimSpace(t.Album)
	t.Genre = strings.TrimSpace(t.Genre)
	if t.Title == "" {
		t.Title = UnknownValue
	}
	if t.Artist == "" {
		t.Artist = UnknownValue
	}
	if t.AlbumArtist == "" {
		t.AlbumArtist = t.Artist
	}
}

// Validate checks the invariants a resolved identity must hold.
func (t *TrackIdentity) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("track title cannot be empty")
	}
	if strings.TrimSpace(t.Artist) == "" {
		return fmt.Errorf("track artist cannot be empty: title -> %s", t.Title)
	}
	if t.TrackNumber < 0 || t.DiscNumber < 0 {
		return fmt.Errorf("track and disc numbers cannot be negative: title -> %s", t.Title)
	}
	if t.TotalTracks > 0 && t.TrackNumber > t.TotalTracks {
		return fmt.Errorf("track number %d exceeds total %d: title -> %s", t.TrackNumber, t.TotalTracks, t.Title)
	}
	if t.TotalDiscs > 0 && t.DiscNumber > t.TotalDiscs {
		return fmt.Errorf("disc number %d exceeds total %d: title -> %s", t.DiscNumber, t.TotalDiscs, t.Title)
	}
	return nil
}

// Pretty returns a short human readable label.
func (t TrackIdentity) Pretty() string {
	if t.Album == "" {
		return fmt.Sprintf("%s - %s", t.Artist, t.Title)
	}
	return fmt.Sprintf("%s - %s (%s)", t.Artist, t.Title, t.Album)
}
