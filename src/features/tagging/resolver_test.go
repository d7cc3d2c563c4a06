package tagging

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/contre95/shadowbox/src/music"
)

// MockCatalog answers only the queries present in matches and records every call.
type MockCatalog struct {
	matches map[SearchParams]music.TrackIdentity
	failOn  map[SearchParams]error
	calls   []SearchParams
	enabled bool
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		matches: make(map[SearchParams]music.TrackIdentity),
		failOn:  make(map[SearchParams]error),
		enabled: true,
	}
}

func (m *MockCatalog) SearchTracks(ctx context.Context, params SearchParams) ([]music.TrackIdentity, error) {
	m.calls = append(m.calls, params)
	if err, ok := m.failOn[params]; ok {
		return nil, err
	}
	if match, ok := m.matches[params]; ok {
		return []music.TrackIdentity{match}, nil
	}
	return nil, nil
}

func (m *MockCatalog) Name() string    { return "mock" }
func (m *MockCatalog) IsEnabled() bool { return m.enabled }

type MockTags struct {
	tags  []string
	calls int
}

func (m *MockTags) TopTags(ctx context.Context, artist, title string) ([]string, error) {
	m.calls++
	return m.tags, nil
}
func (m *MockTags) Name() string    { return "tags" }
func (m *MockTags) IsEnabled() bool { return true }

func TestResolve_RelaxesBracketedTitle(t *testing.T) {
	catalog := NewMockCatalog()
	catalog.matches[SearchParams{Title: "Bohemian Rhapsody", Artist: "Queen"}] = music.TrackIdentity{
		Title:       "Bohemian Rhapsody - Remastered 2011",
		Artist:      "Queen",
		Album:       "A Night at the Opera",
		ReleaseDate: "1975-11-21",
		Genre:       "Classic Rock",
	}
	resolver := NewResolver([]MetadataProvider{catalog}, nil, nil, nil)

	id := resolver.Resolve(context.Background(), "Bohemian Rhapsody (Remastered 2011)", "Queen", nil)

	if id.Album != "A Night at the Opera" {
		t.Fatalf("expected album from relaxed match, got %q", id.Album)
	}
	if id.Source != music.SourceProviderA {
		t.Errorf("expected catalog source, got %s", id.Source)
	}
	want := []SearchParams{
		{Title: "Bohemian Rhapsody (Remastered 2011)", Artist: "Queen"},
		{Title: "Bohemian Rhapsody", Artist: "Queen"},
	}
	if len(catalog.calls) != len(want) {
		t.Fatalf("expected %d queries, got %v", len(want), catalog.calls)
	}
	for i := range want {
		if catalog.calls[i] != want[i] {
			t.Errorf("query %d: expected %+v, got %+v", i, want[i], catalog.calls[i])
		}
	}
}

func TestResolve_AlbumArtistKeepsFullCredit(t *testing.T) {
	catalog := NewMockCatalog()
	catalog.matches[SearchParams{Title: "Get Back", Artist: "The Beatles, Billy Preston"}] = music.TrackIdentity{
		Title:       "Get Back",
		Artist:      "The Beatles, Billy Preston",
		AlbumArtist: "The Beatles",
		Album:       "Let It Be",
	}
	resolver := NewResolver([]MetadataProvider{catalog}, nil, nil, nil)

	id := resolver.Resolve(context.Background(), "Get Back", "The Beatles, Billy Preston", nil)

	if id.AlbumArtist != "The Beatles, Billy Preston" {
		t.Errorf("expected the full credit as album artist, got %q", id.AlbumArtist)
	}
	if id.FirstArtist() != "The Beatles" {
		t.Errorf("expected first artist The Beatles, got %q", id.FirstArtist())
	}
}

func TestQueryPlan_StrippedTitleBeforeTitleOnly(t *testing.T) {
	plan := queryPlan("Bohemian Rhapsody (Remastered 2011)", "Queen")

	stripped, titleOnly := -1, -1
	for i, p := range plan {
		if p.Title == "Bohemian Rhapsody" && stripped < 0 {
			stripped = i
		}
		if p.Title == "Bohemian Rhapsody (Remastered 2011)" && p.Artist == "" {
			titleOnly = i
		}
	}
	if stripped < 0 || titleOnly < 0 || stripped > titleOnly {
		t.Fatalf("expected stripped title before title-only, plan: %+v", plan)
	}
}

func TestQueryPlan_NeverRepeatsAQuery(t *testing.T) {
	inputs := [][2]string{
		{"Song", "Artist"},
		{"Song", ""},
		{"Hey Jude (Remastered 2015) feat. Someone", "The Beatles, Billy Preston"},
		{"One Two Three Four", "AC/DC"},
		{"  spaced   out  ", "  A  "},
	}
	for _, in := range inputs {
		plan := queryPlan(in[0], in[1])
		seen := make(map[string]bool)
		for _, p := range plan {
			key := strings.ToLower(p.Title) + "|" + strings.ToLower(p.Artist)
			if seen[key] {
				t.Errorf("plan for %q/%q repeats %+v", in[0], in[1], p)
			}
			seen[key] = true
			if p.Title == "" {
				t.Errorf("plan for %q/%q contains an empty title", in[0], in[1])
			}
		}
	}
}

func TestQueryPlan_ArtistTransformsInOrder(t *testing.T) {
	plan := queryPlan("Something", "The Beatles, Billy Preston")
	first, word := -1, -1
	for i, p := range plan {
		switch p.Artist {
		case "The Beatles":
			first = i
		case "The":
			word = i
		}
	}
	if first < 0 || word < 0 || first > word {
		t.Errorf("expected first artist before first word, got %+v", plan)
	}
}

func TestResolve_ExhaustsPlanWithoutMatch(t *testing.T) {
	catalog := NewMockCatalog()
	resolver := NewResolver([]MetadataProvider{catalog}, nil, nil, nil)

	id := resolver.Resolve(context.Background(), "Some Artist - Unknown Song", "", nil)

	if len(catalog.calls) != len(queryPlan("Unknown Song", "Some Artist")) {
		t.Errorf("expected the whole plan to be tried once, got %d calls", len(catalog.calls))
	}
	if id.Title != "Unknown Song" || id.Artist != "Some Artist" {
		t.Errorf("expected heuristic identity, got %+v", id)
	}
	if id.Source != music.SourceFilenameHeuristic {
		t.Errorf("expected filename source, got %s", id.Source)
	}
}

func TestResolve_ProviderErrorStopsCascade(t *testing.T) {
	catalog := NewMockCatalog()
	catalog.failOn[SearchParams{Title: "Song", Artist: "Band"}] = errors.New("503 from upstream")
	second := NewMockCatalog()
	second.matches[SearchParams{Title: "Song", Artist: "Band"}] = music.TrackIdentity{Title: "Song", Artist: "Band", Album: "Record"}
	resolver := NewResolver([]MetadataProvider{catalog, second}, nil, nil, nil)

	id := resolver.Resolve(context.Background(), "Song", "Band", nil)

	if len(catalog.calls) != 1 {
		t.Errorf("expected the failing provider to be queried once, got %d", len(catalog.calls))
	}
	if id.Album != "Record" {
		t.Errorf("expected the next provider to answer, got %+v", id)
	}
}

func TestResolve_GenreTopTwoNeverOverwrites(t *testing.T) {
	catalog := NewMockCatalog()
	catalog.matches[SearchParams{Title: "Song", Artist: "Band"}] = music.TrackIdentity{Title: "Song", Artist: "Band"}
	tags := &MockTags{tags: []string{"indie rock", "shoegaze", "dream pop"}}
	resolver := NewResolver([]MetadataProvider{catalog}, []GenreProvider{tags}, nil, nil)

	id := resolver.Resolve(context.Background(), "Song", "Band", nil)
	if id.Genre != "Indie Rock, Shoegaze" {
		t.Errorf("expected top two tags, got %q", id.Genre)
	}
	if id.GenreSource != music.SourceProviderB {
		t.Errorf("expected genre source tag cloud, got %s", id.GenreSource)
	}

	catalog.matches[SearchParams{Title: "Other", Artist: "Band"}] = music.TrackIdentity{Title: "Other", Artist: "Band", Genre: "Post-Rock"}
	tags.calls = 0
	id = resolver.Resolve(context.Background(), "Other", "Band", nil)
	if id.Genre != "Post-Rock" || tags.calls != 0 {
		t.Errorf("catalog genre must be kept without asking the tag provider, got %q (%d calls)", id.Genre, tags.calls)
	}
}

func TestResolve_EmbeddedTagsWin(t *testing.T) {
	catalog := NewMockCatalog()
	catalog.enabled = false
	resolver := NewResolver([]MetadataProvider{catalog}, nil, nil, nil)
	embedded := &music.TrackIdentity{Title: "Real Title", Artist: "Real Artist", Album: "Real Album"}

	id := resolver.Resolve(context.Background(), "Somebody - Something Else", "", embedded)

	if id.Title != "Real Title" || id.Album != "Real Album" {
		t.Errorf("expected embedded tags, got %+v", id)
	}
	if id.Source != music.SourceEmbeddedTag {
		t.Errorf("expected embedded source, got %s", id.Source)
	}
	if len(catalog.calls) != 0 {
		t.Error("disabled provider must not be queried")
	}
}

func TestResolve_NeverReturnsEmptyIdentity(t *testing.T) {
	resolver := NewResolver(nil, nil, nil, nil)

	id := resolver.Resolve(context.Background(), "", "", nil)

	if id.Title != music.UnknownValue || id.Artist != music.UnknownValue {
		t.Errorf("expected placeholders, got %+v", id)
	}
}

func TestResolve_DropsImpossiblePosition(t *testing.T) {
	resolver := NewResolver(nil, nil, nil, nil)
	embedded := &music.TrackIdentity{Title: "Song", Artist: "Band", TrackNumber: 14, TotalTracks: 12, DiscNumber: 1}

	id := resolver.Resolve(context.Background(), "Song", "", embedded)

	if id.TrackNumber != 0 || id.TotalTracks != 0 || id.DiscNumber != 0 {
		t.Errorf("expected position cleared, got %d/%d disc %d", id.TrackNumber, id.TotalTracks, id.DiscNumber)
	}
	if id.Title != "Song" {
		t.Errorf("title should survive, got %q", id.Title)
	}
}

func TestResolve_DropsImpossibleDisc(t *testing.T) {
	resolver := NewResolver(nil, nil, nil, nil)
	embedded := &music.TrackIdentity{Title: "Song", Artist: "Band", TrackNumber: 3, TotalTracks: 10, DiscNumber: 3, TotalDiscs: 2}

	id := resolver.Resolve(context.Background(), "Song", "", embedded)

	if id.DiscNumber != 0 || id.TotalDiscs != 0 {
		t.Errorf("expected disc position cleared, got %d/%d", id.DiscNumber, id.TotalDiscs)
	}
}

func TestResolve_NumericTitleIsNotSplit(t *testing.T) {
	resolver := NewResolver(nil, nil, nil, nil)

	id := resolver.Resolve(context.Background(), "1-800-273-8255", "Logic", nil)

	if id.Title != "1-800-273-8255" || id.Artist != "Logic" {
		t.Errorf("expected title kept whole, got %q by %q", id.Title, id.Artist)
	}
}

func TestResolve_UploaderAsArtist(t *testing.T) {
	resolver := NewResolver(nil, nil, nil, nil)

	id := resolver.Resolve(context.Background(), "Everlong (Official Music Video)", "Foo Fighters - Topic", nil)

	if id.Title != "Everlong" || id.Artist != "Foo Fighters" {
		t.Errorf("unexpected identity %+v", id)
	}
}

type MockLyrics struct {
	byTitle map[string]string
	calls   []LyricsSearchParams
}

func (m *MockLyrics) SearchLyrics(ctx context.Context, params LyricsSearchParams) (string, error) {
	m.calls = append(m.calls, params)
	if l, ok := m.byTitle[params.Title]; ok {
		return l, nil
	}
	return "", errors.New("no lyrics found")
}
func (m *MockLyrics) Name() string    { return "lyrics" }
func (m *MockLyrics) IsEnabled() bool { return true }

func TestFindLyrics_FallsBackToCleanTitle(t *testing.T) {
	lyrics := &MockLyrics{byTitle: map[string]string{"Hey Jude": "Hey Jude, don't make it bad"}}
	resolver := NewResolver(nil, nil, []LyricsProvider{lyrics}, nil)

	got := resolver.FindLyrics(context.Background(), music.TrackIdentity{Title: "Hey Jude (Remastered 2015)", Artist: "The Beatles"})

	if got != "Hey Jude, don't make it bad" {
		t.Errorf("unexpected lyrics %q", got)
	}
	if len(lyrics.calls) != 2 {
		t.Errorf("expected 2 lookups, got %d", len(lyrics.calls))
	}
}
