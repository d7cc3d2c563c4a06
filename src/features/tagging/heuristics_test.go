package tagging

import "testing"

func TestSplitArtistTitle(t *testing.T) {
	tests := []struct {
		in     string
		artist string
		title  string
		ok     bool
	}{
		{"Daft Punk - One More Time", "Daft Punk", "One More Time", true},
		{"Jay-Z - Empire State of Mind", "Jay-Z", "Empire State of Mind", true},
		{"Artist – Title", "Artist", "Title", true},
		{"Band: Song", "Band", "Song", true},
		{"NoSeparatorHere", "", "", false},
		{" - Title", "", "", false},
		{"1-800-273-8255", "", "", false},
		{"Blink-182", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			artist, title, ok := SplitArtistTitle(tt.in)
			if ok != tt.ok || artist != tt.artist || title != tt.title {
				t.Errorf("SplitArtistTitle(%q) = %q, %q, %v; want %q, %q, %v", tt.in, artist, title, ok, tt.artist, tt.title, tt.ok)
			}
		})
	}
}

func TestCleanTitle(t *testing.T) {
	tests := map[string]string{
		"Bohemian Rhapsody (Remastered 2011)": "Bohemian Rhapsody",
		"Song [Live] feat. Someone":           "Song",
		"Track ft. Guest":                     "Track",
		"(Intro)":                             "(Intro)",
		"Plain":                               "Plain",
	}
	for in, want := range tests {
		if got := CleanTitle(in); got != want {
			t.Errorf("CleanTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanVideoTitle(t *testing.T) {
	if got := CleanVideoTitle("Everlong (Official Music Video) [HD]"); got != "Everlong" {
		t.Errorf("got %q", got)
	}
	if got := CleanVideoTitle("Song (Remastered)"); got != "Song (Remastered)" {
		t.Errorf("non-video brackets must stay, got %q", got)
	}
}

func TestArtistHelpers(t *testing.T) {
	if got := SimplifyArtist("Guns N' Roses"); got != "Guns N Roses" {
		t.Errorf("SimplifyArtist = %q", got)
	}
	if got := FirstWord("  Red Hot Chili Peppers"); got != "Red" {
		t.Errorf("FirstWord = %q", got)
	}
	if got := WordPrefix("one two three four", 3); got != "one two three" {
		t.Errorf("WordPrefix = %q", got)
	}
	if got := CleanUploader("Foo Fighters - Topic"); got != "Foo Fighters" {
		t.Errorf("CleanUploader = %q", got)
	}
	if got := StripOrdinal("03 - Song"); got != "Song" {
		t.Errorf("StripOrdinal = %q", got)
	}
	if got := titleCase("indie ROCK"); got != "Indie Rock" {
		t.Errorf("titleCase = %q", got)
	}
}
