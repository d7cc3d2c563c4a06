package music

import "testing"

func TestNewAcquisitionRequest(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     RequestKind
		site     Site
		playlist bool
	}{
		{"search text", "queen bohemian rhapsody", KindSearchText, SiteUnknown, false},
		{"youtube watch", "https://www.youtube.com/watch?v=fJ9rUzIMcZQ", KindDirectURL, SiteYouTube, false},
		{"youtube short link", "https://youtu.be/fJ9rUzIMcZQ", KindDirectURL, SiteYouTube, false},
		{"youtube music", "https://music.youtube.com/watch?v=abc", KindDirectURL, SiteYouTube, false},
		{"youtube playlist", "https://www.youtube.com/playlist?list=PL123", KindDirectURL, SiteYouTube, true},
		{"youtube watch in list", "https://www.youtube.com/watch?v=abc&list=PL123", KindDirectURL, SiteYouTube, true},
		{"bandcamp track", "https://artist.bandcamp.com/track/song", KindDirectURL, SiteBandcamp, false},
		{"bandcamp album", "https://artist.bandcamp.com/album/record", KindDirectURL, SiteBandcamp, true},
		{"other site", "https://soundcloud.com/artist/song", KindDirectURL, SiteUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewAcquisitionRequest(tt.input, "")
			if req.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, req.Kind)
			}
			if req.Site != tt.site {
				t.Errorf("expected site %s, got %s", tt.site, req.Site)
			}
			if req.IsPlaylist != tt.playlist {
				t.Errorf("expected playlist %v, got %v", tt.playlist, req.IsPlaylist)
			}
			if req.DesiredFormat != DefaultAudioFormat {
				t.Errorf("expected default format, got %s", req.DesiredFormat)
			}
		})
	}
}

func TestNewAcquisitionRequest_NormalizesFormat(t *testing.T) {
	req := NewAcquisitionRequest("  some song  ", ".MP3")
	if req.DesiredFormat != "mp3" {
		t.Errorf("expected mp3, got %s", req.DesiredFormat)
	}
	if req.Query != "some song" {
		t.Errorf("expected trimmed query, got %q", req.Query)
	}
}

func TestTrackIdentity_EnsureDefaults(t *testing.T) {
	id := TrackIdentity{Title: "  ", Artist: ""}
	id.EnsureDefaults()
	if id.Title != UnknownValue || id.Artist != UnknownValue {
		t.Fatalf("expected placeholders, got %q / %q", id.Title, id.Artist)
	}
	if id.AlbumArtist != UnknownValue {
		t.Errorf("expected album artist to follow artist, got %q", id.AlbumArtist)
	}
	if err := id.Validate(); err != nil {
		t.Errorf("expected valid identity, got %v", err)
	}
}

func TestTrackIdentity_ValidatePositions(t *testing.T) {
	tests := map[string]TrackIdentity{
		"track beyond total": {Title: "Song", Artist: "Band", TrackNumber: 14, TotalTracks: 12},
		"disc beyond total":  {Title: "Song", Artist: "Band", DiscNumber: 3, TotalDiscs: 2},
		"negative track":     {Title: "Song", Artist: "Band", TrackNumber: -1},
	}
	for name, id := range tests {
		t.Run(name, func(t *testing.T) {
			if err := id.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
	ok := TrackIdentity{Title: "Song", Artist: "Band", TrackNumber: 2, TotalTracks: 12, DiscNumber: 2, TotalDiscs: 2}
	if err := ok.Validate(); err != nil {
		t.Errorf("expected valid positions, got %v", err)
	}
}

func TestTrackIdentity_YearAndFirstArtist(t *testing.T) {
	id := TrackIdentity{Artist: "The Beatles, Billy Preston", ReleaseDate: "1969-04-11"}
	if id.Year() != 1969 {
		t.Errorf("expected 1969, got %d", id.Year())
	}
	if id.FirstArtist() != "The Beatles" {
		t.Errorf("expected The Beatles, got %q", id.FirstArtist())
	}
	if (TrackIdentity{ReleaseDate: "n/a"}).Year() != 0 {
		t.Error("expected 0 for unparsable date")
	}
}

func TestDownloadOutcome_PathOnlyOnSuccess(t *testing.T) {
	out := Failed(StatusSuccess, []string{"boom"}, nil)
	if out.Status != StatusFatalFailure || out.LocalPath != "" {
		t.Fatalf("failure outcome must not carry a path, got %+v", out)
	}
	ok := Succeeded("standard", []string{"/tmp/a.opus", "/tmp/b.opus"}, nil)
	if !ok.OK() || ok.LocalPath != "/tmp/a.opus" || len(ok.Files()) != 2 {
		t.Errorf("unexpected success outcome %+v", ok)
	}
}
