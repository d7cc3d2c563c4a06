package tag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/contre95/shadowbox/src/music"
)

func TestWriteTags_RegistryByExtension(t *testing.T) {
	w := NewTagWriter("")
	for _, ext := range []string{".mp3", ".FLAC", ".opus", ".ogg", ".m4a", ".mp4", ".aac"} {
		if !w.Supports(ext) {
			t.Errorf("expected a writer for %s", ext)
		}
	}
	if w.Supports(".wav") {
		t.Error(".wav should not be supported")
	}

	err := w.WriteTags(context.Background(), "/nonexistent/song.wav", music.TrackIdentity{Title: "x"}, nil)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestWriteTags_MP3RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, make([]byte, 4096), 0644); err != nil {
		t.Fatal(err)
	}

	identity := music.TrackIdentity{
		Title:       "Let It Be",
		Artist:      "The Beatles, Billy Preston",
		AlbumArtist: "The Beatles, Billy Preston",
		Album:       "Let It Be",
		ReleaseDate: "1970-05-08",
		Genre:       "Rock",
		TrackNumber: 6,
		TotalTracks: 12,
	}
	if err := NewTagWriter("").WriteTags(context.Background(), path, identity, nil); err != nil {
		t.Fatalf("WriteTags failed: %v", err)
	}

	got, err := NewTagReader().ReadTags(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadTags failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected tags to be found")
	}
	if got.Title != identity.Title || got.Artist != identity.Artist || got.Album != identity.Album {
		t.Errorf("unexpected identity %+v", got)
	}
	if got.AlbumArtist != identity.AlbumArtist {
		t.Errorf("album artist: expected %q, got %q", identity.AlbumArtist, got.AlbumArtist)
	}
	if got.TrackNumber != 6 || got.TotalTracks != 12 {
		t.Errorf("track: expected 6/12, got %d/%d", got.TrackNumber, got.TotalTracks)
	}
	if got.Source != music.SourceEmbeddedTag {
		t.Errorf("expected embedded source, got %s", got.Source)
	}
}

func TestReadTags_NoTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.mp3")
	if err := os.WriteFile(path, []byte(strings.Repeat("\x00", 512)), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := NewTagReader().ReadTags(context.Background(), path)
	if err != nil {
		t.Fatalf("expected no error for an untagged file, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil identity, got %+v", got)
	}
}

func TestPosition(t *testing.T) {
	cases := map[[2]int]string{
		{0, 10}: "",
		{3, 0}:  "3",
		{3, 12}: "3/12",
	}
	for in, want := range cases {
		if got := position(in[0], in[1]); got != want {
			t.Errorf("position(%d, %d) = %q, want %q", in[0], in[1], got, want)
		}
	}
}

func TestFFMetadataEscaping(t *testing.T) {
	out := ffmetadata([][2]string{
		{"title", "A=B; #1"},
		{"lyrics", "line one\nline two"},
	})
	want := ";FFMETADATA1\ntitle=A\\=B\\; \\#1\nlyrics=line one\\\nline two\n"
	if out != want {
		t.Errorf("unexpected ffmetadata:\n%q\nwant\n%q", out, want)
	}
}

func TestFieldsSkipEmptyValues(t *testing.T) {
	fields := vorbisFields(music.TrackIdentity{Title: "Song", Artist: "Band", TrackNumber: 2})
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f[0])
	}
	if strings.Join(keys, ",") != "TITLE,ARTIST,TRACKNUMBER" {
		t.Errorf("unexpected fields %v", keys)
	}
	if len(ffmpegFields(music.TrackIdentity{})) != 0 {
		t.Error("empty identity should produce no ffmpeg fields")
	}
}
