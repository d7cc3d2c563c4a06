package files

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/contre95/shadowbox/src/music"
)

func TestSanitize(t *testing.T) {
	p := NewPathParser("", false)
	tests := []struct {
		in   string
		want string
	}{
		{"AC/DC", "AC_DC"},
		{`What? "Now": <1|2>*`, `What_ _Now__ _1_2__`},
		{"...", music.UnknownValue},
		{"  .Hidden. ", "Hidden"},
		{"", music.UnknownValue},
		{"tab\there", "tab_here"},
		{"Sigur Rós", "Sigur Rós"},
	}
	for _, tt := range tests {
		if got := p.Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitize_Asciify(t *testing.T) {
	p := NewPathParser("Unknown", true)
	if got := p.Sanitize("Sigur Rós"); got != "Sigur Ros" {
		t.Errorf("expected asciified name, got %q", got)
	}
}

func TestPlace_Layout(t *testing.T) {
	root := t.TempDir()
	o := NewOrganizer("Unknown", false)

	identity := music.TrackIdentity{
		Title:       "Let It Be",
		Artist:      "The Beatles, Billy Preston",
		AlbumArtist: "The Beatles, Billy Preston",
		Album:       "Album - Let It Be",
	}
	result, err := o.Place(identity, root, ".opus")
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	want := filepath.Join(root, "The Beatles", "Let It Be", "Let It Be.opus")
	if result.FinalPath != want {
		t.Errorf("expected %s, got %s", want, result.FinalPath)
	}
	if result.ArtistDir != filepath.Join(root, "The Beatles") {
		t.Errorf("unexpected artist dir %s", result.ArtistDir)
	}
	if info, err := os.Stat(result.AlbumDir); err != nil || !info.IsDir() {
		t.Errorf("album directory was not created: %v", err)
	}
}

func TestPlace_AlbumFallbacks(t *testing.T) {
	root := t.TempDir()
	o := NewOrganizer("Unknown", false)

	result, err := o.Place(music.TrackIdentity{Title: "Single Song", Artist: "Someone"}, root, ".mp3")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(result.AlbumDir) != "Single Song" {
		t.Errorf("expected title as album dir, got %s", result.AlbumDir)
	}

	result, err = o.Place(music.TrackIdentity{}, root, ".mp3")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "Unknown", "Unknown", "Unknown.mp3")
	if result.FinalPath != want {
		t.Errorf("expected %s, got %s", want, result.FinalPath)
	}
}

func TestPlace_CollisionSuffixes(t *testing.T) {
	root := t.TempDir()
	o := NewOrganizer("Unknown", false)
	identity := music.TrackIdentity{Title: "Song", Artist: "Band", Album: "Record"}

	var placed []string
	for i := 0; i < 3; i++ {
		result, err := o.Place(identity, root, ".opus")
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(result.FinalPath, []byte{byte(i)}, 0644); err != nil {
			t.Fatal(err)
		}
		placed = append(placed, filepath.Base(result.FinalPath))
	}

	want := []string{"Song.opus", "Song_1.opus", "Song_2.opus"}
	for i := range want {
		if placed[i] != want[i] {
			t.Errorf("placement %d: expected %s, got %s", i, want[i], placed[i])
		}
	}
	original, err := os.ReadFile(filepath.Join(root, "Band", "Record", "Song.opus"))
	if err != nil || len(original) != 1 || original[0] != 0 {
		t.Errorf("original file must stay untouched, got %v (%v)", original, err)
	}
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scratch", "a.opus")
	if err := os.MkdirAll(filepath.Dir(src), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	o := NewOrganizer("Unknown", false)

	dst := filepath.Join(dir, "lib", "Band", "Record", "a.opus")
	if err := o.Move(src, dst); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source should be gone after move")
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "audio" {
		t.Errorf("unexpected destination content %q (%v)", data, err)
	}
}

func TestMove_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "new.opus")
	dst := filepath.Join(dir, "existing.opus")
	os.WriteFile(src, []byte("new"), 0644)
	os.WriteFile(dst, []byte("old"), 0644)

	err := NewOrganizer("", false).Move(src, dst)
	if !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("expected ErrDestinationExists, got %v", err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "old" {
		t.Error("existing file was overwritten")
	}
}

func TestRemoveEmptyDirectories(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(root, "keep.txt"), nil, 0644)

	if err := NewOrganizer("", false).RemoveEmptyDirectories(nested, root); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(root, "a")); !os.IsNotExist(err) {
		t.Error("empty parents should be removed")
	}
	if _, err := os.Stat(root); err != nil {
		t.Error("root must be kept")
	}
}

func TestCopy_KeepsSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.mp3")
	dst := filepath.Join(dir, "lib", "Artist", "out.mp3")
	os.WriteFile(src, []byte("audio"), 0644)

	o := NewOrganizer("", false)
	if err := o.Copy(src, dst); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Error("source should still exist")
	}
	if data, _ := os.ReadFile(dst); string(data) != "audio" {
		t.Errorf("unexpected copy content %q", data)
	}
	if err := o.Copy(src, dst); !errors.Is(err, ErrDestinationExists) {
		t.Errorf("expected ErrDestinationExists, got %v", err)
	}
}
