package files

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/contre95/shadowbox/src/music"
)

// ErrDestinationExists is returned by Move instead of overwriting a file.
var ErrDestinationExists = errors.New("destination already exists")

// Organizer decides where a resolved track lives in the library and moves it there.
type Organizer struct {
	paths *PathParser
}

// NewOrganizer creates a new Organizer.
func NewOrganizer(placeholder string, asciify bool) *Organizer {
	return &Organizer{paths: NewPathParser(placeholder, asciify)}
}

// Sanitize exposes the segment sanitizer used for placement.
func (o *Organizer) Sanitize(name string) string {
	return o.paths.Sanitize(name)
}

// Place creates the artist and album directories under rootDir and returns a
// destination path that does not exist yet. When <title><ext> is taken the
// first free <title>_<n><ext> is used.
func (o *Organizer) Place(identity music.TrackIdentity, rootDir, ext string) (music.PlacementResult, error) {
	artist, album, stem := o.paths.Segments(identity)

	artistDir := filepath.Join(rootDir, artist)
	albumDir := filepath.Join(artistDir, album)
	if err := os.MkdirAll(albumDir, 0755); err != nil {
		return music.PlacementResult{}, fmt.Errorf("failed to create directory: %w", err)
	}

	finalPath, err := freePath(albumDir, stem, ext)
	if err != nil {
		return music.PlacementResult{}, err
	}
	return music.PlacementResult{ArtistDir: artistDir, AlbumDir: albumDir, FinalPath: finalPath}, nil
}

func freePath(dir, stem, ext string) (string, error) {
	candidate := filepath.Join(dir, stem+ext)
	for n := 1; ; n++ {
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			if n > 1 {
				slog.Debug("Name taken, using suffix", "path", candidate)
			}
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
}

// Move moves src to dst. It refuses to overwrite dst and falls back to copy
// and remove when src and dst are on different filesystems.
func (o *Organizer) Move(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%s: %w", dst, ErrDestinationExists)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDeviceError(err) {
		return fmt.Errorf("failed to move file: %w", err)
	}

	slog.Debug("Rename crossed filesystems, copying instead", "src", src, "dst", dst)
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}
	// Remove the original file after successful copy
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove original file after copy: %w", err)
	}
	return nil
}

// Copy copies src to dst without touching src. Like Move it never overwrites.
func (o *Organizer) Copy(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}
	return nil
}

// isCrossDeviceError checks if an error is due to cross-device link (moving across filesystems)
func isCrossDeviceError(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

func copyFile(src, dst string) error {
	sourceFileStat, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !sourceFileStat.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, sourceFileStat.Mode().Perm())
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s: %w", dst, ErrDestinationExists)
		}
		return err
	}
	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		os.Remove(dst)
		return err
	}
	return destination.Close()
}

// RemoveEmptyDirectories removes dir and its empty parents, stopping at root.
func (o *Organizer) RemoveEmptyDirectories(dir, root string) error {
	root = filepath.Clean(root)
	if rel, err := filepath.Rel(root, dir); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	for dir = filepath.Clean(dir); dir != root; {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read directory %s: %w", dir, err)
		}
		if len(entries) > 0 {
			return nil
		}
		if err := os.Remove(dir); err != nil {
			return fmt.Errorf("failed to remove empty directory %s: %w", dir, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil
		}
		dir = parent
	}
	return nil
}
