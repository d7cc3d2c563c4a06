package acquiring

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/contre95/shadowbox/src/music"
)

var ordinalRe = regexp.MustCompile(`^(\d+)`)

type candidate struct {
	path    string
	modTime int64
	ordinal int // -1 when the name has no leading number
}

// fileStamp identifies one version of a file.
type fileStamp struct {
	size    int64
	modTime int64
}

// snapshot records the regular files present in dir.
func snapshot(dir string) map[string]fileStamp {
	seen := make(map[string]fileStamp)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return seen
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if info, err := e.Info(); err == nil {
			seen[e.Name()] = fileStamp{size: info.Size(), modTime: info.ModTime().UnixNano()}
		}
	}
	return seen
}

// newAudioFiles returns audio files in dir that are absent from before, or
// were rewritten since, and are at least minSize bytes. Smaller files are
// treated as corrupt.
func newAudioFiles(dir string, before map[string]fileStamp, minSize int64) []candidate {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var found []candidate
	for _, e := range entries {
		if e.IsDir() || !music.IsAudioFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Size() < minSize {
			continue
		}
		stamp := fileStamp{size: info.Size(), modTime: info.ModTime().UnixNano()}
		if prev, ok := before[e.Name()]; ok && prev == stamp {
			continue
		}
		found = append(found, candidate{
			path:    filepath.Join(dir, e.Name()),
			modTime: info.ModTime().UnixNano(),
			ordinal: parseOrdinal(e.Name()),
		})
	}
	return found
}

// discard removes the files a failed attempt left behind so a later strategy
// writing the same name is seen as new output.
func discard(found []candidate) {
	for _, c := range found {
		if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
			slog.Debug("Could not remove leftover file", "path", c.path, "error", err)
		}
	}
}

func parseOrdinal(name string) int {
	m := ordinalRe.FindStringSubmatch(name)
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return n
}

// newest picks the most recently modified candidate.
func newest(found []candidate) string {
	best := -1
	for i, c := range found {
		if best < 0 || c.modTime > found[best].modTime {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return found[best].path
}

// byOrdinal sorts ascending by playlist ordinal. Names without an ordinal
// go last, ordered by name.
func byOrdinal(found []candidate) []string {
	sorted := make([]candidate, len(found))
	copy(sorted, found)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch {
		case a.ordinal < 0 && b.ordinal < 0:
			return a.path < b.path
		case a.ordinal < 0:
			return false
		case b.ordinal < 0:
			return true
		case a.ordinal != b.ordinal:
			return a.ordinal < b.ordinal
		default:
			return a.path < b.path
		}
	})
	paths := make([]string, len(sorted))
	for i, c := range sorted {
		paths[i] = c.path
	}
	return paths
}
