package music

import (
	"path/filepath"
	"strings"
	"time"
)

// DownloadStatus is the terminal state of one acquisition.
type DownloadStatus int

const (
	StatusSuccess DownloadStatus = iota
	StatusRetryableFailure
	StatusFatalFailure
)

func (s DownloadStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusRetryableFailure:
		return "retryable_failure"
	default:
		return "fatal_failure"
	}
}

// DownloadOutcome carries the result of an acquisition. LocalPath is set
// only when Status is StatusSuccess.
type DownloadOutcome struct {
	Status      DownloadStatus
	LocalPath   string
	LocalPaths  []string // every file of a playlist or album, in ordinal order
	Strategy    string   // strategy that produced the files
	Diagnostics []string
	Hints       []string
}

// Succeeded returns a success outcome for the given files.
func Succeeded(strategy string, paths []string, diagnostics []string) DownloadOutcome {
	out := DownloadOutcome{Status: StatusSuccess, Strategy: strategy, LocalPaths: paths, Diagnostics: diagnostics}
	if len(paths) > 0 {
		out.LocalPath = paths[0]
	}
	return out
}

// Failed returns a failure outcome; it never carries a path.
func Failed(status DownloadStatus, diagnostics, hints []string) DownloadOutcome {
	if status == StatusSuccess {
		status = StatusFatalFailure
	}
	return DownloadOutcome{Status: status, Diagnostics: diagnostics, Hints: hints}
}

// OK reports whether the outcome is a success with a file.
func (o DownloadOutcome) OK() bool {
	return o.Status == StatusSuccess && o.LocalPath != ""
}

// Files returns every downloaded file.
func (o DownloadOutcome) Files() []string {
	if len(o.LocalPaths) > 0 {
		return o.LocalPaths
	}
	if o.LocalPath != "" {
		return []string{o.LocalPath}
	}
	return nil
}

// PlacementResult is the computed destination of a track inside the library.
type PlacementResult struct {
	ArtistDir string
	AlbumDir  string
	FinalPath string
}

// HistoryEntry is one recorded pipeline run for a single file or input.
type HistoryEntry struct {
	ID        string
	Input     string
	Status    string
	Title     string
	Artist    string
	Album     string
	Path      string
	Strategy  string
	CreatedAt time.Time
}

// AudioExtensions are the containers the pipeline accepts.
var AudioExtensions = map[string]bool{
	".opus": true,
	".ogg":  true,
	".mp3":  true,
	".m4a":  true,
	".mp4":  true,
	".aac":  true,
	".flac": true,
	".wav":  true,
	".webm": true,
}

// IsAudioFile reports whether the path has a supported audio extension.
func IsAudioFile(path string) bool {
	return AudioExtensions[strings.ToLower(filepath.Ext(path))]
}
