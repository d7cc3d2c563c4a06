package downloading

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/contre95/shadowbox/src/features/config"
	"github.com/contre95/shadowbox/src/features/metrics"
	"github.com/contre95/shadowbox/src/music"
	"github.com/google/uuid"
)

// Options are the per-run settings of the pipeline.
type Options struct {
	LibraryPath  string
	ScratchPath  string
	AudioFormat  string
	Lyrics       bool
	Artwork      bool
	FolderCover  bool
	KeepOriginal bool
}

// OptionsFromConfig builds Options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		LibraryPath:  cfg.LibraryPath,
		ScratchPath:  cfg.ScratchPath,
		AudioFormat:  cfg.Acquisition.AudioFormat,
		Lyrics:       cfg.Lyrics.Enabled,
		Artwork:      cfg.Artwork.Embedded.Enabled,
		FolderCover:  cfg.Artwork.Folder,
		KeepOriginal: cfg.Watch.KeepOriginal,
	}
}

// Ports are the collaborators of the pipeline. Covers, Artwork and History
// may be nil.
type Ports struct {
	Acquirer  Acquirer
	Resolver  Resolver
	TagReader TagReader
	TagWriter TagWriter
	Covers    CoverFetcher
	Artwork   ArtworkFetcher
	Placer    Placer
	History   History
}

// Service runs the acquire, resolve, tag and place pipeline one item at a time.
type Service struct {
	ports    Ports
	opts     Options
	recorder *metrics.Recorder
	newID    func() string
}

// NewService creates a new downloading service
func NewService(opts Options, ports Ports, recorder *metrics.Recorder) *Service {
	if opts.AudioFormat == "" {
		opts.AudioFormat = music.DefaultAudioFormat
	}
	if opts.ScratchPath == "" {
		opts.ScratchPath = filepath.Join(os.TempDir(), "shadowbox")
	}
	return &Service{
		ports:    ports,
		opts:     opts,
		recorder: recorder,
		newID:    func() string { return uuid.New().String() },
	}
}

// Download acquires input (search text or URL) and places every file it
// produced into the library.
func (s *Service) Download(ctx context.Context, input string) ItemResult {
	start := time.Now()
	req := music.NewAcquisitionRequest(input, s.opts.AudioFormat)
	result := ItemResult{Input: req.Query}

	scratch := s.scratchDir()
	defer s.cleanScratch(scratch)

	outcome := s.ports.Acquirer.Acquire(ctx, req, scratch)
	result.Status = outcome.Status
	result.Strategy = outcome.Strategy
	result.Diagnostics = outcome.Diagnostics
	result.Hints = outcome.Hints
	if !outcome.OK() {
		result.Err = fmt.Errorf("%w: %s", ErrAcquisitionFailed, outcome.Status)
		slog.Error("Download failed", "input", req.Query, "status", outcome.Status, "diagnostics", len(outcome.Diagnostics))
		s.record(ctx, result, TrackResult{})
		s.recorder.Item(false, time.Since(start))
		return result
	}

	// Bandcamp pages carry real album metadata; YouTube tags are the video
	// title and uploader and only serve as hints.
	trustTags := req.Site == music.SiteBandcamp
	collection := req.IsPlaylist || len(outcome.Files()) > 1
	for _, file := range outcome.Files() {
		if ctx.Err() != nil {
			result.Tracks = append(result.Tracks, TrackResult{Source: file, Err: ctx.Err()})
			continue
		}
		track := s.processFile(ctx, file, trustTags, collection)
		result.Tracks = append(result.Tracks, track)
		s.record(ctx, result, track)
	}
	result.settle()
	s.recorder.Item(result.OK(), time.Since(start))
	if len(outcome.Files()) > 1 {
		slog.Info("Collection processed", "input", req.Query, "placed", len(result.Placed()), "files", len(outcome.Files()))
	}
	return result
}

// DownloadBatch downloads inputs sequentially. A failed input never undoes
// the ones placed before it.
func (s *Service) DownloadBatch(ctx context.Context, inputs []string) BatchReport {
	var report BatchReport
	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			report.Items = append(report.Items, ItemResult{Input: input, Status: music.StatusFatalFailure, Err: err})
			continue
		}
		slog.Info("Processing batch item", "index", i+1, "total", len(inputs), "input", input)
		report.Items = append(report.Items, s.Download(ctx, input))
	}
	slog.Info(report.Summary())
	return report
}

// ImportFile runs a local audio file through the resolver and places it in
// the library. The original is removed afterwards unless KeepOriginal is set.
func (s *Service) ImportFile(ctx context.Context, path string) ItemResult {
	return s.importFile(ctx, path, false)
}

// importFile imports one file; inAlbum strips the track ordinal from its name.
func (s *Service) importFile(ctx context.Context, path string, inAlbum bool) ItemResult {
	start := time.Now()
	result := ItemResult{Input: path}
	if !music.IsAudioFile(path) {
		result.Status = music.StatusFatalFailure
		result.Err = fmt.Errorf("%w: %s", ErrNotAudio, path)
		return result
	}

	scratch := s.scratchDir()
	defer s.cleanScratch(scratch)

	working := filepath.Join(scratch, filepath.Base(path))
	if err := s.ports.Placer.Copy(path, working); err != nil {
		result.Status = music.StatusFatalFailure
		result.Err = err
		s.recorder.Item(false, time.Since(start))
		return result
	}

	track := s.processFile(ctx, working, true, inAlbum)
	track.Source = path
	result.Tracks = []TrackResult{track}
	result.settle()
	if result.OK() {
		result.Status = music.StatusSuccess
		if !s.opts.KeepOriginal {
			if err := os.Remove(path); err != nil {
				slog.Warn("Could not remove imported file", "path", path, "error", err)
			}
		}
	} else {
		result.Status = music.StatusFatalFailure
	}
	s.record(ctx, result, track)
	s.recorder.Item(result.OK(), time.Since(start))
	return result
}

// ImportDirectory imports every audio file under dir, in path order. Files
// are treated as album tracks, so "03 - Song" names lose their ordinal.
func (s *Service) ImportDirectory(ctx context.Context, dir string) (BatchReport, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && music.IsAudioFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return BatchReport{}, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	slog.Info("Importing directory", "path", dir, "files", len(paths))

	var report BatchReport
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			report.Items = append(report.Items, ItemResult{Input: path, Status: music.StatusFatalFailure, Err: err})
			continue
		}
		item := s.importFile(ctx, path, true)
		report.Items = append(report.Items, item)
		if item.OK() && !s.opts.KeepOriginal {
			if err := s.ports.Placer.RemoveEmptyDirectories(filepath.Dir(path), dir); err != nil {
				slog.Warn("Could not clean up import directory", "path", filepath.Dir(path), "error", err)
			}
		}
	}
	return report, nil
}

func (s *Service) scratchDir() string {
	return filepath.Join(s.opts.ScratchPath, s.newID())
}

func (s *Service) cleanScratch(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("Could not remove scratch directory", "path", dir, "error", err)
	}
}

// record writes one history row per track, or one for a failed input.
func (s *Service) record(ctx context.Context, item ItemResult, track TrackResult) {
	if s.ports.History == nil {
		return
	}
	entry := music.HistoryEntry{
		Input:    item.Input,
		Status:   "success",
		Title:    track.Identity.Title,
		Artist:   track.Identity.Artist,
		Album:    track.Identity.Album,
		Path:     track.Placement.FinalPath,
		Strategy: item.Strategy,
	}
	if item.Err != nil || track.Err != nil || track.Placement.FinalPath == "" {
		entry.Status = "failed"
	}
	if err := s.ports.History.Record(ctx, entry); err != nil {
		slog.Warn("Could not record history", "input", item.Input, "error", err)
	}
}
