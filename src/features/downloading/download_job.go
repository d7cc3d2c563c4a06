package downloading

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/contre95/shadowbox/src/features/tagging"
	"github.com/contre95/shadowbox/src/music"
)

const folderCoverName = "cover.jpg"

// processFile resolves, tags and places one audio file. trustTags makes the
// file's embedded tags authoritative; otherwise they only seed the heuristics.
// collection marks playlist and album files, whose names start with an ordinal.
func (s *Service) processFile(ctx context.Context, path string, trustTags, collection bool) TrackResult {
	result := TrackResult{Source: path}
	ext := strings.ToLower(filepath.Ext(path))

	embedded, err := s.ports.TagReader.ReadTags(ctx, path)
	if err != nil {
		slog.Warn("Could not read embedded tags", "path", path, "error", err)
		embedded = nil
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if collection {
		title = tagging.StripOrdinal(title)
	}
	artist := ""
	if embedded != nil {
		if embedded.Title != "" && !trustTags {
			title = embedded.Title
		}
		artist = embedded.Artist
	}
	var seed *music.TrackIdentity
	if trustTags {
		seed = embedded
	}

	identity := s.ports.Resolver.Resolve(ctx, title, artist, seed)
	if s.opts.Lyrics && identity.Lyrics == "" {
		identity.Lyrics = s.ports.Resolver.FindLyrics(ctx, identity)
	}

	cover := s.fetchCover(ctx, &identity)
	if s.ports.TagWriter.Supports(ext) {
		slog.Debug("Tagging file", "path", path, "title", identity.Title)
		if err := s.ports.TagWriter.WriteTags(ctx, path, identity, cover); err != nil {
			slog.Warn("Failed to tag file, placing it untagged", "path", path, "error", err)
		}
	} else {
		slog.Debug("No tag writer for format, placing untagged", "path", path, "ext", ext)
	}

	placement, err := s.ports.Placer.Place(identity, s.opts.LibraryPath, ext)
	if err != nil {
		slog.Error("Failed to place track", "title", identity.Title, "error", err)
		result.Identity = identity
		result.Err = err
		return result
	}
	if err := s.ports.Placer.Move(path, placement.FinalPath); err != nil {
		slog.Error("Failed to move track", "src", path, "dst", placement.FinalPath, "error", err)
		result.Identity = identity
		result.Err = err
		return result
	}
	s.recorder.Placement()
	s.saveFolderCover(ctx, identity, placement.FinalPath)

	slog.Info("Track placed", "title", identity.Title, "artist", identity.Artist, "path", placement.FinalPath)
	result.Identity = identity
	result.Placement = placement
	return result
}

// saveFolderCover writes cover.jpg into the album directory once.
func (s *Service) saveFolderCover(ctx context.Context, identity music.TrackIdentity, trackPath string) {
	if !s.opts.FolderCover || s.ports.Artwork == nil || identity.CoverURL == "" {
		return
	}
	dest := filepath.Join(filepath.Dir(trackPath), folderCoverName)
	if _, err := os.Stat(dest); err == nil {
		return
	}
	if err := s.ports.Artwork.DownloadImage(ctx, identity.CoverURL, dest); err != nil {
		slog.Warn("Failed to save folder cover", "path", dest, "error", err)
	}
}

// fetchCover returns the prepared cover image, or nil. The catalog cover URL
// is preferred, the cover fetcher is the fallback.
func (s *Service) fetchCover(ctx context.Context, identity *music.TrackIdentity) []byte {
	if !s.opts.Artwork || s.ports.Artwork == nil {
		return nil
	}
	if identity.CoverURL == "" && s.ports.Covers != nil {
		url, err := s.ports.Covers.FetchCoverURL(ctx, identity.Title, identity.Artist)
		if err != nil {
			slog.Warn("Cover search failed", "title", identity.Title, "error", err)
		}
		identity.CoverURL = url
	}
	if identity.CoverURL == "" {
		slog.Debug("No cover found", "title", identity.Title)
		return nil
	}
	cover, err := s.ports.Artwork.Fetch(ctx, identity.CoverURL)
	if err != nil {
		slog.Warn("Failed to download cover", "url", identity.CoverURL, "error", err)
		return nil
	}
	return cover
}
