package downloading

import (
	"context"

	"github.com/contre95/shadowbox/src/music"
)

// Acquirer downloads a request into a scratch directory.
type Acquirer interface {
	Acquire(ctx context.Context, req music.AcquisitionRequest, scratchDir string) music.DownloadOutcome
}

// Resolver turns what is known about a file into a finished identity.
type Resolver interface {
	Resolve(ctx context.Context, title, artist string, embedded *music.TrackIdentity) music.TrackIdentity
	FindLyrics(ctx context.Context, identity music.TrackIdentity) string
}

// CoverFetcher finds a cover image URL when the catalog supplied none.
type CoverFetcher interface {
	FetchCoverURL(ctx context.Context, title, artist string) (string, error)
}

// ArtworkFetcher downloads and prepares cover art, either for embedding or
// as a file on disk.
type ArtworkFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
	DownloadImage(ctx context.Context, url, dest string) error
}

// Placer computes library destinations and moves files into them.
type Placer interface {
	Place(identity music.TrackIdentity, rootDir, ext string) (music.PlacementResult, error)
	Move(src, dst string) error
	Copy(src, dst string) error
	RemoveEmptyDirectories(dir, root string) error
}

// History records finished items. Optional.
type History interface {
	Record(ctx context.Context, entry music.HistoryEntry) error
}
