package downloading

import (
	"context"

	"github.com/contre95/shadowbox/src/music"
)

// TagReader reads the identity already embedded in a file. A file without
// tags returns nil and no error.
type TagReader interface {
	ReadTags(ctx context.Context, path string) (*music.TrackIdentity, error)
}

// TagWriter defines the interface for writing metadata tags to music files.
type TagWriter interface {
	WriteTags(ctx context.Context, path string, identity music.TrackIdentity, cover []byte) error
	Supports(ext string) bool
}
