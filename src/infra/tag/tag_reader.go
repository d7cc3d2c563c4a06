package tag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/contre95/shadowbox/src/music"
	"github.com/dhowden/tag"
)

// TagReader reads embedded tags with the dhowden/tag library.
type TagReader struct{}

// NewTagReader creates a new TagReader
func NewTagReader() *TagReader {
	return &TagReader{}
}

// ReadTags returns the identity stored in the file's tags. A file without
// tags yields nil and no error.
func (r *TagReader) ReadTags(ctx context.Context, filePath string) (*music.TrackIdentity, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	tags, err := tag.ReadFrom(file)
	if errors.Is(err, tag.ErrNoTagsFound) {
		slog.Debug("No embedded tags", "path", filePath)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}

	trackNumber, totalTracks := tags.Track()
	discNumber, totalDiscs := tags.Disc()

	identity := &music.TrackIdentity{
		Title:       strings.TrimSpace(tags.Title()),
		Artist:      strings.TrimSpace(tags.Artist()),
		AlbumArtist: strings.TrimSpace(tags.AlbumArtist()),
		Album:       strings.TrimSpace(tags.Album()),
		Genre:       strings.TrimSpace(tags.Genre()),
		TrackNumber: trackNumber,
		TotalTracks: totalTracks,
		DiscNumber:  discNumber,
		TotalDiscs:  totalDiscs,
		Lyrics:      strings.TrimSpace(tags.Lyrics()),
		Source:      music.SourceEmbeddedTag,
	}
	identity.ReleaseDate = releaseDate(tags)
	if identity.Lyrics == "" {
		identity.Lyrics = readLyrics(tags.Raw())
	}
	return identity, nil
}

// releaseDate prefers a full date from the raw frames over the bare year.
func releaseDate(tags tag.Metadata) string {
	for _, field := range []string{"TDRC", "DATE", "date", "TYER", "\xa9day"} {
		if v, ok := tags.Raw()[field].(string); ok && len(strings.TrimSpace(v)) >= 4 {
			v = strings.TrimSpace(v)
			if day, _, found := strings.Cut(v, "T"); found {
				v = day
			}
			return v
		}
	}
	if year := tags.Year(); year > 0 {
		return strconv.Itoa(year)
	}
	return ""
}

// readLyrics looks for lyrics under the field names different taggers use.
func readLyrics(raw map[string]interface{}) string {
	lyricFields := []string{"LYRICS", "UNSYNCEDLYRICS", "lyrics", "USLT", "\xa9lyr"}
	for _, field := range lyricFields {
		switch value := raw[field].(type) {
		case string:
			if value != "" {
				return value
			}
		case []byte:
			if len(value) > 0 {
				return string(value)
			}
		case *tag.Comm:
			if value != nil && value.Text != "" {
				return value.Text
			}
		}
	}
	return ""
}
