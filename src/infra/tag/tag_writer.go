package tag

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/contre95/shadowbox/src/infra/artwork"
	"github.com/contre95/shadowbox/src/music"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
)

// ErrUnsupportedFormat is returned for extensions without a writer.
var ErrUnsupportedFormat = errors.New("unsupported format")

// DefaultFFmpeg is the binary used for container formats without a Go tagger.
const DefaultFFmpeg = "ffmpeg"

type formatWriter func(ctx context.Context, path string, identity music.TrackIdentity, cover []byte) error

// TagWriter writes a TrackIdentity into audio files. The writer is picked
// by file extension.
type TagWriter struct {
	ffmpeg  string
	writers map[string]formatWriter
}

// NewTagWriter creates a new TagWriter.
func NewTagWriter(ffmpeg string) *TagWriter {
	if strings.TrimSpace(ffmpeg) == "" {
		ffmpeg = DefaultFFmpeg
	}
	t := &TagWriter{ffmpeg: ffmpeg}
	t.writers = map[string]formatWriter{
		".mp3":  t.tagMP3,
		".flac": t.tagFLAC,
		".opus": t.tagOgg,
		".ogg":  t.tagOgg,
		".m4a":  t.tagMP4,
		".mp4":  t.tagMP4,
		".aac":  t.tagMP4,
	}
	return t
}

// Supports reports whether files with ext can be tagged.
func (t *TagWriter) Supports(ext string) bool {
	_, ok := t.writers[strings.ToLower(ext)]
	return ok
}

// WriteTags writes identity and the optional cover into the file at path.
// Empty optional fields are skipped.
func (t *TagWriter) WriteTags(ctx context.Context, path string, identity music.TrackIdentity, cover []byte) error {
	ext := strings.ToLower(filepath.Ext(path))
	write, ok := t.writers[ext]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err := write(ctx, path, identity, cover); err != nil {
		return err
	}
	slog.Info("Tagged file", "path", path, "title", identity.Title, "cover", len(cover) > 0)
	return nil
}

// tagMP3 handles MP3 tagging using id3v2.
func (t *TagWriter) tagMP3(ctx context.Context, filePath string, identity music.TrackIdentity, cover []byte) error {
	tag, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open MP3 file for tagging: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(identity.Title)
	tag.SetArtist(identity.Artist)
	setFrame(tag, "TPE2", identity.AlbumArtist)
	setFrame(tag, "TALB", identity.Album)
	setFrame(tag, "TDRC", identity.ReleaseDate)
	setFrame(tag, "TCON", identity.Genre)
	setFrame(tag, "TRCK", position(identity.TrackNumber, identity.TotalTracks))
	setFrame(tag, "TPOS", position(identity.DiscNumber, identity.TotalDiscs))

	if identity.Lyrics != "" {
		tag.DeleteFrames(tag.CommonID("Unsynchronised lyrics/text transcription"))
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          id3v2.EncodingUTF8,
			Language:          "eng",
			ContentDescriptor: "",
			Lyrics:            identity.Lyrics,
		})
	}

	if len(cover) > 0 {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    artwork.MimeType(cover),
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     cover,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save MP3 tags: %w", err)
	}
	return nil
}

func setFrame(tag *id3v2.Tag, id, value string) {
	if value == "" {
		return
	}
	tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
}

// position renders "n/total", "n" or "" for track and disc frames.
func position(n, total int) string {
	switch {
	case n <= 0:
		return ""
	case total > 0:
		return fmt.Sprintf("%d/%d", n, total)
	default:
		return strconv.Itoa(n)
	}
}

// vorbisFields maps an identity to Vorbis comment fields, skipping empty ones.
func vorbisFields(identity music.TrackIdentity) [][2]string {
	fields := [][2]string{
		{flacvorbis.FIELD_TITLE, identity.Title},
		{flacvorbis.FIELD_ARTIST, identity.Artist},
		{"ALBUMARTIST", identity.AlbumArtist},
		{flacvorbis.FIELD_ALBUM, identity.Album},
		{flacvorbis.FIELD_DATE, identity.ReleaseDate},
		{flacvorbis.FIELD_GENRE, identity.Genre},
		{"LYRICS", identity.Lyrics},
	}
	if identity.TrackNumber > 0 {
		fields = append(fields, [2]string{flacvorbis.FIELD_TRACKNUMBER, strconv.Itoa(identity.TrackNumber)})
	}
	if identity.TotalTracks > 0 {
		fields = append(fields, [2]string{"TRACKTOTAL", strconv.Itoa(identity.TotalTracks)})
	}
	if identity.DiscNumber > 0 {
		fields = append(fields, [2]string{"DISCNUMBER", strconv.Itoa(identity.DiscNumber)})
	}
	if identity.TotalDiscs > 0 {
		fields = append(fields, [2]string{"DISCTOTAL", strconv.Itoa(identity.TotalDiscs)})
	}

	kept := fields[:0]
	for _, f := range fields {
		if f[1] != "" {
			kept = append(kept, f)
		}
	}
	return kept
}

// tagFLAC handles FLAC tagging using Vorbis comments.
func (t *TagWriter) tagFLAC(ctx context.Context, filePath string, identity music.TrackIdentity, cover []byte) error {
	f, err := goflac.ParseFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	fields := vorbisFields(identity)
	replaced := make(map[string]bool, len(fields))
	for _, kv := range fields {
		replaced[kv[0]] = true
	}

	comment := flacvorbis.New()
	meta := make([]*goflac.MetaDataBlock, 0, len(f.Meta)+1)
	for _, block := range f.Meta {
		switch block.Type {
		case goflac.VorbisComment:
			existing, err := flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				return fmt.Errorf("failed to parse Vorbis comment: %w", err)
			}
			for _, c := range existing.Comments {
				key, _, _ := strings.Cut(c, "=")
				if !replaced[strings.ToUpper(key)] {
					comment.Comments = append(comment.Comments, c)
				}
			}
		case goflac.Picture:
			if len(cover) == 0 {
				meta = append(meta, block)
			}
		default:
			meta = append(meta, block)
		}
	}
	for _, kv := range fields {
		if err := comment.Add(kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to add %s: %w", kv[0], err)
		}
	}
	commentBlock := comment.Marshal()
	meta = append(meta, &commentBlock)

	if pictureBlock, ok := coverBlock(cover); ok {
		meta = append(meta, &pictureBlock)
	}
	f.Meta = meta

	if err := f.Save(filePath); err != nil {
		return fmt.Errorf("failed to save FLAC file: %w", err)
	}
	return nil
}

// coverBlock builds a FLAC PICTURE block. Images flacpicture cannot read
// are skipped with a warning.
func coverBlock(cover []byte) (goflac.MetaDataBlock, bool) {
	if len(cover) == 0 {
		return goflac.MetaDataBlock{}, false
	}
	pic, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Front cover", cover, artwork.MimeType(cover))
	if err != nil {
		slog.Warn("Skipping cover, unsupported image", "error", err)
		return goflac.MetaDataBlock{}, false
	}
	return pic.Marshal(), true
}

// ffmpegFields returns the generic ffmpeg metadata keys for identity.
func ffmpegFields(identity music.TrackIdentity) [][2]string {
	fields := [][2]string{
		{"title", identity.Title},
		{"artist", identity.Artist},
		{"album_artist", identity.AlbumArtist},
		{"album", identity.Album},
		{"date", identity.ReleaseDate},
		{"genre", identity.Genre},
		{"track", position(identity.TrackNumber, identity.TotalTracks)},
		{"disc", position(identity.DiscNumber, identity.TotalDiscs)},
		{"lyrics", identity.Lyrics},
	}
	kept := fields[:0]
	for _, f := range fields {
		if f[1] != "" {
			kept = append(kept, f)
		}
	}
	return kept
}

// tagOgg rewrites the Ogg container with ffmpeg. Covers are stored as a
// base64 METADATA_BLOCK_PICTURE comment, the way Vorbis players expect.
func (t *TagWriter) tagOgg(ctx context.Context, filePath string, identity music.TrackIdentity, cover []byte) error {
	fields := ffmpegFields(identity)
	if block, ok := coverBlock(cover); ok {
		fields = append(fields, [2]string{"METADATA_BLOCK_PICTURE", base64.StdEncoding.EncodeToString(block.Data)})
	}
	return t.remux(ctx, filePath, fields, nil,
		"-map", "0:a", "-c", "copy", "-map_metadata", "1", "-map_metadata:s:a", "1:g")
}

// tagMP4 rewrites MP4 audio with ffmpeg, adding the cover as an attached picture.
func (t *TagWriter) tagMP4(ctx context.Context, filePath string, identity music.TrackIdentity, cover []byte) error {
	if len(cover) == 0 {
		return t.remux(ctx, filePath, ffmpegFields(identity), nil,
			"-map", "0:a", "-c", "copy", "-map_metadata", "1")
	}
	return t.remux(ctx, filePath, ffmpegFields(identity), cover,
		"-map", "0:a", "-map", "2:v", "-c", "copy", "-disposition:v:0", "attached_pic", "-map_metadata", "1")
}

// remux runs ffmpeg with the file as input 0, an ffmetadata file as input 1
// and, when given, the cover as input 2. The result replaces the original.
func (t *TagWriter) remux(ctx context.Context, filePath string, fields [][2]string, cover []byte, mapping ...string) error {
	ffmpeg, err := exec.LookPath(t.ffmpeg)
	if err != nil {
		return fmt.Errorf("ffmpeg not found, needed to tag %s: %w", filepath.Ext(filePath), err)
	}

	dir, base := filepath.Split(filePath)
	metaPath := filepath.Join(dir, "."+base+".ffmeta")
	if err := os.WriteFile(metaPath, []byte(ffmetadata(fields)), 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	defer os.Remove(metaPath)

	args := []string{"-hide_banner", "-loglevel", "error", "-y", "-i", filePath, "-f", "ffmetadata", "-i", metaPath}
	if len(cover) > 0 {
		coverPath := filepath.Join(dir, "."+base+".cover")
		if err := os.WriteFile(coverPath, cover, 0644); err != nil {
			return fmt.Errorf("failed to write cover file: %w", err)
		}
		defer os.Remove(coverPath)
		args = append(args, "-i", coverPath)
	}
	tmpPath := filepath.Join(dir, ".tagged-"+base)
	args = append(args, mapping...)
	args = append(args, tmpPath)

	out, err := exec.CommandContext(ctx, ffmpeg, args...).CombinedOutput()
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ffmpeg tagging failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace tagged file: %w", err)
	}
	return nil
}

// ffmetadata renders fields in ffmpeg's FFMETADATA1 format.
func ffmetadata(fields [][2]string) string {
	var b strings.Builder
	b.WriteString(";FFMETADATA1\n")
	for _, f := range fields {
		b.WriteString(escapeFFMeta(f[0]))
		b.WriteByte('=')
		b.WriteString(escapeFFMeta(f[1]))
		b.WriteByte('\n')
	}
	return b.String()
}

var ffmetaEscaper = strings.NewReplacer(`\`, `\\`, `=`, `\=`, `;`, `\;`, `#`, `\#`, "\n", "\\\n")

func escapeFFMeta(s string) string {
	return ffmetaEscaper.Replace(strings.ReplaceAll(s, "\r\n", "\n"))
}
