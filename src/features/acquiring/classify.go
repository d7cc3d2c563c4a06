package acquiring

import (
	"strings"

	"github.com/contre95/shadowbox/src/music"
)

// Class is the failure class of one attempt.
type Class int

const (
	ClassUnknown Class = iota
	ClassFatal
	ClassRetryable
)

func (c Class) String() string {
	switch c {
	case ClassFatal:
		return "fatal"
	case ClassRetryable:
		return "retryable"
	default:
		return "unknown"
	}
}

type reason int

const (
	reasonUnrecognized reason = iota
	reasonUnavailable
	reasonTransient
	reasonDependency
)

var unavailableMarkers = []string{
	"video unavailable",
	"this video is unavailable",
	"this video is no longer available",
	"private video",
	"this video is private",
	"has been removed",
	"video has been removed",
	"account associated with this video has been terminated",
	"available in your country",
	"blocked it in your country",
	"geo restricted",
	"geo-restricted",
	"copyright claim",
	"copyright grounds",
	"members-only content",
	"this track is not available",
	"this album is not available",
}

var transientMarkers = []string{
	"http error 429",
	"too many requests",
	"rate limit",
	"timed out",
	"timeout",
	"temporary failure in name resolution",
	"name or service not known",
	"no address associated with hostname",
	"connection reset",
	"connection refused",
	"network is unreachable",
	"remote end closed connection",
	"http error 500",
	"http error 502",
	"http error 503",
	"http error 504",
	"unable to download webpage",
	"incompleteread",
}

type dependency struct {
	marker string
	hint   string
}

var dependencyMarkers = []dependency{
	{"ffprobe and ffmpeg not found", "Install ffmpeg, it is needed to extract and convert audio"},
	{"ffmpeg not found", "Install ffmpeg, it is needed to extract and convert audio"},
	{"aria2c: not found", "Install aria2 to enable accelerated downloads, or ignore this strategy"},
	{"aria2c is not installed", "Install aria2 to enable accelerated downloads, or ignore this strategy"},
	{"\"aria2c\": executable file not found", "Install aria2 to enable accelerated downloads, or ignore this strategy"},
	{"\"yt-dlp\": executable file not found", "Install yt-dlp (pip install -U yt-dlp) and make sure it is on PATH"},
	{"yt-dlp: not found", "Install yt-dlp (pip install -U yt-dlp) and make sure it is on PATH"},
	{"executable file not found", "A required tool is missing from PATH"},
}

func classify(text string) reason {
	lower := strings.ToLower(text)
	for _, m := range unavailableMarkers {
		if strings.Contains(lower, m) {
			return reasonUnavailable
		}
	}
	for _, d := range dependencyMarkers {
		if strings.Contains(lower, d.marker) {
			return reasonDependency
		}
	}
	for _, m := range transientMarkers {
		if strings.Contains(lower, m) {
			return reasonTransient
		}
	}
	return reasonUnrecognized
}

// Classify maps the tool's diagnostic text to a failure class.
func Classify(text string) Class {
	switch classify(text) {
	case reasonUnavailable:
		return ClassFatal
	case reasonTransient, reasonDependency:
		return ClassRetryable
	default:
		return ClassUnknown
	}
}

// DependencyHint returns a remediation hint when the text says a tool is missing.
func DependencyHint(text string) string {
	lower := strings.ToLower(text)
	for _, d := range dependencyMarkers {
		if strings.Contains(lower, d.marker) {
			return d.hint
		}
	}
	return ""
}

// exhaustionHints is shown once every strategy failed.
func exhaustionHints(req music.AcquisitionRequest) []string {
	hints := []string{
		"Update the download tool: yt-dlp -U",
		"Check your internet connection and whether the content is available in your region",
	}
	if req.Kind == music.KindSearchText {
		hints = append(hints, "Retry with a direct URL instead of a search query")
	} else {
		hints = append(hints, "Retry later, or with a different URL for the same track")
	}
	return hints
}
