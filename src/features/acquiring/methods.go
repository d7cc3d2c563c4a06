package acquiring

import (
	"context"

	"github.com/contre95/shadowbox/src/music"
)

// Runner invokes the external download tool with the given arguments and
// returns its combined output. A non-nil error means a non-zero exit or a
// failure to start the tool.
type Runner interface {
	Run(ctx context.Context, args []string) (string, error)
}

// Method is the download flow chosen for a request.
type Method int

const (
	MethodSingle Method = iota
	MethodPlaylist
	MethodBandcamp
)

func (m Method) String() string {
	switch m {
	case MethodPlaylist:
		return "playlist"
	case MethodBandcamp:
		return "bandcamp"
	default:
		return "single"
	}
}

// searchPrefix makes the tool resolve free text to its first search hit.
const searchPrefix = "ytsearch1:"

// SelectMethod picks the download flow. Bandcamp links always take the
// Bandcamp flow, whatever else the URL contains.
func SelectMethod(req music.AcquisitionRequest) Method {
	if req.Kind != music.KindDirectURL {
		return MethodSingle
	}
	switch {
	case req.Site == music.SiteBandcamp:
		return MethodBandcamp
	case req.Site == music.SiteYouTube && req.IsPlaylist:
		return MethodPlaylist
	default:
		return MethodSingle
	}
}

// target is what gets passed to the tool as the final argument.
func target(req music.AcquisitionRequest) string {
	if req.Kind == music.KindSearchText {
		return searchPrefix + req.Query
	}
	return req.Query
}

// collectsAll reports whether every produced file belongs to the result,
// rather than only the newest one.
func collectsAll(method Method, req music.AcquisitionRequest) bool {
	return method == MethodPlaylist || (method == MethodBandcamp && req.IsPlaylist)
}
