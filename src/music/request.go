package music

import (
	"net/url"
	"strings"
)

// RequestKind distinguishes search text from direct links.
type RequestKind int

const (
	KindSearchText RequestKind = iota
	KindDirectURL
)

func (k RequestKind) String() string {
	if k == KindDirectURL {
		return "url"
	}
	return "search"
}

// Site is the hosting service of a direct link.
type Site string

const (
	SiteUnknown  Site = "unknown"
	SiteYouTube  Site = "youtube"
	SiteBandcamp Site = "bandcamp"
)

// DefaultAudioFormat is used when a request does not name a format.
const DefaultAudioFormat = "opus"

// AcquisitionRequest is a normalized download request.
type AcquisitionRequest struct {
	Query         string
	Kind          RequestKind
	Site          Site
	IsPlaylist    bool
	DesiredFormat string
}

// NewAcquisitionRequest classifies raw user input.
func NewAcquisitionRequest(input, format string) AcquisitionRequest {
	input = strings.TrimSpace(input)
	format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if format == "" {
		format = DefaultAudioFormat
	}
	req := AcquisitionRequest{
		Query:         input,
		Kind:          KindSearchText,
		Site:          SiteUnknown,
		DesiredFormat: format,
	}

	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return req
	}
	req.Kind = KindDirectURL
	req.Site = siteFromHost(u.Hostname())

	lower := strings.ToLower(input)
	switch req.Site {
	case SiteYouTube:
		req.IsPlaylist = strings.Contains(lower, "playlist") || strings.Contains(lower, "list=")
	case SiteBandcamp:
		req.IsPlaylist = strings.Contains(strings.ToLower(u.Path), "/album/")
	}
	return req
}

func siteFromHost(host string) Site {
	host = strings.ToLower(strings.TrimPrefix(host, "www."))
	switch {
	case host == "bandcamp.com" || strings.HasSuffix(host, ".bandcamp.com"):
		return SiteBandcamp
	case host == "youtu.be" || host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		return SiteYouTube
	default:
		return SiteUnknown
	}
}
