package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/contre95/shadowbox/src/infra/httpx"
)

const (
	lastfmAPIURL   = "https://ws.audioscrobbler.com/2.0/"
	lastfmNotFound = 6
)

type lastfmTag struct {
	Name string `json:"name"`
}

// lastfmTags accepts both a list and a single object, the API returns
// either depending on the tag count.
type lastfmTags []lastfmTag

func (t *lastfmTags) UnmarshalJSON(data []byte) error {
	var list []lastfmTag
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var single lastfmTag
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*t = lastfmTags{single}
	return nil
}

type lastfmTopTags struct {
	Tag lastfmTags `json:"tag"`
}

type lastfmTrack struct {
	Name    string        `json:"name"`
	Artist  lastfmTag     `json:"artist"`
	TopTags lastfmTopTags `json:"toptags"`
}

type lastfmTrackInfo struct {
	Track   *lastfmTrack `json:"track"`
	Error   int          `json:"error"`
	Message string       `json:"message"`
}

type lastfmArtistTags struct {
	TopTags lastfmTopTags `json:"toptags"`
	Error   int           `json:"error"`
	Message string        `json:"message"`
}

// LastFMProvider implements tagging.GenreProvider with Last.fm tag clouds.
type LastFMProvider struct {
	enabled bool
	apiKey  string
	client  *http.Client
	baseURL string
}

// NewLastFMProvider creates a new Last.fm provider. It stays disabled
// without an API key.
func NewLastFMProvider(enabled bool, apiKey string, client *http.Client) *LastFMProvider {
	if client == nil {
		client = httpx.NewClient()
	}
	return &LastFMProvider{
		enabled: enabled && apiKey != "",
		apiKey:  apiKey,
		client:  client,
		baseURL: lastfmAPIURL,
	}
}

// WithBaseURL points the provider at another API, used by tests.
func (p *LastFMProvider) WithBaseURL(baseURL string) *LastFMProvider {
	p.baseURL = baseURL
	return p
}

// TopTags returns the track tags, or the artist tags when the track has
// none.
func (p *LastFMProvider) TopTags(ctx context.Context, artist, title string) ([]string, error) {
	var info lastfmTrackInfo
	err := p.call(ctx, url.Values{
		"method":      {"track.getInfo"},
		"artist":      {artist},
		"track":       {title},
		"autocorrect": {"1"},
	}, &info)
	if err != nil {
		return nil, err
	}
	if info.Error != 0 && info.Error != lastfmNotFound {
		return nil, fmt.Errorf("lastfm error %d: %s", info.Error, info.Message)
	}

	artistName := artist
	if info.Track != nil {
		if tags := tagNames(info.Track.TopTags.Tag); len(tags) > 0 {
			return tags, nil
		}
		if info.Track.Artist.Name != "" {
			artistName = info.Track.Artist.Name
		}
	}
	if strings.TrimSpace(artistName) == "" {
		return nil, nil
	}

	var artistTags lastfmArtistTags
	err = p.call(ctx, url.Values{
		"method":      {"artist.getTopTags"},
		"artist":      {artistName},
		"autocorrect": {"1"},
	}, &artistTags)
	if err != nil {
		return nil, err
	}
	if artistTags.Error != 0 && artistTags.Error != lastfmNotFound {
		return nil, fmt.Errorf("lastfm error %d: %s", artistTags.Error, artistTags.Message)
	}
	return tagNames(artistTags.TopTags.Tag), nil
}

func (p *LastFMProvider) call(ctx context.Context, values url.Values, out any) error {
	values.Set("api_key", p.apiKey)
	values.Set("format", "json")
	method := values.Get("method")
	if err := httpx.GetJSON(ctx, p.client, p.baseURL+"?"+values.Encode(), nil, out); err != nil {
		return fmt.Errorf("lastfm %s failed: %w", method, err)
	}
	return nil
}

func tagNames(tags lastfmTags) []string {
	var names []string
	for _, t := range tags {
		if name := strings.TrimSpace(t.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (p *LastFMProvider) Name() string    { return "lastfm" }
func (p *LastFMProvider) IsEnabled() bool { return p.enabled }
