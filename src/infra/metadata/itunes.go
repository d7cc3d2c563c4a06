package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/contre95/shadowbox/src/features/tagging"
	"github.com/contre95/shadowbox/src/infra/httpx"
	"github.com/contre95/shadowbox/src/music"
)

const (
	itunesSearchURL = "https://itunes.apple.com/search"
	itunesLimit     = 5
	itunesArtSmall  = "100x100bb"
	itunesArtLarge  = "600x600bb"
)

type itunesResult struct {
	TrackName        string `json:"trackName"`
	ArtistName       string `json:"artistName"`
	CollectionName   string `json:"collectionName"`
	ReleaseDate      string `json:"releaseDate"`
	TrackNumber      int    `json:"trackNumber"`
	TrackCount       int    `json:"trackCount"`
	DiscNumber       int    `json:"discNumber"`
	DiscCount        int    `json:"discCount"`
	PrimaryGenreName string `json:"primaryGenreName"`
	ArtworkURL100    string `json:"artworkUrl100"`
}

type itunesResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []itunesResult `json:"results"`
}

// ITunesProvider searches the public iTunes catalog. It serves both as a
// fallback metadata provider and as the cover art source.
type ITunesProvider struct {
	enabled bool
	client  *http.Client
	baseURL string
}

// NewITunesProvider creates a new iTunes provider. No credentials are needed.
func NewITunesProvider(enabled bool, client *http.Client) *ITunesProvider {
	if client == nil {
		client = httpx.NewClient()
	}
	return &ITunesProvider{enabled: enabled, client: client, baseURL: itunesSearchURL}
}

// WithBaseURL points the provider at another API, used by tests.
func (p *ITunesProvider) WithBaseURL(baseURL string) *ITunesProvider {
	p.baseURL = baseURL
	return p
}

func (p *ITunesProvider) SearchTracks(ctx context.Context, params tagging.SearchParams) ([]music.TrackIdentity, error) {
	results, err := p.search(ctx, strings.TrimSpace(params.Title+" "+params.Artist))
	if err != nil {
		return nil, err
	}
	identities := make([]music.TrackIdentity, 0, len(results))
	for _, r := range results {
		identities = append(identities, music.TrackIdentity{
			Title:       r.TrackName,
			Artist:      r.ArtistName,
			Album:       r.CollectionName,
			ReleaseDate: releaseDay(r.ReleaseDate),
			TrackNumber: r.TrackNumber,
			TotalTracks: r.TrackCount,
			DiscNumber:  r.DiscNumber,
			TotalDiscs:  r.DiscCount,
			Genre:       r.PrimaryGenreName,
			CoverURL:    largeArtwork(r.ArtworkURL100),
			Source:      music.SourceProviderA,
		})
	}
	return identities, nil
}

// FetchCoverURL returns a 600x600 artwork URL for the track, trying title
// and artist, then title, then artist. An empty string means no cover.
func (p *ITunesProvider) FetchCoverURL(ctx context.Context, title, artist string) (string, error) {
	queries := []string{strings.TrimSpace(title + " " + artist), title, artist}
	tried := make(map[string]bool)
	var lastErr error
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" || q == music.UnknownValue || tried[q] {
			continue
		}
		tried[q] = true
		results, err := p.search(ctx, q)
		if err != nil {
			lastErr = err
			continue
		}
		for _, r := range results {
			if r.ArtworkURL100 != "" {
				return largeArtwork(r.ArtworkURL100), nil
			}
		}
	}
	return "", lastErr
}

func (p *ITunesProvider) search(ctx context.Context, term string) ([]itunesResult, error) {
	values := url.Values{}
	values.Set("term", term)
	values.Set("entity", "song")
	values.Set("limit", fmt.Sprint(itunesLimit))

	var resp itunesResponse
	if err := httpx.GetJSON(ctx, p.client, p.baseURL+"?"+values.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("itunes search failed: %w", err)
	}
	return resp.Results, nil
}

func largeArtwork(u string) string {
	return strings.Replace(u, itunesArtSmall, itunesArtLarge, 1)
}

// releaseDay trims an ISO timestamp to its date.
func releaseDay(s string) string {
	day, _, _ := strings.Cut(s, "T")
	return day
}

func (p *ITunesProvider) Name() string    { return "itunes" }
func (p *ITunesProvider) IsEnabled() bool { return p.enabled }
