package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/contre95/shadowbox/src/features/tagging"
	"github.com/contre95/shadowbox/src/infra/httpx"
)

const (
	geniusAPIURL    = "https://api.genius.com"
	geniusPublicURL = "https://genius.com/api"
	geniusSiteURL   = "https://genius.com"
)

// Genius API response structures
type geniusSearchResponse struct {
	Response struct {
		Hits []geniusHit `json:"hits"`
	} `json:"response"`
}

type geniusHit struct {
	Type   string     `json:"type"`
	Result geniusSong `json:"result"`
}

type geniusSong struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	PrimaryArtist struct {
		Name string `json:"name"`
	} `json:"primary_artist"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

// GeniusProvider implements tagging.LyricsProvider by scraping Genius song
// pages. With an access token it searches the official API, without one it
// uses the public search endpoint.
type GeniusProvider struct {
	enabled bool
	token   string
	client  *http.Client
	apiURL  string
	siteURL string
}

// NewGeniusProvider creates a new Genius provider
func NewGeniusProvider(enabled bool, token string, client *http.Client) *GeniusProvider {
	if client == nil {
		client = httpx.NewClient()
	}
	apiURL := geniusPublicURL
	if token != "" {
		apiURL = geniusAPIURL
	}
	return &GeniusProvider{enabled: enabled, token: token, client: client, apiURL: apiURL, siteURL: geniusSiteURL}
}

// WithBaseURLs points the provider at another host, used by tests.
func (p *GeniusProvider) WithBaseURLs(apiURL, siteURL string) *GeniusProvider {
	p.apiURL = strings.TrimRight(apiURL, "/")
	p.siteURL = strings.TrimRight(siteURL, "/")
	return p
}

func (p *GeniusProvider) SearchLyrics(ctx context.Context, params tagging.LyricsSearchParams) (string, error) {
	query := strings.TrimSpace(params.Title + " " + params.Artist)
	if params.Title == "" {
		return "", fmt.Errorf("insufficient search parameters")
	}

	songURL, err := p.searchSong(ctx, query, params.Artist)
	if err != nil {
		return "", fmt.Errorf("failed to search song: %w", err)
	}

	lyrics, err := p.fetchLyrics(ctx, songURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch lyrics: %w", err)
	}
	return lyrics, nil
}

// searchSong returns the page URL of the best hit, preferring one whose
// primary artist matches.
func (p *GeniusProvider) searchSong(ctx context.Context, query, artist string) (string, error) {
	var header http.Header
	if p.token != "" {
		header = http.Header{"Authorization": {"Bearer " + p.token}}
	}

	var searchResp geniusSearchResponse
	searchURL := p.apiURL + "/search?q=" + url.QueryEscape(query)
	if err := httpx.GetJSON(ctx, p.client, searchURL, header, &searchResp); err != nil {
		return "", err
	}

	var songs []geniusSong
	for _, hit := range searchResp.Response.Hits {
		if hit.Type == "" || hit.Type == "song" {
			songs = append(songs, hit.Result)
		}
	}
	if len(songs) == 0 {
		return "", fmt.Errorf("no songs found")
	}

	best := songs[0]
	for _, s := range songs {
		if artist != "" && strings.EqualFold(s.PrimaryArtist.Name, artist) {
			best = s
			break
		}
	}
	if best.Path != "" {
		return p.siteURL + best.Path, nil
	}
	return best.URL, nil
}

func (p *GeniusProvider) fetchLyrics(ctx context.Context, songURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, songURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := httpx.Do(p.client, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse lyrics page: %w", err)
	}
	return extractLyrics(doc)
}

// extractLyrics joins the text of every lyrics container, keeping line breaks.
func extractLyrics(doc *goquery.Document) (string, error) {
	var blocks []string
	doc.Find(`[data-lyrics-container="true"]`).Each(func(_ int, s *goquery.Selection) {
		s.Find("br").ReplaceWithHtml("\n")
		s.Find(`[data-exclude-from-selection="true"]`).Remove()
		if text := strings.TrimSpace(s.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		return "", fmt.Errorf("no lyrics container on page")
	}

	lines := strings.Split(strings.Join(blocks, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func (p *GeniusProvider) Name() string    { return "genius" }
func (p *GeniusProvider) IsEnabled() bool { return p.enabled }
