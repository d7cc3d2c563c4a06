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

const tekstowoURL = "https://www.tekstowo.pl"

// TekstowoProvider implements tagging.LyricsProvider for tekstowo.pl
type TekstowoProvider struct {
	enabled bool
	client  *http.Client
	baseURL string
}

// NewTekstowoProvider creates a new Tekstowo provider
func NewTekstowoProvider(enabled bool, client *http.Client) *TekstowoProvider {
	if client == nil {
		client = httpx.NewClient()
	}
	return &TekstowoProvider{enabled: enabled, client: client, baseURL: tekstowoURL}
}

// WithBaseURL points the provider at another host, used by tests.
func (p *TekstowoProvider) WithBaseURL(baseURL string) *TekstowoProvider {
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

func (p *TekstowoProvider) SearchLyrics(ctx context.Context, params tagging.LyricsSearchParams) (string, error) {
	if params.Title == "" {
		return "", fmt.Errorf("insufficient search parameters")
	}
	query := strings.TrimSpace(params.Artist + " " + params.Title)

	search, err := p.document(ctx, p.baseURL+"/szukaj,"+url.PathEscape(query)+".html")
	if err != nil {
		return "", fmt.Errorf("failed to search song: %w", err)
	}
	songPath := ""
	search.Find(`a[href*="/piosenka,"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		songPath, _ = s.Attr("href")
		return songPath == ""
	})
	if songPath == "" {
		return "", fmt.Errorf("no songs found in search results")
	}
	if !strings.HasPrefix(songPath, "http") {
		songPath = p.baseURL + songPath
	}

	page, err := p.document(ctx, songPath)
	if err != nil {
		return "", fmt.Errorf("failed to fetch lyrics: %w", err)
	}
	container := page.Find("#songText .inner-text, #songText, div.song-text").First()
	container.Find("br").ReplaceWithHtml("\n")
	lyrics := strings.TrimSpace(container.Text())
	if lyrics == "" {
		return "", fmt.Errorf("lyrics not found in page")
	}
	return lyrics, nil
}

func (p *TekstowoProvider) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := httpx.Do(p.client, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return goquery.NewDocumentFromReader(resp.Body)
}

func (p *TekstowoProvider) Name() string    { return "tekstowo" }
func (p *TekstowoProvider) IsEnabled() bool { return p.enabled }
