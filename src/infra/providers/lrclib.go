package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/contre95/shadowbox/src/features/tagging"
	"github.com/contre95/shadowbox/src/infra/httpx"
)

const lrclibAPIURL = "https://lrclib.net/api"

// LRCLib API response structures
type lrclibSearchResponse []lrclibSong

type lrclibSong struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Artist       string  `json:"artistName"`
	Album        string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

var timestampRe = regexp.MustCompile(`^\s*(\[\d+:\d+(?:[.:]\d+)?\]\s*)+`)

// LRCLibProvider implements LyricsProvider for LRCLib
type LRCLibProvider struct {
	enabled bool
	client  *http.Client
	baseURL string
}

// NewLRCLibProvider creates a new LRCLib provider
func NewLRCLibProvider(enabled bool, client *http.Client) *LRCLibProvider {
	if client == nil {
		client = httpx.NewClient()
	}
	return &LRCLibProvider{enabled: enabled, client: client, baseURL: lrclibAPIURL}
}

// WithBaseURL points the provider at another host, used by tests.
func (p *LRCLibProvider) WithBaseURL(baseURL string) *LRCLibProvider {
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

func (p *LRCLibProvider) SearchLyrics(ctx context.Context, params tagging.LyricsSearchParams) (string, error) {
	values := url.Values{}
	if params.Title != "" {
		values.Set("track_name", params.Title)
	}
	if params.Artist != "" {
		values.Set("artist_name", params.Artist)
	}
	if params.Album != "" {
		values.Set("album_name", params.Album)
	}
	if params.Title == "" {
		return "", fmt.Errorf("insufficient search parameters")
	}

	var searchResp lrclibSearchResponse
	if err := httpx.GetJSON(ctx, p.client, p.baseURL+"/search?"+values.Encode(), nil, &searchResp); err != nil {
		return "", fmt.Errorf("lrclib search failed: %w", err)
	}

	for _, song := range searchResp {
		if song.Instrumental {
			continue
		}
		if song.PlainLyrics != "" {
			return song.PlainLyrics, nil
		}
		if song.SyncedLyrics != "" {
			return plainFromSynced(song.SyncedLyrics), nil
		}
	}
	return "", fmt.Errorf("no lyrics found")
}

// plainFromSynced drops the [mm:ss.xx] timestamps of LRC lines.
func plainFromSynced(synced string) string {
	lines := strings.Split(synced, "\n")
	plain := make([]string, 0, len(lines))
	for _, line := range lines {
		plain = append(plain, strings.TrimSpace(timestampRe.ReplaceAllString(line, "")))
	}
	return strings.TrimSpace(strings.Join(plain, "\n"))
}

func (p *LRCLibProvider) Name() string    { return "lrclib" }
func (p *LRCLibProvider) IsEnabled() bool { return p.enabled }
