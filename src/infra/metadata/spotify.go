package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/contre95/shadowbox/src/features/tagging"
	"github.com/contre95/shadowbox/src/infra/httpx"
	"github.com/contre95/shadowbox/src/music"
)

const (
	spotifyAPIURL   = "https://api.spotify.com/v1"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyLimit    = 5
)

// Spotify API response structures
type spotifyImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
	Images      []spotifyImage  `json:"images"`
	Artists     []spotifyArtist `json:"artists"`
}

type spotifyTrack struct {
	Name        string          `json:"name"`
	Artists     []spotifyArtist `json:"artists"`
	Album       spotifyAlbum    `json:"album"`
	TrackNumber int             `json:"track_number"`
	DiscNumber  int             `json:"disc_number"`
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

type spotifyAlbumResponse struct {
	Genres []string `json:"genres"`
	Tracks struct {
		Items []struct {
			DiscNumber int `json:"disc_number"`
		} `json:"items"`
	} `json:"tracks"`
}

type spotifyToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// SpotifyProvider implements tagging.MetadataProvider with the Spotify Web API.
type SpotifyProvider struct {
	enabled      bool
	clientID     string
	clientSecret string
	client       *http.Client
	apiURL       string
	tokenURL     string

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewSpotifyProvider creates a new Spotify provider. It stays disabled when
// no credentials are given.
func NewSpotifyProvider(enabled bool, clientID, clientSecret string, client *http.Client) *SpotifyProvider {
	if client == nil {
		client = httpx.NewClient()
	}
	return &SpotifyProvider{
		enabled:      enabled && clientID != "" && clientSecret != "",
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       client,
		apiURL:       spotifyAPIURL,
		tokenURL:     spotifyTokenURL,
	}
}

// WithBaseURLs points the provider at another API, used by tests.
func (p *SpotifyProvider) WithBaseURLs(apiURL, tokenURL string) *SpotifyProvider {
	p.apiURL = strings.TrimRight(apiURL, "/")
	p.tokenURL = tokenURL
	return p
}

func (p *SpotifyProvider) SearchTracks(ctx context.Context, params tagging.SearchParams) ([]music.TrackIdentity, error) {
	query := "track:" + params.Title
	if params.Artist != "" {
		query += " artist:" + params.Artist
	}
	values := url.Values{}
	values.Set("q", query)
	values.Set("type", "track")
	values.Set("limit", fmt.Sprint(spotifyLimit))

	var resp spotifySearchResponse
	if err := p.get(ctx, p.apiURL+"/search?"+values.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("spotify search failed: %w", err)
	}

	var results []music.TrackIdentity
	for i, item := range resp.Tracks.Items {
		identity := toIdentity(item)
		if i == 0 {
			// Only the best match gets the extra album lookup.
			p.enrichFromAlbum(ctx, item.Album.ID, &identity)
		}
		results = append(results, identity)
	}
	return results, nil
}

func toIdentity(item spotifyTrack) music.TrackIdentity {
	identity := music.TrackIdentity{
		Title:       item.Name,
		Artist:      joinArtists(item.Artists),
		AlbumArtist: joinArtists(item.Artists),
		Album:       item.Album.Name,
		ReleaseDate: item.Album.ReleaseDate,
		TrackNumber: item.TrackNumber,
		TotalTracks: item.Album.TotalTracks,
		DiscNumber:  item.DiscNumber,
		CoverURL:    largestImage(item.Album.Images),
		Source:      music.SourceProviderA,
	}
	if identity.DiscNumber == 0 {
		identity.DiscNumber = 1
	}
	return identity
}

// enrichFromAlbum adds the album genre and disc count. Failures only cost
// those two fields.
func (p *SpotifyProvider) enrichFromAlbum(ctx context.Context, albumID string, identity *music.TrackIdentity) {
	identity.TotalDiscs = identity.DiscNumber
	if albumID == "" {
		return
	}
	var album spotifyAlbumResponse
	if err := p.get(ctx, p.apiURL+"/albums/"+url.PathEscape(albumID), &album); err != nil {
		return
	}
	for _, t := range album.Tracks.Items {
		if t.DiscNumber > identity.TotalDiscs {
			identity.TotalDiscs = t.DiscNumber
		}
	}
	if len(album.Genres) > 0 {
		identity.Genre = album.Genres[0]
		identity.GenreSource = music.SourceProviderA
	}
}

func (p *SpotifyProvider) get(ctx context.Context, endpoint string, out any) error {
	token, err := p.accessToken(ctx)
	if err != nil {
		return err
	}
	header := http.Header{"Authorization": {"Bearer " + token}}
	err = httpx.GetJSON(ctx, p.client, endpoint, header, out)
	if httpx.IsStatus(err, http.StatusUnauthorized) {
		p.mu.Lock()
		p.token = ""
		p.mu.Unlock()
	}
	return err
}

// accessToken returns a cached client-credentials token, refreshing it a
// minute before it expires.
func (p *SpotifyProvider) accessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != "" && time.Now().Before(p.expires) {
		return p.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(p.clientID, p.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpx.Do(p.client, req)
	if err != nil {
		return "", fmt.Errorf("spotify authentication failed: %w", err)
	}
	defer resp.Body.Close()

	var tok spotifyToken
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("spotify returned an empty token")
	}
	p.token = tok.AccessToken
	p.expires = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)
	return p.token, nil
}

func joinArtists(artists []spotifyArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}

func largestImage(images []spotifyImage) string {
	best, bestArea := "", -1
	for _, img := range images {
		if area := img.Width * img.Height; area > bestArea {
			best, bestArea = img.URL, area
		}
	}
	return best
}

func (p *SpotifyProvider) Name() string    { return "spotify" }
func (p *SpotifyProvider) IsEnabled() bool { return p.enabled }
