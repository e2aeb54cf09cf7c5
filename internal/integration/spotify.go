package integration

import (
	"context"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
)

const (
	spotifyBaseURL  = "https://api.spotify.com/v1"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// SpotifyPlaylistInfo is the subset of the playlist object the site displays.
type SpotifyPlaylistInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Images      []struct {
		URL string `json:"url"`
	} `json:"images"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

// ImageURL returns the largest cover image, Spotify lists them widest first.
func (p *SpotifyPlaylistInfo) ImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// SpotifyEmbedURL returns the embeddable player URL for a playlist id.
func SpotifyEmbedURL(id string) string {
	return "https://open.spotify.com/embed/playlist/" + url.PathEscape(id)
}

// SpotifyAPI looks up playlists with an app-only client-credentials token.
type SpotifyAPI struct {
	cfg     config.SpotifyConfig
	baseURL string
	http    *http.Client
	cache   *cache.Cache
}

func NewSpotifyAPI(cfg config.SpotifyConfig, c *cache.Cache) *SpotifyAPI {
	return newSpotifyAPI(cfg, c, spotifyBaseURL, spotifyTokenURL)
}

func newSpotifyAPI(cfg config.SpotifyConfig, c *cache.Cache, baseURL, tokenURL string) *SpotifyAPI {
	api := &SpotifyAPI{cfg: cfg, baseURL: baseURL, http: newHTTPClient(), cache: c}
	if cfg.IsConfigured() {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, api.http)
		api.http = cc.Client(ctx)
		api.http.Timeout = defaultTimeout
	}
	return api
}

func (a *SpotifyAPI) IsConfigured() bool {
	return a.cfg.IsConfigured()
}

// Playlist fetches one playlist, memoized for CacheTTL.SpotifyAPI.
func (a *SpotifyAPI) Playlist(ctx context.Context, id string) (*SpotifyPlaylistInfo, error) {
	if !a.IsConfigured() {
		return nil, ErrNotConfigured
	}
	return cache.Remember(ctx, a.cache, config.CacheKey.SpotifyPlaylistAPIKey(id), config.CacheTTL.SpotifyAPI,
		func(ctx context.Context) (*SpotifyPlaylistInfo, error) {
			u := a.baseURL + "/playlists/" + url.PathEscape(id) +
				"?fields=" + url.QueryEscape("id,name,description,images,tracks(total),external_urls")
			out := &SpotifyPlaylistInfo{}
			if err := getJSON(ctx, a.http, "spotify", u, "", out); err != nil {
				return nil, err
			}
			return out, nil
		})
}
