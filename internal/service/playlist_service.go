package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/integration"
	"github.com/saborconflow/studio-backend/internal/model"
)

type playlistStore interface {
	List(ctx context.Context, activeOnly bool) ([]model.SpotifyPlaylist, error)
	GetByID(ctx context.Context, id int) (*model.SpotifyPlaylist, error)
	Upsert(ctx context.Context, p *model.SpotifyPlaylist) (bool, error)
	Update(ctx context.Context, p *model.SpotifyPlaylist) error
	Delete(ctx context.Context, id int) error
}

type spotifySource interface {
	IsConfigured() bool
	Playlist(ctx context.Context, id string) (*integration.SpotifyPlaylistInfo, error)
}

// PlaylistService manages the practice playlists embedded on the site.
type PlaylistService struct {
	repo    playlistStore
	spotify spotifySource
	cache   *cache.Cache
	log     zerolog.Logger
}

func NewPlaylistService(repo playlistStore, spotify spotifySource, c *cache.Cache, log zerolog.Logger) *PlaylistService {
	return &PlaylistService{
		repo:    repo,
		spotify: spotify,
		cache:   c,
		log:     log.With().Str("component", "playlist_service").Logger(),
	}
}

// ListActive returns the active playlists in display order.
func (s *PlaylistService) ListActive(ctx context.Context) ([]model.SpotifyPlaylist, error) {
	return cache.Remember(ctx, s.cache, config.CacheKey.PlaylistListKey(), config.CacheTTL.Playlists,
		func(ctx context.Context) ([]model.SpotifyPlaylist, error) {
			return s.repo.List(ctx, true)
		})
}

func (s *PlaylistService) ListAll(ctx context.Context) ([]model.SpotifyPlaylist, error) {
	return s.repo.List(ctx, false)
}

// Save creates or updates the playlist with req.SpotifyID, enriched from Spotify when configured.
func (s *PlaylistService) Save(ctx context.Context, req model.PlaylistRequest) (*model.SpotifyPlaylist, bool, error) {
	p := s.enrich(ctx, playlistFromRequest(req))
	inserted, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, false, err
	}
	s.cache.Invalidate().Playlists(ctx)
	return p, inserted, nil
}

func (s *PlaylistService) Update(ctx context.Context, id int, req model.PlaylistRequest) (*model.SpotifyPlaylist, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := playlistFromRequest(req)
	p.ID = id
	p.ImageURL, p.TrackCount = current.ImageURL, current.TrackCount
	if p.SpotifyID != current.SpotifyID {
		p.ImageURL, p.TrackCount = "", 0
		p = s.enrich(ctx, p)
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.cache.Invalidate().Playlists(ctx)
	return s.repo.GetByID(ctx, id)
}

func (s *PlaylistService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate().Playlists(ctx)
	return nil
}

// LoadSeedFile upserts every playlist listed in a JSON seed file.
func (s *PlaylistService) LoadSeedFile(ctx context.Context, path string) (*model.SyncResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var entries []model.PlaylistRequest
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	result := &model.SyncResult{Fetched: len(entries)}
	for _, e := range entries {
		if strings.TrimSpace(e.SpotifyID) == "" || strings.TrimSpace(e.Title) == "" {
			s.log.Warn().Str("spotify_id", e.SpotifyID).Msg("Skipping incomplete seed entry")
			continue
		}
		if _, _, err := s.Save(ctx, e); err != nil {
			return result, fmt.Errorf("save playlist %s: %w", e.SpotifyID, err)
		}
		result.Upserted++
	}
	s.log.Info().Str("file", path).Int("loaded", result.Upserted).Msg("Spotify playlists loaded")
	return result, nil
}

// Refresh updates cover images and track counts of every playlist from Spotify.
func (s *PlaylistService) Refresh(ctx context.Context) (*model.SyncResult, error) {
	if !s.spotify.IsConfigured() {
		return nil, integration.ErrNotConfigured
	}
	playlists, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}

	result := &model.SyncResult{Fetched: len(playlists)}
	for i := range playlists {
		p := &playlists[i]
		info, err := s.spotify.Playlist(ctx, p.SpotifyID)
		if err != nil {
			s.log.Warn().Err(err).Str("spotify_id", p.SpotifyID).Msg("Spotify lookup failed")
			continue
		}
		p.ImageURL, p.TrackCount = info.ImageURL(), info.Tracks.Total
		if err := s.repo.Update(ctx, p); err != nil {
			return result, err
		}
		result.Upserted++
	}
	s.cache.Invalidate().Playlists(ctx)
	return result, nil
}

// enrich fills cover image and track count from Spotify. Lookup failures keep p as is.
func (s *PlaylistService) enrich(ctx context.Context, p *model.SpotifyPlaylist) *model.SpotifyPlaylist {
	if !s.spotify.IsConfigured() {
		return p
	}
	info, err := s.spotify.Playlist(ctx, p.SpotifyID)
	if err != nil {
		var apiErr *integration.APIError
		if errors.As(err, &apiErr) {
			s.log.Warn().Int("status", apiErr.StatusCode).Str("spotify_id", p.SpotifyID).Msg("Spotify rejected playlist lookup")
		} else {
			s.log.Warn().Err(err).Str("spotify_id", p.SpotifyID).Msg("Spotify lookup failed")
		}
		return p
	}
	p.ImageURL, p.TrackCount = info.ImageURL(), info.Tracks.Total
	return p
}

func playlistFromRequest(req model.PlaylistRequest) *model.SpotifyPlaylist {
	p := &model.SpotifyPlaylist{
		SpotifyID:    strings.TrimSpace(req.SpotifyID),
		ClassType:    integration.NormalizeClassType(req.ClassType),
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
	}
	p.EmbedURL = integration.SpotifyEmbedURL(p.SpotifyID)
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	return p
}
