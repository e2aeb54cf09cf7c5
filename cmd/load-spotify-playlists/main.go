package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/saborconflow/studio-backend/internal/app"
	"github.com/saborconflow/studio-backend/internal/integration"
)

func main() {
	var (
		file    string
		refresh bool
	)
	flag.StringVar(&file, "file", "", "JSON seed file (default SPOTIFY_PLAYLISTS_FILE)")
	flag.BoolVar(&refresh, "refresh", true, "Fetch cover images and track counts from Spotify after loading")
	flag.Parse()

	app.RunCommand("load-spotify-playlists", func(ctx context.Context, a *app.App) error {
		if file == "" {
			file = a.Config.Spotify.SeedFile
		}

		res, err := a.Services.Playlist.LoadSeedFile(ctx, file)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %d of %d playlists from %s\n", res.Upserted, res.Fetched, file)

		if !refresh {
			return nil
		}
		res, err = a.Services.Playlist.Refresh(ctx)
		if errors.Is(err, integration.ErrNotConfigured) {
			fmt.Println("Spotify credentials not set, skipping refresh.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Refreshed %d of %d playlists from Spotify\n", res.Upserted, res.Fetched)
		return nil
	})
}
