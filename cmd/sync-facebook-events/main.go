package main

import (
	"context"
	"fmt"

	"github.com/saborconflow/studio-backend/internal/app"
)

func main() {
	app.RunCommand("sync-facebook-events", func(ctx context.Context, a *app.App) error {
		res, err := a.Services.Event.Sync(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Facebook events: %d fetched, %d upserted, %d deactivated\n",
			res.Fetched, res.Upserted, res.Deactivated)
		return nil
	})
}
