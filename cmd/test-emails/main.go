package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/saborconflow/studio-backend/internal/app"
)

func main() {
	var to string
	flag.StringVar(&to, "to", "", "Recipient of the sample emails (required)")
	flag.Parse()

	app.RunCommand("test-emails", func(ctx context.Context, a *app.App) error {
		if to == "" {
			return errors.New("-to is required")
		}
		fmt.Printf("Sending every email template to %s via %s...\n", to, a.Config.Email.Backend)
		if err := a.Notifier.SendTestEmail(ctx, to); err != nil {
			return err
		}
		fmt.Println("All test emails sent.")
		return nil
	})
}
