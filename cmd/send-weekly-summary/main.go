package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/saborconflow/studio-backend/internal/app"
)

func main() {
	var preview bool
	flag.BoolVar(&preview, "preview", false, "Print the summary as JSON instead of emailing it")
	flag.Parse()

	app.RunCommand("send-weekly-summary", func(ctx context.Context, a *app.App) error {
		now := time.Now()

		if preview {
			sum, err := a.Services.Summary.Build(ctx, now)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		}

		sum, err := a.Services.Summary.Send(ctx, now)
		if err != nil {
			return err
		}
		fmt.Printf("Weekly summary for %s to %s sent: %d new testimonials, %d contacts, %d bookings\n",
			sum.From.Format("2006-01-02"), sum.To.Format("2006-01-02"),
			sum.NewTestimonials, sum.NewContacts, sum.NewBookings)
		return nil
	})
}
