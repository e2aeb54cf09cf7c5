package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/saborconflow/studio-backend/internal/app"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

func main() {
	var date string
	flag.StringVar(&date, "date", "", "Class date to remind, YYYY-MM-DD (default tomorrow)")
	flag.Parse()

	app.RunCommand("send-booking-reminders", func(ctx context.Context, a *app.App) error {
		day := service.Tomorrow()
		if date != "" {
			d, err := time.ParseInLocation(validator.DateLayout, date, validator.Location())
			if err != nil {
				return fmt.Errorf("invalid -date %q: %w", date, err)
			}
			day = d
		}

		res, err := a.Services.Booking.SendReminders(ctx, day)
		if err != nil {
			return err
		}
		fmt.Printf("Reminders for %s: %d due, %d sent, %d failed\n", res.Date, res.Due, res.Sent, res.Failed)
		return nil
	})
}
