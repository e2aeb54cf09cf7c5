package main

import (
	"context"
	"fmt"

	"github.com/saborconflow/studio-backend/internal/app"
)

func main() {
	app.RunCommand("optimize-database", func(ctx context.Context, a *app.App) error {
		report, err := a.Services.Maintenance.Optimize(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Analyzed %d tables, pruned %d old metric rows\n", len(report.Analyzed), report.PrunedMetrics)
		for _, t := range report.Tables {
			fmt.Printf("  %-28s %10d rows  %s\n", t.Table, t.RowCount, t.Pretty)
		}
		return nil
	})
}
