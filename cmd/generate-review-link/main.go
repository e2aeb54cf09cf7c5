package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/saborconflow/studio-backend/internal/app"
	"github.com/saborconflow/studio-backend/internal/model"
)

func main() {
	var (
		campaign     string
		instructorID int
		classType    string
		expiresDays  int
	)
	flag.StringVar(&campaign, "campaign", "", "Campaign name shown in admin reports (required)")
	flag.IntVar(&instructorID, "instructor", 0, "Instructor ID to prefill on the review form")
	flag.StringVar(&classType, "class-type", "", "Class type to prefill, e.g. salsa_on1")
	flag.IntVar(&expiresDays, "expires-days", 0, "Days until the link expires (0 = never)")
	flag.Parse()

	app.RunCommand("generate-review-link", func(ctx context.Context, a *app.App) error {
		if len(campaign) < 2 {
			return errors.New("-campaign is required (min 2 characters)")
		}
		if expiresDays < 0 || expiresDays > 365 {
			return errors.New("-expires-days must be between 0 and 365")
		}

		req := model.CreateReviewLinkRequest{
			CampaignName:  campaign,
			ClassType:     classType,
			ExpiresInDays: expiresDays,
		}
		if instructorID > 0 {
			if _, err := a.Services.Instructor.GetByID(ctx, instructorID); err != nil {
				return fmt.Errorf("instructor %d: %w", instructorID, err)
			}
			req.InstructorID = &instructorID
		}

		link, err := a.Services.ReviewLink.Generate(ctx, req)
		if err != nil {
			return err
		}

		fmt.Printf("Review link for %q\n", link.CampaignName)
		fmt.Printf("  URL:     %s\n", link.URL)
		fmt.Printf("  Token:   %s\n", link.Token)
		if link.ExpiresAt != nil {
			fmt.Printf("  Expires: %s\n", link.ExpiresAt.Format("2006-01-02 15:04"))
		}
		return nil
	})
}
