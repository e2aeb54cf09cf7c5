package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saborconflow/studio-backend/internal/model"
)

func TestGenerateReviewLink(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	svc := NewReviewLinkService(newFakeReviewLinks(), nil, "https://saborconflow.test", zerolog.Nop())
	svc.now = func() time.Time { return now }

	link, err := svc.Generate(context.Background(), model.CreateReviewLinkRequest{
		CampaignName: " Spring Social ", ClassType: "Salsa", ExpiresInDays: 30,
	})
	require.NoError(t, err)

	assert.Len(t, link.Token, 32)
	assert.Equal(t, "Spring Social", link.CampaignName)
	assert.Equal(t, "https://saborconflow.test/testimonials/submit?token="+link.Token, link.URL)
	require.NotNil(t, link.ExpiresAt)
	assert.Equal(t, now.AddDate(0, 0, 30), *link.ExpiresAt)
}

func TestResolveReviewLinkCountsClicks(t *testing.T) {
	c, _ := newTestCache(t)
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeReviewLinks(model.ReviewLink{
		ID: 1, Token: "abc", CampaignName: "Spring", ClassType: "salsa",
		InstructorID: intPtr(4), InstructorName: "Carlos", IsActive: true,
	})
	svc := NewReviewLinkService(repo, c, "https://saborconflow.test", zerolog.Nop())
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		prefill, err := svc.Resolve(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "Carlos", prefill.InstructorName)
		assert.Equal(t, "salsa", prefill.ClassType)
	}
	assert.Equal(t, 3, repo.byToken["abc"].ClickCount)
	assert.Equal(t, 3, svc.WeeklyClicks(ctx, now))
	assert.Equal(t, 0, svc.WeeklyClicks(ctx, now.AddDate(0, 0, -7)))
}

func TestResolveReviewLinkRejectsUnusable(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	repo := newFakeReviewLinks(
		model.ReviewLink{ID: 1, Token: "expired", IsActive: true, ExpiresAt: &past},
		model.ReviewLink{ID: 2, Token: "inactive", IsActive: false},
	)
	svc := NewReviewLinkService(repo, nil, "https://saborconflow.test", zerolog.Nop())
	svc.now = func() time.Time { return now }

	for _, token := range []string{"expired", "inactive", "missing"} {
		_, err := svc.Resolve(context.Background(), token)
		assert.ErrorIs(t, err, ErrReviewLinkInvalid, token)
	}
	assert.Zero(t, repo.byToken["expired"].ClickCount)
}
