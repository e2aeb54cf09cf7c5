package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/integration"
	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/repository"
)

type reviewLinkStore interface {
	Create(ctx context.Context, l *model.ReviewLink) error
	GetByID(ctx context.Context, id int) (*model.ReviewLink, error)
	GetByToken(ctx context.Context, token string) (*model.ReviewLink, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]model.ReviewLink, int, error)
	RecordClick(ctx context.Context, token string) (*model.ReviewLink, error)
	RecordConversion(ctx context.Context, id int) error
	Deactivate(ctx context.Context, id int) error
}

// ReviewLinkService generates and resolves tokenized testimonial links.
type ReviewLinkService struct {
	links   reviewLinkStore
	cache   *cache.Cache
	siteURL string
	now     func() time.Time
	log     zerolog.Logger
}

func NewReviewLinkService(links reviewLinkStore, c *cache.Cache, siteURL string, log zerolog.Logger) *ReviewLinkService {
	return &ReviewLinkService{
		links:   links,
		cache:   c,
		siteURL: siteURL,
		now:     time.Now,
		log:     log.With().Str("component", "review_link_service").Logger(),
	}
}

// NewReviewToken returns a random URL-safe token.
func NewReviewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// LinkURL is the public testimonial form URL for a token.
func (s *ReviewLinkService) LinkURL(token string) string {
	return s.siteURL + "/testimonials/submit?token=" + token
}

// Generate creates a new link for a campaign.
func (s *ReviewLinkService) Generate(ctx context.Context, req model.CreateReviewLinkRequest) (*model.ReviewLink, error) {
	link := &model.ReviewLink{
		Token:        NewReviewToken(),
		CampaignName: strings.TrimSpace(req.CampaignName),
		InstructorID: req.InstructorID,
	}
	if req.ClassType != "" {
		link.ClassType = integration.NormalizeClassType(req.ClassType)
	}
	if req.ExpiresInDays > 0 {
		exp := s.now().AddDate(0, 0, req.ExpiresInDays)
		link.ExpiresAt = &exp
	}

	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}
	link.URL = s.LinkURL(link.Token)
	s.log.Info().Int("id", link.ID).Str("campaign", link.CampaignName).Msg("Review link generated")
	return link, nil
}

// Resolve returns the form prefill for a usable link and records the click.
func (s *ReviewLinkService) Resolve(ctx context.Context, token string) (*model.ReviewLinkPrefill, error) {
	link, err := s.links.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReviewLinkInvalid
	}
	if err != nil {
		return nil, err
	}
	if !link.Usable(s.now()) {
		return nil, ErrReviewLinkInvalid
	}

	if clicked, err := s.links.RecordClick(ctx, token); err != nil {
		s.log.Warn().Err(err).Str("token", token).Msg("Failed to record review link click")
	} else {
		link = clicked
	}
	year, week := s.now().ISOWeek()
	if _, err := s.cache.Incr(ctx, config.CacheKey.ReviewLinkClicksKey(year, week)); err != nil {
		s.log.Warn().Err(err).Msg("Failed to bump weekly click counter")
	}

	return &model.ReviewLinkPrefill{
		Token:          link.Token,
		CampaignName:   link.CampaignName,
		ClassType:      link.ClassType,
		InstructorID:   link.InstructorID,
		InstructorName: link.InstructorName,
	}, nil
}

// Lookup returns a link that can still attribute a submission.
func (s *ReviewLinkService) Lookup(ctx context.Context, token string) (*model.ReviewLink, error) {
	link, err := s.links.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReviewLinkInvalid
	}
	if err != nil {
		return nil, err
	}
	if !link.Usable(s.now()) {
		return nil, ErrReviewLinkInvalid
	}
	return link, nil
}

// RecordConversion credits a submitted testimonial to its link.
func (s *ReviewLinkService) RecordConversion(ctx context.Context, id int) {
	if err := s.links.RecordConversion(ctx, id); err != nil {
		s.log.Warn().Err(err).Int("id", id).Msg("Failed to record review link conversion")
	}
}

// List returns links with their public URL filled in.
func (s *ReviewLinkService) List(ctx context.Context, activeOnly bool, page, perPage int) ([]model.ReviewLink, int, error) {
	_, perPage, offset := normalizePage(page, perPage)
	links, total, err := s.links.List(ctx, activeOnly, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	for i := range links {
		links[i].URL = s.LinkURL(links[i].Token)
	}
	return links, total, nil
}

func (s *ReviewLinkService) Deactivate(ctx context.Context, id int) error {
	return s.links.Deactivate(ctx, id)
}

// WeeklyClicks returns the link opens counted in the ISO week containing t.
func (s *ReviewLinkService) WeeklyClicks(ctx context.Context, t time.Time) int {
	year, week := t.ISOWeek()
	var n int
	if err := s.cache.GetJSON(ctx, config.CacheKey.ReviewLinkClicksKey(year, week), &n); err != nil && !errors.Is(err, cache.ErrMiss) {
		s.log.Warn().Err(err).Msg("Failed to read weekly click counter")
	}
	return n
}
