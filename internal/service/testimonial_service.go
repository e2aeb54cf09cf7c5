package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/integration"
	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/notify"
)

type testimonialStore interface {
	Create(ctx context.Context, t *model.Testimonial) error
	GetByID(ctx context.Context, id int) (*model.Testimonial, error)
	List(ctx context.Context, f model.TestimonialFilter) ([]model.Testimonial, int, error)
	Featured(ctx context.Context, limit int) ([]model.Testimonial, error)
	ByInstructor(ctx context.Context, instructorID, limit int) ([]model.Testimonial, error)
	Stats(ctx context.Context) (*model.TestimonialStats, error)
	CountByStatus(ctx context.Context) (map[model.TestimonialStatus]int, error)
	SetStatus(ctx context.Context, id int, status model.TestimonialStatus, reason string) (*model.Testimonial, error)
	SetFeatured(ctx context.Context, id int, featured bool) error
	Delete(ctx context.Context, id int) error
	UpsertGoogleReview(ctx context.Context, t *model.Testimonial) (bool, error)
}

type googleReviewSource interface {
	IsConfigured() bool
	Reviews(ctx context.Context) (*integration.GoogleReviews, error)
	WriteReviewURL() string
}

// TestimonialPage is one cached page of approved testimonials.
type TestimonialPage struct {
	Items []model.Testimonial `json:"items"`
	Total int                 `json:"total"`
}

// GoogleReviewSummary is the public Google reviews block.
type GoogleReviewSummary struct {
	AverageRating    float64                    `json:"average_rating"`
	TotalReviewCount int                        `json:"total_review_count"`
	Reviews          []integration.GoogleReview `json:"reviews"`
	WriteReviewURL   string                     `json:"write_review_url,omitempty"`
}

// TestimonialService handles submission, moderation and display of testimonials.
type TestimonialService struct {
	repo     testimonialStore
	links    *ReviewLinkService
	google   googleReviewSource
	notifier *notify.Service
	activity *ActivityService
	cache    *cache.Cache
	log      zerolog.Logger
}

func NewTestimonialService(
	repo testimonialStore,
	links *ReviewLinkService,
	google googleReviewSource,
	notifier *notify.Service,
	activity *ActivityService,
	c *cache.Cache,
	log zerolog.Logger,
) *TestimonialService {
	return &TestimonialService{
		repo:     repo,
		links:    links,
		google:   google,
		notifier: notifier,
		activity: activity,
		cache:    c,
		log:      log.With().Str("component", "testimonial_service").Logger(),
	}
}

// Submit stores a pending testimonial. A review token attributes it to its
// link and fills in the link's instructor when the form left it empty.
func (s *TestimonialService) Submit(ctx context.Context, req model.SubmitTestimonialRequest) (*model.Testimonial, error) {
	t := &model.Testimonial{
		StudentName:  strings.TrimSpace(req.StudentName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		ClassType:    integration.NormalizeClassType(req.ClassType),
		Rating:       req.Rating,
		Content:      strings.TrimSpace(req.Content),
		VideoURL:     req.VideoURL,
		PhotoURL:     req.PhotoURL,
		Status:       model.TestimonialPending,
		InstructorID: req.InstructorID,
	}

	var campaign string
	if req.ReviewToken != "" {
		link, err := s.links.Lookup(ctx, req.ReviewToken)
		if err != nil {
			return nil, err
		}
		t.ReviewLinkID = &link.ID
		if t.InstructorID == nil {
			t.InstructorID = link.InstructorID
		}
		campaign = link.CampaignName
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create testimonial: %w", err)
	}
	if t.ReviewLinkID != nil {
		s.links.RecordConversion(ctx, *t.ReviewLinkID)
	}

	bg := context.WithoutCancel(ctx)
	if err := s.notifier.SendTestimonialSubmitted(bg, t, campaign); err != nil {
		s.log.Warn().Err(err).Int("testimonial_id", t.ID).Msg("Admin notification not sent")
	}
	s.activity.Publish(ctx, model.ActivityTestimonialSubmitted,
		fmt.Sprintf("%s left a %d-star testimonial", t.StudentName, t.Rating), fields{"id": t.ID})

	return t, nil
}

// ListApproved returns one page of approved testimonials for the public site.
func (s *TestimonialService) ListApproved(ctx context.Context, page, perPage, minRating int) (*TestimonialPage, error) {
	page, perPage, offset := normalizePage(page, perPage)
	key := config.CacheKey.ApprovedTestimonialsKey(page, perPage, minRating)
	return cache.Remember(ctx, s.cache, key, config.CacheTTL.Testimonials, func(ctx context.Context) (*TestimonialPage, error) {
		items, total, err := s.repo.List(ctx, model.TestimonialFilter{
			Status:    model.TestimonialApproved,
			MinRating: minRating,
			Limit:     perPage,
			Offset:    offset,
		})
		if err != nil {
			return nil, err
		}
		return &TestimonialPage{Items: publicTestimonials(items), Total: total}, nil
	})
}

// Featured returns the featured testimonials shown on the home page.
func (s *TestimonialService) Featured(ctx context.Context, limit int) ([]model.Testimonial, error) {
	return cache.Remember(ctx, s.cache, config.CacheKey.FeaturedTestimonialsKey(limit), config.CacheTTL.Testimonials,
		func(ctx context.Context) ([]model.Testimonial, error) {
			items, err := s.repo.Featured(ctx, limit)
			if err != nil {
				return nil, err
			}
			return publicTestimonials(items), nil
		})
}

// ByInstructor returns approved testimonials for an instructor profile.
func (s *TestimonialService) ByInstructor(ctx context.Context, instructorID, limit int) ([]model.Testimonial, error) {
	items, err := s.repo.ByInstructor(ctx, instructorID, limit)
	if err != nil {
		return nil, err
	}
	return publicTestimonials(items), nil
}

// Stats returns the average rating and rating distribution of approved testimonials.
func (s *TestimonialService) Stats(ctx context.Context) (*model.TestimonialStats, error) {
	return cache.Remember(ctx, s.cache, config.CacheKey.TestimonialStatsKey(), config.CacheTTL.Testimonials, s.repo.Stats)
}

// CountByStatus returns the moderation queue sizes.
func (s *TestimonialService) CountByStatus(ctx context.Context) (map[model.TestimonialStatus]int, error) {
	return s.repo.CountByStatus(ctx)
}

// List returns testimonials for the admin moderation queue.
func (s *TestimonialService) List(ctx context.Context, f model.TestimonialFilter, page, perPage int) ([]model.Testimonial, int, error) {
	_, f.Limit, f.Offset = normalizePage(page, perPage)
	return s.repo.List(ctx, f)
}

func (s *TestimonialService) GetByID(ctx context.Context, id int) (*model.Testimonial, error) {
	return s.repo.GetByID(ctx, id)
}

// Approve publishes a testimonial and thanks the student by email with a
// link to leave a Google review.
func (s *TestimonialService) Approve(ctx context.Context, id int) (*model.Testimonial, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == model.TestimonialApproved {
		return nil, ErrInvalidTransition
	}

	t, err := s.repo.SetStatus(ctx, id, model.TestimonialApproved, "")
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate().Testimonials(ctx)

	if t.Email != "" && t.GoogleReviewID == nil {
		if err := s.notifier.SendTestimonialApproved(context.WithoutCancel(ctx), t); err != nil {
			s.log.Warn().Err(err).Int("testimonial_id", id).Msg("Approval email not sent")
		}
	}
	s.activity.Publish(ctx, model.ActivityTestimonialModerated, "Testimonial approved", fields{"id": id, "status": t.Status})
	return t, nil
}

// Reject hides a testimonial. Rejecting an approved testimonial unpublishes it.
func (s *TestimonialService) Reject(ctx context.Context, id int, reason string) (*model.Testimonial, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == model.TestimonialRejected {
		return nil, ErrInvalidTransition
	}

	t, err := s.repo.SetStatus(ctx, id, model.TestimonialRejected, strings.TrimSpace(reason))
	if err != nil {
		return nil, err
	}
	if current.Status == model.TestimonialApproved {
		s.cache.Invalidate().Testimonials(ctx)
	}
	s.activity.Publish(ctx, model.ActivityTestimonialModerated, "Testimonial rejected", fields{"id": id, "status": t.Status})
	return t, nil
}

// SetFeatured toggles the home page flag. Only approved testimonials can be featured.
func (s *TestimonialService) SetFeatured(ctx context.Context, id int, featured bool) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if featured && t.Status != model.TestimonialApproved {
		return ErrInvalidTransition
	}
	if err := s.repo.SetFeatured(ctx, id, featured); err != nil {
		return err
	}
	s.cache.Invalidate().Testimonials(ctx)
	return nil
}

func (s *TestimonialService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate().Testimonials(ctx)
	return nil
}

// GoogleReviews returns the public Google reviews block.
func (s *TestimonialService) GoogleReviews(ctx context.Context) (*GoogleReviewSummary, error) {
	out := &GoogleReviewSummary{WriteReviewURL: s.google.WriteReviewURL(), Reviews: []integration.GoogleReview{}}
	reviews, err := s.google.Reviews(ctx)
	if err != nil {
		return nil, err
	}
	out.AverageRating = reviews.AverageRating
	out.TotalReviewCount = reviews.TotalReviewCount
	for _, r := range reviews.Reviews {
		if r.Rating() > 0 {
			out.Reviews = append(out.Reviews, r)
		}
	}
	return out, nil
}

// ImportGoogleReviews mirrors rated Google reviews with a comment as approved testimonials.
func (s *TestimonialService) ImportGoogleReviews(ctx context.Context) (*model.SyncResult, error) {
	if !s.google.IsConfigured() {
		return nil, integration.ErrNotConfigured
	}
	reviews, err := s.google.Reviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch google reviews: %w", err)
	}

	result := &model.SyncResult{Fetched: len(reviews.Reviews)}
	for _, r := range reviews.Reviews {
		if r.Rating() == 0 || strings.TrimSpace(r.Comment) == "" {
			continue
		}
		inserted, err := s.repo.UpsertGoogleReview(ctx, r.ToTestimonial())
		if err != nil {
			return result, fmt.Errorf("store review %s: %w", r.ReviewID, err)
		}
		if inserted {
			result.Upserted++
		}
	}
	s.cache.Invalidate().Testimonials(ctx)
	s.log.Info().Int("fetched", result.Fetched).Int("new", result.Upserted).Msg("Google reviews imported")
	return result, nil
}

func publicTestimonials(items []model.Testimonial) []model.Testimonial {
	out := make([]model.Testimonial, len(items))
	for i, t := range items {
		out[i] = t.Public()
	}
	return out
}
