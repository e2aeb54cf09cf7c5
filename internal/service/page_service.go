package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/model"
)

const (
	homeTestimonialLimit = 6
	homeEventLimit       = 3
)

var pricingSettingKeys = []string{
	model.SettingPricingDropIn,
	model.SettingPricingPackages,
	model.SettingPricingPrivate,
	model.SettingBusinessHours,
	model.SettingStudioAddress,
}

// PageService assembles the payloads of the aggregate public pages.
type PageService struct {
	testimonials *TestimonialService
	events       *EventService
	instructors  *InstructorService
	schedule     *ScheduleService
	settings     *SettingService
	cache        *cache.Cache
	log          zerolog.Logger
}

func NewPageService(
	testimonials *TestimonialService,
	events *EventService,
	instructors *InstructorService,
	schedule *ScheduleService,
	settings *SettingService,
	c *cache.Cache,
	log zerolog.Logger,
) *PageService {
	return &PageService{
		testimonials: testimonials,
		events:       events,
		instructors:  instructors,
		schedule:     schedule,
		settings:     settings,
		cache:        c,
		log:          log.With().Str("component", "page_service").Logger(),
	}
}

// Home returns featured testimonials, upcoming events, featured instructors and rating stats.
func (s *PageService) Home(ctx context.Context) (*model.HomePage, error) {
	return cache.Remember(ctx, s.cache, config.CacheKey.HomePageKey(), config.CacheTTL.Page,
		func(ctx context.Context) (*model.HomePage, error) {
			featured, err := s.testimonials.Featured(ctx, homeTestimonialLimit)
			if err != nil {
				return nil, err
			}
			events, err := s.events.Upcoming(ctx, homeEventLimit)
			if err != nil {
				return nil, err
			}
			instructors, err := s.instructors.Featured(ctx)
			if err != nil {
				return nil, err
			}
			stats, err := s.testimonials.Stats(ctx)
			if err != nil {
				return nil, err
			}
			return &model.HomePage{
				FeaturedTestimonials: featured,
				UpcomingEvents:       events,
				FeaturedInstructors:  instructors,
				Stats:                stats,
			}, nil
		})
}

// Pricing returns the pricing copy and the active classes.
func (s *PageService) Pricing(ctx context.Context) (*model.PricingPage, error) {
	return cache.Remember(ctx, s.cache, config.CacheKey.PricingPageKey(), config.CacheTTL.Page,
		func(ctx context.Context) (*model.PricingPage, error) {
			all, err := s.settings.GetAllSettings(ctx)
			if err != nil {
				return nil, err
			}
			settings := make(map[string]string, len(pricingSettingKeys))
			for _, k := range pricingSettingKeys {
				settings[k] = all[k]
			}
			classes, err := s.schedule.ListActive(ctx)
			if err != nil {
				return nil, err
			}
			return &model.PricingPage{Settings: settings, Classes: classes}, nil
		})
}
