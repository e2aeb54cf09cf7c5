package service

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/model"
)

const profileTestimonials = 6

type instructorStore interface {
	List(ctx context.Context, featuredOnly bool) ([]model.Instructor, error)
	GetByID(ctx context.Context, id int) (*model.Instructor, error)
	GetBySlug(ctx context.Context, slug string) (*model.Instructor, error)
	Create(ctx context.Context, i *model.Instructor) error
	Update(ctx context.Context, i *model.Instructor) error
	SetPhoto(ctx context.Context, id int, url string) error
	Delete(ctx context.Context, id int) error
}

// InstructorService serves instructor pages and manages instructor profiles.
type InstructorService struct {
	repo         instructorStore
	schedule     *ScheduleService
	testimonials *TestimonialService
	media        *MediaService
	cache        *cache.Cache
	log          zerolog.Logger
}

func NewInstructorService(
	repo instructorStore,
	schedule *ScheduleService,
	testimonials *TestimonialService,
	media *MediaService,
	c *cache.Cache,
	log zerolog.Logger,
) *InstructorService {
	return &InstructorService{
		repo:         repo,
		schedule:     schedule,
		testimonials: testimonials,
		media:        media,
		cache:        c,
		log:          log.With().Str("component", "instructor_service").Logger(),
	}
}

// List returns every instructor in display order.
func (s *InstructorService) List(ctx context.Context) ([]model.Instructor, error) {
	return cache.Remember(ctx, s.cache, config.CacheKey.InstructorListKey(), config.CacheTTL.Instructors,
		func(ctx context.Context) ([]model.Instructor, error) {
			return s.repo.List(ctx, false)
		})
}

// Featured returns the instructors shown on the home page.
func (s *InstructorService) Featured(ctx context.Context) ([]model.Instructor, error) {
	return s.repo.List(ctx, true)
}

// Profile returns an instructor with their active classes and approved testimonials.
func (s *InstructorService) Profile(ctx context.Context, slug string) (*model.InstructorProfile, error) {
	return cache.Remember(ctx, s.cache, config.CacheKey.InstructorDetailKey(slug), config.CacheTTL.Instructors,
		func(ctx context.Context) (*model.InstructorProfile, error) {
			i, err := s.repo.GetBySlug(ctx, slug)
			if err != nil {
				return nil, err
			}
			classes, err := s.schedule.ByInstructor(ctx, i.ID)
			if err != nil {
				return nil, err
			}
			testimonials, err := s.testimonials.ByInstructor(ctx, i.ID, profileTestimonials)
			if err != nil {
				return nil, err
			}
			return &model.InstructorProfile{Instructor: *i, Classes: classes, Testimonials: testimonials}, nil
		})
}

func (s *InstructorService) GetByID(ctx context.Context, id int) (*model.Instructor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *InstructorService) Create(ctx context.Context, req model.InstructorRequest) (*model.Instructor, error) {
	i := instructorFromRequest(req)
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}
	s.cache.Invalidate().Instructors(ctx)
	return i, nil
}

func (s *InstructorService) Update(ctx context.Context, id int, req model.InstructorRequest) (*model.Instructor, error) {
	i := instructorFromRequest(req)
	i.ID = id
	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}
	s.cache.Invalidate().Instructors(ctx)
	return s.repo.GetByID(ctx, id)
}

// UploadPhoto stores a new profile photo and points the instructor at it.
func (s *InstructorService) UploadPhoto(ctx context.Context, id int, file multipart.File, header *multipart.FileHeader) (*model.Instructor, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	up, err := s.media.SaveImage(ctx, "instructors", file, header)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetPhoto(ctx, id, up.URL); err != nil {
		return nil, err
	}
	s.cache.Invalidate().Instructors(ctx)
	return s.repo.GetByID(ctx, id)
}

// Delete removes an instructor. Their classes and testimonials stay, unassigned.
func (s *InstructorService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate().Instructors(ctx)
	s.cache.Invalidate().Testimonials(ctx)
	return nil
}

func instructorFromRequest(req model.InstructorRequest) *model.Instructor {
	i := &model.Instructor{
		Name:            strings.TrimSpace(req.Name),
		Slug:            req.Slug,
		Bio:             req.Bio,
		PhotoURL:        req.PhotoURL,
		InstagramHandle: strings.TrimPrefix(strings.TrimSpace(req.InstagramHandle), "@"),
		Specialties:     req.Specialties,
		IsFeatured:      req.IsFeatured,
		DisplayOrder:    req.DisplayOrder,
	}
	if i.Slug == "" {
		i.Slug = Slugify(i.Name)
	}
	if i.Specialties == nil {
		i.Specialties = []string{}
	}
	return i
}
