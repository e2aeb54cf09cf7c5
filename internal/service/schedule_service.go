package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/integration"
	"github.com/saborconflow/studio-backend/internal/model"
)

type classStore interface {
	ListActive(ctx context.Context) ([]model.Class, error)
	List(ctx context.Context) ([]model.Class, error)
	ListByInstructor(ctx context.Context, instructorID int) ([]model.Class, error)
	GetByID(ctx context.Context, id int) (*model.Class, error)
	Create(ctx context.Context, c *model.Class) error
	Update(ctx context.Context, c *model.Class) error
	Delete(ctx context.Context, id int) error
}

// ScheduleService serves the weekly class schedule and manages classes.
type ScheduleService struct {
	repo  classStore
	cache *cache.Cache
	log   zerolog.Logger
}

func NewScheduleService(repo classStore, c *cache.Cache, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		repo:  repo,
		cache: c,
		log:   log.With().Str("component", "schedule_service").Logger(),
	}
}

// Weekly returns the active classes grouped by weekday, Monday first.
// Days without classes are included with an empty list.
func (s *ScheduleService) Weekly(ctx context.Context) ([]model.DaySchedule, error) {
	return cache.Remember(ctx, s.cache, config.CacheKey.WeeklyScheduleKey(), config.CacheTTL.Schedule,
		func(ctx context.Context) ([]model.DaySchedule, error) {
			classes, err := s.repo.ListActive(ctx)
			if err != nil {
				return nil, err
			}
			return GroupByWeekday(classes), nil
		})
}

// GroupByWeekday buckets classes into the seven days of the week, Monday first.
func GroupByWeekday(classes []model.Class) []model.DaySchedule {
	days := make([]model.DaySchedule, 7)
	for i := range days {
		wd := time.Weekday((i + 1) % 7)
		days[i] = model.DaySchedule{DayOfWeek: int(wd), DayName: wd.String(), Classes: []model.Class{}}
	}
	for _, c := range classes {
		idx := (c.DayOfWeek + 6) % 7
		days[idx].Classes = append(days[idx].Classes, c)
	}
	return days
}

func (s *ScheduleService) List(ctx context.Context) ([]model.Class, error) {
	return s.repo.List(ctx)
}

func (s *ScheduleService) ListActive(ctx context.Context) ([]model.Class, error) {
	return s.repo.ListActive(ctx)
}

func (s *ScheduleService) ByInstructor(ctx context.Context, instructorID int) ([]model.Class, error) {
	return s.repo.ListByInstructor(ctx, instructorID)
}

func (s *ScheduleService) GetByID(ctx context.Context, id int) (*model.Class, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds a class. End time must be after start time.
func (s *ScheduleService) Create(ctx context.Context, req model.ClassRequest) (*model.Class, error) {
	c, err := classFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.cache.Invalidate().Schedule(ctx)
	return s.repo.GetByID(ctx, c.ID)
}

func (s *ScheduleService) Update(ctx context.Context, id int, req model.ClassRequest) (*model.Class, error) {
	c, err := classFromRequest(req)
	if err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.cache.Invalidate().Schedule(ctx)
	return s.repo.GetByID(ctx, id)
}

func (s *ScheduleService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate().Schedule(ctx)
	return nil
}

// ErrInvalidTimeRange is returned when a class ends before it starts.
var ErrInvalidTimeRange = &FieldError{Field: "end_time", Message: "end_time must be after start_time"}

func classFromRequest(req model.ClassRequest) (*model.Class, error) {
	// HH:MM strings compare in time order.
	if req.EndTime <= req.StartTime {
		return nil, ErrInvalidTimeRange
	}
	c := &model.Class{
		Name:         strings.TrimSpace(req.Name),
		Slug:         req.Slug,
		ClassType:    integration.NormalizeClassType(req.ClassType),
		Level:        req.Level,
		Description:  req.Description,
		InstructorID: req.InstructorID,
		DayOfWeek:    *req.DayOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Location:     req.Location,
		Capacity:     req.Capacity,
		PriceCents:   req.PriceCents,
		IsActive:     true,
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	return c, nil
}
