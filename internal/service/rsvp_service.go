package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/notify"
	"github.com/saborconflow/studio-backend/internal/repository"
	"github.com/saborconflow/studio-backend/internal/validator"
)

type rsvpStore interface {
	Create(ctx context.Context, r *model.RSVPSubmission) error
	List(ctx context.Context, classID, eventID, limit, offset int) ([]model.RSVPSubmission, int, error)
}

type eventLookup interface {
	GetByID(ctx context.Context, id int) (*model.FacebookEvent, error)
}

// RSVPService signs people up for a class or a Facebook event.
type RSVPService struct {
	repo     rsvpStore
	classes  classLookup
	events   eventLookup
	notifier *notify.Service
	activity *ActivityService
	now      func() time.Time
	log      zerolog.Logger
}

func NewRSVPService(repo rsvpStore, classes classLookup, events eventLookup, notifier *notify.Service, activity *ActivityService, log zerolog.Logger) *RSVPService {
	return &RSVPService{
		repo:     repo,
		classes:  classes,
		events:   events,
		notifier: notifier,
		activity: activity,
		now:      time.Now,
		log:      log.With().Str("component", "rsvp_service").Logger(),
	}
}

// Submit records an RSVP for exactly one active class or upcoming event.
// Signing up twice with the same email returns ErrDuplicateRSVP.
func (s *RSVPService) Submit(ctx context.Context, req model.RSVPRequest) (*model.RSVPSubmission, error) {
	if (req.ClassID == nil) == (req.FacebookEventID == nil) {
		return nil, ErrRSVPTargetRequired
	}

	var (
		target string
		when   *time.Time
	)
	if req.ClassID != nil {
		class, err := s.classes.GetByID(ctx, *req.ClassID)
		if err != nil {
			return nil, unavailable(err)
		}
		if !class.IsActive {
			return nil, ErrClassUnavailable
		}
		target = class.Name
		next := NextOccurrence(class, s.now())
		when = &next
	} else {
		event, err := s.events.GetByID(ctx, *req.FacebookEventID)
		if err != nil {
			return nil, unavailable(err)
		}
		if !event.IsActive || event.StartTime.Before(s.now()) {
			return nil, ErrClassUnavailable
		}
		target = event.Name
		when = &event.StartTime
	}

	r := &model.RSVPSubmission{
		Name:            strings.TrimSpace(req.Name),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:           strings.TrimSpace(req.Phone),
		ClassID:         req.ClassID,
		FacebookEventID: req.FacebookEventID,
		Guests:          req.Guests,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateRSVP
		}
		return nil, fmt.Errorf("create rsvp: %w", err)
	}

	if err := s.notifier.SendRSVPConfirmation(context.WithoutCancel(ctx), r, target, when); err != nil {
		s.log.Warn().Err(err).Int("rsvp_id", r.ID).Msg("RSVP confirmation not sent")
	}
	s.activity.Publish(ctx, model.ActivityRSVPSubmitted,
		fmt.Sprintf("%s RSVP'd to %s (+%d)", r.Name, target, r.Guests), fields{"id": r.ID})
	return r, nil
}

func (s *RSVPService) List(ctx context.Context, classID, eventID, page, perPage int) ([]model.RSVPSubmission, int, error) {
	_, perPage, offset := normalizePage(page, perPage)
	return s.repo.List(ctx, classID, eventID, perPage, offset)
}

func unavailable(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrClassUnavailable
	}
	return err
}

// NextOccurrence returns the next start of a weekly class at or after now, in the studio time zone.
func NextOccurrence(c *model.Class, now time.Time) time.Time {
	loc := validator.Location()
	now = now.In(loc)
	start, err := time.Parse("15:04", c.StartTime)
	if err != nil {
		start = time.Time{}
	}
	days := (c.DayOfWeek - int(now.Weekday()) + 7) % 7
	y, m, d := now.AddDate(0, 0, days).Date()
	next := time.Date(y, m, d, start.Hour(), start.Minute(), 0, 0, loc)
	if next.Before(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
