package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/notify"
	"github.com/saborconflow/studio-backend/internal/repository"
	"github.com/saborconflow/studio-backend/internal/validator"
)

const (
	bookingIDPrefix   = "SCF-"
	bookingIDAttempts = 5
)

type bookingStore interface {
	Create(ctx context.Context, b *model.BookingConfirmation) error
	GetByBookingID(ctx context.Context, bookingID string) (*model.BookingConfirmation, error)
	List(ctx context.Context, f model.BookingFilter) ([]model.BookingConfirmation, int, error)
	UpdateStatus(ctx context.Context, bookingID string, status model.BookingStatus) (*model.BookingConfirmation, error)
	MarkConfirmationSent(ctx context.Context, id int) error
	DueForReminder(ctx context.Context, date time.Time) ([]model.BookingConfirmation, error)
	MarkReminderSent(ctx context.Context, id int) error
}

type classLookup interface {
	GetByID(ctx context.Context, id int) (*model.Class, error)
}

// bookingTransitions lists the statuses each status may move to.
var bookingTransitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:   {model.BookingConfirmed, model.BookingCancelled},
	model.BookingConfirmed: {model.BookingCompleted, model.BookingCancelled},
}

// ReminderResult reports a reminder run.
type ReminderResult struct {
	Date   string `json:"date"`
	Due    int    `json:"due"`
	Sent   int    `json:"sent"`
	Failed int    `json:"failed"`
}

// BookingService creates bookings and sends their confirmation and reminder emails.
type BookingService struct {
	repo     bookingStore
	classes  classLookup
	notifier *notify.Service
	activity *ActivityService
	log      zerolog.Logger
}

func NewBookingService(repo bookingStore, classes classLookup, notifier *notify.Service, activity *ActivityService, log zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		classes:  classes,
		notifier: notifier,
		activity: activity,
		log:      log.With().Str("component", "booking_service").Logger(),
	}
}

// NewBookingID returns a human readable booking reference like SCF-3F9A0C12.
func NewBookingID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return bookingIDPrefix + strings.ToUpper(id[:8])
}

// Create books a class date. Booking a scheduled class copies its name, time,
// instructor and price; the date must fall on the class's weekday.
func (s *BookingService) Create(ctx context.Context, req model.CreateBookingRequest) (*model.BookingConfirmation, error) {
	date, err := time.ParseInLocation(validator.DateLayout, req.ClassDate, validator.Location())
	if err != nil {
		return nil, fmt.Errorf("parse class date: %w", err)
	}
	if date.Before(validator.Today()) {
		return nil, ErrDateInPast
	}

	b := &model.BookingConfirmation{
		CustomerName:   strings.TrimSpace(req.CustomerName),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          strings.TrimSpace(req.Phone),
		ClassName:      strings.TrimSpace(req.ClassName),
		ClassDate:      date,
		ClassTime:      strings.TrimSpace(req.ClassTime),
		InstructorName: strings.TrimSpace(req.InstructorName),
		PriceCents:     req.PriceCents,
		PaymentMethod:  req.PaymentMethod,
		Status:         model.BookingPending,
	}

	if req.ClassID != nil {
		class, err := s.classes.GetByID(ctx, *req.ClassID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClassUnavailable
		}
		if err != nil {
			return nil, err
		}
		if !class.IsActive || class.DayOfWeek != int(date.Weekday()) {
			return nil, ErrClassUnavailable
		}
		b.ClassID = &class.ID
		b.ClassName = class.Name
		b.ClassTime = DisplayTime(class.StartTime)
		b.InstructorName = class.InstructorName
		if b.PriceCents == 0 {
			b.PriceCents = class.PriceCents
		}
	}

	if err := s.insertWithUniqueID(ctx, b); err != nil {
		return nil, err
	}

	if err := s.notifier.SendBookingConfirmation(context.WithoutCancel(ctx), b); err != nil {
		s.log.Warn().Err(err).Str("booking_id", b.BookingID).Msg("Booking confirmation not sent")
	} else if err := s.repo.MarkConfirmationSent(ctx, b.ID); err != nil {
		s.log.Warn().Err(err).Str("booking_id", b.BookingID).Msg("Failed to flag confirmation as sent")
	} else {
		b.ConfirmationSent = true
	}

	s.activity.Publish(ctx, model.ActivityBookingCreated,
		fmt.Sprintf("%s booked %s on %s", b.CustomerName, b.ClassName, b.ClassDate.Format(validator.DateLayout)),
		fields{"booking_id": b.BookingID})
	return b, nil
}

func (s *BookingService) insertWithUniqueID(ctx context.Context, b *model.BookingConfirmation) error {
	for attempt := 0; attempt < bookingIDAttempts; attempt++ {
		b.BookingID = NewBookingID()
		err := s.repo.Create(ctx, b)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("create booking: %w", err)
		}
		s.log.Debug().Str("booking_id", b.BookingID).Msg("Booking id collision, retrying")
	}
	return fmt.Errorf("create booking: no unique id after %d attempts", bookingIDAttempts)
}

func (s *BookingService) GetByBookingID(ctx context.Context, bookingID string) (*model.BookingConfirmation, error) {
	return s.repo.GetByBookingID(ctx, strings.ToUpper(strings.TrimSpace(bookingID)))
}

func (s *BookingService) List(ctx context.Context, f model.BookingFilter, page, perPage int) ([]model.BookingConfirmation, int, error) {
	_, f.Limit, f.Offset = normalizePage(page, perPage)
	return s.repo.List(ctx, f)
}

// UpdateStatus moves a booking along pending → confirmed → completed, or to cancelled.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID string, status model.BookingStatus) (*model.BookingConfirmation, error) {
	current, err := s.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canTransition(current.Status, status) {
		return nil, ErrInvalidTransition
	}
	b, err := s.repo.UpdateStatus(ctx, current.BookingID, status)
	if err != nil {
		return nil, err
	}
	s.activity.Publish(ctx, model.ActivityBookingUpdated,
		fmt.Sprintf("Booking %s is now %s", b.BookingID, b.Status), fields{"booking_id": b.BookingID})
	return b, nil
}

func canTransition(from, to model.BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SendReminders emails every active booking on day that has not been reminded.
// A booking is flagged only after its email went out.
func (s *BookingService) SendReminders(ctx context.Context, day time.Time) (*ReminderResult, error) {
	due, err := s.repo.DueForReminder(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("load due bookings: %w", err)
	}

	result := &ReminderResult{Date: day.Format(validator.DateLayout), Due: len(due)}
	for i := range due {
		b := &due[i]
		if err := s.notifier.SendBookingReminder(ctx, b); err != nil {
			result.Failed++
			s.log.Warn().Err(err).Str("booking_id", b.BookingID).Msg("Reminder not sent")
			if errors.Is(err, notify.ErrNotConfigured) {
				break
			}
			continue
		}
		if err := s.repo.MarkReminderSent(ctx, b.ID); err != nil {
			s.log.Warn().Err(err).Str("booking_id", b.BookingID).Msg("Failed to flag reminder as sent")
		}
		result.Sent++
	}

	s.log.Info().Str("date", result.Date).Int("due", result.Due).Int("sent", result.Sent).
		Int("failed", result.Failed).Msg("Booking reminders processed")
	return result, nil
}

// Tomorrow is the date reminders are sent for by default.
func Tomorrow() time.Time {
	return validator.Today().AddDate(0, 0, 1)
}

// DisplayTime renders "19:00" as "7:00 PM". Unparseable values are returned as is.
func DisplayTime(hhmm string) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}
