package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/notify"
)

type contactStore interface {
	Create(ctx context.Context, c *model.ContactSubmission) error
	GetByID(ctx context.Context, id int) (*model.ContactSubmission, error)
	List(ctx context.Context, status model.ContactStatus, limit, offset int) ([]model.ContactSubmission, int, error)
	UpdateStatus(ctx context.Context, id int, status model.ContactStatus, notes string) (*model.ContactSubmission, error)
}

// ContactService handles the contact form.
type ContactService struct {
	repo     contactStore
	notifier *notify.Service
	activity *ActivityService
	log      zerolog.Logger
}

func NewContactService(repo contactStore, notifier *notify.Service, activity *ActivityService, log zerolog.Logger) *ContactService {
	return &ContactService{
		repo:     repo,
		notifier: notifier,
		activity: activity,
		log:      log.With().Str("component", "contact_service").Logger(),
	}
}

// Submit stores the message, notifies the studio and sends the sender an auto-reply.
// Email failures are logged; the submission is kept either way.
func (s *ContactService) Submit(ctx context.Context, req model.ContactRequest) (*model.ContactSubmission, error) {
	c := &model.ContactSubmission{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    strings.TrimSpace(req.Phone),
		Interest: req.Interest,
		Message:  strings.TrimSpace(req.Message),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create contact submission: %w", err)
	}

	bg := context.WithoutCancel(ctx)
	if err := s.notifier.SendContactNotification(bg, c); err != nil {
		s.log.Warn().Err(err).Int("contact_id", c.ID).Msg("Contact notification not sent")
	}
	if err := s.notifier.SendContactAutoReply(bg, c); err != nil {
		s.log.Warn().Err(err).Int("contact_id", c.ID).Msg("Contact auto-reply not sent")
	}
	s.activity.Publish(ctx, model.ActivityContactSubmitted,
		fmt.Sprintf("New %s inquiry from %s", c.Interest, c.Name), fields{"id": c.ID})

	return c, nil
}

func (s *ContactService) List(ctx context.Context, status model.ContactStatus, page, perPage int) ([]model.ContactSubmission, int, error) {
	_, perPage, offset := normalizePage(page, perPage)
	return s.repo.List(ctx, status, perPage, offset)
}

func (s *ContactService) GetByID(ctx context.Context, id int) (*model.ContactSubmission, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus records triage progress and notes.
func (s *ContactService) UpdateStatus(ctx context.Context, id int, req model.UpdateContactRequest) (*model.ContactSubmission, error) {
	return s.repo.UpdateStatus(ctx, id, req.Status, strings.TrimSpace(req.AdminNotes))
}
