package notify

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/model"
)

const dateFormat = "Monday, January 2, 2006"

// Service renders and sends the studio's transactional emails.
// Every Send* method returns nil only when the message was handed to the backend.
type Service struct {
	sender          Sender
	siteName        string
	siteURL         string
	admins          []mail.Address
	googleReviewURL string
	loc             *time.Location
	log             zerolog.Logger
}

// NewService creates the notification service. googleReviewURL may be empty.
func NewService(cfg *config.Config, sender Sender, googleReviewURL string, log zerolog.Logger) *Service {
	admins := make([]mail.Address, 0, len(cfg.Email.AdminRecipients))
	for _, a := range cfg.Email.AdminRecipients {
		admins = append(admins, mail.Address{Address: a})
	}
	return &Service{
		sender:          sender,
		siteName:        cfg.SiteName,
		siteURL:         cfg.SiteURL,
		admins:          admins,
		googleReviewURL: googleReviewURL,
		loc:             cfg.Location(),
		log:             log.With().Str("component", "email").Logger(),
	}
}

func (s *Service) send(ctx context.Context, msg *Message) error {
	if !msg.HasRecipients() {
		return fmt.Errorf("%s: no recipients", msg.Template)
	}
	if !s.sender.Configured() {
		s.log.Warn().Str("backend", s.sender.Name()).Str("template", msg.Template).
			Msg("Email backend not configured, skipping send")
		return ErrNotConfigured
	}
	msg.Subject = "[" + s.siteName + "] " + msg.Subject
	if err := msg.Render(s.siteName, s.siteURL); err != nil {
		s.log.Error().Err(err).Str("template", msg.Template).Msg("Failed to render email")
		return err
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("template", msg.Template).Str("to", joinAddresses(msg.To)).
			Msg("Failed to send email")
		return fmt.Errorf("send %s: %w", msg.Template, err)
	}
	s.log.Info().Str("template", msg.Template).Str("to", joinAddresses(msg.To)).Msg("Email sent")
	return nil
}

func (s *Service) adminURL(path string) string {
	return s.siteURL + "/admin" + path
}

// ─── Template data ─────────────────────────────────────────────────────

type testimonialSubmittedData struct {
	Testimonial model.Testimonial
	Stars       string
	Campaign    string
	AdminURL    string
}

type testimonialApprovedData struct {
	Name            string
	TestimonialsURL string
	GoogleReviewURL string
}

type contactData struct {
	Contact  model.ContactSubmission
	Name     string
	Interest string
	AdminURL string
}

type bookingData struct {
	Booking    model.BookingConfirmation
	Date       string
	Price      string
	DetailsURL string
}

type rsvpData struct {
	Name   string
	Target string
	When   string
	Guests int
}

type summaryData struct {
	Summary  model.WeeklySummary
	From     string
	To       string
	AdminURL string
}

// ─── Operations ────────────────────────────────────────────────────────

// SendTestimonialSubmitted notifies the admins of a testimonial awaiting moderation.
// campaign is the review link campaign name, if any.
func (s *Service) SendTestimonialSubmitted(ctx context.Context, t *model.Testimonial, campaign string) error {
	return s.send(ctx, &Message{
		To:       s.admins,
		ReplyTo:  &mail.Address{Name: t.StudentName, Address: t.Email},
		Subject:  fmt.Sprintf("New %d-star testimonial from %s", t.Rating, t.StudentName),
		Template: TmplTestimonialSubmitted,
		Data: testimonialSubmittedData{
			Testimonial: *t,
			Stars:       strings.Repeat("★", t.Rating) + strings.Repeat("☆", 5-t.Rating),
			Campaign:    campaign,
			AdminURL:    s.adminURL(fmt.Sprintf("/testimonials/%d", t.ID)),
		},
	})
}

// SendTestimonialApproved thanks the student and points them at the Google review page.
func (s *Service) SendTestimonialApproved(ctx context.Context, t *model.Testimonial) error {
	if t.Email == "" {
		return fmt.Errorf("%s: no recipients", TmplTestimonialApproved)
	}
	return s.send(ctx, &Message{
		To:       []mail.Address{{Name: t.StudentName, Address: t.Email}},
		Subject:  "Your testimonial is live!",
		Template: TmplTestimonialApproved,
		Data: testimonialApprovedData{
			Name:            firstName(t.StudentName),
			TestimonialsURL: s.siteURL + "/testimonials",
			GoogleReviewURL: s.googleReviewURL,
		},
	})
}

// SendContactNotification forwards a contact form submission to the admins.
func (s *Service) SendContactNotification(ctx context.Context, c *model.ContactSubmission) error {
	return s.send(ctx, &Message{
		To:       s.admins,
		ReplyTo:  &mail.Address{Name: c.Name, Address: c.Email},
		Subject:  fmt.Sprintf("New inquiry from %s (%s)", c.Name, interestLabel(c.Interest)),
		Template: TmplContactNotification,
		Data: contactData{
			Contact:  *c,
			Name:     c.Name,
			Interest: interestLabel(c.Interest),
			AdminURL: s.adminURL(fmt.Sprintf("/contacts/%d", c.ID)),
		},
	})
}

// SendContactAutoReply acknowledges a contact form submission to its sender.
func (s *Service) SendContactAutoReply(ctx context.Context, c *model.ContactSubmission) error {
	return s.send(ctx, &Message{
		To:       []mail.Address{{Name: c.Name, Address: c.Email}},
		Subject:  "Thanks for contacting us",
		Template: TmplContactAutoReply,
		Data: contactData{
			Contact:  *c,
			Name:     firstName(c.Name),
			Interest: strings.ToLower(interestLabel(c.Interest)),
		},
	})
}

func (s *Service) bookingData(b *model.BookingConfirmation) bookingData {
	d := bookingData{
		Booking:    *b,
		Date:       b.ClassDate.Format(dateFormat),
		DetailsURL: s.siteURL + "/bookings/" + b.BookingID,
	}
	if b.PriceCents > 0 {
		d.Price = FormatCents(b.PriceCents)
	}
	return d
}

// SendBookingConfirmation sends the booking details to the customer.
func (s *Service) SendBookingConfirmation(ctx context.Context, b *model.BookingConfirmation) error {
	return s.send(ctx, &Message{
		To:       []mail.Address{{Name: b.CustomerName, Address: b.Email}},
		Subject:  fmt.Sprintf("Booking confirmed: %s on %s", b.ClassName, b.ClassDate.Format("Jan 2")),
		Template: TmplBookingConfirmation,
		Data:     s.bookingData(b),
	})
}

// SendBookingReminder reminds the customer of an upcoming class.
func (s *Service) SendBookingReminder(ctx context.Context, b *model.BookingConfirmation) error {
	return s.send(ctx, &Message{
		To:       []mail.Address{{Name: b.CustomerName, Address: b.Email}},
		Subject:  fmt.Sprintf("Reminder: %s tomorrow at %s", b.ClassName, b.ClassTime),
		Template: TmplBookingReminder,
		Data:     s.bookingData(b),
	})
}

// SendRSVPConfirmation confirms an RSVP. target is the class or event name.
func (s *Service) SendRSVPConfirmation(ctx context.Context, r *model.RSVPSubmission, target string, when *time.Time) error {
	d := rsvpData{Name: firstName(r.Name), Target: target, Guests: r.Guests}
	if when != nil {
		d.When = when.In(s.loc).Format(dateFormat + " at 3:04 PM")
	}
	return s.send(ctx, &Message{
		To:       []mail.Address{{Name: r.Name, Address: r.Email}},
		Subject:  "RSVP confirmed: " + target,
		Template: TmplRSVPConfirmation,
		Data:     d,
	})
}

// SendWeeklySummary emails the weekly numbers to the admins.
func (s *Service) SendWeeklySummary(ctx context.Context, sum *model.WeeklySummary) error {
	return s.send(ctx, &Message{
		To:       s.admins,
		Subject:  "Weekly summary " + sum.From.In(s.loc).Format("Jan 2") + " - " + sum.To.In(s.loc).Format("Jan 2"),
		Template: TmplWeeklySummary,
		Data: summaryData{
			Summary:  *sum,
			From:     sum.From.In(s.loc).Format("Jan 2, 2006"),
			To:       sum.To.In(s.loc).Format("Jan 2, 2006"),
			AdminURL: s.adminURL("/dashboard"),
		},
	})
}

// SendTestEmail sends every template with sample data to recipient.
// It attempts all of them and returns the joined failures.
func (s *Service) SendTestEmail(ctx context.Context, recipient string) error {
	t := *s
	t.admins = []mail.Address{{Name: "Test Recipient", Address: recipient}}

	now := time.Now().In(t.loc)
	tomorrow := now.AddDate(0, 0, 1)
	testimonial := &model.Testimonial{
		ID: 1, StudentName: "Test Student", Email: recipient, ClassType: "salsa_on1",
		Rating: 5, Content: "Amazing classes and a welcoming community!",
	}
	contact := &model.ContactSubmission{
		ID: 1, Name: "Test Student", Email: recipient, Phone: "555-0100",
		Interest: model.InterestPrivateLessons, Message: "I'd like to book a private lesson for my wedding dance.",
	}
	booking := &model.BookingConfirmation{
		BookingID: "SCF-TEST0001", CustomerName: "Test Student", Email: recipient,
		ClassName: "Salsa On1 Fundamentals", ClassDate: tomorrow, ClassTime: "7:00 PM",
		InstructorName: "Instructor", PriceCents: 2000,
	}
	rsvp := &model.RSVPSubmission{Name: "Test Student", Email: recipient, Guests: 1}
	summary := &model.WeeklySummary{
		From: now.AddDate(0, 0, -7), To: now, NewTestimonials: 4, ApprovedTestimonials: 3,
		PendingTestimonials: 1, AverageRating: 4.8, NewContacts: 6, NewBookings: 9, NewRSVPs: 12, ReviewLinkClicks: 21,
	}

	var errs []error
	for _, fn := range []func() error{
		func() error { return t.SendTestimonialSubmitted(ctx, testimonial, "Test campaign") },
		func() error { return t.SendTestimonialApproved(ctx, testimonial) },
		func() error { return t.SendContactNotification(ctx, contact) },
		func() error { return t.SendContactAutoReply(ctx, contact) },
		func() error { return t.SendBookingConfirmation(ctx, booking) },
		func() error { return t.SendBookingReminder(ctx, booking) },
		func() error { return t.SendRSVPConfirmation(ctx, rsvp, "Friday Social", &tomorrow) },
		func() error { return t.SendWeeklySummary(ctx, summary) },
	} {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FormatCents renders an amount in cents as dollars.
func FormatCents(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func firstName(full string) string {
	if f := strings.Fields(full); len(f) > 0 {
		return f[0]
	}
	return full
}

func interestLabel(i model.ContactInterest) string {
	switch i {
	case model.InterestClasses:
		return "Group Classes"
	case model.InterestPrivateLessons:
		return "Private Lessons"
	case model.InterestEvents:
		return "Events"
	default:
		return "Other"
	}
}
