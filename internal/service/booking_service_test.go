package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/repository"
	"github.com/saborconflow/studio-backend/internal/validator"
)

type fakeBookings struct {
	rows        map[string]*model.BookingConfirmation
	duplicates  int
	reminded    []int
	confirmSent []int
	nextID      int
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{rows: map[string]*model.BookingConfirmation{}}
}

func (f *fakeBookings) Create(_ context.Context, b *model.BookingConfirmation) error {
	if f.duplicates > 0 {
		f.duplicates--
		return repository.ErrDuplicate
	}
	f.nextID++
	b.ID = f.nextID
	cp := *b
	f.rows[b.BookingID] = &cp
	return nil
}

func (f *fakeBookings) GetByBookingID(_ context.Context, id string) (*model.BookingConfirmation, error) {
	b, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) List(context.Context, model.BookingFilter) ([]model.BookingConfirmation, int, error) {
	return nil, 0, nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, id string, status model.BookingStatus) (*model.BookingConfirmation, error) {
	b, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b.Status = status
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) MarkConfirmationSent(_ context.Context, id int) error {
	f.confirmSent = append(f.confirmSent, id)
	return nil
}

func (f *fakeBookings) DueForReminder(_ context.Context, date time.Time) ([]model.BookingConfirmation, error) {
	var out []model.BookingConfirmation
	for _, b := range f.rows {
		if b.ClassDate.Equal(date) && !b.ReminderSent &&
			(b.Status == model.BookingPending || b.Status == model.BookingConfirmed) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookings) MarkReminderSent(_ context.Context, id int) error {
	f.reminded = append(f.reminded, id)
	for _, b := range f.rows {
		if b.ID == id {
			b.ReminderSent = true
		}
	}
	return nil
}

func nextWeek() time.Time {
	return validator.Today().AddDate(0, 0, 7)
}

func newBookingFixture(t *testing.T) (*BookingService, *fakeBookings, *recordingSender) {
	t.Helper()
	day := nextWeek()
	classes := newFakeClasses(
		model.Class{ID: 1, Name: "Salsa Fundamentals", DayOfWeek: int(day.Weekday()), StartTime: "19:00",
			InstructorName: "Carlos", PriceCents: 2000, IsActive: true},
		model.Class{ID: 2, Name: "Retired", DayOfWeek: int(day.Weekday()), StartTime: "18:00", IsActive: false},
	)
	repo := newFakeBookings()
	rec := &recordingSender{configured: true}
	return NewBookingService(repo, classes, newTestNotifier(rec), nil, zerolog.Nop()), repo, rec
}

func bookingRequest(date time.Time) model.CreateBookingRequest {
	return model.CreateBookingRequest{
		CustomerName: "Leo Diaz",
		Email:        "LEO@example.com",
		ClassName:    "Private lesson",
		ClassDate:    date.Format(validator.DateLayout),
		ClassTime:    "6:00 PM",
		PriceCents:   8000,
	}
}

func TestNewBookingIDFormat(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^SCF-[0-9A-F]{8}$`), NewBookingID())
	assert.NotEqual(t, NewBookingID(), NewBookingID())
}

func TestCreateBookingSendsConfirmation(t *testing.T) {
	svc, repo, rec := newBookingFixture(t)

	b, err := svc.Create(context.Background(), bookingRequest(nextWeek()))
	require.NoError(t, err)

	assert.Equal(t, model.BookingPending, b.Status)
	assert.Equal(t, "leo@example.com", b.Email)
	assert.True(t, b.ConfirmationSent)
	assert.Equal(t, []int{b.ID}, repo.confirmSent)
	assert.Equal(t, []string{"booking_confirmation"}, rec.templates())
}

func TestCreateBookingRejectsPastDate(t *testing.T) {
	svc, repo, _ := newBookingFixture(t)

	_, err := svc.Create(context.Background(), bookingRequest(validator.Today().AddDate(0, 0, -1)))
	assert.ErrorIs(t, err, ErrDateInPast)
	assert.Empty(t, repo.rows)
}

func TestCreateBookingCopiesClass(t *testing.T) {
	svc, _, _ := newBookingFixture(t)

	req := bookingRequest(nextWeek())
	req.ClassID = intPtr(1)
	req.PriceCents = 0
	b, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Salsa Fundamentals", b.ClassName)
	assert.Equal(t, "7:00 PM", b.ClassTime)
	assert.Equal(t, "Carlos", b.InstructorName)
	assert.Equal(t, 2000, b.PriceCents)
}

func TestCreateBookingClassMustRunThatDay(t *testing.T) {
	svc, _, _ := newBookingFixture(t)
	ctx := context.Background()

	req := bookingRequest(nextWeek().AddDate(0, 0, 1))
	req.ClassID = intPtr(1)
	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, ErrClassUnavailable)

	req = bookingRequest(nextWeek())
	req.ClassID = intPtr(2)
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, ErrClassUnavailable)

	req.ClassID = intPtr(99)
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, ErrClassUnavailable)
}

func TestCreateBookingRetriesIDCollision(t *testing.T) {
	svc, repo, _ := newBookingFixture(t)
	repo.duplicates = 2

	_, err := svc.Create(context.Background(), bookingRequest(nextWeek()))
	require.NoError(t, err)
	assert.Len(t, repo.rows, 1)

	repo.duplicates = bookingIDAttempts
	_, err = svc.Create(context.Background(), bookingRequest(nextWeek()))
	assert.Error(t, err)
}

func TestUpdateBookingStatusTransitions(t *testing.T) {
	svc, _, _ := newBookingFixture(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, bookingRequest(nextWeek()))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, b.BookingID, model.BookingCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := svc.UpdateStatus(ctx, b.BookingID, model.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, got.Status)

	got, err = svc.UpdateStatus(ctx, b.BookingID, model.BookingCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, got.Status)

	_, err = svc.UpdateStatus(ctx, b.BookingID, model.BookingConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, "scf-missing", model.BookingConfirmed)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestSendRemindersFlagsOnlySent(t *testing.T) {
	svc, repo, rec := newBookingFixture(t)
	ctx := context.Background()
	day := nextWeek()

	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, bookingRequest(day))
		require.NoError(t, err)
	}
	cancelled, err := svc.Create(ctx, bookingRequest(day))
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, cancelled.BookingID, model.BookingCancelled)
	require.NoError(t, err)
	rec.sent = nil

	res, err := svc.SendReminders(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Due)
	assert.Equal(t, 2, res.Sent)
	assert.Len(t, repo.reminded, 2)

	// A second run finds nothing left to remind.
	res, err = svc.SendReminders(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Due)
}

func TestSendRemindersStopsWhenEmailUnconfigured(t *testing.T) {
	svc, repo, rec := newBookingFixture(t)
	ctx := context.Background()
	day := nextWeek()
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, bookingRequest(day))
		require.NoError(t, err)
	}
	rec.configured = false

	res, err := svc.SendReminders(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Due)
	assert.Equal(t, 0, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.Empty(t, repo.reminded)
}

func TestDisplayTime(t *testing.T) {
	assert.Equal(t, "7:00 PM", DisplayTime("19:00"))
	assert.Equal(t, "9:30 AM", DisplayTime("09:30"))
	assert.Equal(t, "TBD", DisplayTime("TBD"))
}
