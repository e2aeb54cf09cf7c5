package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/repository"
)

type fakeRSVPs struct {
	rows []model.RSVPSubmission
}

func (f *fakeRSVPs) Create(_ context.Context, r *model.RSVPSubmission) error {
	for _, existing := range f.rows {
		sameClass := r.ClassID != nil && existing.ClassID != nil && *r.ClassID == *existing.ClassID
		sameEvent := r.FacebookEventID != nil && existing.FacebookEventID != nil && *r.FacebookEventID == *existing.FacebookEventID
		if existing.Email == r.Email && (sameClass || sameEvent) {
			return repository.ErrDuplicate
		}
	}
	r.ID = len(f.rows) + 1
	f.rows = append(f.rows, *r)
	return nil
}

func (f *fakeRSVPs) List(context.Context, int, int, int, int) ([]model.RSVPSubmission, int, error) {
	return f.rows, len(f.rows), nil
}

func newRSVPFixture(t *testing.T, now time.Time) (*RSVPService, *fakeRSVPs, *recordingSender) {
	t.Helper()
	classes := newFakeClasses(
		model.Class{ID: 1, Name: "Bachata Sensual", DayOfWeek: int(time.Wednesday), StartTime: "20:00", IsActive: true},
		model.Class{ID: 2, Name: "Retired", IsActive: false},
	)
	events := fakeEvents{
		1: {ID: 1, Name: "Salsa Social", StartTime: now.Add(48 * time.Hour), IsActive: true},
		2: {ID: 2, Name: "Last Month", StartTime: now.Add(-48 * time.Hour), IsActive: true},
	}
	repo := &fakeRSVPs{}
	rec := &recordingSender{configured: true}
	svc := NewRSVPService(repo, classes, events, newTestNotifier(rec), nil, zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc, repo, rec
}

func TestRSVPRequiresExactlyOneTarget(t *testing.T) {
	svc, _, _ := newRSVPFixture(t, time.Now())
	ctx := context.Background()

	_, err := svc.Submit(ctx, model.RSVPRequest{Name: "Ana", Email: "ana@example.com"})
	assert.ErrorIs(t, err, ErrRSVPTargetRequired)

	_, err = svc.Submit(ctx, model.RSVPRequest{Name: "Ana", Email: "ana@example.com", ClassID: intPtr(1), FacebookEventID: intPtr(1)})
	assert.ErrorIs(t, err, ErrRSVPTargetRequired)
}

func TestRSVPForEvent(t *testing.T) {
	svc, repo, rec := newRSVPFixture(t, time.Now())

	r, err := svc.Submit(context.Background(), model.RSVPRequest{Name: " Ana ", Email: "Ana@Example.com", FacebookEventID: intPtr(1), Guests: 2})
	require.NoError(t, err)
	assert.Equal(t, "Ana", r.Name)
	assert.Equal(t, "ana@example.com", r.Email)
	assert.Len(t, repo.rows, 1)
	assert.Equal(t, []string{"rsvp_confirmation"}, rec.templates())
}

func TestRSVPDuplicateIsConflict(t *testing.T) {
	svc, _, _ := newRSVPFixture(t, time.Now())
	ctx := context.Background()
	req := model.RSVPRequest{Name: "Ana", Email: "ana@example.com", ClassID: intPtr(1)}

	_, err := svc.Submit(ctx, req)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, req)
	assert.ErrorIs(t, err, ErrDuplicateRSVP)
}

func TestRSVPRejectsUnavailableTargets(t *testing.T) {
	svc, _, _ := newRSVPFixture(t, time.Now())
	ctx := context.Background()

	for name, req := range map[string]model.RSVPRequest{
		"inactive class": {ClassID: intPtr(2)},
		"unknown class":  {ClassID: intPtr(9)},
		"past event":     {FacebookEventID: intPtr(2)},
		"unknown event":  {FacebookEventID: intPtr(9)},
	} {
		req.Name, req.Email = "Ana", "ana@example.com"
		_, err := svc.Submit(ctx, req)
		assert.ErrorIs(t, err, ErrClassUnavailable, name)
	}
}

func TestNextOccurrence(t *testing.T) {
	class := &model.Class{DayOfWeek: int(time.Wednesday), StartTime: "20:00"}

	// Monday 2026-03-02.
	monday := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 4, 20, 0, 0, 0, time.UTC), NextOccurrence(class, monday))

	// Wednesday after class started rolls to next week.
	late := time.Date(2026, 3, 4, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 11, 20, 0, 0, 0, time.UTC), NextOccurrence(class, late))

	early := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 4, 20, 0, 0, 0, time.UTC), NextOccurrence(class, early))
}
