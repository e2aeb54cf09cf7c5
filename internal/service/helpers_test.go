package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/notify"
	"github.com/saborconflow/studio-backend/internal/repository"
)

// ─── Email ─────────────────────────────────────────────────────────────

type recordingSender struct {
	mu         sync.Mutex
	configured bool
	fail       error
	sent       []*notify.Message
}

func (r *recordingSender) Name() string     { return "recording" }
func (r *recordingSender) Configured() bool { return r.configured }

func (r *recordingSender) Send(_ context.Context, msg *notify.Message) error {
	if r.fail != nil {
		return r.fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) templates() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.sent))
	for i, m := range r.sent {
		out[i] = m.Template
	}
	return out
}

func newTestNotifier(sender notify.Sender) *notify.Service {
	cfg := &config.Config{
		SiteName: "Sabor Con Flow Dance",
		SiteURL:  "https://saborconflow.test",
		Timezone: "UTC",
		Email:    config.EmailConfig{AdminRecipients: []string{"owner@saborconflow.test"}},
	}
	return notify.NewService(cfg, sender, "", zerolog.Nop())
}

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.New(rdb, zerolog.Nop()), mr
}

func intPtr(v int) *int { return &v }

// ─── Testimonials ──────────────────────────────────────────────────────

type fakeTestimonials struct {
	rows   map[int]*model.Testimonial
	nextID int
	lists  int
}

func newFakeTestimonials(rows ...model.Testimonial) *fakeTestimonials {
	f := &fakeTestimonials{rows: map[int]*model.Testimonial{}, nextID: 100}
	for i := range rows {
		r := rows[i]
		f.rows[r.ID] = &r
	}
	return f
}

func (f *fakeTestimonials) Create(_ context.Context, t *model.Testimonial) error {
	f.nextID++
	t.ID = f.nextID
	t.CreatedAt = time.Now()
	cp := *t
	f.rows[t.ID] = &cp
	return nil
}

func (f *fakeTestimonials) GetByID(_ context.Context, id int) (*model.Testimonial, error) {
	t, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTestimonials) List(_ context.Context, flt model.TestimonialFilter) ([]model.Testimonial, int, error) {
	f.lists++
	var out []model.Testimonial
	for _, t := range f.sorted() {
		if flt.Status != "" && t.Status != flt.Status {
			continue
		}
		if t.Rating < flt.MinRating {
			continue
		}
		out = append(out, t)
	}
	total := len(out)
	if flt.Offset < len(out) {
		out = out[flt.Offset:]
	} else {
		out = nil
	}
	if flt.Limit > 0 && len(out) > flt.Limit {
		out = out[:flt.Limit]
	}
	return out, total, nil
}

func (f *fakeTestimonials) sorted() []model.Testimonial {
	out := make([]model.Testimonial, 0, len(f.rows))
	for _, t := range f.rows {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeTestimonials) Featured(_ context.Context, limit int) ([]model.Testimonial, error) {
	var out []model.Testimonial
	for _, t := range f.sorted() {
		if t.Featured && t.Status == model.TestimonialApproved && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTestimonials) ByInstructor(_ context.Context, instructorID, limit int) ([]model.Testimonial, error) {
	var out []model.Testimonial
	for _, t := range f.sorted() {
		if t.InstructorID != nil && *t.InstructorID == instructorID && t.Status == model.TestimonialApproved && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTestimonials) Stats(context.Context) (*model.TestimonialStats, error) {
	s := &model.TestimonialStats{ByRating: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	sum := 0
	for _, t := range f.rows {
		if t.Status == model.TestimonialApproved {
			s.TotalApproved++
			s.ByRating[t.Rating]++
			sum += t.Rating
		}
	}
	if s.TotalApproved > 0 {
		s.AverageRating = float64(sum) / float64(s.TotalApproved)
	}
	return s, nil
}

func (f *fakeTestimonials) CountByStatus(context.Context) (map[model.TestimonialStatus]int, error) {
	out := map[model.TestimonialStatus]int{}
	for _, t := range f.rows {
		out[t.Status]++
	}
	return out, nil
}

func (f *fakeTestimonials) SetStatus(_ context.Context, id int, status model.TestimonialStatus, reason string) (*model.Testimonial, error) {
	t, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Status = status
	t.RejectReason = reason
	if status == model.TestimonialApproved {
		now := time.Now()
		t.PublishedAt = &now
	} else {
		t.PublishedAt = nil
		t.Featured = false
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTestimonials) SetFeatured(_ context.Context, id int, featured bool) error {
	t, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.Featured = featured
	return nil
}

func (f *fakeTestimonials) Delete(_ context.Context, id int) error {
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeTestimonials) UpsertGoogleReview(_ context.Context, t *model.Testimonial) (bool, error) {
	for _, row := range f.rows {
		if row.GoogleReviewID != nil && *row.GoogleReviewID == *t.GoogleReviewID {
			return false, nil
		}
	}
	return true, f.Create(context.Background(), t)
}

// ─── Review links ──────────────────────────────────────────────────────

type fakeReviewLinks struct {
	byToken     map[string]*model.ReviewLink
	conversions map[int]int
	nextID      int
}

func newFakeReviewLinks(links ...model.ReviewLink) *fakeReviewLinks {
	f := &fakeReviewLinks{byToken: map[string]*model.ReviewLink{}, conversions: map[int]int{}}
	for i := range links {
		l := links[i]
		f.byToken[l.Token] = &l
	}
	return f
}

func (f *fakeReviewLinks) Create(_ context.Context, l *model.ReviewLink) error {
	f.nextID++
	l.ID = f.nextID
	l.IsActive = true
	cp := *l
	f.byToken[l.Token] = &cp
	return nil
}

func (f *fakeReviewLinks) GetByID(_ context.Context, id int) (*model.ReviewLink, error) {
	for _, l := range f.byToken {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeReviewLinks) GetByToken(_ context.Context, token string) (*model.ReviewLink, error) {
	l, ok := f.byToken[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeReviewLinks) List(_ context.Context, activeOnly bool, limit, offset int) ([]model.ReviewLink, int, error) {
	var out []model.ReviewLink
	for _, l := range f.byToken {
		if !activeOnly || l.IsActive {
			out = append(out, *l)
		}
	}
	return out, len(out), nil
}

func (f *fakeReviewLinks) RecordClick(_ context.Context, token string) (*model.ReviewLink, error) {
	l, ok := f.byToken[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	l.ClickCount++
	cp := *l
	return &cp, nil
}

func (f *fakeReviewLinks) RecordConversion(_ context.Context, id int) error {
	f.conversions[id]++
	return nil
}

func (f *fakeReviewLinks) Deactivate(_ context.Context, id int) error {
	for _, l := range f.byToken {
		if l.ID == id {
			l.IsActive = false
			return nil
		}
	}
	return repository.ErrNotFound
}

// ─── Classes and events ────────────────────────────────────────────────

type fakeClasses struct {
	rows   map[int]*model.Class
	nextID int
}

func newFakeClasses(rows ...model.Class) *fakeClasses {
	f := &fakeClasses{rows: map[int]*model.Class{}, nextID: 10}
	for i := range rows {
		c := rows[i]
		f.rows[c.ID] = &c
	}
	return f
}

func (f *fakeClasses) all(activeOnly bool) []model.Class {
	out := []model.Class{}
	for _, c := range f.rows {
		if !activeOnly || c.IsActive {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeClasses) ListActive(context.Context) ([]model.Class, error) { return f.all(true), nil }
func (f *fakeClasses) List(context.Context) ([]model.Class, error)       { return f.all(false), nil }

func (f *fakeClasses) ListByInstructor(_ context.Context, instructorID int) ([]model.Class, error) {
	out := []model.Class{}
	for _, c := range f.all(true) {
		if c.InstructorID != nil && *c.InstructorID == instructorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClasses) GetByID(_ context.Context, id int) (*model.Class, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClasses) Create(_ context.Context, c *model.Class) error {
	f.nextID++
	c.ID = f.nextID
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeClasses) Update(_ context.Context, c *model.Class) error {
	if _, ok := f.rows[c.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeClasses) Delete(_ context.Context, id int) error {
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeEvents map[int]*model.FacebookEvent

func (f fakeEvents) GetByID(_ context.Context, id int) (*model.FacebookEvent, error) {
	e, ok := f[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}
