package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saborconflow/studio-backend/internal/model"
)

const bookingColumns = `id, booking_id, customer_name, email, phone, class_id, class_name, class_date, class_time,
	instructor_name, price_cents, payment_method, status, confirmation_sent, reminder_sent, created_at, updated_at`

// BookingRepository handles booking confirmation data access.
type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func scanBooking(row pgx.Row) (*model.BookingConfirmation, error) {
	b := &model.BookingConfirmation{}
	err := row.Scan(&b.ID, &b.BookingID, &b.CustomerName, &b.Email, &b.Phone, &b.ClassID, &b.ClassName,
		&b.ClassDate, &b.ClassTime, &b.InstructorName, &b.PriceCents, &b.PaymentMethod, &b.Status,
		&b.ConfirmationSent, &b.ReminderSent, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return b, nil
}

func collectBookings(rows pgx.Rows) ([]model.BookingConfirmation, error) {
	defer rows.Close()
	list := []model.BookingConfirmation{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *b)
	}
	return list, rows.Err()
}

// Create inserts a booking. A colliding booking_id surfaces as ErrDuplicate.
func (r *BookingRepository) Create(ctx context.Context, b *model.BookingConfirmation) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO booking_confirmations (booking_id, customer_name, email, phone, class_id, class_name,
		                                    class_date, class_time, instructor_name, price_cents, payment_method, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		b.BookingID, b.CustomerName, b.Email, b.Phone, b.ClassID, b.ClassName,
		b.ClassDate, b.ClassTime, b.InstructorName, b.PriceCents, b.PaymentMethod, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return translate(err)
}

func (r *BookingRepository) GetByBookingID(ctx context.Context, bookingID string) (*model.BookingConfirmation, error) {
	return scanBooking(r.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM booking_confirmations WHERE booking_id = $1`, bookingID))
}

// List returns bookings ordered by class date, soonest first.
func (r *BookingRepository) List(ctx context.Context, f model.BookingFilter) ([]model.BookingConfirmation, int, error) {
	var w where
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.From != nil {
		w.add("class_date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("class_date <= ?", *f.To)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM booking_confirmations`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + bookingColumns + ` FROM booking_confirmations` + w.String() +
		` ORDER BY class_date ASC, class_time ASC, id ASC` + w.page(f.Limit, f.Offset)
	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	list, err := collectBookings(rows)
	return list, total, err
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID string, status model.BookingStatus) (*model.BookingConfirmation, error) {
	return scanBooking(r.pool.QueryRow(ctx,
		`UPDATE booking_confirmations SET status = $1, updated_at = NOW()
		 WHERE booking_id = $2
		 RETURNING `+bookingColumns,
		status, bookingID))
}

func (r *BookingRepository) MarkConfirmationSent(ctx context.Context, id int) error {
	return execOne(r.pool.Exec(ctx,
		`UPDATE booking_confirmations SET confirmation_sent = TRUE, updated_at = NOW() WHERE id = $1`, id))
}

// DueForReminder returns active bookings on the given date that were not reminded yet.
func (r *BookingRepository) DueForReminder(ctx context.Context, date time.Time) ([]model.BookingConfirmation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bookingColumns+` FROM booking_confirmations
		 WHERE class_date = $1 AND NOT reminder_sent AND status IN ('pending', 'confirmed')
		 ORDER BY class_time, id`, date)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// MarkReminderSent flags a booking as reminded. It returns ErrNotFound when
// another run already flagged it, so reminders go out at most once.
func (r *BookingRepository) MarkReminderSent(ctx context.Context, id int) error {
	return execOne(r.pool.Exec(ctx,
		`UPDATE booking_confirmations SET reminder_sent = TRUE, updated_at = NOW()
		 WHERE id = $1 AND NOT reminder_sent`, id))
}
