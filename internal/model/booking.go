package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// BookingConfirmation records a scheduled class or lesson purchase.
type BookingConfirmation struct {
	ID               int           `json:"id"`
	BookingID        string        `json:"booking_id"`
	CustomerName     string        `json:"customer_name"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone"`
	ClassID          *int          `json:"class_id,omitempty"`
	ClassName        string        `json:"class_name"`
	ClassDate        time.Time     `json:"class_date"`
	ClassTime        string        `json:"class_time"`
	InstructorName   string        `json:"instructor_name"`
	PriceCents       int           `json:"price_cents"`
	PaymentMethod    string        `json:"payment_method"`
	Status           BookingStatus `json:"status"`
	ConfirmationSent bool          `json:"confirmation_sent"`
	ReminderSent     bool          `json:"reminder_sent"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// CreateBookingRequest is the public booking form.
type CreateBookingRequest struct {
	CustomerName   string `json:"customer_name" binding:"required,min=2,max=100"`
	Email          string `json:"email" binding:"required,email,max=254"`
	Phone          string `json:"phone" binding:"omitempty,min=7,max=20"`
	ClassID        *int   `json:"class_id" binding:"omitempty,min=1"`
	ClassName      string `json:"class_name" binding:"required_without=ClassID,max=100"`
	ClassDate      string `json:"class_date" binding:"required,datetime=2006-01-02,notpast"`
	ClassTime      string `json:"class_time" binding:"required_without=ClassID,max=20"`
	InstructorName string `json:"instructor_name" binding:"max=100"`
	PriceCents     int    `json:"price_cents" binding:"min=0"`
	PaymentMethod  string `json:"payment_method" binding:"omitempty,oneof=card cash venmo zelle other"`
}

// UpdateBookingStatusRequest is the admin payload for moving a booking through its lifecycle.
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required,oneof=pending confirmed cancelled completed"`
}

// BookingFilter narrows booking listings.
type BookingFilter struct {
	Status BookingStatus
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
