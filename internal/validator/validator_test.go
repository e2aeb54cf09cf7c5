package validator

import (
	"testing"
	"time"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingForm struct {
	ClassDate string `json:"class_date" validate:"required,datetime=2006-01-02,notpast"`
}

func newValidator(t *testing.T) *govalidator.Validate {
	t.Helper()
	v := govalidator.New()
	Register(v)
	denver, err := time.LoadLocation("America/Denver")
	require.NoError(t, err)
	location = denver
	now = func() time.Time { return time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC) }
	t.Cleanup(func() {
		location = time.UTC
		now = time.Now
	})
	return v
}

func TestNotPast(t *testing.T) {
	v := newValidator(t)

	// 03:00 UTC on the 10th is still the 9th in Denver.
	assert.NoError(t, v.Struct(bookingForm{ClassDate: "2026-03-09"}))
	assert.NoError(t, v.Struct(bookingForm{ClassDate: "2026-03-10"}))

	err := v.Struct(bookingForm{ClassDate: "2026-03-08"})
	require.Error(t, err)
	fields := TranslateErrors(err)
	assert.Equal(t, "class_date cannot be in the past", fields["class_date"])
}

func TestMalformedDateReportsDatetime(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(bookingForm{ClassDate: "03/10/2026"})
	require.Error(t, err)
	var ve govalidator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "datetime", ve[0].Tag())
}

func TestTranslateErrorsNonValidation(t *testing.T) {
	fields := TranslateErrors(assert.AnError)
	assert.Equal(t, assert.AnError.Error(), fields["detail"])
}
