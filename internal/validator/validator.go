package validator

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// DateLayout is the wire format of calendar dates in request bodies.
const DateLayout = "2006-01-02"

// trans is the singleton English translator for validation errors.
var trans ut.Translator

// location is the studio time zone used to decide what "today" is.
var location = time.UTC

// now is replaced in tests.
var now = time.Now

// Setup registers the validator with English translations on Gin's binding engine.
// Call once during application startup.
func Setup(loc *time.Location) {
	if loc != nil {
		location = loc
	}
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		Register(v)
	}
}

// Register installs the tag name func, custom rules and translations on v.
func Register(v *govalidator.Validate) {
	// Use JSON tag name for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notpast", notPast)

	// Register English translations.
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	_ = v.RegisterTranslation("notpast", trans,
		func(ut ut.Translator) error {
			return ut.Add("notpast", "{0} cannot be in the past", true)
		},
		func(ut ut.Translator, fe govalidator.FieldError) string {
			t, _ := ut.T("notpast", fe.Field())
			return t
		},
	)
}

// notPast accepts YYYY-MM-DD strings that are today or later in the studio time zone.
// Unparseable values pass so the datetime rule reports them instead.
func notPast(fl govalidator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	d, err := time.ParseInLocation(DateLayout, raw, location)
	if err != nil {
		return true
	}
	return !d.Before(Today())
}

// Today returns midnight of the current day in the studio time zone.
func Today() time.Time {
	y, m, d := now().In(location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, location)
}

// Location returns the time zone dates are interpreted in.
func Location() *time.Location {
	return location
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans == nil {
				fields[fe.Field()] = fe.Error()
				continue
			}
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
