package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bokclean/pkg/logger"
	"bokclean/pkg/model"
	"bokclean/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

var timeSlotRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingFormValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingFormValidator(log *logger.Logger) *BookingFormValidator {
	v := validator.New()

	log.Info("Booking form validator initialized successfully")

	return &BookingFormValidator{
		validate: v,
		logger:   log,
	}
}

// Sanitize normalizes the free-text fields of a submission in place.
// Runs before Validate so the checks see the canonical values.
func (v *BookingFormValidator) Sanitize(form *model.BookingForm) {
	form.FirstName = sanitizer.NormalizeName(form.FirstName)
	form.LastName = sanitizer.NormalizeName(form.LastName)
	form.Email = sanitizer.NormalizeEmail(form.Email)
	form.Phone = sanitizer.NormalizePhone(form.Phone)
	form.StreetAddress = sanitizer.NormalizeAddress(form.StreetAddress)
	form.AptUnit = sanitizer.TrimAndNormalize(form.AptUnit)
	form.Suburb = sanitizer.NormalizeAddress(form.Suburb)
	form.City = sanitizer.NormalizeAddress(form.City)
	form.SpecialInstructions = sanitizer.TrimAndNormalize(form.SpecialInstructions)
	form.CleanerPreference = sanitizer.TrimAndNormalize(form.CleanerPreference)
	form.Extras = sanitizer.NormalizeExtras(form.Extras)
	form.DiscountCode = sanitizer.NormalizeDiscountCode(form.DiscountCode)
	form.PaymentReference = sanitizer.TrimAndNormalize(form.PaymentReference)
}

func (v *BookingFormValidator) Validate(form *model.BookingForm) error {
	if err := v.validate.Struct(form); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	// Sanitize blanks the phone when it cannot be parsed for a
	// supported region.
	if form.Phone == "" {
		return ValidationErrors{
			ValidationError{
				Field:   "Phone",
				Message: "phone must be a valid mobile number",
			},
		}
	}

	if !timeSlotRegex.MatchString(form.ScheduledTime) {
		return ValidationErrors{
			ValidationError{
				Field:   "ScheduledTime",
				Message: "scheduled_time must be in HH:MM format",
			},
		}
	}

	scheduled, err := time.Parse("2006-01-02", form.ScheduledDate)
	if err != nil {
		return ValidationErrors{
			ValidationError{
				Field:   "ScheduledDate",
				Message: "scheduled_date must be in YYYY-MM-DD format",
			},
		}
	}

	today := time.Now().Truncate(24 * time.Hour)
	if scheduled.Before(today) {
		return ValidationErrors{
			ValidationError{
				Field:   "ScheduledDate",
				Message: "scheduled_date cannot be in the past",
			},
		}
	}

	if form.PaymentMethod == model.PayMethodCard && form.PaymentReference == "" {
		return ValidationErrors{
			ValidationError{
				Field:   "PaymentReference",
				Message: "payment_reference is required for card payments",
			},
		}
	}

	return nil
}

func (v *BookingFormValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must match the format %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
