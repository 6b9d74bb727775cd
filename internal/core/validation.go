// AngelaMos | 2026
// validation.go

package core

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(
	`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`,
)

var (
	ErrInvalidEmail = ValidationError("invalid_email", "email is not valid")
	ErrNotAnInteger = ValidationError("not_an_integer", "must be a whole number")
	ErrNotPositive  = ValidationError("not_positive", "must be a positive integer")
	ErrInvalidDate  = ValidationError(
		"invalid_date",
		"invalid date, use YYYY-MM-DD or YYYY-MM-DD HH:MM:SS",
	)
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func ValidatePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrNotAnInteger
	}
	if n <= 0 {
		return 0, ErrNotPositive
	}
	return n, nil
}

// ParseDate reads a wall clock time in UTC. Event columns carry no zone and
// pgx returns them as UTC, so input must compare in the same location.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	layout := DateTimeLayout
	if len(s) == len(DateLayout) {
		layout = DateLayout
	}

	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// NewValidator returns a validator with the crmemail tag registered so DTOs
// apply the same email shape as ValidateEmail.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	//nolint:errcheck // tag name and func are static
	_ = v.RegisterValidation("crmemail", func(fl validator.FieldLevel) bool {
		return ValidateEmail(fl.Field().String())
	})

	return v
}

func ValidateStruct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "crmemail" {
			return ErrInvalidEmail
		}
		return ValidationError("invalid_request", FormatValidationError(err))
	}
	return nil
}

func FormatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid input"
	}

	fe := verrs[0]
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "crmemail", "email":
		return fmt.Sprintf("%s is not a valid email", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
