package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	apperrors "aura-backend/internal/shared/errors"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern  = regexp.MustCompile(`^1[0-46-9]-*[0-9]{6,7}$`)
	latLngPattern = regexp.MustCompile(`^\d{1,3}\.\d{0,2},\d{1,3}\.\d{0,2}$`)
)

// Validator wraps a go-playground validator with the request rules used by the API.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator that accepts countryCode as the only supported dialing prefix.
func New(countryCode string) *Validator {
	v := validator.New()

	// Report json (or query string) field names so messages match the request.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	_ = v.RegisterValidation("my_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("latlng", func(fl validator.FieldLevel) bool {
		return latLngPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("country_code", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == countryCode
	})

	return &Validator{validate: v}
}

// Struct validates s and returns the first failing field as a validation AppError.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.NewValidationError(err.Error())
	}
	return apperrors.NewValidationError(message(fieldErrs[0])).
		WithDetail("field", fieldErrs[0].Namespace())
}

// Var validates a single value against tag.
func (v *Validator) Var(field interface{}, tag string) error {
	if err := v.validate.Var(field, tag); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("value does not satisfy %q", tag))
	}
	return nil
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "my_phone":
		return fmt.Sprintf("%q is not a valid phone number", field)
	case "latlng":
		return fmt.Sprintf("%q must look like lat,lng", field)
	case "country_code":
		return fmt.Sprintf("%q is not a supported country code", field)
	case "min":
		return fmt.Sprintf("%q must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%q must be at most %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%q must have length %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%q must be a date in layout %s", field, fe.Param())
	}
	return fmt.Sprintf("%q failed on the %q rule", field, fe.Tag())
}
